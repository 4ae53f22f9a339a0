package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/sprout/internal/config"
	"github.com/mithrel/sprout/internal/site"
	"github.com/mithrel/sprout/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// skipAppAnnotation marks commands that run without a wired App.
const skipAppAnnotation = "sprout/skip-app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sprout",
		Short:         "sprout renders a Notion database into a static site",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}
			app, err := loadApp(cmd, nil)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "path to config file (toml|yaml)")
	cmd.PersistentFlags().String("log-level", "", "override log.level")
	cmd.PersistentFlags().Bool("offline", false, "read pages from the local cache instead of the API")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newPagesCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

// loadApp resolves config for cmd (file, env, then flags), validates it
// and wires the App. log may be nil.
func loadApp(cmd *cobra.Command, log *zap.Logger) (*wire.App, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	v, err := loadConfigFile(cmd, cfgPath)
	if err != nil {
		return nil, err
	}
	applyConfigFlagOverrides(cmd, v, map[string]string{
		"log-level":     "log.level",
		"out":           "build.out_dir",
		"concurrency":   "build.concurrency",
		"addr":          "http_addr",
		"rebuild-every": "build.rebuild_every",
	})
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return wire.BuildApp(cmd.Context(), v, log)
}

func getApp(cmd *cobra.Command) (*wire.App, error) {
	app, ok := cmd.Context().Value(appKey).(*wire.App)
	if !ok {
		return nil, errors.New("internal error: app not initialized")
	}
	return app, nil
}

// source returns the cache or the live API depending on --offline.
func source(cmd *cobra.Command, app *wire.App) (site.Source, error) {
	offline, _ := cmd.Flags().GetBool("offline")
	return app.Source(offline)
}
