package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/sprout/internal/schedule"
	"github.com/mithrel/sprout/internal/server"
	"github.com/mithrel/sprout/internal/ui"
)

func newServeCmd() *cobra.Command {
	var (
		dir   string
		build bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built site over HTTP(S)",
		Long: `Serve build.out_dir on http_addr until interrupted. HTTPS is used when
tls.cert_file/tls.key_file or tls.domain is set; with tls.domain the
certificate is obtained over ACME and challenges are answered on
tls.challenge_addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if dir == "" {
				dir = app.Cfg.GetString("build.out_dir")
			}
			if build {
				src, err := source(cmd, app)
				if err != nil {
					return err
				}
				opts := app.BuildOptions()
				opts.OutDir = dir
				rep, err := app.Builder(src, opts).Build(ctx)
				if rep != nil {
					fmt.Fprint(cmd.ErrOrStderr(), ui.FormatReport(rep, false))
				}
				if err != nil {
					return err
				}
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("site directory: %w (run build first)", err)
			}

			tlsConf, challenges, err := server.BuildTLS(ctx, app.TLSOptions())
			if err != nil {
				return fmt.Errorf("tls: %w", err)
			}
			srv := server.New(dir, app.Log)

			g, gctx := errgroup.WithContext(ctx)
			if every := app.Cfg.GetDuration("build.rebuild_every"); every > 0 {
				src, err := source(cmd, app)
				if err != nil {
					return err
				}
				opts := app.BuildOptions()
				opts.OutDir = dir
				g.Go(func() error {
					app.Log.Info("rebuilding periodically", zap.Duration("every", every))
					(&schedule.Scheduler{Every: every}).Run(gctx, func(ctx context.Context) error {
						_, err := app.Builder(src, opts).Build(ctx)
						return err
					}, func(err error) {
						app.Log.Warn("rebuild failed", zap.Error(err))
					})
					return nil
				})
			}
			g.Go(func() error {
				return srv.ListenAndServe(gctx, app.Cfg.GetString("http_addr"), tlsConf)
			})
			if challenges != nil {
				addr := app.Cfg.GetString("tls.challenge_addr")
				g.Go(func() error {
					if err := srv.ServeChallenges(gctx, addr, challenges); err != nil {
						app.Log.Warn("acme challenge listener", zap.String("addr", addr), zap.Error(err))
					}
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().String("addr", "", "override http_addr")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to serve (default build.out_dir)")
	cmd.Flags().BoolVar(&build, "build", false, "build the site before serving")
	cmd.Flags().Duration("rebuild-every", 0, "override build.rebuild_every")
	return cmd
}
