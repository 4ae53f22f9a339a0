package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/sprout/internal/present"
	"github.com/mithrel/sprout/internal/site"
	"github.com/mithrel/sprout/internal/ui"
)

func newBuildCmd() *cobra.Command {
	var (
		outputMode string
		force      bool
		noSanitize bool
		noHeaders  bool
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into build.out_dir",
		Long: `Render the index and every page of site.database_id into build.out_dir.
Pages whose output did not change since the last build are left alone.
A page that fails to load is reported and does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			mode, err := present.ParseModeFor(outputMode, present.ModePretty, present.ModePlain, present.ModeJSON, present.ModeNDJSON)
			if err != nil {
				return err
			}
			src, err := source(cmd, app)
			if err != nil {
				return err
			}

			opts := app.BuildOptions()
			opts.Force = force
			if noSanitize {
				opts.Sanitize = false
			}
			popts := present.Options{Mode: mode, Headers: !noHeaders}
			stream, err := present.NewResultWriter(cmd.OutOrStdout(), popts)
			if err != nil {
				return err
			}
			var streamErr error
			if stream != nil {
				opts.Progress = func(r site.FileResult) {
					if err := stream.WriteResult(r); err != nil && streamErr == nil {
						streamErr = err
					}
				}
			}

			rep, buildErr := app.Builder(src, opts).Build(cmd.Context())
			if stream != nil {
				if err := stream.Close(); err != nil && streamErr == nil {
					streamErr = err
				}
			} else if rep != nil {
				fmt.Fprint(cmd.OutOrStdout(), ui.FormatReport(rep, verbose))
			}
			if buildErr != nil {
				return buildErr
			}
			return streamErr
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "pretty", "output mode: pretty|plain|json|ndjson")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("pretty", "plain", "json", "ndjson"))
	cmd.Flags().String("out", "", "override build.out_dir")
	cmd.Flags().Int("concurrency", 0, "override build.concurrency")
	cmd.Flags().BoolVar(&force, "force", false, "rewrite outputs even when unchanged")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "skip the HTML sanitizer")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list unchanged files too (pretty)")
	return cmd
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(values))
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
