package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the site's pages into the local cache",
		Long: `Fetch site.database_id, every page in it with its block tree, and the
attached collection, and store them in the cache so that later commands
can run with --offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			src, err := app.Recorder()
			if err != nil {
				return err
			}
			opts := app.BuildOptions()
			if opts.DatabaseID == "" {
				return fmt.Errorf("site.database_id is not set")
			}
			ctx := cmd.Context()
			pages, err := src.ListPages(ctx, opts.DatabaseID)
			if err != nil {
				return fmt.Errorf("list pages: %w", err)
			}
			if opts.AttachDatabaseID != "" {
				if _, err := src.ListPages(ctx, opts.AttachDatabaseID); err != nil {
					return fmt.Errorf("attached collection: %w", err)
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(max(1, opts.Concurrency))
			for _, p := range pages {
				g.Go(func() error {
					if err := src.Record(gctx, p.ID); err != nil {
						return fmt.Errorf("page %s: %w", p.ID, err)
					}
					app.Log.Debug("fetched", zap.String("page_id", p.ID))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d pages\n", len(pages))
			return nil
		},
	}
	return cmd
}
