package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/sprout/internal/present"
	"github.com/mithrel/sprout/internal/present/format"
	"github.com/mithrel/sprout/internal/site"
	"github.com/mithrel/sprout/internal/util"
	"github.com/mithrel/sprout/internal/wire"
	"github.com/mithrel/sprout/pkg/api"
)

func newPreviewCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "preview <page>",
		Short: "Render one page to the terminal",
		Long: `Render one page. <page> is a page id, a page URL, or a title of a page in
site.database_id (matched fuzzily when not exact).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePageTitles,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			mode, err := present.ParseModeFor(outputMode, present.ModePretty, present.ModeMarkdown, present.ModeHTML, present.ModeJSON)
			if err != nil {
				return err
			}
			src, err := source(cmd, app)
			if err != nil {
				return err
			}
			id, err := resolvePage(cmd.Context(), app, src, args[0])
			if err != nil {
				return err
			}
			return previewPage(cmd, app, src, id, mode)
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "pretty", "output mode: pretty|markdown|html|json")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("pretty", "markdown", "html", "json"))
	return cmd
}

func previewPage(cmd *cobra.Command, app *wire.App, src site.Source, id string, mode present.Mode) error {
	doc, err := app.Builder(src, app.BuildOptions()).Load(cmd.Context(), id)
	if err != nil {
		return err
	}
	opts := present.Options{Mode: mode, JSONIndent: isTerminal(cmd.OutOrStdout()), Width: terminalWidth(cmd.OutOrStdout())}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
		return present.RenderDocument(w, app.Renderer, format.Document{Page: doc.Page, Blocks: doc.Blocks, Records: doc.Records}, opts)
	})
}

// resolvePage accepts ids and URLs directly and otherwise matches ref
// against the titles of the site's pages.
func resolvePage(ctx context.Context, app *wire.App, src site.Source, ref string) (string, error) {
	if id, err := api.ParseID(ref); err == nil {
		return id, nil
	}
	dbID := app.BuildOptions().DatabaseID
	if dbID == "" {
		return "", fmt.Errorf("%q is not a page id and site.database_id is not set", ref)
	}
	pages, err := src.ListPages(ctx, dbID)
	if err != nil {
		return "", err
	}
	return util.ResolvePageID(ref, pages)
}

// completePageTitles completes page titles from the cache only, so
// completion never waits on the network.
func completePageTitles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	app, err := loadApp(cmd, zap.NewNop())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer app.Close()
	pages, err := site.NewCachedSource(app.Store).ListPages(cmd.Context(), app.BuildOptions().DatabaseID)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	titles := make([]string, 0, len(pages))
	for _, p := range pages {
		titles = append(titles, api.PlainText(p.Title()))
	}
	return util.ScoreCompletions(toComplete, titles, 20), cobra.ShellCompDirectiveNoFileComp
}
