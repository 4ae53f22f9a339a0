package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/sprout/internal/present"
	"github.com/mithrel/sprout/internal/util"
)

func newPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Inspect the pages of site.database_id",
	}
	cmd.AddCommand(newPagesListCmd())
	cmd.AddCommand(newPagesFindCmd())
	return cmd
}

type listFlags struct {
	outputMode string
	noHeaders  bool
	since      string
	until      string
}

func (f *listFlags) register(cmd *cobra.Command, defaultMode string) {
	cmd.Flags().StringVarP(&f.outputMode, "output", "o", defaultMode, "output mode: plain|json|ndjson|tui")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletions("plain", "json", "ndjson", "tui"))
	cmd.Flags().BoolVar(&f.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	cmd.Flags().StringVar(&f.since, "since", "", "only pages edited since (2h, 3d, 1w, 1mo, 2006-01-02)")
	cmd.Flags().StringVar(&f.until, "until", "", "only pages edited until")
}

func newPagesListCmd() *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPageList(cmd, "", 0, flags)
		},
	}
	defaultMode := "plain"
	if isTerminal(cmd.OutOrStdout()) {
		defaultMode = "tui"
	}
	flags.register(cmd, defaultMode)
	return cmd
}

func newPagesFindCmd() *cobra.Command {
	var (
		flags listFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find pages by fuzzy title match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPageList(cmd, args[0], limit, flags)
		},
	}
	flags.register(cmd, "plain")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of matches (0 for all)")
	return cmd
}

func runPageList(cmd *cobra.Command, query string, limit int, flags listFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	mode, err := present.ParseModeFor(flags.outputMode, present.ModePlain, present.ModeJSON, present.ModeNDJSON, present.ModeTUI)
	if err != nil {
		return err
	}
	dbID := app.BuildOptions().DatabaseID
	if dbID == "" {
		return fmt.Errorf("site.database_id is not set")
	}
	src, err := source(cmd, app)
	if err != nil {
		return err
	}
	pages, err := src.ListPages(cmd.Context(), dbID)
	if err != nil {
		return err
	}
	if pages, err = util.EditedBetween(pages, flags.since, flags.until, time.Now()); err != nil {
		return err
	}
	pages = util.FindPages(query, pages, limit)

	opts := present.Options{Mode: mode, Headers: !flags.noHeaders}
	if mode == present.ModeTUI {
		chosen, err := present.BrowsePages(cmd.Context(), pages, opts)
		if err != nil || chosen == nil {
			return err
		}
		return previewPage(cmd, app, src, chosen.ID, present.ModePretty)
	}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
		return present.RenderPages(w, pages, opts)
	})
}
