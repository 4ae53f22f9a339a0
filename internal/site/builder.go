package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/sprout/internal/db"
	"github.com/mithrel/sprout/internal/render"
	"github.com/mithrel/sprout/pkg/api"
)

type Options struct {
	// DatabaseID is the collection whose pages make up the site.
	DatabaseID string
	// AttachPageID names the page that shows the rows of AttachDatabaseID
	// below its content.
	AttachPageID     string
	AttachDatabaseID string
	OutDir           string
	Concurrency      int
	Sanitize         bool
	// Force rewrites outputs even when their hash is unchanged.
	Force bool
	// Progress, when set, is called once per file as it completes. Calls
	// are serialized.
	Progress func(FileResult)
}

// Document is one page with everything needed to render it.
type Document struct {
	Page    *api.Page
	Blocks  []api.Block
	Records []api.Block
}

type Builder struct {
	src      Source
	store    db.Store
	renderer *render.Renderer
	opts     Options
	policy   *bluemonday.Policy
	log      *zap.Logger

	attachOnce sync.Once
	attached   []api.Block
	attachErr  error
}

// New returns a Builder. store may be nil, which disables skipping
// unchanged outputs.
func New(src Source, store db.Store, r *render.Renderer, opts Options, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.OutDir == "" {
		opts.OutDir = "public"
	}
	opts.DatabaseID = api.CanonicalID(opts.DatabaseID)
	opts.AttachPageID = api.CanonicalID(opts.AttachPageID)
	opts.AttachDatabaseID = api.CanonicalID(opts.AttachDatabaseID)
	b := &Builder{src: src, store: store, renderer: r, opts: opts, log: log.Named("site")}
	if opts.Sanitize {
		b.policy = NewPolicy()
	}
	return b
}

// Load fetches a page, its block tree and, for the attach page, the rows
// of the attached collection.
func (b *Builder) Load(ctx context.Context, id string) (*Document, error) {
	page, err := b.src.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	blocks, err := b.src.GetBlockTree(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := &Document{Page: page, Blocks: blocks}
	if b.opts.AttachDatabaseID != "" && api.CanonicalID(id) == b.opts.AttachPageID {
		records, err := b.attachedRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("attached collection %s: %w", b.opts.AttachDatabaseID, err)
		}
		doc.Records = records
	}
	return doc, nil
}

func (b *Builder) attachedRecords(ctx context.Context) ([]api.Block, error) {
	b.attachOnce.Do(func() {
		pages, err := b.src.ListPages(ctx, b.opts.AttachDatabaseID)
		if err != nil {
			b.attachErr = err
			return
		}
		b.attached = api.Records(pages)
	})
	return b.attached, b.attachErr
}

// Build renders the index and every page of the database into OutDir.
// A failing page is reported and does not stop the others; the returned
// error joins all page failures.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	if b.opts.DatabaseID == "" {
		return nil, errors.New("site: no database id configured")
	}
	pages, err := b.src.ListPages(ctx, b.opts.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	b.log.Info("building site", zap.String("database_id", b.opts.DatabaseID), zap.Int("pages", len(pages)), zap.String("out", b.opts.OutDir))

	rep := &Report{OutDir: b.opts.OutDir}
	var mu sync.Mutex
	record := func(r FileResult) {
		mu.Lock()
		defer mu.Unlock()
		rep.Files = append(rep.Files, r)
		if b.opts.Progress != nil {
			b.opts.Progress(r)
		}
	}

	index := FileResult{Path: "index.html", Title: "index"}
	index.Status, index.Bytes, index.Err = b.write(ctx, "index.html", "index", b.renderer.Index(pages).String())
	record(index)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for _, p := range pages {
		g.Go(func() error {
			record(b.buildPage(gctx, p))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.sort()
	rep.Duration = time.Since(start)
	errs := rep.Errors()
	b.log.Info("build finished",
		zap.Int("written", rep.Count(StatusWritten)),
		zap.Int("unchanged", rep.Count(StatusUnchanged)),
		zap.Int("failed", rep.Count(StatusFailed)),
		zap.Duration("took", rep.Duration))
	return rep, errs
}

func (b *Builder) buildPage(ctx context.Context, p api.Page) FileResult {
	rel := filepath.ToSlash(filepath.Join(p.ID, "index.html"))
	res := FileResult{Path: rel, PageID: p.ID, Title: api.FirstPlainText(p.Title())}
	doc, err := b.Load(ctx, p.ID)
	if err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("page %s: %w", p.ID, err)
		b.log.Warn("page failed", zap.String("page_id", p.ID), zap.Error(err))
		return res
	}
	html := b.renderer.Page(doc.Page, doc.Blocks, doc.Records).String()
	res.Status, res.Bytes, res.Err = b.write(ctx, rel, p.ID, html)
	if res.Err != nil {
		res.Err = fmt.Errorf("page %s: %w", p.ID, res.Err)
	}
	return res
}

// write stores out under rel unless the cached hash shows the file is
// already current.
func (b *Builder) write(ctx context.Context, rel, key, out string) (Status, int, error) {
	data := []byte(out)
	if b.policy != nil {
		data = Sanitize(b.policy, data)
	}
	hash := api.HashDocument(key, data)
	full := filepath.Join(b.opts.OutDir, filepath.FromSlash(rel))

	if b.store != nil && !b.opts.Force {
		prev, err := b.store.GetOutput(ctx, rel)
		if err == nil && prev == hash && fileMatches(full, data) {
			return StatusUnchanged, len(data), nil
		}
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			b.log.Warn("output hash lookup failed", zap.String("path", rel), zap.Error(err))
		}
	}

	if err := writeFileAtomic(full, data); err != nil {
		return StatusFailed, 0, err
	}
	if b.store != nil {
		if err := b.store.PutOutput(ctx, rel, hash); err != nil {
			b.log.Warn("record output hash", zap.String("path", rel), zap.Error(err))
		}
	}
	b.log.Debug("wrote", zap.String("path", rel), zap.Int("bytes", len(data)))
	return StatusWritten, len(data), nil
}

func fileMatches(path string, data []byte) bool {
	cur, err := os.ReadFile(path)
	return err == nil && bytes.Equal(cur, data)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sprout-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
