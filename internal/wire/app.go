package wire

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/sprout/internal/config"
	"github.com/mithrel/sprout/internal/db"
	"github.com/mithrel/sprout/internal/keys"
	"github.com/mithrel/sprout/internal/notion"
	"github.com/mithrel/sprout/internal/render"
	"github.com/mithrel/sprout/internal/server"
	"github.com/mithrel/sprout/internal/site"
	"github.com/mithrel/sprout/pkg/api"
)

// ErrNoToken is returned when a live source is requested without notion.token.
var ErrNoToken = errors.New("notion.token is not set (config file, SPROUT_NOTION_TOKEN or sprout auth login)")

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Store    db.Store
	Renderer *render.Renderer
	Tokens   keys.TokenStore
}

// BuildApp wires dependencies with the provided, already loaded, config.
// log may be nil, in which case one is built from log.env and log.level.
func BuildApp(ctx context.Context, cfg *viper.Viper, log *zap.Logger) (*App, error) {
	if log == nil {
		var err error
		log, err = config.InitLogger(cfg.GetString("log.env"), cfg.GetString("log.level"))
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	dsn := config.ResolveCacheDSN(cfg)
	store, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dsn, err)
	}
	log.Debug("cache opened", zap.String("dsn", dsn))
	return &App{
		Cfg:      cfg,
		Log:      log,
		Store:    store,
		Renderer: NewRenderer(cfg),
		Tokens:   &keys.KeyringStore{},
	}, nil
}

// NewRenderer builds a renderer from the site.* keys.
func NewRenderer(cfg *viper.Viper) *render.Renderer {
	return render.New(render.Options{
		SiteTitle:  cfg.GetString("site.title"),
		BasePath:   cfg.GetString("site.base_path"),
		Stylesheet: cfg.GetString("site.stylesheet"),
		Icon:       cfg.GetString("site.icon"),
		ReadMore:   cfg.GetString("site.read_more"),
	})
}

// Source returns the cache when offline is set, and otherwise the live
// API recording everything it fetches into the cache. The API token comes
// from notion.token or, failing that, the system keyring.
func (a *App) Source(offline bool) (site.Source, error) {
	if offline {
		return site.NewCachedSource(a.Store), nil
	}
	rec, err := a.Recorder()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Recorder returns the live API wrapped so that everything it fetches is
// written to the cache.
func (a *App) Recorder() (*site.RecordingSource, error) {
	token := keys.ResolveToken(a.Cfg.GetString("notion.token"), a.Tokens)
	if token == "" {
		return nil, ErrNoToken
	}
	a.Cfg.Set("notion.token", token)
	return site.NewRecordingSource(notion.New(a.Cfg, a.Log), a.Store), nil
}

// BuildOptions returns builder options from the site.* and build.* keys.
func (a *App) BuildOptions() site.Options {
	return site.Options{
		DatabaseID:       api.CanonicalID(a.Cfg.GetString("site.database_id")),
		AttachPageID:     api.CanonicalID(a.Cfg.GetString("site.attach.page_id")),
		AttachDatabaseID: api.CanonicalID(a.Cfg.GetString("site.attach.database_id")),
		OutDir:           a.Cfg.GetString("build.out_dir"),
		Concurrency:      a.Cfg.GetInt("build.concurrency"),
		Sanitize:         a.Cfg.GetBool("build.sanitize"),
	}
}

// Builder returns a site builder over src.
func (a *App) Builder(src site.Source, opts site.Options) *site.Builder {
	return site.New(src, a.Store, a.Renderer, opts, a.Log)
}

// TLSOptions returns the tls.* keys. Certificates obtained over ACME are
// stored under data_dir/certmagic.
func (a *App) TLSOptions() server.TLSOptions {
	return server.TLSOptions{
		Domain:     a.Cfg.GetString("tls.domain"),
		Email:      a.Cfg.GetString("tls.email"),
		StorageDir: filepath.Join(config.DataDir(a.Cfg), "certmagic"),
		CertFile:   a.Cfg.GetString("tls.cert_file"),
		KeyFile:    a.Cfg.GetString("tls.key_file"),
	}
}

// Close releases the cache and flushes the logger.
func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
