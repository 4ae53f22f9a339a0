package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// Configure Viper search paths. If SetConfigFile was provided upstream,
	// it takes precedence; these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "sprout"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sprout"))
		}
		v.AddConfigPath(".")
	}

	// Apply centralized defaults (lowest precedence)
	applyDefaults(v)

	// Read config file if present (overrides defaults). A file that exists
	// but does not parse is an error; a missing file is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: SPROUT_* (highest among these sources)
	v.SetEnvPrefix("sprout")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Normalize a few dependent values post-merge
	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("cache.dsn")) == "" {
		v.Set("cache.dsn", "sqlite://"+filepath.Join(expandHome(v.GetString("data_dir")), "cache.db"))
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/sprout or ~/.local/share/sprout
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "sprout")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "sprout")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "sprout", "config.toml")
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// DataDir returns data_dir with ~ expanded.
func DataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	return expandHome(dir)
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the cache lives in data_dir/cache.db"},
		{Key: "http_addr", Default: ":8080", Comment: "Listen address for serve"},

		{Key: "cache.dsn", Default: "", Comment: "Cache store: sqlite://path or mem://; empty uses data_dir/cache.db"},

		{Key: "notion.token", Default: "", Comment: "Integration token sent as a Bearer token"},
		{Key: "notion.base_url", Default: "https://api.notion.com", Comment: "API base URL"},
		{Key: "notion.version", Default: "2022-06-28", Comment: "Value of the Notion-Version header"},
		{Key: "notion.page_size", Default: 100, Comment: "Page size for paginated requests (1-100)"},
		{Key: "notion.timeout", Default: "20s", Comment: "Per-request timeout"},

		{Key: "site.database_id", Default: "", Comment: "Database whose pages make up the site"},
		{Key: "site.title", Default: "Stay Young, Stay Simple", Comment: "Title of the index page"},
		{Key: "site.base_path", Default: "/", Comment: "Prefix of page links on the index"},
		{Key: "site.stylesheet", Default: "", Comment: "Stylesheet href added to every page"},
		{Key: "site.icon", Default: "", Comment: "Favicon href added to every page"},
		{Key: "site.read_more", Default: "Read more →", Comment: "Label of the index link to each page"},
		{Key: "site.attach.page_id", Default: "", Comment: "Page that lists the rows of site.attach.database_id below its content"},
		{Key: "site.attach.database_id", Default: "", Comment: "Collection attached to site.attach.page_id"},

		{Key: "build.out_dir", Default: "public", Comment: "Output directory for the static site"},
		{Key: "build.concurrency", Default: 4, Comment: "Pages fetched and rendered in parallel"},
		{Key: "build.sanitize", Default: true, Comment: "Filter rendered pages through an HTML sanitizer"},
		{Key: "build.rebuild_every", Default: "0s", Comment: "While serving, rebuild from the API at this interval (0 disables)"},

		{Key: "tls.domain", Default: "", Comment: "Serve HTTPS for this domain with ACME certificates"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.cert_file", Default: "", Comment: "PEM certificate for HTTPS; overrides tls.domain"},
		{Key: "tls.key_file", Default: "", Comment: "PEM private key for tls.cert_file"},
		{Key: "tls.challenge_addr", Default: ":80", Comment: "Listen address for ACME HTTP-01 challenges"},

		{Key: "log.level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "log.env", Default: "development", Comment: "development (console) or production (JSON)"},
	}
}

// ResolveCacheDSN returns cache.dsn, defaulting to the sqlite file in data_dir.
func ResolveCacheDSN(v *viper.Viper) string {
	if dsn := strings.TrimSpace(v.GetString("cache.dsn")); dsn != "" {
		return dsn
	}
	return "sqlite://" + filepath.Join(DataDir(v), "cache.db")
}

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if dsn := strings.TrimSpace(v.GetString("cache.dsn")); dsn != "" &&
		strings.Contains(dsn, "://") && !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "mem://") {
		add("cache.dsn must be sqlite:// or mem://")
	}

	if u, err := url.Parse(v.GetString("notion.base_url")); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("notion.base_url must be an http(s) url")
	}
	if n := v.GetInt("notion.page_size"); n <= 0 || n > 100 {
		add("notion.page_size must be between 1 and 100")
	}
	if v.GetDuration("notion.timeout") <= 0 {
		add("notion.timeout must be a positive duration")
	}

	if (v.GetString("site.attach.page_id") == "") != (v.GetString("site.attach.database_id") == "") {
		add("site.attach.page_id and site.attach.database_id must be set together")
	}

	if strings.TrimSpace(v.GetString("build.out_dir")) == "" {
		add("build.out_dir is required")
	}
	if v.GetInt("build.concurrency") <= 0 {
		add("build.concurrency must be greater than 0")
	}

	if v.GetDuration("build.rebuild_every") < 0 {
		add("build.rebuild_every must not be negative")
	}

	if (v.GetString("tls.cert_file") == "") != (v.GetString("tls.key_file") == "") {
		add("tls.cert_file and tls.key_file must be set together")
	}

	if lvl := v.GetString("log.level"); lvl != "" {
		if _, err := zapcore.ParseLevel(lvl); err != nil {
			add("log.level %q is not a level", lvl)
		}
	}
	switch v.GetString("log.env") {
	case "", "development", "production":
	default:
		add("log.env must be development or production")
	}

	return errors.Join(errs...)
}
