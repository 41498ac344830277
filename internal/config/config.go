// Package config loads mmcifsite settings.
//
// Settings come from four layers, highest first: command-line flags,
// environment variables, the TOML config file and built-in defaults. This
// package handles the last three; the CLI applies flags on top of the
// loaded [Config].
//
// # File
//
//	[paths]
//	web_gen_path = "/var/www/mmcif"
//	web_file_assets_path = "/data/assets"
//
//	[figures]
//	renderer = "dot"
//	max_items = 20
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// # Environment
//
// Every MMCIFSITE_* variable listed in [envBindings] overrides its file
// value. GRAPHVIZ_DOT_BINARY selects the dot executable.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mmcifsite/pkg/errors"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "mmcifsite.toml"

// Config is the complete settings tree.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Figures Figures `toml:"figures"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Run     Run     `toml:"run"`
	Serve   Serve   `toml:"serve"`
}

type Paths struct {
	WebGenPath        string `toml:"web_gen_path"`
	WebFileAssetsPath string `toml:"web_file_assets_path"`
	TopDir            string `toml:"top_dir"`
}

type Figures struct {
	Renderer      string `toml:"renderer"`
	DotBinary     string `toml:"dot_binary"`
	MaxItems      int    `toml:"max_items"`
	MaxCategories int    `toml:"max_categories"`
	Size          string `toml:"size"`
	Cleanup       bool   `toml:"cleanup"`
	Responsive    bool   `toml:"responsive"`
}

type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

type Run struct {
	Concurrency int  `toml:"concurrency"`
	TestMode    bool `toml:"test_mode"`
}

type Serve struct {
	Addr  string `toml:"addr"`
	Watch bool   `toml:"watch"`
}

// Duration is a time.Duration written as a Go duration string, e.g. "720h".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Paths:   Paths{WebGenPath: "docs", WebFileAssetsPath: "assets", TopDir: "dictionaries"},
		Figures: Figures{Renderer: "graphviz", MaxItems: 20},
		Cache:   Cache{Backend: BackendFile, TTL: Duration{30 * 24 * time.Hour}},
		Store:   Store{Backend: BackendFile, Database: "mmcifsite"},
		Serve:   Serve{Addr: ":8080"},
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path reads [DefaultFile] when it exists.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// envBindings maps environment variables to string settings.
var envBindings = map[string]func(*Config) *string{
	"MMCIFSITE_WEB_GEN_PATH":         func(c *Config) *string { return &c.Paths.WebGenPath },
	"MMCIFSITE_WEB_FILE_ASSETS_PATH": func(c *Config) *string { return &c.Paths.WebFileAssetsPath },
	"MMCIFSITE_TOP_DIR":              func(c *Config) *string { return &c.Paths.TopDir },
	"MMCIFSITE_RENDERER":             func(c *Config) *string { return &c.Figures.Renderer },
	"GRAPHVIZ_DOT_BINARY":            func(c *Config) *string { return &c.Figures.DotBinary },
	"MMCIFSITE_CACHE_BACKEND":        func(c *Config) *string { return &c.Cache.Backend },
	"MMCIFSITE_CACHE_DIR":            func(c *Config) *string { return &c.Cache.Dir },
	"MMCIFSITE_REDIS_URL":            func(c *Config) *string { return &c.Cache.RedisURL },
	"MMCIFSITE_STORE_BACKEND":        func(c *Config) *string { return &c.Store.Backend },
	"MMCIFSITE_STORE_DIR":            func(c *Config) *string { return &c.Store.Dir },
	"MMCIFSITE_MONGO_URI":            func(c *Config) *string { return &c.Store.MongoURI },
	"MMCIFSITE_MONGO_DATABASE":       func(c *Config) *string { return &c.Store.Database },
	"MMCIFSITE_SERVE_ADDR":           func(c *Config) *string { return &c.Serve.Addr },
}

func (c *Config) applyEnv(getenv func(string) string) error {
	for name, field := range envBindings {
		if v := getenv(name); v != "" {
			*field(c) = v
		}
	}
	if v := getenv("MMCIFSITE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "MMCIFSITE_CONCURRENCY=%q", v)
		}
		c.Run.Concurrency = n
	}
	if v := getenv("MMCIFSITE_TEST_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "MMCIFSITE_TEST_MODE=%q", v)
		}
		c.Run.TestMode = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}
	switch c.Figures.Renderer {
	case "graphviz", "dot":
	default:
		return invalid("figures.renderer must be graphviz or dot, got %q", c.Figures.Renderer)
	}
	if c.Figures.MaxItems < 0 || c.Figures.MaxCategories < 0 {
		return invalid("figures limits must not be negative")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}
	switch c.Store.Backend {
	case BackendNone, BackendFile:
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return invalid("store.mongo_uri is required for the mongo backend")
		}
		if err := errors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.mongo_uri")
		}
		if c.Store.Database == "" {
			return invalid("store.database is required for the mongo backend")
		}
	default:
		return invalid("unknown store backend %q", c.Store.Backend)
	}
	if c.Run.Concurrency < 0 {
		return invalid("run.concurrency must not be negative")
	}
	if c.Paths.TopDir != "" {
		if err := errors.ValidateName(c.Paths.TopDir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "paths.top_dir")
		}
	}
	return nil
}
