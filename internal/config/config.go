// Package config loads wca-notifier settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with WCA_. The first segment after the
// prefix names the section and the remainder is the key, so
// WCA_EMAIL_RESEND_API_KEY sets email.resend_api_key.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "WCA_"

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "config.yaml"

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Email providers.
const (
	ProviderDryRun = "dryrun"
	ProviderResend = "resend"
)

type Config struct {
	Log       Log       `koanf:"log"`
	Site      Site      `koanf:"site"`
	Fetch     Fetch     `koanf:"fetch"`
	Discovery Discovery `koanf:"discovery"`
	Runner    Runner    `koanf:"runner"`
	Storage   Storage   `koanf:"storage"`
	Email     Email     `koanf:"email"`
	Currency  Currency  `koanf:"currency"`
	HTTP      HTTP      `koanf:"http"`
}

type Log struct {
	Level string `koanf:"level"`
}

// Site holds the upstream locations that get scraped.
type Site struct {
	BaseURL  string `koanf:"base_url"`
	QuoteURL string `koanf:"quote_url"`
}

type Fetch struct {
	Timeout       time.Duration `koanf:"timeout"`
	UserAgent     string        `koanf:"user_agent"`
	MaxConcurrent int           `koanf:"max_concurrent"`
}

type Discovery struct {
	// Concurrency caps parallel enrichments for one subscriber.
	Concurrency int `koanf:"concurrency"`
}

type Runner struct {
	Workers int `koanf:"workers"`
}

type Storage struct {
	Driver        string `koanf:"driver"`
	DataDir       string `koanf:"data_dir"`
	DSN           string `koanf:"dsn"`
	EncryptionKey string `koanf:"encryption_key"`
}

type Email struct {
	Provider     string `koanf:"provider"`
	ResendAPIKey string `koanf:"resend_api_key"`
	From         string `koanf:"from"`
	SiteName     string `koanf:"site_name"`
}

type Currency struct {
	// MapFile replaces the embedded currency name table when set.
	MapFile string `koanf:"map_file"`
}

type HTTP struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Site: Site{
			BaseURL:  "https://www.worldcubeassociation.org/competitions",
			QuoteURL: "https://www.google.com/finance/quote",
		},
		Fetch: Fetch{
			Timeout:       30 * time.Second,
			UserAgent:     "wca-notifier/1.0 (github.com/pfrederiksen/wca-notifier)",
			MaxConcurrent: 8,
		},
		Discovery: Discovery{Concurrency: 8},
		Runner:    Runner{Workers: 4},
		Storage: Storage{
			Driver:  DriverFile,
			DataDir: "~/.local/share/wca-notifier",
		},
		Email: Email{
			Provider: ProviderDryRun,
			From:     "WCA Notifier <notifier@example.com>",
			SiteName: "WCA Notifier",
		},
		HTTP: HTTP{Addr: ":3000"},
	}
}

// Load reads the configuration. An empty path falls back to DefaultFile when
// it exists; an explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps WCA_EMAIL_RESEND_API_KEY to email.resend_api_key.
// Keys without a section are dropped.
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	section, key, ok := strings.Cut(k, "_")
	if !ok || section == "" || key == "" {
		return "", nil
	}
	return section + "." + key, v
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Fetch.Timeout <= 0:
		return errors.New("fetch.timeout must be positive")
	case c.Fetch.MaxConcurrent <= 0:
		return errors.New("fetch.max_concurrent must be positive")
	case c.Discovery.Concurrency <= 0:
		return errors.New("discovery.concurrency must be positive")
	case c.Runner.Workers <= 0:
		return errors.New("runner.workers must be positive")
	case c.Site.BaseURL == "" || c.Site.QuoteURL == "":
		return errors.New("site.base_url and site.quote_url are required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			return errors.New("storage.data_dir is required for the file driver")
		}
	case DriverSQLite:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the sqlite driver")
		}
	default:
		return errors.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Email.Provider {
	case ProviderDryRun:
	case ProviderResend:
		if c.Email.ResendAPIKey == "" {
			return errors.New("email.resend_api_key is required for the resend provider")
		}
	default:
		return errors.Errorf("unknown email.provider %q", c.Email.Provider)
	}

	return nil
}
