package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, flags and environment variables.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	APIBaseURL          string        `mapstructure:"api_base_url"`
	WatchlistFile       string        `mapstructure:"watchlist_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	DedupeEnabled        bool          `mapstructure:"dedupe_enabled"`
	DedupeTTLSeconds     int64         `mapstructure:"dedupe_ttl_seconds"`
	DedupeCleanupSeconds int64         `mapstructure:"dedupe_cleanup_interval_seconds"`
	DedupeTTL            time.Duration `mapstructure:"-"`
	DedupeCleanup        time.Duration `mapstructure:"-"`
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"base-url":  "api_base_url",
	"log-level": "log_level",
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command line overrides. Only flags that were
// explicitly set take precedence over the environment.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "pcprice")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("watchlist_file", "./configs/watchlist.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 900) // seconds
	v.SetDefault("dedupe_enabled", true)
	v.SetDefault("dedupe_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("dedupe_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api_base_url %q (must be an absolute URL)", cfg.APIBaseURL)
	}

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.DedupeTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid dedupe_ttl_seconds (must be positive seconds)")
	}
	if cfg.DedupeCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid dedupe_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.DedupeTTL = time.Duration(cfg.DedupeTTLSeconds) * time.Second
	cfg.DedupeCleanup = time.Duration(cfg.DedupeCleanupSeconds) * time.Second

	return &cfg, nil
}
