package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "pcprice" {
		t.Fatalf("unexpected app name %q", cfg.AppName)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 900*time.Second {
		t.Fatalf("unexpected poll interval %v", cfg.PollInterval)
	}
	if !cfg.DedupeEnabled || cfg.DedupeTTL != 24*time.Hour || cfg.DedupeCleanup != time.Hour {
		t.Fatalf("unexpected dedupe settings %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "https://prices.example.com/api")
	t.Setenv("POLL_INTERVAL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://prices.example.com/api" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("unexpected poll interval %v", cfg.PollInterval)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", "", "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--base-url", "http://127.0.0.1:9000/api", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := LoadWithFlags(fs)
	if err != nil {
		t.Fatalf("LoadWithFlags: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9000/api" || cfg.LogLevel != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestUnsetFlagsKeepEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")

	cfg, err := LoadWithFlags(fs)
	if err != nil {
		t.Fatalf("LoadWithFlags: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env value, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"API_BASE_URL":       "not a url",
		"POLL_INTERVAL":      "0",
		"DEDUPE_TTL_SECONDS": "-1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
