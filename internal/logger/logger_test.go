package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestZapLoggerWritesObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))

	log.WarnObj("decode failed", "decode_error", map[string]any{"url": "http://x"})

	entries := logs.FilterMessage("decode failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", entries[0].Level)
	}
	if _, ok := entries[0].ContextMap()["decode_error"]; !ok {
		t.Fatalf("decode_error field missing: %#v", entries[0].ContextMap())
	}
}

func TestPackageHelpersAreNoopsBeforeInit(t *testing.T) {
	S = nil
	InfoObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestZapLoggerReportsCallerSite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core, zap.AddCaller()))

	log.InfoObj("polled", "watch", "gpu-deals")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	caller := entries[0].Caller
	if !caller.Defined {
		t.Fatalf("caller not recorded")
	}
	if got := filepath.Base(caller.File); got != "logger_test.go" {
		t.Fatalf("caller file = %q, want logger_test.go", got)
	}
}

func TestPackageHelpersReportCallerSite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	S = zap.New(core, zap.AddCaller()).Sugar()
	t.Cleanup(func() { S = nil })

	WarnObj("publish partial", "watch", "gpu-deals")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := filepath.Base(entries[0].Caller.File); got != "logger_test.go" {
		t.Fatalf("caller file = %q, want logger_test.go", got)
	}
}
