package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aschmelyun/tscribe/internal/export"
	"github.com/aschmelyun/tscribe/internal/orchestrator"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.SimulatedDelay != 3*time.Second {
		t.Fatalf("unexpected delay %s", cfg.Transcription.SimulatedDelay)
	}
	if cfg.Options() != orchestrator.DefaultOptions() {
		t.Fatalf("unexpected options %#v", cfg.Options())
	}
	if cfg.ExportFormat() != export.PlainText || cfg.Export.Dir != "." {
		t.Fatalf("unexpected export config %#v", cfg.Export)
	}
	if cfg.MaxFileBytes() != 100*1024*1024 || cfg.Input.EnforceMaxSize {
		t.Fatalf("unexpected input config %#v", cfg.Input)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TSCRIBE_SIMULATED_DELAY", "250ms")
	t.Setenv("TSCRIBE_DEFAULT_FORMAT", "json")
	t.Setenv("TSCRIBE_LANGUAGE", "fr")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.SimulatedDelay != 250*time.Millisecond {
		t.Fatalf("unexpected delay %s", cfg.Transcription.SimulatedDelay)
	}
	if cfg.ExportFormat() != export.JSON || cfg.Options().Language != "fr" {
		t.Fatalf("environment not applied: %#v", cfg)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "TSCRIBE_LOG_LEVEL=debug\nTSCRIBE_EXPORT_DIR=/from/dotenv\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("TSCRIBE_EXPORT_DIR", "/from/env")
	t.Cleanup(func() { os.Unsetenv("TSCRIBE_LOG_LEVEL") })

	cfg, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf(".env value not applied, level = %q", cfg.Log.Level)
	}
	if cfg.Export.Dir != "/from/env" {
		t.Fatalf(".env overrode the environment, dir = %q", cfg.Export.Dir)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tscribe.yaml")
	yaml := "transcription:\n  simulated_delay: 1s\n  max_segment_length: 15\nexport:\n  format: json\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.SimulatedDelay != time.Second || cfg.Transcription.MaxSegmentLength != 15 {
		t.Fatalf("yaml not applied: %#v", cfg.Transcription)
	}
	if cfg.Transcription.Language != "auto" {
		t.Fatalf("defaults not applied alongside yaml: %#v", cfg.Transcription)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("TSCRIBE_MAX_SEGMENT_LENGTH", "7")
	t.Setenv("TSCRIBE_DEFAULT_FORMAT", "srt")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "segment length") || !strings.Contains(err.Error(), "srt") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestDescriptionListsVariables(t *testing.T) {
	if d := Description(); !strings.Contains(d, "TSCRIBE_SIMULATED_DELAY") {
		t.Fatalf("description missing variable: %q", d)
	}
}
