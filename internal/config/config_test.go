package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/bibsplit/internal/output"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Split.GapTolerance != 10 {
		t.Errorf("expected gap tolerance 10, got %d", cfg.Split.GapTolerance)
	}
	if cfg.Split.EndMarker != "#END" {
		t.Errorf("expected #END end marker, got %q", cfg.Split.EndMarker)
	}
	if !cfg.Section.Enabled || cfg.Split.Format != "csv" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero gap tolerance", func(c *Config) { c.Split.GapTolerance = 0 }},
		{"unknown format", func(c *Config) { c.Split.Format = "xml" }},
		{"unknown digest", func(c *Config) { c.Split.Digest = "md5" }},
		{"too many workers", func(c *Config) { c.Batch.MaxWorkers = 1000 }},
		{"no workers", func(c *Config) { c.Batch.MaxWorkers = 0 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty section start", func(c *Config) { c.Section.Start = "" }},
		{"bad section pattern", func(c *Config) { c.Section.End = "(" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	t.Run("format aliases are canonicalized", func(t *testing.T) {
		for alias, want := range map[string]string{"json": "jsonl", "ndjson": "jsonl", "yml": "yaml", "CSV": "csv"} {
			cfg := DefaultConfig()
			cfg.Split.Format = alias
			if err := cfg.Validate(); err != nil {
				t.Errorf("format %q: unexpected error: %v", alias, err)
			}
			if cfg.Split.Format != want {
				t.Errorf("format %q became %q, want %q", alias, cfg.Split.Format, want)
			}
		}
	})

	t.Run("disabled section skips patterns", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Section = SectionCfg{Enabled: false, End: "("}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
split:
  gap_tolerance: 25
  format: jsonl
batch:
  max_workers: 8
`)
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Split.GapTolerance != 25 || cfg.Split.Format != "jsonl" || cfg.Batch.MaxWorkers != 8 {
			t.Errorf("file values not applied: %+v", cfg)
		}
		// keys absent from the file keep their defaults
		if cfg.Split.EndMarker != "#END" || !cfg.Split.Titles || cfg.Log.Level != "info" {
			t.Errorf("defaults lost: %+v", cfg)
		}
		if mgr.File() != configFile {
			t.Errorf("File() = %s", mgr.File())
		}
	})

	t.Run("format alias in file", func(t *testing.T) {
		mgr, err := NewManager(writeConfig(t, "split:\n  format: json\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Split.Format; got != "jsonl" {
			t.Errorf("format = %q, want jsonl", got)
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Split.GapTolerance != 10 {
			t.Errorf("expected default gap tolerance, got %d", mgr.Get().Split.GapTolerance)
		}
	})

	t.Run("search dir", func(t *testing.T) {
		configFile := writeConfig(t, "log:\n  level: debug\n")
		mgr, err := NewManager("", filepath.Dir(configFile))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Log.Level != "debug" {
			t.Errorf("config in search dir not loaded")
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("BIBSPLIT_SPLIT_GAP_TOLERANCE", "3")
		t.Setenv("BIBSPLIT_SECTION_ENABLED", "false")
		configFile := writeConfig(t, "split:\n  gap_tolerance: 25\n")
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Split.GapTolerance != 3 || cfg.Section.Enabled {
			t.Errorf("environment not applied: %+v", cfg)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		configFile := writeConfig(t, "split:\n  gap_tolerance: 0\n")
		if _, err := NewManager(configFile); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		configFile := writeConfig(t, "split: [unclosed\n")
		if _, err := NewManager(configFile); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

func TestManager_Set(t *testing.T) {
	mgr, err := NewManager("", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Set("split.format", "yaml"); err != nil {
		t.Fatal(err)
	}
	if mgr.Get().Split.Format != "yaml" {
		t.Errorf("override not applied")
	}
	if err := mgr.Set("split.gap_tolerance", -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "split:\n  gap_tolerance: 5\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "split:\n  gap_tolerance: 5\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Split.GapTolerance
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "split:\n  gap_tolerance: 5\n")
	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Int64
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(int64(cfg.Split.GapTolerance))
	})

	mgr.WatchConfig(nil)

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("split:\n  gap_tolerance: 7\n"), 0o644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().Split.GapTolerance; got != 7 {
		t.Errorf("config not updated: expected 7, got %d", got)
	}
	if v := lastValue.Load(); v != 7 {
		t.Errorf("callback received wrong value: %d", v)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Split.Format = "jsonl"
	opts, err := cfg.PipelineOptions(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if opts.Format != output.FormatJSONL || opts.GapTolerance != 10 || opts.Section == nil || !opts.SplitTitles {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.Section.Enabled = false
	opts, err = cfg.PipelineOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Section != nil {
		t.Error("disabled section should leave Section nil")
	}

	cfg.Split.Format = "xml"
	if _, err := cfg.PipelineOptions(nil); !errors.Is(err, output.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLogCfg(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (LogCfg{Level: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}

	var buf strings.Builder
	LogCfg{Level: "info", Format: "json"}.NewLogger(&buf).Info("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON log line, got %q", buf.String())
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# bibsplit configuration") {
		t.Errorf("missing header:\n%s", data)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written defaults do not load: %v", err)
	}
	if *mgr.Get() != *DefaultConfig() {
		t.Errorf("round trip differs:\n%+v\n%+v", mgr.Get(), DefaultConfig())
	}
}
