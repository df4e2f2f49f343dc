package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/gridmgr/internal/grid"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if !cfg.MaximizeFull {
		t.Fatalf("expected maximize_full to default to true")
	}
	if cfg.ViewportSource != platform.SourceAuto {
		t.Fatalf("expected viewport_source auto, got %q", cfg.ViewportSource)
	}
	// 9 positions, 4 monitor moves, 8 focus directions.
	if got := len(cfg.Bindings); got != 21 {
		t.Fatalf("expected 21 default bindings, got %d", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file for defaults, got %q", res.File)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Bindings) != len(DefaultBindings()) {
		t.Fatalf("expected default bindings, got %d", len(res.Config.Bindings))
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, `viewport_source: ewmh
maximize_full: false
log_level: debug
log_file: /tmp/gridmgr.log
bindings:
  - keys: Mod4-h
    action: position
    target: left
  - keys: Mod4-Shift-l
    action: monitor
    target: right
`)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.ViewportSource != platform.SourceEWMH {
		t.Fatalf("viewport_source = %q", cfg.ViewportSource)
	}
	if cfg.MaximizeFull {
		t.Fatalf("expected explicit maximize_full: false to override the default")
	}
	if cfg.Level() != log.DebugLevel {
		t.Fatalf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.LogFile != "/tmp/gridmgr.log" {
		t.Fatalf("log_file = %q", cfg.LogFile)
	}
	if len(cfg.Bindings) != 2 {
		t.Fatalf("expected bindings to replace defaults, got %d", len(cfg.Bindings))
	}
	want := tiling.Action{Kind: tiling.ActionMonitor, Target: "right"}
	if got := cfg.Bindings[1].TilingAction(); got != want {
		t.Fatalf("bindings[1] = %v, want %v", got, want)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourcePosition(t *testing.T) {
	path := writeConfig(t, `bindings:
  - keys: Mod4-a
    action: position
    target: top
  - keys: Mod4-b
    action: position
    target: sideways
`)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "bindings[1].target" {
		t.Fatalf("path = %q, want bindings[1].target", verr.Path)
	}
	if verr.Source.File != path || verr.Source.Line != 7 {
		t.Fatalf("source = %+v, want %s line 7", verr.Source, path)
	}
	if !errors.Is(err, grid.ErrInvalidRequest) {
		t.Fatalf("expected wrapped ErrInvalidRequest, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), path+":7:13: bindings[1].target:") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"bad viewport source", func(c *Config) { c.ViewportSource = "wayland" }, "viewport_source"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"empty keys", func(c *Config) { c.Bindings[0].Keys = " " }, "bindings[0].keys"},
		{"duplicate keys", func(c *Config) { c.Bindings[1].Keys = c.Bindings[0].Keys }, "bindings[1].keys"},
		{"unknown action", func(c *Config) { c.Bindings[2].Action = "close" }, "bindings[2].action"},
		{"diagonal monitor move", func(c *Config) {
			c.Bindings = []Binding{{Keys: "Mod4-u", Action: tiling.ActionMonitor, Target: "upleft"}}
		}, "bindings[0].target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestDefaultConfigPath_HonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if want := filepath.Join(dir, "gridmgr", "config.yaml"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
}
