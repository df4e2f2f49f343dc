package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/gridmgr/internal/geom"
	"github.com/1broseidon/gridmgr/internal/grid"
	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, a := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	a.finish(err)
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "maximize_full: false\n")

	out, err := execute(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.TrimSpace(out) != "config: ok" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigValidate_ReportsBadBinding(t *testing.T) {
	path := writeConfig(t, `bindings:
  - keys: Mod4-a
    action: monitor
    target: sideways
`)

	_, err := execute(t, "--config", path, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "bindings[0].target") {
		t.Fatalf("expected binding path in error, got %v", err)
	}
}

func TestConfigPrint(t *testing.T) {
	path := writeConfig(t, "viewport_source: randr\nbindings: []\n")

	out, err := execute(t, "--config", path, "config", "print")
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	for _, want := range []string{"viewport_source: randr", "maximize_full: true", "log_level: info"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestLogFlag_WritesHeader(t *testing.T) {
	cfgPath := writeConfig(t, "")
	logPath := filepath.Join(t.TempDir(), "gridmgr.log")

	if _, err := execute(t, "--config", cfgPath, "--log", logPath, "config", "validate"); err != nil {
		t.Fatalf("validate: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.HasPrefix(string(data), "--- ") {
		t.Fatalf("expected run header, got %q", data)
	}
}

func TestLogFlag_FailedRunIsLoggedAndClosed(t *testing.T) {
	cfgPath := writeConfig(t, "")
	logPath := filepath.Join(t.TempDir(), "gridmgr.log")

	root, a := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", cfgPath, "--log", logPath, "position", "sideways"})
	err := root.Execute()
	if err == nil {
		t.Fatal("expected an error")
	}

	f := a.logOut
	if f == nil {
		t.Fatal("log file was not opened")
	}
	a.finish(err)
	if _, werr := f.WriteString("x"); !errors.Is(werr, os.ErrClosed) {
		t.Fatalf("log file still open after finish: %v", werr)
	}

	data, rerr := os.ReadFile(logPath)
	if rerr != nil {
		t.Fatalf("read log: %v", rerr)
	}
	if !strings.Contains(string(data), "command failed") {
		t.Fatalf("expected the failure in the log, got %q", data)
	}
}

func TestOpenLogFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridmgr.log")
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		f, err := openLogFile(path, []string{"gridmgr", "position", "left"}, now)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		f.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "--- 2024-03-01T12:30:00Z ---\ngridmgr position left\n"
	if string(data) != want+want {
		t.Fatalf("log file = %q, want two headers", data)
	}
}

func TestPositionRejectsBadArgumentsBeforeConnecting(t *testing.T) {
	path := writeConfig(t, "")

	tests := [][]string{
		{"position", "sideways"},
		{"position", "left", "--monitor", "upleft"},
		{"monitor", "downright"},
		{"focus", "north"},
		{"send", "resize", "up"},
		{"send", "monitor", "upleft"},
	}
	for _, args := range tests {
		if _, err := execute(t, append([]string{"--config", path}, args...)...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, tiling.Result{Changed: true})
	if buf.Len() != 0 {
		t.Fatalf("expected no output outside dry runs, got %q", buf.String())
	}

	printResult(&buf, tiling.Result{
		DryRun: true,
		Plan: grid.Plan{
			Next:   grid.State{Anchor: grid.AnchorLeft, Density: grid.DensityTwoCol},
			Target: geom.Rect{X: 0, Y: 0, Width: 960, Height: 1080},
		},
	})
	if !strings.Contains(buf.String(), "->") {
		t.Fatalf("expected a plan line, got %q", buf.String())
	}

	buf.Reset()
	printResult(&buf, tiling.Result{DryRun: true, Window: platform.Window{ID: 0x1a, Title: "xterm"}})
	if got, want := buf.String(), "focus 0x1a \"xterm\"\n"; got != want {
		t.Fatalf("printResult = %q, want %q", got, want)
	}
}

func TestStatus_NoDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path := writeConfig(t, "")

	_, err := execute(t, "--config", path, "status")
	if err == nil || !strings.Contains(err.Error(), "is the daemon running?") {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
