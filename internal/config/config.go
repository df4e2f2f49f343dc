package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/gridmgr/internal/platform"
	"github.com/1broseidon/gridmgr/internal/tiling"
	"github.com/charmbracelet/log"
)

// Config is the effective configuration after defaults are applied.
type Config struct {
	ViewportSource platform.ViewportSource `yaml:"viewport_source"`
	MaximizeFull   bool                    `yaml:"maximize_full"`
	LogLevel       string                  `yaml:"log_level"`
	LogFile        string                  `yaml:"log_file"`
	Bindings       []Binding               `yaml:"bindings"`
}

// Binding maps a key chord to an action for the daemon. Keys use xgbutil
// keybind syntax, e.g. "Mod4-KP_7".
type Binding struct {
	Keys   string            `yaml:"keys"`
	Action tiling.ActionKind `yaml:"action"`
	Target string            `yaml:"target"`
}

// TilingAction returns the action the binding triggers.
func (b Binding) TilingAction() tiling.Action {
	return tiling.Action{Kind: b.Action, Target: b.Target}
}

// DefaultConfig lays the nine positions out on the keypad under Super, with
// Super+Alt moving between monitors and Super+Ctrl moving focus.
func DefaultConfig() *Config {
	return &Config{
		ViewportSource: platform.SourceAuto,
		MaximizeFull:   true,
		LogLevel:       "info",
		Bindings:       DefaultBindings(),
	}
}

// DefaultBindings returns the keypad bindings used when none are configured.
func DefaultBindings() []Binding {
	keypad := []struct {
		key      string
		position string
		dir      string
	}{
		{"KP_7", "topleft", "upleft"},
		{"KP_8", "top", "up"},
		{"KP_9", "topright", "upright"},
		{"KP_4", "left", "left"},
		{"KP_5", "center", ""},
		{"KP_6", "right", "right"},
		{"KP_1", "botleft", "downleft"},
		{"KP_2", "bottom", "down"},
		{"KP_3", "botright", "downright"},
	}

	var out []Binding
	for _, k := range keypad {
		out = append(out, Binding{Keys: "Mod4-" + k.key, Action: tiling.ActionPosition, Target: k.position})
	}
	for _, k := range keypad {
		switch k.dir {
		case "up", "down", "left", "right":
			out = append(out, Binding{Keys: "Mod4-Mod1-" + k.key, Action: tiling.ActionMonitor, Target: k.dir})
		}
	}
	for _, k := range keypad {
		if k.dir != "" {
			out = append(out, Binding{Keys: "Mod4-Control-" + k.key, Action: tiling.ActionFocus, Target: k.dir})
		}
	}
	return out
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate checks every field and returns the first problem as a
// *ValidationError.
func (c *Config) Validate() error {
	if _, err := platform.ParseViewportSource(string(c.ViewportSource)); err != nil {
		return &ValidationError{Path: "viewport_source", Err: err}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	seen := make(map[string]int, len(c.Bindings))
	for i, b := range c.Bindings {
		path := fmt.Sprintf("bindings[%d]", i)
		keys := strings.TrimSpace(b.Keys)
		if keys == "" {
			return &ValidationError{Path: path + ".keys", Err: fmt.Errorf("keys must not be empty")}
		}
		if prev, ok := seen[keys]; ok {
			return &ValidationError{Path: path + ".keys", Err: fmt.Errorf("%q is already bound by bindings[%d]", keys, prev)}
		}
		seen[keys] = i

		if err := b.TilingAction().Validate(); err != nil {
			field := ".target"
			if !isKnownAction(b.Action) {
				field = ".action"
			}
			return &ValidationError{Path: path + field, Err: err}
		}
	}
	return nil
}

func isKnownAction(k tiling.ActionKind) bool {
	switch k {
	case tiling.ActionPosition, tiling.ActionMonitor, tiling.ActionFocus:
		return true
	}
	return false
}
