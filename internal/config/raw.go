package config

import "github.com/1broseidon/gridmgr/internal/platform"

// RawConfig is the on-disk shape. Pointer fields tell an explicit false or
// empty value apart from an absent key.
type RawConfig struct {
	ViewportSource *string    `yaml:"viewport_source"`
	MaximizeFull   *bool      `yaml:"maximize_full"`
	LogLevel       *string    `yaml:"log_level"`
	LogFile        *string    `yaml:"log_file"`
	Bindings       *[]Binding `yaml:"bindings"`
}

// apply overlays the keys present in r onto cfg and returns cfg. A
// bindings list replaces the defaults wholesale.
func (r RawConfig) apply(cfg *Config) *Config {
	if r.ViewportSource != nil {
		cfg.ViewportSource = platform.ViewportSource(*r.ViewportSource)
	}
	if r.MaximizeFull != nil {
		cfg.MaximizeFull = *r.MaximizeFull
	}
	if r.LogLevel != nil {
		cfg.LogLevel = *r.LogLevel
	}
	if r.LogFile != nil {
		cfg.LogFile = *r.LogFile
	}
	if r.Bindings != nil {
		cfg.Bindings = append([]Binding(nil), (*r.Bindings)...)
	}
	return cfg
}
