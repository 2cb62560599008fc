// Package config loads the settings shared by the monkey command and its
// REPL from a YAML or TOML file.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete monkey configuration
type Config struct {
	Path   string       `yaml:"-" toml:"-"` // Resolved config file, empty when running on defaults
	Output OutputConfig `yaml:"output" toml:"output"`
	REPL   REPLConfig   `yaml:"repl" toml:"repl"`
	Parser ParserConfig `yaml:"parser" toml:"parser"`
	Watch  WatchConfig  `yaml:"watch" toml:"watch"`
}

// OutputConfig controls how tokens and diagnostics are printed
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // text, json, or yaml
	Color  string `yaml:"color" toml:"color"`   // auto, always, or never
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt  string `yaml:"prompt" toml:"prompt"`
	Mode    string `yaml:"mode" toml:"mode"`       // tokens or parse
	History string `yaml:"history" toml:"history"` // history file, empty for the temp dir
}

// ParserConfig holds parser settings
type ParserConfig struct {
	Trace bool `yaml:"trace" toml:"trace"`
}

// WatchConfig holds settings for check --watch
type WatchConfig struct {
	Debounce   string   `yaml:"debounce" toml:"debounce"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

// Allowed values for the enumerated settings.
var (
	OutputFormats = []string{"text", "json", "yaml"}
	ColorModes    = []string{"auto", "always", "never"}
	REPLModes     = []string{"tokens", "parse"}
)

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		REPL: REPLConfig{
			Prompt: ">> ",
			Mode:   "tokens",
		},
		Watch: WatchConfig{
			Debounce:   "100ms",
			Extensions: []string{".mk", ".monkey"},
		},
	}
}

// DebounceDuration returns the parsed watch debounce interval.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce %q: %w", w.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid watch.debounce %q: must not be negative", w.Debounce)
	}
	return d, nil
}
