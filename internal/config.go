package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/veidt/termnav/internal/term"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Core     CoreConfig        `yaml:"core"`
	Terminal TerminalConfig    `yaml:"terminal"`
	Search   SearchConfig      `yaml:"search"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Core.Validate(); err != nil {
		return err
	}
	if err := c.Terminal.Validate(); err != nil {
		return err
	}
	return c.Search.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// CoreConfig controls how the external core binary is located and invoked.
//
// Binary overrides discovery with an explicit path. Disable skips the core
// entirely and forces the in-process fallback.
type CoreConfig struct {
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout"`
	Disable bool          `yaml:"disable"`
}

// Validate validates the core configuration.
func (c *CoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// TerminalConfig holds defaults for terminal launches.
type TerminalConfig struct {
	Kind    string `yaml:"kind"`
	Windows int    `yaml:"windows"`
}

// Validate validates the terminal configuration.
func (c *TerminalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Kind, validation.Required,
			validation.In(string(term.KindTerminal), string(term.KindITerm), string(term.KindGhostty))),
		validation.Field(&c.Windows, validation.Required, validation.Min(1), validation.Max(5)),
	)
}

// SearchConfig holds defaults for directory search.
type SearchConfig struct {
	Limit int    `yaml:"limit"`
	Start string `yaml:"start"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Limit, validation.Required, validation.Min(1), validation.Max(500)),
		validation.Field(&c.Start, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Core: CoreConfig{
			Timeout: 10 * time.Second,
		},
		Terminal: TerminalConfig{
			Kind:    string(term.KindTerminal),
			Windows: 1,
		},
		Search: SearchConfig{
			Limit: 20,
			Start: "~",
		},
	}
}
