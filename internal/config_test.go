package internal

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "explicit core binary",
			mutate: func(c *Config) { c.Core.Binary = "/usr/local/bin/termnav-core" },
		},
		{
			name:    "negative core timeout",
			mutate:  func(c *Config) { c.Core.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:   "iterm kind",
			mutate: func(c *Config) { c.Terminal.Kind = "iterm" },
		},
		{
			name:    "unknown terminal kind",
			mutate:  func(c *Config) { c.Terminal.Kind = "kitty" },
			wantErr: true,
		},
		{
			name:    "too many windows",
			mutate:  func(c *Config) { c.Terminal.Windows = 6 },
			wantErr: true,
		},
		{
			name:    "zero search limit",
			mutate:  func(c *Config) { c.Search.Limit = 0 },
			wantErr: true,
		},
		{
			name:    "empty search start",
			mutate:  func(c *Config) { c.Search.Start = "" },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("want validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
