package internal

import "github.com/veidt/termnav/internal/term"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config        *Config
	envCoreBinary string
	runner        term.Runner
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithEnvCoreBinary passes the environment override for the core binary
// path; the environment is read once at the composition point, never here.
func WithEnvCoreBinary(path string) Option {
	return func(a *application) {
		a.envCoreBinary = path
	}
}

// WithRunner overrides the script runner used for terminal launches.
func WithRunner(r term.Runner) Option {
	return func(a *application) {
		a.runner = r
	}
}
