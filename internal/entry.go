// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/veidt/termnav/internal/apperr"
	"github.com/veidt/termnav/internal/gateway"
	"github.com/veidt/termnav/internal/mcpserver"
	"github.com/veidt/termnav/internal/nav"
	"github.com/veidt/termnav/internal/term"
)

// App bundles the composed application: configuration, logger, the selected
// gateway and the terminal launcher.
type App struct {
	Config   *Config
	Logger   *slog.Logger
	Gateway  gateway.Gateway
	Launcher *term.Launcher
}

// NewApp composes the application with the given options.
func NewApp(opts ...Option) (*App, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}

	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	// Logs go to stderr; stdout is reserved for command output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	gw, err := selectGateway(cfg, a.envCoreBinary, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Gateway:  gw,
		Launcher: term.NewLauncher(a.runner),
	}, nil
}

// selectGateway prefers the external core binary and falls back to the
// in-process gateway when the core is disabled or cannot be found.
func selectGateway(cfg *Config, envCoreBinary string, logger *slog.Logger) (gateway.Gateway, error) {
	if cfg.Core.Disable {
		logger.Info("core disabled, using in-process gateway")
		return gateway.NewLocal(), nil
	}

	proc, err := gateway.NewProc(cfg.Core.Binary, envCoreBinary, cfg.Core.Timeout)
	if err != nil {
		if errors.Is(err, apperr.ErrBinaryNotFound) {
			logger.Warn("core binary not found, falling back to in-process gateway",
				slog.String("error", err.Error()))
			return gateway.NewLocal(), nil
		}
		return nil, err
	}

	logger.Debug("using core binary", slog.String("binary", proc.Binary()))
	return proc, nil
}

// RunMCP serves the navigation tools over MCP on stdin/stdout, blocking
// until the transport closes.
func (app *App) RunMCP() error {
	srv := mcpserver.New(app.Gateway, app.Launcher)
	app.Logger.Info("serving MCP on stdio")
	return srv.ServeStdio()
}

// RunFollow navigates to dir, keeps the listing fresh while dir changes on
// disk, and writes each delivered listing to w as a JSON line. It blocks
// until ctx is done.
func (app *App) RunFollow(ctx context.Context, dir string, w io.Writer) error {
	norm, err := app.Gateway.Normalize(ctx, dir)
	if err != nil {
		return err
	}

	n := nav.NewNavigator(app.Gateway)
	defer n.Close()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return nav.Follow(gCtx, n, norm, app.Logger)
	})

	g.Go(func() error {
		enc := json.NewEncoder(w)
		for {
			select {
			case l := <-n.Listings():
				if err := enc.Encode(l); err != nil {
					return fmt.Errorf("encode listing: %w", err)
				}
			case <-gCtx.Done():
				return gCtx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
