// Command termnav is the navigation front end: it delegates to the
// termnav-core binary when one can be found and falls back to a built-in
// gateway otherwise.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/veidt/termnav/internal"
	"github.com/veidt/termnav/internal/gateway"
	"github.com/veidt/termnav/internal/models"
	"github.com/veidt/termnav/internal/term"
	pkgconfig "github.com/veidt/termnav/pkg/config"
)

// setup loads configuration and composes the application. A missing config
// file is not an error; defaults apply.
func setup(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return internal.NewApp(
		internal.WithConfig(cfg),
		internal.WithEnvCoreBinary(os.Getenv(gateway.EnvCoreBinary)),
	)
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireArg(cmd *cli.Command, n int, name string) (string, error) {
	v := cmd.Args().Get(n)
	if v == "" {
		return "", fmt.Errorf("%s required", name)
	}
	return v, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "termnav",
		Usage: "Browse directories, pin favorites, tag paths and open terminal windows anywhere",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("TERMNAV_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "normalize",
				Usage: "Canonicalize a path",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					raw, err := requireArg(cmd, 0, "path")
					if err != nil {
						return err
					}
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					norm, err := app.Gateway.Normalize(ctx, raw)
					if err != nil {
						return err
					}
					fmt.Println(norm)
					return nil
				},
			},
			{
				Name:  "ls",
				Usage: "List the entries of a directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().Get(0)
					if path == "" {
						path = "."
					}
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					entries, err := app.Gateway.ListDirectory(ctx, path)
					if err != nil {
						return err
					}
					return emitJSON(entries)
				},
			},
			{
				Name:  "fav",
				Usage: "Manage favorite directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							favs, err := app.Gateway.ListFavorites(ctx)
							if err != nil {
								return err
							}
							return emitJSON(favs)
						},
					},
					{
						Name: "add",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.AddFavorite(ctx, path)
						},
					},
					{
						Name: "remove",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.RemoveFavorite(ctx, path)
						},
					},
				},
			},
			{
				Name:  "recent",
				Usage: "Manage recently opened directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							recents, err := app.Gateway.ListRecents(ctx)
							if err != nil {
								return err
							}
							return emitJSON(recents)
						},
					},
					{
						Name: "touch",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.TouchRecent(ctx, path)
						},
					},
				},
			},
			{
				Name:  "projects",
				Usage: "Detect project roots among a path's ancestors",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := requireArg(cmd, 0, "path")
					if err != nil {
						return err
					}
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					roots, err := app.Gateway.DetectProjects(ctx, path)
					if err != nil {
						return err
					}
					return emitJSON(roots)
				},
			},
			{
				Name:  "tag",
				Usage: "Manage colored tags on directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							tags, err := app.Gateway.ListTags(ctx)
							if err != nil {
								return err
							}
							return emitJSON(tags)
						},
					},
					{
						Name: "for",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							tags, err := app.Gateway.TagsFor(ctx, path)
							if err != nil {
								return err
							}
							return emitJSON(tags)
						},
					},
					{
						Name: "add",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "color", Usage: "Hex color for the tag"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							tag, err := requireArg(cmd, 1, "tag")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.AddTag(ctx, path, tag, cmd.String("color"))
						},
					},
					{
						Name: "remove",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							tag, err := requireArg(cmd, 1, "tag")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.RemoveTag(ctx, path, tag)
						},
					},
				},
			},
			{
				Name:  "profile",
				Usage: "Manage launch profiles",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							profiles, err := app.Gateway.ListProfiles(ctx)
							if err != nil {
								return err
							}
							return emitJSON(profiles)
						},
					},
					{
						Name: "save",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "id", Usage: "Existing profile id to update"},
							&cli.StringFlag{Name: "command", Usage: "Command to run after cd"},
							&cli.StringFlag{Name: "working-dir", Usage: "Default working directory"},
							&cli.StringFlag{Name: "terminal", Usage: "Terminal app: terminal, iterm or ghostty"},
							&cli.IntFlag{Name: "windows", Usage: "Number of windows to open"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							name, err := requireArg(cmd, 0, "name")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							profile, err := app.Gateway.SaveProfile(ctx, gateway.SaveProfileRequest{
								ID:         optString(cmd, "id"),
								Name:       name,
								Command:    optString(cmd, "command"),
								WorkingDir: optString(cmd, "working-dir"),
								Terminal:   optString(cmd, "terminal"),
								Windows:    int(cmd.Int("windows")),
							})
							if err != nil {
								return err
							}
							return emitJSON(profile)
						},
					},
					{
						Name: "delete",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := requireArg(cmd, 0, "id")
							if err != nil {
								return err
							}
							app, err := setup(cmd)
							if err != nil {
								return err
							}
							return app.Gateway.DeleteProfile(ctx, id)
						},
					},
				},
			},
			{
				Name:  "search",
				Usage: "Fuzzy-search directory names under a start directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Usage: "Directory to search under"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query, err := requireArg(cmd, 0, "query")
					if err != nil {
						return err
					}
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					start := cmd.String("start")
					if start == "" {
						start = app.Config.Search.Start
					}
					limit := int(cmd.Int("limit"))
					if limit <= 0 {
						limit = app.Config.Search.Limit
					}
					results, err := app.Gateway.Search(ctx, start, query, limit)
					if err != nil {
						return err
					}
					return emitJSON(results)
				},
			},
			{
				Name:  "open",
				Usage: "Open terminal windows at a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "command", Usage: "Command to run after cd"},
					&cli.StringFlag{Name: "terminal", Usage: "Terminal app: terminal, iterm or ghostty"},
					&cli.IntFlag{Name: "windows", Usage: "Number of windows to open (1-5)"},
					&cli.StringFlag{Name: "profile", Usage: "Launch profile to apply, by id or name"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					return runOpen(ctx, cmd, app)
				},
			},
			{
				Name:  "follow",
				Usage: "Stream a directory's listing as JSON lines, refreshing on change",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir, err := requireArg(cmd, 0, "path")
					if err != nil {
						return err
					}
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					return app.RunFollow(ctx, dir, os.Stdout)
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve navigation tools over the Model Context Protocol on stdio",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := setup(cmd)
					if err != nil {
						return err
					}
					return app.RunMCP()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runOpen resolves the launch parameters — profile first, explicit flags on
// top, config defaults underneath — and opens the terminal windows.
func runOpen(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	kind := app.Config.Terminal.Kind
	windows := app.Config.Terminal.Windows
	command := ""
	dir := cmd.Args().Get(0)

	if sel := cmd.String("profile"); sel != "" {
		profile, err := findProfile(ctx, app, sel)
		if err != nil {
			return err
		}
		if profile.Command != nil {
			command = *profile.Command
		}
		if profile.WorkingDir != nil && dir == "" {
			dir = *profile.WorkingDir
		}
		if profile.Terminal != nil {
			kind = *profile.Terminal
		}
		if profile.Windows > 0 {
			windows = profile.Windows
		}
	}

	if v := cmd.String("command"); v != "" {
		command = v
	}
	if v := cmd.String("terminal"); v != "" {
		kind = v
	}
	if v := int(cmd.Int("windows")); v > 0 {
		windows = v
	}
	if dir == "" {
		return fmt.Errorf("path required")
	}

	norm, err := app.Gateway.Normalize(ctx, dir)
	if err != nil {
		return err
	}

	// Recency is bookkeeping; a failed touch never blocks the launch.
	if err := app.Gateway.TouchRecent(ctx, norm); err != nil {
		app.Logger.Warn("touch recent failed", slog.String("error", err.Error()))
	}

	return app.Launcher.Launch(ctx, term.Request{
		Kind:    term.ParseKind(kind),
		Dir:     norm,
		Command: command,
		Windows: windows,
	})
}

// findProfile matches first by exact id, then by exact name.
func findProfile(ctx context.Context, app *internal.App, sel string) (models.LaunchProfile, error) {
	profiles, err := app.Gateway.ListProfiles(ctx)
	if err != nil {
		return models.LaunchProfile{}, err
	}
	for _, p := range profiles {
		if p.ID == sel {
			return p, nil
		}
	}
	for _, p := range profiles {
		if p.Name == sel {
			return p, nil
		}
	}
	return models.LaunchProfile{}, fmt.Errorf("profile not found: %s", sel)
}

// optString returns the flag value as a pointer, nil when unset or empty.
func optString(cmd *cli.Command, name string) *string {
	v := cmd.String(name)
	if v == "" {
		return nil
	}
	return &v
}
