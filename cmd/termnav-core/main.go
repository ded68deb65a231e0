// Command termnav-core implements the navigation core: a short-lived
// process invoked once per operation, speaking JSON on stdout. Errors go to
// stderr and exit code 1.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/veidt/termnav/internal/core"
	"github.com/veidt/termnav/internal/store"
)

const version = "1.0.0"

func defaultStatePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "termnav-state.db"
	}
	return filepath.Join(base, "termnav", "state.db")
}

// openService opens the state database behind the requested operation.
func openService(cmd *cli.Command) (*core.Service, func(), error) {
	path := cmd.String("state")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return core.New(db), func() { db.Close() }, nil
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

func emitOK() error {
	fmt.Println(`{"status":"ok"}`)
	return nil
}

// withService runs fn against an opened service and closes it afterwards.
func withService(cmd *cli.Command, fn func(*core.Service) error) error {
	svc, closeFn, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
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
		Name:    "termnav-core",
		Usage:   "Filesystem navigation core: listing, favorites, recents, projects, tags, profiles and search",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Usage:   "Path to the state database",
				Value:   defaultStatePath(),
				Sources: cli.EnvVars("TERMNAV_STATE_DB"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "normalize",
				Usage: "Canonicalize a path (home expansion, absolute, symlinks resolved)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					raw, err := requireArg(cmd, 0, "path")
					if err != nil {
						return err
					}
					return withService(cmd, func(svc *core.Service) error {
						norm, err := svc.Normalize(raw)
						if err != nil {
							return err
						}
						fmt.Println(norm)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List the entries of a directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path, err := requireArg(cmd, 0, "path")
					if err != nil {
						return err
					}
					return withService(cmd, func(svc *core.Service) error {
						entries, err := svc.ListDirectory(path)
						if err != nil {
							return err
						}
						return emitJSON(entries)
					})
				},
			},
			{
				Name:  "favorites",
				Usage: "Manage favorite directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return withService(cmd, func(svc *core.Service) error {
								favs, err := svc.ListFavorites()
								if err != nil {
									return err
								}
								return emitJSON(favs)
							})
						},
					},
					{
						Name: "add",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.AddFavorite(path); err != nil {
									return err
								}
								return emitOK()
							})
						},
					},
					{
						Name: "remove",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.RemoveFavorite(path); err != nil {
									return err
								}
								return emitOK()
							})
						},
					},
				},
			},
			{
				Name:  "recents",
				Usage: "Manage recently opened directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return withService(cmd, func(svc *core.Service) error {
								recents, err := svc.ListRecents()
								if err != nil {
									return err
								}
								return emitJSON(recents)
							})
						},
					},
					{
						Name: "touch",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.TouchRecent(path); err != nil {
									return err
								}
								return emitOK()
							})
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
					return withService(cmd, func(svc *core.Service) error {
						roots, err := svc.DetectProjects(path)
						if err != nil {
							return err
						}
						return emitJSON(roots)
					})
				},
			},
			{
				Name:  "tags",
				Usage: "Manage colored tags on directories",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return withService(cmd, func(svc *core.Service) error {
								tags, err := svc.ListTags()
								if err != nil {
									return err
								}
								return emitJSON(tags)
							})
						},
					},
					{
						Name: "for",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path, err := requireArg(cmd, 0, "path")
							if err != nil {
								return err
							}
							return withService(cmd, func(svc *core.Service) error {
								tags, err := svc.TagsFor(path)
								if err != nil {
									return err
								}
								return emitJSON(tags)
							})
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
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.AddTag(path, tag, cmd.String("color")); err != nil {
									return err
								}
								return emitOK()
							})
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
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.RemoveTag(path, tag); err != nil {
									return err
								}
								return emitOK()
							})
						},
					},
				},
			},
			{
				Name:  "profiles",
				Usage: "Manage launch profiles",
				Commands: []*cli.Command{
					{
						Name: "list",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return withService(cmd, func(svc *core.Service) error {
								profiles, err := svc.ListProfiles()
								if err != nil {
									return err
								}
								return emitJSON(profiles)
							})
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
							return withService(cmd, func(svc *core.Service) error {
								profile, err := svc.SaveProfile(
									optString(cmd, "id"),
									name,
									optString(cmd, "command"),
									optString(cmd, "working-dir"),
									optString(cmd, "terminal"),
									int(cmd.Int("windows")),
								)
								if err != nil {
									return err
								}
								return emitJSON(profile)
							})
						},
					},
					{
						Name: "delete",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := requireArg(cmd, 0, "id")
							if err != nil {
								return err
							}
							return withService(cmd, func(svc *core.Service) error {
								if err := svc.DeleteProfile(id); err != nil {
									return err
								}
								return emitOK()
							})
						},
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print the core version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(version)
					return nil
				},
			},
			{
				Name:  "search",
				Usage: "Fuzzy-search directory names under a start directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Usage: "Directory to search under", Value: "~"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query, err := requireArg(cmd, 0, "query")
					if err != nil {
						return err
					}
					return withService(cmd, func(svc *core.Service) error {
						results, err := svc.Search(query, cmd.String("start"), int(cmd.Int("limit")))
						if err != nil {
							return err
						}
						return emitJSON(results)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// optString returns the flag value as a pointer, nil when unset or empty.
func optString(cmd *cli.Command, name string) *string {
	v := cmd.String(name)
	if v == "" {
		return nil
	}
	return &v
}
