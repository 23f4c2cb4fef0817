package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"songdb/internal/config"
	"songdb/internal/songs"
	"songdb/internal/storage"
	"songdb/internal/storage/sqlite"
)

const (
	flagDB    = "db"
	flagJSON  = "json"
	flagLimit = "limit"
)

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagDB, Usage: "SQLite file to read (default --dest, $DEST_PATH or " + config.DefaultDestPath + ")"},
		&cli.BoolFlag{Name: flagJSON, Usage: "print JSON instead of a table"},
	}
}

// openReadOnly opens the built database without the ability to modify it.
func openReadOnly(c *cli.Context) (*sqlite.Repository, func(), error) {
	path := resolveConfig(c).DestPath
	if c.IsSet(flagDB) {
		path = c.String(flagDB)
	}
	r, closeFn, err := sqlite.NewRepository(c.Context, sqlite.Config{
		DSN:      path,
		Table:    songs.Table,
		ReadOnly: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, closeFn, nil
}

// withRepo runs fn against the read-only database.
func withRepo(c *cli.Context, fn func(ctx context.Context, r *sqlite.Repository) error) error {
	r, closeFn, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(c.Context, r)
}

func countCommand() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "print the number of songs",
		Flags: queryFlags(),
		Action: func(c *cli.Context) error {
			return withRepo(c, func(ctx context.Context, r *sqlite.Repository) error {
				n, err := r.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, n)
				return nil
			})
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print one song by music id",
		ArgsUsage: "<musicId>",
		Flags:     queryFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("get: exactly one music id is required")
			}
			id := c.Args().First()
			return withRepo(c, func(ctx context.Context, r *sqlite.Repository) error {
				s, err := r.Get(ctx, id)
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("get: music id %q not found", id)
				}
				if err != nil {
					return err
				}
				return printSongs(c.App.Writer, []songs.Song{s}, c.Bool(flagJSON))
			})
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "find songs by music id prefix, title or artist",
		ArgsUsage: "<query>",
		Flags: append(queryFlags(), &cli.IntFlag{
			Name:  flagLimit,
			Value: 50,
			Usage: "maximum rows to print; 0 for all",
		}),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("search: exactly one query is required")
			}
			return withRepo(c, func(ctx context.Context, r *sqlite.Repository) error {
				ss, err := r.Search(ctx, c.Args().First(), c.Int(flagLimit))
				if err != nil {
					return err
				}
				return printSongs(c.App.Writer, ss, c.Bool(flagJSON))
			})
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print every song ordered by artist and title",
		Flags: queryFlags(),
		Action: func(c *cli.Context) error {
			return withRepo(c, func(ctx context.Context, r *sqlite.Repository) error {
				ss, err := r.List(ctx)
				if err != nil {
					return err
				}
				return printSongs(c.App.Writer, ss, c.Bool(flagJSON))
			})
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "print the CREATE statement of the songs table",
		Flags: queryFlags(),
		Action: func(c *cli.Context) error {
			return withRepo(c, func(ctx context.Context, r *sqlite.Repository) error {
				text, err := r.Schema(ctx, songs.Table)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, text)
				return nil
			})
		},
	}
}

func printSongs(w io.Writer, ss []songs.Song, asJSON bool) error {
	if asJSON {
		if ss == nil {
			ss = []songs.Song{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ss)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MUSIC_ID\tARTISTA\tMUSICA\tINICIO")
	for _, s := range ss {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.MusicID, s.Artist, s.Title, s.Start)
	}
	return tw.Flush()
}
