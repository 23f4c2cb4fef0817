package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"songdb/internal/config"
	"songdb/internal/logging"
)

const (
	flagEnvFile = "env-file"
	flagVerbose = "verbose"
)

// newApp assembles the CLI. Command output goes to stdout; logs go to stderr.
func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:  "songdb",
		Usage: "build and inspect the bundled karaoke songs database",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  flagEnvFile,
				Value: ".env",
				Usage: "optional KEY=value file loaded before reading the environment",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logs",
			},
		}, buildFlags()...),
		Before: func(c *cli.Context) error {
			logging.SetOutput(stderr)
			if err := config.LoadDotEnv(c.String(flagEnvFile)); err != nil {
				return err
			}
			logging.InitFromEnv()
			if c.Bool(flagVerbose) {
				logging.SetLevel(logging.LevelDebug)
			}
			return nil
		},
		Action: buildAction,
		Commands: []*cli.Command{
			buildCommand(),
			countCommand(),
			getCommand(),
			searchCommand(),
			listCommand(),
			schemaCommand(),
		},
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}
