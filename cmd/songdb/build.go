package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"songdb/internal/config"
	"songdb/internal/converter"
	"songdb/internal/logging"
	"songdb/internal/parser/csv"
	"songdb/internal/report"

	// register the storage backends with the storage factory.
	_ "songdb/internal/storage/all"
)

const (
	flagSource         = "source"
	flagDest           = "dest"
	flagRowPolicy      = "row-policy"
	flagDuplicates     = "duplicates"
	flagComma          = "comma"
	flagNormalizeNFC   = "normalize-nfc"
	flagReport         = "report"
	flagMetricsBackend = "metrics-backend"
	flagPushgatewayURL = "pushgateway-url"
	flagDogStatsDAddr  = "dogstatsd-addr"
	flagJob            = "job"
	flagValidate       = "validate"
)

// buildFlags are shared by the root command and "build". Defaults live in
// config so that environment values are not masked by flag defaults.
func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagSource, Usage: "CSV song list (default " + config.DefaultSourcePath + ")"},
		&cli.StringFlag{Name: flagDest, Usage: "SQLite file to rebuild (default " + config.DefaultDestPath + ")"},
		&cli.StringFlag{Name: flagRowPolicy, Usage: "malformed rows: strict or lenient (default strict)"},
		&cli.StringFlag{Name: flagDuplicates, Usage: "repeated music_id: abort or report (default abort)"},
		&cli.StringFlag{Name: flagComma, Usage: "field delimiter (default \",\")"},
		&cli.BoolFlag{Name: flagNormalizeNFC, Usage: "normalize values to Unicode NFC"},
		&cli.StringFlag{Name: flagReport, Usage: "write a JSON run report to this path"},
		&cli.StringFlag{Name: flagMetricsBackend, Usage: "none, pushgateway or datadog (default none)"},
		&cli.StringFlag{Name: flagPushgatewayURL, Usage: "Pushgateway base URL"},
		&cli.StringFlag{Name: flagDogStatsDAddr, Usage: "DogStatsD address"},
		&cli.StringFlag{Name: flagJob, Usage: "job label for metrics (default " + config.DefaultJob + ")"},
		&cli.BoolFlag{Name: flagValidate, Usage: "validate the configuration and exit"},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:   "build",
		Usage:  "rebuild the songs database from the CSV list",
		Flags:  buildFlags(),
		Action: buildAction,
	}
}

// flagContext returns the nearest context in which name was given on the
// command line, or nil.
func flagContext(c *cli.Context, name string) *cli.Context {
	for _, cc := range c.Lineage() {
		if cc.IsSet(name) {
			return cc
		}
	}
	return nil
}

// resolveConfig layers command-line flags over the environment.
func resolveConfig(c *cli.Context) config.Config {
	cfg := config.FromEnv(nil)
	str := func(dst *string, name string) {
		if cc := flagContext(c, name); cc != nil {
			*dst = cc.String(name)
		}
	}
	str(&cfg.SourcePath, flagSource)
	str(&cfg.DestPath, flagDest)
	str(&cfg.RowPolicy, flagRowPolicy)
	str(&cfg.DuplicatePolicy, flagDuplicates)
	str(&cfg.Comma, flagComma)
	str(&cfg.ReportPath, flagReport)
	str(&cfg.Metrics.Backend, flagMetricsBackend)
	str(&cfg.Metrics.PushgatewayURL, flagPushgatewayURL)
	str(&cfg.Metrics.DogStatsDAddr, flagDogStatsDAddr)
	str(&cfg.Metrics.Job, flagJob)
	if cc := flagContext(c, flagNormalizeNFC); cc != nil {
		cfg.NormalizeNFC = cc.Bool(flagNormalizeNFC)
	}
	return cfg
}

func buildAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return fmt.Errorf("unknown command or argument %q", c.Args().First())
	}
	cfg := resolveConfig(c)

	issues := config.Validate(cfg)
	for _, iss := range issues {
		logging.Infof("config: %s: %s: %s", iss.Severity, iss.Path, iss.Message)
	}
	if err := config.Err(issues); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if flagContext(c, flagValidate) != nil {
		fmt.Fprintln(c.App.Writer, "configuration is valid")
		return nil
	}

	opt, err := converterOptions(cfg)
	if err != nil {
		return err
	}

	flush, err := setupMetrics(cfg.Metrics)
	if err != nil {
		return err
	}
	defer flush()

	logging.Debugf("build: source=%s dest=%s rows=%s duplicates=%s", cfg.SourcePath, cfg.DestPath, opt.RowPolicy, opt.Duplicates)

	conv, err := converter.New(opt)
	if err != nil {
		return err
	}
	res, runErr := conv.Run(c.Context)

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, report.New(res, runErr)); err != nil {
			logging.Errorf("build: %v", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(c.App.Writer, "wrote %d songs to %s\n", res.Written, res.Dest)
	logging.Infof("build: size=%s took=%s", humanize.Bytes(uint64(res.Bytes)), res.Duration.Truncate(time.Millisecond))
	return nil
}

func converterOptions(cfg config.Config) (converter.Options, error) {
	rp, err := csv.ParseRowPolicy(cfg.RowPolicy)
	if err != nil {
		return converter.Options{}, err
	}
	dp, err := converter.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return converter.Options{}, err
	}
	comma, err := cfg.CommaRune()
	if err != nil {
		return converter.Options{}, err
	}
	return converter.Options{
		SourcePath:   cfg.SourcePath,
		DestPath:     cfg.DestPath,
		Table:        cfg.Table,
		RowPolicy:    rp,
		Duplicates:   dp,
		Comma:        comma,
		NormalizeNFC: cfg.NormalizeNFC,
		Job:          cfg.Metrics.Job,
	}, nil
}
