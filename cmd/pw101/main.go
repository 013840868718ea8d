package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/config"
)

var version = "dev"

func main() {
	runner := NewRunner(RunnerOpts{})

	app := &cli.Command{
		Name:     "pw101",
		Usage:    "Regenerate per-site passwords from a master secret",
		Version:  version,
		Flags:    []cli.Flag{configFlag()},
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.logger.Fatal("pw101 failed", "err", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   config.Path(),
		Sources: cli.EnvVars("PW101_CONFIG"),
	}
}
