package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/config"
)

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration",
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: r.ConfigShow,
			},
		},
	}
}

// ConfigInit writes the example config to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := config.CreateConfigFile(path); err != nil {
		return err
	}
	r.printf("%s Wrote %s\n", okMark, path)
	return nil
}

// ConfigShow prints the loaded configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	c := r.config
	r.printf("dir:        %s\n", c.Dir)
	r.printf("backend:    %s\n", c.Storage.Backend)
	r.printf("store:      %s\n", c.StorePath())
	r.printf("addr:       %s\n", c.Server.Addr)
	r.printf("write rate: %g/s\n", c.Server.WriteRate)
	r.printf("log level:  %s\n", c.Log.Level)
	r.printf("debounce:   %s\n", c.Reference.Debounce)
	return nil
}
