package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/api"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the site settings API for local front ends",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides config)"},
		},
		Action: r.Serve,
	}
}

// Serve runs the settings API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	addr := r.config.Server.Addr
	if v := cmd.String("addr"); v != "" {
		addr = v
	}

	srv := api.New(a, addr, api.Options{WriteRate: r.config.Server.WriteRate, Logger: r.logger})
	ln, err := srv.Start()
	if err != nil {
		return err
	}
	r.logger.Info("settings API listening", "addr", ln.Addr().String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
