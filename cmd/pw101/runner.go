package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/app"
	"github.com/lovincyrus/passwords101/internal/config"
	"github.com/lovincyrus/passwords101/internal/store"
)

// Runner holds the dependencies shared by every command.
type Runner struct {
	config *config.Config
	logger *log.Logger
	output io.Writer
	input  io.Reader
}

// RunnerOpts configures a Runner. Zero values select defaults.
type RunnerOpts struct {
	Config *config.Config
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = config.NewLogger(nil, opts.Config.Log.Level)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
	}
}

// Before loads the config file named by --config.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.config = cfg
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		r.logger.SetLevel(lvl)
	}
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		generateCommand(r),
		refcodeCommand(r),
		checkCommand(r),
		listCommand(r),
		showCommand(r),
		suggestCommand(r),
		normalizeCommand(r),
		exportCommand(r),
		importCommand(r),
		serveCommand(r),
		configCommand(r),
	}
}

// openApp opens the configured store and builds the App around it.
// initialURL may be empty.
func (r *Runner) openApp(initialURL string) (*app.App, func(), error) {
	s, err := store.OpenBackend(r.config.Storage.Backend, r.config.StorePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	r.logger.Debug("opened store", "backend", r.config.Storage.Backend, "path", r.config.StorePath())

	a := app.New(app.Env{
		Store: s,
		InitialURL: func(context.Context) (string, bool, error) {
			return initialURL, initialURL != "", nil
		},
		OnError: func(err error) {
			r.logger.Error("passwords101", "err", err)
		},
		Logger:   r.logger,
		Debounce: r.config.Reference.Debounce.Duration,
	})
	return a, func() { s.Close() }, nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}
