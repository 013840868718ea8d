package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/app"
	"github.com/lovincyrus/passwords101/internal/crypto"
	"github.com/lovincyrus/passwords101/internal/generator"
)

func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen", "g"},
		Usage:   "Generate the password for a site",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "site", Aliases: []string{"s"}, Usage: "Site identifier, e.g. example.com"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Full URL; reduced to its site identifier"},
			&cli.StringFlag{Name: "suffix", Usage: "Special character suffix (overrides stored settings)"},
			&cli.StringFlag{Name: "max-length", Aliases: []string{"m"}, Usage: "Maximum password length; empty or <= 0 means no limit"},
			&cli.BoolFlag{Name: "plain", Usage: "Ignore stored suffix and length settings"},
			&cli.BoolFlag{Name: "copy", Usage: "Copy the password to the clipboard instead of printing it"},
		},
		Action: r.Generate,
	}
}

// Generate prompts for the master secret, stores the site settings and
// prints (or copies) the derived password.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	a, closeStore, err := r.openApp(cmd.String("url"))
	if err != nil {
		return err
	}
	defer closeStore()

	prefill, err := resolveSite(ctx, a, cmd.String("site"), cmd.Args().First())
	if err != nil {
		return err
	}

	req := app.Request{Site: prefill.Site, MaxLength: generator.NoLimit}
	switch {
	case cmd.IsSet("suffix") || cmd.IsSet("max-length"):
		req.SpecialChar = cmd.String("suffix")
		req.MaxLength = app.ParseMaxLength(cmd.String("max-length"))
	case cmd.Bool("plain"):
	case prefill.Enabled:
		req.SpecialChar = prefill.SpecialChar
		req.MaxLength = prefill.MaxLength
	}

	master, err := r.promptSecret("Master password: ")
	if err != nil {
		return fmt.Errorf("reading master password: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Reference code: %s\n", codeColor(crypto.ReferenceCode(master)))

	stop := startSpinner("Generating...")
	res := <-a.Generate(ctx, req)
	stop()
	if res.Err != nil {
		return res.Err
	}

	if cmd.Bool("copy") {
		if err := clipboard.WriteAll(res.Password); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s Password for %s copied to clipboard\n", okMark, siteColor(req.Site))
		return nil
	}
	r.printf("%s\n", res.Password)
	return nil
}

var errNoSite = errors.New("no site given: use --site, --url or a positional argument")

// resolveSite picks the site from --site, the positional argument, or the
// host URL, in that order, and returns its stored settings.
func resolveSite(ctx context.Context, a *app.App, flag, arg string) (app.Prefill, error) {
	site := flag
	if site == "" {
		site = arg
	}
	if site != "" {
		return a.Lookup(ctx, site), nil
	}
	if p, ok := a.Start(ctx); ok {
		return p, nil
	}
	return app.Prefill{}, errNoSite
}
