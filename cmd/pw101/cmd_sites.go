package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/lovincyrus/passwords101/internal/generator"
)

var errMissingArg = errors.New("missing required argument")

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List sites with stored settings",
		Action: r.List,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show stored settings for a site",
		ArgsUsage: "<site>",
		Action:    r.Show,
	}
}

func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest a known site close to the given one",
		ArgsUsage: "<site>",
		Action:    r.Suggest,
	}
}

func normalizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Reduce a URL to its site identifier",
		ArgsUsage: "<url>",
		Action:    r.Normalize,
	}
}

// List prints every known site with its suffix and limit.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	all, err := a.Store().GetAll(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		r.printf("No sites stored.\n")
		return nil
	}
	for _, site := range a.Sites(ctx) {
		s := all[site]
		limit := "-"
		if s.Limit() > 0 {
			limit = strconv.Itoa(s.Limit())
		}
		r.printf("%-35s %-8q %s\n", siteColor(site), s.SpecialChar, limit)
	}
	return nil
}

// Show prints the prefill for one site.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	site := cmd.Args().First()
	if site == "" {
		return errMissingArg
	}
	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	p := a.Lookup(ctx, site)
	if !p.Enabled {
		r.printf("%s: no special settings\n", siteColor(site))
		return nil
	}
	limit := "none"
	if p.MaxLength > 0 {
		limit = strconv.Itoa(p.MaxLength)
	}
	r.printf("%s: suffix %q, max length %s\n", siteColor(site), p.SpecialChar, limit)
	return nil
}

// Suggest prints the closest known site, if any.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	site := cmd.Args().First()
	if site == "" {
		return errMissingArg
	}
	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	if match, ok := a.Suggest(ctx, site); ok {
		r.printf("Did you mean %s?\n", siteColor(match))
		return nil
	}
	r.printf("No similar site stored.\n")
	return nil
}

// Normalize prints the site identifier for a URL.
func (r *Runner) Normalize(ctx context.Context, cmd *cli.Command) error {
	url := cmd.Args().First()
	if url == "" {
		return errMissingArg
	}
	r.printf("%s\n", generator.NormalizeSite(url))
	return nil
}
