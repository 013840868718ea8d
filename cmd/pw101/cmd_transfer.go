package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all site settings as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to file instead of stdout"},
			&cli.BoolFlag{Name: "pretty", Usage: "Indent the JSON"},
		},
		Action: r.Export,
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import site settings (JSON export or legacy backslash format)",
		ArgsUsage: "[file|-]",
		Action:    r.Import,
	}
}

// Export writes the settings mapping in the web clients' format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := a.Export(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("pretty") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s Exported to %s\n", okMark, path)
		return nil
	}
	_, err = r.output.Write(data)
	return err
}

// Import reads settings from a file or stdin and saves every record.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	var (
		data []byte
		err  error
	)
	switch path := cmd.Args().First(); path {
	case "", "-":
		data, err = io.ReadAll(r.input)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}

	a, closeStore, err := r.openApp("")
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := a.Import(ctx, string(data))
	if err != nil {
		return err
	}
	r.printf("%s Imported %d site(s)", okMark, res.Saved)
	if res.Failed > 0 {
		r.printf(", %d failed", res.Failed)
	}
	r.printf("\n")
	return nil
}
