package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/lovincyrus/passwords101/internal/crypto"
	"github.com/lovincyrus/passwords101/internal/generator"
)

func refcodeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refcode",
		Usage:  "Print the reference code of a master password",
		Action: r.RefCode,
	}
}

func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "Type a master password and watch its reference code update",
		Action: r.Check,
	}
}

// RefCode prompts for the master secret and prints its reference code.
func (r *Runner) RefCode(ctx context.Context, cmd *cli.Command) error {
	master, err := r.promptSecret("Master password: ")
	if err != nil {
		return fmt.Errorf("reading master password: %w", err)
	}
	r.printf("%s\n", codeColor(crypto.ReferenceCode(master)))
	return nil
}

// Check feeds master-password edits through the debounced watcher. On a
// terminal every keystroke is an edit and input is not echoed; otherwise
// every input line is one.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	w := generator.NewReferenceCodeWatcher(r.config.Reference.Debounce.Duration, func(code string) {
		fmt.Fprintf(r.output, "\rReference code: %-20s", codeColor(code))
	})
	defer w.Stop()
	w.Start("")

	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return r.checkTerminal(f, w)
	}

	var last string
	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		last = scanner.Text()
		w.Changed(last)
	}
	w.Stop()
	r.printf("\rReference code: %-20s\n", codeColor(crypto.ReferenceCode(last)))
	return scanner.Err()
}

func (r *Runner) checkTerminal(f *os.File, w *generator.ReferenceCodeWatcher) error {
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(int(f.Fd()), state)

	var secret []rune
	reader := bufio.NewReader(f)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		switch c {
		case '\r', '\n', 3, 4: // enter, ctrl-c, ctrl-d
			w.Stop()
			r.printf("\rReference code: %-20s\r\n", codeColor(crypto.ReferenceCode(string(secret))))
			return nil
		case 127, 8: // backspace
			if len(secret) > 0 {
				secret = secret[:len(secret)-1]
			}
		default:
			secret = append(secret, c)
		}
		w.Changed(string(secret))
	}
	return nil
}
