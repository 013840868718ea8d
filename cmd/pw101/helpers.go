package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var errNoSecret = errors.New("no master password on input")

// promptSecret reads the master secret without echo when input is a
// terminal, and as one line otherwise.
func (r *Runner) promptSecret(prompt string) (string, error) {
	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && line != "":
		return strings.TrimRight(line, "\r\n"), nil
	case errors.Is(err, io.EOF):
		return "", errNoSecret
	default:
		return "", err
	}
}

// startSpinner shows a working indicator on stderr when it is a terminal.
// The returned func stops it.
func startSpinner(msg string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

var (
	siteColor = color.New(color.FgCyan).SprintFunc()
	codeColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	okMark    = color.GreenString("✓")
)
