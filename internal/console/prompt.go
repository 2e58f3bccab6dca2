// Package console provides the terminal flavour of the operator dialogs.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a confirmation is needed but nobody can answer it
var ErrNotInteractive = errors.New("confirmation requires an interactive terminal")

// Prompter asks yes/no questions and prints notifications on a terminal
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a prompter reading answers from in and writing to out.
// interactive=false makes every confirmation fail with ErrNotInteractive.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// NewStdPrompter creates a prompter on stdin/stdout, interactive only when stdin is a terminal
func NewStdPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// Confirm prints the prompt and blocks until the operator answers.
// Anything other than y or yes is a decline.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !p.interactive {
		return false, ErrNotInteractive
	}

	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}

	answer, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && answer != "") {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Notify prints the message on its own line
func (p *Prompter) Notify(_ context.Context, message string) {
	fmt.Fprintln(p.out, message)
}

// AlwaysConfirm answers yes without asking, for --yes
type AlwaysConfirm struct{}

// Confirm returns true
func (AlwaysConfirm) Confirm(context.Context, string) (bool, error) {
	return true, nil
}
