// Package tui hosts the report screen in a line-oriented terminal session.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Adda-Baaj/defect-reporter/internal/screen"
)

const defaultWidth = 60

// Session reads commands from in and renders the screen to out. It implements
// screen.Alerter and device.Prompter.
type Session struct {
	out         io.Writer
	lines       chan string
	readErr     error // set before lines is closed
	interactive bool
	width       int

	// ctx is the context of the running session; alerts wait on it.
	ctx context.Context
}

// Options tunes a Session.
type Options struct {
	// Interactive waits for Enter after each alert and echoes prompts.
	Interactive bool
	Width       int
}

// NewSession starts reading lines from in.
func NewSession(in io.Reader, out io.Writer, opts Options) *Session {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	s := &Session{
		out:         out,
		lines:       make(chan string),
		interactive: opts.Interactive,
		width:       width,
	}
	go s.readLoop(in)
	return s
}

// TerminalOptions inspects f and reports whether it is an interactive terminal and
// how wide it is.
func TerminalOptions(f *os.File) Options {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Options{}
	}
	opts := Options{Interactive: true}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		opts.Width = min(w, 100)
	}
	return opts
}

func (s *Session) readLoop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.readErr = err
	close(s.lines)
}

// readLine blocks until a line, end of input or cancellation.
func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", s.readErr
		}
		return line, nil
	}
}

// Alert prints a modal message. Interactive sessions wait for Enter.
func (s *Session) Alert(title, message string) {
	fmt.Fprintf(s.out, "\n[%s] %s\n", title, message)
	if s.interactive {
		fmt.Fprint(s.out, "(Enter para continuar)")
		_, _ = s.readLine(s.runContext())
	}
}

func (s *Session) runContext() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Ask prints question and returns the next input line.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(s.out, "%s ", question)
	line, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; only an explicit yes counts.
func (s *Session) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := s.Ask(ctx, question+" [s/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Run loads the reports, then executes commands until "sair", end of input or
// cancellation.
func (s *Session) Run(ctx context.Context, scr *screen.Screen) error {
	s.ctx = ctx
	defer func() { s.ctx = nil }()

	_ = scr.Load(ctx)
	s.render(scr.Snapshot())
	s.printHelp()

	for {
		fmt.Fprint(s.out, "\n> ")
		line, err := s.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		quit, err := s.dispatch(ctx, scr, line)
		if err != nil && ctx.Err() != nil {
			return nil
		}
		if quit {
			return nil
		}
	}
}
