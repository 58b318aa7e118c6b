// Package shell is the line-oriented front end of the terminal client.
//
//	add <title>; <amount>; <category>
//	rm <id>
//	ls
//	chart
//	export <file.csv|file.xlsx|file.pdf>
//	help
//	quit
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"spesechart/internal/core"
	"spesechart/internal/export"
	applog "spesechart/internal/log"
	"spesechart/internal/store"
	"spesechart/internal/view/term"
)

const Prompt = "spese> "

const usage = `commands:
  add <title>; <amount>; <category>      add an expense
  rm <id>                                delete an expense
  ls                                     list expenses
  chart                                  redraw the chart and show insights
  export <file.csv|file.xlsx|file.pdf>   export every stored expense
  help                                   show this help
  quit                                   exit
`

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

// Controller is the subset of the expense controller the shell drives.
type Controller interface {
	Submit(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	RefreshChart(ctx context.Context) error
}

type Shell struct {
	ctrl   Controller
	lister store.ExpenseLister
	form   *term.Form
	view   *term.View
	out    io.Writer
	logger *applog.Logger

	silentCreateFailures bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithSilentCreateFailures matches a controller built with the option of the
// same name: failed adds are not alerted, so the shell prints them itself.
func WithSilentCreateFailures() Option {
	return func(s *Shell) { s.silentCreateFailures = true }
}

func New(ctrl Controller, lister store.ExpenseLister, form *term.Form, v *term.View, out io.Writer, logger *applog.Logger, opts ...Option) *Shell {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &Shell{ctrl: ctrl, lister: lister, form: form, view: v, out: out, logger: logger.WithComponent(applog.ComponentView)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	fmt.Fprint(s.out, Prompt)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if err := s.Exec(ctx, line); errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprint(s.out, Prompt)
		}
	}
}

// Exec runs one command line. Command errors are printed, not returned;
// only ErrQuit escapes.
func (s *Shell) Exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "add":
		s.form.Set(term.ParseDraft(arg))
		err = s.ctrl.Submit(ctx)
		if s.alerted(err) {
			err = nil
		}
	case "rm", "delete":
		if arg == "" {
			fmt.Fprintln(s.out, "usage: rm <id>")
			return nil
		}
		err = s.ctrl.Delete(ctx, arg)
	case "ls", "list":
		s.view.PrintRows()
	case "chart":
		err = s.chart(ctx)
	case "export":
		err = s.export(ctx, arg)
	case "help", "?":
		fmt.Fprint(s.out, usage)
	case "quit", "exit", "q":
		return ErrQuit
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}

	if err != nil {
		s.logger.DebugContext(ctx, "Command failed", "command", cmd, applog.FieldError, err.Error())
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
	return nil
}

// alerted reports whether the controller already showed err to the user.
func (s *Shell) alerted(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, core.ErrEmptyTitle), errors.Is(err, core.ErrEmptyAmount), errors.Is(err, core.ErrEmptyCategory):
		return true
	default:
		return !s.silentCreateFailures
	}
}

func (s *Shell) chart(ctx context.Context) error {
	s.view.Invalidate()
	if err := s.ctrl.RefreshChart(ctx); err != nil {
		return err
	}
	records, err := s.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	s.view.PrintInsights(core.Summarize(records))
	return nil
}

func (s *Shell) export(ctx context.Context, path string) error {
	if path == "" {
		fmt.Fprintln(s.out, "usage: export <file.csv|file.xlsx|file.pdf>")
		return nil
	}
	if _, err := export.FormatFromPath(path); err != nil {
		return err
	}
	records, err := s.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	if err := export.WriteFile(path, records); err != nil {
		return err
	}
	s.logger.WithComponent(applog.ComponentExport).InfoContext(ctx, "Expenses exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldRecords, len(records),
		"path", path)
	fmt.Fprintf(s.out, "exported %d expenses to %s\n", len(records), path)
	return nil
}
