// Package commands is the cobra command tree of the cuentas CLI. Every command
// opens the application, dispatches one app.Command and renders the result.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cuentas/internal/app"
	"cuentas/internal/log"
)

// Opener returns a started App. Commands close it when done.
type Opener func(ctx context.Context) (*app.App, error)

// Options wires the command tree to its environment.
type Options struct {
	Open Opener
	In   io.Reader
	Out  io.Writer
	// Interactive reports whether In is a terminal a user can answer prompts on.
	Interactive func() bool
	Now         func() time.Time
}

type env struct {
	Options
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Interactive == nil {
		opts.Interactive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &env{Options: opts}

	rootCmd := &cobra.Command{
		Use:   "cuentas",
		Short: "Cuentas bancarias y rendimientos, guardados solo en este equipo",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.SetIn(opts.In)
	rootCmd.SetOut(opts.Out)

	rootCmd.AddCommand(
		newAccountCommand(e),
		newReturnCommand(e),
		newSummaryCommand(e),
		newOrderCommand(e),
		newExportCommand(e),
		newImportCommand(e),
		newThemeCommand(e),
		newHelpInfoCommand(e),
	)

	return rootCmd
}

// dispatch opens the application, runs one command and closes it again.
func (e *env) dispatch(ctx context.Context, cmd app.Command) (app.Result, error) {
	if e.Open == nil {
		return nil, errors.New("no application opener configured")
	}
	a, err := e.Open(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "opening data failed", log.FieldError, err)
		return nil, fmt.Errorf("opening data: %w", err)
	}
	defer a.Close()
	return a.Dispatch(ctx, cmd)
}

// dispatchAs is dispatch with the result narrowed to the variant the command
// produces.
func dispatchAs[R app.Result](ctx context.Context, e *env, cmd app.Command) (R, error) {
	var zero R
	res, err := e.dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("unexpected result %T", res)
	}
	return r, nil
}
