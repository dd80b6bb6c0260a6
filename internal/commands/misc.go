package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cuentas/internal/app"
)

func newSummaryCommand(e *env) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"resumen"},
		Short:   "Show balances and return totals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.SummaryResult](cmd.Context(), e, app.ViewSummary{Year: year})
			if err != nil {
				return err
			}
			renderSummary(e.Out, res.Summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "restrict the per-account breakdown to one year (0 = all)")

	return cmd
}

func newOrderCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Show or change the display order of accounts",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show accounts with their positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.OrderResult](cmd.Context(), e, app.ViewOrder{})
			if err != nil {
				return err
			}
			renderOrder(e.Out, res.Accounts)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Move an account to a position (1 is first)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("invalid position %q", args[1])
			}
			res, err := dispatchAs[app.OrderResult](cmd.Context(), e, app.MoveAccount{ID: args[0], ToIndex: pos - 1})
			if err != nil {
				return err
			}
			printOK(e.Out, "Orden guardado (%d cuentas)", len(res.IDs))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <id>...",
		Short: "Store an explicit order; unlisted accounts follow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.OrderResult](cmd.Context(), e, app.SetOrder{IDs: args})
			if err != nil {
				return err
			}
			printOK(e.Out, "Orden guardado (%d cuentas)", len(res.IDs))
			return nil
		},
	}

	cmd.AddCommand(show, move, set)
	return cmd
}

func newExportCommand(e *env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all accounts and returns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.ExportResult](cmd.Context(), e, app.Export{})
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := e.Out.Write(res.File.Data)
				return err
			}

			path := out
			if path == "" {
				path = res.File.Name
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, res.File.Name)
			}
			if err := os.WriteFile(path, res.File.Data, 0o644); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
			printOK(e.Out, "Copia exportada a %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file or directory to write to, - for stdout")

	return cmd
}

func newImportCommand(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				if !yes {
					return ErrConfirmationRequired
				}
				data, err = io.ReadAll(e.In)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}

			if err := e.confirm("Importar sustituirá todas las cuentas y rendimientos. ¿Continuar?", yes); err != nil {
				return err
			}
			res, err := dispatchAs[app.ImportResult](cmd.Context(), e, app.Import{Data: data})
			if err != nil {
				return err
			}
			printOK(e.Out, "Importadas %d cuentas y %d rendimientos", res.Accounts, res.Returns)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newThemeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the colour theme",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.ThemeResult](cmd.Context(), e, app.ViewTheme{})
			if err != nil {
				return err
			}
			fmt.Fprintln(e.Out, res.Theme)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.ThemeResult](cmd.Context(), e, app.ToggleTheme{})
			if err != nil {
				return err
			}
			printOK(e.Out, "Tema: %s", res.Theme)
			return nil
		},
	}

	cmd.AddCommand(show, toggle)
	return cmd
}

func newHelpInfoCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "help-info",
		Short: "Explain how the data is kept and what each action does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.HelpResult](cmd.Context(), e, app.Help{})
			if err != nil {
				return err
			}
			fmt.Fprint(e.Out, res.Text)
			return nil
		},
	}
}
