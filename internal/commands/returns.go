package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuentas/internal/app"
	"cuentas/internal/core"
)

type returnFlags struct {
	accountID  string
	amount     string
	date       string
	returnType string
	note       string
}

func (f *returnFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.accountID, "account", "", "account id")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, always positive")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.returnType, "type", string(core.Interest), "interest, dividend or commission")
	cmd.Flags().StringVar(&f.note, "note", "", "free note")
}

func (f *returnFlags) ret(e *env) (core.Return, error) {
	amount, err := core.ParseAmount(f.amount)
	if err != nil {
		return core.Return{}, err
	}
	date := core.DateOf(e.Now())
	if f.date != "" {
		if date, err = core.ParseDate(f.date); err != nil {
			return core.Return{}, err
		}
	}
	rt, err := core.ParseReturnType(f.returnType)
	if err != nil {
		return core.Return{}, err
	}
	return core.Return{
		AccountID:  f.accountID,
		Amount:     amount,
		Date:       date,
		ReturnType: rt,
		Note:       f.note,
	}, nil
}

func (f *returnFlags) patch(cmd *cobra.Command) (core.ReturnPatch, error) {
	var p core.ReturnPatch
	changed := cmd.Flags().Changed

	if changed("account") {
		p.AccountID = &f.accountID
	}
	if changed("amount") {
		amount, err := core.ParseAmount(f.amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if changed("date") {
		date, err := core.ParseDate(f.date)
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	if changed("type") {
		rt, err := core.ParseReturnType(f.returnType)
		if err != nil {
			return p, err
		}
		p.ReturnType = &rt
	}
	if changed("note") {
		p.Note = &f.note
	}
	return p, nil
}

func newReturnCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "return",
		Aliases: []string{"rendimiento"},
		Short:   "Manage interest, dividend and commission entries",
	}
	cmd.AddCommand(
		newReturnAddCommand(e),
		newReturnEditCommand(e),
		newReturnDeleteCommand(e),
		newReturnListCommand(e),
	)
	return cmd
}

func newReturnAddCommand(e *env) *cobra.Command {
	var f returnFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a return",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := f.ret(e)
			if err != nil {
				return err
			}
			res, err := dispatchAs[app.ReturnResult](cmd.Context(), e, app.AddReturn{Return: r})
			if err != nil {
				return err
			}
			printOK(e.Out, "Rendimiento registrado: %s %s el %s (%s)",
				res.Return.ReturnType.Label(), core.FormatEuros(res.Return.Amount), res.Return.Date.Display(), res.Return.ID)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newReturnEditCommand(e *env) *cobra.Command {
	var f returnFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			res, err := dispatchAs[app.ReturnResult](cmd.Context(), e, app.EditReturn{ID: args[0], Patch: patch})
			if err != nil {
				return err
			}
			printOK(e.Out, "Rendimiento actualizado: %s %s el %s",
				res.Return.ReturnType.Label(), core.FormatEuros(res.Return.Amount), res.Return.Date.Display())
			return nil
		},
	}
	f.bind(cmd)

	return cmd
}

func newReturnDeleteCommand(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.confirm(fmt.Sprintf("¿Eliminar el rendimiento %s?", args[0]), yes); err != nil {
				return err
			}
			res, err := dispatchAs[app.ReturnDeleted](cmd.Context(), e, app.DeleteReturn{ID: args[0]})
			if err != nil {
				return err
			}
			printOK(e.Out, "Rendimiento eliminado: %s", res.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newReturnListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List returns, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.ReturnsResult](cmd.Context(), e, app.ViewReturns{})
			if err != nil {
				return err
			}
			renderReturns(e.Out, res.Lines)
			return nil
		},
	}
}
