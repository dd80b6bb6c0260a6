package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuentas/internal/app"
	"cuentas/internal/core"
)

type accountFlags struct {
	bank        string
	accountType string
	holder      string
	holder2     string
	balance     string
	category    string
	color       string
	number      string
	value       bool
}

func (f *accountFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bank, "bank", "", "bank name")
	cmd.Flags().StringVar(&f.accountType, "type", "", "account type, e.g. Ahorro")
	cmd.Flags().StringVar(&f.holder, "holder", "", "first holder")
	cmd.Flags().StringVar(&f.holder2, "holder2", "", "second holder")
	cmd.Flags().StringVar(&f.balance, "balance", "0", "current balance (1234,56 or 1234.56)")
	cmd.Flags().StringVar(&f.category, "category", "", "category (default General)")
	cmd.Flags().StringVar(&f.color, "color", "", "card colour as #rrggbb")
	cmd.Flags().StringVar(&f.number, "number", "", "IBAN or security identifier")
	cmd.Flags().BoolVar(&f.value, "value", false, "securities account instead of cash")
}

func (f *accountFlags) account() (core.Account, error) {
	balance, err := core.ParseBalance(f.balance)
	if err != nil {
		return core.Account{}, err
	}
	return core.Account{
		Bank:           f.bank,
		AccountType:    f.accountType,
		Holder:         f.holder,
		Holder2:        f.holder2,
		CurrentBalance: balance,
		Category:       f.category,
		Color:          f.color,
		AccountNumber:  f.number,
		IsValueAccount: f.value,
	}, nil
}

// patch sets only the fields whose flags were given on the command line.
func (f *accountFlags) patch(cmd *cobra.Command) (core.AccountPatch, error) {
	var p core.AccountPatch
	changed := cmd.Flags().Changed

	if changed("bank") {
		p.Bank = &f.bank
	}
	if changed("type") {
		p.AccountType = &f.accountType
	}
	if changed("holder") {
		p.Holder = &f.holder
	}
	if changed("holder2") {
		p.Holder2 = &f.holder2
	}
	if changed("balance") {
		balance, err := core.ParseBalance(f.balance)
		if err != nil {
			return p, err
		}
		p.CurrentBalance = &balance
	}
	if changed("category") {
		p.Category = &f.category
	}
	if changed("color") {
		p.Color = &f.color
	}
	if changed("number") {
		p.AccountNumber = &f.number
	}
	if changed("value") {
		p.IsValueAccount = &f.value
	}
	return p, nil
}

func newAccountCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"cuenta"},
		Short:   "Manage accounts",
	}
	cmd.AddCommand(
		newAccountAddCommand(e),
		newAccountEditCommand(e),
		newAccountDeleteCommand(e),
		newAccountListCommand(e),
	)
	return cmd
}

func newAccountAddCommand(e *env) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := f.account()
			if err != nil {
				return err
			}
			res, err := dispatchAs[app.AccountResult](cmd.Context(), e, app.AddAccount{Account: acc})
			if err != nil {
				return err
			}
			printOK(e.Out, "Cuenta creada: %s (%s)", res.Account.DisplayName(), res.Account.ID)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("holder")

	return cmd
}

func newAccountEditCommand(e *env) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			res, err := dispatchAs[app.AccountResult](cmd.Context(), e, app.EditAccount{ID: args[0], Patch: patch})
			if err != nil {
				return err
			}
			printOK(e.Out, "Cuenta actualizada: %s", res.Account.DisplayName())
			return nil
		},
	}
	f.bind(cmd)

	return cmd
}

func newAccountDeleteCommand(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.confirm(fmt.Sprintf("¿Eliminar la cuenta %s?", args[0]), yes); err != nil {
				return err
			}
			res, err := dispatchAs[app.AccountDeleted](cmd.Context(), e, app.DeleteAccount{ID: args[0]})
			if err != nil {
				return err
			}
			printOK(e.Out, "Cuenta eliminada: %s", res.ID)
			if res.RemovedReturns > 0 {
				fmt.Fprintf(e.Out, "  %d rendimientos eliminados\n", res.RemovedReturns)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newAccountListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := dispatchAs[app.AccountsResult](cmd.Context(), e, app.ListAccounts{})
			if err != nil {
				return err
			}
			renderAccounts(e.Out, res.Accounts)
			return nil
		},
	}
}
