package app

import (
	"github.com/shopspring/decimal"

	"cuentas/internal/backup"
	"cuentas/internal/core"
	"cuentas/internal/report"
	"cuentas/internal/settings"
)

// Command is a user intent handled by App.Dispatch. The set of variants is
// closed: only types in this package implement it.
type Command interface {
	command() string
}

type (
	AddAccount struct {
		Account core.Account
	}
	EditAccount struct {
		ID    string
		Patch core.AccountPatch
	}
	DeleteAccount struct {
		ID string
	}
	ListAccounts struct{}
	AddReturn    struct {
		Return core.Return
	}
	EditReturn struct {
		ID    string
		Patch core.ReturnPatch
	}
	DeleteReturn struct {
		ID string
	}
	ViewReturns struct{}
	// ViewSummary builds the report; Year 0 selects all years.
	ViewSummary struct {
		Year int
	}
	ViewOrder   struct{}
	MoveAccount struct {
		ID      string
		ToIndex int
	}
	SetOrder struct {
		IDs []string
	}
	Export struct{}
	Import struct {
		Data []byte
	}
	ViewTheme   struct{}
	ToggleTheme struct{}
	Help        struct{}
)

func (AddAccount) command() string    { return "add-account" }
func (EditAccount) command() string   { return "edit-account" }
func (DeleteAccount) command() string { return "delete-account" }
func (ListAccounts) command() string  { return "list-accounts" }
func (AddReturn) command() string     { return "add-return" }
func (EditReturn) command() string    { return "edit-return" }
func (DeleteReturn) command() string  { return "delete-return" }
func (ViewReturns) command() string   { return "view-returns" }
func (ViewSummary) command() string   { return "view-summary" }
func (ViewOrder) command() string     { return "view-order" }
func (MoveAccount) command() string   { return "move-account" }
func (SetOrder) command() string      { return "set-order" }
func (Export) command() string        { return "export" }
func (Import) command() string        { return "import" }
func (ViewTheme) command() string     { return "view-theme" }
func (ToggleTheme) command() string   { return "toggle-theme" }
func (Help) command() string          { return "help" }

// Result is what a handled command produced. Like Command, the variants are
// closed.
type Result interface {
	result()
}

type (
	AccountResult struct {
		Account core.Account
	}
	AccountsResult struct {
		Accounts []core.Account
	}
	AccountDeleted struct {
		ID             string
		RemovedReturns int
	}
	ReturnResult struct {
		Return core.Return
	}
	ReturnDeleted struct {
		ID string
	}
	ReturnsResult struct {
		Lines []report.ReturnLine
	}
	SummaryResult struct {
		Summary         report.Summary
		WithholdingRate decimal.Decimal
	}
	// OrderResult carries the display order. Accounts is filled by ViewOrder
	// and MoveAccount.
	OrderResult struct {
		IDs      []string
		Accounts []core.Account
	}
	ExportResult struct {
		File backup.File
	}
	ImportResult struct {
		Accounts int
		Returns  int
	}
	ThemeResult struct {
		Theme settings.Theme
	}
	HelpResult struct {
		Text string
	}
)

func (AccountResult) result()  {}
func (AccountsResult) result() {}
func (AccountDeleted) result() {}
func (ReturnResult) result()   {}
func (ReturnDeleted) result()  {}
func (ReturnsResult) result()  {}
func (SummaryResult) result()  {}
func (OrderResult) result()    {}
func (ExportResult) result()   {}
func (ImportResult) result()   {}
func (ThemeResult) result()    {}
func (HelpResult) result()     {}
