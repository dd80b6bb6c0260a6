// Package app holds the application state and the single command dispatcher.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"cuentas/internal/backup"
	"cuentas/internal/log"
	"cuentas/internal/ordering"
	"cuentas/internal/report"
	"cuentas/internal/services"
	"cuentas/internal/settings"
	"cuentas/internal/store"
)

// State is the lifecycle position of an App.
type State int

const (
	StateOpen State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrNotReady is returned by Dispatch before Start or after Close.
	ErrNotReady = errors.New("application is not ready")
	// ErrUnknownCommand is returned for a nil command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Options configures the services an App wires around its store.
type Options struct {
	CascadeDelete   bool
	WithholdingRate decimal.Decimal
	Now             func() time.Time
	IDGen           store.IDGenerator
	Logger          *log.Logger
}

// App is the explicit application state: an injected store handle plus the
// services built on it.
type App struct {
	mu    sync.Mutex
	state State

	store    store.Store
	accounts *services.AccountService
	returns  *services.ReturnService
	order    *ordering.Service
	reports  *report.Service
	backup   *backup.Service
	theme    *settings.ThemeService

	opts   Options
	logger *log.Logger
}

// New wires an App around st. The App starts in StateOpen; call Start before
// dispatching commands.
func New(st store.Store, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.WithComponent(log.ComponentApp)
	order := ordering.NewService(st, opts.Logger)

	return &App{
		state:    StateOpen,
		store:    st,
		accounts: services.NewAccountService(st, opts.CascadeDelete, opts.Logger),
		returns:  services.NewReturnService(st, st, opts.Now, opts.Logger),
		order:    order,
		reports:  report.NewService(st, st, order, opts.Logger),
		backup:   backup.NewService(st, opts.IDGen, opts.Now, opts.Logger),
		theme:    settings.NewThemeService(st),
		opts:     opts,
		logger:   logger,
	}
}

// Start checks the store answers and moves the App to StateReady.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateOpen {
		return fmt.Errorf("start from state %s: %w", a.state, ErrNotReady)
	}
	if _, err := a.theme.Get(ctx); err != nil {
		return fmt.Errorf("store not usable: %w", err)
	}
	a.state = StateReady
	a.logger.DebugContext(ctx, "application ready", log.FieldOperation, log.OpStartup)
	return nil
}

// Close releases the store. Further dispatches return ErrNotReady.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateClosed {
		return nil
	}
	a.state = StateClosed
	a.logger.Debug("application closed", log.FieldOperation, log.OpShutdown)
	return a.store.Close()
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Dispatch runs one command. Commands are handled one at a time.
func (a *App) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateReady {
		return nil, ErrNotReady
	}
	if cmd == nil {
		return nil, ErrUnknownCommand
	}

	res, err := a.handle(ctx, cmd)
	if err != nil {
		a.logger.DebugContext(ctx, "command failed", log.FieldCommand, cmd.command(), log.FieldError, err)
		return nil, err
	}
	return res, nil
}

func (a *App) handle(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case AddAccount:
		acc, err := a.accounts.Create(ctx, c.Account)
		return AccountResult{Account: acc}, err
	case EditAccount:
		acc, err := a.accounts.Update(ctx, c.ID, c.Patch)
		return AccountResult{Account: acc}, err
	case DeleteAccount:
		n, err := a.accounts.Delete(ctx, c.ID)
		return AccountDeleted{ID: c.ID, RemovedReturns: n}, err
	case ListAccounts:
		list, err := a.reports.OrderedAccounts(ctx)
		return AccountsResult{Accounts: list}, err
	case AddReturn:
		r, err := a.returns.Create(ctx, c.Return)
		return ReturnResult{Return: r}, err
	case EditReturn:
		r, err := a.returns.Update(ctx, c.ID, c.Patch)
		return ReturnResult{Return: r}, err
	case DeleteReturn:
		return ReturnDeleted{ID: c.ID}, a.returns.Delete(ctx, c.ID)
	case ViewReturns:
		lines, err := a.reports.Returns(ctx)
		return ReturnsResult{Lines: lines}, err
	case ViewSummary:
		sum, err := a.reports.Summary(ctx, report.Options{Year: c.Year, WithholdingRate: a.opts.WithholdingRate})
		return SummaryResult{Summary: sum, WithholdingRate: a.opts.WithholdingRate}, err
	case ViewOrder:
		list, err := a.reports.OrderedAccounts(ctx)
		return OrderResult{IDs: ordering.IDs(list), Accounts: list}, err
	case MoveAccount:
		list, err := a.store.ListAccounts(ctx)
		if err != nil {
			return nil, err
		}
		ids, err := a.order.Move(ctx, list, c.ID, c.ToIndex)
		if err != nil {
			return nil, err
		}
		return OrderResult{IDs: ids, Accounts: ordering.ApplyOrder(list, ids)}, nil
	case SetOrder:
		return OrderResult{IDs: c.IDs}, a.order.SetOrder(ctx, c.IDs)
	case Export:
		f, err := a.backup.Export(ctx)
		return ExportResult{File: f}, err
	case Import:
		doc, err := a.backup.Import(ctx, c.Data)
		return ImportResult{Accounts: len(doc.Accounts), Returns: len(doc.Returns)}, err
	case ViewTheme:
		t, err := a.theme.Get(ctx)
		return ThemeResult{Theme: t}, err
	case ToggleTheme:
		t, err := a.theme.Toggle(ctx)
		return ThemeResult{Theme: t}, err
	case Help:
		return HelpResult{Text: HelpText(a.accounts.Cascade())}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}
