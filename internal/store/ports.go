package store

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"cuentas/internal/core"
)

// Named settings slots.
const (
	KeyAccountOrder = "account_order"
	KeyTheme        = "theme"
)

// ErrClosed is returned by every operation on a store after Close.
var ErrClosed = errors.New("store is closed")

// Ports implemented by the storage backends.
type (
	AccountStore interface {
		CreateAccount(ctx context.Context, a core.Account) (id string, err error)
		// GetAccount returns core.ErrNotFound when the id is unknown.
		GetAccount(ctx context.Context, id string) (core.Account, error)
		UpdateAccount(ctx context.Context, id string, patch core.AccountPatch) (core.Account, error)
		DeleteAccount(ctx context.Context, id string) error
		// ListAccounts returns accounts in storage (insertion) order.
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	ReturnStore interface {
		CreateReturn(ctx context.Context, r core.Return) (id string, err error)
		GetReturn(ctx context.Context, id string) (core.Return, error)
		UpdateReturn(ctx context.Context, id string, patch core.ReturnPatch) (core.Return, error)
		DeleteReturn(ctx context.Context, id string) error
		ListReturns(ctx context.Context) ([]core.Return, error)
		// DeleteReturnsByAccount removes every return referencing accountID and
		// reports how many were removed.
		DeleteReturnsByAccount(ctx context.Context, accountID string) (int, error)
	}

	// CascadeDeleter removes an account together with its returns as one unit.
	// An unknown id yields core.ErrNotFound and removes nothing.
	CascadeDeleter interface {
		DeleteAccountCascade(ctx context.Context, id string) (removedReturns int, err error)
	}

	// Replacer clears both collections and inserts the given records as one unit.
	// Records keep their ids.
	Replacer interface {
		ReplaceAll(ctx context.Context, accounts []core.Account, returns []core.Return) error
	}

	SettingsStore interface {
		// GetSetting reports found=false when the slot was never written.
		GetSetting(ctx context.Context, key string) (value string, found bool, err error)
		SetSetting(ctx context.Context, key, value string) error
	}

	// Store is the full record store handle handed to the application.
	Store interface {
		AccountStore
		ReturnStore
		CascadeDeleter
		Replacer
		SettingsStore
		Close() error
	}

	// IDGenerator generates unique record ids.
	IDGenerator interface {
		Generate() string
	}
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
