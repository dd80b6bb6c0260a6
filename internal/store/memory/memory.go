package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"cuentas/internal/core"
	"cuentas/internal/store"
)

// Store keeps accounts, returns and settings in process memory. Slices keep
// insertion order so List mirrors the storage order of the SQLite backend.
type Store struct {
	mu       sync.Mutex
	idGen    store.IDGenerator
	accounts []core.Account
	returns  []core.Return
	settings map[string]string
	closed   bool
}

var _ store.Store = (*Store)(nil)

func New(idGen store.IDGenerator) *Store {
	if idGen == nil {
		idGen = store.NewULIDGenerator()
	}
	return &Store{idGen: idGen, settings: map[string]string{}}
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CreateAccount stores a copy of a under a freshly generated id.
func (s *Store) CreateAccount(_ context.Context, a core.Account) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", store.ErrClosed
	}
	a.ID = s.idGen.Generate()
	s.accounts = append(s.accounts, a)
	return a.ID, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Account{}, store.ErrClosed
	}
	i := s.accountIndex(id)
	if i < 0 {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	return s.accounts[i], nil
}

func (s *Store) UpdateAccount(_ context.Context, id string, patch core.AccountPatch) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Account{}, store.ErrClosed
	}
	i := s.accountIndex(id)
	if i < 0 {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	s.accounts[i] = patch.Apply(s.accounts[i])
	return s.accounts[i], nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	i := s.accountIndex(id)
	if i < 0 {
		return fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	s.accounts = slices.Delete(s.accounts, i, i+1)
	return nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return slices.Clone(s.accounts), nil
}

func (s *Store) CreateReturn(_ context.Context, r core.Return) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", store.ErrClosed
	}
	r.ID = s.idGen.Generate()
	s.returns = append(s.returns, r)
	return r.ID, nil
}

func (s *Store) GetReturn(_ context.Context, id string) (core.Return, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Return{}, store.ErrClosed
	}
	i := s.returnIndex(id)
	if i < 0 {
		return core.Return{}, fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	return s.returns[i], nil
}

func (s *Store) UpdateReturn(_ context.Context, id string, patch core.ReturnPatch) (core.Return, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Return{}, store.ErrClosed
	}
	i := s.returnIndex(id)
	if i < 0 {
		return core.Return{}, fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	s.returns[i] = patch.Apply(s.returns[i])
	return s.returns[i], nil
}

func (s *Store) DeleteReturn(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	i := s.returnIndex(id)
	if i < 0 {
		return fmt.Errorf("return %s: %w", id, core.ErrNotFound)
	}
	s.returns = slices.Delete(s.returns, i, i+1)
	return nil
}

func (s *Store) ListReturns(_ context.Context) ([]core.Return, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return slices.Clone(s.returns), nil
}

func (s *Store) DeleteReturnsByAccount(_ context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, store.ErrClosed
	}
	before := len(s.returns)
	s.returns = slices.DeleteFunc(s.returns, func(r core.Return) bool {
		return r.AccountID == accountID
	})
	return before - len(s.returns), nil
}

// DeleteAccountCascade removes the account and its returns under one lock.
func (s *Store) DeleteAccountCascade(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, store.ErrClosed
	}
	i := s.accountIndex(id)
	if i < 0 {
		return 0, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}
	before := len(s.returns)
	s.returns = slices.DeleteFunc(s.returns, func(r core.Return) bool {
		return r.AccountID == id
	})
	s.accounts = slices.Delete(s.accounts, i, i+1)
	return before - len(s.returns), nil
}

// ReplaceAll swaps both collections under one lock, so readers never observe a
// half-imported state.
func (s *Store) ReplaceAll(_ context.Context, accounts []core.Account, returns []core.Return) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.accounts = slices.Clone(accounts)
	s.returns = slices.Clone(returns)
	return nil
}

func (s *Store) GetSetting(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, store.ErrClosed
	}
	v, ok := s.settings[key]
	return v, ok, nil
}

func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.settings[key] = value
	return nil
}

func (s *Store) accountIndex(id string) int {
	return slices.IndexFunc(s.accounts, func(a core.Account) bool { return a.ID == id })
}

func (s *Store) returnIndex(id string) int {
	return slices.IndexFunc(s.returns, func(r core.Return) bool { return r.ID == id })
}
