package services

import (
	"context"
	"fmt"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/store"
)

// AccountStore is the subset of the record store the account service needs.
type AccountStore interface {
	store.AccountStore
	store.CascadeDeleter
}

// AccountService validates account input before it reaches the store.
type AccountService struct {
	store   AccountStore
	cascade bool
	logger  *log.Logger
}

// NewAccountService builds the service. With cascade set, deleting an account
// also deletes its returns; otherwise they are kept and left dangling.
func NewAccountService(st AccountStore, cascade bool, logger *log.Logger) *AccountService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AccountService{store: st, cascade: cascade, logger: logger.WithComponent(log.ComponentApp)}
}

// Create normalizes and validates a, then stores it. The stored account is
// returned with its new id.
func (s *AccountService) Create(ctx context.Context, a core.Account) (core.Account, error) {
	a = a.Normalize()
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	id, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	a.ID = id

	s.logger.InfoContext(ctx, "account created",
		log.NewFields().WithOperation(log.OpCreate).WithAccount(id).ToSlice()...)
	return a, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *AccountService) List(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

// Update merges patch into the stored account and validates the result before
// writing; an invalid merge leaves the record untouched.
func (s *AccountService) Update(ctx context.Context, id string, patch core.AccountPatch) (core.Account, error) {
	cur, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	merged := patch.Apply(cur).Normalize()
	if err := merged.Validate(); err != nil {
		return core.Account{}, err
	}

	updated, err := s.store.UpdateAccount(ctx, id, accountPatchOf(merged))
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}

	s.logger.InfoContext(ctx, "account updated",
		log.NewFields().WithOperation(log.OpUpdate).WithAccount(id).ToSlice()...)
	return updated, nil
}

// Delete removes the account and reports how many returns went with it. In
// cascade mode both go in one store operation, so a failure leaves the account
// and its returns in place.
func (s *AccountService) Delete(ctx context.Context, id string) (int, error) {
	removed := 0
	if s.cascade {
		n, err := s.store.DeleteAccountCascade(ctx, id)
		if err != nil {
			return 0, err
		}
		removed = n
	} else if err := s.store.DeleteAccount(ctx, id); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "account deleted",
		log.NewFields().WithOperation(log.OpDelete).WithAccount(id).ToSlice()...,
	)
	return removed, nil
}

// Cascade reports whether deleting an account also deletes its returns.
func (s *AccountService) Cascade() bool {
	return s.cascade
}

func accountPatchOf(a core.Account) core.AccountPatch {
	return core.AccountPatch{
		Bank:           &a.Bank,
		AccountType:    &a.AccountType,
		Holder:         &a.Holder,
		Holder2:        &a.Holder2,
		CurrentBalance: &a.CurrentBalance,
		Category:       &a.Category,
		Color:          &a.Color,
		AccountNumber:  &a.AccountNumber,
		IsValueAccount: &a.IsValueAccount,
	}
}
