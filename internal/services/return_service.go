package services

import (
	"context"
	"fmt"
	"time"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/store"
)

// ReturnService validates returns, including the future-date rule, before they
// reach the store.
type ReturnService struct {
	returns  store.ReturnStore
	accounts store.AccountStore
	now      func() time.Time
	logger   *log.Logger
}

// NewReturnService builds the service. now defaults to time.Now.
func NewReturnService(returns store.ReturnStore, accounts store.AccountStore, now func() time.Time, logger *log.Logger) *ReturnService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ReturnService{returns: returns, accounts: accounts, now: now, logger: logger.WithComponent(log.ComponentApp)}
}

func (s *ReturnService) validate(r core.Return) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.Date.NotAfterToday(s.now())
}

// Create stores r after validation. The referenced account must exist.
func (s *ReturnService) Create(ctx context.Context, r core.Return) (core.Return, error) {
	r = r.Normalize()
	if err := s.validate(r); err != nil {
		return core.Return{}, err
	}
	if _, err := s.accounts.GetAccount(ctx, r.AccountID); err != nil {
		return core.Return{}, err
	}

	id, err := s.returns.CreateReturn(ctx, r)
	if err != nil {
		return core.Return{}, fmt.Errorf("create return: %w", err)
	}
	r.ID = id

	s.logger.InfoContext(ctx, "return created",
		log.FieldOperation, log.OpCreate,
		log.FieldReturnID, id,
		log.FieldAccountID, r.AccountID,
		"type", r.ReturnType)
	return r, nil
}

func (s *ReturnService) Get(ctx context.Context, id string) (core.Return, error) {
	return s.returns.GetReturn(ctx, id)
}

func (s *ReturnService) List(ctx context.Context) ([]core.Return, error) {
	return s.returns.ListReturns(ctx)
}

// Update validates the merged return. Moving a return to another account
// requires that account to exist; keeping a dangling account id is allowed.
func (s *ReturnService) Update(ctx context.Context, id string, patch core.ReturnPatch) (core.Return, error) {
	cur, err := s.returns.GetReturn(ctx, id)
	if err != nil {
		return core.Return{}, err
	}
	merged := patch.Apply(cur).Normalize()
	if err := s.validate(merged); err != nil {
		return core.Return{}, err
	}
	if merged.AccountID != cur.AccountID {
		if _, err := s.accounts.GetAccount(ctx, merged.AccountID); err != nil {
			return core.Return{}, err
		}
	}

	updated, err := s.returns.UpdateReturn(ctx, id, core.ReturnPatch{
		AccountID:  &merged.AccountID,
		Amount:     &merged.Amount,
		Date:       &merged.Date,
		ReturnType: &merged.ReturnType,
		Note:       &merged.Note,
	})
	if err != nil {
		return core.Return{}, fmt.Errorf("update return: %w", err)
	}

	s.logger.InfoContext(ctx, "return updated", log.FieldOperation, log.OpUpdate, log.FieldReturnID, id)
	return updated, nil
}

func (s *ReturnService) Delete(ctx context.Context, id string) error {
	if err := s.returns.DeleteReturn(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "return deleted",
		log.NewFields().WithOperation(log.OpDelete).WithReturn(id).ToSlice()...)
	return nil
}
