package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/ordering"
	"cuentas/internal/store"
)

// OrderReader supplies the persisted account order.
type OrderReader interface {
	GetOrder(ctx context.Context) ([]string, error)
}

// Service loads everything a Summary needs and builds it. Any failed load fails
// the whole build; no partial Summary is ever returned.
type Service struct {
	accounts store.AccountStore
	returns  store.ReturnStore
	order    OrderReader
	logger   *log.Logger
}

func NewService(accounts store.AccountStore, returns store.ReturnStore, order OrderReader, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{
		accounts: accounts,
		returns:  returns,
		order:    order,
		logger:   logger.WithComponent(log.ComponentReport),
	}
}

type snapshot struct {
	accounts []core.Account
	returns  []core.Return
	order    []string
}

func (s *Service) load(ctx context.Context, withOrder bool) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.accounts.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		snap.accounts = list
		return nil
	})
	g.Go(func() error {
		list, err := s.returns.ListReturns(ctx)
		if err != nil {
			return fmt.Errorf("load returns: %w", err)
		}
		snap.returns = list
		return nil
	})
	if withOrder {
		g.Go(func() error {
			order, err := s.order.GetOrder(ctx)
			if err != nil {
				return fmt.Errorf("load account order: %w", err)
			}
			snap.order = order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Summary builds the full report.
func (s *Service) Summary(ctx context.Context, opts Options) (Summary, error) {
	start := time.Now()
	snap, err := s.load(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "summary load failed", log.FieldError, err)
		return Summary{}, err
	}
	sum := Build(snap.accounts, snap.returns, snap.order, opts)
	s.logger.DebugContext(ctx, "summary built",
		"accounts", len(snap.accounts),
		"returns", len(snap.returns),
		log.FieldYear, opts.Year,
		log.FieldDuration, time.Since(start).Milliseconds())
	return sum, nil
}

// Returns builds the returns list view.
func (s *Service) Returns(ctx context.Context) ([]ReturnLine, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "returns load failed", log.FieldError, err)
		return nil, err
	}
	return ReturnLines(snap.accounts, snap.returns), nil
}

// OrderedAccounts lists accounts in display order.
func (s *Service) OrderedAccounts(ctx context.Context) ([]core.Account, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	return ordering.ApplyOrder(snap.accounts, snap.order), nil
}
