// Package ordering keeps the user-chosen display order of accounts.
package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/store"
)

// ApplyOrder returns accounts arranged by order. Ids listed in order come first
// by position, the first occurrence winning for duplicates; accounts missing
// from order follow in their original relative order. Unknown ids in order are
// ignored. The input slice is not modified.
func ApplyOrder(accounts []core.Account, order []string) []core.Account {
	byID := make(map[string]int, len(accounts))
	for i, a := range accounts {
		if _, dup := byID[a.ID]; !dup {
			byID[a.ID] = i
		}
	}

	out := make([]core.Account, 0, len(accounts))
	used := make([]bool, len(accounts))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, accounts[i])
	}
	for i, a := range accounts {
		if !used[i] {
			out = append(out, a)
		}
	}
	return out
}

// IDs returns the ids of accounts in slice order.
func IDs(accounts []core.Account) []string {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids
}

// Service reads and writes the persisted order slot.
type Service struct {
	settings store.SettingsStore
	logger   *log.Logger
}

func NewService(settings store.SettingsStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{settings: settings, logger: logger.WithComponent(log.ComponentOrdering)}
}

// GetOrder returns the stored order; a never-written slot is an empty order.
func (s *Service) GetOrder(ctx context.Context) ([]string, error) {
	raw, found, err := s.settings.GetSetting(ctx, store.KeyAccountOrder)
	if err != nil {
		return nil, fmt.Errorf("read account order: %w", err)
	}
	if !found || raw == "" {
		return []string{}, nil
	}
	var order []string
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, fmt.Errorf("decode account order: %w", err)
	}
	if order == nil {
		order = []string{}
	}
	return order, nil
}

// SetOrder overwrites the stored order wholesale.
func (s *Service) SetOrder(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode account order: %w", err)
	}
	if err := s.settings.SetSetting(ctx, store.KeyAccountOrder, string(raw)); err != nil {
		return fmt.Errorf("write account order: %w", err)
	}
	s.logger.DebugContext(ctx, "account order saved", log.FieldCount, len(ids))
	return nil
}

// Move completes a drag gesture: the account id is placed at toIndex (clamped
// to the list bounds) within the currently displayed order, and the full
// resulting order is persisted and returned.
func (s *Service) Move(ctx context.Context, accounts []core.Account, id string, toIndex int) ([]string, error) {
	order, err := s.GetOrder(ctx)
	if err != nil {
		return nil, err
	}
	ids := IDs(ApplyOrder(accounts, order))

	from := slices.Index(ids, id)
	if from < 0 {
		return nil, fmt.Errorf("account %s: %w", id, core.ErrNotFound)
	}

	toIndex = max(0, min(toIndex, len(ids)-1))
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, toIndex, id)

	if err := s.SetOrder(ctx, ids); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "account moved",
		log.FieldOperation, log.OpMove,
		log.FieldAccountID, id,
		"from", from,
		"to", toIndex)
	return ids, nil
}
