package report

import (
	"cmp"
	"slices"

	"cuentas/internal/core"
)

// ReturnLine is one row of the returns list view.
type ReturnLine struct {
	core.Return
	AccountName string
}

// ReturnLines lists returns newest first, ties broken by id, with the account
// display name resolved (or the deleted-account placeholder).
func ReturnLines(accounts []core.Account, returns []core.Return) []ReturnLine {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.DisplayName()
	}

	lines := make([]ReturnLine, len(returns))
	for i, r := range returns {
		name, ok := names[r.AccountID]
		if !ok {
			name = DeletedAccountName
		}
		lines[i] = ReturnLine{Return: r, AccountName: name}
	}

	slices.SortStableFunc(lines, func(a, b ReturnLine) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return lines
}
