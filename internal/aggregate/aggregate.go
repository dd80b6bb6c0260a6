// Package aggregate derives totals from accounts and returns. Every function is
// pure and recomputed on each read.
package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"

	"cuentas/internal/core"
)

// TotalBalance sums the current balance of every account.
func TotalBalance(accounts []core.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.CurrentBalance)
	}
	return total
}

// TotalBalanceWhere sums the balances of accounts whose value flag equals isValue.
func TotalBalanceWhere(accounts []core.Account, isValue bool) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.IsValueAccount == isValue {
			total = total.Add(a.CurrentBalance)
		}
	}
	return total
}

// Buckets splits balances into cash and value subtotals. Total always equals
// Cash plus Value.
func Buckets(accounts []core.Account) core.Buckets {
	cash := TotalBalanceWhere(accounts, false)
	value := TotalBalanceWhere(accounts, true)
	return core.Buckets{Cash: cash, Value: value, Total: cash.Add(value)}
}

// Groups partitions returns by type, preserving input order within each group.
type Groups struct {
	Interest   []core.Return
	Dividend   []core.Return
	Commission []core.Return
}

// Of returns the group for t; unknown types have no group.
func (g Groups) Of(t core.ReturnType) []core.Return {
	switch t {
	case core.Interest:
		return g.Interest
	case core.Dividend:
		return g.Dividend
	case core.Commission:
		return g.Commission
	}
	return nil
}

// GroupByType partitions returns by exact type match. Returns with an unknown
// type belong to no group.
func GroupByType(returns []core.Return) Groups {
	var g Groups
	for _, r := range returns {
		switch r.ReturnType {
		case core.Interest:
			g.Interest = append(g.Interest, r)
		case core.Dividend:
			g.Dividend = append(g.Dividend, r)
		case core.Commission:
			g.Commission = append(g.Commission, r)
		}
	}
	return g
}

// SumAmount is the gross sum of amounts.
func SumAmount(returns []core.Return) decimal.Decimal {
	total := decimal.Zero
	for _, r := range returns {
		total = total.Add(r.Amount)
	}
	return total
}

// SumNet sums signed amounts, commissions counting negative.
func SumNet(returns []core.Return) decimal.Decimal {
	total := decimal.Zero
	for _, r := range returns {
		total = total.Add(r.Net())
	}
	return total
}

// GroupByYear sums amounts per calendar year of the return date.
func GroupByYear(returns []core.Return) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal)
	for _, r := range returns {
		y := r.Date.Year()
		out[y] = out[y].Add(r.Amount)
	}
	return out
}

// NetByYear sums signed amounts per calendar year, commissions counting
// negative.
func NetByYear(returns []core.Return) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal)
	for _, r := range returns {
		y := r.Date.Year()
		out[y] = out[y].Add(r.Net())
	}
	return out
}

// SortedYears lists the keys of byYear from most recent to oldest.
func SortedYears(byYear map[int]decimal.Decimal) []int {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// YearAmounts renders byYear as a slice in SortedYears order.
func YearAmounts(byYear map[int]decimal.Decimal) []core.YearAmount {
	years := SortedYears(byYear)
	out := make([]core.YearAmount, len(years))
	for i, y := range years {
		out[i] = core.YearAmount{Year: y, Amount: byYear[y]}
	}
	return out
}

// GroupByAccount sums amounts per account id. A yearFilter of 0 includes every
// year; otherwise only returns dated in that year count.
func GroupByAccount(returns []core.Return, yearFilter int) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range returns {
		if yearFilter != 0 && r.Date.Year() != yearFilter {
			continue
		}
		out[r.AccountID] = out[r.AccountID].Add(r.Amount)
	}
	return out
}

// AccountIDsByFirstSeen lists distinct account ids in the order they first
// appear in returns, honouring the same year filter as GroupByAccount.
func AccountIDsByFirstSeen(returns []core.Return, yearFilter int) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range returns {
		if yearFilter != 0 && r.Date.Year() != yearFilter {
			continue
		}
		if !seen[r.AccountID] {
			seen[r.AccountID] = true
			ids = append(ids, r.AccountID)
		}
	}
	return ids
}

// Net applies a withholding rate: amount * (1 - rate).
func Net(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(rate))
}
