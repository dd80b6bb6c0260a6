// Package report turns accounts, returns and the stored order into the
// read-only Summary consumed by the presentation layer.
package report

import (
	"github.com/shopspring/decimal"

	"cuentas/internal/aggregate"
	"cuentas/internal/core"
	"cuentas/internal/ordering"
)

// DeletedAccountName labels returns whose account no longer exists.
const DeletedAccountName = "Cuenta eliminada"

type Bucket string

const (
	BucketCash  Bucket = "cash"
	BucketValue Bucket = "value"
)

type (
	// Options selects how a Summary is built. Year 0 means all years.
	Options struct {
		Year            int
		WithholdingRate decimal.Decimal
	}

	AccountLine struct {
		AccountID string
		Name      string
		Amount    decimal.Decimal
		// Net is set only when withholding applies to the group.
		Net *decimal.Decimal
	}

	YearLine struct {
		Year   int
		Amount decimal.Decimal
		Net    *decimal.Decimal
	}

	ReturnGroup struct {
		Type      core.ReturnType
		Label     string
		Count     int
		Total     decimal.Decimal
		Net       *decimal.Decimal
		ByYear    []YearLine
		ByAccount []AccountLine
	}

	AccountCard struct {
		ID         string
		Name       string
		Holders    []string
		Category   string
		Balance    decimal.Decimal
		Bucket     Bucket
		Identifier string
		Color      string
	}

	Summary struct {
		Totals       core.Buckets
		ReturnGroups []ReturnGroup
		Accounts     []AccountCard
		// NetTotal is the profitability over all returns: interest and dividends
		// add, commissions subtract. NetByYear breaks it down, most recent first.
		NetTotal  decimal.Decimal
		NetByYear []core.YearAmount
		// Years lists every year with at least one return, most recent first.
		Years        []int
		SelectedYear int
	}
)

// state is threaded through the pipeline steps.
type state struct {
	accounts []core.Account
	returns  []core.Return
	order    []string
	opts     Options

	ordered []core.Account
	names   map[string]string
	summary Summary
}

type step func(*state)

// pipeline is the fixed, ordered list of steps Build runs.
var pipeline = []step{
	orderAccounts,
	computeTotals,
	computeReturnGroups,
	buildAccountCards,
}

// Build projects the inputs into a Summary. It has no side effects.
func Build(accounts []core.Account, returns []core.Return, order []string, opts Options) Summary {
	s := &state{accounts: accounts, returns: returns, order: order, opts: opts}
	for _, run := range pipeline {
		run(s)
	}
	return s.summary
}

func orderAccounts(s *state) {
	s.ordered = ordering.ApplyOrder(s.accounts, s.order)
	s.names = make(map[string]string, len(s.ordered))
	for _, a := range s.ordered {
		s.names[a.ID] = a.DisplayName()
	}
}

func computeTotals(s *state) {
	s.summary.Totals = aggregate.Buckets(s.ordered)
}

func computeReturnGroups(s *state) {
	s.summary.SelectedYear = s.opts.Year
	s.summary.Years = aggregate.SortedYears(aggregate.GroupByYear(s.returns))
	s.summary.NetTotal = aggregate.SumNet(s.returns)
	s.summary.NetByYear = aggregate.YearAmounts(aggregate.NetByYear(s.returns))

	groups := aggregate.GroupByType(s.returns)
	for _, t := range core.ReturnTypes() {
		list := groups.Of(t)
		if len(list) == 0 {
			continue
		}
		withhold := t == core.Dividend && s.opts.WithholdingRate.IsPositive()
		net := func(d decimal.Decimal) *decimal.Decimal {
			if !withhold {
				return nil
			}
			n := aggregate.Net(d, s.opts.WithholdingRate)
			return &n
		}

		g := ReturnGroup{
			Type:  t,
			Label: t.Label(),
			Count: len(list),
			Total: aggregate.SumAmount(list),
		}
		g.Net = net(g.Total)

		for _, ya := range aggregate.YearAmounts(aggregate.GroupByYear(list)) {
			g.ByYear = append(g.ByYear, YearLine{Year: ya.Year, Amount: ya.Amount, Net: net(ya.Amount)})
		}

		byAccount := aggregate.GroupByAccount(list, s.opts.Year)
		for _, id := range aggregate.AccountIDsByFirstSeen(list, s.opts.Year) {
			amount := byAccount[id]
			g.ByAccount = append(g.ByAccount, AccountLine{
				AccountID: id,
				Name:      s.accountName(id),
				Amount:    amount,
				Net:       net(amount),
			})
		}

		s.summary.ReturnGroups = append(s.summary.ReturnGroups, g)
	}
}

func buildAccountCards(s *state) {
	palette := newPalette()
	for _, a := range s.ordered {
		card := AccountCard{
			ID:         a.ID,
			Name:       a.DisplayName(),
			Holders:    holders(a),
			Category:   a.Category,
			Balance:    a.CurrentBalance,
			Bucket:     BucketCash,
			Identifier: FormatIdentifier(a.AccountNumber, a.IsValueAccount),
			Color:      a.Color,
		}
		if a.IsValueAccount {
			card.Bucket = BucketValue
		}
		if card.Color == "" {
			card.Color = palette.colorFor(a.AccountType)
		}
		s.summary.Accounts = append(s.summary.Accounts, card)
	}
}

func (s *state) accountName(id string) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return DeletedAccountName
}

func holders(a core.Account) []string {
	out := []string{a.Holder}
	if a.Holder2 != "" {
		out = append(out, a.Holder2)
	}
	return out
}
