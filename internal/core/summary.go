package core

import "github.com/shopspring/decimal"

// Buckets holds the balance subtotals: cash accounts, value accounts and both.
type Buckets struct {
	Cash  decimal.Decimal
	Value decimal.Decimal
	Total decimal.Decimal
}

// YearAmount is a total for a single calendar year.
type YearAmount struct {
	Year   int
	Amount decimal.Decimal
}

// AccountAmount is a total attributed to one account id.
type AccountAmount struct {
	AccountID string
	Amount    decimal.Decimal
}
