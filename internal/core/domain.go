package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Interest   ReturnType = "interest"
	Dividend   ReturnType = "dividend"
	Commission ReturnType = "commission"
)

// DefaultCategory is assigned to accounts created without a category.
const DefaultCategory = "General"

type (
	ReturnType string

	Date struct {
		time.Time
	}

	// Account is a bank or securities account. CurrentBalance is entered by the
	// user and is never derived from returns.
	Account struct {
		ID             string          `json:"id"`
		Bank           string          `json:"bank" validate:"required,max=100"`
		AccountType    string          `json:"accountType,omitempty" validate:"max=100"`
		Holder         string          `json:"holder" validate:"required,max=100"`
		Holder2        string          `json:"holder2,omitempty" validate:"max=100"`
		CurrentBalance decimal.Decimal `json:"currentBalance"`
		Category       string          `json:"category,omitempty" validate:"max=100"`
		Color          string          `json:"color,omitempty" validate:"omitempty,hexcolor"`
		AccountNumber  string          `json:"accountNumber,omitempty" validate:"max=64"`
		IsValueAccount bool            `json:"isValueAccount"`
	}

	// Return is an interest, dividend or commission payment tied to an account.
	// Amount is always positive; commissions become negative through Net.
	Return struct {
		ID         string          `json:"id"`
		AccountID  string          `json:"accountId" validate:"required"`
		Amount     decimal.Decimal `json:"amount"`
		Date       Date            `json:"date"`
		ReturnType ReturnType      `json:"returnType"`
		Note       string          `json:"note,omitempty" validate:"max=200"`
	}

	AccountPatch struct {
		Bank           *string
		AccountType    *string
		Holder         *string
		Holder2        *string
		CurrentBalance *decimal.Decimal
		Category       *string
		Color          *string
		AccountNumber  *string
		IsValueAccount *bool
	}

	ReturnPatch struct {
		AccountID  *string
		Amount     *decimal.Decimal
		Date       *Date
		ReturnType *ReturnType
		Note       *string
	}
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrEmptyBank         = fmt.Errorf("%w: empty bank", ErrValidation)
	ErrEmptyHolder       = fmt.Errorf("%w: empty holder", ErrValidation)
	ErrEmptyAccountID    = fmt.Errorf("%w: empty account id", ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidBalance    = fmt.Errorf("%w: invalid balance", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrFutureDate        = fmt.Errorf("%w: date is in the future", ErrValidation)
	ErrInvalidReturnType = fmt.Errorf("%w: invalid return type", ErrValidation)
	ErrInvalidColor      = fmt.Errorf("%w: invalid color", ErrValidation)
)

// ReturnTypes lists the known return types in display order.
func ReturnTypes() []ReturnType {
	return []ReturnType{Dividend, Interest, Commission}
}

// ParseReturnType accepts the canonical names and the Spanish spellings used by
// older backups.
func ParseReturnType(s string) (ReturnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interest", "interes", "interés":
		return Interest, nil
	case "dividend", "dividendo":
		return Dividend, nil
	case "commission", "comision", "comisión":
		return Commission, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReturnType, s)
	}
}

func (t ReturnType) IsValid() bool {
	switch t {
	case Interest, Dividend, Commission:
		return true
	default:
		return false
	}
}

func (t ReturnType) String() string {
	return string(t)
}

// Label returns the user-facing name of the type.
func (t ReturnType) Label() string {
	switch t {
	case Interest:
		return "Interés"
	case Dividend:
		return "Dividendo"
	case Commission:
		return "Comisión"
	default:
		return string(t)
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// Display formats the date as DD-MM-YYYY.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02-01-2006")
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD and full RFC 3339 timestamps; the latter are
// truncated to their calendar date in the local time zone.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	*d = DateOf(t.In(time.Local))
	return nil
}

// NotAfterToday checks d against the end of the current local day, inclusive.
// A return dated today is accepted at any time of day; tomorrow is rejected.
func (d Date) NotAfterToday(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if DateOf(now).Before(d) {
		return ErrFutureDate
	}
	return nil
}

// DisplayName renders the account as "Bank (AccountType)".
func (a Account) DisplayName() string {
	if a.AccountType == "" {
		return a.Bank
	}
	return a.Bank + " (" + a.AccountType + ")"
}

// Normalize trims free-text fields and fills the default category.
func (a Account) Normalize() Account {
	a.Bank = strings.TrimSpace(a.Bank)
	a.AccountType = strings.TrimSpace(a.AccountType)
	a.Holder = strings.TrimSpace(a.Holder)
	a.Holder2 = strings.TrimSpace(a.Holder2)
	a.Category = strings.TrimSpace(a.Category)
	a.Color = strings.TrimSpace(a.Color)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)
	if a.Category == "" {
		a.Category = DefaultCategory
	}
	return a
}

func (a Account) Validate() error {
	if err := validateStruct(a); err != nil {
		return err
	}
	if a.CurrentBalance.IsNegative() {
		return ErrInvalidBalance
	}
	return nil
}

// Net is the signed amount: commissions count against the total.
func (r Return) Net() decimal.Decimal {
	if r.ReturnType == Commission {
		return r.Amount.Neg()
	}
	return r.Amount
}

func (r Return) Normalize() Return {
	r.AccountID = strings.TrimSpace(r.AccountID)
	r.Note = strings.TrimSpace(r.Note)
	return r
}

// Validate checks the structural rules of a return. The future-date rule depends
// on the clock and is checked separately with Date.NotAfterToday.
func (r Return) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if !r.ReturnType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReturnType, r.ReturnType)
	}
	return nil
}

// Apply returns a copy of a with the non-nil patch fields set.
func (p AccountPatch) Apply(a Account) Account {
	if p.Bank != nil {
		a.Bank = *p.Bank
	}
	if p.AccountType != nil {
		a.AccountType = *p.AccountType
	}
	if p.Holder != nil {
		a.Holder = *p.Holder
	}
	if p.Holder2 != nil {
		a.Holder2 = *p.Holder2
	}
	if p.CurrentBalance != nil {
		a.CurrentBalance = *p.CurrentBalance
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.AccountNumber != nil {
		a.AccountNumber = *p.AccountNumber
	}
	if p.IsValueAccount != nil {
		a.IsValueAccount = *p.IsValueAccount
	}
	return a
}

// Apply returns a copy of r with the non-nil patch fields set.
func (p ReturnPatch) Apply(r Return) Return {
	if p.AccountID != nil {
		r.AccountID = *p.AccountID
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.ReturnType != nil {
		r.ReturnType = *p.ReturnType
	}
	if p.Note != nil {
		r.Note = *p.Note
	}
	return r
}
