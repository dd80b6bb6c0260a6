package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateNotAfterToday(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 5, 10, 23, 59, 59, 0, loc)

	cases := []struct {
		name string
		d    Date
		err  error
	}{
		{"yesterday", NewDate(2024, 5, 9), nil},
		{"today", NewDate(2024, 5, 10), nil},
		{"tomorrow", NewDate(2024, 5, 11), ErrFutureDate},
		{"zero", Date{}, ErrInvalidDate},
	}
	for _, tc := range cases {
		err := tc.d.NotAfterToday(now)
		if tc.err == nil && err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
	}
}

func TestDateNotAfterTodayAtStartOfDay(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)
	if err := NewDate(2024, 5, 10).NotAfterToday(now); err != nil {
		t.Fatalf("today must be accepted at midnight, got %v", err)
	}
	if err := NewDate(2024, 5, 11).NotAfterToday(now); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("tomorrow must be rejected, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2023, 6, 1))
	if err != nil || string(b) != `"2023-06-01"` {
		t.Fatalf("unexpected marshal: %s err=%v", b, err)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-01-01T10:00:00Z"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %s", d)
	}
	if err := json.Unmarshal([]byte(`"01/02/2024"`), &d); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateJSONTimestampUsesLocalDay(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("CET", 3600)
	defer func() { time.Local = saved }()

	var d Date
	if err := json.Unmarshal([]byte(`"2023-12-31T23:30:00Z"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-01-01" || d.Year() != 2024 {
		t.Fatalf("expected local day 2024-01-01, got %s", d)
	}

	if err := json.Unmarshal([]byte(`"2024-06-30T22:30:00-02:00"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-07-01" {
		t.Fatalf("expected local day 2024-07-01, got %s", d)
	}
}

func TestParseReturnType(t *testing.T) {
	cases := map[string]ReturnType{
		"interest":  Interest,
		"Dividend":  Dividend,
		"comision":  Commission,
		"dividendo": Dividend,
	}
	for in, want := range cases {
		got, err := ParseReturnType(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseReturnType("bonus"); !errors.Is(err, ErrInvalidReturnType) {
		t.Fatalf("expected ErrInvalidReturnType, got %v", err)
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Bank: "BBVA", Holder: "Ana", CurrentBalance: decimal.NewFromInt(1000)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		a   Account
		err error
	}{
		{Account{Bank: "", Holder: "Ana"}, ErrEmptyBank},
		{Account{Bank: "BBVA", Holder: ""}, ErrEmptyHolder},
		{Account{Bank: "BBVA", Holder: "Ana", CurrentBalance: decimal.NewFromInt(-1)}, ErrInvalidBalance},
		{Account{Bank: "BBVA", Holder: "Ana", Color: "blue"}, ErrInvalidColor},
	}
	for i, tc := range cases {
		if err := tc.a.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
		if err := tc.a.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected a validation error, got %v", i, err)
		}
	}
}

func TestAccountNormalize(t *testing.T) {
	a := Account{Bank: "  BBVA ", Holder: " Ana", AccountType: " Ahorro "}.Normalize()
	if a.Bank != "BBVA" || a.Holder != "Ana" || a.Category != DefaultCategory {
		t.Fatalf("unexpected normalized account: %+v", a)
	}
	if a.DisplayName() != "BBVA (Ahorro)" {
		t.Fatalf("unexpected display name %q", a.DisplayName())
	}
	if err := (Account{Bank: "   ", Holder: "Ana"}).Normalize().Validate(); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("blank bank must be rejected after normalize, got %v", err)
	}
}

func TestReturnValidate(t *testing.T) {
	good := Return{AccountID: "a1", Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1), ReturnType: Dividend}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		r   Return
		err error
	}{
		{Return{Amount: decimal.NewFromInt(10), Date: NewDate(2024, 1, 1), ReturnType: Dividend}, ErrEmptyAccountID},
		{Return{AccountID: "a1", Amount: decimal.Zero, Date: NewDate(2024, 1, 1), ReturnType: Dividend}, ErrInvalidAmount},
		{Return{AccountID: "a1", Amount: decimal.NewFromInt(-3), Date: NewDate(2024, 1, 1), ReturnType: Dividend}, ErrInvalidAmount},
		{Return{AccountID: "a1", Amount: decimal.NewFromInt(1), ReturnType: Dividend}, ErrInvalidDate},
		{Return{AccountID: "a1", Amount: decimal.NewFromInt(1), Date: NewDate(2024, 1, 1), ReturnType: "bonus"}, ErrInvalidReturnType},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestReturnNet(t *testing.T) {
	r := Return{Amount: decimal.NewFromInt(5), ReturnType: Commission}
	if !r.Net().Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("commission net must be negative, got %s", r.Net())
	}
	r.ReturnType = Interest
	if !r.Net().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("interest net must equal amount, got %s", r.Net())
	}
}

func TestPatchApply(t *testing.T) {
	bank := "ING"
	balance := decimal.NewFromInt(42)
	a := AccountPatch{Bank: &bank, CurrentBalance: &balance}.Apply(Account{ID: "x", Bank: "BBVA", Holder: "Ana"})
	if a.ID != "x" || a.Bank != "ING" || a.Holder != "Ana" || !a.CurrentBalance.Equal(balance) {
		t.Fatalf("unexpected patched account: %+v", a)
	}

	note := "trimestral"
	r := ReturnPatch{Note: &note}.Apply(Return{ID: "r", AccountID: "x", Amount: decimal.NewFromInt(1)})
	if r.Note != note || r.AccountID != "x" {
		t.Fatalf("unexpected patched return: %+v", r)
	}
}
