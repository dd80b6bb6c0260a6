package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{".5", "0.5", true},
		{"-1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseBalanceAcceptsZero(t *testing.T) {
	got, err := ParseBalance("0")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero balance, got %s (err=%v)", got, err)
	}
	if _, err := ParseBalance("-5"); err != ErrInvalidBalance {
		t.Fatalf("expected ErrInvalidBalance, got %v", err)
	}
}

func TestFormatEuros(t *testing.T) {
	cases := map[string]string{
		"0":          "0,00 €",
		"1":          "1,00 €",
		"1234.5":     "1.234,50 €",
		"1234567.89": "1.234.567,89 €",
		"-81":        "-81,00 €",
		"-0.001":     "0,00 €",
	}
	for in, want := range cases {
		if got := FormatEuros(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatEuros(%s) = %q, want %q", in, got, want)
		}
	}
}
