// Package backup exports the whole data set to a JSON document and restores it.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cuentas/internal/core"
	"cuentas/internal/store"
)

// ErrInvalidBackup wraps every reason a backup document is rejected.
var ErrInvalidBackup = errors.New("invalid backup")

// Document is a decoded, validated backup.
type Document struct {
	Accounts []core.Account
	Returns  []core.Return
}

// accountRecord and returnRecord are the wire shapes. Amounts are JSON
// numbers; ids are strings on export but legacy files carry numeric ids.
type (
	accountRecord struct {
		ID             json.RawMessage `json:"id,omitempty"`
		Bank           string          `json:"bank"`
		AccountType    string          `json:"accountType"`
		Holder         string          `json:"holder"`
		Holder2        string          `json:"holder2"`
		CurrentBalance json.Number     `json:"currentBalance"`
		Category       string          `json:"category"`
		Color          string          `json:"color"`
		AccountNumber  string          `json:"accountNumber"`
		IsValueAccount bool            `json:"isValueAccount"`
	}

	returnRecord struct {
		ID         json.RawMessage `json:"id,omitempty"`
		AccountID  json.RawMessage `json:"accountId"`
		Amount     json.Number     `json:"amount"`
		Date       core.Date       `json:"date"`
		ReturnType string          `json:"returnType"`
		Note       string          `json:"note"`
	}

	wireDocument struct {
		Accounts []accountRecord `json:"accounts"`
		Returns  []returnRecord  `json:"returns"`
	}
)

func quoteID(id string) json.RawMessage {
	b, _ := json.Marshal(id)
	return b
}

func toAccountRecord(a core.Account) accountRecord {
	return accountRecord{
		ID:             quoteID(a.ID),
		Bank:           a.Bank,
		AccountType:    a.AccountType,
		Holder:         a.Holder,
		Holder2:        a.Holder2,
		CurrentBalance: json.Number(a.CurrentBalance.String()),
		Category:       a.Category,
		Color:          a.Color,
		AccountNumber:  a.AccountNumber,
		IsValueAccount: a.IsValueAccount,
	}
}

func toReturnRecord(r core.Return) returnRecord {
	return returnRecord{
		ID:         quoteID(r.ID),
		AccountID:  quoteID(r.AccountID),
		Amount:     json.Number(r.Amount.String()),
		Date:       r.Date,
		ReturnType: string(r.ReturnType),
		Note:       r.Note,
	}
}

// Encode renders accounts and returns as the two-space indented backup format.
func Encode(accounts []core.Account, returns []core.Return) ([]byte, error) {
	doc := wireDocument{
		Accounts: make([]accountRecord, 0, len(accounts)),
		Returns:  make([]returnRecord, 0, len(returns)),
	}
	for _, a := range accounts {
		doc.Accounts = append(doc.Accounts, toAccountRecord(a))
	}
	for _, r := range returns {
		doc.Returns = append(doc.Returns, toReturnRecord(r))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return append(data, '\n'), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBackup, fmt.Sprintf(format, args...))
}

// Decode parses and validates a backup. Both "accounts" and "returns" must be
// present as arrays. Records without an id get one from idGen; numeric legacy
// ids are kept as their decimal text.
func Decode(data []byte, idGen store.IDGenerator) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	for _, key := range []string{"accounts", "returns"} {
		raw, ok := top[key]
		if !ok {
			return Document{}, invalid("missing %q", key)
		}
		if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '[' {
			return Document{}, invalid("%q must be an array", key)
		}
	}

	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	doc := Document{
		Accounts: make([]core.Account, 0, len(wire.Accounts)),
		Returns:  make([]core.Return, 0, len(wire.Returns)),
	}

	seen := make(map[string]bool, len(wire.Accounts))
	for i, rec := range wire.Accounts {
		a, err := rec.account(idGen)
		if err != nil {
			return Document{}, fmt.Errorf("%w: account %d: %w", ErrInvalidBackup, i, err)
		}
		if seen[a.ID] {
			return Document{}, invalid("duplicate account id %q", a.ID)
		}
		seen[a.ID] = true
		doc.Accounts = append(doc.Accounts, a)
	}

	seen = make(map[string]bool, len(wire.Returns))
	for i, rec := range wire.Returns {
		r, err := rec.toReturn(idGen)
		if err != nil {
			return Document{}, fmt.Errorf("%w: return %d: %w", ErrInvalidBackup, i, err)
		}
		if seen[r.ID] {
			return Document{}, invalid("duplicate return id %q", r.ID)
		}
		seen[r.ID] = true
		doc.Returns = append(doc.Returns, r)
	}
	return doc, nil
}

// parseID accepts a JSON string or number; empty or null yields "".
func parseID(raw json.RawMessage) (string, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || string(t) == "null" {
		return "", nil
	}
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(t, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %s", t)
	}
	return n.String(), nil
}

func parseDecimal(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

func (rec accountRecord) account(idGen store.IDGenerator) (core.Account, error) {
	id, err := parseID(rec.ID)
	if err != nil {
		return core.Account{}, err
	}
	if id == "" {
		id = idGen.Generate()
	}
	balance, err := parseDecimal(rec.CurrentBalance)
	if err != nil {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrInvalidBalance, rec.CurrentBalance)
	}
	a := core.Account{
		ID:             id,
		Bank:           rec.Bank,
		AccountType:    rec.AccountType,
		Holder:         rec.Holder,
		Holder2:        rec.Holder2,
		CurrentBalance: balance,
		Category:       rec.Category,
		Color:          rec.Color,
		AccountNumber:  rec.AccountNumber,
		IsValueAccount: rec.IsValueAccount,
	}.Normalize()
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (rec returnRecord) toReturn(idGen store.IDGenerator) (core.Return, error) {
	id, err := parseID(rec.ID)
	if err != nil {
		return core.Return{}, err
	}
	if id == "" {
		id = idGen.Generate()
	}
	accountID, err := parseID(rec.AccountID)
	if err != nil {
		return core.Return{}, err
	}
	if rec.Amount == "" {
		return core.Return{}, core.ErrInvalidAmount
	}
	amount, err := parseDecimal(rec.Amount)
	if err != nil {
		return core.Return{}, fmt.Errorf("%w: %s", core.ErrInvalidAmount, rec.Amount)
	}
	typ, err := core.ParseReturnType(rec.ReturnType)
	if err != nil {
		return core.Return{}, err
	}
	r := core.Return{
		ID:         id,
		AccountID:  accountID,
		Amount:     amount,
		Date:       rec.Date,
		ReturnType: typ,
		Note:       rec.Note,
	}.Normalize()
	if err := r.Validate(); err != nil {
		return core.Return{}, err
	}
	return r, nil
}
