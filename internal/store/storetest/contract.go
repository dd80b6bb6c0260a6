// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core"
	"cuentas/internal/store"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

// Run executes the record store contract against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("account lifecycle", func(t *testing.T) { accountLifecycle(t, newStore(t)) })
	t.Run("list keeps insertion order", func(t *testing.T) { listOrder(t, newStore(t)) })
	t.Run("return lifecycle", func(t *testing.T) { returnLifecycle(t, newStore(t)) })
	t.Run("deleting account keeps returns", func(t *testing.T) { danglingReturns(t, newStore(t)) })
	t.Run("delete returns by account", func(t *testing.T) { deleteByAccount(t, newStore(t)) })
	t.Run("cascade delete", func(t *testing.T) { cascadeDelete(t, newStore(t)) })
	t.Run("replace all", func(t *testing.T) { replaceAll(t, newStore(t)) })
	t.Run("settings", func(t *testing.T) { settings(t, newStore(t)) })
	t.Run("closed store", func(t *testing.T) { closed(t, newStore(t)) })
}

// SampleAccount returns a valid cash account.
func SampleAccount(bank string, balance int64) core.Account {
	return core.Account{
		Bank:           bank,
		AccountType:    "Ahorro",
		Holder:         "Ana",
		CurrentBalance: decimal.NewFromInt(balance),
		Category:       core.DefaultCategory,
		AccountNumber:  "ES9121000418450200051332",
	}
}

// SampleReturn returns a valid return for accountID.
func SampleReturn(accountID string, t core.ReturnType, amount string, date core.Date) core.Return {
	return core.Return{
		AccountID:  accountID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		ReturnType: t,
		Note:       "test",
	}
}

func accountLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()

	acc := SampleAccount("BBVA", 1000)
	acc.Holder2 = "Luis"
	acc.IsValueAccount = true
	acc.Color = "#4A90E2"
	id, err := s.CreateAccount(ctx, acc)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetAccount(ctx, id)
	require.NoError(t, err)
	acc.ID = id
	assertAccountEqual(t, acc, got)

	bank := "Santander"
	balance := decimal.RequireFromString("1500.25")
	updated, err := s.UpdateAccount(ctx, id, core.AccountPatch{Bank: &bank, CurrentBalance: &balance})
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Santander", updated.Bank)
	assert.Equal(t, "Luis", updated.Holder2)

	got, err = s.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.True(t, balance.Equal(got.CurrentBalance), "balance %s", got.CurrentBalance)

	require.NoError(t, s.DeleteAccount(ctx, id))
	_, err = s.GetAccount(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAccount(ctx, id), core.ErrNotFound)
	_, err = s.UpdateAccount(ctx, id, core.AccountPatch{Bank: &bank})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func listOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	var ids []string
	for _, bank := range []string{"Zeta", "Alfa", "Medio"} {
		id, err := s.CreateAccount(ctx, SampleAccount(bank, 1))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for i, a := range accounts {
		assert.Equal(t, ids[i], a.ID)
	}
}

func returnLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	accID, err := s.CreateAccount(ctx, SampleAccount("BBVA", 1000))
	require.NoError(t, err)

	r := SampleReturn(accID, core.Dividend, "100.50", core.NewDate(2023, 6, 1))
	id, err := s.CreateReturn(ctx, r)
	require.NoError(t, err)

	got, err := s.GetReturn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, accID, got.AccountID)
	assert.True(t, r.Amount.Equal(got.Amount))
	assert.Equal(t, "2023-06-01", got.Date.String())
	assert.Equal(t, core.Dividend, got.ReturnType)
	assert.Equal(t, "test", got.Note)

	typ := core.Interest
	date := core.NewDate(2024, 1, 1)
	updated, err := s.UpdateReturn(ctx, id, core.ReturnPatch{ReturnType: &typ, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, core.Interest, updated.ReturnType)
	assert.Equal(t, 2024, updated.Date.Year())

	list, err := s.ListReturns(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteReturn(ctx, id))
	_, err = s.GetReturn(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, s.DeleteReturn(ctx, id), core.ErrNotFound)
}

func danglingReturns(t *testing.T, s store.Store) {
	ctx := context.Background()
	accID, err := s.CreateAccount(ctx, SampleAccount("BBVA", 1000))
	require.NoError(t, err)
	retID, err := s.CreateReturn(ctx, SampleReturn(accID, core.Interest, "5", core.NewDate(2024, 2, 1)))
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, accID))

	got, err := s.GetReturn(ctx, retID)
	require.NoError(t, err)
	assert.Equal(t, accID, got.AccountID)
}

func deleteByAccount(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, err := s.CreateAccount(ctx, SampleAccount("A", 1))
	require.NoError(t, err)
	b, err := s.CreateAccount(ctx, SampleAccount("B", 1))
	require.NoError(t, err)
	for _, acc := range []string{a, b, a} {
		_, err := s.CreateReturn(ctx, SampleReturn(acc, core.Interest, "1", core.NewDate(2024, 1, 1)))
		require.NoError(t, err)
	}

	n, err := s.DeleteReturnsByAccount(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := s.ListReturns(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b, left[0].AccountID)
}

func cascadeDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, err := s.CreateAccount(ctx, SampleAccount("A", 1))
	require.NoError(t, err)
	b, err := s.CreateAccount(ctx, SampleAccount("B", 1))
	require.NoError(t, err)
	for _, acc := range []string{a, b, a} {
		_, err := s.CreateReturn(ctx, SampleReturn(acc, core.Interest, "1", core.NewDate(2024, 1, 1)))
		require.NoError(t, err)
	}

	_, err = s.DeleteAccountCascade(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	all, err := s.ListReturns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.DeleteAccountCascade(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetAccount(ctx, a)
	assert.ErrorIs(t, err, core.ErrNotFound)
	left, err := s.ListReturns(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b, left[0].AccountID)
}

func replaceAll(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.CreateAccount(ctx, SampleAccount("Old", 1))
	require.NoError(t, err)

	accounts := []core.Account{SampleAccount("BBVA", 1000), SampleAccount("Degiro", 500)}
	accounts[0].ID = "1"
	accounts[1].ID = "2"
	accounts[1].IsValueAccount = true
	ret := SampleReturn("2", core.Dividend, "50", core.NewDate(2024, 1, 1))
	ret.ID = "7"

	require.NoError(t, s.ReplaceAll(ctx, accounts, []core.Return{ret}))

	gotAccounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, gotAccounts, 2)
	assert.Equal(t, "1", gotAccounts[0].ID)
	assert.Equal(t, "2", gotAccounts[1].ID)
	assert.True(t, gotAccounts[1].IsValueAccount)

	gotReturns, err := s.ListReturns(ctx)
	require.NoError(t, err)
	require.Len(t, gotReturns, 1)
	assert.Equal(t, "7", gotReturns[0].ID)

	id, err := s.CreateAccount(ctx, SampleAccount("New", 1))
	require.NoError(t, err)
	assert.NotContains(t, []string{"1", "2"}, id)
}

func settings(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, found, err := s.GetSetting(ctx, store.KeyTheme)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetSetting(ctx, store.KeyTheme, "dark"))
	require.NoError(t, s.SetSetting(ctx, store.KeyTheme, "light"))
	v, found, err := s.GetSetting(ctx, store.KeyTheme)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "light", v)
}

func closed(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Close())

	_, err := s.ListAccounts(ctx)
	assert.ErrorIs(t, err, store.ErrClosed)
	_, err = s.CreateReturn(ctx, SampleReturn("x", core.Interest, "1", core.NewDate(2024, 1, 1)))
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, s.SetSetting(ctx, store.KeyTheme, "dark"), store.ErrClosed)
}

func assertAccountEqual(t *testing.T, want, got core.Account) {
	t.Helper()
	assert.True(t, want.CurrentBalance.Equal(got.CurrentBalance), "balance want %s got %s", want.CurrentBalance, got.CurrentBalance)
	want.CurrentBalance, got.CurrentBalance = decimal.Zero, decimal.Zero
	assert.Equal(t, want, got)
}
