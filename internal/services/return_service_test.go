package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cuentas/internal/core"
	"cuentas/internal/store/memory"
	"cuentas/internal/store/mocks"
)

var fixedNow = time.Date(2024, 5, 10, 23, 59, 59, 0, time.Local)

func clock() time.Time { return fixedNow }

func newReturnService(t *testing.T) (*ReturnService, *memory.Store, string) {
	t.Helper()
	st := memory.New(nil)
	accID, err := st.CreateAccount(context.Background(), validAccount().Normalize())
	require.NoError(t, err)
	return NewReturnService(st, st, clock, nil), st, accID
}

func TestReturnServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, accID := newReturnService(t)

	r, err := svc.Create(ctx, core.Return{
		AccountID: accID, Amount: decimal.RequireFromString("12.5"), Date: core.NewDate(2024, 5, 10),
		ReturnType: core.Dividend, Note: " Q1 ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Q1", r.Note)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReturnServiceDateCutoff(t *testing.T) {
	ctx := context.Background()
	svc, _, accID := newReturnService(t)

	base := core.Return{AccountID: accID, Amount: decimal.NewFromInt(1), ReturnType: core.Interest}

	today := base
	today.Date = core.DateOf(fixedNow)
	_, err := svc.Create(ctx, today)
	require.NoError(t, err, "a return dated today is accepted")

	tomorrow := base
	tomorrow.Date = core.DateOf(fixedNow.AddDate(0, 0, 1))
	_, err = svc.Create(ctx, tomorrow)
	assert.ErrorIs(t, err, core.ErrFutureDate)
}

func TestReturnServiceRejectsWithoutStoreCall(t *testing.T) {
	cases := []struct {
		name string
		r    core.Return
		err  error
	}{
		{"zero amount", core.Return{AccountID: "a", Amount: decimal.Zero, Date: core.NewDate(2024, 1, 1), ReturnType: core.Interest}, core.ErrInvalidAmount},
		{"bad type", core.Return{AccountID: "a", Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 1, 1), ReturnType: "bonus"}, core.ErrInvalidReturnType},
		{"future", core.Return{AccountID: "a", Amount: decimal.NewFromInt(1), Date: core.NewDate(2030, 1, 1), ReturnType: core.Interest}, core.ErrFutureDate},
		{"no account", core.Return{Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 1, 1), ReturnType: core.Interest}, core.ErrEmptyAccountID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			st := mocks.NewMockStore(ctrl)

			_, err := NewReturnService(st, st, clock, nil).Create(context.Background(), tc.r)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestReturnServiceUnknownAccount(t *testing.T) {
	svc, _, _ := newReturnService(t)
	_, err := svc.Create(context.Background(), core.Return{
		AccountID: "nope", Amount: decimal.NewFromInt(1), Date: core.NewDate(2024, 1, 1), ReturnType: core.Interest,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReturnServiceUpdateDanglingAccount(t *testing.T) {
	ctx := context.Background()
	svc, st, accID := newReturnService(t)

	r, err := svc.Create(ctx, core.Return{AccountID: accID, Amount: decimal.NewFromInt(5), Date: core.NewDate(2024, 1, 1), ReturnType: core.Interest})
	require.NoError(t, err)
	require.NoError(t, st.DeleteAccount(ctx, accID))

	amount := decimal.NewFromInt(8)
	updated, err := svc.Update(ctx, r.ID, core.ReturnPatch{Amount: &amount})
	require.NoError(t, err, "keeping a dangling account id is allowed")
	assert.True(t, amount.Equal(updated.Amount))

	other := "missing"
	_, err = svc.Update(ctx, r.ID, core.ReturnPatch{AccountID: &other})
	assert.ErrorIs(t, err, core.ErrNotFound)

	future := core.NewDate(2024, 5, 11)
	_, err = svc.Update(ctx, r.ID, core.ReturnPatch{Date: &future})
	assert.ErrorIs(t, err, core.ErrFutureDate)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, amount.Equal(got.Amount))
	assert.Equal(t, 2024, got.Date.Year())
	assert.Equal(t, 1, got.Date.Month())
}

func TestReturnServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, accID := newReturnService(t)
	r, err := svc.Create(ctx, core.Return{AccountID: accID, Amount: decimal.NewFromInt(5), Date: core.NewDate(2024, 1, 1), ReturnType: core.Commission})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), core.ErrNotFound)
}
