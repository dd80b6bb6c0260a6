package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cuentas/internal/core"
	"cuentas/internal/store"
	"cuentas/internal/store/memory"
	"cuentas/internal/store/mocks"
)

func accs(ids ...string) []core.Account {
	out := make([]core.Account, len(ids))
	for i, id := range ids {
		out[i] = core.Account{ID: id, Bank: "bank-" + id}
	}
	return out
}

func TestApplyOrder(t *testing.T) {
	cases := []struct {
		name  string
		in    []string
		order []string
		want  []string
	}{
		{"listed first then rest", []string{"A", "B", "C"}, []string{"C", "A"}, []string{"C", "A", "B"}},
		{"empty order keeps storage order", []string{"A", "B", "C"}, nil, []string{"A", "B", "C"}},
		{"unknown ids ignored", []string{"A", "B"}, []string{"X", "B", "Y"}, []string{"B", "A"}},
		{"duplicates first wins", []string{"A", "B", "C"}, []string{"B", "A", "B"}, []string{"B", "A", "C"}},
		{"absent keep relative order", []string{"A", "B", "C", "D"}, []string{"D"}, []string{"D", "A", "B", "C"}},
		{"no accounts", nil, []string{"A"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := accs(tc.in...)
			got := IDs(ApplyOrder(in, tc.order))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, idsOrNil(in), "input must not be modified")
		})
	}
}

func idsOrNil(a []core.Account) []string {
	if len(a) == 0 {
		return nil
	}
	return IDs(a)
}

func TestApplyOrderIsPermutationAndDeterministic(t *testing.T) {
	in := accs("a", "b", "c", "d", "e")
	order := []string{"e", "zz", "c", "e", "a"}

	first := IDs(ApplyOrder(in, order))
	second := IDs(ApplyOrder(in, order))
	assert.Equal(t, first, second)
	assert.ElementsMatch(t, IDs(in), first)
}

func TestServiceOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(nil), nil)

	order, err := svc.GetOrder(ctx)
	require.NoError(t, err)
	assert.Empty(t, order)
	assert.NotNil(t, order)

	require.NoError(t, svc.SetOrder(ctx, []string{"C", "A"}))
	order, err = svc.GetOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, order)

	require.NoError(t, svc.SetOrder(ctx, []string{"B"}))
	order, err = svc.GetOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, order)
}

func TestGetOrderMalformed(t *testing.T) {
	ctx := context.Background()
	st := memory.New(nil)
	require.NoError(t, st.SetSetting(ctx, store.KeyAccountOrder, "{not json"))

	_, err := NewService(st, nil).GetOrder(ctx)
	assert.Error(t, err)
}

func TestGetOrderStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsStore(ctrl)
	boom := errors.New("disk gone")
	settings.EXPECT().GetSetting(gomock.Any(), store.KeyAccountOrder).Return("", false, boom)

	_, err := NewService(settings, nil).GetOrder(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(nil), nil)
	accounts := accs("A", "B", "C", "D")
	require.NoError(t, svc.SetOrder(ctx, []string{"C", "A"}))

	// displayed: C A B D
	ids, err := svc.Move(ctx, accounts, "D", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D", "A", "B"}, ids)

	stored, err := svc.GetOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, stored)

	ids, err = svc.Move(ctx, accounts, "C", 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "B", "C"}, ids)

	ids, err = svc.Move(ctx, accounts, "B", -5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "A", "C"}, ids)

	_, err = svc.Move(ctx, accounts, "nope", 0)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
