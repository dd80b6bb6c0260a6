package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cuentas/internal/core"
	"cuentas/internal/ordering"
	"cuentas/internal/store/memory"
	"cuentas/internal/store/mocks"
)

func TestServiceSummary(t *testing.T) {
	ctx := context.Background()
	st := memory.New(nil)
	order := ordering.NewService(st, nil)

	accounts, _ := fixture()
	var ids []string
	for _, a := range accounts {
		id, err := st.CreateAccount(ctx, a)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := st.CreateReturn(ctx, core.Return{AccountID: ids[1], ReturnType: core.Dividend, Amount: dec("100"), Date: core.NewDate(2023, 6, 1)})
	require.NoError(t, err)
	require.NoError(t, order.SetOrder(ctx, []string{ids[2]}))

	svc := NewService(st, st, order, nil)
	sum, err := svc.Summary(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, sum.Accounts, 3)
	assert.Equal(t, ids[2], sum.Accounts[0].ID)
	require.Len(t, sum.ReturnGroups, 1)
	assert.Equal(t, "Degiro (Broker)", sum.ReturnGroups[0].ByAccount[0].Name)

	ordered, err := svc.OrderedAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[2], ordered[0].ID)

	lines, err := svc.Returns(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestServiceSummaryFailsOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountStore(ctrl)
	returns := mocks.NewMockReturnStore(ctrl)
	settings := mocks.NewMockSettingsStore(ctrl)

	boom := errors.New("database disk image is malformed")
	accounts.EXPECT().ListAccounts(gomock.Any()).Return([]core.Account{{ID: "a"}}, nil).AnyTimes()
	returns.EXPECT().ListReturns(gomock.Any()).Return(nil, boom)
	settings.EXPECT().GetSetting(gomock.Any(), gomock.Any()).Return("", false, nil).AnyTimes()

	svc := NewService(accounts, returns, ordering.NewService(settings, nil), nil)
	sum, err := svc.Summary(context.Background(), Options{})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, sum.Accounts)
	assert.True(t, sum.Totals.Total.IsZero())
}

func TestServiceReturnsFailsOnAccountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountStore(ctrl)
	returns := mocks.NewMockReturnStore(ctrl)

	boom := errors.New("locked")
	accounts.EXPECT().ListAccounts(gomock.Any()).Return(nil, boom)
	returns.EXPECT().ListReturns(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := NewService(accounts, returns, nil, nil).Returns(context.Background())
	require.ErrorIs(t, err, boom)
}
