package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixture() ([]core.Account, []core.Return) {
	accounts := []core.Account{
		{ID: "a", Bank: "BBVA", AccountType: "Ahorro", Holder: "Ana", CurrentBalance: dec("1000"), AccountNumber: "es91 2100 0418 4502 0005 1332"},
		{ID: "b", Bank: "Degiro", AccountType: "Broker", Holder: "Ana", Holder2: "Luis", CurrentBalance: dec("500"), IsValueAccount: true, AccountNumber: " ie00b4l5y983 "},
		{ID: "c", Bank: "ING", AccountType: "Ahorro", Holder: "Luis", CurrentBalance: dec("0"), Color: "#123456"},
	}
	returns := []core.Return{
		{ID: "1", AccountID: "b", ReturnType: core.Dividend, Amount: dec("100"), Date: core.NewDate(2023, 6, 1)},
		{ID: "2", AccountID: "b", ReturnType: core.Dividend, Amount: dec("50"), Date: core.NewDate(2024, 1, 1)},
		{ID: "3", AccountID: "a", ReturnType: core.Interest, Amount: dec("7.25"), Date: core.NewDate(2024, 3, 1)},
		{ID: "4", AccountID: "gone", ReturnType: core.Dividend, Amount: dec("10"), Date: core.NewDate(2024, 2, 1)},
	}
	return accounts, returns
}

func TestBuildTotalsAndOrder(t *testing.T) {
	accounts, returns := fixture()

	s := Build(accounts, returns, []string{"c", "b"}, Options{})

	assert.True(t, s.Totals.Cash.Equal(dec("1000")))
	assert.True(t, s.Totals.Value.Equal(dec("500")))
	assert.True(t, s.Totals.Total.Equal(dec("1500")))

	require.Len(t, s.Accounts, 3)
	assert.Equal(t, "c", s.Accounts[0].ID)
	assert.Equal(t, "b", s.Accounts[1].ID)
	assert.Equal(t, "a", s.Accounts[2].ID)
	assert.Equal(t, []int{2024, 2023}, s.Years)
}

func TestBuildReturnGroups(t *testing.T) {
	accounts, returns := fixture()

	s := Build(accounts, returns, nil, Options{})
	require.Len(t, s.ReturnGroups, 2)

	div := s.ReturnGroups[0]
	assert.Equal(t, core.Dividend, div.Type)
	assert.Equal(t, 3, div.Count)
	assert.True(t, div.Total.Equal(dec("160")))
	assert.Nil(t, div.Net)
	require.Len(t, div.ByYear, 2)
	assert.Equal(t, 2024, div.ByYear[0].Year)
	assert.True(t, div.ByYear[0].Amount.Equal(dec("60")))
	assert.True(t, div.ByYear[1].Amount.Equal(dec("100")))

	require.Len(t, div.ByAccount, 2)
	assert.Equal(t, "Degiro (Broker)", div.ByAccount[0].Name)
	assert.True(t, div.ByAccount[0].Amount.Equal(dec("150")))
	assert.Equal(t, DeletedAccountName, div.ByAccount[1].Name)
	assert.Equal(t, "gone", div.ByAccount[1].AccountID)

	interest := s.ReturnGroups[1]
	assert.Equal(t, core.Interest, interest.Type)
	assert.True(t, interest.Total.Equal(dec("7.25")))
}

func TestBuildYearFilterOnlyAffectsByAccount(t *testing.T) {
	accounts, returns := fixture()

	s := Build(accounts, returns, nil, Options{Year: 2023})
	div := s.ReturnGroups[0]
	assert.Equal(t, 2023, s.SelectedYear)
	assert.True(t, div.Total.Equal(dec("160")))
	require.Len(t, div.ByAccount, 1)
	assert.True(t, div.ByAccount[0].Amount.Equal(dec("100")))
}

func TestBuildWithholdingOnlyOnDividends(t *testing.T) {
	accounts, returns := fixture()

	s := Build(accounts, returns, nil, Options{WithholdingRate: dec("0.19")})
	div := s.ReturnGroups[0]
	require.NotNil(t, div.Net)
	assert.True(t, div.Net.Equal(dec("129.6")), "net %s", div.Net)
	require.NotNil(t, div.ByYear[1].Net)
	assert.True(t, div.ByYear[1].Net.Equal(dec("81")))
	assert.Nil(t, s.ReturnGroups[1].Net)
}

func TestBuildNetCountsCommissionsAgainst(t *testing.T) {
	returns := []core.Return{
		{ID: "1", AccountID: "a", ReturnType: core.Interest, Amount: dec("10"), Date: core.NewDate(2024, 3, 1)},
		{ID: "2", AccountID: "a", ReturnType: core.Commission, Amount: dec("3"), Date: core.NewDate(2024, 4, 1)},
		{ID: "3", AccountID: "a", ReturnType: core.Dividend, Amount: dec("5"), Date: core.NewDate(2023, 5, 1)},
	}

	s := Build(nil, returns, nil, Options{})

	assert.True(t, s.NetTotal.Equal(dec("12")), s.NetTotal.String())
	require.Len(t, s.NetByYear, 2)
	assert.Equal(t, 2024, s.NetByYear[0].Year)
	assert.True(t, s.NetByYear[0].Amount.Equal(dec("7")))
	assert.Equal(t, 2023, s.NetByYear[1].Year)
	assert.True(t, s.NetByYear[1].Amount.Equal(dec("5")))

	// Year selection narrows the per-account view only.
	filtered := Build(nil, returns, nil, Options{Year: 2024})
	assert.True(t, filtered.NetTotal.Equal(dec("12")))
}

func TestBuildEmpty(t *testing.T) {
	s := Build(nil, nil, nil, Options{})
	assert.True(t, s.Totals.Total.IsZero())
	assert.True(t, s.NetTotal.IsZero())
	assert.Empty(t, s.NetByYear)
	assert.Empty(t, s.ReturnGroups)
	assert.Empty(t, s.Accounts)
	assert.Empty(t, s.Years)
}

func TestAccountCards(t *testing.T) {
	accounts, _ := fixture()
	accounts = append(accounts, core.Account{ID: "d", Bank: "Openbank", AccountType: "Broker", Holder: "Ana"})

	s := Build(accounts, nil, nil, Options{})
	require.Len(t, s.Accounts, 4)

	a := s.Accounts[0]
	assert.Equal(t, "BBVA (Ahorro)", a.Name)
	assert.Equal(t, BucketCash, a.Bucket)
	assert.Equal(t, "ES91 2100 0418 4502 0005 1332", a.Identifier)
	assert.Equal(t, Palette[0], a.Color)
	assert.Equal(t, []string{"Ana"}, a.Holders)

	b := s.Accounts[1]
	assert.Equal(t, BucketValue, b.Bucket)
	assert.Equal(t, "IE00B4L5Y983", b.Identifier)
	assert.Equal(t, Palette[1], b.Color)
	assert.Equal(t, []string{"Ana", "Luis"}, b.Holders)

	assert.Equal(t, "#123456", s.Accounts[2].Color)
	assert.Equal(t, Palette[1], s.Accounts[3].Color, "same type shares colour")
}

func TestFormatIdentifier(t *testing.T) {
	cases := []struct {
		in      string
		isValue bool
		want    string
	}{
		{"ES9121000418450200051332", false, "ES91 2100 0418 4502 0005 1332"},
		{"es91 2100\t0418", false, "ES91 2100 0418"},
		{"ABCDE", false, "ABCD E"},
		{"", false, ""},
		{" us0378331005 ", true, "US0378331005"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatIdentifier(tc.in, tc.isValue), tc.in)
	}
}

func TestReturnLines(t *testing.T) {
	accounts, returns := fixture()
	returns = append(returns, core.Return{ID: "0", AccountID: "a", ReturnType: core.Interest, Amount: dec("1"), Date: core.NewDate(2024, 3, 1)})

	lines := ReturnLines(accounts, returns)
	require.Len(t, lines, 5)
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"0", "3", "4", "2", "1"}, ids)
	assert.Equal(t, "BBVA (Ahorro)", lines[0].AccountName)
	assert.Equal(t, DeletedAccountName, lines[2].AccountName)
}
