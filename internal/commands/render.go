package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"cuentas/internal/core"
	"cuentas/internal/report"
)

var (
	headingColor = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	negColor     = color.New(color.FgRed)
	mutedColor   = color.New(color.FgHiBlack)
)

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, format+"\n", args...)
}

func money(d decimal.Decimal) string {
	s := core.FormatEuros(d)
	if d.IsNegative() {
		return negColor.Sprint(s)
	}
	return s
}

func renderAccounts(w io.Writer, accounts []core.Account) {
	if len(accounts) == 0 {
		mutedColor.Fprintln(w, "No hay cuentas.")
		return
	}
	for _, a := range accounts {
		kind := "efectivo"
		if a.IsValueAccount {
			kind = "valores"
		}
		fmt.Fprintf(w, "%s  %s  %s\n", headingColor.Sprint(a.DisplayName()), money(a.CurrentBalance), mutedColor.Sprint(kind))
		holders := a.Holder
		if a.Holder2 != "" {
			holders += ", " + a.Holder2
		}
		fmt.Fprintf(w, "  id %s · %s · %s\n", a.ID, holders, a.Category)
		if a.AccountNumber != "" {
			fmt.Fprintf(w, "  %s\n", report.FormatIdentifier(a.AccountNumber, a.IsValueAccount))
		}
	}
}

func renderOrder(w io.Writer, accounts []core.Account) {
	for i, a := range accounts {
		fmt.Fprintf(w, "%2d. %s %s\n", i+1, a.DisplayName(), mutedColor.Sprint(a.ID))
	}
}

func renderReturns(w io.Writer, lines []report.ReturnLine) {
	if len(lines) == 0 {
		mutedColor.Fprintln(w, "No hay rendimientos.")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s  %-10s %14s  %s  %s\n",
			l.Date.Display(), l.ReturnType.Label(), money(l.Net()), l.AccountName, mutedColor.Sprint(l.ID))
		if l.Note != "" {
			fmt.Fprintf(w, "            %s\n", l.Note)
		}
	}
}

func renderSummary(w io.Writer, s report.Summary) {
	headingColor.Fprintln(w, "Saldos")
	fmt.Fprintf(w, "  Efectivo  %s\n", money(s.Totals.Cash))
	fmt.Fprintf(w, "  Valores   %s\n", money(s.Totals.Value))
	fmt.Fprintf(w, "  Total     %s\n", money(s.Totals.Total))

	if len(s.Years) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Rentabilidad")
		fmt.Fprintf(w, "  Total     %s\n", money(s.NetTotal))
		if len(s.NetByYear) > 1 {
			for _, y := range s.NetByYear {
				fmt.Fprintf(w, "  %d      %s\n", y.Year, money(y.Amount))
			}
		}
	}

	for _, g := range s.ReturnGroups {
		fmt.Fprintln(w)
		headingColor.Fprintf(w, "%s (%d)\n", g.Label, g.Count)
		fmt.Fprintf(w, "  Total     %s%s\n", signed(g.Type, g.Total), netSuffix(g.Net))
		if len(g.ByYear) > 1 {
			for _, y := range g.ByYear {
				fmt.Fprintf(w, "  %d      %s%s\n", y.Year, signed(g.Type, y.Amount), netSuffix(y.Net))
			}
		}
		if len(g.ByAccount) > 0 {
			label := "Por cuenta"
			if s.SelectedYear != 0 {
				label = fmt.Sprintf("Por cuenta en %d", s.SelectedYear)
			}
			mutedColor.Fprintf(w, "  %s\n", label)
			for _, a := range g.ByAccount {
				fmt.Fprintf(w, "    %s  %s%s\n", a.Name, signed(g.Type, a.Amount), netSuffix(a.Net))
			}
		}
	}

	if len(s.Accounts) > 0 {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Cuentas")
		for _, c := range s.Accounts {
			fmt.Fprintf(w, "  %s  %s  %s\n", c.Name, money(c.Balance), mutedColor.Sprint(strings.Join(c.Holders, ", ")))
			if c.Identifier != "" {
				fmt.Fprintf(w, "    %s\n", c.Identifier)
			}
		}
	}
}

// signed renders commission totals as the negative amount they contribute.
func signed(t core.ReturnType, d decimal.Decimal) string {
	if t == core.Commission {
		return money(d.Neg())
	}
	return money(d)
}

func netSuffix(net *decimal.Decimal) string {
	if net == nil {
		return ""
	}
	return mutedColor.Sprintf("  (neto %s)", core.FormatEuros(*net))
}
