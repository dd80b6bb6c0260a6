package report

import (
	"strings"
	"unicode"
)

// Palette assigned to account types in first-seen order when an account has no
// explicit colour.
var Palette = []string{
	"#4A90E2", "#50C878", "#FF6F61", "#FFD700", "#9B59B6",
	"#1ABC9C", "#E74C3C", "#3498DB", "#2ECC71", "#F39C12",
	"#8E44AD", "#16A085", "#C0392B",
}

type palette struct {
	byType map[string]string
}

func newPalette() *palette {
	return &palette{byType: map[string]string{}}
}

func (p *palette) colorFor(accountType string) string {
	if c, ok := p.byType[accountType]; ok {
		return c
	}
	c := Palette[len(p.byType)%len(Palette)]
	p.byType[accountType] = c
	return c
}

// FormatIdentifier renders an account number for display. Cash account numbers
// (IBAN-like) lose their whitespace and are grouped in blocks of four; value
// account identifiers are shown as a trimmed uppercase literal.
func FormatIdentifier(number string, isValue bool) string {
	if isValue {
		return strings.ToUpper(strings.TrimSpace(number))
	}

	compact := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, number))

	runes := []rune(compact)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
