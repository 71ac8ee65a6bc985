package registry

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice renders a BRL amount the Brazilian way, e.g. "R$ 1.234,56".
func FormatPrice(price float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("R$ %v", number.Decimal(price, number.Scale(2)))
}
