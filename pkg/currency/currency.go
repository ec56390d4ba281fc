package currency

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders a money value the way the storefront displays it: a rupee
// sign followed by en-IN digit grouping (1,23,456). Whole amounts drop the
// fraction, anything else keeps two digits: 100 -> "₹100", 1234.5 -> "₹1,234.50".
func Format(v float64) string {
	opts := []number.Option{number.MaxFractionDigits(2)}
	if v != math.Trunc(v) {
		opts = append(opts, number.MinFractionDigits(2))
	}
	return "₹" + printer.Sprint(number.Decimal(v, opts...))
}
