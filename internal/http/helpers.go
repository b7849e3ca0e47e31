package http

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter renders amounts as "<symbol>1,234.50" with locale digit
// grouping. The fraction always has two digits and is never rounded through
// a float.
type moneyFormatter struct {
	symbol  string
	printer *message.Printer
}

func newMoneyFormatter(symbol string) moneyFormatter {
	return moneyFormatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}
}

func (f moneyFormatter) Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = f.printer.Sprintf("%d", n)
	}

	s := f.symbol + whole + "." + frac
	if d.IsNegative() && !d.Round(2).IsZero() {
		return "-" + s
	}
	return s
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
