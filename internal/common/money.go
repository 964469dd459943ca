package common

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// SupportedCurrencies are the display currencies a user may select.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD"}

// IsSupportedCurrency reports whether code is one of SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// FormatMoney renders amount in the currency's display format, rounded to the
// currency's minor unit. Unknown currencies fall back to a plain two-decimal string.
func FormatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(currency)
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}
