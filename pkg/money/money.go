// Package money formats amounts for display in reports and logs.
package money

import (
	"github.com/shopspring/decimal"
)

// CurrencySymbol is the Peruvian sol prefix used for every displayed amount
const CurrencySymbol = "S/"

// FormatPrice renders an amount as "S/ 12.50"
func FormatPrice(amount decimal.Decimal) string {
	return CurrencySymbol + " " + amount.StringFixed(2)
}
