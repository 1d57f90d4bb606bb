package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var kes = accounting.Accounting{Symbol: "KSh ", Precision: 2, Thousand: ",", Decimal: "."}

// Money renders a decimal amount for display, e.g. "KSh 1,250.00".
func Money(amount decimal.Decimal) string {
	return kes.FormatMoney(amount)
}
