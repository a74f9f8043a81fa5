// Package tax computes value-added tax included in gross prices.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/order-desk/internal/core/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	rates = map[domain.TaxCategory]decimal.Decimal{
		domain.TaxFree:     decimal.Zero,
		domain.StandardVAT: decimal.NewFromInt(19),
		domain.ReducedVAT:  decimal.NewFromInt(7),
	}
)

// Rate returns the rate in percent. Unknown categories have no tax.
func Rate(category domain.TaxCategory) decimal.Decimal {
	if r, ok := rates[category]; ok {
		return r
	}
	return decimal.Zero
}

// IncludedVAT returns the part of a gross amount that is tax:
// gross / (1 + rate) * rate, rounded half-up to whole cents.
func IncludedVAT(gross int64, category domain.TaxCategory) int64 {
	rate := Rate(category)
	if rate.IsZero() {
		return 0
	}
	return decimal.NewFromInt(gross).
		Mul(rate).
		Div(hundred.Add(rate)).
		Round(0).
		IntPart()
}

// ValueAndTax sums price and included tax over all lines of an order.
func ValueAndTax(order *domain.Order) (value, vat int64) {
	if order == nil {
		return 0, 0
	}
	for _, item := range order.Items() {
		price := item.Price()
		value += price
		vat += IncludedVAT(price, item.Article().Tax())
	}
	return value, vat
}
