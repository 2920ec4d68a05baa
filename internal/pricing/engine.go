// Package pricing resolves cart totals. All functions are pure: the same
// cart, tier and discount always produce the same quote.
package pricing

import (
	"vapemart/internal/model"
)

// UnitPrice resolves the effective unit price of a single cart line.
// Business accounts get the wholesale price when one exists; otherwise the
// sale price wins over the base price.
func UnitPrice(item model.CartItem, tier model.AccountTier) int64 {
	if tier == model.TierBusiness && item.BusinessPrice != nil {
		return *item.BusinessPrice
	}
	if item.SalePrice != nil {
		return *item.SalePrice
	}
	return item.Price
}

// Quote computes the cart subtotal, the discount deduction and the final
// total. The discount never drives the total below zero.
func Quote(items []model.CartItem, tier model.AccountTier, disc *model.Discount) model.Quote {
	var original int64
	for _, item := range items {
		original += UnitPrice(item, tier) * int64(item.Quantity)
	}

	quote := model.Quote{
		Original: original,
		Total:    original,
	}

	if disc == nil {
		return quote
	}

	deduction := DiscountAmount(original, disc)
	quote.Discount = deduction
	quote.DiscountDetails = disc
	quote.Total = original - deduction
	if quote.Total < 0 {
		quote.Total = 0
	}

	return quote
}

// DiscountAmount computes the deduction a discount descriptor yields on a
// subtotal. Percentage discounts round towards zero; fixed discounts are
// capped at the subtotal.
func DiscountAmount(original int64, disc *model.Discount) int64 {
	if disc == nil {
		return 0
	}

	var deduction int64
	if disc.Percentage > 0 {
		deduction = int64(float64(original) * disc.Percentage / 100.0)
	} else {
		deduction = disc.Amount
	}

	if deduction > original {
		deduction = original
	}
	if deduction < 0 {
		deduction = 0
	}

	return deduction
}
