package services

import (
	"womart-storefront/currency"
	"womart-storefront/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeDiscount returns the discount coupon grants on subtotal, rounded to
// currency minor units and clamped to [0, subtotal]. A nil coupon grants
// nothing.
func ComputeDiscount(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal.Mul(coupon.DiscountValue).Div(hundred)
	case models.DiscountFixed:
		discount = decimal.Min(coupon.DiscountValue, subtotal)
	default:
		return decimal.Zero
	}

	discount = currency.Round(discount)
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// ComputeTotals prices subtotal with an optional coupon. Total is never
// negative.
func ComputeTotals(subtotal decimal.Decimal, coupon *models.Coupon) models.Totals {
	discount := ComputeDiscount(subtotal, coupon)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return models.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}
