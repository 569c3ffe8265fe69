package models

import "github.com/shopspring/decimal"

// DiscountType represents the kind of discount a coupon grants.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGEM"
	DiscountFixed      DiscountType = "FIXO"
)

// Valid reports whether t is a discount type the storefront can apply.
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// Coupon is the backend coupon record returned by GET /api/cupons/codigo/{code}.
// The storefront never writes it.
type Coupon struct {
	Code          string          `json:"codigo"`
	DiscountType  DiscountType    `json:"tipoDesconto"`
	DiscountValue decimal.Decimal `json:"valorDesconto"`
	Active        bool            `json:"ativo"`
}

// Totals is the priced view of a cart with an optional coupon.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}
