package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of the order creation payload.
type OrderItem struct {
	ProductID int64 `json:"produtoId"`
	Quantity  int   `json:"quantidade"`
}

// CreateOrderRequest is the body of POST /api/pedidos.
type CreateOrderRequest struct {
	Items      []OrderItem `json:"itens"`
	CouponCode string      `json:"codigoCupom,omitempty"`
	TotalPaid  json.Number `json:"totalPago"`
}

// Receipt describes a successfully submitted order.
type Receipt struct {
	Items      []OrderItem
	CouponCode string
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TotalPaid  decimal.Decimal
}
