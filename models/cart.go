package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry as returned by GET /api/produtos/{id}.
// Attributes the storefront does not interpret are kept in Fields.
type Product struct {
	ID     int64
	Name   string
	Price  decimal.Decimal
	Fields map[string]json.RawMessage
}

// CartLine is one product entry inside a cart. Its stored form is the
// product record spread with a quantity: { id, nome, preco, quantity, ... }.
type CartLine struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Fields    map[string]json.RawMessage
}

// LineTotal is unitPrice x quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a copy that shares no maps with l.
func (l CartLine) Clone() CartLine {
	out := l
	if l.Fields != nil {
		out.Fields = make(map[string]json.RawMessage, len(l.Fields))
		for k, v := range l.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

const (
	fieldID       = "id"
	fieldName     = "nome"
	fieldPrice    = "preco"
	fieldQuantity = "quantity"
	fieldNewPrice = "precoNovo"
)

func (l CartLine) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Fields)+4)
	for k, v := range l.Fields {
		out[k] = v
	}
	out[fieldID] = l.ProductID
	out[fieldName] = l.Name
	out[fieldPrice] = json.Number(l.UnitPrice.String())
	out[fieldQuantity] = l.Quantity
	return json.Marshal(out)
}

func (l *CartLine) UnmarshalJSON(data []byte) error {
	p, fields, err := decodeProduct(data)
	if err != nil {
		return err
	}
	raw, ok := fields[fieldQuantity]
	if !ok {
		return fmt.Errorf("cart line %d: missing quantity", p.ID)
	}
	var qty int
	if err := json.Unmarshal(raw, &qty); err != nil {
		return fmt.Errorf("cart line %d: quantity: %w", p.ID, err)
	}
	delete(fields, fieldQuantity)
	if len(fields) == 0 {
		fields = nil
	}

	*l = CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		Fields:    fields,
	}
	return nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	decoded, fields, err := decodeProduct(data)
	if err != nil {
		return err
	}
	*p = decoded
	p.Fields = fields
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+3)
	for k, v := range p.Fields {
		out[k] = v
	}
	out[fieldID] = p.ID
	out[fieldName] = p.Name
	out[fieldPrice] = json.Number(p.Price.String())
	return json.Marshal(out)
}

// decodeProduct splits a product object into its known attributes and the
// remaining fields.
func decodeProduct(data []byte) (Product, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Product{}, nil, err
	}

	var p Product
	raw, ok := fields[fieldID]
	if !ok {
		return Product{}, nil, fmt.Errorf("product: missing id")
	}
	if err := json.Unmarshal(raw, &p.ID); err != nil {
		return Product{}, nil, fmt.Errorf("product: id: %w", err)
	}
	if raw, ok := fields[fieldName]; ok {
		if err := json.Unmarshal(raw, &p.Name); err != nil {
			return Product{}, nil, fmt.Errorf("product %d: nome: %w", p.ID, err)
		}
	}
	price, ok := fields[fieldPrice]
	if !ok || string(price) == "null" {
		// promotional listings only carry precoNovo
		price, ok = fields[fieldNewPrice]
	}
	if ok && string(price) != "null" {
		if err := p.Price.UnmarshalJSON(price); err != nil {
			return Product{}, nil, fmt.Errorf("product %d: preco: %w", p.ID, err)
		}
	}
	delete(fields, fieldID)
	delete(fields, fieldName)
	delete(fields, fieldPrice)
	if len(fields) == 0 {
		fields = nil
	}
	return p, fields, nil
}
