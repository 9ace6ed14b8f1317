package entity

import "github.com/shopspring/decimal"

// Category categoría de productos (por sucursal). MarkupPercent alimenta el
// cálculo del precio de venta cuando el producto no lo trae.
type Category struct {
	ID            string
	Code          string // único; sus 3 primeros caracteres prefijan códigos de producto
	Name          string
	Description   string
	MarkupPercent decimal.Decimal
	ParentID      *string
	Active        bool
}

// Brand marca de productos (por sucursal).
type Brand struct {
	ID          string
	Name        string
	Description string
	Active      bool
}
