// Package pricing concentra las reglas de precios del catálogo: derivación del
// precio de venta desde el margen de la categoría y precio final con IVA.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SalePrice deriva el precio de venta: compra * (1 + margen/100), redondeado a
// dos decimales. Con margen cero devuelve el precio de compra.
func SalePrice(purchase, markupPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(hundred))
	return purchase.Mul(factor).Round(2)
}

// FinalPrice devuelve el precio exhibido: venta * (1 + IVA/100) cuando el
// producto incluye IVA; si no, el precio de venta tal cual.
func FinalPrice(sale, vatPercent decimal.Decimal, vatInclusive bool) decimal.Decimal {
	if !vatInclusive {
		return sale
	}
	factor := decimal.NewFromInt(1).Add(vatPercent.Div(hundred))
	return sale.Mul(factor).Round(2)
}

// VATAmount calcula el IVA de una línea: base * IVA/100.
func VATAmount(base, vatPercent decimal.Decimal) decimal.Decimal {
	return base.Mul(vatPercent).Div(hundred).Round(2)
}
