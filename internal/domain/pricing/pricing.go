package pricing

import "github.com/shopspring/decimal"

// LineSubtotal calcula el subtotal de una línea de carrito (servicio de dominio).
// Subtotal = PrecioUnitario * Cantidad, en aritmética decimal exacta.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Total suma los subtotales de todas las líneas. Sin líneas el total es 0.
func Total(subtotals ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, subtotals...)
}
