package dto

import "github.com/shopspring/decimal"

// CartItemRequest entrada de POST /add y PUT /update.
// La cantidad la valida el dominio (entero positivo).
type CartItemRequest struct {
	ProductID int64 `json:"productoId" validate:"required,gt=0"`
	Quantity  int   `json:"cantidad"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productoId"`
	ProductName  string          `json:"productoNombre"`
	ProductImage string          `json:"productoImagen"`
	UnitPrice    decimal.Decimal `json:"precioUnitario" swaggertype:"number"`
	Quantity     int             `json:"cantidad"`
	Subtotal     decimal.Decimal `json:"subtotal" swaggertype:"number"`
}

// CartResponse vista del carrito con el total recalculado.
type CartResponse struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"usuarioId"`
	Items  []CartItemResponse `json:"items"`
	Total  decimal.Decimal    `json:"total" swaggertype:"number"`
}
