package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/seedstoroots/tienda-api/internal/domain/pricing"
)

// CartStatus estado de un carrito. Solo ACTIVE se crea y se usa; el resto queda reservado.
type CartStatus string

const (
	CartActive     CartStatus = "ACTIVE"
	CartCheckedOut CartStatus = "CHECKED_OUT"
	CartAbandoned  CartStatus = "ABANDONED"
)

// Cart carrito de compras. Invariante: a lo sumo un carrito ACTIVE por usuario
// y a lo sumo una línea por producto.
type Cart struct {
	ID        int64
	UserID    int64
	Status    CartStatus
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem línea del carrito. El precio unitario se copia del producto; el subtotal siempre se deriva.
type CartItem struct {
	ID           int64
	CartID       int64
	ProductID    int64
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	Subtotal     decimal.Decimal
}

// NewCart construye un carrito activo vacío para el usuario.
func NewCart(userID int64, now time.Time) *Cart {
	return &Cart{
		UserID:    userID,
		Status:    CartActive,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Item devuelve la línea del producto, o nil si no está en el carrito.
func (c *Cart) Item(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// QuantityOf devuelve la cantidad actual del producto en el carrito (0 si no está).
func (c *Cart) QuantityOf(productID int64) int {
	if it := c.Item(productID); it != nil {
		return it.Quantity
	}
	return 0
}

// SetLine crea o reemplaza la línea del producto con la cantidad dada y el precio vigente del producto.
func (c *Cart) SetLine(p *Product, quantity int) {
	it := c.Item(p.ID)
	if it == nil {
		c.Items = append(c.Items, CartItem{CartID: c.ID, ProductID: p.ID})
		it = &c.Items[len(c.Items)-1]
	}
	it.ProductName = p.Name
	it.ProductImage = p.Image
	it.UnitPrice = p.Price
	it.Quantity = quantity
	it.Subtotal = pricing.LineSubtotal(p.Price, quantity)
}

// RemoveLine quita la línea del producto. Devuelve false si no existía.
func (c *Cart) RemoveLine(productID int64) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// Total suma los subtotales de todas las líneas.
func (c *Cart) Total() decimal.Decimal {
	subtotals := make([]decimal.Decimal, 0, len(c.Items))
	for _, it := range c.Items {
		subtotals = append(subtotals, it.Subtotal)
	}
	return pricing.Total(subtotals...)
}
