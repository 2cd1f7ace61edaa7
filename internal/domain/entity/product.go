package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus es el ciclo de vida de un producto del catálogo. El borrado es lógico.
type ProductStatus string

const (
	ProductActive      ProductStatus = "ACTIVE"
	ProductDeactivated ProductStatus = "DEACTIVATED"
)

// ProductStatusFromActive traduce el flag "activo" del contrato HTTP al estado del ciclo de vida.
func ProductStatusFromActive(active bool) ProductStatus {
	if active {
		return ProductActive
	}
	return ProductDeactivated
}

// LowStockThreshold umbral bajo el cual un producto se considera con stock bajo (estrictamente menor).
const LowStockThreshold = 10

// Product representa un producto del catálogo.
// Stock nil significa "sin definir": nunca alcanza para una línea de carrito.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       *int
	SKU         string
	Image       string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto está visible y disponible para la venta.
func (p *Product) IsActive() bool { return p.Status == ProductActive }

// HasStockFor indica si el stock actual cubre qty unidades.
func (p *Product) HasStockFor(qty int) bool {
	return p.Stock != nil && qty <= *p.Stock
}

// HasStockToAdd indica si el stock cubre qty unidades más sobre las existing ya reservadas.
// Compara contra el margen restante para no desbordar la suma.
func (p *Product) HasStockToAdd(existing, qty int) bool {
	return p.Stock != nil && qty <= *p.Stock-existing
}

// IsLowStock indica si el stock definido está bajo el umbral.
func (p *Product) IsLowStock() bool {
	return p.Stock != nil && *p.Stock < LowStockThreshold
}

// Deactivate realiza el borrado lógico del producto.
func (p *Product) Deactivate(now time.Time) {
	p.Status = ProductDeactivated
	p.UpdatedAt = now
}
