package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o reemplazar un producto.
// Activo es opcional: al crear vale true; al actualizar solo cambia si viene en el cuerpo.
type ProductRequest struct {
	Name        string           `json:"nombre" validate:"required,max=200"`
	Description string           `json:"descripcion" validate:"max=2000"`
	Category    string           `json:"categoria" validate:"max=100"`
	Price       *decimal.Decimal `json:"precio" validate:"required" swaggertype:"number"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	SKU         string           `json:"sku" validate:"max=100"`
	Image       string           `json:"imagen" validate:"max=500"`
	Active      *bool            `json:"activo"`
}

// ProductFilter filtros de GET /api/productos.
type ProductFilter struct {
	Category   string `query:"categoria"`
	OnlyActive bool   `query:"activos"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"precio" swaggertype:"number"`
	Stock       *int            `json:"stock"`
	SKU         string          `json:"sku"`
	Image       string          `json:"imagen"`
	Active      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"fechaCreacion"`
	UpdatedAt   time.Time       `json:"fechaActualizacion"`
}
