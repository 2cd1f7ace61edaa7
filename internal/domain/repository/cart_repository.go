package repository

import (
	"context"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia del agregado Cart (carrito + líneas).
type CartRepository interface {
	// FindActiveByUser devuelve el carrito ACTIVE del usuario, o nil si no tiene.
	FindActiveByUser(ctx context.Context, userID int64) (*entity.Cart, error)
	// Create persiste un carrito nuevo y le asigna ID.
	Create(ctx context.Context, cart *entity.Cart) error
	// Save persiste el carrito y reemplaza sus líneas como una sola unidad.
	Save(ctx context.Context, cart *entity.Cart) error
}
