package repository

import (
	"context"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El borrado es lógico: se persiste el producto con estado DEACTIVATED vía Update.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	// FindByID falla con domain.ErrProductNotFound si el producto no existe.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)
	FindAll(ctx context.Context) ([]*entity.Product, error)
	FindByCategory(ctx context.Context, category string) ([]*entity.Product, error)
	FindActive(ctx context.Context) ([]*entity.Product, error)
	// FindRecent devuelve hasta limit productos activos, del más nuevo al más antiguo.
	FindRecent(ctx context.Context, limit int) ([]*entity.Product, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountStockBelow(ctx context.Context, threshold int) (int64, error)
}
