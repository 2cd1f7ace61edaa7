package repository

import (
	"context"
	"time"

	"github.com/seedstoroots/tienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// FindByID y FindByEmail fallan con domain.ErrUserNotFound cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRun(ctx context.Context, run string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}
