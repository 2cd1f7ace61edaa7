// Package analytics contiene el resumen estadístico del catálogo y las cuentas.
package analytics

import (
	"context"
	"fmt"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

// StatsUseCase deriva los conteos globales desde los repositorios de productos y usuarios.
// Solo lectura; la autorización la aplica la frontera HTTP.
type StatsUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(products repository.ProductRepository, users repository.UserRepository) *StatsUseCase {
	return &StatsUseCase{products: products, users: users}
}

// Summarize ejecuta los cinco conteos en paralelo.
func (uc *StatsUseCase) Summarize(ctx context.Context) (*dto.StatsResponse, error) {
	type countResult struct {
		n   int64
		err error
	}
	run := func(fn func(context.Context) (int64, error)) <-chan countResult {
		ch := make(chan countResult, 1)
		go func() {
			n, err := fn(ctx)
			ch <- countResult{n, err}
		}()
		return ch
	}

	totalProductsCh := run(uc.products.Count)
	activeProductsCh := run(uc.products.CountActive)
	lowStockCh := run(func(ctx context.Context) (int64, error) {
		return uc.products.CountStockBelow(ctx, entity.LowStockThreshold)
	})
	totalUsersCh := run(uc.users.Count)
	activeUsersCh := run(uc.users.CountActive)

	totalProducts := <-totalProductsCh
	activeProducts := <-activeProductsCh
	lowStock := <-lowStockCh
	totalUsers := <-totalUsersCh
	activeUsers := <-activeUsersCh

	for label, r := range map[string]countResult{
		"total productos":   totalProducts,
		"productos activos": activeProducts,
		"stock bajo":        lowStock,
		"total usuarios":    totalUsers,
		"usuarios activos":  activeUsers,
	} {
		if r.err != nil {
			return nil, fmt.Errorf("estadísticas: %s: %w", label, r.err)
		}
	}

	return &dto.StatsResponse{
		TotalProducts:    totalProducts.n,
		TotalUsers:       totalUsers.n,
		ActiveProducts:   activeProducts.n,
		ActiveUsers:      activeUsers.n,
		LowStockProducts: lowStock.n,
	}, nil
}
