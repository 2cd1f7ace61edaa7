package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

// Límites de GET /api/productos/recientes.
const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 100
)

// ProductCache caché de lectura de productos por ID. Nunca se consulta para validar stock del carrito.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*dto.ProductResponse, bool)
	Set(ctx context.Context, p *dto.ProductResponse)
	Invalidate(ctx context.Context, id int64)
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (*dto.ProductResponse, bool) { return nil, false }
func (noCache) Set(context.Context, *dto.ProductResponse)               {}
func (noCache) Invalidate(context.Context, int64)                       {}

// ProductUseCase casos de uso del catálogo. El borrado es lógico.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache ProductCache
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, cache ProductCache) *ProductUseCase {
	if cache == nil {
		cache = noCache{}
	}
	return &ProductUseCase{repo: repo, cache: cache, now: time.Now}
}

// Create crea un producto. Activo por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{Status: entity.ProductActive, CreatedAt: now}
	applyProduct(product, in, now)
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (pasando por la caché si está configurada).
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if cached, ok := uc.cache.Get(ctx, id); ok {
		return cached, nil
	}
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	uc.cache.Set(ctx, out)
	return out, nil
}

// List lista productos. categoria filtra por categoría; activos=true deja solo los activos.
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductFilter) ([]dto.ProductResponse, error) {
	var (
		list []*entity.Product
		err  error
	)
	switch category := strings.TrimSpace(f.Category); {
	case category != "":
		list, err = uc.repo.FindByCategory(ctx, category)
	case f.OnlyActive:
		list, err = uc.repo.FindActive(ctx)
	default:
		list, err = uc.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		if f.OnlyActive && !p.IsActive() {
			continue
		}
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Recent devuelve hasta limit productos activos, del más nuevo al más antiguo.
func (uc *ProductUseCase) Recent(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	list, err := uc.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update reemplaza los campos editables. activo solo cambia si viene en el cuerpo.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(product, in, uc.now())
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, id)
	return toProductResponse(product), nil
}

// Delete desactiva el producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate(uc.now())
	if err := uc.repo.Update(ctx, product); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, id)
	return nil
}

func validateProduct(in dto.ProductRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("el nombre es obligatorio")
	}
	if in.Price == nil {
		return domain.Invalid("el precio es obligatorio")
	}
	if in.Price.IsNegative() {
		return domain.Invalid("el precio no puede ser negativo")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return domain.Invalid("el stock no puede ser negativo")
	}
	return nil
}

func applyProduct(p *entity.Product, in dto.ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	p.Price = *in.Price
	p.Stock = in.Stock
	p.SKU = strings.TrimSpace(in.SKU)
	p.Image = in.Image
	if in.Active != nil {
		p.Status = entity.ProductStatusFromActive(*in.Active)
	}
	p.UpdatedAt = now
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		Image:       p.Image,
		Active:      p.IsActive(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
