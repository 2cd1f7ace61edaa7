package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación en memoria del catálogo.
type ProductRepository struct {
	db access
}

func (r *ProductRepository) Create(_ context.Context, product *entity.Product) error {
	r.db.write(func(d *dataset) {
		d.productSeq++
		product.ID = d.productSeq
		d.products[product.ID] = copyProduct(product)
	})
	return nil
}

func (r *ProductRepository) Update(_ context.Context, product *entity.Product) error {
	var err error
	r.db.write(func(d *dataset) {
		if _, ok := d.products[product.ID]; !ok {
			err = domain.ErrProductNotFound
			return
		}
		d.products[product.ID] = copyProduct(product)
	})
	return err
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.db.read(func(d *dataset) {
		if p, ok := d.products[id]; ok {
			out = copyProduct(p)
		}
	})
	if out == nil {
		return nil, domain.ErrProductNotFound
	}
	return out, nil
}

func (r *ProductRepository) FindAll(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(*entity.Product) bool { return true }), nil
}

func (r *ProductRepository) FindByCategory(_ context.Context, category string) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return strings.EqualFold(p.Category, category) }), nil
}

func (r *ProductRepository) FindActive(_ context.Context) ([]*entity.Product, error) {
	return r.filter((*entity.Product).IsActive), nil
}

func (r *ProductRepository) FindRecent(_ context.Context, limit int) ([]*entity.Product, error) {
	out := r.filter((*entity.Product).IsActive)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProductRepository) Count(_ context.Context) (int64, error) {
	var n int64
	r.db.read(func(d *dataset) { n = int64(len(d.products)) })
	return n, nil
}

func (r *ProductRepository) CountActive(_ context.Context) (int64, error) {
	return int64(len(r.filter((*entity.Product).IsActive))), nil
}

func (r *ProductRepository) CountStockBelow(_ context.Context, threshold int) (int64, error) {
	n := len(r.filter(func(p *entity.Product) bool { return p.Stock != nil && *p.Stock < threshold }))
	return int64(n), nil
}

// filter devuelve copias de los productos que cumplen keep, ordenados por ID.
func (r *ProductRepository) filter(keep func(*entity.Product) bool) []*entity.Product {
	out := []*entity.Product{}
	r.db.read(func(d *dataset) {
		for _, p := range d.products {
			if keep(p) {
				out = append(out, copyProduct(p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
