package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/memory"
)

type mapCache struct {
	items map[int64]*dto.ProductResponse
	hits  int
}

func (c *mapCache) Get(_ context.Context, id int64) (*dto.ProductResponse, bool) {
	p, ok := c.items[id]
	if ok {
		c.hits++
	}
	return p, ok
}
func (c *mapCache) Set(_ context.Context, p *dto.ProductResponse) { c.items[p.ID] = p }
func (c *mapCache) Invalidate(_ context.Context, id int64)        { delete(c.items, id) }

func price(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func intPtr(n int) *int { return &n }

func TestProductCreate_ActivoPorDefecto(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)

	out, err := uc.Create(context.Background(), dto.ProductRequest{Name: "Torta", Price: price(2990), Stock: intPtr(50)})
	require.NoError(t, err)
	assert.NotZero(t, out.ID)
	assert.True(t, out.Active)
	assert.True(t, decimal.NewFromInt(2990).Equal(out.Price))
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)
	ctx := context.Background()

	cases := map[string]dto.ProductRequest{
		"sin nombre":      {Price: price(10)},
		"sin precio":      {Name: "x"},
		"precio negativo": {Name: "x", Price: price(-1)},
		"stock negativo":  {Name: "x", Price: price(1), Stock: intPtr(-2)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestProductGetByID_UsaCacheEInvalida(t *testing.T) {
	cache := &mapCache{items: map[int64]*dto.ProductResponse{}}
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), cache)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.ProductRequest{Name: "Torta", Price: price(100)})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	_, err = uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = uc.Update(ctx, created.ID, dto.ProductRequest{Name: "Torta grande", Price: price(200)})
	require.NoError(t, err)
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Torta grande", got.Name)
}

func TestProductGetByID_NoExiste(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)

	_, err := uc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUpdate_ActivoSoloSiViene(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.ProductRequest{Name: "Torta", Price: price(100), Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, created.Active)

	out, err := uc.Update(ctx, created.ID, dto.ProductRequest{Name: "Torta", Price: price(120)})
	require.NoError(t, err)
	assert.False(t, out.Active)

	out, err = uc.Update(ctx, created.ID, dto.ProductRequest{Name: "Torta", Price: price(120), Active: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, out.Active)
}

func TestProductDelete_EsLogico(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.ProductRequest{Name: "Torta", Price: price(100)})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := uc.List(ctx, dto.ProductFilter{OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestProductList_Filtros(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products(), nil)
	ctx := context.Background()
	for _, in := range []dto.ProductRequest{
		{Name: "Torta", Category: "Tortas", Price: price(100)},
		{Name: "Kuchen", Category: "Tortas", Price: price(100), Active: boolPtr(false)},
		{Name: "Pan", Category: "Panes", Price: price(10)},
	} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tortas, err := uc.List(ctx, dto.ProductFilter{Category: "tortas"})
	require.NoError(t, err)
	assert.Len(t, tortas, 2)

	tortasActivas, err := uc.List(ctx, dto.ProductFilter{Category: "Tortas", OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, tortasActivas, 1)
	assert.Equal(t, "Torta", tortasActivas[0].Name)
}

func TestProductRecent_LimitePorDefecto(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), nil)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := uc.Create(ctx, dto.ProductRequest{Name: "p", Price: price(1)})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	recent, err := uc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, usecase.DefaultRecentLimit)
	assert.Greater(t, recent[0].ID, recent[1].ID, "del más nuevo al más antiguo")

	recent, err = uc.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, recent, 7)
}
