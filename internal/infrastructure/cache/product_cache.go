package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/pkg/logger"
)

var _ usecase.ProductCache = (*ProductCache)(nil)

// HitRecorder cuenta aciertos y fallos (métricas).
type HitRecorder interface {
	CacheLookup(hit bool)
}

// ProductCache guarda la vista pública de un producto por ID.
// Un fallo de Redis nunca rompe la lectura: se registra y se sigue contra la base de datos.
type ProductCache struct {
	kv       KV
	ttl      time.Duration
	log      *logger.Logger
	recorder HitRecorder
}

// NewProductCache construye la caché. recorder puede ser nil.
func NewProductCache(kv KV, ttl time.Duration, log *logger.Logger, recorder HitRecorder) *ProductCache {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductCache{kv: kv, ttl: ttl, log: log.Component("product_cache"), recorder: recorder}
}

func productKey(id int64) string {
	return fmt.Sprintf("tienda:producto:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id int64) (*dto.ProductResponse, bool) {
	raw, err := c.kv.Get(ctx, productKey(id))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn().Err(err).Int64("product_id", id).Msg("lectura de caché fallida")
		}
		c.hit(false)
		return nil, false
	}
	var p dto.ProductResponse
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn().Err(err).Int64("product_id", id).Msg("entrada de caché corrupta")
		c.Invalidate(ctx, id)
		c.hit(false)
		return nil, false
	}
	c.hit(true)
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *dto.ProductResponse) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, productKey(p.ID), raw, c.ttl); err != nil {
		c.log.Warn().Err(err).Int64("product_id", p.ID).Msg("escritura de caché fallida")
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if err := c.kv.Del(ctx, productKey(id)); err != nil {
		c.log.Warn().Err(err).Int64("product_id", id).Msg("invalidación de caché fallida")
	}
}

func (c *ProductCache) hit(ok bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup(ok)
	}
}
