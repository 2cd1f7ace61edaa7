// Package cart contiene el motor del carrito: un carrito activo por usuario,
// líneas únicas por producto, validación de cantidad y stock, y total decimal.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

// Operaciones registradas en métricas.
const (
	opGet    = "get"
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
	opQuote  = "quote"
)

// UseCase orquesta las mutaciones del carrito. Cada operación corre en una transacción.
type UseCase struct {
	tx       TxRunner
	renderer QuoteRenderer
	recorder Recorder
	now      func() time.Time
}

// Option configura el UseCase.
type Option func(*UseCase)

// WithQuoteRenderer habilita la generación de cotizaciones.
func WithQuoteRenderer(r QuoteRenderer) Option {
	return func(uc *UseCase) { uc.renderer = r }
}

// WithRecorder registra cada operación (ej. contadores Prometheus).
func WithRecorder(r Recorder) Option {
	return func(uc *UseCase) {
		if r != nil {
			uc.recorder = r
		}
	}
}

// WithClock reemplaza el reloj.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// NewUseCase construye el motor del carrito.
func NewUseCase(tx TxRunner, opts ...Option) *UseCase {
	uc := &UseCase{tx: tx, recorder: nopRecorder{}, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetOrCreate devuelve el carrito activo del usuario, creándolo vacío si no existe.
func (uc *UseCase) GetOrCreate(ctx context.Context, who entity.Identity, userID int64) (*dto.CartResponse, error) {
	var view *dto.CartResponse
	err := uc.mutate(ctx, opGet, who, userID, func(c *entity.Cart, _ repository.ProductRepository) (bool, error) {
		return false, nil
	}, &view)
	return view, err
}

// AddItem suma qty unidades del producto. Si la línea ya existe se acumula; nunca se duplica.
func (uc *UseCase) AddItem(ctx context.Context, who entity.Identity, userID int64, in dto.CartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity <= 0 {
		return nil, uc.record(opAdd, domain.ErrInvalidQuantity)
	}
	var view *dto.CartResponse
	err := uc.mutate(ctx, opAdd, who, userID, func(c *entity.Cart, products repository.ProductRepository) (bool, error) {
		p, err := availableProduct(ctx, products, in.ProductID)
		if err != nil {
			return false, err
		}
		existing := c.QuantityOf(p.ID)
		if !p.HasStockToAdd(existing, in.Quantity) {
			return false, domain.ErrInsufficientStock
		}
		c.SetLine(p, existing+in.Quantity)
		return true, nil
	}, &view)
	return view, err
}

// SetItemQuantity reemplaza la cantidad de una línea existente.
func (uc *UseCase) SetItemQuantity(ctx context.Context, who entity.Identity, userID int64, in dto.CartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity <= 0 {
		return nil, uc.record(opUpdate, domain.ErrInvalidQuantity)
	}
	var view *dto.CartResponse
	err := uc.mutate(ctx, opUpdate, who, userID, func(c *entity.Cart, products repository.ProductRepository) (bool, error) {
		if c.Item(in.ProductID) == nil {
			return false, domain.ErrItemNotInCart
		}
		p, err := availableProduct(ctx, products, in.ProductID)
		if err != nil {
			return false, err
		}
		if !p.HasStockFor(in.Quantity) {
			return false, domain.ErrInsufficientStock
		}
		c.SetLine(p, in.Quantity)
		return true, nil
	}, &view)
	return view, err
}

// RemoveItem quita la línea del producto. Quitar un producto ausente no es error.
func (uc *UseCase) RemoveItem(ctx context.Context, who entity.Identity, userID, productID int64) (*dto.CartResponse, error) {
	var view *dto.CartResponse
	err := uc.mutate(ctx, opRemove, who, userID, func(c *entity.Cart, _ repository.ProductRepository) (bool, error) {
		return c.RemoveLine(productID), nil
	}, &view)
	return view, err
}

// Clear vacía el carrito activo del usuario.
func (uc *UseCase) Clear(ctx context.Context, who entity.Identity, userID int64) error {
	return uc.mutate(ctx, opClear, who, userID, func(c *entity.Cart, _ repository.ProductRepository) (bool, error) {
		c.Clear()
		return true, nil
	}, nil)
}

// Quote genera la cotización del carrito activo.
func (uc *UseCase) Quote(ctx context.Context, who entity.Identity, userID int64) ([]byte, error) {
	if uc.renderer == nil {
		return nil, uc.record(opQuote, errors.New("cart: cotizaciones no habilitadas"))
	}
	if !who.CanAccessCart(userID) {
		return nil, uc.record(opQuote, domain.ErrForbidden)
	}
	var q Quote
	err := uc.tx.Run(ctx, func(carts repository.CartRepository, _ repository.ProductRepository, users repository.UserRepository) error {
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		c, err := getOrCreate(ctx, carts, userID, uc.now())
		if err != nil {
			return err
		}
		view := toCartResponse(c)
		q = Quote{
			CartID:        c.ID,
			CustomerName:  strings.TrimSpace(user.FirstName + " " + user.LastName),
			CustomerEmail: user.Email,
			IssuedAt:      uc.now(),
			Items:         view.Items,
			Total:         view.Total,
		}
		return nil
	})
	if err != nil {
		return nil, uc.record(opQuote, err)
	}
	doc, err := uc.renderer.RenderQuote(ctx, q)
	if err != nil {
		return nil, uc.record(opQuote, fmt.Errorf("cart: generar cotización: %w", err))
	}
	uc.record(opQuote, nil)
	return doc, nil
}

// mutate es el esqueleto común: autoriza, abre la tx, resuelve el usuario y su carrito activo,
// aplica fn y persiste si fn reporta cambios. Si fn falla la tx se descarta y el carrito queda intacto.
func (uc *UseCase) mutate(
	ctx context.Context,
	op string,
	who entity.Identity,
	userID int64,
	fn func(c *entity.Cart, products repository.ProductRepository) (bool, error),
	out **dto.CartResponse,
) error {
	if !who.CanAccessCart(userID) {
		return uc.record(op, domain.ErrForbidden)
	}
	err := uc.tx.Run(ctx, func(carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository) error {
		if _, err := users.FindByID(ctx, userID); err != nil {
			return err
		}
		c, err := getOrCreate(ctx, carts, userID, uc.now())
		if err != nil {
			return err
		}
		changed, err := fn(c, products)
		if err != nil {
			return err
		}
		if changed {
			c.UpdatedAt = uc.now()
			if err := carts.Save(ctx, c); err != nil {
				return fmt.Errorf("cart: guardar carrito: %w", err)
			}
		}
		if out != nil {
			*out = toCartResponse(c)
		}
		return nil
	})
	return uc.record(op, err)
}

func (uc *UseCase) record(op string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if k := domain.KindOf(err); k != "" {
			outcome = strings.ToLower(string(k))
		}
	}
	uc.recorder.CartOperation(op, outcome)
	return err
}

func getOrCreate(ctx context.Context, carts repository.CartRepository, userID int64, now time.Time) (*entity.Cart, error) {
	c, err := carts.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: buscar carrito activo: %w", err)
	}
	if c != nil {
		return c, nil
	}
	c = entity.NewCart(userID, now)
	if err := carts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("cart: crear carrito: %w", err)
	}
	return c, nil
}

// availableProduct resuelve el producto y exige que esté activo.
func availableProduct(ctx context.Context, products repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, domain.ErrProductUnavailable
	}
	return p, nil
}

func toCartResponse(c *entity.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dto.CartItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal,
		})
	}
	return &dto.CartResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  items,
		Total:  c.Total(),
	}
}
