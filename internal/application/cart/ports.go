package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// El carrito y sus líneas se guardan como una sola unidad: si fn falla, nada se persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		carts repository.CartRepository,
		products repository.ProductRepository,
		users repository.UserRepository,
	) error) error
}

// Quote datos de una cotización del carrito activo.
type Quote struct {
	CartID        int64
	CustomerName  string
	CustomerEmail string
	IssuedAt      time.Time
	Items         []dto.CartItemResponse
	Total         decimal.Decimal
}

// QuoteRenderer genera el documento (PDF) de una cotización.
type QuoteRenderer interface {
	RenderQuote(ctx context.Context, q Quote) ([]byte, error)
}

// Recorder registra el resultado de cada operación del carrito (métricas).
type Recorder interface {
	CartOperation(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) CartOperation(string, string) {}
