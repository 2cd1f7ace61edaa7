package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seedstoroots/tienda-api/pkg/logger"
)

// HTTPObserver recibe la duración y el status de cada request (implementado por *metrics.Metrics).
type HTTPObserver interface {
	RequestStarted() func()
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
}

// RequestLogger registra cada request (método, ruta, status, latencia, request id) y alimenta las métricas.
// observer puede ser nil. Debe ir después de requestid.New().
func RequestLogger(log *logger.Logger, observer HTTPObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		done := func() {}
		if observer != nil {
			done = observer.RequestStarted()
		}
		err := c.Next()
		done()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		elapsed := time.Since(start)
		// La plantilla de la ruta evita una serie por cada ID.
		route := c.Route().Path
		if observer != nil {
			observer.ObserveHTTP(c.Method(), route, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		rid, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", rid).
			Msg("http")
		return err
	}
}
