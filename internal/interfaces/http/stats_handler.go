package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seedstoroots/tienda-api/internal/application/analytics"
	"github.com/seedstoroots/tienda-api/pkg/logger"
)

// StatsHandler estadísticas globales (solo ADMIN).
type StatsHandler struct {
	uc  *analytics.StatsUseCase
	log *logger.Logger
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.StatsUseCase, log *logger.Logger) *StatsHandler {
	return &StatsHandler{uc: uc, log: log}
}

// Summary godoc
// @Summary      Resumen del catálogo y las cuentas
// @Tags         estadisticas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/estadisticas [get]
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summarize(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
