package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/seedstoroots/tienda-api/internal/application/cart"
	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/pkg/logger"
)

// CartHandler expone el carrito del usuario autenticado. Solo el propio usuario opera su carrito.
type CartHandler struct {
	uc  *cart.UseCase
	log *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Obtener (o crear) el carrito activo
// @Tags         carrito
// @Security     Bearer
// @Produce      json
// @Param        userId  path  int  true  "ID del usuario"
// @Success      200  {object}  dto.CartResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId} [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.GetOrCreate(c.UserContext(), who, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Tags         carrito
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userId  path  int                  true  "ID del usuario"
// @Param        body    body  dto.CartItemRequest  true  "productoId, cantidad"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId}/add [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.CartItemRequest
	if e := parseBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.AddItem(c.UserContext(), who, uid, in)
	if err != nil {
		return h.respondWriteError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Fijar la cantidad de una línea
// @Tags         carrito
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userId  path  int                  true  "ID del usuario"
// @Param        body    body  dto.CartItemRequest  true  "productoId, cantidad"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId}/update [put]
func (h *CartHandler) Update(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.CartItemRequest
	if e := parseBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.SetItemQuantity(c.UserContext(), who, uid, in)
	if err != nil {
		return h.respondWriteError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         carrito
// @Security     Bearer
// @Produce      json
// @Param        userId     path  int  true  "ID del usuario"
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId}/remove/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	pid, e := paramID(c, "productId")
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), who, uid, pid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         carrito
// @Security     Bearer
// @Param        userId  path  int  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId}/clear [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	if err := h.uc.Clear(c.UserContext(), who, uid); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Quote godoc
// @Summary      Cotización PDF del carrito
// @Tags         carrito
// @Security     Bearer
// @Produce      application/pdf
// @Param        userId  path  int  true  "ID del usuario"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carrito/{userId}/cotizacion [get]
func (h *CartHandler) Quote(c *fiber.Ctx) error {
	who, _ := GetIdentity(c)
	uid, e := paramID(c, "userId")
	if e != nil {
		return badRequest(c, e)
	}
	doc, err := h.uc.Quote(c.UserContext(), who, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="cotizacion-%d.pdf"`, uid))
	return c.Send(doc)
}

// respondWriteError: en add/update un producto o línea inexistente es un 400, no un 404.
func (h *CartHandler) respondWriteError(c *fiber.Ctx, err error) error {
	if domain.KindOf(err) == domain.KindNotFound {
		return badRequest(c, &dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return respondError(c, h.log, err)
}
