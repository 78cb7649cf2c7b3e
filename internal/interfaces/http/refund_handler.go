package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/application/refund"
	"github.com/ferrevalle/facturacion-api/internal/domain"
)

// RefundHandler maneja las peticiones HTTP de reembolsos (protegido).
type RefundHandler struct {
	uc *refund.ProcessorUseCase
}

// NewRefundHandler construye el handler.
func NewRefundHandler(uc *refund.ProcessorUseCase) *RefundHandler {
	return &RefundHandler{uc: uc}
}

// Create registra un reembolso en PENDING, sin efectos sobre inventario ni cartera.
// POST /api/refunds
func (h *RefundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRefundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	r, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind, origen, sede_id y líneas válidas son obligatorios"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// GetByID obtiene un reembolso con sus líneas.
// GET /api/refunds/:id
func (h *RefundHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reembolso no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(r)
}

// List reembolsos paginados.
// GET /api/refunds?limit=&offset=
func (h *RefundHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	list, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Process aplica los efectos del reembolso (inventario y cartera) exactamente
// una vez. Irreversible.
// POST /api/refunds/:id/process
func (h *RefundHandler) Process(c *fiber.Ctx) error {
	r, err := h.uc.Process(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reembolso no encontrado"})
		}
		if err == domain.ErrInvalidState {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el reembolso ya fue procesado o anulado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para descontar la devolución"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(r)
}

// Void anula un reembolso pendiente, sin efectos.
// POST /api/refunds/:id/void
func (h *RefundHandler) Void(c *fiber.Ctx) error {
	r, err := h.uc.Void(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reembolso no encontrado"})
		}
		if err == domain.ErrInvalidState {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "solo se puede anular un reembolso pendiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(r)
}

// Delete elimina un reembolso pendiente.
// DELETE /api/refunds/:id
func (h *RefundHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reembolso no encontrado"})
		}
		if err == domain.ErrInvalidState {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "solo se puede eliminar un reembolso pendiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
