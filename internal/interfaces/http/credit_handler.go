package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
)

// CreditHandler maneja las peticiones HTTP de cartera (protegido).
type CreditHandler struct {
	ledger *credit.LedgerUseCase
}

// NewCreditHandler construye el handler.
func NewCreditHandler(ledger *credit.LedgerUseCase) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

// Open abre un crédito para una orden vendida a crédito (uno por orden).
// POST /api/credits
func (h *CreditHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCreditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cr, err := h.ledger.Open(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id, client_id y total_credit_minor > 0 son obligatorios"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
		}
		if err == domain.ErrCreditExists {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CREDIT_EXISTS", Message: "la orden ya tiene un crédito"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(cr)
}

// GetByID obtiene un crédito.
// GET /api/credits/:id
func (h *CreditHandler) GetByID(c *fiber.Ctx) error {
	cr, err := h.ledger.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "crédito no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cr)
}

// ListOpenByClient créditos abiertos de un cliente, deuda más vieja primero,
// con el saldo agregado.
// GET /api/clients/:id/credits
func (h *CreditHandler) ListOpenByClient(c *fiber.Ctx) error {
	out, err := h.ledger.ListOpenByClient(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
