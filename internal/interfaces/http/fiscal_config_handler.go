package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
)

// FiscalConfigHandler maneja la configuración fiscal (solo admin).
type FiscalConfigHandler struct {
	uc *billing.FiscalConfigUseCase
}

// NewFiscalConfigHandler construye el handler.
func NewFiscalConfigHandler(uc *billing.FiscalConfigUseCase) *FiscalConfigHandler {
	return &FiscalConfigHandler{uc: uc}
}

// Get devuelve las tarifas vigentes.
// GET /api/fiscal-config
func (h *FiscalConfigHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.uc.Get(c.Context())
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "configuración fiscal no inicializada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cfg)
}

// Update cambia las tarifas. Las facturas ya emitidas conservan sus cifras.
// PUT /api/fiscal-config
func (h *FiscalConfigHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFiscalConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cfg, err := h.uc.Update(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tarifas fuera de rango [0, 100] o umbral negativo"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "configuración fiscal no inicializada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cfg)
}
