package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/dto"
	"github.com/ferrevalle/facturacion-api/internal/domain"
)

// PaymentHandler maneja abonos y su historial (protegido).
type PaymentHandler struct {
	allocator *credit.AllocatorUseCase
	reporting *credit.ReportingUseCase
	export    *billing.ExportUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(allocator *credit.AllocatorUseCase, reporting *credit.ReportingUseCase, export *billing.ExportUseCase) *PaymentHandler {
	return &PaymentHandler{allocator: allocator, reporting: reporting, export: export}
}

// Apply registra un abono y lo distribuye sobre los créditos abiertos del
// cliente, deuda más vieja primero. Si el monto excede los saldos y
// accept_overpayment es false, la operación completa se rechaza sin mutar nada.
// POST /api/payments
func (h *PaymentHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.allocator.Apply(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id, amount_minor > 0 y method son obligatorios"})
		}
		if err == domain.ErrOverpayment {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVERPAYMENT", Message: "el monto excede los saldos abiertos; reenviar con accept_overpayment=true para aceptar el excedente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetByID obtiene un abono con su distribución.
// GET /api/payments/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.reporting.GetPayment(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "abono no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(p)
}

// History historial de abonos de un cliente en un rango de fechas.
// GET /api/clients/:id/payments?from=&to=  (RFC 3339, ambos opcionales)
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	out, err := h.reporting.ListPayments(c.Context(), c.Params("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas en formato RFC 3339"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ReceiptPDF descarga el recibo del abono con su distribución.
// GET /api/payments/:id/receipt
func (h *PaymentHandler) ReceiptPDF(c *fiber.Ctx) error {
	data, err := h.export.ReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "abono no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo.pdf"`)
	return c.Send(data)
}
