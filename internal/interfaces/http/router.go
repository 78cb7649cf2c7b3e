package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrevalle/facturacion-api/internal/application/auth"
	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/refund"
	"github.com/ferrevalle/facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ClientUC       *billing.ClientUseCase
	EmitInvoice    *billing.EmitInvoiceUseCase
	Export         *billing.ExportUseCase
	FiscalConfigUC *billing.FiscalConfigUseCase
	Ledger         *credit.LedgerUseCase
	Allocator      *credit.AllocatorUseCase
	Reporting      *credit.ReportingUseCase
	RefundUC       *refund.ProcessorUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.EmitInvoice, deps.Export)
	invoices.Post("/", invoiceHandler.Emit)
	invoices.Get("/", invoiceHandler.ListByClient)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/xml", invoiceHandler.XML)

	// Credits (protegido)
	credits := protected.Group("/credits")
	creditHandler := NewCreditHandler(deps.Ledger)
	credits.Post("/", creditHandler.Open)
	credits.Get("/:id", creditHandler.GetByID)

	// Payments (protegido)
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.Allocator, deps.Reporting, deps.Export)
	payments.Post("/", paymentHandler.Apply)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Get("/:id/receipt", paymentHandler.ReceiptPDF)

	// Vistas por cliente: créditos abiertos e historial de abonos
	clients.Get("/:id/credits", creditHandler.ListOpenByClient)
	clients.Get("/:id/payments", paymentHandler.History)

	// Refunds (protegido)
	refunds := protected.Group("/refunds")
	refundHandler := NewRefundHandler(deps.RefundUC)
	refunds.Post("/", refundHandler.Create)
	refunds.Get("/", refundHandler.List)
	refunds.Get("/:id", refundHandler.GetByID)
	refunds.Post("/:id/process", refundHandler.Process)
	refunds.Post("/:id/void", refundHandler.Void)
	refunds.Delete("/:id", refundHandler.Delete)

	// Fiscal config (solo admin)
	fiscal := protected.Group("/fiscal-config", RequireRole(entity.RoleAdmin))
	fiscalHandler := NewFiscalConfigHandler(deps.FiscalConfigUC)
	fiscal.Get("/", fiscalHandler.Get)
	fiscal.Put("/", fiscalHandler.Update)
}
