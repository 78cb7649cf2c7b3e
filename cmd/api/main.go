package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ferrevalle/facturacion-api/internal/application/auth"
	"github.com/ferrevalle/facturacion-api/internal/application/billing"
	"github.com/ferrevalle/facturacion-api/internal/application/credit"
	"github.com/ferrevalle/facturacion-api/internal/application/refund"
	infrapdf "github.com/ferrevalle/facturacion-api/internal/infrastructure/pdf"
	"github.com/ferrevalle/facturacion-api/internal/infrastructure/postgres"
	"github.com/ferrevalle/facturacion-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/ferrevalle/facturacion-api/internal/interfaces/http"
	"github.com/ferrevalle/facturacion-api/pkg/config"
	"github.com/ferrevalle/facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	creditRepo := postgres.NewCreditRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	refundRepo := postgres.NewRefundRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	fiscalRepo := postgres.NewFiscalConfigRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	clientUC := billing.NewClientUseCase(clientRepo)
	emitInvoiceUC := billing.NewEmitInvoiceUseCase(txRunner, fiscalRepo, clientRepo, invoiceRepo)
	fiscalConfigUC := billing.NewFiscalConfigUseCase(fiscalRepo)

	// Representaciones de salida: PDF (factura y recibo) y XML de intercambio
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Company.Name)
	xmlBuilder := xmlexport.NewXMLBuilderService(cfg.Company.Name, cfg.Company.TaxID)
	exportUC := billing.NewExportUseCase(
		invoiceRepo, paymentRepo, clientRepo,
		pdfGenerator, pdfGenerator, xmlBuilder,
	)

	ledgerUC := credit.NewLedgerUseCase(creditRepo, clientRepo)
	allocatorUC := credit.NewAllocatorUseCase(txRunner)
	reportingUC := credit.NewReportingUseCase(paymentRepo)
	refundUC := refund.NewProcessorUseCase(txRunner, refundRepo, creditRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ClientUC:       clientUC,
		EmitInvoice:    emitInvoiceUC,
		Export:         exportUC,
		FiscalConfigUC: fiscalConfigUC,
		Ledger:         ledgerUC,
		Allocator:      allocatorUC,
		Reporting:      reportingUC,
		RefundUC:       refundUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
