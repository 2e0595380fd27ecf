package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kmgmill/ricemill-api/internal/application/billing"
	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/application/numbering"
	"github.com/kmgmill/ricemill-api/internal/application/procurement"
	"github.com/kmgmill/ricemill-api/internal/application/production"
	"github.com/kmgmill/ricemill-api/internal/application/reporting"
	"github.com/kmgmill/ricemill-api/internal/infrastructure/notifylog"
	infrapdf "github.com/kmgmill/ricemill-api/internal/infrastructure/pdf"
	"github.com/kmgmill/ricemill-api/internal/infrastructure/postgres"
	httpRouter "github.com/kmgmill/ricemill-api/internal/interfaces/http"
	"github.com/kmgmill/ricemill-api/pkg/config"
	"github.com/kmgmill/ricemill-api/pkg/jwt"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	// Repositories
	movementRepo := postgres.NewStockMovementRepository(pool)
	rawMaterialRepo := postgres.NewRawMaterialRepository(pool)
	finishedRepo := postgres.NewFinishedGoodsRepository(pool)
	batchRepo := postgres.NewProductionBatchRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	sequenceRepo := postgres.NewSequenceRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)

	// Shared services
	numbers := numbering.NewGenerator(sequenceRepo)
	notifier := notifylog.New(log)
	pdfGenerator := infrapdf.NewMarotoInvoiceGenerator(cfg.Mill.Currency)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Use cases
	inventoryUC := inventory.NewUseCase(movementRepo, log)
	procurementUC := procurement.NewUseCase(purchaseRepo, rawMaterialRepo, settingsRepo, numbers, inventoryUC, notifier, log)
	productionUC := production.NewUseCase(batchRepo, rawMaterialRepo, finishedRepo, settingsRepo, numbers, inventoryUC, notifier, log)
	orderUC := billing.NewOrderUseCase(orderRepo, finishedRepo, settingsRepo, numbers, notifier, log)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, orderRepo, finishedRepo, settingsRepo, numbers, inventoryUC, notifier, pdfGenerator, log)
	reportingUC := reporting.NewUseCase(reportingRepo, settingsRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProcurementUC: procurementUC,
		ProductionUC:  productionUC,
		OrderUC:       orderUC,
		InvoiceUC:     invoiceUC,
		InventoryUC:   inventoryUC,
		ReportingUC:   reportingUC,
		Tokens:        tokens,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
