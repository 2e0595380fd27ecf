package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmgmill/ricemill-api/internal/application/billing"
	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/application/procurement"
	"github.com/kmgmill/ricemill-api/internal/application/production"
	"github.com/kmgmill/ricemill-api/internal/application/reporting"
	"github.com/kmgmill/ricemill-api/pkg/jwt"
)

// RouterDeps carries the use cases the routes need.
type RouterDeps struct {
	ProcurementUC *procurement.UseCase
	ProductionUC  *production.UseCase
	OrderUC       *billing.OrderUseCase
	InvoiceUC     *billing.InvoiceUseCase
	InventoryUC   *inventory.UseCase
	ReportingUC   *reporting.UseCase
	Tokens        *jwt.Manager
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Everything below requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.Tokens))

	// Procurement
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.ProcurementUC)
	purchases.Post("/", purchaseHandler.Receive)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/summary", purchaseHandler.Summary)
	purchases.Get("/:id", purchaseHandler.GetByID)

	// Production
	batches := protected.Group("/batches")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	batches.Post("/", productionHandler.Start)
	batches.Get("/", productionHandler.List)
	batches.Get("/:id", productionHandler.GetByID)
	batches.Post("/:id/complete", productionHandler.Complete)
	batches.Post("/:id/cancel", productionHandler.Cancel)

	// Sales orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)

	// Invoices and payments
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)

	// Stock ledger
	stock := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	stock.Post("/adjustments", inventoryHandler.CreateAdjustment)
	stock.Get("/references/:refType/:refId", inventoryHandler.ByReference)
	stock.Get("/:sku/balance", inventoryHandler.Balance)
	stock.Get("/:sku/movements", inventoryHandler.History)

	// Reports (admin and accountant only)
	reports := protected.Group("/reports", RequireRole("admin", "accountant"))
	reportHandler := NewReportHandler(deps.ReportingUC)
	reports.Get("/mill-economics", reportHandler.MillEconomics)
	reports.Get("/daily-production", reportHandler.DailyProduction)
	reports.Get("/profit-loss", reportHandler.ProfitLoss)
}
