package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/application/notify"
	"github.com/kmgmill/ricemill-api/internal/application/numbering"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	orders   repository.SalesOrderRepository
	finished repository.FinishedGoodsRepository
	settings repository.SettingsRepository
	numbers  *numbering.Generator
	ledger   *inventory.UseCase
	notifier notify.Notifier
	pdf      InvoicePDFGenerator
	log      *logger.Logger
}

func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	orders repository.SalesOrderRepository,
	finished repository.FinishedGoodsRepository,
	settings repository.SettingsRepository,
	numbers *numbering.Generator,
	ledger *inventory.UseCase,
	notifier notify.Notifier,
	pdf InvoicePDFGenerator,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoices: invoices,
		orders:   orders,
		finished: finished,
		settings: settings,
		numbers:  numbers,
		ledger:   ledger,
		notifier: notifier,
		pdf:      pdf,
		log:      log,
	}
}

type GenerateInvoiceInput struct {
	OrderID         uuid.UUID
	DiscountPercent decimal.Decimal
	// TaxPercent overrides the configured GST rate when non-nil.
	TaxPercent     *decimal.Decimal
	Notes          string
	BilledBy       string
	PreparedByName string
	DriverID       string
}

// StockUpdate reports one line's deduction for the caller.
type StockUpdate struct {
	SKU         string
	ProductName string
	OldStockKg  decimal.Decimal
	NewStockKg  decimal.Decimal
	ReducedKg   decimal.Decimal
}

// Generate creates the one invoice a confirmed order may have, then
// deducts stock per line. Deductions floor at zero: availability was
// checked when the order was confirmed, and a negative lot weight is
// worse than a small reconciliation entry. Line failures do not abort
// the remaining lines or the invoice.
func (uc *InvoiceUseCase) Generate(ctx context.Context, in GenerateInvoiceInput) (*entity.Invoice, []StockUpdate, error) {
	order, err := uc.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, in.OrderID)
	}
	if order.InvoiceID != nil {
		return nil, nil, domain.ErrAlreadyInvoiced
	}
	if order.Status != entity.OrderConfirmed {
		return nil, nil, domain.ErrOrderNotConfirmed
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, nil, fmt.Errorf("%w: discount percent out of range", domain.ErrInvalidInput)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	invoiceNumber, err := uc.numbers.Next(ctx, settings.InvoicePrefix, settings.NumberWidth)
	if err != nil {
		return nil, nil, err
	}

	taxPct := decimal.NewFromFloat(settings.GSTRate)
	if in.TaxPercent != nil {
		taxPct = *in.TaxPercent
	}

	subtotal := order.TotalAmount
	discount := roundHalfUp2(subtotal.Mul(in.DiscountPercent).Div(decimal.NewFromInt(100)))
	taxable := subtotal.Sub(discount)
	tax := roundHalfUp2(taxable.Mul(taxPct).Div(decimal.NewFromInt(100)))
	total := roundHalfUp2(taxable.Add(tax))

	now := time.Now()
	driverID := order.DriverID
	if driverID == "" {
		driverID = in.DriverID
	}
	invoice := &entity.Invoice{
		ID:              uuid.New(),
		InvoiceNumber:   invoiceNumber,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		CustomerPhone:   order.CustomerPhone,
		Items:           order.Items,
		Subtotal:        subtotal,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  discount,
		TaxPercent:      taxPct,
		TaxAmount:       tax,
		TotalAmount:     total,
		InvoiceDate:     now,
		InvoiceTime:     now.Format("15:04:05"),
		DueDate:         now.AddDate(0, 0, 30),
		PaymentStatus:   entity.PaymentUnpaid,
		Status:          entity.InvoiceActive,
		MillDetails: entity.MillDetails{
			Name:    settings.MillName,
			Address: settings.Address,
			Phone:   settings.Phone,
			Email:   settings.Email,
			GST:     settings.GSTNumber,
		},
		PaymentTerms:   order.PaymentTerms,
		PreparedByName: in.PreparedByName,
		DriverID:       driverID,
		BilledBy:       in.BilledBy,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.invoices.Create(ctx, invoice); err != nil {
		return nil, nil, fmt.Errorf("create invoice: %w", err)
	}

	updates := uc.deductStock(ctx, order, invoice, settings)

	order.InvoiceID = &invoice.ID
	order.Status = entity.OrderInvoiced
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("link invoice to order: %w", err)
	}

	notify.BestEffort(uc.log, "invoice generated notification", func() error {
		return uc.notifier.Notify(ctx, notify.Event{
			Kind:    "invoice_generated",
			Title:   "Invoice generated",
			Message: fmt.Sprintf("Invoice %s for %s, total %s", invoiceNumber, order.CustomerName, total),
			Meta:    map[string]string{"invoiceNumber": invoiceNumber},
		})
	})
	if driverID != "" {
		notify.BestEffort(uc.log, "delivery dispatch notification", func() error {
			return uc.notifier.Notify(ctx, notify.Event{
				Kind:    "delivery_dispatched",
				Title:   "Delivery dispatched",
				Message: fmt.Sprintf("Order %s assigned for delivery", order.OrderNumber),
				Meta:    map[string]string{"orderNumber": order.OrderNumber, "driverId": driverID},
			})
		})
	}

	uc.log.Info().
		Str("invoiceNumber", invoiceNumber).
		Str("totalAmount", total.String()).
		Int("stockUpdates", len(updates)).
		Msg("invoice generated")

	return invoice, updates, nil
}

func (uc *InvoiceUseCase) deductStock(ctx context.Context, order *entity.SalesOrder, invoice *entity.Invoice, settings entity.MillSettings) []StockUpdate {
	threshold := decimal.NewFromFloat(settings.LowStockThresholdKg)
	updates := make([]StockUpdate, 0, len(order.Items))

	for _, item := range order.Items {
		lot, err := uc.finished.GetBySKU(ctx, item.SKU)
		if err != nil || lot == nil {
			uc.log.Warn().Err(err).Str("sku", item.SKU).Msg("product missing during invoice stock deduction")
			continue
		}

		oldStock := lot.WeightKg
		newStock := oldStock.Sub(item.QtyKg)
		if newStock.IsNegative() {
			newStock = decimal.Zero
		}
		if err := uc.finished.UpdateWeight(ctx, lot.ID, newStock); err != nil {
			uc.log.Warn().Err(err).Str("sku", item.SKU).Msg("stock deduction failed")
			continue
		}

		updates = append(updates, StockUpdate{
			SKU:         item.SKU,
			ProductName: item.ProductName,
			OldStockKg:  oldStock,
			NewStockKg:  newStock,
			ReducedKg:   item.QtyKg,
		})

		notify.BestEffort(uc.log, "sale ledger entry", func() error {
			_, err := uc.ledger.RecordMovement(ctx, inventory.RecordMovementInput{
				Type:       entity.MovementOUT,
				ProductSKU: item.SKU,
				QtyKg:      item.QtyKg,
				FromBin:    lot.StorageBin,
				RefType:    entity.RefSale,
				RefID:      invoice.ID,
				Reason:     "Sale - invoice generated",
				UnitCost:   item.UnitPrice,
				CreatedBy:  invoice.BilledBy,
			})
			return err
		})

		if newStock.LessThanOrEqual(threshold) {
			notify.BestEffort(uc.log, "low stock notification", func() error {
				return uc.notifier.Notify(ctx, notify.Event{
					Kind:    "low_stock",
					Title:   "Low stock",
					Message: fmt.Sprintf("%s down to %skg", item.ProductName, newStock),
					Meta:    map[string]string{"sku": item.SKU},
				})
			})
		}
	}
	return updates
}

type PaymentInput struct {
	Amount     decimal.Decimal
	Method     string
	Reference  string
	RecordedBy string
}

// RecordPayment appends a settlement and re-derives the payment status.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, invoiceID uuid.UUID, in PaymentInput) (*entity.Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
	}
	if in.Method == "" {
		return nil, fmt.Errorf("%w: payment method is required", domain.ErrInvalidInput)
	}

	invoice, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrNotFound, invoiceID)
	}
	if invoice.Status == entity.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice %s is cancelled", domain.ErrConflict, invoice.InvoiceNumber)
	}

	now := time.Now()
	invoice.Payments = append(invoice.Payments, entity.Payment{
		Amount:     in.Amount,
		Method:     in.Method,
		Reference:  in.Reference,
		PaidAt:     now,
		RecordedBy: in.RecordedBy,
	})
	invoice.RecalcPaymentStatus(now)
	invoice.UpdatedAt = now

	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

// Cancel marks an invoice cancelled. The record stays for the audit
// trail; a settled invoice can no longer be cancelled.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, invoiceID uuid.UUID, cancelledBy string) (*entity.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrNotFound, invoiceID)
	}
	if invoice.Status == entity.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice %s is already cancelled", domain.ErrConflict, invoice.InvoiceNumber)
	}
	if invoice.PaymentStatus == entity.PaymentPaid {
		return nil, fmt.Errorf("%w: invoice %s is paid and cannot be cancelled", domain.ErrConflict, invoice.InvoiceNumber)
	}

	now := time.Now()
	invoice.Status = entity.InvoiceCancelled
	invoice.PaymentStatus = entity.PaymentCancelled
	invoice.CancelledBy = cancelledBy
	invoice.CancelledAt = &now
	invoice.UpdatedAt = now

	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	uc.log.Info().
		Str("invoiceNumber", invoice.InvoiceNumber).
		Str("cancelledBy", cancelledBy).
		Msg("invoice cancelled")

	return invoice, nil
}

// Get returns one invoice.
func (uc *InvoiceUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrNotFound, id)
	}
	return invoice, nil
}

// List returns invoices matching the filter, newest first.
func (uc *InvoiceUseCase) List(ctx context.Context, f repository.InvoiceFilter) ([]entity.Invoice, error) {
	return uc.invoices.List(ctx, f)
}

// RenderPDF returns the invoice as a PDF document.
func (uc *InvoiceUseCase) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	invoice, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.Generate(invoice)
	if err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return data, nil
}

// roundHalfUp2 rounds to 2 decimals with ties going up. Amounts here
// are never negative, so half away from zero is half up.
func roundHalfUp2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
