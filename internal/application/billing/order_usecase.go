// Package billing covers the sales side: orders, invoices, payments
// and the invoice PDF. Stock is validated when an order is created and
// deducted when the invoice is generated, never at shipping.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/application/notify"
	"github.com/kmgmill/ricemill-api/internal/application/numbering"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

type OrderUseCase struct {
	orders   repository.SalesOrderRepository
	finished repository.FinishedGoodsRepository
	settings repository.SettingsRepository
	numbers  *numbering.Generator
	notifier notify.Notifier
	log      *logger.Logger
}

func NewOrderUseCase(
	orders repository.SalesOrderRepository,
	finished repository.FinishedGoodsRepository,
	settings repository.SettingsRepository,
	numbers *numbering.Generator,
	notifier notify.Notifier,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		finished: finished,
		settings: settings,
		numbers:  numbers,
		notifier: notifier,
		log:      log,
	}
}

type OrderLineInput struct {
	SKU       string
	QtyKg     decimal.Decimal
	UnitPrice decimal.Decimal
}

type CreateOrderInput struct {
	CustomerID      string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Items           []OrderLineInput
	DeliveryDate    *time.Time
	ShippingAddress string
	PaymentTerms    string
	DeliveryMethod  string
	DriverID        string
	Notes           string
	CreatedBy       string
}

// CreateOrder validates stock availability per line, enriches the
// lines with product names and totals, and saves the order as draft.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.SalesOrder, error) {
	if in.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidInput)
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, line := range in.Items {
		if !line.QtyKg.IsPositive() || line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: invalid quantity or price for %s", domain.ErrInvalidInput, line.SKU)
		}
		lot, err := uc.finished.GetBySKU(ctx, line.SKU)
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", line.SKU, err)
		}
		if lot == nil {
			return nil, fmt.Errorf("%w: product not found: %s", domain.ErrInvalidInput, line.SKU)
		}
		if lot.WeightKg.LessThan(line.QtyKg) {
			return nil, fmt.Errorf("%w: %s has %skg available", domain.ErrInsufficientStock, line.SKU, lot.WeightKg)
		}

		lineTotal := line.QtyKg.Mul(line.UnitPrice)
		items = append(items, entity.OrderItem{
			SKU:         line.SKU,
			ProductName: fmt.Sprintf("%s Rice - %s", lot.PaddyType, lot.RiceGrade),
			QtyKg:       line.QtyKg,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  lineTotal,
		})
		total = total.Add(lineTotal)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	orderNumber, err := uc.numbers.Next(ctx, settings.SalesOrderPrefix, settings.NumberWidth)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.SalesOrder{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerAddress: in.CustomerAddress,
		CustomerPhone:   in.CustomerPhone,
		Items:           items,
		TotalAmount:     total,
		Status:          entity.OrderDraft,
		DeliveryDate:    in.DeliveryDate,
		ShippingAddress: in.ShippingAddress,
		PaymentTerms:    in.PaymentTerms,
		DeliveryMethod:  in.DeliveryMethod,
		DriverID:        in.DriverID,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	notify.BestEffort(uc.log, "new order notification", func() error {
		return uc.notifier.Notify(ctx, notify.Event{
			Kind:    "new_order",
			Title:   "New sales order",
			Message: fmt.Sprintf("Order %s created for %s", orderNumber, in.CustomerName),
			Meta:    map[string]string{"orderNumber": orderNumber},
		})
	})

	uc.log.Info().
		Str("orderNumber", orderNumber).
		Str("totalAmount", total.String()).
		Msg("sales order created")

	return order, nil
}

// UpdateStatus moves the order along the forward path. Shipped and
// delivered orders cannot be cancelled.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, target entity.OrderStatus) (*entity.SalesOrder, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}

	if target == entity.OrderInvoiced {
		return nil, fmt.Errorf("%w: orders become invoiced through invoice generation", domain.ErrConflict)
	}
	if !order.CanTransitionTo(target) {
		if target == entity.OrderCancelled {
			return nil, fmt.Errorf("%w: cannot cancel shipped or delivered orders", domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrConflict, order.Status, target)
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Get returns one order.
func (uc *OrderUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) ([]entity.SalesOrder, error) {
	return uc.orders.List(ctx, f)
}
