// Package procurement turns a received paddy delivery into a purchase
// record, a raw-material lot and a stock ledger entry in one call.
package procurement

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

// Default alert level for a fresh paddy lot.
var defaultMinimumStockKg = decimal.NewFromInt(1000)

type UseCase struct {
	purchases repository.PurchaseRepository
	lots      repository.RawMaterialRepository
	settings  repository.SettingsRepository
	numbers   *numbering.Generator
	ledger    *inventory.UseCase
	notifier  notify.Notifier
	log       *logger.Logger
}

func NewUseCase(
	purchases repository.PurchaseRepository,
	lots repository.RawMaterialRepository,
	settings repository.SettingsRepository,
	numbers *numbering.Generator,
	ledger *inventory.UseCase,
	notifier notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		purchases: purchases,
		lots:      lots,
		settings:  settings,
		numbers:   numbers,
		ledger:    ledger,
		notifier:  notifier,
		log:       log,
	}
}

type ReceivePurchaseInput struct {
	SupplierID    string
	SupplierName  string
	PaddyType     string
	Grade         string
	GrossWeightKg decimal.Decimal
	TareWeightKg  decimal.Decimal
	MoisturePct   decimal.Decimal
	PricePerKg    decimal.Decimal
	TransportCost decimal.Decimal
	UnloadingCost decimal.Decimal
	StorageBin    string
	ReceivedAt    time.Time
	Notes         string
	CreatedBy     string
}

func (in ReceivePurchaseInput) validate() error {
	switch {
	case in.PaddyType == "":
		return fmt.Errorf("%w: paddy type is required", domain.ErrInvalidInput)
	case !in.GrossWeightKg.IsPositive():
		return fmt.Errorf("%w: gross weight must be positive", domain.ErrInvalidInput)
	case in.TareWeightKg.IsNegative():
		return fmt.Errorf("%w: tare weight cannot be negative", domain.ErrInvalidInput)
	case in.GrossWeightKg.LessThanOrEqual(in.TareWeightKg):
		return fmt.Errorf("%w: tare weight must be below gross weight", domain.ErrInvalidInput)
	case !in.PricePerKg.IsPositive():
		return fmt.Errorf("%w: price per kg must be positive", domain.ErrInvalidInput)
	case in.TransportCost.IsNegative() || in.UnloadingCost.IsNegative():
		return fmt.Errorf("%w: costs cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Receive records the intake: derives net weight and total amount,
// issues the PO number, creates the lot keyed RM-<poNumber>, and
// appends the IN ledger entry. Ledger and notification writes are
// best-effort; the purchase and lot are the durable result.
func (uc *UseCase) Receive(ctx context.Context, in ReceivePurchaseInput) (*entity.Purchase, *entity.RawMaterialLot, error) {
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	grade := in.Grade
	if grade == "" {
		grade = settings.DefaultRiceGrade
	}
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	netWeight := in.GrossWeightKg.Sub(in.TareWeightKg)
	totalAmount := in.PricePerKg.Mul(netWeight).Add(in.TransportCost).Add(in.UnloadingCost)

	poNumber, err := uc.numbers.Next(ctx, settings.PurchasePrefix, settings.NumberWidth)
	if err != nil {
		return nil, nil, err
	}

	purchase := &entity.Purchase{
		ID:            uuid.New(),
		PONumber:      poNumber,
		SupplierID:    in.SupplierID,
		SupplierName:  in.SupplierName,
		PaddyType:     in.PaddyType,
		Grade:         grade,
		GrossWeightKg: in.GrossWeightKg,
		TareWeightKg:  in.TareWeightKg,
		NetWeightKg:   netWeight,
		MoisturePct:   in.MoisturePct,
		PricePerKg:    in.PricePerKg,
		TransportCost: in.TransportCost,
		UnloadingCost: in.UnloadingCost,
		TotalAmount:   totalAmount,
		Status:        entity.PurchaseReceived,
		LotSKU:        "RM-" + poNumber,
		StorageBin:    in.StorageBin,
		Notes:         in.Notes,
		ReceivedAt:    receivedAt,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     time.Now(),
	}

	if err := uc.purchases.Create(ctx, purchase); err != nil {
		return nil, nil, fmt.Errorf("create purchase: %w", err)
	}

	lot := &entity.RawMaterialLot{
		ID:             uuid.New(),
		SKU:            purchase.LotSKU,
		Name:           fmt.Sprintf("%s Paddy - %s", in.PaddyType, grade),
		PaddyType:      in.PaddyType,
		Grade:          grade,
		QuantityKg:     netWeight,
		UnitCost:       in.PricePerKg,
		MinimumStockKg: defaultMinimumStockKg,
		Status:         entity.LotAvailable,
		StorageBin:     in.StorageBin,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, nil, fmt.Errorf("create raw material lot: %w", err)
	}

	notify.BestEffort(uc.log, "purchase ledger entry", func() error {
		_, err := uc.ledger.RecordMovement(ctx, inventory.RecordMovementInput{
			Type:       entity.MovementIN,
			ProductSKU: lot.SKU,
			QtyKg:      netWeight,
			ToBin:      in.StorageBin,
			RefType:    entity.RefPurchase,
			RefID:      purchase.ID,
			Reason:     "Paddy purchase received",
			UnitCost:   in.PricePerKg,
			CreatedBy:  in.CreatedBy,
		})
		return err
	})

	notify.BestEffort(uc.log, "purchase received notification", func() error {
		return uc.notifier.Notify(ctx, notify.Event{
			Kind:    "purchase_received",
			Title:   "Purchase received",
			Message: fmt.Sprintf("Purchase %s received from %s", poNumber, in.SupplierName),
			Meta:    map[string]string{"poNumber": poNumber},
		})
	})

	uc.log.Info().
		Str("poNumber", poNumber).
		Str("netWeightKg", netWeight.String()).
		Msg("purchase received")

	return purchase, lot, nil
}

// Get returns one purchase.
func (uc *UseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	return uc.purchases.GetByID(ctx, id)
}

// List returns purchases matching the filter, newest first.
func (uc *UseCase) List(ctx context.Context, f repository.PurchaseFilter) ([]entity.Purchase, error) {
	return uc.purchases.List(ctx, f)
}

// Summary returns intake totals for a window. A zero window means
// all time.
func (uc *UseCase) Summary(ctx context.Context, from, to time.Time) (repository.PurchaseSummary, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.PurchaseSummary{}, domain.ErrInvalidDateRange
	}
	return uc.purchases.Summary(ctx, from, to)
}
