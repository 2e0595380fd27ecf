// Package production drives the milling batch state machine:
// queued → in_progress → completed, with cancellation returning
// reserved paddy. Paddy reservation and batch creation span two
// documents, so the start flow is an explicit saga with a
// compensating delete.
package production

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

var hundred = decimal.NewFromInt(100)

type UseCase struct {
	batches  repository.ProductionBatchRepository
	lots     repository.RawMaterialRepository
	finished repository.FinishedGoodsRepository
	settings repository.SettingsRepository
	numbers  *numbering.Generator
	ledger   *inventory.UseCase
	notifier notify.Notifier
	log      *logger.Logger
}

func NewUseCase(
	batches repository.ProductionBatchRepository,
	lots repository.RawMaterialRepository,
	finished repository.FinishedGoodsRepository,
	settings repository.SettingsRepository,
	numbers *numbering.Generator,
	ledger *inventory.UseCase,
	notifier notify.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		batches:  batches,
		lots:     lots,
		finished: finished,
		settings: settings,
		numbers:  numbers,
		ledger:   ledger,
		notifier: notifier,
		log:      log,
	}
}

type StartBatchInput struct {
	LotID        uuid.UUID
	InputPaddyKg decimal.Decimal
	OperatorID   string
	Notes        string
	CreatedBy    string
}

// Start reserves paddy and opens a batch. The order is deliberate:
// create the batch first, then decrement the lot with a guarded
// conditional update; if the decrement loses the race the batch is
// deleted again and the caller sees ErrInsufficientStock.
func (uc *UseCase) Start(ctx context.Context, in StartBatchInput) (*entity.ProductionBatch, error) {
	if !in.InputPaddyKg.IsPositive() {
		return nil, fmt.Errorf("%w: input paddy must be positive", domain.ErrInvalidInput)
	}

	lot, err := uc.lots.GetByID(ctx, in.LotID)
	if err != nil {
		return nil, fmt.Errorf("load lot: %w", err)
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: raw material lot %s", domain.ErrNotFound, in.LotID)
	}
	if lot.Status != entity.LotAvailable {
		return nil, fmt.Errorf("%w: lot %s is %s", domain.ErrConflict, lot.SKU, lot.Status)
	}
	if lot.QuantityKg.LessThan(in.InputPaddyKg) {
		return nil, fmt.Errorf("%w: lot %s has %skg available", domain.ErrInsufficientStock, lot.SKU, lot.QuantityKg)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	batchNumber, err := uc.numbers.Next(ctx, settings.BatchPrefix, settings.NumberWidth)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batch := &entity.ProductionBatch{
		ID:           uuid.New(),
		BatchNumber:  batchNumber,
		LotID:        lot.ID,
		LotSKU:       lot.SKU,
		PaddyType:    lot.PaddyType,
		InputPaddyKg: in.InputPaddyKg,
		Status:       entity.BatchInProgress,
		OperatorID:   in.OperatorID,
		Notes:        in.Notes,
		StartedAt:    now,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.batches.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	if err := uc.lots.ReserveQuantity(ctx, lot.ID, in.InputPaddyKg); err != nil {
		// compensate: the batch must not exist without its paddy
		if delErr := uc.batches.Delete(ctx, batch.ID); delErr != nil {
			uc.log.Error().Err(delErr).
				Str("batchNumber", batchNumber).
				Msg("compensating batch delete failed")
		}
		return nil, fmt.Errorf("reserve paddy: %w", err)
	}

	notify.BestEffort(uc.log, "batch start ledger entry", func() error {
		_, err := uc.ledger.RecordMovement(ctx, inventory.RecordMovementInput{
			Type:       entity.MovementOUT,
			ProductSKU: lot.SKU,
			QtyKg:      in.InputPaddyKg,
			RefType:    entity.RefProduction,
			RefID:      batch.ID,
			Reason:     "Paddy issued to production",
			UnitCost:   lot.UnitCost,
			CreatedBy:  in.CreatedBy,
		})
		return err
	})

	uc.log.Info().
		Str("batchNumber", batchNumber).
		Str("lotSku", lot.SKU).
		Str("inputKg", in.InputPaddyKg.String()).
		Msg("production batch started")

	return batch, nil
}

type CompleteBatchInput struct {
	BatchID uuid.UUID
	Output  entity.BatchOutput

	// Optional lot overrides; settings defaults apply when zero.
	RiceGrade   string
	BagWeightKg decimal.Decimal
	PricePerKg  decimal.Decimal
	ExpiryDate  *time.Time
	StorageBin  string

	Notes       string
	CompletedBy string
}

// Complete closes a batch: checks the mass balance against the
// configured tolerance, records the yield, creates the finished-goods
// lot and its IN ledger entry.
func (uc *UseCase) Complete(ctx context.Context, in CompleteBatchInput) (*entity.ProductionBatch, *entity.FinishedGoodsLot, error) {
	batch, err := uc.batches.GetByID(ctx, in.BatchID)
	if err != nil {
		return nil, nil, fmt.Errorf("load batch: %w", err)
	}
	if batch == nil {
		return nil, nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, in.BatchID)
	}
	if batch.Status == entity.BatchCompleted {
		return nil, nil, domain.ErrAlreadyCompleted
	}
	if batch.Status != entity.BatchInProgress {
		return nil, nil, fmt.Errorf("%w: batch %s is %s", domain.ErrConflict, batch.BatchNumber, batch.Status)
	}
	if in.Output.RiceKg.IsNegative() || in.Output.BrokenRiceKg.IsNegative() ||
		in.Output.HuskKg.IsNegative() || in.Output.BranKg.IsNegative() ||
		in.Output.ImpurityKg.IsNegative() {
		return nil, nil, fmt.Errorf("%w: output weights cannot be negative", domain.ErrInvalidInput)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	totalOutput := in.Output.TotalKg()
	tolerance := decimal.NewFromFloat(settings.ProductionTolerancePct)
	maxOutput := batch.InputPaddyKg.Mul(decimal.NewFromInt(1).Add(tolerance))
	if totalOutput.GreaterThan(maxOutput) {
		out, _ := totalOutput.Float64()
		in64, _ := batch.InputPaddyKg.Float64()
		return nil, nil, &domain.MassBalanceError{
			InputKg:      in64,
			OutputKg:     out,
			TolerancePct: settings.ProductionTolerancePct,
		}
	}

	now := time.Now()
	batch.Output = in.Output
	batch.YieldPct = in.Output.RiceKg.Div(batch.InputPaddyKg).Mul(hundred)
	batch.Status = entity.BatchCompleted
	batch.CompletedAt = &now
	batch.UpdatedAt = now
	if in.Notes != "" {
		batch.Notes = in.Notes
	}
	if err := uc.batches.Update(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("update batch: %w", err)
	}

	grade := in.RiceGrade
	if grade == "" {
		grade = settings.DefaultRiceGrade
	}
	bagWeight := in.BagWeightKg
	if !bagWeight.IsPositive() {
		bagWeight = decimal.NewFromFloat(settings.DefaultBagWeightKg)
	}
	expiry := now.AddDate(0, 0, settings.DefaultExpiryDays)
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}
	lot := &entity.FinishedGoodsLot{
		ID:          uuid.New(),
		SKU:         "FG-" + batch.BatchNumber,
		BatchID:     batch.ID,
		PaddyType:   batch.PaddyType,
		RiceGrade:   grade,
		WeightKg:    in.Output.RiceKg,
		BagCount:    int(in.Output.RiceKg.Div(bagWeight).IntPart()),
		BagWeightKg: bagWeight,
		UnitPrice:   in.PricePerKg,
		StorageBin:  in.StorageBin,
		ExpiryDate:  expiry,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.finished.Create(ctx, lot); err != nil {
		return nil, nil, fmt.Errorf("create finished goods lot: %w", err)
	}

	notify.BestEffort(uc.log, "batch completion ledger entry", func() error {
		_, err := uc.ledger.RecordMovement(ctx, inventory.RecordMovementInput{
			Type:       entity.MovementIN,
			ProductSKU: lot.SKU,
			QtyKg:      in.Output.RiceKg,
			RefType:    entity.RefProduction,
			RefID:      batch.ID,
			Reason:     "Milled rice produced",
			CreatedBy:  in.CompletedBy,
		})
		return err
	})

	notify.BestEffort(uc.log, "production completed notification", func() error {
		return uc.notifier.Notify(ctx, notify.Event{
			Kind:    "production_completed",
			Title:   "Batch completed",
			Message: fmt.Sprintf("Batch %s produced %skg of rice", batch.BatchNumber, in.Output.RiceKg),
			Meta:    map[string]string{"batchNumber": batch.BatchNumber},
		})
	})

	uc.log.Info().
		Str("batchNumber", batch.BatchNumber).
		Str("riceKg", in.Output.RiceKg.String()).
		Str("yieldPct", batch.YieldPct.StringFixed(2)).
		Msg("production batch completed")

	return batch, lot, nil
}

// Cancel aborts an in-progress batch and returns its paddy to the lot.
func (uc *UseCase) Cancel(ctx context.Context, batchID uuid.UUID, cancelledBy string) (*entity.ProductionBatch, error) {
	batch, err := uc.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, batchID)
	}
	if batch.Status != entity.BatchInProgress {
		return nil, fmt.Errorf("%w: batch %s is %s", domain.ErrConflict, batch.BatchNumber, batch.Status)
	}

	if err := uc.lots.RestoreQuantity(ctx, batch.LotID, batch.InputPaddyKg); err != nil {
		return nil, fmt.Errorf("restore paddy: %w", err)
	}

	batch.Status = entity.BatchCancelled
	batch.UpdatedAt = time.Now()
	if err := uc.batches.Update(ctx, batch); err != nil {
		return nil, fmt.Errorf("update batch: %w", err)
	}

	notify.BestEffort(uc.log, "batch cancel ledger entry", func() error {
		_, err := uc.ledger.RecordMovement(ctx, inventory.RecordMovementInput{
			Type:       entity.MovementIN,
			ProductSKU: batch.LotSKU,
			QtyKg:      batch.InputPaddyKg,
			RefType:    entity.RefProduction,
			RefID:      batch.ID,
			Reason:     "Batch cancelled, paddy returned",
			CreatedBy:  cancelledBy,
		})
		return err
	})

	uc.log.Info().Str("batchNumber", batch.BatchNumber).Msg("production batch cancelled")
	return batch, nil
}

// Get returns one batch.
func (uc *UseCase) Get(ctx context.Context, id uuid.UUID) (*entity.ProductionBatch, error) {
	batch, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: batch %s", domain.ErrNotFound, id)
	}
	return batch, nil
}

// List returns batches matching the filter, newest first.
func (uc *UseCase) List(ctx context.Context, f repository.BatchFilter) ([]entity.ProductionBatch, error) {
	return uc.batches.List(ctx, f)
}
