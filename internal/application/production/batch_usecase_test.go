package production_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/application/notify"
	"github.com/kmgmill/ricemill-api/internal/application/numbering"
	"github.com/kmgmill/ricemill-api/internal/application/production"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeBatchRepo struct {
	batches map[uuid.UUID]*entity.ProductionBatch
	deleted []uuid.UUID
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[uuid.UUID]*entity.ProductionBatch)}
}

func (r *fakeBatchRepo) Create(_ context.Context, b *entity.ProductionBatch) error {
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ProductionBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBatchRepo) Update(_ context.Context, b *entity.ProductionBatch) error {
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeBatchRepo) List(_ context.Context, _ repository.BatchFilter) ([]entity.ProductionBatch, error) {
	out := make([]entity.ProductionBatch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, *b)
	}
	return out, nil
}

type fakeLotRepo struct {
	lots        map[uuid.UUID]*entity.RawMaterialLot
	failReserve bool
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]*entity.RawMaterialLot)}
}

func (r *fakeLotRepo) Create(_ context.Context, lot *entity.RawMaterialLot) error {
	cp := *lot
	r.lots[lot.ID] = &cp
	return nil
}

func (r *fakeLotRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RawMaterialLot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *fakeLotRepo) GetBySKU(_ context.Context, sku string) (*entity.RawMaterialLot, error) {
	for _, lot := range r.lots {
		if lot.SKU == sku {
			cp := *lot
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) List(_ context.Context) ([]entity.RawMaterialLot, error) {
	out := make([]entity.RawMaterialLot, 0, len(r.lots))
	for _, lot := range r.lots {
		out = append(out, *lot)
	}
	return out, nil
}

func (r *fakeLotRepo) ReserveQuantity(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	if r.failReserve {
		return fmt.Errorf("%w: concurrent reservation", domain.ErrInsufficientStock)
	}
	lot, ok := r.lots[id]
	if !ok || lot.Status != entity.LotAvailable || lot.QuantityKg.LessThan(qty) {
		return fmt.Errorf("%w: lot %s", domain.ErrInsufficientStock, id)
	}
	lot.QuantityKg = lot.QuantityKg.Sub(qty)
	if !lot.QuantityKg.IsPositive() {
		lot.Status = entity.LotUsed
	}
	return nil
}

func (r *fakeLotRepo) RestoreQuantity(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	lot, ok := r.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.QuantityKg = lot.QuantityKg.Add(qty)
	lot.Status = entity.LotAvailable
	return nil
}

type fakeFinishedRepo struct {
	lots map[uuid.UUID]*entity.FinishedGoodsLot
}

func newFakeFinishedRepo() *fakeFinishedRepo {
	return &fakeFinishedRepo{lots: make(map[uuid.UUID]*entity.FinishedGoodsLot)}
}

func (r *fakeFinishedRepo) Create(_ context.Context, lot *entity.FinishedGoodsLot) error {
	cp := *lot
	r.lots[lot.ID] = &cp
	return nil
}

func (r *fakeFinishedRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.FinishedGoodsLot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *fakeFinishedRepo) GetBySKU(_ context.Context, sku string) (*entity.FinishedGoodsLot, error) {
	for _, lot := range r.lots {
		if lot.SKU == sku {
			cp := *lot
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFinishedRepo) List(_ context.Context) ([]entity.FinishedGoodsLot, error) {
	out := make([]entity.FinishedGoodsLot, 0, len(r.lots))
	for _, lot := range r.lots {
		out = append(out, *lot)
	}
	return out, nil
}

func (r *fakeFinishedRepo) UpdateWeight(_ context.Context, id uuid.UUID, weightKg decimal.Decimal) error {
	lot, ok := r.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.WeightKg = weightKg
	return nil
}

type fakeSettingsRepo struct{}

func (fakeSettingsRepo) Get(_ context.Context) (entity.MillSettings, error) {
	return entity.DefaultSettings(), nil
}

type fakeSequenceRepo struct {
	counters map[string]int
}

func (r *fakeSequenceRepo) Next(_ context.Context, docType string, _ int) (int, error) {
	if r.counters == nil {
		r.counters = make(map[string]int)
	}
	r.counters[docType]++
	return r.counters[docType], nil
}

type fakeMovementRepo struct {
	movements []entity.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) BalanceAsOf(_ context.Context, sku string, asOf time.Time) (decimal.Decimal, error) {
	bal := decimal.Zero
	for _, m := range r.movements {
		if m.ProductSKU != sku || m.CreatedAt.After(asOf) {
			continue
		}
		switch m.Type {
		case entity.MovementOUT:
			bal = bal.Sub(m.QtyKg)
		default:
			bal = bal.Add(m.QtyKg)
		}
	}
	return bal, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, sku string, _ int) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ProductSKU == sku {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByReference(_ context.Context, refType entity.ReferenceType, refID uuid.UUID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (n *fakeNotifier) Notify(_ context.Context, e notify.Event) error {
	n.events = append(n.events, e)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Harness
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	uc        *production.UseCase
	batches   *fakeBatchRepo
	lots      *fakeLotRepo
	finished  *fakeFinishedRepo
	movements *fakeMovementRepo
	notifier  *fakeNotifier
}

func newHarness() *harness {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	h := &harness{
		batches:   newFakeBatchRepo(),
		lots:      newFakeLotRepo(),
		finished:  newFakeFinishedRepo(),
		movements: &fakeMovementRepo{},
		notifier:  &fakeNotifier{},
	}
	ledger := inventory.NewUseCase(h.movements, log)
	numbers := numbering.NewGenerator(&fakeSequenceRepo{})
	h.uc = production.NewUseCase(h.batches, h.lots, h.finished, fakeSettingsRepo{}, numbers, ledger, h.notifier, log)
	return h
}

func (h *harness) seedLot(t *testing.T, qtyKg int64) *entity.RawMaterialLot {
	t.Helper()
	lot := &entity.RawMaterialLot{
		ID:         uuid.New(),
		SKU:        "RM-PO-2025-0001",
		Name:       "Nadu Paddy - standard",
		PaddyType:  "nadu",
		Grade:      "standard",
		QuantityKg: decimal.NewFromInt(qtyKg),
		UnitCost:   decimal.NewFromInt(95),
		Status:     entity.LotAvailable,
	}
	require.NoError(t, h.lots.Create(context.Background(), lot))
	return lot
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Start
// ──────────────────────────────────────────────────────────────────────────────

func TestStartBatch_ReservesPaddy(t *testing.T) {
	h := newHarness()
	lot := h.seedLot(t, 5000)

	batch, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        lot.ID,
		InputPaddyKg: dec("2000"),
		OperatorID:   "op-1",
		CreatedBy:    "user-1",
	})
	require.NoError(t, err)

	wantNumber := fmt.Sprintf("BATCH-%d-0001", time.Now().Year())
	assert.Equal(t, wantNumber, batch.BatchNumber)
	assert.Equal(t, entity.BatchInProgress, batch.Status)
	assert.Equal(t, lot.SKU, batch.LotSKU)
	assert.Equal(t, "nadu", batch.PaddyType)

	stored, _ := h.lots.GetByID(context.Background(), lot.ID)
	assert.True(t, stored.QuantityKg.Equal(dec("3000")),
		"lot should be drawn down by the reserved paddy")

	require.Len(t, h.movements.movements, 1)
	assert.Equal(t, entity.MovementOUT, h.movements.movements[0].Type)
	assert.Equal(t, lot.SKU, h.movements.movements[0].ProductSKU)
}

func TestStartBatch_InsufficientStock(t *testing.T) {
	h := newHarness()
	lot := h.seedLot(t, 500)

	_, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        lot.ID,
		InputPaddyKg: dec("2000"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, h.batches.batches, "no batch should survive a failed reservation")
}

func TestStartBatch_CompensatesWhenReservationLosesRace(t *testing.T) {
	h := newHarness()
	lot := h.seedLot(t, 5000)
	h.lots.failReserve = true

	_, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        lot.ID,
		InputPaddyKg: dec("2000"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, h.batches.deleted, 1, "the created batch must be deleted again")
	assert.Empty(t, h.batches.batches)
}

func TestStartBatch_UnknownLot(t *testing.T) {
	h := newHarness()
	_, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        uuid.New(),
		InputPaddyKg: dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete
// ──────────────────────────────────────────────────────────────────────────────

func startedBatch(t *testing.T, h *harness, inputKg string) *entity.ProductionBatch {
	t.Helper()
	lot := h.seedLot(t, 10000)
	batch, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        lot.ID,
		InputPaddyKg: dec(inputKg),
	})
	require.NoError(t, err)
	return batch
}

func TestCompleteBatch_WithinTolerance(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	done, fg, err := h.uc.Complete(context.Background(), production.CompleteBatchInput{
		BatchID: batch.ID,
		Output: entity.BatchOutput{
			RiceKg:       dec("650"),
			BrokenRiceKg: dec("50"),
			HuskKg:       dec("200"),
			BranKg:       dec("95"),
			ImpurityKg:   dec("5"),
		},
		PricePerKg:  dec("230"),
		CompletedBy: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BatchCompleted, done.Status)
	assert.True(t, done.YieldPct.Equal(dec("65")), "yield = rice/input*100, got %s", done.YieldPct)
	require.NotNil(t, done.CompletedAt)

	assert.Equal(t, "FG-"+batch.BatchNumber, fg.SKU)
	assert.True(t, fg.WeightKg.Equal(dec("650")))
	assert.Equal(t, 13, fg.BagCount, "650kg in 50kg bags")
	assert.True(t, fg.UnitPrice.Equal(dec("230")))
	assert.Equal(t, "standard", fg.RiceGrade)
}

func TestCompleteBatch_OutputSlightlyOverInputAllowed(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	// 1040kg total against 1000kg input is inside the 5% tolerance;
	// moisture makes small overshoots normal.
	_, _, err := h.uc.Complete(context.Background(), production.CompleteBatchInput{
		BatchID: batch.ID,
		Output: entity.BatchOutput{
			RiceKg:       dec("700"),
			BrokenRiceKg: dec("40"),
			HuskKg:       dec("200"),
			BranKg:       dec("100"),
		},
	})
	assert.NoError(t, err)
}

func TestCompleteBatch_MassBalanceViolation(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	_, _, err := h.uc.Complete(context.Background(), production.CompleteBatchInput{
		BatchID: batch.ID,
		Output: entity.BatchOutput{
			RiceKg:       dec("700"),
			BrokenRiceKg: dec("50"),
			HuskKg:       dec("200"),
			BranKg:       dec("100"),
			ImpurityKg:   dec("10"),
		},
	})
	require.Error(t, err)

	var mbe *domain.MassBalanceError
	require.True(t, errors.As(err, &mbe))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Total output (1060.00kg) exceeds input (1000kg) by more than 5%", mbe.Error())

	stored, _ := h.batches.GetByID(context.Background(), batch.ID)
	assert.Equal(t, entity.BatchInProgress, stored.Status, "a rejected completion leaves the batch open")
}

func TestCompleteBatch_AlreadyCompleted(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	in := production.CompleteBatchInput{
		BatchID: batch.ID,
		Output:  entity.BatchOutput{RiceKg: dec("650")},
	}
	_, _, err := h.uc.Complete(context.Background(), in)
	require.NoError(t, err)

	_, _, err = h.uc.Complete(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestCompleteBatch_NegativeOutputRejected(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	_, _, err := h.uc.Complete(context.Background(), production.CompleteBatchInput{
		BatchID: batch.ID,
		Output:  entity.BatchOutput{RiceKg: dec("-10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelBatch_RestoresPaddy(t *testing.T) {
	h := newHarness()
	lot := h.seedLot(t, 5000)
	batch, err := h.uc.Start(context.Background(), production.StartBatchInput{
		LotID:        lot.ID,
		InputPaddyKg: dec("2000"),
	})
	require.NoError(t, err)

	cancelled, err := h.uc.Cancel(context.Background(), batch.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchCancelled, cancelled.Status)

	stored, _ := h.lots.GetByID(context.Background(), lot.ID)
	assert.True(t, stored.QuantityKg.Equal(dec("5000")), "paddy must be returned in full")
	assert.Equal(t, entity.LotAvailable, stored.Status)
}

func TestCancelBatch_OnlyInProgress(t *testing.T) {
	h := newHarness()
	batch := startedBatch(t, h, "1000")

	_, _, err := h.uc.Complete(context.Background(), production.CompleteBatchInput{
		BatchID: batch.ID,
		Output:  entity.BatchOutput{RiceKg: dec("650")},
	})
	require.NoError(t, err)

	_, err = h.uc.Cancel(context.Background(), batch.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
