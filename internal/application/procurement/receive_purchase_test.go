package procurement_test

import (
	"context"
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
	"github.com/kmgmill/ricemill-api/internal/application/procurement"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakePurchaseRepo struct {
	purchases []entity.Purchase
}

func (r *fakePurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.purchases = append(r.purchases, *p)
	return nil
}

func (r *fakePurchaseRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Purchase, error) {
	for _, p := range r.purchases {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePurchaseRepo) List(_ context.Context, _ repository.PurchaseFilter) ([]entity.Purchase, error) {
	return append([]entity.Purchase(nil), r.purchases...), nil
}

func (r *fakePurchaseRepo) Summary(_ context.Context, _, _ time.Time) (repository.PurchaseSummary, error) {
	var s repository.PurchaseSummary
	for _, p := range r.purchases {
		s.PurchaseCount++
		net, _ := p.NetWeightKg.Float64()
		amt, _ := p.TotalAmount.Float64()
		s.TotalNetKg += net
		s.TotalAmount += amt
	}
	return s, nil
}

type fakeLotRepo struct {
	lots []entity.RawMaterialLot
}

func (r *fakeLotRepo) Create(_ context.Context, lot *entity.RawMaterialLot) error {
	r.lots = append(r.lots, *lot)
	return nil
}

func (r *fakeLotRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.RawMaterialLot, error) {
	for _, lot := range r.lots {
		if lot.ID == id {
			cp := lot
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) GetBySKU(_ context.Context, sku string) (*entity.RawMaterialLot, error) {
	for _, lot := range r.lots {
		if lot.SKU == sku {
			cp := lot
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLotRepo) List(_ context.Context) ([]entity.RawMaterialLot, error) {
	return append([]entity.RawMaterialLot(nil), r.lots...), nil
}

func (r *fakeLotRepo) ReserveQuantity(_ context.Context, _ uuid.UUID, _ decimal.Decimal) error {
	return nil
}

func (r *fakeLotRepo) RestoreQuantity(_ context.Context, _ uuid.UUID, _ decimal.Decimal) error {
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

func (r *fakeMovementRepo) BalanceAsOf(_ context.Context, _ string, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, _ string, _ int) ([]entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListByReference(_ context.Context, _ entity.ReferenceType, _ uuid.UUID) ([]entity.StockMovement, error) {
	return nil, nil
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
	uc        *procurement.UseCase
	purchases *fakePurchaseRepo
	lots      *fakeLotRepo
	movements *fakeMovementRepo
	notifier  *fakeNotifier
}

func newHarness() *harness {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	h := &harness{
		purchases: &fakePurchaseRepo{},
		lots:      &fakeLotRepo{},
		movements: &fakeMovementRepo{},
		notifier:  &fakeNotifier{},
	}
	ledger := inventory.NewUseCase(h.movements, log)
	numbers := numbering.NewGenerator(&fakeSequenceRepo{})
	h.uc = procurement.NewUseCase(h.purchases, h.lots, fakeSettingsRepo{}, numbers, ledger, h.notifier, log)
	return h
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func validInput() procurement.ReceivePurchaseInput {
	return procurement.ReceivePurchaseInput{
		SupplierID:    "sup-1",
		SupplierName:  "Perera Farms",
		PaddyType:     "nadu",
		GrossWeightKg: dec("5250"),
		TareWeightKg:  dec("250"),
		MoisturePct:   dec("13.5"),
		PricePerKg:    dec("95"),
		TransportCost: dec("4500"),
		UnloadingCost: dec("1500"),
		StorageBin:    "BIN-A1",
		CreatedBy:     "user-1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_DerivesWeightAndTotals(t *testing.T) {
	h := newHarness()

	purchase, lot, err := h.uc.Receive(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, purchase.NetWeightKg.Equal(dec("5000")), "net = gross - tare")
	// 95 * 5000 + 4500 + 1500
	assert.True(t, purchase.TotalAmount.Equal(dec("481000")), "got %s", purchase.TotalAmount)
	assert.Equal(t, entity.PurchaseReceived, purchase.Status)
	assert.Equal(t, "standard", purchase.Grade, "grade defaults from settings")

	wantPO := fmt.Sprintf("PO-%d-0001", time.Now().Year())
	assert.Equal(t, wantPO, purchase.PONumber)
	assert.Equal(t, "RM-"+wantPO, purchase.LotSKU)

	assert.Equal(t, purchase.LotSKU, lot.SKU)
	assert.Equal(t, "nadu Paddy - standard", lot.Name)
	assert.True(t, lot.QuantityKg.Equal(dec("5000")))
	assert.Equal(t, entity.LotAvailable, lot.Status)
}

func TestReceive_NumbersAreSequential(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	year := time.Now().Year()
	for i := 1; i <= 11; i++ {
		p, _, err := h.uc.Receive(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-%04d", year, i), p.PONumber)
	}
}

func TestReceive_AppendsLedgerEntry(t *testing.T) {
	h := newHarness()

	_, lot, err := h.uc.Receive(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, h.movements.movements, 1)
	m := h.movements.movements[0]
	assert.Equal(t, entity.MovementIN, m.Type)
	assert.Equal(t, lot.SKU, m.ProductSKU)
	assert.True(t, m.QtyKg.Equal(dec("5000")))
	assert.True(t, m.TotalCost.Equal(dec("475000")), "total cost = unit cost x qty")
}

func TestReceive_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*procurement.ReceivePurchaseInput)
	}{
		{"missing paddy type", func(in *procurement.ReceivePurchaseInput) { in.PaddyType = "" }},
		{"zero gross weight", func(in *procurement.ReceivePurchaseInput) { in.GrossWeightKg = decimal.Zero }},
		{"tare above gross", func(in *procurement.ReceivePurchaseInput) { in.TareWeightKg = dec("6000") }},
		{"zero price", func(in *procurement.ReceivePurchaseInput) { in.PricePerKg = decimal.Zero }},
		{"negative transport", func(in *procurement.ReceivePurchaseInput) { in.TransportCost = dec("-1") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, _, err := h.uc.Receive(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSummary_RejectsInvertedWindow(t *testing.T) {
	h := newHarness()
	from := time.Now()
	to := from.AddDate(0, 0, -7)
	_, err := h.uc.Summary(context.Background(), from, to)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
