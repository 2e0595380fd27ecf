package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmgmill/ricemill-api/internal/application/inventory"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

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

func (r *fakeMovementRepo) ListByProduct(_ context.Context, sku string, limit int) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ProductSKU == sku {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
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

func newUseCase() (*inventory.UseCase, *fakeMovementRepo) {
	repo := &fakeMovementRepo{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return inventory.NewUseCase(repo, log), repo
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordMovement_DerivesTotalCost(t *testing.T) {
	uc, _ := newUseCase()

	m, err := uc.RecordMovement(context.Background(), inventory.RecordMovementInput{
		Type:       entity.MovementIN,
		ProductSKU: "RM-PO-2025-0001",
		QtyKg:      dec("5000"),
		RefType:    entity.RefPurchase,
		RefID:      uuid.New(),
		UnitCost:   dec("95"),
		CreatedBy:  "user-1",
	})
	require.NoError(t, err)
	assert.True(t, m.TotalCost.Equal(dec("475000")))
}

func TestRecordMovement_Validation(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.RecordMovementInput
	}{
		{"bad type", inventory.RecordMovementInput{Type: "SIDEWAYS", ProductSKU: "X", QtyKg: dec("1"), RefType: entity.RefPurchase}},
		{"missing sku", inventory.RecordMovementInput{Type: entity.MovementIN, QtyKg: dec("1"), RefType: entity.RefPurchase}},
		{"zero qty for IN", inventory.RecordMovementInput{Type: entity.MovementIN, ProductSKU: "X", RefType: entity.RefPurchase}},
		{"negative qty for OUT", inventory.RecordMovementInput{Type: entity.MovementOUT, ProductSKU: "X", QtyKg: dec("-5"), RefType: entity.RefSale}},
		{"zero adjustment", inventory.RecordMovementInput{Type: entity.MovementADJUST, ProductSKU: "X", RefType: entity.RefAdjustment}},
		{"bad ref type", inventory.RecordMovementInput{Type: entity.MovementIN, ProductSKU: "X", QtyKg: dec("1"), RefType: "unknown"}},
		{"negative unit cost", inventory.RecordMovementInput{Type: entity.MovementIN, ProductSKU: "X", QtyKg: dec("1"), RefType: entity.RefPurchase, UnitCost: dec("-1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBalance_FoldsTheLedger(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	sku := "FG-BATCH-2025-0001"

	record := func(typ entity.MovementType, qty string, refType entity.ReferenceType) {
		t.Helper()
		_, err := uc.RecordMovement(ctx, inventory.RecordMovementInput{
			Type: typ, ProductSKU: sku, QtyKg: dec(qty), RefType: refType, RefID: uuid.New(),
		})
		require.NoError(t, err)
	}

	record(entity.MovementIN, "1300", entity.RefProduction)
	record(entity.MovementOUT, "500", entity.RefSale)
	// Negative adjustment after a recount.
	_, err := uc.CreateAdjustment(ctx, inventory.AdjustmentInput{
		ProductSKU: sku,
		QtyKg:      dec("-25"),
		Reason:     "weighbridge recount",
	})
	require.NoError(t, err)

	bal, err := uc.BalanceAsOf(ctx, sku, time.Now())
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("775")), "1300 - 500 - 25, got %s", bal)
}

func TestCreateAdjustment_RequiresReason(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.CreateAdjustment(context.Background(), inventory.AdjustmentInput{
		ProductSKU: "X",
		QtyKg:      dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBalance_RequiresSKU(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.BalanceAsOf(context.Background(), "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
