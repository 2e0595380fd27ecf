// Package inventory implements the append-only stock ledger. Every
// physical movement of paddy or rice lands here as an immutable row;
// balances are always derived by folding the ledger.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

type UseCase struct {
	movements repository.StockMovementRepository
	log       *logger.Logger
}

func NewUseCase(movements repository.StockMovementRepository, log *logger.Logger) *UseCase {
	return &UseCase{movements: movements, log: log}
}

// RecordMovementInput describes one ledger entry. QtyKg is a
// magnitude for IN and OUT; ADJUST accepts a signed quantity.
type RecordMovementInput struct {
	Type       entity.MovementType
	ProductSKU string
	QtyKg      decimal.Decimal
	FromBin    string
	ToBin      string
	RefType    entity.ReferenceType
	RefID      uuid.UUID
	Reason     string
	UnitCost   decimal.Decimal
	CreatedBy  string
}

func (in RecordMovementInput) validate() error {
	switch {
	case !in.Type.Valid():
		return fmt.Errorf("%w: movement type %q", domain.ErrInvalidInput, in.Type)
	case in.ProductSKU == "":
		return fmt.Errorf("%w: product sku is required", domain.ErrInvalidInput)
	case in.Type == entity.MovementADJUST && in.QtyKg.IsZero():
		return fmt.Errorf("%w: adjustment quantity cannot be zero", domain.ErrInvalidInput)
	case in.Type != entity.MovementADJUST && !in.QtyKg.IsPositive():
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	case !in.RefType.Valid():
		return fmt.Errorf("%w: reference type %q", domain.ErrInvalidInput, in.RefType)
	case in.UnitCost.IsNegative():
		return fmt.Errorf("%w: unit cost cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

// RecordMovement appends one entry to the ledger. TotalCost is derived
// here so callers cannot store an inconsistent figure.
func (uc *UseCase) RecordMovement(ctx context.Context, in RecordMovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	m := &entity.StockMovement{
		ID:         uuid.New(),
		Type:       in.Type,
		ProductSKU: in.ProductSKU,
		QtyKg:      in.QtyKg,
		FromBin:    in.FromBin,
		ToBin:      in.ToBin,
		RefType:    in.RefType,
		RefID:      in.RefID,
		Reason:     in.Reason,
		UnitCost:   in.UnitCost,
		TotalCost:  in.UnitCost.Mul(in.QtyKg),
		CreatedBy:  in.CreatedBy,
		CreatedAt:  time.Now(),
	}

	if err := uc.movements.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}

	uc.log.Debug().
		Str("sku", m.ProductSKU).
		Str("type", string(m.Type)).
		Str("qtyKg", m.QtyKg.String()).
		Msg("stock movement recorded")

	return m, nil
}

// BalanceAsOf returns the derived balance of a product at an instant.
func (uc *UseCase) BalanceAsOf(ctx context.Context, productSKU string, asOf time.Time) (decimal.Decimal, error) {
	if productSKU == "" {
		return decimal.Zero, fmt.Errorf("%w: product sku is required", domain.ErrInvalidInput)
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	bal, err := uc.movements.BalanceAsOf(ctx, productSKU, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance as of: %w", err)
	}
	return bal, nil
}

// History lists a product's movements, newest first.
func (uc *UseCase) History(ctx context.Context, productSKU string, limit int) ([]entity.StockMovement, error) {
	if productSKU == "" {
		return nil, fmt.Errorf("%w: product sku is required", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.movements.ListByProduct(ctx, productSKU, limit)
}

// MovementsByReference returns the audit trail of one document,
// oldest first.
func (uc *UseCase) MovementsByReference(ctx context.Context, refType entity.ReferenceType, refID uuid.UUID) ([]entity.StockMovement, error) {
	if !refType.Valid() {
		return nil, fmt.Errorf("%w: reference type %q", domain.ErrInvalidInput, refType)
	}
	return uc.movements.ListByReference(ctx, refType, refID)
}

// AdjustmentInput is a manual stock correction.
type AdjustmentInput struct {
	ProductSKU string
	QtyKg      decimal.Decimal
	Reason     string
	CreatedBy  string
}

// CreateAdjustment records a manual ADJUST entry. A reason is
// mandatory: adjustments without an explanation are how ledgers rot.
func (uc *UseCase) CreateAdjustment(ctx context.Context, in AdjustmentInput) (*entity.StockMovement, error) {
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", domain.ErrInvalidInput)
	}
	return uc.RecordMovement(ctx, RecordMovementInput{
		Type:       entity.MovementADJUST,
		ProductSKU: in.ProductSKU,
		QtyKg:      in.QtyKg,
		RefType:    entity.RefAdjustment,
		RefID:      uuid.New(),
		Reason:     in.Reason,
		CreatedBy:  in.CreatedBy,
	})
}
