package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

type RawMaterialRepo struct {
	q Querier
}

func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

const selectLot = `
	SELECT id, sku, name, paddy_type, grade, quantity_kg, unit_cost,
	       minimum_stock_kg, status, storage_bin, created_by, created_at, updated_at
	FROM raw_material_lots`

func (r *RawMaterialRepo) Create(ctx context.Context, lot *entity.RawMaterialLot) error {
	query := `
		INSERT INTO raw_material_lots
			(id, sku, name, paddy_type, grade, quantity_kg, unit_cost,
			 minimum_stock_kg, status, storage_bin, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.SKU, lot.Name, lot.PaddyType, lot.Grade, lot.QuantityKg, lot.UnitCost,
		lot.MinimumStockKg, lot.Status, lot.StorageBin, lot.CreatedBy, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lot sku %s already exists", domain.ErrConflict, lot.SKU)
		}
		return fmt.Errorf("insert raw material lot: %w", err)
	}
	return nil
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterialLot, error) {
	return r.getOne(ctx, selectLot+` WHERE id = $1`, id)
}

func (r *RawMaterialRepo) GetBySKU(ctx context.Context, sku string) (*entity.RawMaterialLot, error) {
	return r.getOne(ctx, selectLot+` WHERE sku = $1`, sku)
}

func (r *RawMaterialRepo) getOne(ctx context.Context, query string, arg any) (*entity.RawMaterialLot, error) {
	var lot entity.RawMaterialLot
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&lot.ID, &lot.SKU, &lot.Name, &lot.PaddyType, &lot.Grade, &lot.QuantityKg, &lot.UnitCost,
		&lot.MinimumStockKg, &lot.Status, &lot.StorageBin, &lot.CreatedBy, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material lot: %w", err)
	}
	return &lot, nil
}

func (r *RawMaterialRepo) List(ctx context.Context) ([]entity.RawMaterialLot, error) {
	rows, err := r.q.Query(ctx, selectLot+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list raw material lots: %w", err)
	}
	defer rows.Close()

	var out []entity.RawMaterialLot
	for rows.Next() {
		var lot entity.RawMaterialLot
		if err := rows.Scan(
			&lot.ID, &lot.SKU, &lot.Name, &lot.PaddyType, &lot.Grade, &lot.QuantityKg, &lot.UnitCost,
			&lot.MinimumStockKg, &lot.Status, &lot.StorageBin, &lot.CreatedBy, &lot.CreatedAt, &lot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan raw material lot: %w", err)
		}
		out = append(out, lot)
	}
	return out, rows.Err()
}

// ReserveQuantity decrements atomically. The WHERE guard makes the
// race with concurrent reservations impossible: either this statement
// sees enough stock and wins, or it affects zero rows.
func (r *RawMaterialRepo) ReserveQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	query := `
		UPDATE raw_material_lots
		SET quantity_kg = quantity_kg - $2,
		    status = CASE WHEN quantity_kg - $2 <= 0 THEN 'used' ELSE status END,
		    updated_at = now()
		WHERE id = $1 AND status = 'available' AND quantity_kg >= $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("reserve lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *RawMaterialRepo) RestoreQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	query := `
		UPDATE raw_material_lots
		SET quantity_kg = quantity_kg + $2,
		    status = 'available',
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("restore lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: raw material lot %s", domain.ErrNotFound, id)
	}
	return nil
}
