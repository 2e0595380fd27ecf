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

var _ repository.FinishedGoodsRepository = (*FinishedGoodsRepo)(nil)

type FinishedGoodsRepo struct {
	q Querier
}

func NewFinishedGoodsRepository(q Querier) *FinishedGoodsRepo {
	return &FinishedGoodsRepo{q: q}
}

const selectFinished = `
	SELECT id, sku, batch_id, paddy_type, rice_grade, weight_kg, bag_count,
	       bag_weight_kg, unit_price, storage_bin, expiry_date, created_at, updated_at
	FROM finished_goods_lots`

func (r *FinishedGoodsRepo) Create(ctx context.Context, lot *entity.FinishedGoodsLot) error {
	query := `
		INSERT INTO finished_goods_lots
			(id, sku, batch_id, paddy_type, rice_grade, weight_kg, bag_count,
			 bag_weight_kg, unit_price, storage_bin, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.SKU, lot.BatchID, lot.PaddyType, lot.RiceGrade, lot.WeightKg, lot.BagCount,
		lot.BagWeightKg, lot.UnitPrice, lot.StorageBin, lot.ExpiryDate, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: finished goods sku %s already exists", domain.ErrConflict, lot.SKU)
		}
		return fmt.Errorf("insert finished goods lot: %w", err)
	}
	return nil
}

func (r *FinishedGoodsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.FinishedGoodsLot, error) {
	return r.getOne(ctx, selectFinished+` WHERE id = $1`, id)
}

func (r *FinishedGoodsRepo) GetBySKU(ctx context.Context, sku string) (*entity.FinishedGoodsLot, error) {
	return r.getOne(ctx, selectFinished+` WHERE sku = $1`, sku)
}

func (r *FinishedGoodsRepo) getOne(ctx context.Context, query string, arg any) (*entity.FinishedGoodsLot, error) {
	var lot entity.FinishedGoodsLot
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&lot.ID, &lot.SKU, &lot.BatchID, &lot.PaddyType, &lot.RiceGrade, &lot.WeightKg, &lot.BagCount,
		&lot.BagWeightKg, &lot.UnitPrice, &lot.StorageBin, &lot.ExpiryDate, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get finished goods lot: %w", err)
	}
	return &lot, nil
}

func (r *FinishedGoodsRepo) List(ctx context.Context) ([]entity.FinishedGoodsLot, error) {
	rows, err := r.q.Query(ctx, selectFinished+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list finished goods lots: %w", err)
	}
	defer rows.Close()

	var out []entity.FinishedGoodsLot
	for rows.Next() {
		var lot entity.FinishedGoodsLot
		if err := rows.Scan(
			&lot.ID, &lot.SKU, &lot.BatchID, &lot.PaddyType, &lot.RiceGrade, &lot.WeightKg, &lot.BagCount,
			&lot.BagWeightKg, &lot.UnitPrice, &lot.StorageBin, &lot.ExpiryDate, &lot.CreatedAt, &lot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan finished goods lot: %w", err)
		}
		out = append(out, lot)
	}
	return out, rows.Err()
}

func (r *FinishedGoodsRepo) UpdateWeight(ctx context.Context, id uuid.UUID, weightKg decimal.Decimal) error {
	query := `
		UPDATE finished_goods_lots
		SET weight_kg = $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, weightKg)
	if err != nil {
		return fmt.Errorf("update finished goods weight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: finished goods lot %s", domain.ErrNotFound, id)
	}
	return nil
}
