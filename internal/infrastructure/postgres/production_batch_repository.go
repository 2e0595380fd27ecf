package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.ProductionBatchRepository = (*ProductionBatchRepo)(nil)

type ProductionBatchRepo struct {
	q Querier
}

func NewProductionBatchRepository(q Querier) *ProductionBatchRepo {
	return &ProductionBatchRepo{q: q}
}

const selectBatch = `
	SELECT id, batch_number, lot_id, lot_sku, paddy_type, input_paddy_kg,
	       output_rice_kg, output_broken_kg, output_husk_kg, output_bran_kg,
	       output_impurity_kg, yield_pct, status, operator_id, notes,
	       started_at, completed_at, created_by, created_at, updated_at
	FROM production_batches`

func (r *ProductionBatchRepo) Create(ctx context.Context, b *entity.ProductionBatch) error {
	query := `
		INSERT INTO production_batches
			(id, batch_number, lot_id, lot_sku, paddy_type, input_paddy_kg,
			 output_rice_kg, output_broken_kg, output_husk_kg, output_bran_kg,
			 output_impurity_kg, yield_pct, status, operator_id, notes,
			 started_at, completed_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.BatchNumber, b.LotID, b.LotSKU, b.PaddyType, b.InputPaddyKg,
		b.Output.RiceKg, b.Output.BrokenRiceKg, b.Output.HuskKg, b.Output.BranKg,
		b.Output.ImpurityKg, b.YieldPct, b.Status, b.OperatorID, b.Notes,
		b.StartedAt, b.CompletedAt, b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: batch number %s already exists", domain.ErrConflict, b.BatchNumber)
		}
		return fmt.Errorf("insert production batch: %w", err)
	}
	return nil
}

func (r *ProductionBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductionBatch, error) {
	var b entity.ProductionBatch
	err := r.q.QueryRow(ctx, selectBatch+` WHERE id = $1`, id).Scan(
		&b.ID, &b.BatchNumber, &b.LotID, &b.LotSKU, &b.PaddyType, &b.InputPaddyKg,
		&b.Output.RiceKg, &b.Output.BrokenRiceKg, &b.Output.HuskKg, &b.Output.BranKg,
		&b.Output.ImpurityKg, &b.YieldPct, &b.Status, &b.OperatorID, &b.Notes,
		&b.StartedAt, &b.CompletedAt, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production batch: %w", err)
	}
	return &b, nil
}

func (r *ProductionBatchRepo) Update(ctx context.Context, b *entity.ProductionBatch) error {
	query := `
		UPDATE production_batches
		SET output_rice_kg = $2, output_broken_kg = $3, output_husk_kg = $4,
		    output_bran_kg = $5, output_impurity_kg = $6, yield_pct = $7,
		    status = $8, notes = $9, completed_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Output.RiceKg, b.Output.BrokenRiceKg, b.Output.HuskKg,
		b.Output.BranKg, b.Output.ImpurityKg, b.YieldPct, b.Status, b.Notes,
		b.CompletedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: production batch %s", domain.ErrNotFound, b.ID)
	}
	return nil
}

func (r *ProductionBatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM production_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete production batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: production batch %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ProductionBatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]entity.ProductionBatch, error) {
	query := selectBatch + ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, i)
		args = append(args, f.Status)
		i++
	}
	if !f.DateFrom.IsZero() {
		query += fmt.Sprintf(` AND created_at >= $%d`, i)
		args = append(args, f.DateFrom)
		i++
	}
	if !f.DateTo.IsZero() {
		query += fmt.Sprintf(` AND created_at <= $%d`, i)
		args = append(args, f.DateTo)
		i++
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, i)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production batches: %w", err)
	}
	defer rows.Close()

	var out []entity.ProductionBatch
	for rows.Next() {
		var b entity.ProductionBatch
		if err := rows.Scan(
			&b.ID, &b.BatchNumber, &b.LotID, &b.LotSKU, &b.PaddyType, &b.InputPaddyKg,
			&b.Output.RiceKg, &b.Output.BrokenRiceKg, &b.Output.HuskKg, &b.Output.BranKg,
			&b.Output.ImpurityKg, &b.YieldPct, &b.Status, &b.OperatorID, &b.Notes,
			&b.StartedAt, &b.CompletedAt, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan production batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
