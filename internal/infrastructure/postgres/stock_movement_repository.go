package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persists the append-only ledger. There is no
// UPDATE or DELETE statement in this file on purpose.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, type, product_sku, qty_kg, from_bin, to_bin, ref_type, ref_id,
			 reason, unit_cost, total_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ProductSKU, m.QtyKg, m.FromBin, m.ToBin, m.RefType, m.RefID,
		m.Reason, m.UnitCost, m.TotalCost, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) BalanceAsOf(ctx context.Context, productSKU string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE type
				WHEN 'IN' THEN qty_kg
				WHEN 'ADJUST' THEN qty_kg
				ELSE -qty_kg
			END), 0)
		FROM stock_movements
		WHERE product_sku = $1 AND created_at <= $2`
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productSKU, asOf).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("stock balance: %w", err)
	}
	return balance, nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productSKU string, limit int) ([]entity.StockMovement, error) {
	query := selectMovements + `
		WHERE product_sku = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, productSKU, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (r *StockMovementRepo) ListByReference(ctx context.Context, refType entity.ReferenceType, refID uuid.UUID) ([]entity.StockMovement, error) {
	query := selectMovements + `
		WHERE ref_type = $1 AND ref_id = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

const selectMovements = `
	SELECT id, type, product_sku, qty_kg, from_bin, to_bin, ref_type, ref_id,
	       reason, unit_cost, total_cost, created_by, created_at
	FROM stock_movements`

func scanMovements(rows pgx.Rows) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.Type, &m.ProductSKU, &m.QtyKg, &m.FromBin, &m.ToBin, &m.RefType, &m.RefID,
			&m.Reason, &m.UnitCost, &m.TotalCost, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
