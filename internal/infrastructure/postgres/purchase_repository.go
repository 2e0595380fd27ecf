package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const selectPurchase = `
	SELECT id, po_number, supplier_id, supplier_name, paddy_type, grade,
	       gross_weight_kg, tare_weight_kg, net_weight_kg, moisture_pct,
	       price_per_kg, transport_cost, unloading_cost, total_amount,
	       status, lot_sku, storage_bin, notes, received_at, created_by, created_at
	FROM purchases`

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases
			(id, po_number, supplier_id, supplier_name, paddy_type, grade,
			 gross_weight_kg, tare_weight_kg, net_weight_kg, moisture_pct,
			 price_per_kg, transport_cost, unloading_cost, total_amount,
			 status, lot_sku, storage_bin, notes, received_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.PONumber, p.SupplierID, p.SupplierName, p.PaddyType, p.Grade,
		p.GrossWeightKg, p.TareWeightKg, p.NetWeightKg, p.MoisturePct,
		p.PricePerKg, p.TransportCost, p.UnloadingCost, p.TotalAmount,
		p.Status, p.LotSKU, p.StorageBin, p.Notes, p.ReceivedAt, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: purchase number %s already exists", domain.ErrConflict, p.PONumber)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(ctx, selectPurchase+` WHERE id = $1`, id).Scan(
		&p.ID, &p.PONumber, &p.SupplierID, &p.SupplierName, &p.PaddyType, &p.Grade,
		&p.GrossWeightKg, &p.TareWeightKg, &p.NetWeightKg, &p.MoisturePct,
		&p.PricePerKg, &p.TransportCost, &p.UnloadingCost, &p.TotalAmount,
		&p.Status, &p.LotSKU, &p.StorageBin, &p.Notes, &p.ReceivedAt, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]entity.Purchase, error) {
	query := selectPurchase + ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, i)
		args = append(args, f.Status)
		i++
	}
	if f.SupplierID != "" {
		query += fmt.Sprintf(` AND supplier_id = $%d`, i)
		args = append(args, f.SupplierID)
		i++
	}
	if f.PaddyType != "" {
		query += fmt.Sprintf(` AND paddy_type = $%d`, i)
		args = append(args, f.PaddyType)
		i++
	}
	if !f.DateFrom.IsZero() {
		query += fmt.Sprintf(` AND received_at >= $%d`, i)
		args = append(args, f.DateFrom)
		i++
	}
	if !f.DateTo.IsZero() {
		query += fmt.Sprintf(` AND received_at <= $%d`, i)
		args = append(args, f.DateTo)
		i++
	}
	query += ` ORDER BY received_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, i)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(
			&p.ID, &p.PONumber, &p.SupplierID, &p.SupplierName, &p.PaddyType, &p.Grade,
			&p.GrossWeightKg, &p.TareWeightKg, &p.NetWeightKg, &p.MoisturePct,
			&p.PricePerKg, &p.TransportCost, &p.UnloadingCost, &p.TotalAmount,
			&p.Status, &p.LotSKU, &p.StorageBin, &p.Notes, &p.ReceivedAt, &p.CreatedBy, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PurchaseRepo) Summary(ctx context.Context, from, to time.Time) (repository.PurchaseSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(net_weight_kg), 0)::float8,
		       COALESCE(SUM(total_amount), 0)::float8,
		       COALESCE(AVG(price_per_kg), 0)::float8
		FROM purchases
		WHERE status <> 'cancelled'`
	args := []any{}
	if !from.IsZero() {
		query += ` AND received_at >= $1`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += fmt.Sprintf(` AND received_at <= $%d`, len(args)+1)
		args = append(args, to)
	}

	var s repository.PurchaseSummary
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.PurchaseCount, &s.TotalNetKg, &s.TotalAmount, &s.AvgPricePerKg,
	)
	if err != nil {
		return repository.PurchaseSummary{}, fmt.Errorf("purchase summary: %w", err)
	}
	return s, nil
}
