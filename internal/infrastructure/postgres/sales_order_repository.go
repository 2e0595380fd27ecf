package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo stores orders with their line items as JSONB; lines
// are always read and written with the whole order.
type SalesOrderRepo struct {
	q Querier
}

func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const selectOrder = `
	SELECT id, order_number, customer_id, customer_name, customer_address,
	       customer_phone, items, total_amount, status, delivery_date,
	       shipping_address, payment_terms, delivery_method, driver_id,
	       notes, invoice_id, created_by, created_at, updated_at
	FROM sales_orders`

func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	query := `
		INSERT INTO sales_orders
			(id, order_number, customer_id, customer_name, customer_address,
			 customer_phone, items, total_amount, status, delivery_date,
			 shipping_address, payment_terms, delivery_method, driver_id,
			 notes, invoice_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.CustomerID, o.CustomerName, o.CustomerAddress,
		o.CustomerPhone, items, o.TotalAmount, o.Status, o.DeliveryDate,
		o.ShippingAddress, o.PaymentTerms, o.DeliveryMethod, o.DriverID,
		o.Notes, o.InvoiceID, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order number %s already exists", domain.ErrConflict, o.OrderNumber)
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

func (r *SalesOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesOrder, error) {
	var (
		o     entity.SalesOrder
		items []byte
	)
	err := r.q.QueryRow(ctx, selectOrder+` WHERE id = $1`, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.CustomerAddress,
		&o.CustomerPhone, &items, &o.TotalAmount, &o.Status, &o.DeliveryDate,
		&o.ShippingAddress, &o.PaymentTerms, &o.DeliveryMethod, &o.DriverID,
		&o.Notes, &o.InvoiceID, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &o, nil
}

func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	query := `
		UPDATE sales_orders
		SET items = $2, total_amount = $3, status = $4, delivery_date = $5,
		    shipping_address = $6, driver_id = $7, notes = $8, invoice_id = $9,
		    updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, items, o.TotalAmount, o.Status, o.DeliveryDate,
		o.ShippingAddress, o.DriverID, o.Notes, o.InvoiceID, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sales order %s", domain.ErrNotFound, o.ID)
	}
	return nil
}

func (r *SalesOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]entity.SalesOrder, error) {
	query := selectOrder + ` WHERE 1=1`
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
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()

	var out []entity.SalesOrder
	for rows.Next() {
		var (
			o     entity.SalesOrder
			items []byte
		)
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.CustomerAddress,
			&o.CustomerPhone, &items, &o.TotalAmount, &o.Status, &o.DeliveryDate,
			&o.ShippingAddress, &o.PaymentTerms, &o.DeliveryMethod, &o.DriverID,
			&o.Notes, &o.InvoiceID, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
