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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo stores invoice lines, payments and the mill letterhead
// snapshot as JSONB columns.
type InvoiceRepo struct {
	q Querier
}

func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const selectInvoice = `
	SELECT id, invoice_number, order_id, order_number, customer_name,
	       customer_address, customer_phone, items, subtotal, discount_percent,
	       discount_amount, tax_percent, tax_amount, total_amount, invoice_date,
	       invoice_time, due_date, payments, payment_status, status,
	       cancelled_by, cancelled_at, mill_details,
	       payment_terms, prepared_by_name, driver_id, billed_by, notes,
	       created_at, updated_at
	FROM invoices`

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	items, payments, details, err := marshalInvoiceJSON(inv)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices
			(id, invoice_number, order_id, order_number, customer_name,
			 customer_address, customer_phone, items, subtotal, discount_percent,
			 discount_amount, tax_percent, tax_amount, total_amount, invoice_date,
			 invoice_time, due_date, payments, payment_status, status,
			 cancelled_by, cancelled_at, mill_details,
			 payment_terms, prepared_by_name, driver_id, billed_by, notes,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.OrderID, inv.OrderNumber, inv.CustomerName,
		inv.CustomerAddress, inv.CustomerPhone, items, inv.Subtotal, inv.DiscountPercent,
		inv.DiscountAmount, inv.TaxPercent, inv.TaxAmount, inv.TotalAmount, inv.InvoiceDate,
		inv.InvoiceTime, inv.DueDate, payments, inv.PaymentStatus, inv.Status,
		inv.CancelledBy, inv.CancelledAt, details,
		inv.PaymentTerms, inv.PreparedByName, inv.DriverID, inv.BilledBy, inv.Notes,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice for order %s already exists", domain.ErrConflict, inv.OrderID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, selectInvoice+` WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	_, payments, _, err := marshalInvoiceJSON(inv)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET payments = $2, payment_status = $3, status = $4, cancelled_by = $5,
		    cancelled_at = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, payments, inv.PaymentStatus, inv.Status,
		inv.CancelledBy, inv.CancelledAt, inv.Notes, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", domain.ErrNotFound, inv.ID)
	}
	return nil
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]entity.Invoice, error) {
	query := selectInvoice + ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.PaymentStatus != "" {
		query += fmt.Sprintf(` AND payment_status = $%d`, i)
		args = append(args, f.PaymentStatus)
		i++
	}
	if !f.DateFrom.IsZero() {
		query += fmt.Sprintf(` AND invoice_date >= $%d`, i)
		args = append(args, f.DateFrom)
		i++
	}
	if !f.DateTo.IsZero() {
		query += fmt.Sprintf(` AND invoice_date <= $%d`, i)
		args = append(args, f.DateTo)
		i++
	}
	query += ` ORDER BY invoice_date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, i)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func marshalInvoiceJSON(inv *entity.Invoice) (items, payments, details []byte, err error) {
	if items, err = json.Marshal(inv.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal invoice items: %w", err)
	}
	pays := inv.Payments
	if pays == nil {
		pays = []entity.Payment{}
	}
	if payments, err = json.Marshal(pays); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal invoice payments: %w", err)
	}
	if details, err = json.Marshal(inv.MillDetails); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal mill details: %w", err)
	}
	return items, payments, details, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv      entity.Invoice
		items    []byte
		payments []byte
		details  []byte
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.OrderID, &inv.OrderNumber, &inv.CustomerName,
		&inv.CustomerAddress, &inv.CustomerPhone, &items, &inv.Subtotal, &inv.DiscountPercent,
		&inv.DiscountAmount, &inv.TaxPercent, &inv.TaxAmount, &inv.TotalAmount, &inv.InvoiceDate,
		&inv.InvoiceTime, &inv.DueDate, &payments, &inv.PaymentStatus, &inv.Status,
		&inv.CancelledBy, &inv.CancelledAt, &details,
		&inv.PaymentTerms, &inv.PreparedByName, &inv.DriverID, &inv.BilledBy, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("unmarshal invoice items: %w", err)
	}
	if err := json.Unmarshal(payments, &inv.Payments); err != nil {
		return nil, fmt.Errorf("unmarshal invoice payments: %w", err)
	}
	if err := json.Unmarshal(details, &inv.MillDetails); err != nil {
		return nil, fmt.Errorf("unmarshal mill details: %w", err)
	}
	return &inv, nil
}
