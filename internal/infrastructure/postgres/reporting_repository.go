package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo runs the read-only aggregations behind the reports.
// Figures are cast to float8 in SQL; rounding happens in the
// reduction layer, not here.
type ReportingRepo struct {
	q Querier
}

func NewReportingRepository(q Querier) *ReportingRepo {
	return &ReportingRepo{q: q}
}

func (r *ReportingRepo) PurchaseBreakdown(ctx context.Context, from, to time.Time) ([]repository.PurchaseBreakdownRow, error) {
	query := `
		SELECT paddy_type,
		       COALESCE(SUM(net_weight_kg), 0)::float8,
		       COALESCE(SUM(total_amount), 0)::float8,
		       COALESCE(AVG(price_per_kg), 0)::float8
		FROM purchases
		WHERE received_at >= $1 AND received_at <= $2
		  AND status <> 'cancelled'
		GROUP BY paddy_type
		ORDER BY paddy_type`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("purchase breakdown: %w", err)
	}
	defer rows.Close()

	var out []repository.PurchaseBreakdownRow
	for rows.Next() {
		var row repository.PurchaseBreakdownRow
		if err := rows.Scan(&row.PaddyType, &row.TotalQtyKg, &row.TotalCost, &row.AvgPricePerKg); err != nil {
			return nil, fmt.Errorf("scan purchase breakdown: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) BatchTotals(ctx context.Context, from, to time.Time) (repository.BatchTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(input_paddy_kg), 0)::float8,
		       COALESCE(SUM(output_rice_kg), 0)::float8,
		       COALESCE(SUM(output_broken_kg), 0)::float8,
		       COALESCE(SUM(output_bran_kg), 0)::float8,
		       COALESCE(SUM(output_husk_kg), 0)::float8
		FROM production_batches
		WHERE created_at >= $1 AND created_at <= $2`
	var t repository.BatchTotals
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&t.BatchCount, &t.TotalInputKg, &t.TotalRiceKg, &t.TotalBrokenKg, &t.TotalBranKg, &t.TotalHuskKg,
	)
	if err != nil {
		return repository.BatchTotals{}, fmt.Errorf("batch totals: %w", err)
	}
	return t, nil
}

func (r *ReportingRepo) InvoiceTotals(ctx context.Context, from, to time.Time) (repository.InvoiceAggregate, error) {
	query := `
		SELECT COALESCE(SUM(i.total_amount), 0)::float8,
		       COALESCE(SUM(paid.amount), 0)::float8,
		       COALESCE(SUM(i.total_amount - paid.amount), 0)::float8
		FROM invoices i,
		LATERAL (
			SELECT COALESCE(SUM((p->>'amount')::numeric), 0) AS amount
			FROM jsonb_array_elements(i.payments) p
		) paid
		WHERE i.status <> 'cancelled'
		  AND i.invoice_date >= $1 AND i.invoice_date <= $2`
	var agg repository.InvoiceAggregate
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&agg.TotalRevenue, &agg.TotalPaid, &agg.TotalOutstanding,
	)
	if err != nil {
		return repository.InvoiceAggregate{}, fmt.Errorf("invoice totals: %w", err)
	}
	return agg, nil
}

// SalesBreakdown buckets invoice lines by the rice variety embedded in
// the product name. Lines that match none of the known varieties land
// in "other".
func (r *ReportingRepo) SalesBreakdown(ctx context.Context, from, to time.Time) ([]repository.SalesBreakdownRow, error) {
	query := `
		SELECT CASE
		           WHEN lower(item->>'productName') LIKE '%nadu%' THEN 'nadu'
		           WHEN lower(item->>'productName') LIKE '%samba%' THEN 'samba'
		           WHEN lower(item->>'productName') LIKE '%broken%' THEN 'broken'
		           ELSE 'other'
		       END AS category,
		       COALESCE(SUM((item->>'qtyKg')::numeric), 0)::float8,
		       COALESCE(SUM((item->>'totalPrice')::numeric), 0)::float8,
		       COALESCE(AVG((item->>'unitPrice')::numeric), 0)::float8
		FROM invoices i,
		     jsonb_array_elements(i.items) AS item
		WHERE i.status <> 'cancelled'
		  AND i.invoice_date >= $1 AND i.invoice_date <= $2
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales breakdown: %w", err)
	}
	defer rows.Close()

	var out []repository.SalesBreakdownRow
	for rows.Next() {
		var row repository.SalesBreakdownRow
		if err := rows.Scan(&row.Category, &row.TotalQtyKg, &row.TotalRevenue, &row.AvgPricePerKg); err != nil {
			return nil, fmt.Errorf("scan sales breakdown: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) PaidExpensesByType(ctx context.Context, from, to time.Time) ([]repository.ExpenseByTypeRow, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0)::float8
		FROM expenses
		WHERE date >= $1 AND date <= $2 AND payment_status = 'paid'
		GROUP BY type`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("paid expenses by type: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpenseByTypeRow
	for rows.Next() {
		var row repository.ExpenseByTypeRow
		if err := rows.Scan(&row.Type, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) PendingExpensesTotal(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::float8
		FROM expenses
		WHERE payment_status <> 'paid'`
	var total float64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("pending expenses total: %w", err)
	}
	return total, nil
}

func (r *ReportingRepo) FinishedStockByType(ctx context.Context) ([]repository.FinishedStockRow, error) {
	query := `
		SELECT paddy_type,
		       COALESCE(SUM(weight_kg), 0)::float8,
		       COALESCE(SUM(weight_kg * unit_price), 0)::float8
		FROM finished_goods_lots
		WHERE weight_kg > 0
		GROUP BY paddy_type`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("finished stock by type: %w", err)
	}
	defer rows.Close()

	var out []repository.FinishedStockRow
	for rows.Next() {
		var row repository.FinishedStockRow
		if err := rows.Scan(&row.PaddyType, &row.TotalWeightKg, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("scan finished stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) RawPaddyStockKg(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity_kg), 0)::float8
		FROM raw_material_lots
		WHERE status = 'available'`
	var total float64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("raw paddy stock: %w", err)
	}
	return total, nil
}

func (r *ReportingRepo) PayrollByRole(ctx context.Context, from, to time.Time) ([]repository.PayrollByRoleRow, error) {
	query := `
		SELECT COALESCE(NULLIF(role, ''), 'unassigned'),
		       COALESCE(SUM(net_salary), 0)::float8,
		       COUNT(*)
		FROM payslips
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY 1`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("payroll by role: %w", err)
	}
	defer rows.Close()

	var out []repository.PayrollByRoleRow
	for rows.Next() {
		var row repository.PayrollByRoleRow
		if err := rows.Scan(&row.Role, &row.NetSalary, &row.EmployeeCount); err != nil {
			return nil, fmt.Errorf("scan payroll row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) LabourAttendance(ctx context.Context, from, to time.Time) ([]repository.LabourAttendanceRow, error) {
	query := `
		SELECT employee_id,
		       COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(overtime_hours), 0)::float8
		FROM attendance
		WHERE date >= $1 AND date <= $2 AND role = 'labour'
		GROUP BY employee_id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("labour attendance: %w", err)
	}
	defer rows.Close()

	var out []repository.LabourAttendanceRow
	for rows.Next() {
		var row repository.LabourAttendanceRow
		if err := rows.Scan(&row.EmployeeID, &row.PresentDays, &row.OvertimeHours); err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) ByProductSales(ctx context.Context, from, to time.Time) ([]repository.ByProductRow, error) {
	query := `
		SELECT type,
		       COALESCE(SUM(sold_quantity_kg), 0)::float8,
		       COALESCE(SUM(sold_revenue), 0)::float8
		FROM by_products
		WHERE production_date >= $1 AND production_date <= $2
		GROUP BY type`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("by-product sales: %w", err)
	}
	defer rows.Close()

	var out []repository.ByProductRow
	for rows.Next() {
		var row repository.ByProductRow
		if err := rows.Scan(&row.Type, &row.SoldQuantityKg, &row.SoldRevenue); err != nil {
			return nil, fmt.Errorf("scan by-product row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) Machines(ctx context.Context) ([]entity.Machine, error) {
	query := `
		SELECT id, name, category, cost, purchased_at
		FROM machines`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	var out []entity.Machine
	for rows.Next() {
		var m entity.Machine
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Cost, &m.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReportingRepo) RecentBatches(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductionBatch, error) {
	batches := NewProductionBatchRepository(r.q)
	return batches.List(ctx, repository.BatchFilter{DateFrom: from, DateTo: to, Limit: limit})
}

func (r *ReportingRepo) DailyBatchStats(ctx context.Context, dayStart, dayEnd time.Time) (repository.DailyBatchStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(input_paddy_kg), 0)::float8,
		       COALESCE(SUM(output_rice_kg + output_broken_kg + output_husk_kg + output_bran_kg), 0)::float8
		FROM production_batches
		WHERE created_at >= $1 AND created_at <= $2`
	var s repository.DailyBatchStats
	err := r.q.QueryRow(ctx, query, dayStart, dayEnd).Scan(&s.TotalBatches, &s.TotalInputKg, &s.TotalOutputKg)
	if err != nil {
		return repository.DailyBatchStats{}, fmt.Errorf("daily batch stats: %w", err)
	}
	return s, nil
}

func (r *ReportingRepo) SalesRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)::float8
		FROM sales_orders
		WHERE created_at >= $1 AND created_at <= $2
		  AND status IN ('confirmed', 'invoiced')`
	var total float64
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("sales revenue: %w", err)
	}
	return total, nil
}

func (r *ReportingRepo) ExpensesBetween(ctx context.Context, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::float8
		FROM expenses
		WHERE date >= $1 AND date <= $2`
	var total float64
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("expenses total: %w", err)
	}
	return total, nil
}
