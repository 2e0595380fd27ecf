package repository

import (
	"context"
	"time"

	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// Aggregation rows for the economics report. Figures come back from
// SQL as float8 sums; the reduction layer rounds them.

type PurchaseBreakdownRow struct {
	PaddyType     string
	TotalQtyKg    float64
	TotalCost     float64
	AvgPricePerKg float64
}

type BatchTotals struct {
	BatchCount    int
	TotalInputKg  float64
	TotalRiceKg   float64
	TotalBrokenKg float64
	TotalBranKg   float64
	TotalHuskKg   float64
}

type InvoiceAggregate struct {
	TotalRevenue     float64
	TotalPaid        float64
	TotalOutstanding float64
}

// SalesBreakdownRow groups invoice lines by rice category, derived
// from the product name (nadu, samba, broken, other).
type SalesBreakdownRow struct {
	Category      string
	TotalQtyKg    float64
	TotalRevenue  float64
	AvgPricePerKg float64
}

type ExpenseByTypeRow struct {
	Type        string
	TotalAmount float64
}

type FinishedStockRow struct {
	PaddyType     string
	TotalWeightKg float64
	TotalValue    float64
}

type PayrollByRoleRow struct {
	Role          string
	NetSalary     float64
	EmployeeCount int
}

type LabourAttendanceRow struct {
	EmployeeID    string
	PresentDays   int
	OvertimeHours float64
}

type ByProductRow struct {
	Type           string
	SoldQuantityKg float64
	SoldRevenue    float64
}

type DailyBatchStats struct {
	TotalBatches  int
	TotalInputKg  float64
	TotalOutputKg float64
}

// ReportingRepository is the read-only aggregation surface for the
// economics, production and profit/loss reports. Expense, payroll,
// attendance and by-product records are written by other services;
// only their aggregates are read here.
type ReportingRepository interface {
	PurchaseBreakdown(ctx context.Context, from, to time.Time) ([]PurchaseBreakdownRow, error)
	BatchTotals(ctx context.Context, from, to time.Time) (BatchTotals, error)
	InvoiceTotals(ctx context.Context, from, to time.Time) (InvoiceAggregate, error)
	SalesBreakdown(ctx context.Context, from, to time.Time) ([]SalesBreakdownRow, error)
	PaidExpensesByType(ctx context.Context, from, to time.Time) ([]ExpenseByTypeRow, error)
	PendingExpensesTotal(ctx context.Context) (float64, error)
	FinishedStockByType(ctx context.Context) ([]FinishedStockRow, error)
	RawPaddyStockKg(ctx context.Context) (float64, error)
	PayrollByRole(ctx context.Context, from, to time.Time) ([]PayrollByRoleRow, error)
	LabourAttendance(ctx context.Context, from, to time.Time) ([]LabourAttendanceRow, error)
	ByProductSales(ctx context.Context, from, to time.Time) ([]ByProductRow, error)
	Machines(ctx context.Context) ([]entity.Machine, error)
	RecentBatches(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductionBatch, error)

	// Lightweight reports.
	DailyBatchStats(ctx context.Context, dayStart, dayEnd time.Time) (DailyBatchStats, error)
	SalesRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	ExpensesBetween(ctx context.Context, from, to time.Time) (float64, error)
}
