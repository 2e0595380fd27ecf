package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmgmill/ricemill-api/internal/application/reporting"
	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

// fakeReportingRepo returns canned aggregates; each field maps to one
// query.
type fakeReportingRepo struct {
	purchases     []repository.PurchaseBreakdownRow
	batches       repository.BatchTotals
	invoices      repository.InvoiceAggregate
	sales         []repository.SalesBreakdownRow
	paidExpenses  []repository.ExpenseByTypeRow
	pendingExp    float64
	finishedStock []repository.FinishedStockRow
	rawStockKg    float64
	payroll       []repository.PayrollByRoleRow
	attendance    []repository.LabourAttendanceRow
	byProducts    []repository.ByProductRow
	machines      []entity.Machine
	recentBatches []entity.ProductionBatch
	dailyStats    repository.DailyBatchStats
	salesRevenue  float64
	expensesTotal float64
}

func (r *fakeReportingRepo) PurchaseBreakdown(_ context.Context, _, _ time.Time) ([]repository.PurchaseBreakdownRow, error) {
	return r.purchases, nil
}
func (r *fakeReportingRepo) BatchTotals(_ context.Context, _, _ time.Time) (repository.BatchTotals, error) {
	return r.batches, nil
}
func (r *fakeReportingRepo) InvoiceTotals(_ context.Context, _, _ time.Time) (repository.InvoiceAggregate, error) {
	return r.invoices, nil
}
func (r *fakeReportingRepo) SalesBreakdown(_ context.Context, _, _ time.Time) ([]repository.SalesBreakdownRow, error) {
	return r.sales, nil
}
func (r *fakeReportingRepo) PaidExpensesByType(_ context.Context, _, _ time.Time) ([]repository.ExpenseByTypeRow, error) {
	return r.paidExpenses, nil
}
func (r *fakeReportingRepo) PendingExpensesTotal(_ context.Context) (float64, error) {
	return r.pendingExp, nil
}
func (r *fakeReportingRepo) FinishedStockByType(_ context.Context) ([]repository.FinishedStockRow, error) {
	return r.finishedStock, nil
}
func (r *fakeReportingRepo) RawPaddyStockKg(_ context.Context) (float64, error) {
	return r.rawStockKg, nil
}
func (r *fakeReportingRepo) PayrollByRole(_ context.Context, _, _ time.Time) ([]repository.PayrollByRoleRow, error) {
	return r.payroll, nil
}
func (r *fakeReportingRepo) LabourAttendance(_ context.Context, _, _ time.Time) ([]repository.LabourAttendanceRow, error) {
	return r.attendance, nil
}
func (r *fakeReportingRepo) ByProductSales(_ context.Context, _, _ time.Time) ([]repository.ByProductRow, error) {
	return r.byProducts, nil
}
func (r *fakeReportingRepo) Machines(_ context.Context) ([]entity.Machine, error) {
	return r.machines, nil
}
func (r *fakeReportingRepo) RecentBatches(_ context.Context, _, _ time.Time, _ int) ([]entity.ProductionBatch, error) {
	return r.recentBatches, nil
}
func (r *fakeReportingRepo) DailyBatchStats(_ context.Context, _, _ time.Time) (repository.DailyBatchStats, error) {
	return r.dailyStats, nil
}
func (r *fakeReportingRepo) SalesRevenueBetween(_ context.Context, _, _ time.Time) (float64, error) {
	return r.salesRevenue, nil
}
func (r *fakeReportingRepo) ExpensesBetween(_ context.Context, _, _ time.Time) (float64, error) {
	return r.expensesTotal, nil
}

type fakeSettingsRepo struct{}

func (fakeSettingsRepo) Get(_ context.Context) (entity.MillSettings, error) {
	return entity.DefaultSettings(), nil
}

func newUseCase(repo *fakeReportingRepo) *reporting.UseCase {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return reporting.NewUseCase(repo, fakeSettingsRepo{}, log)
}

// monthRepo is a fully populated month of mill activity.
func monthRepo() *fakeReportingRepo {
	return &fakeReportingRepo{
		purchases: []repository.PurchaseBreakdownRow{
			{PaddyType: "nadu", TotalQtyKg: 10000, TotalCost: 950000, AvgPricePerKg: 95},
		},
		batches: repository.BatchTotals{
			BatchCount:    2,
			TotalInputKg:  10000,
			TotalRiceKg:   6700,
			TotalBrokenKg: 300,
			TotalBranKg:   1500,
			TotalHuskKg:   1200,
		},
		invoices: repository.InvoiceAggregate{
			TotalRevenue:     1400000,
			TotalPaid:        900000,
			TotalOutstanding: 500000,
		},
		sales: []repository.SalesBreakdownRow{
			{Category: "nadu", TotalQtyKg: 6000, TotalRevenue: 1380000, AvgPricePerKg: 230},
		},
		paidExpenses: []repository.ExpenseByTypeRow{
			{Type: "loan", TotalAmount: 100000},
			{Type: "utilities", TotalAmount: 50000},
		},
		pendingExp: 20000,
		finishedStock: []repository.FinishedStockRow{
			{PaddyType: "nadu", TotalWeightKg: 700, TotalValue: 161000},
		},
		rawStockKg: 500,
		payroll: []repository.PayrollByRoleRow{
			{Role: "labour", NetSalary: 120000, EmployeeCount: 4},
			{Role: "driver", NetSalary: 45000, EmployeeCount: 1},
		},
		attendance: []repository.LabourAttendanceRow{
			{EmployeeID: "e1", PresentDays: 25},
			{EmployeeID: "e2", PresentDays: 25},
			{EmployeeID: "e3", PresentDays: 25},
			{EmployeeID: "e4", PresentDays: 25},
		},
		byProducts: []repository.ByProductRow{
			{Type: "husk", SoldQuantityKg: 1000, SoldRevenue: 30000},
		},
		machines: []entity.Machine{
			{Name: "Rubber roller huller", Cost: decimal.NewFromInt(1200000)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compile
// ──────────────────────────────────────────────────────────────────────────────

func TestCompile_FullMonth(t *testing.T) {
	uc := newUseCase(monthRepo())

	report, err := uc.Compile(context.Background(), reporting.ReportParams{})
	require.NoError(t, err)
	eco := report.Economics

	// Conversion: actual 6700/10000, paddy needed for 6700kg at 0.67.
	assert.InDelta(t, 0.67, eco.Conversion.ActualRecoveryRate, 1e-9)
	assert.InDelta(t, 10000, eco.Conversion.PaddyNeededKg, 1e-9)
	assert.InDelta(t, 6700, eco.Conversion.TargetRiceKg, 1e-9)

	// Costing: COGS on produced kg, revenue on sold kg.
	assert.InDelta(t, 141.79, eco.COGS.COGSPerKg, 1e-9)
	assert.InDelta(t, 233.33, eco.Revenue.RevenuePerKg, 1e-9)
	assert.InDelta(t, 450000, eco.GrossProfit.Amount, 1e-9)
	assert.InDelta(t, 91.54, eco.GrossProfit.PerKg, 1e-9)

	// Opex and profit waterfall.
	assert.InDelta(t, 315000, eco.Opex.TotalOpex, 1e-9)
	assert.InDelta(t, 135000, eco.NetProfit.NetProfitBeforeOwner, 1e-9)
	assert.InDelta(t, 33750, eco.NetProfit.OwnerSalaryAmount, 1e-9, "25%% of net before owner")
	assert.InDelta(t, 101250, eco.NetProfit.FinalNetProfit, 1e-9)

	// Labour: 120000 over 100 present days, 4 labourers.
	assert.Equal(t, 4, eco.Labour.LabourersCount)
	assert.Equal(t, 100, eco.Labour.LabourWorkDays)
	assert.InDelta(t, 1200, eco.Labour.LabourDailyRateEstimate, 1e-9)
	assert.InDelta(t, 120000, eco.Labour.LabourFormulaMonthly, 1e-9)

	// Inventory identity and working capital.
	assert.InDelta(t, 500, eco.Inventory.OpeningStockEstimate, 1e-9)
	assert.InDelta(t, 641000, eco.WorkingCapital.WorkingCapital, 1e-9, "161000 + 500000 - 20000")

	// Cash flow includes by-product sales.
	assert.InDelta(t, 930000, eco.CashFlow.CashIn, 1e-9)
	assert.InDelta(t, 1265000, eco.CashFlow.CashOut, 1e-9)
	assert.InDelta(t, -335000, eco.CashFlow.NetCashFlow, 1e-9)

	// Break-even on fixed costs (loan + utilities).
	assert.InDelta(t, 150000, eco.BreakEven.FixedCosts, 1e-9)
	require.NotNil(t, eco.BreakEven.BreakEvenKg)
	assert.InDelta(t, 1638.63, *eco.BreakEven.BreakEvenKg, 1e-9)

	// Pricing: COGS + configured margin (0.15 -> 15/kg).
	assert.InDelta(t, 156.79, eco.PriceSetting.RecommendedPricePerKg, 1e-9)

	// Depreciation with global assumptions, scrap 10%, life 10y.
	assert.InDelta(t, 108000, eco.Depreciation.Annual, 1e-9)
	assert.InDelta(t, 9000, eco.Depreciation.Monthly, 1e-9)
}

func TestCompile_EmptyWindowHasNilBreakEven(t *testing.T) {
	uc := newUseCase(&fakeReportingRepo{})

	report, err := uc.Compile(context.Background(), reporting.ReportParams{})
	require.NoError(t, err)

	assert.Nil(t, report.Economics.BreakEven.BreakEvenKg,
		"no profit per kg means break-even is undefined, not zero")
	assert.InDelta(t, 0, report.Economics.NetProfit.FinalNetProfit, 1e-9)
	assert.InDelta(t, 0, report.Economics.Labour.OwnerSalaryAmount, 1e-9,
		"owner draw is zero when there is no profit")
}

func TestCompile_RejectsInvertedWindow(t *testing.T) {
	uc := newUseCase(&fakeReportingRepo{})

	_, err := uc.Compile(context.Background(), reporting.ReportParams{
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 0, -7),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestCompile_ParamOverrides(t *testing.T) {
	uc := newUseCase(monthRepo())

	report, err := uc.Compile(context.Background(), reporting.ReportParams{
		TargetRiceKg: 13400,
		RecoveryRate: 0.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, report.Filters.RecoveryRate, 1e-9)
	assert.InDelta(t, 26800, report.Economics.Conversion.PaddyNeededKg, 1e-9, "13400 / 0.5")
}

// ──────────────────────────────────────────────────────────────────────────────
// Daily production and profit/loss
// ──────────────────────────────────────────────────────────────────────────────

func TestDailyProduction_Yield(t *testing.T) {
	uc := newUseCase(&fakeReportingRepo{
		dailyStats: repository.DailyBatchStats{
			TotalBatches:  3,
			TotalInputKg:  3000,
			TotalOutputKg: 2850,
		},
	})

	report, err := uc.DailyProduction(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalBatches)
	assert.InDelta(t, 95, report.YieldPercentage, 1e-9)
}

func TestProfitLoss_Margin(t *testing.T) {
	uc := newUseCase(&fakeReportingRepo{
		salesRevenue:  200000,
		expensesTotal: 150000,
	})

	report, err := uc.ProfitLoss(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 50000, report.Profit, 1e-9)
	assert.InDelta(t, 25, report.ProfitMargin, 1e-9)
}

func TestProfitLoss_RejectsInvertedWindow(t *testing.T) {
	uc := newUseCase(&fakeReportingRepo{})
	_, err := uc.ProfitLoss(context.Background(), time.Now(), time.Now().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
