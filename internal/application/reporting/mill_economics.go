// Package reporting builds the consolidated mill economics report and
// the lighter production and profit/loss reports. Aggregation is
// read-only; every figure is derived from the transactional records.
package reporting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kmgmill/ricemill-api/internal/domain"
	"github.com/kmgmill/ricemill-api/internal/domain/economics"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
	"github.com/kmgmill/ricemill-api/internal/domain/repository"
	"github.com/kmgmill/ricemill-api/pkg/logger"
)

type UseCase struct {
	repo     repository.ReportingRepository
	settings repository.SettingsRepository
	log      *logger.Logger
}

func NewUseCase(repo repository.ReportingRepository, settings repository.SettingsRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, settings: settings, log: log}
}

// ReportParams are the caller's overrides. Zero values fall back to
// mill settings, then to the library defaults.
type ReportParams struct {
	StartDate          time.Time
	EndDate            time.Time
	TargetRiceKg       float64
	DesiredMarginPerKg float64
	RecoveryRate       float64
	OwnerSalaryPct     float64
	ScrapPct           float64
	UsefulLifeYears    int
}

const recentBatchLimit = 5

// aggregates carries the raw query results of the fan-out.
type aggregates struct {
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
}

// Compile validates the window, runs the thirteen aggregations
// concurrently and reduces them through the formula library.
func (uc *UseCase) Compile(ctx context.Context, p ReportParams) (*MillEconomicsReport, error) {
	now := time.Now()
	start := p.StartDate
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	end := p.EndDate
	if end.IsZero() {
		end = now
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate must be before endDate", domain.ErrInvalidDateRange)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	// ── Resolve parameters: request → settings → defaults ─────────────
	desiredMargin := p.DesiredMarginPerKg
	if desiredMargin == 0 {
		desiredMargin = settings.TargetProfitMargin * 100
	}
	if desiredMargin == 0 {
		desiredMargin = 5
	}
	recoveryRate := p.RecoveryRate
	if recoveryRate == 0 {
		recoveryRate = settings.MillingRecoveryRate
	}
	if recoveryRate == 0 {
		recoveryRate = economics.DefaultRecoveryRate
	}
	ownerPct := p.OwnerSalaryPct
	if ownerPct == 0 {
		ownerPct = settings.OwnerSalaryPercentage
	}
	if ownerPct == 0 {
		ownerPct = economics.DefaultOwnerSalaryPct
	}
	scrapPct := p.ScrapPct
	if scrapPct == 0 {
		scrapPct = 0.1
	}
	lifeYears := p.UsefulLifeYears
	if lifeYears == 0 {
		lifeYears = 10
	}

	agg, err := uc.fanOut(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := uc.reduce(agg, reduceParams{
		start:         start,
		end:           end,
		targetRiceKg:  p.TargetRiceKg,
		desiredMargin: desiredMargin,
		recoveryRate:  recoveryRate,
		ownerPct:      ownerPct,
		scrapPct:      scrapPct,
		lifeYears:     lifeYears,
	})

	uc.log.Debug().
		Time("start", start).
		Time("end", end).
		Msg("mill economics report compiled")

	return report, nil
}

// fanOut runs every aggregation on its own goroutine. Results land in
// fixed slots, so no locking is needed; the first error wins.
func (uc *UseCase) fanOut(ctx context.Context, start, end time.Time) (*aggregates, error) {
	agg := &aggregates{}
	errs := make([]error, 13)

	var wg sync.WaitGroup
	run := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[slot] = fn()
		}()
	}

	run(0, func() (err error) {
		agg.purchases, err = uc.repo.PurchaseBreakdown(ctx, start, end)
		return
	})
	run(1, func() (err error) {
		agg.batches, err = uc.repo.BatchTotals(ctx, start, end)
		return
	})
	run(2, func() (err error) {
		agg.invoices, err = uc.repo.InvoiceTotals(ctx, start, end)
		return
	})
	run(3, func() (err error) {
		agg.sales, err = uc.repo.SalesBreakdown(ctx, start, end)
		return
	})
	run(4, func() (err error) {
		agg.paidExpenses, err = uc.repo.PaidExpensesByType(ctx, start, end)
		return
	})
	run(5, func() (err error) {
		agg.pendingExp, err = uc.repo.PendingExpensesTotal(ctx)
		return
	})
	run(6, func() (err error) {
		agg.finishedStock, err = uc.repo.FinishedStockByType(ctx)
		return
	})
	run(7, func() (err error) {
		agg.rawStockKg, err = uc.repo.RawPaddyStockKg(ctx)
		return
	})
	run(8, func() (err error) {
		agg.payroll, err = uc.repo.PayrollByRole(ctx, start, end)
		return
	})
	run(9, func() (err error) {
		agg.attendance, err = uc.repo.LabourAttendance(ctx, start, end)
		return
	})
	run(10, func() (err error) {
		agg.byProducts, err = uc.repo.ByProductSales(ctx, start, end)
		return
	})
	run(11, func() (err error) {
		agg.machines, err = uc.repo.Machines(ctx)
		return
	})
	run(12, func() (err error) {
		agg.recentBatches, err = uc.repo.RecentBatches(ctx, start, end, recentBatchLimit)
		return
	})

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("compile report: %w", err)
		}
	}
	return agg, nil
}

type reduceParams struct {
	start, end    time.Time
	targetRiceKg  float64
	desiredMargin float64
	recoveryRate  float64
	ownerPct      float64
	scrapPct      float64
	lifeYears     int
}

func (uc *UseCase) reduce(agg *aggregates, p reduceParams) *MillEconomicsReport {
	// ── Purchases ─────────────────────────────────────────────────────
	type typeCost struct {
		qtyKg     float64
		totalCost float64
		avgPrice  float64
	}
	purchaseByType := make(map[string]typeCost, len(agg.purchases))
	var totalPurchasesQty, totalPaddyCost float64
	purchaseBreakdown := make([]TypeBreakdown, 0, len(agg.purchases))
	for _, row := range agg.purchases {
		avg := row.AvgPricePerKg
		if avg == 0 {
			avg = economics.SafeDivide(row.TotalCost, row.TotalQtyKg, 0)
		}
		key := row.PaddyType
		if key == "" {
			key = "other"
		}
		purchaseByType[key] = typeCost{qtyKg: row.TotalQtyKg, totalCost: row.TotalCost, avgPrice: avg}
		totalPurchasesQty += row.TotalQtyKg
		totalPaddyCost += row.TotalCost
		purchaseBreakdown = append(purchaseBreakdown, TypeBreakdown{
			Type:          key,
			QtyKg:         row.TotalQtyKg,
			TotalCost:     row.TotalCost,
			AvgPricePerKg: avg,
		})
	}
	avgPaddyCostPerKg := economics.SafeDivide(totalPaddyCost, totalPurchasesQty, 0)

	// ── Production ────────────────────────────────────────────────────
	totalInputPaddy := agg.batches.TotalInputKg
	totalRiceOutput := agg.batches.TotalRiceKg

	// ── Sales ─────────────────────────────────────────────────────────
	var riceSoldKg float64
	salesBreakdown := make([]TypeBreakdown, 0, len(agg.sales))
	for _, row := range agg.sales {
		riceSoldKg += row.TotalQtyKg
		avg := row.AvgPricePerKg
		if avg == 0 {
			avg = economics.SafeDivide(row.TotalRevenue, row.TotalQtyKg, 0)
		}
		salesBreakdown = append(salesBreakdown, TypeBreakdown{
			Type:          row.Category,
			QtyKg:         row.TotalQtyKg,
			Revenue:       row.TotalRevenue,
			AvgPricePerKg: avg,
		})
	}
	totalRevenue := agg.invoices.TotalRevenue

	// ── Conversion ────────────────────────────────────────────────────
	recoveryRateActual := 0.0
	if totalInputPaddy != 0 {
		recoveryRateActual = economics.SafeDivide(totalRiceOutput, totalInputPaddy, 0)
	}
	effectiveRecoveryRate := p.recoveryRate
	effectiveTargetRice := p.targetRiceKg
	if effectiveTargetRice == 0 {
		effectiveTargetRice = totalRiceOutput
	}
	if effectiveTargetRice == 0 {
		effectiveTargetRice = riceSoldKg
	}
	paddyNeeded := economics.PaddyRequirement(effectiveTargetRice, effectiveRecoveryRate)

	actualForDisplay := recoveryRateActual
	if totalInputPaddy == 0 {
		actualForDisplay = effectiveRecoveryRate
	}

	// ── Costing and profit ────────────────────────────────────────────
	cogsBasisKg := totalRiceOutput
	if cogsBasisKg == 0 {
		cogsBasisKg = riceSoldKg
	}
	revenueBasisKg := riceSoldKg
	if revenueBasisKg == 0 {
		revenueBasisKg = totalRiceOutput
	}
	cogsPerKg := economics.COGSPerKg(totalPaddyCost, cogsBasisKg)
	revenuePerKg := economics.RevenuePerKg(totalRevenue, revenueBasisKg)
	grossProfit := economics.GrossProfit(totalRevenue, totalPaddyCost)
	grossProfitPerKg := economics.GrossProfitPerKg(revenuePerKg, cogsPerKg)

	// ── Opex ──────────────────────────────────────────────────────────
	expenseMap := make(map[string]float64, len(agg.paidExpenses))
	var expensesPaidTotal float64
	for _, row := range agg.paidExpenses {
		key := row.Type
		if key == "" {
			key = "other"
		}
		expenseMap[key] += row.TotalAmount
		expensesPaidTotal += row.TotalAmount
	}

	payrollByRole := make(map[string]RolePayroll, len(agg.payroll))
	var payrollNetTotal float64
	for _, row := range agg.payroll {
		role := row.Role
		if role == "" {
			role = "unassigned"
		}
		payrollByRole[role] = RolePayroll{NetSalary: row.NetSalary, EmployeeCount: row.EmployeeCount}
		payrollNetTotal += row.NetSalary
	}

	totalOpex := expensesPaidTotal + payrollNetTotal
	netBeforeOwner := economics.NetProfitBeforeOwner(grossProfit, totalOpex)
	ownerSalary := economics.OwnerSalary(netBeforeOwner, p.ownerPct)
	finalNetProfit := economics.FinalNetProfit(netBeforeOwner, ownerSalary)

	// ── Labour metrics ────────────────────────────────────────────────
	labourCost := payrollByRole["labour"].NetSalary
	labourersCount := len(agg.attendance)
	labourWorkDays := 0
	for _, row := range agg.attendance {
		labourWorkDays += row.PresentDays
	}
	labourDailyRate := 0.0
	if labourWorkDays > 0 {
		labourDailyRate = economics.Round(labourCost / float64(labourWorkDays))
	}
	denom := labourersCount
	if denom < 1 {
		denom = 1
	}
	labourFormulaMonthly := economics.Round(labourDailyRate * float64(labourersCount) * (float64(labourWorkDays) / float64(denom)))
	driverSalary := payrollByRole["driver"].NetSalary

	// ── Inventory and working capital ─────────────────────────────────
	var finishedGoodsWeight, finishedGoodsValue float64
	for _, row := range agg.finishedStock {
		finishedGoodsWeight += row.TotalWeightKg
		finishedGoodsValue += row.TotalValue
	}
	openingStockEstimate := economics.Round(agg.rawStockKg + totalInputPaddy - totalPurchasesQty)

	inventoryValue := economics.Round(finishedGoodsValue)
	accountsReceivable := economics.Round(agg.invoices.TotalOutstanding)
	accountsPayable := economics.Round(agg.pendingExp)
	workingCapital := economics.Round(inventoryValue + accountsReceivable - accountsPayable)

	// ── By-products and cash flow ─────────────────────────────────────
	byProductBreakdown := make(map[string]ByProductDetail, len(agg.byProducts))
	var byProductRevenue float64
	for _, row := range agg.byProducts {
		byProductBreakdown[row.Type] = ByProductDetail{
			Type:       row.Type,
			QuantityKg: row.SoldQuantityKg,
			Revenue:    row.SoldRevenue,
		}
		byProductRevenue += row.SoldRevenue
	}
	totalProfitInclByProducts := economics.Round(finalNetProfit + byProductRevenue)

	cashIn := economics.Round(agg.invoices.TotalPaid + byProductRevenue)
	cashOut := economics.Round(totalPaddyCost + expensesPaidTotal + payrollNetTotal)
	netCashFlow := economics.Round(cashIn - cashOut)

	// ── Break-even and pricing ────────────────────────────────────────
	fixedCosts := economics.Round(
		expenseMap["loan"] +
			expenseMap["utilities"] +
			expenseMap["maintenance"] +
			expenseMap["salary"] +
			expenseMap["insurance"] +
			expenseMap["taxes"])
	breakEvenKg := economics.BreakEvenKg(fixedCosts, grossProfitPerKg)
	recommendedPrice := economics.RecommendedPrice(cogsPerKg, p.desiredMargin)

	// ── Depreciation ──────────────────────────────────────────────────
	var annualDep, monthlyDep float64
	for _, m := range agg.machines {
		cost, _ := m.Cost.Float64()
		d := economics.StraightLineDepreciation(cost, p.scrapPct, p.lifeYears)
		annualDep += d.Annual
		monthlyDep += d.Monthly
	}

	// ── Batch valuation ───────────────────────────────────────────────
	perBatchOverhead := 0.0
	if agg.batches.BatchCount > 0 {
		perBatchOverhead = economics.SafeDivide(expensesPaidTotal, float64(agg.batches.BatchCount), 0)
	}
	valuations := make([]BatchValuation, 0, len(agg.recentBatches))
	for _, b := range agg.recentBatches {
		inputKg, _ := b.InputPaddyKg.Float64()
		outputKg, _ := b.Output.RiceKg.Float64()
		typePrice := avgPaddyCostPerKg
		if tc, ok := purchaseByType[b.PaddyType]; ok && tc.avgPrice != 0 {
			typePrice = tc.avgPrice
		}
		batchCost := inputKg*typePrice + perBatchOverhead
		basis := outputKg
		if basis == 0 {
			basis = inputKg
		}
		valuations = append(valuations, BatchValuation{
			BatchNumber:   b.BatchNumber,
			PaddyType:     b.PaddyType,
			InputKg:       inputKg,
			OutputKg:      outputKg,
			EstimatedCost: economics.Round(batchCost),
			CostPerKg:     economics.COGSPerKg(batchCost, basis),
			StartedAt:     b.StartedAt.Format(time.RFC3339),
		})
	}

	return &MillEconomicsReport{
		Filters: ReportFilters{
			StartDate:          p.start.Format(time.RFC3339),
			EndDate:            p.end.Format(time.RFC3339),
			TargetRiceKg:       effectiveTargetRice,
			DesiredMarginPerKg: p.desiredMargin,
			OwnerSalaryPct:     p.ownerPct,
			RecoveryRate:       effectiveRecoveryRate,
		},
		Economics: Economics{
			Conversion: ConversionSection{
				ActualRecoveryRate:    economics.Round(actualForDisplay),
				EffectiveRecoveryRate: effectiveRecoveryRate,
				TargetRiceKg:          effectiveTargetRice,
				PaddyNeededKg:         paddyNeeded,
				TotalInputPaddyKg:     totalInputPaddy,
				TotalRiceOutputKg:     totalRiceOutput,
				TotalBrokenRiceKg:     agg.batches.TotalBrokenKg,
			},
			COGS: COGSSection{
				TotalPaddyCost:    economics.Round(totalPaddyCost),
				COGSPerKg:         cogsPerKg,
				PurchaseBreakdown: purchaseBreakdown,
			},
			Revenue: RevenueSection{
				TotalRevenue: economics.Round(totalRevenue),
				RevenuePerKg: revenuePerKg,
				RiceSoldKg:   riceSoldKg,
				Breakdown:    salesBreakdown,
			},
			GrossProfit: GrossProfitSection{
				Amount: grossProfit,
				PerKg:  grossProfitPerKg,
			},
			Labour: LabourSection{
				LabourCost:              labourCost,
				LabourersCount:          labourersCount,
				LabourWorkDays:          labourWorkDays,
				LabourDailyRateEstimate: labourDailyRate,
				LabourFormulaMonthly:    labourFormulaMonthly,
				DriverSalary:            driverSalary,
				PayrollByRole:           payrollByRole,
				OwnerSalaryAmount:       ownerSalary,
			},
			Opex: OpexSection{
				TotalOpex:         economics.Round(totalOpex),
				ExpensesPaidTotal: economics.Round(expensesPaidTotal),
				PayrollNetTotal:   economics.Round(payrollNetTotal),
				ExpenseBreakdown:  expenseMap,
			},
			NetProfit: NetProfitSection{
				NetProfitBeforeOwner: netBeforeOwner,
				OwnerSalaryAmount:    ownerSalary,
				FinalNetProfit:       finalNetProfit,
			},
			Inventory: InventorySection{
				RawMaterialStockKg:   agg.rawStockKg,
				OpeningStockEstimate: openingStockEstimate,
				PurchasesKg:          totalPurchasesQty,
				PaddyUsedKg:          totalInputPaddy,
				FinishedGoodsWeight:  finishedGoodsWeight,
				FinishedGoodsValue:   finishedGoodsValue,
				Formula:              "Current = Opening + Purchases - Used",
			},
			BatchValuation: BatchValuationSection{
				PerBatchOverhead: economics.Round(perBatchOverhead),
				Batches:          valuations,
			},
			Depreciation: DepreciationSection{
				Annual:  economics.Round(annualDep),
				Monthly: economics.Round(monthlyDep),
				Assumptions: DepreciationAssumptions{
					ScrapPct:        p.scrapPct,
					UsefulLifeYears: p.lifeYears,
				},
			},
			WorkingCapital: WorkingCapitalSection{
				InventoryValue:     inventoryValue,
				AccountsReceivable: accountsReceivable,
				AccountsPayable:    accountsPayable,
				WorkingCapital:     workingCapital,
			},
			ByProducts: ByProductSection{
				TotalRevenue:                   economics.Round(byProductRevenue),
				Breakdown:                      byProductBreakdown,
				TotalProfitIncludingByProducts: totalProfitInclByProducts,
			},
			CashFlow: CashFlowSection{
				CashIn:        cashIn,
				CashOut:       cashOut,
				NetCashFlow:   netCashFlow,
				InflowSources: []string{"Rice sales collections", "By-product sales", "Debtor payments"},
				OutflowUses:   []string{"Paddy purchases", "Salaries", "Expenses", "Loan servicing"},
			},
			BreakEven: BreakEvenSection{
				FixedCosts:  fixedCosts,
				ProfitPerKg: grossProfitPerKg,
				BreakEvenKg: breakEvenKg,
			},
			PriceSetting: PriceSettingSection{
				COGSPerKg:             cogsPerKg,
				DesiredMarginPerKg:    p.desiredMargin,
				RecommendedPricePerKg: recommendedPrice,
			},
		},
		SalaryWorkflow: salaryWorkflow(labourersCount, labourWorkDays),
	}
}

func salaryWorkflow(labourersCount, labourWorkDays int) SalaryWorkflow {
	return SalaryWorkflow{
		Attendance: SalaryAttendance{
			Types:   []string{"present", "absent", "half-day", "overtime", "leave", "holiday"},
			Modules: []string{"self-entry for labour/driver/operator", "admin overrides"},
			LabourAttendance: map[string]int{
				"labourersCount": labourersCount,
				"labourWorkDays": labourWorkDays,
			},
		},
		Calculations: map[string]string{
			"labourFormula": "Monthly Salary = (Present Days x Daily Rate) + OT - Penalties - Advances",
			"monthlyFixed":  "Base Salary + Incentives - Deductions",
			"otRule":        "OT Pay = OT Hours x OT Rate",
		},
		ApprovalFlow: []string{
			"System auto-calculates salaries from attendance + payslips",
			"Accountant reviews & validates",
			"Admin/Owner approves and releases payments",
			"System issues payslips with digital signature slot",
		},
		PaymentMethods: []string{"cash", "bank_transfer", "cheque", "mobile_money"},
		AccessControl: []AccessRule{
			{Role: "admin", Access: "create|approve|view"},
			{Role: "accountant", Access: "create|edit|calculate"},
			{Role: "sales_manager", Access: "view"},
			{Role: "warehouse_manager", Access: "view_own"},
			{Role: "operator", Access: "view_own"},
			{Role: "driver", Access: "view_own"},
			{Role: "labour", Access: "view_own"},
		},
	}
}

// DailyProduction summarizes the batches created on one day.
func (uc *UseCase) DailyProduction(ctx context.Context, day time.Time) (*DailyProductionReport, error) {
	if day.IsZero() {
		day = time.Now()
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	stats, err := uc.repo.DailyBatchStats(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("daily production report: %w", err)
	}

	yield := 0.0
	if stats.TotalInputKg > 0 {
		yield = economics.Round(stats.TotalOutputKg / stats.TotalInputKg * 100)
	}
	return &DailyProductionReport{
		Date:            dayStart.Format("2006-01-02"),
		TotalBatches:    stats.TotalBatches,
		TotalInputKg:    stats.TotalInputKg,
		TotalOutputKg:   stats.TotalOutputKg,
		YieldPercentage: yield,
	}, nil
}

// ProfitLoss is revenue from confirmed and invoiced orders minus all
// expenses in the window. A zero window defaults to the last 30 days.
func (uc *UseCase) ProfitLoss(ctx context.Context, start, end time.Time) (*ProfitLossReport, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate must be before endDate", domain.ErrInvalidDateRange)
	}

	var (
		revenue, expenses float64
		revErr, expErr    error
		wg                sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		revenue, revErr = uc.repo.SalesRevenueBetween(ctx, start, end)
	}()
	go func() {
		defer wg.Done()
		expenses, expErr = uc.repo.ExpensesBetween(ctx, start, end)
	}()
	wg.Wait()
	if revErr != nil {
		return nil, fmt.Errorf("profit/loss revenue: %w", revErr)
	}
	if expErr != nil {
		return nil, fmt.Errorf("profit/loss expenses: %w", expErr)
	}

	profit := revenue - expenses
	margin := 0.0
	if revenue > 0 {
		margin = economics.Round(profit / revenue * 100)
	}
	return &ProfitLossReport{
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		TotalRevenue:  economics.Round(revenue),
		TotalExpenses: economics.Round(expenses),
		Profit:        economics.Round(profit),
		ProfitMargin:  margin,
	}, nil
}
