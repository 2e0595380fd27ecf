package reporting

// Report structures returned by the economics aggregator. They are
// serialized straight to JSON by the HTTP layer.

type ReportFilters struct {
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	TargetRiceKg       float64 `json:"targetRiceKg"`
	DesiredMarginPerKg float64 `json:"desiredMarginPerKg"`
	OwnerSalaryPct     float64 `json:"ownerSalaryPct"`
	RecoveryRate       float64 `json:"recoveryRate"`
}

type ConversionSection struct {
	ActualRecoveryRate    float64 `json:"actualRecoveryRate"`
	EffectiveRecoveryRate float64 `json:"effectiveRecoveryRate"`
	TargetRiceKg          float64 `json:"targetRiceKg"`
	PaddyNeededKg         float64 `json:"paddyNeededKg"`
	TotalInputPaddyKg     float64 `json:"totalInputPaddyKg"`
	TotalRiceOutputKg     float64 `json:"totalRiceOutputKg"`
	TotalBrokenRiceKg     float64 `json:"totalBrokenRiceKg"`
}

type TypeBreakdown struct {
	Type          string  `json:"type"`
	QtyKg         float64 `json:"qtyKg"`
	TotalCost     float64 `json:"totalCost,omitempty"`
	Revenue       float64 `json:"revenue,omitempty"`
	AvgPricePerKg float64 `json:"avgPricePerKg"`
}

type COGSSection struct {
	TotalPaddyCost    float64         `json:"totalPaddyCost"`
	COGSPerKg         float64         `json:"cogsPerKg"`
	PurchaseBreakdown []TypeBreakdown `json:"purchaseBreakdown"`
}

type RevenueSection struct {
	TotalRevenue float64         `json:"totalRevenue"`
	RevenuePerKg float64         `json:"revenuePerKg"`
	RiceSoldKg   float64         `json:"riceSoldKg"`
	Breakdown    []TypeBreakdown `json:"breakdown"`
}

type GrossProfitSection struct {
	Amount float64 `json:"amount"`
	PerKg  float64 `json:"perKg"`
}

type RolePayroll struct {
	NetSalary     float64 `json:"netSalary"`
	EmployeeCount int     `json:"employeeCount"`
}

type LabourSection struct {
	LabourCost              float64                `json:"labourCost"`
	LabourersCount          int                    `json:"labourersCount"`
	LabourWorkDays          int                    `json:"labourWorkDays"`
	LabourDailyRateEstimate float64                `json:"labourDailyRateEstimate"`
	LabourFormulaMonthly    float64                `json:"labourFormulaMonthly"`
	DriverSalary            float64                `json:"driverSalary"`
	PayrollByRole           map[string]RolePayroll `json:"payrollByRole"`
	OwnerSalaryAmount       float64                `json:"ownerSalaryAmount"`
}

type OpexSection struct {
	TotalOpex         float64            `json:"totalOpex"`
	ExpensesPaidTotal float64            `json:"expensesPaidTotal"`
	PayrollNetTotal   float64            `json:"payrollNetTotal"`
	ExpenseBreakdown  map[string]float64 `json:"expenseBreakdown"`
}

type NetProfitSection struct {
	NetProfitBeforeOwner float64 `json:"netProfitBeforeOwner"`
	OwnerSalaryAmount    float64 `json:"ownerSalaryAmount"`
	FinalNetProfit       float64 `json:"finalNetProfit"`
}

type InventorySection struct {
	RawMaterialStockKg   float64 `json:"rawMaterialStockKg"`
	OpeningStockEstimate float64 `json:"openingStockEstimate"`
	PurchasesKg          float64 `json:"purchasesKg"`
	PaddyUsedKg          float64 `json:"paddyUsedKg"`
	FinishedGoodsWeight  float64 `json:"finishedGoodsWeightKg"`
	FinishedGoodsValue   float64 `json:"finishedGoodsValue"`
	Formula              string  `json:"formula"`
}

type BatchValuation struct {
	BatchNumber   string  `json:"batchNumber"`
	PaddyType     string  `json:"paddyType"`
	InputKg       float64 `json:"inputKg"`
	OutputKg      float64 `json:"outputKg"`
	EstimatedCost float64 `json:"estimatedCost"`
	CostPerKg     float64 `json:"costPerKg"`
	StartedAt     string  `json:"startedAt"`
}

type BatchValuationSection struct {
	PerBatchOverhead float64          `json:"perBatchOverhead"`
	Batches          []BatchValuation `json:"batches"`
}

type DepreciationSection struct {
	Annual      float64                 `json:"annual"`
	Monthly     float64                 `json:"monthly"`
	Assumptions DepreciationAssumptions `json:"assumptions"`
}

type DepreciationAssumptions struct {
	ScrapPct        float64 `json:"scrapPct"`
	UsefulLifeYears int     `json:"usefulLifeYears"`
}

type WorkingCapitalSection struct {
	InventoryValue     float64 `json:"inventoryValue"`
	AccountsReceivable float64 `json:"accountsReceivable"`
	AccountsPayable    float64 `json:"accountsPayable"`
	WorkingCapital     float64 `json:"workingCapital"`
}

type ByProductDetail struct {
	Type       string  `json:"type"`
	QuantityKg float64 `json:"quantityKg"`
	Revenue    float64 `json:"revenue"`
}

type ByProductSection struct {
	TotalRevenue                   float64                    `json:"totalRevenue"`
	Breakdown                      map[string]ByProductDetail `json:"breakdown"`
	TotalProfitIncludingByProducts float64                    `json:"totalProfitIncludingByProducts"`
}

type CashFlowSection struct {
	CashIn        float64  `json:"cashIn"`
	CashOut       float64  `json:"cashOut"`
	NetCashFlow   float64  `json:"netCashFlow"`
	InflowSources []string `json:"inflowSources"`
	OutflowUses   []string `json:"outflowUses"`
}

type BreakEvenSection struct {
	FixedCosts  float64  `json:"fixedCosts"`
	ProfitPerKg float64  `json:"profitPerKg"`
	BreakEvenKg *float64 `json:"breakEvenKg"`
}

type PriceSettingSection struct {
	COGSPerKg             float64 `json:"cogsPerKg"`
	DesiredMarginPerKg    float64 `json:"desiredMarginPerKg"`
	RecommendedPricePerKg float64 `json:"recommendedPricePerKg"`
}

type Economics struct {
	Conversion     ConversionSection     `json:"conversion"`
	COGS           COGSSection           `json:"cogs"`
	Revenue        RevenueSection        `json:"revenue"`
	GrossProfit    GrossProfitSection    `json:"grossProfit"`
	Labour         LabourSection         `json:"labourAndSalaries"`
	Opex           OpexSection           `json:"opex"`
	NetProfit      NetProfitSection      `json:"netProfit"`
	Inventory      InventorySection      `json:"inventory"`
	BatchValuation BatchValuationSection `json:"batchValuation"`
	Depreciation   DepreciationSection   `json:"depreciation"`
	WorkingCapital WorkingCapitalSection `json:"workingCapital"`
	ByProducts     ByProductSection      `json:"byProducts"`
	CashFlow       CashFlowSection       `json:"cashFlow"`
	BreakEven      BreakEvenSection      `json:"breakEven"`
	PriceSetting   PriceSettingSection   `json:"priceSetting"`
}

type MillEconomicsReport struct {
	Filters        ReportFilters  `json:"filters"`
	Economics      Economics      `json:"economics"`
	SalaryWorkflow SalaryWorkflow `json:"salaryWorkflow"`
}

// SalaryWorkflow is static process metadata shipped with the report so
// the payroll screens can describe the approval chain.
type SalaryWorkflow struct {
	Attendance     SalaryAttendance  `json:"attendance"`
	Calculations   map[string]string `json:"calculations"`
	ApprovalFlow   []string          `json:"approvalFlow"`
	PaymentMethods []string          `json:"paymentMethods"`
	AccessControl  []AccessRule      `json:"accessControl"`
}

type SalaryAttendance struct {
	Types            []string       `json:"types"`
	Modules          []string       `json:"modules"`
	LabourAttendance map[string]int `json:"labourAttendance"`
}

type AccessRule struct {
	Role   string `json:"role"`
	Access string `json:"access"`
}

// Lightweight reports.

type DailyProductionReport struct {
	Date            string  `json:"date"`
	TotalBatches    int     `json:"totalBatches"`
	TotalInputKg    float64 `json:"totalInputKg"`
	TotalOutputKg   float64 `json:"totalOutputKg"`
	YieldPercentage float64 `json:"yieldPercentage"`
}

type ProfitLossReport struct {
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	Profit        float64 `json:"profit"`
	ProfitMargin  float64 `json:"profitMargin"`
}
