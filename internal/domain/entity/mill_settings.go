package entity

// MillSettings is the singleton configuration row. Callers load it per
// request and pass it in explicitly; request parameters may override
// individual values.
type MillSettings struct {
	MillName  string
	Address   string
	Phone     string
	Email     string
	GSTNumber string
	Currency  string

	MillingRecoveryRate   float64 // rice fraction of paddy input
	OwnerSalaryPercentage float64
	TargetProfitMargin    float64
	GSTRate               float64

	ProductionTolerancePct float64 // mass-balance slack on completion
	DefaultRiceGrade       string
	DefaultBagWeightKg     float64
	DefaultExpiryDays      int
	LowStockThresholdKg    float64

	InvoicePrefix    string
	BatchPrefix      string
	PurchasePrefix   string
	SalesOrderPrefix string
	NumberWidth      int
}

// DefaultSettings is used when no settings row exists yet.
func DefaultSettings() MillSettings {
	return MillSettings{
		MillName:               "KMG Rice Mill",
		Currency:               "LKR",
		MillingRecoveryRate:    0.67,
		OwnerSalaryPercentage:  0.25,
		TargetProfitMargin:     0.15,
		GSTRate:                5,
		ProductionTolerancePct: 0.05,
		DefaultRiceGrade:       "standard",
		DefaultBagWeightKg:     50,
		DefaultExpiryDays:      180,
		LowStockThresholdKg:    50,
		InvoicePrefix:          "INV",
		BatchPrefix:            "BATCH",
		PurchasePrefix:         "PO",
		SalesOrderPrefix:       "SO",
		NumberWidth:            4,
	}
}
