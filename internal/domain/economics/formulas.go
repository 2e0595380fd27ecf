// Package economics holds the pure calculation rules of the mill:
// yield planning, per-kg costing, profit waterfall, break-even and
// depreciation. Every function guards against NaN/Infinity inputs and
// rounds to 2 decimals, so aggregated figures stay stable no matter
// how dirty the underlying records are.
package economics

import "math"

const (
	DefaultRecoveryRate   = 0.67
	DefaultOwnerSalaryPct = 0.25
)

// SafeNumber coerces NaN and ±Inf to zero.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeDivide returns fallback when the denominator is zero (or not finite).
func SafeDivide(numerator, denominator, fallback float64) float64 {
	num := SafeNumber(numerator)
	den := SafeNumber(denominator)
	if den == 0 {
		return fallback
	}
	return num / den
}

// Round rounds half-up to 2 decimals. Half-up means ties go toward
// positive infinity: Round(2.675) == 2.68, Round(-2.5) at 0 decimals
// would be -2.
func Round(v float64) float64 {
	return math.Floor(SafeNumber(v)*100+0.5) / 100
}

// PaddyRequirement returns the paddy needed to mill targetRiceKg of
// rice at the given recovery rate. Zero targets cost zero paddy; a
// zero rate falls back to the default.
func PaddyRequirement(targetRiceKg, recoveryRate float64) float64 {
	if targetRiceKg == 0 {
		return 0
	}
	rate := recoveryRate
	if rate == 0 {
		rate = DefaultRecoveryRate
	}
	return Round(SafeDivide(targetRiceKg, rate, 0))
}

// COGSPerKg is paddy cost spread over rice output.
func COGSPerKg(totalPaddyCost, totalRiceOutputKg float64) float64 {
	return Round(SafeDivide(totalPaddyCost, totalRiceOutputKg, 0))
}

// RevenuePerKg is sales revenue spread over rice sold.
func RevenuePerKg(totalRevenue, totalRiceSoldKg float64) float64 {
	return Round(SafeDivide(totalRevenue, totalRiceSoldKg, 0))
}

func GrossProfit(totalRevenue, totalPaddyCost float64) float64 {
	return Round(totalRevenue - totalPaddyCost)
}

func GrossProfitPerKg(revenuePerKg, cogsPerKg float64) float64 {
	return Round(revenuePerKg - cogsPerKg)
}

func NetProfitBeforeOwner(grossProfit, totalOpex float64) float64 {
	return Round(grossProfit - totalOpex)
}

// OwnerSalary takes a share of profit only when there is profit. The
// percentage is used as given; callers resolve defaults before calling.
func OwnerSalary(netProfitBeforeOwner, ownerPct float64) float64 {
	if netProfitBeforeOwner <= 0 {
		return 0
	}
	return Round(netProfitBeforeOwner * ownerPct)
}

func FinalNetProfit(netProfitBeforeOwner, ownerSalary float64) float64 {
	return Round(netProfitBeforeOwner - ownerSalary)
}

// BreakEvenKg returns nil when profit per kg is zero: with no margin
// there is no volume at which fixed costs are recovered, and that is a
// different answer than "zero kg".
func BreakEvenKg(fixedCosts, profitPerKg float64) *float64 {
	if profitPerKg == 0 {
		return nil
	}
	v := Round(SafeDivide(fixedCosts, profitPerKg, 0))
	return &v
}

// RecommendedPrice is cost plus the desired margin, both per kg.
func RecommendedPrice(cogsPerKg, desiredMarginPerKg float64) float64 {
	return Round(cogsPerKg + desiredMarginPerKg)
}

// Depreciation is the straight-line schedule for one machine.
type Depreciation struct {
	ScrapValue float64
	Annual     float64
	Monthly    float64
}

// StraightLineDepreciation computes scrap value and annual/monthly
// charges. Machines with zero cost or zero useful life depreciate
// nothing.
func StraightLineDepreciation(cost, scrapPct float64, usefulLifeYears int) Depreciation {
	if cost == 0 || usefulLifeYears == 0 {
		return Depreciation{}
	}
	scrap := Round(cost * scrapPct)
	annual := Round((cost - scrap) / float64(usefulLifeYears))
	monthly := Round(annual / 12)
	return Depreciation{ScrapValue: scrap, Annual: annual, Monthly: monthly}
}
