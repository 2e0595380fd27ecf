package economics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmgmill/ricemill-api/internal/domain/economics"
)

// ─────────────────────────────────────────────────────────────────────
// Safe arithmetic
// ─────────────────────────────────────────────────────────────────────

func TestSafeNumber(t *testing.T) {
	assert.Equal(t, 0.0, economics.SafeNumber(math.NaN()))
	assert.Equal(t, 0.0, economics.SafeNumber(math.Inf(1)))
	assert.Equal(t, 0.0, economics.SafeNumber(math.Inf(-1)))
	assert.Equal(t, 42.5, economics.SafeNumber(42.5))
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, economics.SafeDivide(10, 5, 0))
	assert.Equal(t, 0.0, economics.SafeDivide(10, 0, 0))
	assert.Equal(t, -1.0, economics.SafeDivide(10, 0, -1))
	assert.Equal(t, 0.0, economics.SafeDivide(math.NaN(), 5, 0))
	assert.Equal(t, 0.0, economics.SafeDivide(10, math.Inf(1), 0))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 1.23, economics.Round(1.234))
	assert.Equal(t, 1.24, economics.Round(1.235))
	assert.Equal(t, 1.24, economics.Round(1.236))
	assert.Equal(t, 0.0, economics.Round(math.NaN()))
	// ties round toward +inf, not away from zero
	assert.Equal(t, -1.23, economics.Round(-1.235))
}

// ─────────────────────────────────────────────────────────────────────
// Yield and costing
// ─────────────────────────────────────────────────────────────────────

func TestPaddyRequirement(t *testing.T) {
	assert.Equal(t, 1492.54, economics.PaddyRequirement(1000, 0.67))
	assert.Equal(t, 0.0, economics.PaddyRequirement(0, 0.67))
	// zero rate falls back to default rather than dividing by zero
	assert.Equal(t, 1492.54, economics.PaddyRequirement(1000, 0))
}

func TestCOGSAndRevenuePerKg(t *testing.T) {
	assert.Equal(t, 62.5, economics.COGSPerKg(125000, 2000))
	assert.Equal(t, 0.0, economics.COGSPerKg(125000, 0))
	assert.Equal(t, 95.0, economics.RevenuePerKg(190000, 2000))
	assert.Equal(t, 0.0, economics.RevenuePerKg(190000, 0))
}

// ─────────────────────────────────────────────────────────────────────
// Profit waterfall
// ─────────────────────────────────────────────────────────────────────

func TestProfitWaterfall(t *testing.T) {
	gross := economics.GrossProfit(190000, 125000)
	assert.Equal(t, 65000.0, gross)

	net := economics.NetProfitBeforeOwner(gross, 20000)
	assert.Equal(t, 45000.0, net)

	salary := economics.OwnerSalary(net, 0.25)
	assert.Equal(t, 11250.0, salary)

	assert.Equal(t, 33750.0, economics.FinalNetProfit(net, salary))
}

func TestOwnerSalaryNoProfitNoSalary(t *testing.T) {
	assert.Equal(t, 0.0, economics.OwnerSalary(0, 0.25))
	assert.Equal(t, 0.0, economics.OwnerSalary(-5000, 0.25))
}

func TestOwnerSalaryZeroPctTakesNothing(t *testing.T) {
	assert.Equal(t, 0.0, economics.OwnerSalary(10000, 0))
}

func TestBreakEvenKg(t *testing.T) {
	be := economics.BreakEvenKg(30000, 32.5)
	require.NotNil(t, be)
	assert.Equal(t, 923.08, *be)

	// zero margin means break-even is undefined, not zero
	assert.Nil(t, economics.BreakEvenKg(30000, 0))
}

func TestRecommendedPrice(t *testing.T) {
	assert.Equal(t, 72.5, economics.RecommendedPrice(62.5, 10))
}

// ─────────────────────────────────────────────────────────────────────
// Depreciation
// ─────────────────────────────────────────────────────────────────────

func TestStraightLineDepreciation(t *testing.T) {
	d := economics.StraightLineDepreciation(100000, 0.10, 10)
	assert.Equal(t, 10000.0, d.ScrapValue)
	assert.Equal(t, 9000.0, d.Annual)
	assert.Equal(t, 750.0, d.Monthly)
}

func TestStraightLineDepreciationSkipsDegenerateMachines(t *testing.T) {
	assert.Equal(t, economics.Depreciation{}, economics.StraightLineDepreciation(0, 0.10, 10))
	assert.Equal(t, economics.Depreciation{}, economics.StraightLineDepreciation(100000, 0.10, 0))
}
