package impact

import (
	"math"

	"github.com/shopspring/decimal"
)

// Conversion table from counters to points.
var (
	waterLitersPerPoint = decimal.NewFromInt(2000)
	pointsPerTree       = decimal.NewFromInt(3)
	bottlesPerPoint     = decimal.NewFromInt(8)
	pointsPerVolunteer  = decimal.NewFromInt(3)
	uniformsPerPoint    = decimal.NewFromInt(2)
	co2KgPerPoint       = decimal.NewFromInt(3)
)

// Counters with more integer digits than this score at least MaxInt64 points
// in any term, so they are not divided out.
const saturationDigits = 40

var maxPoints = decimal.NewFromInt(math.MaxInt64)

// Points scores a bundle. Every term is floored before summing, so the
// result is a whole number and never decreases when a counter grows. Scores
// beyond int64 saturate at math.MaxInt64.
func Points(b Bundle) int64 {
	total := per(b.WaterLiters, waterLitersPerPoint).
		Add(times(b.TreesPlanted, pointsPerTree)).
		Add(per(b.BottlesRecycled, bottlesPerPoint)).
		Add(times(b.Volunteers, pointsPerVolunteer)).
		Add(per(b.UniformsRecycled, uniformsPerPoint)).
		Add(per(b.CO2Kg, co2KgPerPoint))

	if total.GreaterThanOrEqual(maxPoints) {
		return math.MaxInt64
	}
	return total.IntPart()
}

// per is floor(v / unit) for unit >= 1.
func per(v, unit decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 || integerDigits(v) < integerDigits(unit) {
		return decimal.Zero
	}
	if integerDigits(v) > saturationDigits {
		return maxPoints
	}
	q, _ := v.QuoRem(unit, 0)
	return q
}

// times is floor(v * factor) for a one-digit factor.
func times(v, factor decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 || integerDigits(v) < 0 {
		return decimal.Zero
	}
	if integerDigits(v) > saturationDigits {
		return maxPoints
	}
	return v.Mul(factor).Floor()
}
