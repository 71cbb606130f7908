// Package impact turns project-level metric entries into the normalized
// counters a company accumulates, and scores those counters in points.
package impact

import (
	"github.com/shopspring/decimal"
)

// Counters are stored as NUMERIC(20,4): four decimals and at most sixteen
// integer digits.
const (
	Scale            = 4
	maxIntegerDigits = 16
)

// MaxCounter is the largest value a stored counter can hold.
var MaxCounter = decimal.New(1, maxIntegerDigits).Sub(decimal.New(1, -Scale))

func init() {
	// Counters are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Field identifies one counter of a Bundle.
type Field int

const (
	FieldNone Field = iota
	FieldTreesPlanted
	FieldWaterLiters
	FieldBottlesRecycled
	FieldVolunteers
	FieldUniformsRecycled
	FieldCO2Kg
)

// Fields lists every counter in a stable order.
var Fields = []Field{
	FieldTreesPlanted,
	FieldWaterLiters,
	FieldBottlesRecycled,
	FieldVolunteers,
	FieldUniformsRecycled,
	FieldCO2Kg,
}

func (f Field) String() string {
	switch f {
	case FieldTreesPlanted:
		return "trees_planted"
	case FieldWaterLiters:
		return "water_liters"
	case FieldBottlesRecycled:
		return "bottles_recycled"
	case FieldVolunteers:
		return "volunteers"
	case FieldUniformsRecycled:
		return "uniforms_recycled"
	case FieldCO2Kg:
		return "co2_kg"
	default:
		return "unclassified"
	}
}

// Bundle is the normalized set of impact counters. The zero value is an
// all-zero bundle.
type Bundle struct {
	TreesPlanted     decimal.Decimal `json:"trees_planted"`
	WaterLiters      decimal.Decimal `json:"water_liters"`
	BottlesRecycled  decimal.Decimal `json:"bottles_recycled"`
	Volunteers       decimal.Decimal `json:"volunteers"`
	UniformsRecycled decimal.Decimal `json:"uniforms_recycled"`
	CO2Kg            decimal.Decimal `json:"co2_kg"`
}

func (b *Bundle) field(f Field) *decimal.Decimal {
	switch f {
	case FieldTreesPlanted:
		return &b.TreesPlanted
	case FieldWaterLiters:
		return &b.WaterLiters
	case FieldBottlesRecycled:
		return &b.BottlesRecycled
	case FieldVolunteers:
		return &b.Volunteers
	case FieldUniformsRecycled:
		return &b.UniformsRecycled
	case FieldCO2Kg:
		return &b.CO2Kg
	default:
		return nil
	}
}

// Get returns the value of a single counter. FieldNone reads as zero.
func (b Bundle) Get(f Field) decimal.Decimal {
	if p := b.field(f); p != nil {
		return *p
	}
	return decimal.Zero
}

// With returns a copy of b with v added to counter f.
func (b Bundle) With(f Field, v decimal.Decimal) Bundle {
	if p := b.field(f); p != nil {
		*p = p.Add(v)
	}
	return b
}

// Add sums two bundles field by field.
func (b Bundle) Add(o Bundle) Bundle {
	for _, f := range Fields {
		b = b.With(f, o.Get(f))
	}
	return b
}

// SubtractFloor subtracts o from b field by field, clamping every result at
// zero.
func (b Bundle) SubtractFloor(o Bundle) Bundle {
	for _, f := range Fields {
		p := b.field(f)
		*p = decimal.Max(decimal.Zero, p.Sub(o.Get(f)))
	}
	return b
}

// Diff returns b - o field by field, without flooring. It describes how a
// record changed and may be negative.
func (b Bundle) Diff(o Bundle) Bundle {
	for _, f := range Fields {
		p := b.field(f)
		*p = p.Sub(o.Get(f))
	}
	return b
}

// Clamp brings every counter into the stored range with Bound.
func (b Bundle) Clamp() Bundle {
	for _, f := range Fields {
		p := b.field(f)
		*p = Bound(*p)
	}
	return b
}

// Bound rounds v half away from zero to Scale decimals, as Postgres does on
// store, and limits the result to [0, MaxCounter]. Values far outside the
// range are resolved from their digit count without rescaling them.
func Bound(v decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 {
		return decimal.Zero
	}
	switch digits := integerDigits(v); {
	case digits > maxIntegerDigits:
		return MaxCounter
	case digits < -Scale:
		return decimal.Zero
	}
	return decimal.Min(v.Round(Scale), MaxCounter)
}

// integerDigits returns n such that 10^(n-1) <= |v| < 10^n, for v != 0.
func integerDigits(v decimal.Decimal) int64 {
	return int64(v.NumDigits()) + int64(v.Exponent())
}

// InRange reports whether every counter fits a stored column without being
// capped.
func (b Bundle) InRange() bool {
	for _, f := range Fields {
		if b.Get(f).GreaterThan(MaxCounter) {
			return false
		}
	}
	return true
}

// IsZero reports whether every counter is zero.
func (b Bundle) IsZero() bool {
	for _, f := range Fields {
		if !b.Get(f).IsZero() {
			return false
		}
	}
	return true
}

// Equal compares counters numerically, ignoring decimal scale.
func (b Bundle) Equal(o Bundle) bool {
	for _, f := range Fields {
		if !b.Get(f).Equal(o.Get(f)) {
			return false
		}
	}
	return true
}
