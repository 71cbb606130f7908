// internal/model/company_impact.go
package model

import (
	"time"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyImpact is the accumulated impact of a company. There is at most one
// row per company; it is created the first time a project is aggregated.
type CompanyImpact struct {
	CompanyID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"company_id"`
	TreesPlanted        decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"trees_planted"`
	WaterLiters         decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"water_liters"`
	BottlesRecycled     decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"bottles_recycled"`
	Volunteers          decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"volunteers"`
	UniformsRecycled    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"uniforms_recycled"`
	CO2Kg               decimal.Decimal `gorm:"column:co2_kg;type:numeric(20,4);not null;default:0" json:"co2_kg"`
	TotalPoints         int64           `gorm:"not null;default:0;index" json:"total_points"`
	UnclassifiedEntries int64           `gorm:"not null;default:0" json:"unclassified_entries"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// NewCompanyImpact returns the all-zero record for a company.
func NewCompanyImpact(companyID uuid.UUID) *CompanyImpact {
	return &CompanyImpact{
		CompanyID:        companyID,
		TreesPlanted:     decimal.Zero,
		WaterLiters:      decimal.Zero,
		BottlesRecycled:  decimal.Zero,
		Volunteers:       decimal.Zero,
		UniformsRecycled: decimal.Zero,
		CO2Kg:            decimal.Zero,
	}
}

func (c *CompanyImpact) Bundle() impact.Bundle {
	return impact.Bundle{
		TreesPlanted:     c.TreesPlanted,
		WaterLiters:      c.WaterLiters,
		BottlesRecycled:  c.BottlesRecycled,
		Volunteers:       c.Volunteers,
		UniformsRecycled: c.UniformsRecycled,
		CO2Kg:            c.CO2Kg,
	}
}

// SetBundle replaces the counters and recomputes TotalPoints.
func (c *CompanyImpact) SetBundle(b impact.Bundle) {
	b = b.Clamp()
	c.TreesPlanted = b.TreesPlanted
	c.WaterLiters = b.WaterLiters
	c.BottlesRecycled = b.BottlesRecycled
	c.Volunteers = b.Volunteers
	c.UniformsRecycled = b.UniformsRecycled
	c.CO2Kg = b.CO2Kg
	c.TotalPoints = impact.Points(b)
}
