// internal/model/company.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type IndustryType string

const (
	IndustryManufacturing   IndustryType = "Manufactura"
	IndustryRetail          IndustryType = "Retail"
	IndustryServices        IndustryType = "Servicios"
	IndustryTechnology      IndustryType = "Tecnologia"
	IndustryFood            IndustryType = "Alimentos"
	IndustryConstruction    IndustryType = "Construccion"
	IndustryLogistics       IndustryType = "Logistica"
	IndustryPharmaceuticals IndustryType = "Farmaceutica"
)

// IndustryTypes lists every accepted industry type.
var IndustryTypes = []IndustryType{
	IndustryManufacturing,
	IndustryRetail,
	IndustryServices,
	IndustryTechnology,
	IndustryFood,
	IndustryConstruction,
	IndustryLogistics,
	IndustryPharmaceuticals,
}

func (t IndustryType) Valid() bool {
	for _, v := range IndustryTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Region string

const (
	RegionNorth        Region = "Norte"
	RegionSouth        Region = "Sur"
	RegionCenter       Region = "Centro"
	RegionMetropolitan Region = "Metropolitana"
)

// Regions lists every accepted region.
var Regions = []Region{RegionNorth, RegionSouth, RegionCenter, RegionMetropolitan}

func (r Region) Valid() bool {
	for _, v := range Regions {
		if v == r {
			return true
		}
	}
	return false
}

type Company struct {
	ID                uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name              string       `gorm:"type:text;not null" json:"name"`
	IndustryType      IndustryType `gorm:"type:text;not null" json:"industry_type"`
	Region            Region       `gorm:"type:text;not null;index" json:"region"`
	City              string       `gorm:"type:text;not null" json:"city"`
	Country           string       `gorm:"type:text;not null" json:"country"`
	ImpactDescription string       `gorm:"type:text" json:"impact_description"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`

	Projects []Project      `gorm:"foreignKey:CompanyID" json:"projects,omitempty"`
	Impact   *CompanyImpact `gorm:"foreignKey:CompanyID" json:"impact,omitempty"`
}
