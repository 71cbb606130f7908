// internal/model/project.go
package model

import (
	"time"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/google/uuid"
)

type ProjectType string

const (
	ProjectTypeExperience ProjectType = "EXP"
	ProjectTypeLife       ProjectType = "LIFE"
	ProjectTypeUpcycling  ProjectType = "UPC"
	ProjectTypePro        ProjectType = "PRO"
)

var ProjectTypes = []ProjectType{
	ProjectTypeExperience,
	ProjectTypeLife,
	ProjectTypeUpcycling,
	ProjectTypePro,
}

func (t ProjectType) Valid() bool {
	for _, v := range ProjectTypes {
		if v == t {
			return true
		}
	}
	return false
}

type ImpactType string

const (
	ImpactEnvironmental ImpactType = "ambiental"
	ImpactSocial        ImpactType = "social"
	ImpactCultural      ImpactType = "cultura"
)

var ImpactTypes = []ImpactType{ImpactEnvironmental, ImpactSocial, ImpactCultural}

func (t ImpactType) Valid() bool {
	for _, v := range ImpactTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Project struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string      `gorm:"type:text;not null" json:"name"`
	Type        ProjectType `gorm:"type:text;not null" json:"type"`
	Date        time.Time   `gorm:"not null" json:"date"`
	Description string      `gorm:"type:text" json:"description"`
	Results     string      `gorm:"type:text" json:"results"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Entries []ProjectImpactEntry `gorm:"foreignKey:ProjectID" json:"entries,omitempty"`
}

// ProjectImpactEntry is one free-text metric reported for a project.
type ProjectImpactEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	ImpactType ImpactType `gorm:"type:text;not null" json:"impact_type"`
	Metric     string     `gorm:"type:text;not null" json:"metric"`
	Value      string     `gorm:"type:text;not null" json:"value"`
	Unit       string     `gorm:"type:text" json:"unit"`
	Note       string     `gorm:"type:text" json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (e ProjectImpactEntry) ImpactEntry() impact.Entry {
	return impact.Entry{Metric: e.Metric, Value: e.Value, Unit: e.Unit}
}

// ImpactEntries converts stored entries to the classifier's input.
func ImpactEntries(entries []ProjectImpactEntry) []impact.Entry {
	out := make([]impact.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ImpactEntry())
	}
	return out
}
