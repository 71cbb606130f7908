package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImpactAuditLog records one mutation of a company's accumulated impact.
type ImpactAuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Timestamp    time.Time      `json:"timestamp" gorm:"default:CURRENT_TIMESTAMP;index"`
	CompanyID    uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	ProjectID    *uuid.UUID     `json:"project_id,omitempty" gorm:"type:uuid"`
	ActionType   string         `json:"action_type" gorm:"type:text;not null"`
	Delta        datatypes.JSON `json:"delta" gorm:"type:jsonb"`
	PointsBefore int64          `json:"points_before"`
	PointsAfter  int64          `json:"points_after"`
	Unclassified int            `json:"unclassified"`
	RequestID    string         `json:"request_id"`
	CreatedAt    time.Time      `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for ImpactAuditLog
func (ImpactAuditLog) TableName() string {
	return "impact_audit_logs"
}

// Constants for ImpactAuditLog action types
const (
	ActionProjectCreated   = "project_created"
	ActionEntriesAdded     = "entries_added"
	ActionProjectDeleted   = "project_deleted"
	ActionManualAdjustment = "manual_adjustment"
	ActionRebuild          = "rebuild"
)
