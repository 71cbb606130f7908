package audit

import (
	"context"

	"github.com/dangerclosesec/greenhug/internal/impact"
	"github.com/google/uuid"
)

// Change describes one mutation of a company's accumulated impact.
type Change struct {
	CompanyID    uuid.UUID
	ProjectID    *uuid.UUID
	Action       string
	Delta        impact.Bundle
	PointsBefore int64
	PointsAfter  int64
	Unclassified int
}

// Logger defines the interface for the impact ledger
type Logger interface {
	// LogImpactChange records a mutation. It is called inside the transaction
	// that applies the mutation, with that transaction's context.
	LogImpactChange(ctx context.Context, change Change) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogImpactChange implements Logger.LogImpactChange
func (l *NoOpLogger) LogImpactChange(ctx context.Context, change Change) error {
	return nil
}
