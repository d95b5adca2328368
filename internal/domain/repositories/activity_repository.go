package repositories

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// ActivityRepository defines the interface for the append-only audit trail
type ActivityRepository interface {
	// Create appends an activity entry
	Create(ctx context.Context, activity *entities.Activity) error

	// ListByResident returns a resident's activities, most recent first
	ListByResident(ctx context.Context, residentID string) ([]*entities.Activity, error)

	// DeleteByResident removes all entries of a resident (cascade only)
	DeleteByResident(ctx context.Context, residentID string) error
}
