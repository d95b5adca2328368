package repositories

import (
	"context"
	"time"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// ResidentRepository defines the interface for resident data operations
type ResidentRepository interface {
	// Create creates a new resident
	Create(ctx context.Context, resident *entities.Resident) error

	// GetByID retrieves a resident by ID
	GetByID(ctx context.Context, id string) (*entities.Resident, error)

	// List retrieves residents matching the filter, newest request first
	List(ctx context.Context, filter ResidentFilter) ([]*entities.Resident, error)

	// Update persists the full resident record
	Update(ctx context.Context, resident *entities.Resident) error

	// Delete removes a resident record
	Delete(ctx context.Context, id string) error
}

// ResidentFilter defines filters for listing residents
type ResidentFilter struct {
	// Status matches the exact pipeline status when non-empty
	Status entities.ResidentStatus

	// PreferredFacilityID matches residents whose preferred-facility list
	// contains the given facility
	PreferredFacilityID string
}

// ResidentUpdate carries a partial resident update; nil fields are left
// untouched (partial-update semantics, not full replacement).
type ResidentUpdate struct {
	FirstName            *string
	LastName             *string
	BirthDate            *string
	Gender               *string
	CareLevel            *int
	CareNotes            *string
	EmergencyContact     *entities.EmergencyContact
	IntakeSource         *string
	Referrer             *string
	Urgency              *entities.Urgency
	PreferredFacilityIDs *[]string
	Status               *entities.ResidentStatus
	RoomID               *string
	MoveOutDate          *time.Time
	MoveOutReason        *string
}
