package repositories

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// RoomRepository defines the interface for room data operations.
//
// SetOccupancy is the only way to change the (status, current_resident_id)
// pair; UpdateAttributes deliberately cannot touch it so that occupancy
// changes always route through the allocation service.
type RoomRepository interface {
	// Create creates a new room
	Create(ctx context.Context, room *entities.Room) error

	// GetByID retrieves a room by ID
	GetByID(ctx context.Context, id string) (*entities.Room, error)

	// GetByFacilityID retrieves all rooms of a facility ordered by number
	GetByFacilityID(ctx context.Context, facilityID string) ([]*entities.Room, error)

	// GetByResidentID retrieves the room currently held by a resident
	GetByResidentID(ctx context.Context, residentID string) (*entities.Room, error)

	// UpdateAttributes updates descriptive room fields, never occupancy
	UpdateAttributes(ctx context.Context, room *entities.Room) error

	// SetOccupancy atomically writes the room's occupancy pair
	SetOccupancy(ctx context.Context, roomID string, status entities.RoomStatus, residentID *string) error

	// CountByStatus returns per-status room counts for a facility
	CountByStatus(ctx context.Context, facilityID string) (*entities.RoomCounts, error)
}

// RoomUpdate carries a partial room attribute update; nil fields are left
// untouched.
type RoomUpdate struct {
	Number  *string
	Name    *string
	AreaSqm *float64
	Layout  *entities.RoomLayout
	Notes   *string
}
