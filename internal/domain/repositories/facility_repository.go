package repositories

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// FacilityRepository defines the interface for facility data operations.
// Facilities are reference data; Create exists for seeding only.
type FacilityRepository interface {
	// Create creates a new facility
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	// List retrieves all facilities ordered by short name
	List(ctx context.Context) ([]*entities.Facility, error)
}
