package repositories

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// DocumentRepository defines the interface for stored blob references
type DocumentRepository interface {
	// Create stores a document reference
	Create(ctx context.Context, document *entities.Document) error

	// GetByID retrieves a document reference by ID
	GetByID(ctx context.Context, id string) (*entities.Document, error)

	// ListByResident returns a resident's documents, most recent first
	ListByResident(ctx context.Context, residentID string) ([]*entities.Document, error)

	// DeleteByResident removes all references of a resident (cascade only)
	DeleteByResident(ctx context.Context, residentID string) error
}
