package repositories

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

// CommunicationRepository defines the interface for the contact-event log
type CommunicationRepository interface {
	// Create appends a communication entry
	Create(ctx context.Context, communication *entities.Communication) error

	// ListByResident returns a resident's communications, most recent first
	ListByResident(ctx context.Context, residentID string) ([]*entities.Communication, error)

	// DeleteByResident removes all entries of a resident (cascade only)
	DeleteByResident(ctx context.Context, residentID string) error
}
