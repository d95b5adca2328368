package database

import (
	"context"

	"github.com/lib/pq"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// CommunicationAdapter implements the CommunicationRepository interface
type CommunicationAdapter struct {
	client *postgres.Client
}

// NewCommunicationAdapter creates a new communication adapter
func NewCommunicationAdapter(client *postgres.Client) repositories.CommunicationRepository {
	return &CommunicationAdapter{
		client: client,
	}
}

// Create appends a communication entry
func (a *CommunicationAdapter) Create(ctx context.Context, communication *entities.Communication) error {
	query := `
		INSERT INTO communications (
			id, resident_id, type, subject, body, attachments, author, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := a.client.DBX().ExecContext(ctx, query,
		communication.ID,
		communication.ResidentID,
		string(communication.Type),
		communication.Subject,
		communication.Body,
		pq.Array(communication.Attachments),
		communication.Author,
		communication.CreatedAt,
	)
	if err != nil {
		return apperrors.NewTransientError("failed to create communication", err)
	}

	return nil
}

// ListByResident returns a resident's communications, most recent first
func (a *CommunicationAdapter) ListByResident(ctx context.Context, residentID string) ([]*entities.Communication, error) {
	query := `
		SELECT id, resident_id, type, subject, body, attachments, author, created_at
		FROM communications
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`

	rows, err := a.client.DBX().QueryContext(ctx, query, residentID)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list communications", err)
	}
	defer rows.Close()

	var communications []*entities.Communication
	for rows.Next() {
		communication := &entities.Communication{}
		var attachments pq.StringArray
		err := rows.Scan(
			&communication.ID,
			&communication.ResidentID,
			&communication.Type,
			&communication.Subject,
			&communication.Body,
			&attachments,
			&communication.Author,
			&communication.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewTransientError("failed to scan communication", err)
		}
		communication.Attachments = []string(attachments)
		communications = append(communications, communication)
	}

	return communications, nil
}

// DeleteByResident removes all entries of a resident
func (a *CommunicationAdapter) DeleteByResident(ctx context.Context, residentID string) error {
	query := `DELETE FROM communications WHERE resident_id = $1`

	if _, err := a.client.DBX().ExecContext(ctx, query, residentID); err != nil {
		return apperrors.NewTransientError("failed to delete communications", err)
	}

	return nil
}
