package database

import (
	"context"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// ActivityAdapter implements the ActivityRepository interface
type ActivityAdapter struct {
	client *postgres.Client
}

// NewActivityAdapter creates a new activity adapter
func NewActivityAdapter(client *postgres.Client) repositories.ActivityRepository {
	return &ActivityAdapter{
		client: client,
	}
}

// Create appends an activity entry
func (a *ActivityAdapter) Create(ctx context.Context, activity *entities.Activity) error {
	query := `
		INSERT INTO activities (
			id, resident_id, actor, action, before_value, after_value, created_at
		) VALUES (
			:id, :resident_id, :actor, :action, :before_value, :after_value, :created_at
		)
	`

	if _, err := a.client.DBX().NamedExecContext(ctx, query, activity); err != nil {
		return apperrors.NewTransientError("failed to create activity", err)
	}

	return nil
}

// ListByResident returns a resident's activities, most recent first
func (a *ActivityAdapter) ListByResident(ctx context.Context, residentID string) ([]*entities.Activity, error) {
	query := `
		SELECT id, resident_id, actor, action, before_value, after_value, created_at
		FROM activities
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`

	var activities []*entities.Activity
	if err := a.client.DBX().SelectContext(ctx, &activities, query, residentID); err != nil {
		return nil, apperrors.NewTransientError("failed to list activities", err)
	}

	return activities, nil
}

// DeleteByResident removes all entries of a resident
func (a *ActivityAdapter) DeleteByResident(ctx context.Context, residentID string) error {
	query := `DELETE FROM activities WHERE resident_id = $1`

	if _, err := a.client.DBX().ExecContext(ctx, query, residentID); err != nil {
		return apperrors.NewTransientError("failed to delete activities", err)
	}

	return nil
}
