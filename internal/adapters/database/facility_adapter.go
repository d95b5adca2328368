package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
	}
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	query := `
		INSERT INTO facilities (
			id, short_name, name, street, city, postal_code, country,
			capacity, floor_plan_url, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		facility.ID,
		facility.ShortName,
		facility.Name,
		facility.Address.Street,
		facility.Address.City,
		facility.Address.PostalCode,
		facility.Address.Country,
		facility.Capacity,
		facility.FloorPlanURL,
		facility.Description,
		facility.CreatedAt,
		facility.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewTransientError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query := `
		SELECT
			id, short_name, name, street, city, postal_code, country,
			capacity, floor_plan_url, description, created_at, updated_at
		FROM facilities
		WHERE id = $1
	`

	facility := &entities.Facility{}
	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(
		&facility.ID,
		&facility.ShortName,
		&facility.Name,
		&facility.Address.Street,
		&facility.Address.City,
		&facility.Address.PostalCode,
		&facility.Address.Country,
		&facility.Capacity,
		&facility.FloorPlanURL,
		&facility.Description,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewTransientError("failed to get facility", err)
	}

	return facility, nil
}

// List retrieves all facilities ordered by short name
func (a *FacilityAdapter) List(ctx context.Context) ([]*entities.Facility, error) {
	query := `
		SELECT
			id, short_name, name, street, city, postal_code, country,
			capacity, floor_plan_url, description, created_at, updated_at
		FROM facilities
		ORDER BY short_name ASC
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		facility := &entities.Facility{}
		err := rows.Scan(
			&facility.ID,
			&facility.ShortName,
			&facility.Name,
			&facility.Address.Street,
			&facility.Address.City,
			&facility.Address.PostalCode,
			&facility.Address.Country,
			&facility.Capacity,
			&facility.FloorPlanURL,
			&facility.Description,
			&facility.CreatedAt,
			&facility.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewTransientError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	return facilities, nil
}
