package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

var residentColumns = []interface{}{
	"id", "first_name", "last_name", "birth_date", "gender", "care_level",
	"care_notes", "contact_name", "contact_relationship", "contact_phone",
	"contact_email", "intake_source", "referrer", "urgency",
	"preferred_facility_ids", "status", "room_id", "move_in_date",
	"move_out_date", "move_out_reason", "requested_at", "created_at",
	"updated_at",
}

// ResidentAdapter implements the ResidentRepository interface
type ResidentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewResidentAdapter creates a new resident adapter
func NewResidentAdapter(client *postgres.Client) repositories.ResidentRepository {
	return &ResidentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new resident
func (a *ResidentAdapter) Create(ctx context.Context, resident *entities.Resident) error {
	query, args, err := a.db.Insert("residents").Rows(a.record(resident, true)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to create resident", err)
	}

	return nil
}

// GetByID retrieves a resident by ID
func (a *ResidentAdapter) GetByID(ctx context.Context, id string) (*entities.Resident, error) {
	query, args, err := a.db.Select(residentColumns...).From("residents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	resident, err := a.scanResident(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("resident with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewTransientError("failed to get resident", err)
	}

	return resident, nil
}

// List retrieves residents matching the filter, newest request first
func (a *ResidentAdapter) List(ctx context.Context, filter repositories.ResidentFilter) ([]*entities.Resident, error) {
	ds := a.db.Select(residentColumns...).From("residents")

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}
	if filter.PreferredFacilityID != "" {
		ds = ds.Where(goqu.L("? = ANY(preferred_facility_ids)", filter.PreferredFacilityID))
	}

	query, args, err := ds.Order(goqu.I("requested_at").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list residents", err)
	}
	defer rows.Close()

	var residents []*entities.Resident
	for rows.Next() {
		resident, err := a.scanResident(rows)
		if err != nil {
			return nil, apperrors.NewTransientError("failed to scan resident", err)
		}
		residents = append(residents, resident)
	}

	return residents, nil
}

// Update persists the full resident record
func (a *ResidentAdapter) Update(ctx context.Context, resident *entities.Resident) error {
	query, args, err := a.db.Update("residents").
		Set(a.record(resident, false)).
		Where(goqu.Ex{"id": resident.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to update resident", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("resident with id %s not found", resident.ID))
}

// Delete removes a resident record
func (a *ResidentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("residents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to delete resident", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("resident with id %s not found", id))
}

func (a *ResidentAdapter) record(r *entities.Resident, includeID bool) goqu.Record {
	record := goqu.Record{
		"first_name":             r.FirstName,
		"last_name":              r.LastName,
		"birth_date":             r.BirthDate,
		"gender":                 r.Gender,
		"care_level":             nullInt(r.CareLevel),
		"care_notes":             r.CareNotes,
		"contact_name":           r.EmergencyContact.Name,
		"contact_relationship":   r.EmergencyContact.Relationship,
		"contact_phone":          r.EmergencyContact.Phone,
		"contact_email":          r.EmergencyContact.Email,
		"intake_source":          r.IntakeSource,
		"referrer":               r.Referrer,
		"urgency":                string(r.Urgency),
		"preferred_facility_ids": pq.Array(r.PreferredFacilityIDs),
		"status":                 string(r.Status),
		"room_id":                nullString(r.RoomID),
		"move_in_date":           r.MoveInDate,
		"move_out_date":          r.MoveOutDate,
		"move_out_reason":        nullString(r.MoveOutReason),
		"requested_at":           r.RequestedAt,
		"updated_at":             r.UpdatedAt,
	}
	if includeID {
		record["id"] = r.ID
		record["created_at"] = r.CreatedAt
	}
	return record
}

func (a *ResidentAdapter) scanResident(row rowScanner) (*entities.Resident, error) {
	resident := &entities.Resident{}
	var careLevel sql.NullInt64
	var roomID, moveOutReason sql.NullString
	var moveInDate, moveOutDate sql.NullTime
	var preferred pq.StringArray

	err := row.Scan(
		&resident.ID,
		&resident.FirstName,
		&resident.LastName,
		&resident.BirthDate,
		&resident.Gender,
		&careLevel,
		&resident.CareNotes,
		&resident.EmergencyContact.Name,
		&resident.EmergencyContact.Relationship,
		&resident.EmergencyContact.Phone,
		&resident.EmergencyContact.Email,
		&resident.IntakeSource,
		&resident.Referrer,
		&resident.Urgency,
		&preferred,
		&resident.Status,
		&roomID,
		&moveInDate,
		&moveOutDate,
		&moveOutReason,
		&resident.RequestedAt,
		&resident.CreatedAt,
		&resident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if careLevel.Valid {
		value := int(careLevel.Int64)
		resident.CareLevel = &value
	}
	resident.PreferredFacilityIDs = []string(preferred)
	resident.RoomID = stringPtr(roomID)
	if moveInDate.Valid {
		resident.MoveInDate = &moveInDate.Time
	}
	if moveOutDate.Valid {
		resident.MoveOutDate = &moveOutDate.Time
	}
	resident.MoveOutReason = stringPtr(moveOutReason)

	return resident, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
