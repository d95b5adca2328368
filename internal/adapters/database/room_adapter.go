package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

var roomColumns = []interface{}{
	"id", "facility_id", "number", "name", "area_sqm", "status",
	"current_resident_id", "position_x", "position_y", "width", "height",
	"notes", "created_at", "updated_at",
}

// RoomAdapter implements the RoomRepository interface
type RoomAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRoomAdapter creates a new room adapter
func NewRoomAdapter(client *postgres.Client) repositories.RoomRepository {
	return &RoomAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new room
func (a *RoomAdapter) Create(ctx context.Context, room *entities.Room) error {
	record := goqu.Record{
		"id":                  room.ID,
		"facility_id":         room.FacilityID,
		"number":              room.Number,
		"name":                nullString(room.Name),
		"area_sqm":            room.AreaSqm,
		"status":              string(room.Status),
		"current_resident_id": nullString(room.CurrentResidentID),
		"position_x":          room.Layout.PositionX,
		"position_y":          room.Layout.PositionY,
		"width":               room.Layout.Width,
		"height":              room.Layout.Height,
		"notes":               nullString(room.Notes),
		"created_at":          room.CreatedAt,
		"updated_at":          room.UpdatedAt,
	}

	query, args, err := a.db.Insert("rooms").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to create room", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (a *RoomAdapter) GetByID(ctx context.Context, id string) (*entities.Room, error) {
	query, args, err := a.db.Select(roomColumns...).From("rooms").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	room, err := a.scanRoom(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("room with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewTransientError("failed to get room", err)
	}

	return room, nil
}

// GetByFacilityID retrieves all rooms of a facility ordered by number
func (a *RoomAdapter) GetByFacilityID(ctx context.Context, facilityID string) ([]*entities.Room, error) {
	query, args, err := a.db.Select(roomColumns...).From("rooms").
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.I("number").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list rooms", err)
	}
	defer rows.Close()

	var rooms []*entities.Room
	for rows.Next() {
		room, err := a.scanRoom(rows)
		if err != nil {
			return nil, apperrors.NewTransientError("failed to scan room", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// GetByResidentID retrieves the room currently held by a resident
func (a *RoomAdapter) GetByResidentID(ctx context.Context, residentID string) (*entities.Room, error) {
	query, args, err := a.db.Select(roomColumns...).From("rooms").
		Where(goqu.Ex{"current_resident_id": residentID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	room, err := a.scanRoom(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no room held by resident %s", residentID))
	}
	if err != nil {
		return nil, apperrors.NewTransientError("failed to get room", err)
	}

	return room, nil
}

// UpdateAttributes updates descriptive room fields. The occupancy pair is
// intentionally absent from the record: it changes only via SetOccupancy.
func (a *RoomAdapter) UpdateAttributes(ctx context.Context, room *entities.Room) error {
	record := goqu.Record{
		"number":     room.Number,
		"name":       nullString(room.Name),
		"area_sqm":   room.AreaSqm,
		"position_x": room.Layout.PositionX,
		"position_y": room.Layout.PositionY,
		"width":      room.Layout.Width,
		"height":     room.Layout.Height,
		"notes":      nullString(room.Notes),
		"updated_at": time.Now(),
	}

	query, args, err := a.db.Update("rooms").
		Set(record).
		Where(goqu.Ex{"id": room.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to update room", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("room with id %s not found", room.ID))
}

// SetOccupancy atomically writes the room's occupancy pair
func (a *RoomAdapter) SetOccupancy(ctx context.Context, roomID string, status entities.RoomStatus, residentID *string) error {
	record := goqu.Record{
		"status":              string(status),
		"current_resident_id": nullString(residentID),
		"updated_at":          time.Now(),
	}

	query, args, err := a.db.Update("rooms").
		Set(record).
		Where(goqu.Ex{"id": roomID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to set room occupancy", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("room with id %s not found", roomID))
}

// CountByStatus returns per-status room counts for a facility
func (a *RoomAdapter) CountByStatus(ctx context.Context, facilityID string) (*entities.RoomCounts, error) {
	query, args, err := a.db.Select("status", goqu.COUNT("*").As("count")).
		From("rooms").
		Where(goqu.Ex{"facility_id": facilityID}).
		GroupBy("status").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to count rooms", err)
	}
	defer rows.Close()

	counts := &entities.RoomCounts{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewTransientError("failed to scan room count", err)
		}
		// Renovation rooms are tracked but stay outside the
		// free+occupied+reserved == total identity.
		switch entities.RoomStatus(status) {
		case entities.RoomStatusFree:
			counts.Free = count
			counts.Total += count
		case entities.RoomStatusOccupied:
			counts.Occupied = count
			counts.Total += count
		case entities.RoomStatusReserved:
			counts.Reserved = count
			counts.Total += count
		case entities.RoomStatusRenovation:
			counts.Renovation = count
		}
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *RoomAdapter) scanRoom(row rowScanner) (*entities.Room, error) {
	room := &entities.Room{}
	var name, residentID, notes sql.NullString

	err := row.Scan(
		&room.ID,
		&room.FacilityID,
		&room.Number,
		&name,
		&room.AreaSqm,
		&room.Status,
		&residentID,
		&room.Layout.PositionX,
		&room.Layout.PositionY,
		&room.Layout.Width,
		&room.Layout.Height,
		&notes,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	room.Name = stringPtr(name)
	room.CurrentResidentID = stringPtr(residentID)
	room.Notes = stringPtr(notes)

	return room, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	value := ns.String
	return &value
}

func requireRowsAffected(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewTransientError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return nil
}
