package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// FacilityService handles the facility and room registry. Room occupancy
// is owned by the allocation service; this service only touches room
// attributes.
type FacilityService struct {
	repo         repositories.FacilityRepository
	roomRepo     repositories.RoomRepository
	residentRepo repositories.ResidentRepository
}

// NewFacilityService creates a new facility service
func NewFacilityService(
	repo repositories.FacilityRepository,
	roomRepo repositories.RoomRepository,
	residentRepo repositories.ResidentRepository,
) *FacilityService {
	return &FacilityService{
		repo:         repo,
		roomRepo:     roomRepo,
		residentRepo: residentRepo,
	}
}

// List retrieves all facilities with their current room counts
func (s *FacilityService) List(ctx context.Context) ([]*entities.FacilitySummary, error) {
	facilities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entities.FacilitySummary, 0, len(facilities))
	for _, facility := range facilities {
		counts, err := s.roomRepo.CountByStatus(ctx, facility.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &entities.FacilitySummary{
			Facility:   *facility,
			RoomCounts: *counts,
		})
	}

	return summaries, nil
}

// Get retrieves a facility with its rooms, each enriched with occupant
// details when occupied.
func (s *FacilityService) Get(ctx context.Context, id string) (*entities.FacilityDetail, error) {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.GetByFacilityID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]*entities.RoomView, 0, len(rooms))
	for _, room := range rooms {
		view := &entities.RoomView{Room: *room}
		if room.CurrentResidentID != nil {
			resident, err := s.residentRepo.GetByID(ctx, *room.CurrentResidentID)
			if err != nil {
				log.Printf("Warning: Failed to load occupant %s of room %s: %v", *room.CurrentResidentID, room.ID, err)
			} else {
				name := resident.FullName()
				view.ResidentName = &name
				view.ResidentAge = resident.Age(now)
				view.ResidentCareLevel = resident.CareLevel
			}
		}
		views = append(views, view)
	}

	return &entities.FacilityDetail{
		Facility: *facility,
		Rooms:    views,
	}, nil
}

// CreateRoom adds a room to a facility. New rooms never start occupied;
// occupancy is assigned only through the allocation service.
func (s *FacilityService) CreateRoom(ctx context.Context, facilityID string, room *entities.Room) error {
	if _, err := s.repo.GetByID(ctx, facilityID); err != nil {
		return err
	}
	if strings.TrimSpace(room.Number) == "" {
		return apperrors.NewValidationError("room number is required")
	}
	if room.Status == "" {
		room.Status = entities.RoomStatusFree
	}
	if !entities.ValidRoomStatus(room.Status) {
		return apperrors.NewValidationError("unknown room status: " + string(room.Status))
	}
	if room.Status == entities.RoomStatusOccupied {
		return apperrors.NewValidationError("rooms cannot be created occupied")
	}

	now := time.Now()
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	room.FacilityID = facilityID
	room.CurrentResidentID = nil
	room.CreatedAt = now
	room.UpdatedAt = now

	return s.roomRepo.Create(ctx, room)
}

// UpdateRoom applies a partial attribute update to a room. The occupancy
// pair is not reachable through this path.
func (s *FacilityService) UpdateRoom(ctx context.Context, id string, update repositories.RoomUpdate) (*entities.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Number != nil {
		if strings.TrimSpace(*update.Number) == "" {
			return nil, apperrors.NewValidationError("room number must not be empty")
		}
		room.Number = *update.Number
	}
	if update.Name != nil {
		room.Name = update.Name
	}
	if update.AreaSqm != nil {
		room.AreaSqm = *update.AreaSqm
	}
	if update.Layout != nil {
		room.Layout = *update.Layout
	}
	if update.Notes != nil {
		room.Notes = update.Notes
	}

	if err := s.roomRepo.UpdateAttributes(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// RoomCounts returns per-status room counts for a facility
func (s *FacilityService) RoomCounts(ctx context.Context, facilityID string) (*entities.RoomCounts, error) {
	if _, err := s.repo.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.roomRepo.CountByStatus(ctx, facilityID)
}
