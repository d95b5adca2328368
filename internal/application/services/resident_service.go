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

// ResidentService handles the resident intake-to-departure lifecycle
type ResidentService struct {
	repo              repositories.ResidentRepository
	roomRepo          repositories.RoomRepository
	facilityRepo      repositories.FacilityRepository
	activityRepo      repositories.ActivityRepository
	communicationRepo repositories.CommunicationRepository
	documentRepo      repositories.DocumentRepository
	allocation        *AllocationService
	strictTransitions bool
}

// NewResidentService creates a new resident service
func NewResidentService(
	repo repositories.ResidentRepository,
	roomRepo repositories.RoomRepository,
	facilityRepo repositories.FacilityRepository,
	activityRepo repositories.ActivityRepository,
	communicationRepo repositories.CommunicationRepository,
	documentRepo repositories.DocumentRepository,
	allocation *AllocationService,
	strictTransitions bool,
) *ResidentService {
	return &ResidentService{
		repo:              repo,
		roomRepo:          roomRepo,
		facilityRepo:      facilityRepo,
		activityRepo:      activityRepo,
		communicationRepo: communicationRepo,
		documentRepo:      documentRepo,
		allocation:        allocation,
		strictTransitions: strictTransitions,
	}
}

// Create registers a new intake inquiry. New residents always enter the
// pipeline at status "new" regardless of what the caller sends.
func (s *ResidentService) Create(ctx context.Context, resident *entities.Resident) error {
	if strings.TrimSpace(resident.FirstName) == "" || strings.TrimSpace(resident.LastName) == "" {
		return apperrors.NewValidationError("first name and last name are required")
	}
	if resident.Urgency == "" {
		resident.Urgency = entities.UrgencyNormal
	}

	now := time.Now()
	if resident.ID == "" {
		resident.ID = uuid.New().String()
	}
	resident.Status = entities.StatusNew
	resident.RoomID = nil
	if resident.RequestedAt.IsZero() {
		resident.RequestedAt = now
	}
	resident.CreatedAt = now
	resident.UpdatedAt = now

	if err := s.repo.Create(ctx, resident); err != nil {
		return err
	}

	created := string(entities.StatusNew)
	s.recordActivity(ctx, resident.ID, "resident created", nil, &created)

	return nil
}

// Get retrieves a resident with full history, most recent first
func (s *ResidentService) Get(ctx context.Context, id string) (*entities.ResidentDetail, error) {
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	communications, err := s.communicationRepo.ListByResident(ctx, id)
	if err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.ListByResident(ctx, id)
	if err != nil {
		return nil, err
	}

	if communications == nil {
		communications = []*entities.Communication{}
	}
	if activities == nil {
		activities = []*entities.Activity{}
	}

	return &entities.ResidentDetail{
		Resident:       *resident,
		Age:            resident.Age(time.Now()),
		Communications: communications,
		Activities:     activities,
	}, nil
}

// List retrieves resident summaries matching the filter, enriched with
// derived age and the assigned room's number and facility short name.
func (s *ResidentService) List(ctx context.Context, filter repositories.ResidentFilter) ([]*entities.ResidentSummary, error) {
	residents, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	facilities, err := s.facilityRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	shortNames := make(map[string]string, len(facilities))
	for _, facility := range facilities {
		shortNames[facility.ID] = facility.ShortName
	}

	now := time.Now()
	summaries := make([]*entities.ResidentSummary, 0, len(residents))
	for _, resident := range residents {
		summary := &entities.ResidentSummary{
			Resident: *resident,
			Age:      resident.Age(now),
		}
		if resident.RoomID != nil {
			room, err := s.roomRepo.GetByID(ctx, *resident.RoomID)
			if err != nil {
				log.Printf("Warning: Failed to load room %s for resident %s: %v", *resident.RoomID, resident.ID, err)
			} else {
				summary.RoomNumber = &room.Number
				if shortName, ok := shortNames[room.FacilityID]; ok {
					summary.FacilityShortName = &shortName
				}
			}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Update applies a partial update. A status change is audited; a room id
// in the update routes through the allocation service instead of being
// written directly.
func (s *ResidentService) Update(ctx context.Context, id string, update repositories.ResidentUpdate) (*entities.Resident, error) {
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		if strings.TrimSpace(*update.FirstName) == "" {
			return nil, apperrors.NewValidationError("first name must not be empty")
		}
		resident.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		if strings.TrimSpace(*update.LastName) == "" {
			return nil, apperrors.NewValidationError("last name must not be empty")
		}
		resident.LastName = *update.LastName
	}
	if update.BirthDate != nil {
		resident.BirthDate = *update.BirthDate
	}
	if update.Gender != nil {
		resident.Gender = *update.Gender
	}
	if update.CareLevel != nil {
		resident.CareLevel = update.CareLevel
	}
	if update.CareNotes != nil {
		resident.CareNotes = *update.CareNotes
	}
	if update.EmergencyContact != nil {
		resident.EmergencyContact = *update.EmergencyContact
	}
	if update.IntakeSource != nil {
		resident.IntakeSource = *update.IntakeSource
	}
	if update.Referrer != nil {
		resident.Referrer = *update.Referrer
	}
	if update.Urgency != nil {
		resident.Urgency = *update.Urgency
	}
	if update.PreferredFacilityIDs != nil {
		resident.PreferredFacilityIDs = *update.PreferredFacilityIDs
	}
	if update.MoveOutDate != nil {
		resident.MoveOutDate = update.MoveOutDate
	}
	if update.MoveOutReason != nil {
		resident.MoveOutReason = update.MoveOutReason
	}

	statusChanged := false
	oldStatus := resident.Status
	if update.Status != nil && *update.Status != resident.Status {
		if err := s.checkTransition(resident.Status, *update.Status); err != nil {
			return nil, err
		}
		resident.Status = *update.Status
		statusChanged = true
	}

	resident.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, resident); err != nil {
		return nil, err
	}

	if statusChanged {
		before := string(oldStatus)
		after := string(resident.Status)
		s.recordActivity(ctx, id, "status changed", &before, &after)

		if resident.Status.IsTerminal() && resident.RoomID != nil {
			if err := s.departure(ctx, resident); err != nil {
				return nil, err
			}
		}
	}

	if update.RoomID != nil {
		if *update.RoomID == "" {
			if err := s.allocation.Release(ctx, id); err != nil {
				return nil, err
			}
		} else {
			if err := s.allocation.Assign(ctx, id, *update.RoomID); err != nil {
				return nil, err
			}
		}
		return s.repo.GetByID(ctx, id)
	}

	return resident, nil
}

// SetStatus moves a resident to a pipeline stage. Setting the current
// status again is a no-op. A departure (terminal stage) releases the
// resident's room and stamps the move-out date.
func (s *ResidentService) SetStatus(ctx context.Context, id string, status entities.ResidentStatus) (*entities.StatusChange, error) {
	if !entities.ValidResidentStatus(status) {
		return nil, apperrors.NewValidationError("unknown status: " + string(status))
	}

	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	change := &entities.StatusChange{OldStatus: resident.Status, NewStatus: status}
	if resident.Status == status {
		return change, nil
	}

	if err := s.checkTransition(resident.Status, status); err != nil {
		return nil, err
	}

	resident.Status = status
	resident.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, resident); err != nil {
		return nil, err
	}

	before := string(change.OldStatus)
	after := string(status)
	s.recordActivity(ctx, id, "status changed", &before, &after)

	if status.IsTerminal() && resident.RoomID != nil {
		if err := s.departure(ctx, resident); err != nil {
			return nil, err
		}
	}

	return change, nil
}

// Delete removes a resident, freeing an occupied room first and cascading
// the activity, communication and document logs.
func (s *ResidentService) Delete(ctx context.Context, id string) error {
	resident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if resident.RoomID != nil {
		if err := s.allocation.Release(ctx, id); err != nil {
			return err
		}
	}

	if err := s.activityRepo.DeleteByResident(ctx, id); err != nil {
		return err
	}
	if err := s.communicationRepo.DeleteByResident(ctx, id); err != nil {
		return err
	}
	if err := s.documentRepo.DeleteByResident(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// RecordActivity appends an audit entry for an existing resident
func (s *ResidentService) RecordActivity(ctx context.Context, residentID, actor, action string, before, after *string) error {
	if _, err := s.repo.GetByID(ctx, residentID); err != nil {
		return err
	}

	return s.activityRepo.Create(ctx, &entities.Activity{
		ID:         uuid.New().String(),
		ResidentID: residentID,
		Actor:      actor,
		Action:     action,
		Before:     before,
		After:      after,
		CreatedAt:  time.Now(),
	})
}

func (s *ResidentService) checkTransition(from, to entities.ResidentStatus) error {
	if !entities.ValidResidentStatus(to) {
		return apperrors.NewValidationError("unknown status: " + string(to))
	}
	if s.strictTransitions && !from.CanTransition(to) {
		return apperrors.NewValidationError(
			"transition from " + string(from) + " to " + string(to) + " is not allowed")
	}
	return nil
}

// departure frees the room and stamps the move-out date when a resident
// leaves the pipeline while still holding a room.
func (s *ResidentService) departure(ctx context.Context, resident *entities.Resident) error {
	if err := s.allocation.Release(ctx, resident.ID); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, resident.ID)
	if err != nil {
		return err
	}
	if current.MoveOutDate == nil {
		now := time.Now()
		current.MoveOutDate = &now
		current.UpdatedAt = now
		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}
	}

	*resident = *current
	return nil
}

func (s *ResidentService) recordActivity(ctx context.Context, residentID, action string, before, after *string) {
	activity := &entities.Activity{
		ID:         uuid.New().String(),
		ResidentID: residentID,
		Actor:      "system",
		Action:     action,
		Before:     before,
		After:      after,
		CreatedAt:  time.Now(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("Warning: Failed to record activity for resident %s: %v", residentID, err)
	}
}
