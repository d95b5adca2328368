package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// AllocationService coordinates room occupancy. It is the only writer of
// the room (status, current_resident_id) pair and the resident room_id, so
// the bidirectional link between the two stays consistent.
type AllocationService struct {
	residentRepo repositories.ResidentRepository
	roomRepo     repositories.RoomRepository
	activityRepo repositories.ActivityRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAllocationService creates a new allocation service
func NewAllocationService(
	residentRepo repositories.ResidentRepository,
	roomRepo repositories.RoomRepository,
	activityRepo repositories.ActivityRepository,
) *AllocationService {
	return &AllocationService{
		residentRepo: residentRepo,
		roomRepo:     roomRepo,
		activityRepo: activityRepo,
		locks:        make(map[string]*sync.Mutex),
	}
}

// Assign moves a resident into a room. A previously held room is released
// first, the target room is occupied, and the resident record is updated
// last. Assigning the room the resident already holds leaves the room
// untouched but still re-stamps the resident record.
func (s *AllocationService) Assign(ctx context.Context, residentID, roomID string) error {
	unlock := s.lock(roomID, residentID)
	defer unlock()

	resident, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return err
	}
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	alreadyHeld := room.CurrentResidentID != nil && *room.CurrentResidentID == residentID
	if room.CurrentResidentID != nil && !alreadyHeld {
		return apperrors.NewConflictError("room already occupied")
	}

	// Transfer: free the previously held room before occupying the target,
	// so a mid-sequence failure never leaves the resident in two rooms.
	previousRoomID := resident.RoomID
	if previousRoomID != nil && *previousRoomID != roomID {
		if err := s.roomRepo.SetOccupancy(ctx, *previousRoomID, entities.RoomStatusFree, nil); err != nil {
			return err
		}
	}

	if !alreadyHeld {
		if err := s.roomRepo.SetOccupancy(ctx, roomID, entities.RoomStatusOccupied, &residentID); err != nil {
			return err
		}
	}

	now := time.Now()
	previousStatus := resident.Status
	resident.RoomID = &roomID
	resident.Status = entities.StatusResident
	if resident.MoveInDate == nil {
		resident.MoveInDate = &now
	}
	resident.UpdatedAt = now
	if err := s.residentRepo.Update(ctx, resident); err != nil {
		// Roll the occupancy writes back so the stored room state still
		// matches the stored resident record.
		if !alreadyHeld {
			if rerr := s.roomRepo.SetOccupancy(ctx, roomID, entities.RoomStatusFree, nil); rerr != nil {
				log.Printf("Warning: Failed to roll back occupancy of room %s: %v", roomID, rerr)
			}
		}
		if previousRoomID != nil && *previousRoomID != roomID {
			if rerr := s.roomRepo.SetOccupancy(ctx, *previousRoomID, entities.RoomStatusOccupied, &residentID); rerr != nil {
				log.Printf("Warning: Failed to restore occupancy of room %s: %v", *previousRoomID, rerr)
			}
		}
		return err
	}

	roomChanged := previousRoomID == nil || *previousRoomID != roomID
	if roomChanged {
		s.recordActivity(ctx, residentID, "room assigned", previousRoomID, &roomID)
	}
	if previousStatus != resident.Status {
		oldStatus := string(previousStatus)
		newStatus := string(resident.Status)
		s.recordActivity(ctx, residentID, "status changed", &oldStatus, &newStatus)
	}

	return nil
}

// Release frees the room a resident currently holds. Residents without a
// room are left untouched.
func (s *AllocationService) Release(ctx context.Context, residentID string) error {
	// The room key is only known after a read; a first unlocked fetch
	// determines the lock set, then state is re-read under the lock.
	resident, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return err
	}
	if resident.RoomID == nil {
		return nil
	}

	unlock := s.lock(*resident.RoomID, residentID)
	defer unlock()

	resident, err = s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return err
	}
	if resident.RoomID == nil {
		return nil
	}
	roomID := *resident.RoomID

	if err := s.roomRepo.SetOccupancy(ctx, roomID, entities.RoomStatusFree, nil); err != nil {
		return err
	}

	resident.RoomID = nil
	resident.UpdatedAt = time.Now()
	if err := s.residentRepo.Update(ctx, resident); err != nil {
		return err
	}

	s.recordActivity(ctx, residentID, "room released", &roomID, nil)

	return nil
}

// lock acquires per-entity mutexes for all keys in sorted order, so two
// operations touching the same room and resident can never deadlock.
func (s *AllocationService) lock(keys ...string) func() {
	sort.Strings(keys)

	var held []*sync.Mutex
	var previous string
	for i, key := range keys {
		if i > 0 && key == previous {
			continue
		}
		previous = key
		m := s.mutexFor(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (s *AllocationService) mutexFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

// recordActivity appends an audit entry. The occupancy state is already
// consistent at this point, so a failed append is logged, not surfaced.
func (s *AllocationService) recordActivity(ctx context.Context, residentID, action string, before, after *string) {
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
