package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// In-memory repositories backing the service tests. They hand out copies so
// state only changes through explicit writes, like a real store.

type memResidentRepo struct {
	mu        sync.Mutex
	residents map[string]*entities.Resident
}

func newMemResidentRepo() *memResidentRepo {
	return &memResidentRepo{residents: make(map[string]*entities.Resident)}
}

func (r *memResidentRepo) Create(ctx context.Context, resident *entities.Resident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *resident
	r.residents[resident.ID] = &clone
	return nil
}

func (r *memResidentRepo) GetByID(ctx context.Context, id string) (*entities.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resident, ok := r.residents[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("resident with id %s not found", id))
	}
	clone := *resident
	return &clone, nil
}

func (r *memResidentRepo) List(ctx context.Context, filter repositories.ResidentFilter) ([]*entities.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Resident
	for _, resident := range r.residents {
		if filter.Status != "" && resident.Status != filter.Status {
			continue
		}
		if filter.PreferredFacilityID != "" {
			found := false
			for _, id := range resident.PreferredFacilityIDs {
				if id == filter.PreferredFacilityID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		clone := *resident
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result, nil
}

func (r *memResidentRepo) Update(ctx context.Context, resident *entities.Resident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.residents[resident.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("resident with id %s not found", resident.ID))
	}
	clone := *resident
	r.residents[resident.ID] = &clone
	return nil
}

func (r *memResidentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.residents[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("resident with id %s not found", id))
	}
	delete(r.residents, id)
	return nil
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*entities.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[string]*entities.Room)}
}

func (r *memRoomRepo) Create(ctx context.Context, room *entities.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *room
	r.rooms[room.ID] = &clone
	return nil
}

func (r *memRoomRepo) GetByID(ctx context.Context, id string) (*entities.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("room with id %s not found", id))
	}
	clone := *room
	return &clone, nil
}

func (r *memRoomRepo) GetByFacilityID(ctx context.Context, facilityID string) ([]*entities.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Room
	for _, room := range r.rooms {
		if room.FacilityID == facilityID {
			clone := *room
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (r *memRoomRepo) GetByResidentID(ctx context.Context, residentID string) (*entities.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.CurrentResidentID != nil && *room.CurrentResidentID == residentID {
			clone := *room
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("no room held by resident %s", residentID))
}

func (r *memRoomRepo) UpdateAttributes(ctx context.Context, room *entities.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rooms[room.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("room with id %s not found", room.ID))
	}
	current.Number = room.Number
	current.Name = room.Name
	current.AreaSqm = room.AreaSqm
	current.Layout = room.Layout
	current.Notes = room.Notes
	return nil
}

func (r *memRoomRepo) SetOccupancy(ctx context.Context, roomID string, status entities.RoomStatus, residentID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("room with id %s not found", roomID))
	}
	room.Status = status
	room.CurrentResidentID = residentID
	return nil
}

func (r *memRoomRepo) CountByStatus(ctx context.Context, facilityID string) (*entities.RoomCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &entities.RoomCounts{}
	for _, room := range r.rooms {
		if room.FacilityID != facilityID {
			continue
		}
		switch room.Status {
		case entities.RoomStatusFree:
			counts.Free++
			counts.Total++
		case entities.RoomStatusOccupied:
			counts.Occupied++
			counts.Total++
		case entities.RoomStatusReserved:
			counts.Reserved++
			counts.Total++
		case entities.RoomStatusRenovation:
			counts.Renovation++
		}
	}
	return counts, nil
}

type memFacilityRepo struct {
	mu         sync.Mutex
	facilities map[string]*entities.Facility
}

func newMemFacilityRepo() *memFacilityRepo {
	return &memFacilityRepo{facilities: make(map[string]*entities.Facility)}
}

func (r *memFacilityRepo) Create(ctx context.Context, facility *entities.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *facility
	r.facilities[facility.ID] = &clone
	return nil
}

func (r *memFacilityRepo) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	facility, ok := r.facilities[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	clone := *facility
	return &clone, nil
}

func (r *memFacilityRepo) List(ctx context.Context) ([]*entities.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Facility
	for _, facility := range r.facilities {
		clone := *facility
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShortName < result[j].ShortName })
	return result, nil
}

type memActivityRepo struct {
	mu      sync.Mutex
	entries []*entities.Activity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{}
}

func (r *memActivityRepo) Create(ctx context.Context, activity *entities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *activity
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memActivityRepo) ListByResident(ctx context.Context, residentID string) ([]*entities.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Activity
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ResidentID == residentID {
			clone := *r.entries[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *memActivityRepo) DeleteByResident(ctx context.Context, residentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ResidentID != residentID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

type memCommunicationRepo struct {
	mu      sync.Mutex
	entries []*entities.Communication
}

func newMemCommunicationRepo() *memCommunicationRepo {
	return &memCommunicationRepo{}
}

func (r *memCommunicationRepo) Create(ctx context.Context, communication *entities.Communication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *communication
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memCommunicationRepo) ListByResident(ctx context.Context, residentID string) ([]*entities.Communication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Communication
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ResidentID == residentID {
			clone := *r.entries[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *memCommunicationRepo) DeleteByResident(ctx context.Context, residentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ResidentID != residentID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

type memDocumentRepo struct {
	mu      sync.Mutex
	entries []*entities.Document
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{}
}

func (r *memDocumentRepo) Create(ctx context.Context, document *entities.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *document
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.ID == id {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
}

func (r *memDocumentRepo) ListByResident(ctx context.Context, residentID string) ([]*entities.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entities.Document
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ResidentID == residentID {
			clone := *r.entries[i]
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *memDocumentRepo) DeleteByResident(ctx context.Context, residentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ResidentID != residentID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}
