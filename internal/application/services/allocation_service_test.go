package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domusvita/careflow/backend/internal/application/services"
	"github.com/domusvita/careflow/backend/internal/domain/entities"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

type allocationFixture struct {
	residents  *memResidentRepo
	rooms      *memRoomRepo
	activities *memActivityRepo
	service    *services.AllocationService
}

func newAllocationFixture() *allocationFixture {
	residents := newMemResidentRepo()
	rooms := newMemRoomRepo()
	activities := newMemActivityRepo()
	return &allocationFixture{
		residents:  residents,
		rooms:      rooms,
		activities: activities,
		service:    services.NewAllocationService(residents, rooms, activities),
	}
}

func (f *allocationFixture) addResident(id string, status entities.ResidentStatus) {
	f.residents.Create(context.Background(), &entities.Resident{
		ID:          id,
		FirstName:   "Test",
		LastName:    "Resident " + id,
		Status:      status,
		Urgency:     entities.UrgencyNormal,
		RequestedAt: time.Now(),
	})
}

func (f *allocationFixture) addRoom(id, facilityID string) {
	f.rooms.Create(context.Background(), &entities.Room{
		ID:         id,
		FacilityID: facilityID,
		Number:     id,
		Status:     entities.RoomStatusFree,
	})
}

// requireLinked asserts the bidirectional room/resident invariant
func requireLinked(t *testing.T, f *allocationFixture, residentID, roomID string) {
	t.Helper()
	resident, err := f.residents.GetByID(context.Background(), residentID)
	require.NoError(t, err)
	room, err := f.rooms.GetByID(context.Background(), roomID)
	require.NoError(t, err)

	require.NotNil(t, resident.RoomID)
	assert.Equal(t, roomID, *resident.RoomID)
	assert.Equal(t, entities.RoomStatusOccupied, room.Status)
	require.NotNil(t, room.CurrentResidentID)
	assert.Equal(t, residentID, *room.CurrentResidentID)
}

func TestAllocationService_Assign(t *testing.T) {
	t.Run("links room and resident both ways", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusOfferAccepted)
		f.addRoom("room1", "wg-1")

		err := f.service.Assign(context.Background(), "r1", "room1")
		require.NoError(t, err)

		requireLinked(t, f, "r1", "room1")

		resident, _ := f.residents.GetByID(context.Background(), "r1")
		assert.Equal(t, entities.StatusResident, resident.Status)
		assert.NotNil(t, resident.MoveInDate)
	})

	t.Run("records room and status activities", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusMoveInScheduled)
		f.addRoom("room1", "wg-1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))

		activities, err := f.activities.ListByResident(context.Background(), "r1")
		require.NoError(t, err)
		require.Len(t, activities, 2)

		actions := []string{activities[0].Action, activities[1].Action}
		assert.Contains(t, actions, "room assigned")
		assert.Contains(t, actions, "status changed")
	})

	t.Run("rejects occupied room and keeps original assignment", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusResident)
		f.addResident("r2", entities.StatusOfferAccepted)
		f.addRoom("room1", "wg-1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))

		err := f.service.Assign(context.Background(), "r2", "room1")
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))

		requireLinked(t, f, "r1", "room1")
		r2, _ := f.residents.GetByID(context.Background(), "r2")
		assert.Nil(t, r2.RoomID)
	})

	t.Run("assigning the held room again is a no-op", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusResident)
		f.addRoom("room1", "wg-1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))
		before, _ := f.activities.ListByResident(context.Background(), "r1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))
		after, _ := f.activities.ListByResident(context.Background(), "r1")

		requireLinked(t, f, "r1", "room1")
		assert.Len(t, after, len(before))
	})

	t.Run("re-assigning the held room re-stamps a drifted status", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusResident)
		f.addRoom("room1", "wg-1")
		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))

		resident, _ := f.residents.GetByID(context.Background(), "r1")
		resident.Status = entities.StatusMoveOutPlanned
		require.NoError(t, f.residents.Update(context.Background(), resident))
		before, _ := f.activities.ListByResident(context.Background(), "r1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))

		requireLinked(t, f, "r1", "room1")
		resident, _ = f.residents.GetByID(context.Background(), "r1")
		assert.Equal(t, entities.StatusResident, resident.Status)

		after, _ := f.activities.ListByResident(context.Background(), "r1")
		require.Len(t, after, len(before)+1)
		assert.Equal(t, "status changed", after[0].Action)
	})

	t.Run("transfer frees the old room", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusResident)
		f.addRoom("room1", "wg-1")
		f.addRoom("room2", "wg-1")

		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))
		require.NoError(t, f.service.Assign(context.Background(), "r1", "room2"))

		requireLinked(t, f, "r1", "room2")

		oldRoom, _ := f.rooms.GetByID(context.Background(), "room1")
		assert.Equal(t, entities.RoomStatusFree, oldRoom.Status)
		assert.Nil(t, oldRoom.CurrentResidentID)
	})

	t.Run("unknown resident or room yields not found", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusNew)
		f.addRoom("room1", "wg-1")

		assert.True(t, apperrors.IsNotFound(f.service.Assign(context.Background(), "ghost", "room1")))
		assert.True(t, apperrors.IsNotFound(f.service.Assign(context.Background(), "r1", "ghost")))
	})
}

// flakyResidentRepo fails a configured number of updates before behaving
// like the in-memory store again.
type flakyResidentRepo struct {
	*memResidentRepo
	updateFailures int
}

func (r *flakyResidentRepo) Update(ctx context.Context, resident *entities.Resident) error {
	if r.updateFailures > 0 {
		r.updateFailures--
		return apperrors.NewTransientError("resident store unavailable", nil)
	}
	return r.memResidentRepo.Update(ctx, resident)
}

func TestAllocationService_AssignRollsBackOnResidentWriteFailure(t *testing.T) {
	t.Run("frees the target room again", func(t *testing.T) {
		residents := newMemResidentRepo()
		flaky := &flakyResidentRepo{memResidentRepo: residents, updateFailures: 1}
		rooms := newMemRoomRepo()
		service := services.NewAllocationService(flaky, rooms, newMemActivityRepo())

		residents.Create(context.Background(), &entities.Resident{
			ID: "r1", FirstName: "Test", LastName: "Resident", Status: entities.StatusOfferAccepted, RequestedAt: time.Now(),
		})
		rooms.Create(context.Background(), &entities.Room{ID: "room1", FacilityID: "wg-1", Number: "1", Status: entities.RoomStatusFree})

		err := service.Assign(context.Background(), "r1", "room1")
		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))

		room, _ := rooms.GetByID(context.Background(), "room1")
		assert.Equal(t, entities.RoomStatusFree, room.Status)
		assert.Nil(t, room.CurrentResidentID)
		resident, _ := residents.GetByID(context.Background(), "r1")
		assert.Nil(t, resident.RoomID)

		// A retry after the store recovers links the pair
		require.NoError(t, service.Assign(context.Background(), "r1", "room1"))
		room, _ = rooms.GetByID(context.Background(), "room1")
		require.NotNil(t, room.CurrentResidentID)
		assert.Equal(t, "r1", *room.CurrentResidentID)
	})

	t.Run("restores the previous room on a failed transfer", func(t *testing.T) {
		residents := newMemResidentRepo()
		flaky := &flakyResidentRepo{memResidentRepo: residents}
		rooms := newMemRoomRepo()
		service := services.NewAllocationService(flaky, rooms, newMemActivityRepo())

		residents.Create(context.Background(), &entities.Resident{
			ID: "r1", FirstName: "Test", LastName: "Resident", Status: entities.StatusResident, RequestedAt: time.Now(),
		})
		rooms.Create(context.Background(), &entities.Room{ID: "room1", FacilityID: "wg-1", Number: "1", Status: entities.RoomStatusFree})
		rooms.Create(context.Background(), &entities.Room{ID: "room2", FacilityID: "wg-1", Number: "2", Status: entities.RoomStatusFree})
		require.NoError(t, service.Assign(context.Background(), "r1", "room1"))

		flaky.updateFailures = 1
		err := service.Assign(context.Background(), "r1", "room2")
		require.Error(t, err)

		// The stored resident still points at room1, so room1 must be
		// occupied again and room2 free.
		resident, _ := residents.GetByID(context.Background(), "r1")
		require.NotNil(t, resident.RoomID)
		assert.Equal(t, "room1", *resident.RoomID)
		oldRoom, _ := rooms.GetByID(context.Background(), "room1")
		assert.Equal(t, entities.RoomStatusOccupied, oldRoom.Status)
		require.NotNil(t, oldRoom.CurrentResidentID)
		assert.Equal(t, "r1", *oldRoom.CurrentResidentID)
		newRoom, _ := rooms.GetByID(context.Background(), "room2")
		assert.Equal(t, entities.RoomStatusFree, newRoom.Status)
		assert.Nil(t, newRoom.CurrentResidentID)
	})
}

func TestAllocationService_Release(t *testing.T) {
	t.Run("frees the room and clears the link", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusResident)
		f.addRoom("room1", "wg-1")
		require.NoError(t, f.service.Assign(context.Background(), "r1", "room1"))

		require.NoError(t, f.service.Release(context.Background(), "r1"))

		resident, _ := f.residents.GetByID(context.Background(), "r1")
		room, _ := f.rooms.GetByID(context.Background(), "room1")
		assert.Nil(t, resident.RoomID)
		assert.Equal(t, entities.RoomStatusFree, room.Status)
		assert.Nil(t, room.CurrentResidentID)
	})

	t.Run("without a room is a no-op", func(t *testing.T) {
		f := newAllocationFixture()
		f.addResident("r1", entities.StatusNew)

		assert.NoError(t, f.service.Release(context.Background(), "r1"))
	})
}

func TestAllocationService_ConcurrentAssign(t *testing.T) {
	// Many residents race for one room; exactly one may win and the
	// room/resident link must hold afterwards.
	f := newAllocationFixture()
	f.addRoom("room1", "wg-1")

	const contenders = 16
	for i := 0; i < contenders; i++ {
		f.addResident(fmt.Sprintf("r%d", i), entities.StatusOfferAccepted)
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.service.Assign(context.Background(), fmt.Sprintf("r%d", i), "room1")
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner string
	for i, err := range errs {
		if err == nil {
			winners++
			winner = fmt.Sprintf("r%d", i)
		} else {
			assert.True(t, apperrors.IsConflict(err))
		}
	}
	require.Equal(t, 1, winners)
	requireLinked(t, f, winner, "room1")

	// Everyone else stayed roomless
	for i := 0; i < contenders; i++ {
		id := fmt.Sprintf("r%d", i)
		if id == winner {
			continue
		}
		resident, _ := f.residents.GetByID(context.Background(), id)
		assert.Nil(t, resident.RoomID)
	}
}
