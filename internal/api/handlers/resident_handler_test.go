package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domusvita/careflow/backend/internal/api/handlers"
	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

type stubResidentService struct {
	created    []*entities.Resident
	detail     *entities.ResidentDetail
	summaries  []*entities.ResidentSummary
	updated    *entities.Resident
	change     *entities.StatusChange
	deleted    []string
	lastFilter repositories.ResidentFilter
	lastUpdate repositories.ResidentUpdate
	err        error
}

func (s *stubResidentService) Create(ctx context.Context, resident *entities.Resident) error {
	if s.err != nil {
		return s.err
	}
	if resident.ID == "" {
		resident.ID = "test-id"
	}
	s.created = append(s.created, resident)
	return nil
}

func (s *stubResidentService) Get(ctx context.Context, id string) (*entities.ResidentDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubResidentService) List(ctx context.Context, filter repositories.ResidentFilter) ([]*entities.ResidentSummary, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

func (s *stubResidentService) Update(ctx context.Context, id string, update repositories.ResidentUpdate) (*entities.Resident, error) {
	s.lastUpdate = update
	if s.err != nil {
		return nil, s.err
	}
	return s.updated, nil
}

func (s *stubResidentService) SetStatus(ctx context.Context, id string, status entities.ResidentStatus) (*entities.StatusChange, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.change, nil
}

func (s *stubResidentService) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAllocationService struct {
	assigned  [][2]string
	released  []string
	assignErr error
}

func (s *stubAllocationService) Assign(ctx context.Context, residentID, roomID string) error {
	if s.assignErr != nil {
		return s.assignErr
	}
	s.assigned = append(s.assigned, [2]string{residentID, roomID})
	return nil
}

func (s *stubAllocationService) Release(ctx context.Context, residentID string) error {
	s.released = append(s.released, residentID)
	return nil
}

type stubDashboardService struct {
	dashboard *entities.IntakeDashboard
}

func (s *stubDashboardService) Dashboard(ctx context.Context) (*entities.IntakeDashboard, error) {
	return s.dashboard, nil
}

func newResidentHandler(service *stubResidentService, allocation *stubAllocationService) *handlers.ResidentHandler {
	return handlers.NewResidentHandler(service, allocation, &stubDashboardService{dashboard: &entities.IntakeDashboard{}})
}

func TestResidentHandler_ListResidents(t *testing.T) {
	service := &stubResidentService{summaries: []*entities.ResidentSummary{
		{Resident: entities.Resident{ID: "r1", FirstName: "Jane", LastName: "Doe"}},
	}}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("GET", "/api/residents?status=new&facility=wg-1", nil)
	w := httptest.NewRecorder()

	handler.ListResidents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.StatusNew, service.lastFilter.Status)
	assert.Equal(t, "wg-1", service.lastFilter.PreferredFacilityID)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(1), response["count"])
}

func TestResidentHandler_ListResidents_UnknownStatus(t *testing.T) {
	service := &stubResidentService{}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("GET", "/api/residents?status=teleported", nil)
	w := httptest.NewRecorder()

	handler.ListResidents(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResidentHandler_CreateResident(t *testing.T) {
	service := &stubResidentService{}
	handler := newResidentHandler(service, &stubAllocationService{})

	body := `{"first_name":"Jane","last_name":"Doe","urgency":"high"}`
	req := httptest.NewRequest("POST", "/api/residents", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CreateResident(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, service.created, 1)
	assert.Equal(t, "Jane", service.created[0].FirstName)
}

func TestResidentHandler_CreateResident_InvalidPayload(t *testing.T) {
	handler := newResidentHandler(&stubResidentService{}, &stubAllocationService{})

	req := httptest.NewRequest("POST", "/api/residents", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.CreateResident(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResidentHandler_CreateResident_ValidationError(t *testing.T) {
	service := &stubResidentService{err: apperrors.NewValidationError("first name and last name are required")}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("POST", "/api/residents", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.CreateResident(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResidentHandler_GetResident_NotFound(t *testing.T) {
	service := &stubResidentService{err: apperrors.NewNotFoundError("resident with id ghost not found")}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("GET", "/api/residents/ghost", nil)
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()

	handler.GetResident(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResidentHandler_UpdateResident(t *testing.T) {
	service := &stubResidentService{updated: &entities.Resident{ID: "r1", FirstName: "Jane", LastName: "Doe"}}
	handler := newResidentHandler(service, &stubAllocationService{})

	body := `{"care_level":3,"urgency":"urgent"}`
	req := httptest.NewRequest("PATCH", "/api/residents/r1", strings.NewReader(body))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.UpdateResident(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.lastUpdate.CareLevel)
	assert.Equal(t, 3, *service.lastUpdate.CareLevel)
	require.NotNil(t, service.lastUpdate.Urgency)
	assert.Equal(t, entities.UrgencyUrgent, *service.lastUpdate.Urgency)
	assert.Nil(t, service.lastUpdate.FirstName)
}

func TestResidentHandler_DeleteResident(t *testing.T) {
	service := &stubResidentService{}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("DELETE", "/api/residents/r1", nil)
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.DeleteResident(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"r1"}, service.deleted)
}

func TestResidentHandler_SetStatus(t *testing.T) {
	service := &stubResidentService{change: &entities.StatusChange{
		OldStatus: entities.StatusNew,
		NewStatus: entities.StatusInitialContact,
	}}
	handler := newResidentHandler(service, &stubAllocationService{})

	req := httptest.NewRequest("POST", "/api/residents/r1/status", strings.NewReader(`{"status":"initial_contact"}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.SetStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var change entities.StatusChange
	require.NoError(t, json.NewDecoder(w.Body).Decode(&change))
	assert.Equal(t, entities.StatusInitialContact, change.NewStatus)
}

func TestResidentHandler_AssignRoom(t *testing.T) {
	service := &stubResidentService{detail: &entities.ResidentDetail{
		Resident: entities.Resident{ID: "r1", FirstName: "Jane", LastName: "Doe"},
	}}
	allocation := &stubAllocationService{}
	handler := newResidentHandler(service, allocation)

	req := httptest.NewRequest("POST", "/api/residents/r1/room", strings.NewReader(`{"room_id":"room1"}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.AssignRoom(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][2]string{{"r1", "room1"}}, allocation.assigned)
}

func TestResidentHandler_AssignRoom_MissingRoomID(t *testing.T) {
	handler := newResidentHandler(&stubResidentService{}, &stubAllocationService{})

	req := httptest.NewRequest("POST", "/api/residents/r1/room", strings.NewReader(`{}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.AssignRoom(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResidentHandler_AssignRoom_Conflict(t *testing.T) {
	allocation := &stubAllocationService{assignErr: apperrors.NewConflictError("room already occupied")}
	handler := newResidentHandler(&stubResidentService{}, allocation)

	req := httptest.NewRequest("POST", "/api/residents/r1/room", strings.NewReader(`{"room_id":"room1"}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.AssignRoom(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestResidentHandler_ReleaseRoom(t *testing.T) {
	allocation := &stubAllocationService{}
	handler := newResidentHandler(&stubResidentService{}, allocation)

	req := httptest.NewRequest("DELETE", "/api/residents/r1/room", nil)
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.ReleaseRoom(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"r1"}, allocation.released)
}
