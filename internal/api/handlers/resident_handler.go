package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
)

// ResidentService defines the resident lifecycle operations used by the handler.
type ResidentService interface {
	Create(ctx context.Context, resident *entities.Resident) error
	Get(ctx context.Context, id string) (*entities.ResidentDetail, error)
	List(ctx context.Context, filter repositories.ResidentFilter) ([]*entities.ResidentSummary, error)
	Update(ctx context.Context, id string, update repositories.ResidentUpdate) (*entities.Resident, error)
	SetStatus(ctx context.Context, id string, status entities.ResidentStatus) (*entities.StatusChange, error)
	Delete(ctx context.Context, id string) error
}

// AllocationService defines the room allocation operations used by the handler.
type AllocationService interface {
	Assign(ctx context.Context, residentID, roomID string) error
	Release(ctx context.Context, residentID string) error
}

// DashboardService defines the dashboard operation used by the handler.
type DashboardService interface {
	Dashboard(ctx context.Context) (*entities.IntakeDashboard, error)
}

// ResidentHandler handles resident lifecycle HTTP requests
type ResidentHandler struct {
	service    ResidentService
	allocation AllocationService
	dashboard  DashboardService
}

// NewResidentHandler creates a new resident handler
func NewResidentHandler(service ResidentService, allocation AllocationService, dashboard DashboardService) *ResidentHandler {
	return &ResidentHandler{
		service:    service,
		allocation: allocation,
		dashboard:  dashboard,
	}
}

// ListResidents handles GET /api/residents
func (h *ResidentHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ResidentFilter{
		Status:              entities.ResidentStatus(r.URL.Query().Get("status")),
		PreferredFacilityID: r.URL.Query().Get("facility"),
	}
	if filter.Status != "" && !entities.ValidResidentStatus(filter.Status) {
		respondWithError(w, http.StatusBadRequest, "unknown status: "+string(filter.Status))
		return
	}

	residents, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"residents": residents,
		"count":     len(residents),
	})
}

// GetDashboard handles GET /api/residents/dashboard
func (h *ResidentHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// CreateResident handles POST /api/residents
func (h *ResidentHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var resident entities.Resident
	if err := json.NewDecoder(r.Body).Decode(&resident); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Create(r.Context(), &resident); err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resident)
}

// GetResident handles GET /api/residents/{id}
func (h *ResidentHandler) GetResident(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	resident, err := h.service.Get(r.Context(), residentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resident)
}

type updateResidentRequest struct {
	FirstName            *string                    `json:"first_name"`
	LastName             *string                    `json:"last_name"`
	BirthDate            *string                    `json:"birth_date"`
	Gender               *string                    `json:"gender"`
	CareLevel            *int                       `json:"care_level"`
	CareNotes            *string                    `json:"care_notes"`
	EmergencyContact     *entities.EmergencyContact `json:"emergency_contact"`
	IntakeSource         *string                    `json:"intake_source"`
	Referrer             *string                    `json:"referrer"`
	Urgency              *entities.Urgency          `json:"urgency"`
	PreferredFacilityIDs *[]string                  `json:"preferred_facility_ids"`
	Status               *entities.ResidentStatus   `json:"status"`
	RoomID               *string                    `json:"room_id"`
	MoveOutDate          *time.Time                 `json:"move_out_date"`
	MoveOutReason        *string                    `json:"move_out_reason"`
}

// UpdateResident handles PATCH /api/residents/{id}
func (h *ResidentHandler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	var payload updateResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resident, err := h.service.Update(r.Context(), residentID, repositories.ResidentUpdate{
		FirstName:            payload.FirstName,
		LastName:             payload.LastName,
		BirthDate:            payload.BirthDate,
		Gender:               payload.Gender,
		CareLevel:            payload.CareLevel,
		CareNotes:            payload.CareNotes,
		EmergencyContact:     payload.EmergencyContact,
		IntakeSource:         payload.IntakeSource,
		Referrer:             payload.Referrer,
		Urgency:              payload.Urgency,
		PreferredFacilityIDs: payload.PreferredFacilityIDs,
		Status:               payload.Status,
		RoomID:               payload.RoomID,
		MoveOutDate:          payload.MoveOutDate,
		MoveOutReason:        payload.MoveOutReason,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resident)
}

// DeleteResident handles DELETE /api/residents/{id}
func (h *ResidentHandler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	if err := h.service.Delete(r.Context(), residentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setStatusRequest struct {
	Status entities.ResidentStatus `json:"status"`
}

// SetStatus handles POST /api/residents/{id}/status
func (h *ResidentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	var payload setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	change, err := h.service.SetStatus(r.Context(), residentID, payload.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, change)
}

type assignRoomRequest struct {
	RoomID string `json:"room_id"`
}

// AssignRoom handles POST /api/residents/{id}/room
func (h *ResidentHandler) AssignRoom(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	var payload assignRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.RoomID == "" {
		respondWithError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	if err := h.allocation.Assign(r.Context(), residentID, payload.RoomID); err != nil {
		handleServiceError(w, err)
		return
	}

	resident, err := h.service.Get(r.Context(), residentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resident)
}

// ReleaseRoom handles DELETE /api/residents/{id}/room
func (h *ResidentHandler) ReleaseRoom(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	if err := h.allocation.Release(r.Context(), residentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
