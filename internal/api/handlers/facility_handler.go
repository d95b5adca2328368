package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// FacilityService defines the facility and room operations used by the handler.
type FacilityService interface {
	List(ctx context.Context) ([]*entities.FacilitySummary, error)
	Get(ctx context.Context, id string) (*entities.FacilityDetail, error)
	CreateRoom(ctx context.Context, facilityID string, room *entities.Room) error
	UpdateRoom(ctx context.Context, id string, update repositories.RoomUpdate) (*entities.Room, error)
}

// CostService defines the cost report operations used by the handler.
type CostService interface {
	FacilityCost(ctx context.Context, facilityID string) (*entities.FacilityCostReport, error)
	PortfolioCost(ctx context.Context) (*entities.PortfolioCostReport, error)
}

// FacilityHandler handles facility, room and cost HTTP requests
type FacilityHandler struct {
	service FacilityService
	costs   CostService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(service FacilityService, costs CostService) *FacilityHandler {
	return &FacilityHandler{
		service: service,
		costs:   costs,
	}
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.service.Get(r.Context(), facilityID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

type createRoomRequest struct {
	Number  string              `json:"number"`
	Name    *string             `json:"name"`
	AreaSqm float64             `json:"area_sqm"`
	Status  entities.RoomStatus `json:"status"`
	Layout  entities.RoomLayout `json:"layout"`
	Notes   *string             `json:"notes"`
}

// CreateRoom handles POST /api/facilities/{id}/rooms
func (h *FacilityHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")

	var payload createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	room := &entities.Room{
		Number:  payload.Number,
		Name:    payload.Name,
		AreaSqm: payload.AreaSqm,
		Status:  payload.Status,
		Layout:  payload.Layout,
		Notes:   payload.Notes,
	}
	if err := h.service.CreateRoom(r.Context(), facilityID, room); err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, room)
}

type updateRoomRequest struct {
	Number  *string              `json:"number"`
	Name    *string              `json:"name"`
	AreaSqm *float64             `json:"area_sqm"`
	Layout  *entities.RoomLayout `json:"layout"`
	Notes   *string              `json:"notes"`
}

// UpdateRoom handles PATCH /api/rooms/{id}
func (h *FacilityHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	var payload updateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), roomID, repositories.RoomUpdate{
		Number:  payload.Number,
		Name:    payload.Name,
		AreaSqm: payload.AreaSqm,
		Layout:  payload.Layout,
		Notes:   payload.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, room)
}

// GetFacilityCosts handles GET /api/facilities/{id}/costs
func (h *FacilityHandler) GetFacilityCosts(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")

	report, err := h.costs.FacilityCost(r.Context(), facilityID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetPortfolioCosts handles GET /api/facilities/costs/portfolio
func (h *FacilityHandler) GetPortfolioCosts(w http.ResponseWriter, r *http.Request) {
	report, err := h.costs.PortfolioCost(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// handleServiceError maps application errors to HTTP status codes
func handleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeTransient:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
