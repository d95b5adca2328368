package routes

import (
	"net/http"

	"github.com/domusvita/careflow/backend/internal/api/handlers"
	"github.com/domusvita/careflow/backend/internal/api/middleware"
	"github.com/domusvita/careflow/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	facilityHandler      *handlers.FacilityHandler
	residentHandler      *handlers.ResidentHandler
	communicationHandler *handlers.CommunicationHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	residentHandler *handlers.ResidentHandler,
	communicationHandler *handlers.CommunicationHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		facilityHandler:      facilityHandler,
		residentHandler:      residentHandler,
		communicationHandler: communicationHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facility and room endpoints
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/costs/portfolio", r.facilityHandler.GetPortfolioCosts)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("GET /api/facilities/{id}/costs", r.facilityHandler.GetFacilityCosts)
	r.mux.HandleFunc("POST /api/facilities/{id}/rooms", r.facilityHandler.CreateRoom)
	r.mux.HandleFunc("PATCH /api/rooms/{id}", r.facilityHandler.UpdateRoom)

	// Resident lifecycle endpoints
	r.mux.HandleFunc("GET /api/residents", r.residentHandler.ListResidents)
	r.mux.HandleFunc("GET /api/residents/dashboard", r.residentHandler.GetDashboard)
	r.mux.HandleFunc("POST /api/residents", r.residentHandler.CreateResident)
	r.mux.HandleFunc("GET /api/residents/{id}", r.residentHandler.GetResident)
	r.mux.HandleFunc("PATCH /api/residents/{id}", r.residentHandler.UpdateResident)
	r.mux.HandleFunc("DELETE /api/residents/{id}", r.residentHandler.DeleteResident)
	r.mux.HandleFunc("POST /api/residents/{id}/status", r.residentHandler.SetStatus)
	r.mux.HandleFunc("POST /api/residents/{id}/room", r.residentHandler.AssignRoom)
	r.mux.HandleFunc("DELETE /api/residents/{id}/room", r.residentHandler.ReleaseRoom)

	// Communication and document endpoints
	r.mux.HandleFunc("GET /api/residents/{id}/communications", r.communicationHandler.ListCommunications)
	r.mux.HandleFunc("POST /api/residents/{id}/communications", r.communicationHandler.CreateCommunication)
	r.mux.HandleFunc("POST /api/residents/{id}/email", r.communicationHandler.SendEmail)
	r.mux.HandleFunc("GET /api/residents/{id}/documents", r.communicationHandler.ListDocuments)
	r.mux.HandleFunc("POST /api/residents/{id}/documents", r.communicationHandler.UploadDocument)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflight requests never hit the mux
	handler = middleware.CORSMiddleware(handler)

	return handler
}
