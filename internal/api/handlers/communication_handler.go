package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
)

const maxUploadBytes = 20 << 20 // 20 MiB

// CommunicationService defines the contact-log operations used by the handler.
type CommunicationService interface {
	Record(ctx context.Context, residentID string, communication *entities.Communication) error
	List(ctx context.Context, residentID string) ([]*entities.Communication, error)
	SendEmail(ctx context.Context, residentID, recipient, subject, body string, documentIDs []string) (bool, error)
	UploadDocument(ctx context.Context, residentID, name, category, contentType string, content io.Reader) (*entities.Document, error)
	ListDocuments(ctx context.Context, residentID string) ([]*entities.Document, error)
}

// CommunicationHandler handles communication and document HTTP requests
type CommunicationHandler struct {
	service CommunicationService
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(service CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{
		service: service,
	}
}

// ListCommunications handles GET /api/residents/{id}/communications
func (h *CommunicationHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	communications, err := h.service.List(r.Context(), residentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"communications": communications,
		"count":          len(communications),
	})
}

type createCommunicationRequest struct {
	Type        entities.CommunicationType `json:"type"`
	Subject     string                     `json:"subject"`
	Body        string                     `json:"body"`
	Author      string                     `json:"author"`
	Attachments []string                   `json:"attachments"`
}

// CreateCommunication handles POST /api/residents/{id}/communications
func (h *CommunicationHandler) CreateCommunication(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	var payload createCommunicationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	communication := &entities.Communication{
		Type:        payload.Type,
		Subject:     payload.Subject,
		Body:        payload.Body,
		Author:      payload.Author,
		Attachments: payload.Attachments,
	}
	if err := h.service.Record(r.Context(), residentID, communication); err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, communication)
}

type sendEmailRequest struct {
	Recipient   string   `json:"recipient"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	DocumentIDs []string `json:"document_ids"`
}

// SendEmail handles POST /api/residents/{id}/email
func (h *CommunicationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	var payload sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	sent, err := h.service.SendEmail(r.Context(), residentID, payload.Recipient, payload.Subject, payload.Body, payload.DocumentIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"email_sent": sent,
	})
}

// ListDocuments handles GET /api/residents/{id}/documents
func (h *CommunicationHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	documents, err := h.service.ListDocuments(r.Context(), residentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// UploadDocument handles POST /api/residents/{id}/documents
func (h *CommunicationHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	residentID := r.PathValue("id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	category := r.FormValue("category")
	contentType := header.Header.Get("Content-Type")

	document, err := h.service.UploadDocument(r.Context(), residentID, name, category, contentType, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, document)
}
