package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domusvita/careflow/backend/internal/api/handlers"
	"github.com/domusvita/careflow/backend/internal/domain/entities"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

type stubCommunicationService struct {
	recorded     []*entities.Communication
	entries      []*entities.Communication
	documents    []*entities.Document
	uploaded     *entities.Document
	uploadedName string
	sent         bool
	err          error
}

func (s *stubCommunicationService) Record(ctx context.Context, residentID string, communication *entities.Communication) error {
	if s.err != nil {
		return s.err
	}
	communication.ID = "comm-id"
	s.recorded = append(s.recorded, communication)
	return nil
}

func (s *stubCommunicationService) List(ctx context.Context, residentID string) ([]*entities.Communication, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *stubCommunicationService) SendEmail(ctx context.Context, residentID, recipient, subject, body string, documentIDs []string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.sent, nil
}

func (s *stubCommunicationService) UploadDocument(ctx context.Context, residentID, name, category, contentType string, content io.Reader) (*entities.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.uploadedName = name
	return s.uploaded, nil
}

func (s *stubCommunicationService) ListDocuments(ctx context.Context, residentID string) ([]*entities.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.documents, nil
}

func TestCommunicationHandler_ListCommunications(t *testing.T) {
	service := &stubCommunicationService{entries: []*entities.Communication{
		{ID: "c1", ResidentID: "r1", Type: entities.CommunicationNote, Subject: "first call"},
	}}
	handler := handlers.NewCommunicationHandler(service)

	req := httptest.NewRequest("GET", "/api/residents/r1/communications", nil)
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.ListCommunications(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(1), response["count"])
}

func TestCommunicationHandler_CreateCommunication(t *testing.T) {
	service := &stubCommunicationService{}
	handler := handlers.NewCommunicationHandler(service)

	body := `{"type":"viewing","subject":"viewing on friday","body":"confirmed with family"}`
	req := httptest.NewRequest("POST", "/api/residents/r1/communications", strings.NewReader(body))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.CreateCommunication(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.recorded, 1)
	assert.Equal(t, entities.CommunicationViewing, service.recorded[0].Type)
}

func TestCommunicationHandler_CreateCommunication_UnknownType(t *testing.T) {
	service := &stubCommunicationService{err: apperrors.NewValidationError("unknown communication type: telegraph")}
	handler := handlers.NewCommunicationHandler(service)

	req := httptest.NewRequest("POST", "/api/residents/r1/communications", strings.NewReader(`{"type":"telegraph"}`))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.CreateCommunication(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunicationHandler_SendEmail(t *testing.T) {
	service := &stubCommunicationService{sent: true}
	handler := handlers.NewCommunicationHandler(service)

	body := `{"recipient":"family@example.org","subject":"welcome","body":"hello"}`
	req := httptest.NewRequest("POST", "/api/residents/r1/email", strings.NewReader(body))
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.SendEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, true, response["email_sent"])
}

func TestCommunicationHandler_UploadDocument(t *testing.T) {
	service := &stubCommunicationService{uploaded: &entities.Document{
		ID:      "d1",
		Name:    "contract.pdf",
		FileURL: "http://blobs.local/contract.pdf",
	}}
	handler := handlers.NewCommunicationHandler(service)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "contract.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("category", "contract"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/residents/r1/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	// Name falls back to the uploaded filename
	assert.Equal(t, "contract.pdf", service.uploadedName)
}

func TestCommunicationHandler_UploadDocument_MissingFile(t *testing.T) {
	handler := handlers.NewCommunicationHandler(&stubCommunicationService{})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("category", "contract"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/residents/r1/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.UploadDocument(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunicationHandler_ListDocuments(t *testing.T) {
	service := &stubCommunicationService{documents: []*entities.Document{
		{ID: "d1", Name: "contract.pdf"},
		{ID: "d2", Name: "care-plan.pdf"},
	}}
	handler := handlers.NewCommunicationHandler(service)

	req := httptest.NewRequest("GET", "/api/residents/r1/documents", nil)
	req.SetPathValue("id", "r1")
	w := httptest.NewRecorder()

	handler.ListDocuments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, float64(2), response["count"])
}
