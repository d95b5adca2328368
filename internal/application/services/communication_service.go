package services

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/providers"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

// CommunicationService handles the contact-event log, outbound email and
// document uploads for residents.
type CommunicationService struct {
	residentRepo repositories.ResidentRepository
	repo         repositories.CommunicationRepository
	activityRepo repositories.ActivityRepository
	documentRepo repositories.DocumentRepository
	emailSender  providers.EmailSender
	blobStore    providers.BlobStore
}

// NewCommunicationService creates a new communication service
func NewCommunicationService(
	residentRepo repositories.ResidentRepository,
	repo repositories.CommunicationRepository,
	activityRepo repositories.ActivityRepository,
	documentRepo repositories.DocumentRepository,
	emailSender providers.EmailSender,
	blobStore providers.BlobStore,
) *CommunicationService {
	return &CommunicationService{
		residentRepo: residentRepo,
		repo:         repo,
		activityRepo: activityRepo,
		documentRepo: documentRepo,
		emailSender:  emailSender,
		blobStore:    blobStore,
	}
}

// Record appends a communication entry and a derived audit activity
func (s *CommunicationService) Record(ctx context.Context, residentID string, communication *entities.Communication) error {
	if _, err := s.residentRepo.GetByID(ctx, residentID); err != nil {
		return err
	}
	if communication.Type == "" {
		communication.Type = entities.CommunicationNote
	}
	if !entities.ValidCommunicationType(communication.Type) {
		return apperrors.NewValidationError("unknown communication type: " + string(communication.Type))
	}

	if communication.ID == "" {
		communication.ID = uuid.New().String()
	}
	communication.ResidentID = residentID
	if communication.Author == "" {
		communication.Author = "system"
	}
	communication.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, communication); err != nil {
		return err
	}

	s.recordActivity(ctx, residentID, communication.Type.ActivityLabel(), &communication.Subject)

	return nil
}

// List returns a resident's communications, most recent first
func (s *CommunicationService) List(ctx context.Context, residentID string) ([]*entities.Communication, error) {
	if _, err := s.residentRepo.GetByID(ctx, residentID); err != nil {
		return nil, err
	}

	communications, err := s.repo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if communications == nil {
		communications = []*entities.Communication{}
	}
	return communications, nil
}

// SendEmail sends an email to the resident's contact through the configured
// sender and logs the communication regardless of delivery outcome. The
// returned flag reports whether delivery actually happened.
func (s *CommunicationService) SendEmail(ctx context.Context, residentID, recipient, subject, body string, documentIDs []string) (bool, error) {
	resident, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return false, err
	}

	if strings.TrimSpace(recipient) == "" {
		recipient = resident.EmergencyContact.Email
	}
	if strings.TrimSpace(recipient) == "" {
		return false, apperrors.NewValidationError("no recipient address available")
	}

	var attachments []providers.EmailAttachment
	var attachmentNames []string
	for _, documentID := range documentIDs {
		document, err := s.documentRepo.GetByID(ctx, documentID)
		if err != nil {
			return false, err
		}
		attachments = append(attachments, providers.EmailAttachment{
			Name: document.Name,
			URL:  document.FileURL,
		})
		attachmentNames = append(attachmentNames, document.Name)
	}

	sent, err := s.emailSender.Send(ctx, recipient, subject, body, attachments)
	if err != nil {
		// The contact attempt is logged either way
		log.Printf("Warning: Failed to send email to %s: %v", recipient, err)
		sent = false
	}

	communication := &entities.Communication{
		Type:        entities.CommunicationEmailOut,
		Subject:     subject,
		Body:        body,
		Attachments: attachmentNames,
	}
	if err := s.Record(ctx, residentID, communication); err != nil {
		return sent, err
	}

	return sent, nil
}

// UploadDocument stores the content in the blob store and persists the
// returned reference
func (s *CommunicationService) UploadDocument(ctx context.Context, residentID, name, category, contentType string, content io.Reader) (*entities.Document, error) {
	if _, err := s.residentRepo.GetByID(ctx, residentID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("document name is required")
	}

	ref, err := s.blobStore.Put(ctx, name, contentType, content)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to store document content", err)
	}

	document := &entities.Document{
		ID:          uuid.New().String(),
		ResidentID:  residentID,
		Name:        name,
		Category:    category,
		FileURL:     ref.URL,
		FileSize:    ref.Size,
		ContentType: ref.ContentType,
		UploadedBy:  "system",
		Status:      entities.DocumentStatusUploaded,
		CreatedAt:   time.Now(),
	}
	if err := s.documentRepo.Create(ctx, document); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, residentID, "document uploaded", &document.Name)

	return document, nil
}

// ListDocuments returns a resident's documents, most recent first
func (s *CommunicationService) ListDocuments(ctx context.Context, residentID string) ([]*entities.Document, error) {
	if _, err := s.residentRepo.GetByID(ctx, residentID); err != nil {
		return nil, err
	}

	documents, err := s.documentRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if documents == nil {
		documents = []*entities.Document{}
	}
	return documents, nil
}

func (s *CommunicationService) recordActivity(ctx context.Context, residentID, action string, after *string) {
	activity := &entities.Activity{
		ID:         uuid.New().String(),
		ResidentID: residentID,
		Actor:      "system",
		Action:     action,
		After:      after,
		CreatedAt:  time.Now(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("Warning: Failed to record activity for resident %s: %v", residentID, err)
	}
}
