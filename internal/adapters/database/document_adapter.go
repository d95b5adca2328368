package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/domusvita/careflow/backend/internal/domain/entities"
	"github.com/domusvita/careflow/backend/internal/domain/repositories"
	"github.com/domusvita/careflow/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/domusvita/careflow/backend/pkg/errors"
)

var documentColumns = []interface{}{
	"id", "resident_id", "name", "category", "file_url", "file_size",
	"content_type", "uploaded_by", "status", "created_at",
}

// DocumentAdapter implements the DocumentRepository interface
type DocumentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDocumentAdapter creates a new document adapter
func NewDocumentAdapter(client *postgres.Client) repositories.DocumentRepository {
	return &DocumentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a document reference
func (a *DocumentAdapter) Create(ctx context.Context, document *entities.Document) error {
	record := goqu.Record{
		"id":           document.ID,
		"resident_id":  document.ResidentID,
		"name":         document.Name,
		"category":     document.Category,
		"file_url":     document.FileURL,
		"file_size":    document.FileSize,
		"content_type": document.ContentType,
		"uploaded_by":  document.UploadedBy,
		"status":       document.Status,
		"created_at":   document.CreatedAt,
	}

	query, args, err := a.db.Insert("documents").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to create document", err)
	}

	return nil
}

// GetByID retrieves a document reference by ID
func (a *DocumentAdapter) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	query, args, err := a.db.Select(documentColumns...).From("documents").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	document, err := a.scanDocument(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewTransientError("failed to get document", err)
	}

	return document, nil
}

// ListByResident returns a resident's documents, most recent first
func (a *DocumentAdapter) ListByResident(ctx context.Context, residentID string) ([]*entities.Document, error) {
	query, args, err := a.db.Select(documentColumns...).From("documents").
		Where(goqu.Ex{"resident_id": residentID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list documents", err)
	}
	defer rows.Close()

	var documents []*entities.Document
	for rows.Next() {
		document, err := a.scanDocument(rows)
		if err != nil {
			return nil, apperrors.NewTransientError("failed to scan document", err)
		}
		documents = append(documents, document)
	}

	return documents, nil
}

// DeleteByResident removes all references of a resident
func (a *DocumentAdapter) DeleteByResident(ctx context.Context, residentID string) error {
	query, args, err := a.db.Delete("documents").
		Where(goqu.Ex{"resident_id": residentID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewTransientError("failed to delete documents", err)
	}

	return nil
}

func (a *DocumentAdapter) scanDocument(row rowScanner) (*entities.Document, error) {
	document := &entities.Document{}
	err := row.Scan(
		&document.ID,
		&document.ResidentID,
		&document.Name,
		&document.Category,
		&document.FileURL,
		&document.FileSize,
		&document.ContentType,
		&document.UploadedBy,
		&document.Status,
		&document.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return document, nil
}
