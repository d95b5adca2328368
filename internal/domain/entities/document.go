package entities

import (
	"time"
)

// DocumentStatus tracks whether a document reference has been stored
const DocumentStatusUploaded = "uploaded"

// Document is a blob-store reference attached to a resident. The file
// content itself lives in the blob store; only the reference is persisted.
type Document struct {
	ID          string    `json:"id" db:"id"`
	ResidentID  string    `json:"resident_id" db:"resident_id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	FileURL     string    `json:"file_url" db:"file_url"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
