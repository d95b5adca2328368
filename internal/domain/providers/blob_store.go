package providers

import (
	"context"
	"io"
)

// BlobRef is the stored reference to an uploaded artifact
type BlobRef struct {
	URL         string
	Size        int64
	ContentType string
}

// BlobStore stores uploaded file content and returns a reference. The core
// persists only the reference, never the content.
type BlobStore interface {
	// Put stores the content and returns its reference
	Put(ctx context.Context, name, contentType string, content io.Reader) (*BlobRef, error)
}
