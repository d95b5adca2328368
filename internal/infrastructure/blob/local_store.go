package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/domusvita/careflow/backend/internal/domain/providers"
)

// LocalStore is a stand-in blob store that assigns opaque URLs without
// persisting content anywhere durable. The core only ever stores the
// returned reference, so swapping in S3 or similar later is a drop-in.
type LocalStore struct {
	baseURL string
}

// NewLocalStore creates a blob store serving references under baseURL
func NewLocalStore(baseURL string) providers.BlobStore {
	return &LocalStore{baseURL: baseURL}
}

// Put consumes the content and returns a reference to it
func (s *LocalStore) Put(ctx context.Context, name, contentType string, content io.Reader) (*providers.BlobRef, error) {
	size, err := io.Copy(io.Discard, content)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}

	return &providers.BlobRef{
		URL:         fmt.Sprintf("%s/blobs/%s/%s", s.baseURL, uuid.New().String(), name),
		Size:        size,
		ContentType: contentType,
	}, nil
}
