// Package blobstore provides document blob storage for the claims portal.
// It defines the BlobStore interface, an in-memory implementation suitable
// for testing and development, HMAC presigned-URL minting and verification,
// Echo HTTP handlers for presign/upload/delete, and the two-round-trip
// transfer client used by the booking document workflow.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingPath        = errors.New("blob path is required")
)

// ---------------------------------------------------------------------------
// Validation constants
// ---------------------------------------------------------------------------

// MaxFileSize is the maximum allowed document size in bytes (5 MB). Larger
// uploads are rejected before anything is written.
const MaxFileSize = 5 * 1024 * 1024

// AllowedContentType is the only MIME type the portal stores. Booking
// documents are always PDFs.
const AllowedContentType = "application/pdf"

// ---------------------------------------------------------------------------
// BlobStore interface
// ---------------------------------------------------------------------------

// BlobStore defines the contract for blob storage backends. Paths are
// slash-separated keys, e.g. "bookings/documents/Booking-Docs-1712345.pdf".
type BlobStore interface {
	Put(ctx context.Context, path string, contentType string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// InMemoryBlobStore is a thread-safe, in-memory BlobStore for testing/dev.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewInMemoryBlobStore returns a ready-to-use InMemoryBlobStore.
func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

// Put validates the content type and size, reads the content, and stores the
// blob in memory.
func (s *InMemoryBlobStore) Put(_ context.Context, path, contentType string, content io.Reader) error {
	if path == "" {
		return ErrMissingPath
	}
	if contentType != AllowedContentType {
		return ErrInvalidContentType
	}

	// Read into memory so size can be enforced before storing.
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return ErrFileTooLarge
	}

	s.mu.Lock()
	s.blobs[path] = data
	s.mu.Unlock()

	return nil
}

// Get returns an io.ReadCloser over the blob content.
func (s *InMemoryBlobStore) Get(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.blobs[path]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a blob by path.
func (s *InMemoryBlobStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[path]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, path)
	return nil
}

// Exists reports whether a blob is stored at path.
func (s *InMemoryBlobStore) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[path]
	return ok, nil
}

// Len returns the number of stored blobs.
func (s *InMemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
