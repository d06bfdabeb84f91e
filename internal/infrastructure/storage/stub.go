package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/application/reconcile"
)

// Ensure StubImageStore implements the reconciliation image store port
var _ reconcile.ImageStore = (*StubImageStore)(nil)

// StubImageStore is an in-memory image store for development and tests.
// Promotions are recorded but no bytes move anywhere.
type StubImageStore struct {
	// BaseURL is the base for permanent URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu       sync.Mutex
	promoted []string
}

// NewStubImageStore creates a new StubImageStore
func NewStubImageStore() *StubImageStore {
	return &StubImageStore{
		BaseURL: "https://storage.example.com",
	}
}

// IsUploadRef reports whether ref is a temporary upload reference.
func (s *StubImageStore) IsUploadRef(ref string) bool {
	return strings.HasPrefix(ref, uploadScheme)
}

// IssueUploadRef opens a fake upload session. The returned URL is not
// backed by anything; tests and development flows only need the ref.
func (s *StubImageStore) IssueUploadRef(ctx context.Context, tenantID uuid.UUID, contentType string) (string, string, time.Time, error) {
	name := uuid.New().String()
	ref := uploadScheme + name
	uploadURL := s.BaseURL + "/upload/" + tenantID.String() + "/" + name
	return ref, uploadURL, time.Now().Add(15 * time.Minute), nil
}

// PermanentURL returns a deterministic permanent URL for ref.
func (s *StubImageStore) PermanentURL(ctx context.Context, tenantID uuid.UUID, ref string) (string, error) {
	if !s.IsUploadRef(ref) {
		return "", fmt.Errorf("not an upload reference: %s", ref)
	}
	name := strings.TrimPrefix(ref, uploadScheme)
	return s.BaseURL + "/" + tenantID.String() + "/" + name, nil
}

// Promote records the promotion and succeeds.
func (s *StubImageStore) Promote(ctx context.Context, tenantID uuid.UUID, ref string) error {
	if !s.IsUploadRef(ref) {
		return fmt.Errorf("not an upload reference: %s", ref)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoted = append(s.promoted, ref)
	return nil
}

// Promoted returns the refs promoted so far, in order.
func (s *StubImageStore) Promoted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.promoted))
	copy(out, s.promoted)
	return out
}
