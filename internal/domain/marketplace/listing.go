package marketplace

import (
	"context"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// ListingState is the per-marketplace publication state of a local object.
type ListingState string

const (
	ListingStatePending ListingState = "pending"
	ListingStateSuccess ListingState = "success"
	ListingStateError   ListingState = "error"
)

// Listing tracks the publication of one local product, variation or
// item on one marketplace, keyed by (owner type, owner id, marketplace,
// tenant). Export jobs create and update listings; deleting the owning
// catalog object deletes its listings through the explicit catalog
// deletion scripts.
type Listing struct {
	shared.TenantEntity
	Marketplace Code
	OwnerType   catalog.OwnerType
	OwnerID     uuid.UUID
	// ExternalID is the marketplace-assigned identifier once published.
	ExternalID string
	State      ListingState
	LastError  string
	// TaskID is the marketplace-side async task that last touched this
	// listing, used for ExportStatus polling.
	TaskID string
}

// NewListing creates a pending listing for the owner.
func NewListing(tenantID uuid.UUID, code Code, ownerType catalog.OwnerType, ownerID uuid.UUID) *Listing {
	return &Listing{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Marketplace:  code,
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		State:        ListingStatePending,
	}
}

// MarkSuccess records a successful publication.
func (l *Listing) MarkSuccess(externalID string) {
	if externalID != "" {
		l.ExternalID = externalID
	}
	l.State = ListingStateSuccess
	l.LastError = ""
	l.Touch()
}

// MarkError records a failed publication with its reason.
func (l *Listing) MarkError(message string) {
	l.State = ListingStateError
	l.LastError = message
	l.Touch()
}

// MarkPending records that an export task is in flight.
func (l *Listing) MarkPending(taskID string) {
	l.State = ListingStatePending
	l.TaskID = taskID
	l.Touch()
}

// ListingRepository persists listings.
type ListingRepository interface {
	FindByOwner(ctx context.Context, tenantID uuid.UUID, code Code, ownerType catalog.OwnerType, ownerID uuid.UUID) (*Listing, error)
	FindByOwners(ctx context.Context, tenantID uuid.UUID, code Code, ownerType catalog.OwnerType, ownerIDs []uuid.UUID) ([]Listing, error)
	FindByState(ctx context.Context, tenantID uuid.UUID, code Code, state ListingState) ([]Listing, error)
	Save(ctx context.Context, listing *Listing) error
	SaveBatch(ctx context.Context, listings []*Listing) error
	DeleteByOwner(ctx context.Context, tenantID uuid.UUID, ownerType catalog.OwnerType, ownerID uuid.UUID) error
}
