package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// SupplyStatus is the lifecycle state of a shipment container.
type SupplyStatus string

const (
	SupplyStatusOpen   SupplyStatus = "open"
	SupplyStatusClosed SupplyStatus = "closed"
)

// Supply is a batched shipment container of orders sent to a
// marketplace warehouse. At most one open supply exists per
// (tenant, marketplace, order type); closing is irreversible.
type Supply struct {
	shared.TenantEntity
	Marketplace Code
	ExternalID  string
	Name        string
	OrderType   OrderType
	Status      SupplyStatus
	ClosedAt    *time.Time
}

// NewSupply opens a supply mirroring a remote container.
func NewSupply(tenantID uuid.UUID, code Code, orderType OrderType, remote RemoteSupply) *Supply {
	return &Supply{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Marketplace:  code,
		ExternalID:   remote.ExternalID,
		Name:         remote.Name,
		OrderType:    orderType,
		Status:       SupplyStatusOpen,
	}
}

// IsClosed returns true once the supply has been finalized.
func (s *Supply) IsClosed() bool {
	return s.Status == SupplyStatusClosed
}

// Close finalizes the supply. Closing an already closed supply is a
// business-rule violation.
func (s *Supply) Close() error {
	if s.IsClosed() {
		return shared.NewDomainError("SUPPLY_CLOSED", "supply is already closed")
	}
	now := time.Now()
	s.Status = SupplyStatusClosed
	s.ClosedAt = &now
	s.Touch()
	return nil
}

// SupplyRepository persists supplies.
type SupplyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Supply, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, code Code, externalID string) (*Supply, error)

	// FindOpen returns the open supply for (tenant, marketplace, order
	// type), or shared.ErrNotFound mapped by the implementation.
	FindOpen(ctx context.Context, tenantID uuid.UUID, code Code, orderType OrderType) (*Supply, error)

	FindAll(ctx context.Context, tenantID uuid.UUID, code Code) ([]Supply, error)
	Save(ctx context.Context, supply *Supply) error
}
