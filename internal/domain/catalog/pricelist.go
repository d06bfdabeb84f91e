package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/shared"
)

var (
	ErrPriceListNameRequired = errors.New("catalog: price list name is required")
	ErrPriceOwnerInvalid     = errors.New("catalog: invalid price owner type")
)

// PriceList is a named collection of products with per-list price and
// stock overrides. Integrations bind to a price list to decide which
// values are exported to a marketplace.
type PriceList struct {
	shared.TenantEntity
	Name      string
	IsDefault bool
}

// NewPriceList creates a price list for the tenant.
func NewPriceList(tenantID uuid.UUID, name string) (*PriceList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrPriceListNameRequired
	}
	return &PriceList{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
	}, nil
}

// PriceRecord is a per-list price/stock override keyed by
// (price list, owner type, owner id). Owner may be a product, a
// variation or a variation item.
type PriceRecord struct {
	shared.BaseEntity
	PriceListID uuid.UUID
	OwnerType   OwnerType
	OwnerID     uuid.UUID
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Stock       decimal.Decimal
}

// NewPriceRecord creates a price record for the given owner.
func NewPriceRecord(priceListID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) (*PriceRecord, error) {
	if !ownerType.IsValid() {
		return nil, ErrPriceOwnerInvalid
	}
	return &PriceRecord{
		BaseEntity:  shared.NewBaseEntity(),
		PriceListID: priceListID,
		OwnerType:   ownerType,
		OwnerID:     ownerID,
	}, nil
}

// PriceListRepository persists price lists, their product membership
// and per-list price records.
type PriceListRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PriceList, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]PriceList, error)
	Save(ctx context.Context, list *PriceList) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// SyncProducts attaches the products to the list without detaching
	// existing members. One call services a whole reconciliation batch.
	SyncProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error

	// DetachProducts removes the products from the list.
	DetachProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error

	// FindPriceRecord loads the override for (list, owner type, owner).
	FindPriceRecord(ctx context.Context, listID uuid.UUID, ownerType OwnerType, ownerID uuid.UUID) (*PriceRecord, error)

	// SavePriceRecords upserts a batch of price records.
	SavePriceRecords(ctx context.Context, records []PriceRecord) error
}
