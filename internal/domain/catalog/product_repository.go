package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter defines filter criteria for product listings.
type ProductFilter struct {
	Status      *ProductStatus
	CategoryID  *uuid.UUID
	PriceListID *uuid.UUID
	Search      string
	Page        int
	PageSize    int
}

// ProductRepository persists the product aggregate (variations and
// items are saved with their product).
type ProductRepository interface {
	// FindByID finds a product owned by the tenant.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByExternalID finds a product by its external identifier.
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Product, error)

	// FindBySKU finds a product by its SKU natural key.
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)

	// FindByIDs loads a batch of products owned by the tenant.
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products matching the filter.
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) ([]Product, int64, error)

	// ExistsBySKU reports whether another product already uses the SKU.
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)

	// FindOwner resolves a price/stock owner (product, variation or
	// item) by external ID or natural key. It returns the owner ID and
	// the ID of the product that owns it.
	FindOwner(ctx context.Context, tenantID uuid.UUID, ownerType OwnerType, externalID, sku string) (ownerID, productID uuid.UUID, err error)

	// Save creates or updates a product with its variations and items.
	Save(ctx context.Context, product *Product) error

	// Delete removes a product and its dependents. Implementations must
	// delete variations, items, price records and marketplace listings
	// in the same transaction, children first.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
