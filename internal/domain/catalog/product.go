package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/shared"
)

var (
	ErrProductInvalidTenant = errors.New("catalog: invalid tenant ID")
	ErrProductTitleRequired = errors.New("catalog: product title is required")
	ErrProductKeyRequired   = errors.New("catalog: product needs an external ID, SKU or barcode")
	ErrVariationNotFound    = errors.New("catalog: variation not found")
)

// ProductStatus controls local visibility of a product and its variations.
type ProductStatus string

const (
	ProductStatusPublished   ProductStatus = "published"
	ProductStatusUnpublished ProductStatus = "unpublished"
)

// IsValid returns true if the status is valid
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusPublished || s == ProductStatusUnpublished
}

// OwnerType tags which level of the product hierarchy a price, stock or
// listing record belongs to.
type OwnerType string

const (
	OwnerTypeProduct   OwnerType = "product"
	OwnerTypeVariation OwnerType = "variation"
	OwnerTypeItem      OwnerType = "item"
)

// IsValid returns true if the owner type is valid
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerTypeProduct, OwnerTypeVariation, OwnerTypeItem:
		return true
	default:
		return false
	}
}

// Product is the aggregate root of the three-level catalog hierarchy:
// a product owns 1..N variations (SKUs), each variation owns 0..N items.
// Every product carries at least one variation so that per-marketplace
// price and stock export works uniformly at the variation level.
type Product struct {
	shared.TenantEntity
	// ExternalID is the marketplace- or client-assigned identifier used
	// to match records across systems.
	ExternalID  string
	SKU         string
	Barcode     string
	Title       string
	Description string
	CategoryID  *uuid.UUID
	Status      ProductStatus
	Images      []string
	Variations  []Variation
}

// Variation is a sellable SKU of a product.
type Variation struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	ExternalID string
	VendorCode string
	Barcode    string
	Status     ProductStatus
	Price      decimal.Decimal
	OldPrice   decimal.Decimal
	Stock      decimal.Decimal
	Items      []VariationItem
}

// VariationItem is a size/flavor-like sub-unit of a variation.
type VariationItem struct {
	shared.BaseEntity
	VariationID uuid.UUID
	ExternalID  string
	Value       string
	Price       decimal.Decimal
	Stock       decimal.Decimal
}

// NewProduct creates a product. At least one of external ID, SKU or
// barcode must be set so the product can be matched on re-import.
func NewProduct(tenantID uuid.UUID, externalID, sku, title string) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrProductInvalidTenant
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrProductTitleRequired
	}
	if externalID == "" && sku == "" {
		return nil, ErrProductKeyRequired
	}
	return &Product{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ExternalID:   externalID,
		SKU:          sku,
		Title:        title,
		Status:       ProductStatusPublished,
	}, nil
}

// AddVariation adds a variation to the product.
func (p *Product) AddVariation(v Variation) *Variation {
	if v.ID == uuid.Nil {
		v.BaseEntity = shared.NewBaseEntity()
	}
	v.ProductID = p.ID
	if v.Status == "" {
		v.Status = ProductStatusPublished
	}
	p.Variations = append(p.Variations, v)
	p.Touch()
	return &p.Variations[len(p.Variations)-1]
}

// EnsureDefaultVariation synthesizes the default variation when the
// product has none: published, vendor code equal to the product SKU.
// Returns the variation that guarantees the hierarchy invariant.
func (p *Product) EnsureDefaultVariation() *Variation {
	if len(p.Variations) > 0 {
		return &p.Variations[0]
	}
	return p.AddVariation(Variation{
		VendorCode: p.SKU,
		Barcode:    p.Barcode,
		Status:     ProductStatusPublished,
	})
}

// VariationByExternalID finds a variation by its external ID.
func (p *Product) VariationByExternalID(externalID string) (*Variation, bool) {
	if externalID == "" {
		return nil, false
	}
	for i := range p.Variations {
		if p.Variations[i].ExternalID == externalID {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

// VariationByVendorCode finds a variation by its vendor code.
func (p *Product) VariationByVendorCode(vendorCode string) (*Variation, bool) {
	if vendorCode == "" {
		return nil, false
	}
	for i := range p.Variations {
		if p.Variations[i].VendorCode == vendorCode {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

// Publish marks the product as published.
func (p *Product) Publish() {
	p.Status = ProductStatusPublished
	p.Touch()
}

// Unpublish marks the product as unpublished.
func (p *Product) Unpublish() {
	p.Status = ProductStatusUnpublished
	p.Touch()
}

// IsPublished returns true when the product is visible.
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}
