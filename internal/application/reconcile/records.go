package reconcile

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRecord is one incoming product payload, from a marketplace
// import or from an API client. A record must carry an external ID or
// a SKU so it can be matched idempotently on resubmission.
type ProductRecord struct {
	ID                 *uuid.UUID       `json:"id,omitempty"`
	ExternalID         string           `json:"external_id" validate:"required_without=SKU,max=100"`
	SKU                string           `json:"sku" validate:"required_without=ExternalID,max=100"`
	Barcode            string           `json:"barcode,omitempty" validate:"max=100"`
	Title              string           `json:"title" validate:"required,max=255"`
	Description        string           `json:"description,omitempty" validate:"max=5000"`
	CategoryExternalID string           `json:"category_external_id,omitempty" validate:"max=100"`
	CategoryName       string           `json:"category_name,omitempty" validate:"max=255"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	OldPrice           *decimal.Decimal `json:"old_price,omitempty"`
	Stock              *decimal.Decimal `json:"stock,omitempty"`
	Images             []string         `json:"images,omitempty" validate:"max=30,dive,max=1024"`
	PriceListIDs       []uuid.UUID      `json:"price_list_ids,omitempty"`
	Variations         []VariationRecord `json:"variations,omitempty" validate:"dive"`
}

// VariationRecord is one incoming SKU payload nested in a product record.
type VariationRecord struct {
	ExternalID string           `json:"external_id" validate:"required_without=VendorCode,max=100"`
	VendorCode string           `json:"vendor_code" validate:"required_without=ExternalID,max=100"`
	Barcode    string           `json:"barcode,omitempty" validate:"max=100"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	OldPrice   *decimal.Decimal `json:"old_price,omitempty"`
	Stock      *decimal.Decimal `json:"stock,omitempty"`
	Items      []ItemRecord     `json:"items,omitempty" validate:"dive"`
}

// ItemRecord is one incoming sub-unit payload nested in a variation.
type ItemRecord struct {
	ExternalID string           `json:"external_id" validate:"required,max=100"`
	Value      string           `json:"value" validate:"required,max=255"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Stock      *decimal.Decimal `json:"stock,omitempty"`
}

// DeleteRecord identifies one entity to remove.
type DeleteRecord struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	ExternalID string     `json:"external_id,omitempty" validate:"max=100"`
	SKU        string     `json:"sku,omitempty" validate:"max=100"`
}

// CategoryRecord is one incoming category payload.
type CategoryRecord struct {
	ID               *uuid.UUID `json:"id,omitempty"`
	ExternalID       string     `json:"external_id" validate:"required_without=Name,max=100"`
	Name             string     `json:"name" validate:"required_without=ExternalID,max=255"`
	ParentExternalID string     `json:"parent_external_id,omitempty" validate:"max=100"`
}

// PriceRecordInput is one incoming per-price-list override.
type PriceRecordInput struct {
	PriceListID uuid.UUID        `json:"price_list_id" validate:"required"`
	OwnerType   string           `json:"type" validate:"required,oneof=product variation item"`
	ExternalID  string           `json:"external_id" validate:"required_without=SKU,max=100"`
	SKU         string           `json:"sku,omitempty" validate:"max=100"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	Stock       *decimal.Decimal `json:"stock,omitempty"`
}
