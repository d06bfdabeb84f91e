package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ListProductsQuery narrows and pages product listings.
type ListProductsQuery struct {
	Status      string     `form:"status"`
	CategoryID  *uuid.UUID `form:"category_id"`
	PriceListID *uuid.UUID `form:"price_list_id"`
	Search      string     `form:"search"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// ProductResponse is the API projection of a product aggregate.
type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	ExternalID  string              `json:"external_id,omitempty"`
	SKU         string              `json:"sku,omitempty"`
	Barcode     string              `json:"barcode,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	Status      string              `json:"status"`
	Images      []string            `json:"images,omitempty"`
	Variations  []VariationResponse `json:"variations,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// VariationResponse is the API projection of a variation.
type VariationResponse struct {
	ID         uuid.UUID       `json:"id"`
	ExternalID string          `json:"external_id,omitempty"`
	VendorCode string          `json:"vendor_code,omitempty"`
	Barcode    string          `json:"barcode,omitempty"`
	Status     string          `json:"status"`
	Price      decimal.Decimal `json:"price"`
	OldPrice   decimal.Decimal `json:"old_price"`
	Stock      decimal.Decimal `json:"stock"`
	Items      []ItemResponse  `json:"items,omitempty"`
}

// ItemResponse is the API projection of a variation item.
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ExternalID string          `json:"external_id,omitempty"`
	Value      string          `json:"value"`
	Price      decimal.Decimal `json:"price"`
	Stock      decimal.Decimal `json:"stock"`
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func toProductResponse(product *catalog.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:          product.ID,
		ExternalID:  product.ExternalID,
		SKU:         product.SKU,
		Barcode:     product.Barcode,
		Title:       product.Title,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Status:      string(product.Status),
		Images:      product.Images,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for _, variation := range product.Variations {
		v := VariationResponse{
			ID:         variation.ID,
			ExternalID: variation.ExternalID,
			VendorCode: variation.VendorCode,
			Barcode:    variation.Barcode,
			Status:     string(variation.Status),
			Price:      variation.Price,
			OldPrice:   variation.OldPrice,
			Stock:      variation.Stock,
		}
		for _, item := range variation.Items {
			v.Items = append(v.Items, ItemResponse{
				ID:         item.ID,
				ExternalID: item.ExternalID,
				Value:      item.Value,
				Price:      item.Price,
				Stock:      item.Stock,
			})
		}
		resp.Variations = append(resp.Variations, v)
	}
	return resp
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// CreateCategoryRequest creates one category.
type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,max=255"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// UpdateCategoryRequest renames or moves one category.
type UpdateCategoryRequest struct {
	Name     *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	// MoveToRoot distinguishes "make this a root category" from
	// "leave the parent alone", which a nil ParentID cannot.
	MoveToRoot bool `json:"move_to_root,omitempty"`
}

// CategoryResponse is the API projection of a category.
type CategoryResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ExternalID       string     `json:"external_id,omitempty"`
	ParentID         *uuid.UUID `json:"parent_id,omitempty"`
	SystemCategoryID *uuid.UUID `json:"system_category_id,omitempty"`
	SortOrder        int        `json:"sort_order"`
}

func toCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:               category.ID,
		Name:             category.Name,
		ExternalID:       category.ExternalID,
		ParentID:         category.ParentID,
		SystemCategoryID: category.SystemCategoryID,
		SortOrder:        category.SortOrder,
	}
}

// ---------------------------------------------------------------------------
// Price lists
// ---------------------------------------------------------------------------

// CreatePriceListRequest creates one price list.
type CreatePriceListRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// PriceListResponse is the API projection of a price list.
type PriceListResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func toPriceListResponse(list *catalog.PriceList) *PriceListResponse {
	return &PriceListResponse{
		ID:        list.ID,
		Name:      list.Name,
		IsDefault: list.IsDefault,
		CreatedAt: list.CreatedAt,
	}
}
