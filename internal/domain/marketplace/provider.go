package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// AttributeSchema describes one attribute a marketplace category
// requires or accepts for product cards.
type AttributeSchema struct {
	// ExternalID is the attribute ID on the marketplace
	ExternalID string
	Name       string
	// Type is the marketplace value type (string, number, dictionary)
	Type string
	Required   bool
	Collection bool
	// DictionaryID references the dictionary enumerating allowed values,
	// empty when the attribute is free-form.
	DictionaryID string
}

// DictionaryQuery selects enumerable reference values on a marketplace.
type DictionaryQuery struct {
	DictionaryID string
	// CategoryExternalID scopes dictionaries that vary per category
	CategoryExternalID string
	Search             string
	Limit              int
}

// DictionaryValue is one enumerable reference value (an allowed color
// name, for example).
type DictionaryValue struct {
	ExternalID string
	Value      string
	Info       string
}

// DictionaryRecord is a normalized taxonomy record produced by the
// attribute crawl and consumed by the dictionary mapper.
type DictionaryRecord struct {
	Kind             DictionaryKind
	ExternalID       string
	ParentExternalID string
	Name             string
	Payload          map[string]any
}

// ProductExport is the marketplace-facing projection of a local product
// assembled from the catalog and the integration's price list.
type ProductExport struct {
	ProductID  uuid.UUID
	ExternalID string
	SKU        string
	Barcode    string
	Title      string
	Description string
	// CategoryExternalID is the mapped marketplace category
	CategoryExternalID string
	Price              decimal.Decimal
	OldPrice           decimal.Decimal
	Stock              decimal.Decimal
	Images             []string
	Attributes         []AttributeValue
	Variations         []VariationExport
}

// AttributeValue carries one resolved attribute value for export.
type AttributeValue struct {
	AttributeExternalID string
	Value               string
	DictionaryValueID   string
}

// VariationExport is the marketplace-facing projection of a variation.
type VariationExport struct {
	VariationID uuid.UUID
	ExternalID  string
	VendorCode  string
	Barcode     string
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Stock       decimal.Decimal
}

// ListingRef identifies one local object on a marketplace for
// visibility toggles.
type ListingRef struct {
	OwnerType  catalog.OwnerType
	OwnerID    uuid.UUID
	ExternalID string
}

// PriceStockUpdate is one price/stock delta pushed to a marketplace.
type PriceStockUpdate struct {
	OwnerType  catalog.OwnerType
	OwnerID    uuid.UUID
	ExternalID string
	VendorCode string
	Price      decimal.Decimal
	OldPrice   decimal.Decimal
	Stock      decimal.Decimal
	// WarehouseID routes stock updates on marketplaces with per-warehouse
	// stock models.
	WarehouseID string
}

// Warehouse is a marketplace fulfillment warehouse.
type Warehouse struct {
	ExternalID string
	Name       string
	IsFBS      bool
}

// ImportedProduct is the normalized shape of a remote catalog record,
// ready for the reconciliation engine.
type ImportedProduct struct {
	ExternalID  string
	SKU         string
	Barcode     string
	Title       string
	Description string
	CategoryExternalID string
	CategoryName       string
	Price              decimal.Decimal
	OldPrice           decimal.Decimal
	Stock              decimal.Decimal
	Images             []string
	Variations         []ImportedVariation
}

// ImportedVariation is the normalized shape of a remote SKU.
type ImportedVariation struct {
	ExternalID string
	VendorCode string
	Barcode    string
	Price      decimal.Decimal
	Stock      decimal.Decimal
}

// ImageExport is one image upload task for a marketplace media pipeline.
type ImageExport struct {
	OwnerType  catalog.OwnerType
	OwnerID    uuid.UUID
	ExternalID string
	URL        string
	SortOrder  int
}

// RemoteOrder is an order as reported by a marketplace.
type RemoteOrder struct {
	ExternalID    string
	Status        OrderStatus
	OrderType     OrderType
	PostingNumber string
	Total         decimal.Decimal
	Currency      string
	Items         []RemoteOrderItem
	CreatedAt     time.Time
	// AdditionalData keeps marketplace-peculiar fields that have no
	// uniform projection.
	AdditionalData map[string]any
}

// RemoteOrderItem is a line of a marketplace order.
type RemoteOrderItem struct {
	ExternalID string
	SKU        string
	Name       string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
}

// RemoteSupply is a supply as reported by a marketplace.
type RemoteSupply struct {
	ExternalID string
	Name       string
	OrderType  OrderType
	Closed     bool
	CreatedAt  time.Time
}

// ---------------------------------------------------------------------------
// Batch results
// ---------------------------------------------------------------------------

// BatchItemError describes one failed item of a provider batch call.
type BatchItemError struct {
	ExternalID string `json:"external_id"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

// BatchResult aggregates the outcome of a provider batch operation.
// A failing item never aborts the batch: errors are captured per item.
type BatchResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	// TaskID identifies the marketplace-side async task when the
	// operation is accepted for deferred processing.
	TaskID string           `json:"task_id,omitempty"`
	Errors []BatchItemError `json:"errors,omitempty"`
}

// NewBatchResult creates a result for a batch of the given size.
func NewBatchResult(total int) *BatchResult {
	return &BatchResult{Total: total, Errors: make([]BatchItemError, 0)}
}

// Ok records one succeeded item.
func (r *BatchResult) Ok() {
	r.Succeeded++
}

// Fail records one failed item.
func (r *BatchResult) Fail(externalID, message string) {
	r.Failed++
	r.Errors = append(r.Errors, BatchItemError{ExternalID: externalID, Message: message})
}

// Merge folds another result into this one.
func (r *BatchResult) Merge(other *BatchResult) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.Succeeded += other.Succeeded
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
	if r.TaskID == "" {
		r.TaskID = other.TaskID
	}
}

// ExportInfo is the polled state of a marketplace-side export task.
type ExportInfo struct {
	TaskID   string `json:"task_id"`
	Done     bool   `json:"done"`
	HasError bool   `json:"has_error"`
	Log      string `json:"log"`
	Result   string `json:"result"`
}

// ---------------------------------------------------------------------------
// Provider Port Interface
// ---------------------------------------------------------------------------

// Provider is the uniform facade over one marketplace's REST API. Every
// adapter, including the no-op default, implements the full operation
// set; operations a marketplace does not support return empty or
// neutral results instead of failing.
//
// Batch operations capture per-item errors in the BatchResult and are
// idempotent by external identifier, since they run inside queued jobs
// that may be redelivered. Credential problems surface as
// ErrTokenRequired.
type Provider interface {
	// Code returns the marketplace this provider serves.
	Code() Code

	// CheckConnection is a lightweight auth probe. It returns the remote
	// catalog size as a connectivity and sanity signal.
	CheckConnection(ctx context.Context, creds Credentials) (int, error)

	// CategoryAttributes fetches the attribute schema of a mapped
	// marketplace category; empty when the category is unmapped.
	CategoryAttributes(ctx context.Context, creds Credentials, categoryExternalID string) ([]AttributeSchema, error)

	// DictionaryValues fetches enumerable reference values.
	DictionaryValues(ctx context.Context, creds Credentials, query DictionaryQuery) ([]DictionaryValue, error)

	// ExportProducts pushes local products to the marketplace.
	ExportProducts(ctx context.Context, creds Credentials, products []ProductExport) (*BatchResult, error)

	// ExportStatus polls a marketplace-side async export task.
	ExportStatus(ctx context.Context, creds Credentials, taskID string) (*ExportInfo, error)

	// SetListingVisibility toggles marketplace-side visibility. Items
	// absent remotely are treated as already in the desired state.
	SetListingVisibility(ctx context.Context, creds Credentials, refs []ListingRef, visible bool) (*BatchResult, error)

	// UpdatePricesAndStocks pushes price and stock deltas in one pass.
	UpdatePricesAndStocks(ctx context.Context, creds Credentials, items []PriceStockUpdate) (*BatchResult, error)

	// UpdatePrices pushes price deltas only.
	UpdatePrices(ctx context.Context, creds Credentials, items []PriceStockUpdate) (*BatchResult, error)

	// UpdateStocks pushes stock deltas only.
	UpdateStocks(ctx context.Context, creds Credentials, items []PriceStockUpdate) (*BatchResult, error)

	// Warehouses enumerates marketplace fulfillment warehouses.
	Warehouses(ctx context.Context, creds Credentials) ([]Warehouse, error)

	// ImportProducts pulls and normalizes the remote catalog.
	ImportProducts(ctx context.Context, creds Credentials) ([]ImportedProduct, error)

	// ImportAttributes crawls the marketplace category/attribute
	// taxonomy. Implementations pace requests to respect throttling.
	ImportAttributes(ctx context.Context, creds Credentials) ([]DictionaryRecord, error)

	// PullOrders fetches orders created or changed since the given time.
	PullOrders(ctx context.Context, creds Credentials, since time.Time) ([]RemoteOrder, error)

	// OrderStatuses fetches current statuses for the given remote orders.
	OrderStatuses(ctx context.Context, creds Credentials, externalIDs []string) (map[string]OrderStatus, error)

	// CancelOrder propagates a local cancellation to the marketplace.
	CancelOrder(ctx context.Context, creds Credentials, externalID string) error

	// OpenSupply opens a shipment container of the given order type.
	OpenSupply(ctx context.Context, creds Credentials, orderType OrderType) (*RemoteSupply, error)

	// CloseSupply finalizes a shipment container. Irreversible.
	CloseSupply(ctx context.Context, creds Credentials, supplyExternalID string) error

	// Supplies lists shipment containers known to the marketplace.
	Supplies(ctx context.Context, creds Credentials) ([]RemoteSupply, error)

	// ExportImages runs the marketplace media upload pipeline.
	ExportImages(ctx context.Context, creds Credentials, images []ImageExport) (*BatchResult, error)
}

// Registry resolves the provider implementation for a marketplace code
// at runtime. Unknown or unconfigured codes resolve to the no-op
// default so callers never branch on marketplace presence.
type Registry interface {
	// Provider returns the adapter for the code, or the no-op default.
	Provider(code Code) Provider

	// Providers returns all registered adapters, excluding the default.
	Providers() []Provider
}
