package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Order status
// ---------------------------------------------------------------------------

// OrderStatus is the marketplace-driven lifecycle state of an order.
// The marketplace is authoritative: local records are caches updated by
// polling jobs, and local transitions propagate to the marketplace
// before they are accepted locally.
type OrderStatus string

const (
	OrderStatusNew               OrderStatus = "new"
	OrderStatusConfirm           OrderStatus = "confirm"
	OrderStatusAwaitingPackaging OrderStatus = "awaiting_packaging"
	OrderStatusAwaitingDeliver   OrderStatus = "awaiting_deliver"
	OrderStatusSold              OrderStatus = "sold"
	OrderStatusCanceled          OrderStatus = "canceled"
	OrderStatusCanceledByClient  OrderStatus = "canceled_by_client"
	OrderStatusReturned          OrderStatus = "returned"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirm, OrderStatusAwaitingPackaging,
		OrderStatusAwaitingDeliver, OrderStatusSold, OrderStatusCanceled,
		OrderStatusCanceledByClient, OrderStatusReturned:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states no further transition leaves.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusSold, OrderStatusCanceled, OrderStatusCanceledByClient, OrderStatusReturned:
		return true
	default:
		return false
	}
}

// OrderType distinguishes fulfillment models (FBS: shipped by seller,
// FBO: shipped from marketplace warehouse).
type OrderType string

const (
	OrderTypeFBS OrderType = "fbs"
	OrderTypeFBO OrderType = "fbo"
)

// IsValid returns true if the order type is valid
func (t OrderType) IsValid() bool {
	return t == OrderTypeFBS || t == OrderTypeFBO
}

// ---------------------------------------------------------------------------
// Order entity
// ---------------------------------------------------------------------------

// Order mirrors one marketplace order locally.
type Order struct {
	shared.TenantEntity
	Marketplace   Code
	ExternalID    string
	Status        OrderStatus
	OrderType     OrderType
	PostingNumber string
	SupplyID      *uuid.UUID
	Total         decimal.Decimal
	Currency      string
	Items         []OrderItem
	// AdditionalData is the JSON bag for marketplace-peculiar fields.
	AdditionalData map[string]any
	PlacedAt       time.Time
}

// OrderItem is a line of a mirrored order.
type OrderItem struct {
	shared.BaseEntity
	OrderID    uuid.UUID
	ExternalID string
	SKU        string
	Name       string
	Quantity   decimal.Decimal
	Price      decimal.Decimal
}

// NewOrderFromRemote mirrors a marketplace order locally.
func NewOrderFromRemote(tenantID uuid.UUID, code Code, remote RemoteOrder) *Order {
	status := remote.Status
	if !status.IsValid() {
		status = OrderStatusNew
	}
	o := &Order{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		Marketplace:    code,
		ExternalID:     remote.ExternalID,
		Status:         status,
		OrderType:      remote.OrderType,
		PostingNumber:  remote.PostingNumber,
		Total:          remote.Total,
		Currency:       remote.Currency,
		AdditionalData: remote.AdditionalData,
		PlacedAt:       remote.CreatedAt,
	}
	for _, it := range remote.Items {
		o.Items = append(o.Items, OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    o.ID,
			ExternalID: it.ExternalID,
			SKU:        it.SKU,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}
	return o
}

// ApplyRemoteStatus overwrites the cached status with marketplace truth.
// Returns true when the status actually changed.
func (o *Order) ApplyRemoteStatus(status OrderStatus) bool {
	if !status.IsValid() || o.Status == status {
		return false
	}
	o.Status = status
	o.Touch()
	return true
}

// Cancel records a local cancellation. The caller must have propagated
// the cancellation to the marketplace first; canceling an order already
// in a terminal state is a business-rule violation.
func (o *Order) Cancel() error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("ORDER_TERMINAL", "order is already in a terminal state")
	}
	o.Status = OrderStatusCanceled
	o.Touch()
	return nil
}

// AttachToSupply associates the order with a supply. Closed supplies
// reject new orders.
func (o *Order) AttachToSupply(s *Supply) error {
	if s.IsClosed() {
		return shared.NewDomainError("SUPPLY_CLOSED", "cannot attach orders to a closed supply")
	}
	if s.Marketplace != o.Marketplace || s.TenantID != o.TenantID {
		return shared.NewDomainError("SUPPLY_MISMATCH", "order and supply belong to different integrations")
	}
	id := s.ID
	o.SupplyID = &id
	o.Touch()
	return nil
}

// ---------------------------------------------------------------------------
// Repository
// ---------------------------------------------------------------------------

// OrderFilter narrows order queries.
type OrderFilter struct {
	Marketplace *Code
	Status      *OrderStatus
	OrderType   *OrderType
	SupplyID    *uuid.UUID
	Since       *time.Time
	Page        int
	PageSize    int
}

// OrderRepository persists mirrored orders.
type OrderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, code Code, externalID string) (*Order, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, int64, error)

	// FindOpenExternalIDs lists external IDs of non-terminal orders for
	// the status polling job.
	FindOpenExternalIDs(ctx context.Context, tenantID uuid.UUID, code Code) ([]string, error)

	Save(ctx context.Context, order *Order) error
}
