package marketplace

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// IntegrationResponse is the API projection of an integration.
type IntegrationResponse struct {
	ID          uuid.UUID              `json:"id"`
	Marketplace string                 `json:"marketplace"`
	Name        string                 `json:"name"`
	Settings    marketplace.Settings   `json:"settings"`
	PriceListID *uuid.UUID             `json:"price_list_id,omitempty"`
	TaxRate     decimal.Decimal        `json:"tax_rate"`
	Published   bool                   `json:"published"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// UpdateSettingsRequest replaces the settings of an integration.
type UpdateSettingsRequest struct {
	Settings    marketplace.Settings `json:"settings" binding:"required"`
	PriceListID *uuid.UUID           `json:"price_list_id,omitempty"`
	TaxRate     *decimal.Decimal     `json:"tax_rate,omitempty"`
}

// CheckConnectionResponse reports the outcome of a credential probe.
type CheckConnectionResponse struct {
	Connected    bool `json:"connected"`
	ProductCount int  `json:"product_count"`
}

// OrderResponse is the API projection of a mirrored order.
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Marketplace    string              `json:"marketplace"`
	ExternalID     string              `json:"external_id"`
	Status         string              `json:"status"`
	OrderType      string              `json:"order_type"`
	PostingNumber  string              `json:"posting_number,omitempty"`
	SupplyID       *uuid.UUID          `json:"supply_id,omitempty"`
	Total          decimal.Decimal     `json:"total"`
	Currency       string              `json:"currency"`
	Items          []OrderItemResponse `json:"items"`
	AdditionalData map[string]any      `json:"additional_data,omitempty"`
	PlacedAt       time.Time           `json:"placed_at"`
}

// OrderItemResponse is one line of an order response.
type OrderItemResponse struct {
	ExternalID string          `json:"external_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// SupplyResponse is the API projection of a supply.
type SupplyResponse struct {
	ID         uuid.UUID  `json:"id"`
	ExternalID string     `json:"external_id"`
	Name       string     `json:"name"`
	OrderType  string     `json:"order_type"`
	Status     string     `json:"status"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// SyncReport summarizes one pull cycle against a marketplace.
type SyncReport struct {
	Marketplace string `json:"marketplace"`
	Fetched     int    `json:"fetched"`
	Created     int    `json:"created"`
	Updated     int    `json:"updated"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
}

// DictionaryEntryResponse is the API projection of a reference entry.
type DictionaryEntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	ExternalID string     `json:"external_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Name       string     `json:"name"`
}

func toIntegrationResponse(i *marketplace.Integration) *IntegrationResponse {
	return &IntegrationResponse{
		ID:          i.ID,
		Marketplace: i.Marketplace.String(),
		Name:        i.Marketplace.DisplayName(),
		Settings:    i.Settings,
		PriceListID: i.PriceListID,
		TaxRate:     i.TaxRate,
		Published:   i.Published,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toOrderResponse(o *marketplace.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:             o.ID,
		Marketplace:    o.Marketplace.String(),
		ExternalID:     o.ExternalID,
		Status:         o.Status.String(),
		OrderType:      string(o.OrderType),
		PostingNumber:  o.PostingNumber,
		SupplyID:       o.SupplyID,
		Total:          o.Total,
		Currency:       o.Currency,
		Items:          make([]OrderItemResponse, 0, len(o.Items)),
		AdditionalData: o.AdditionalData,
		PlacedAt:       o.PlacedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ExternalID: it.ExternalID,
			SKU:        it.SKU,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}
	return resp
}

func toSupplyResponse(s *marketplace.Supply) *SupplyResponse {
	return &SupplyResponse{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		OrderType:  string(s.OrderType),
		Status:     string(s.Status),
		ClosedAt:   s.ClosedAt,
	}
}
