package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// IntegrationModel is the persistence model for the Integration entity,
// unique by (tenant, marketplace).
type IntegrationModel struct {
	TenantModel
	Marketplace  marketplace.Code `gorm:"type:varchar(20);not null;uniqueIndex:idx_integration_tenant_code,priority:2"`
	SettingsJSON string           `gorm:"type:jsonb;column:settings"`
	PriceListID  *uuid.UUID       `gorm:"type:uuid;index"`
	TaxRate      decimal.Decimal  `gorm:"type:decimal(8,4);not null;default:0"`
	Published    bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "marketplace_integrations"
}

// ToDomain converts the persistence model to a domain Integration entity.
func (m *IntegrationModel) ToDomain() *marketplace.Integration {
	i := &marketplace.Integration{
		TenantEntity: m.TenantModel.ToDomain(),
		Marketplace:  m.Marketplace,
		PriceListID:  m.PriceListID,
		TaxRate:      m.TaxRate,
		Published:    m.Published,
	}
	if m.SettingsJSON != "" {
		var settings marketplace.Settings
		if err := json.Unmarshal([]byte(m.SettingsJSON), &settings); err == nil {
			i.Settings = settings
		}
	}
	return i
}

// FromDomain populates the persistence model from a domain Integration entity.
func (m *IntegrationModel) FromDomain(i *marketplace.Integration) {
	m.FromDomainTenantEntity(i.TenantEntity)
	m.Marketplace = i.Marketplace
	m.PriceListID = i.PriceListID
	m.TaxRate = i.TaxRate
	m.Published = i.Published

	if jsonBytes, err := json.Marshal(i.Settings); err == nil {
		m.SettingsJSON = string(jsonBytes)
	}
}

// OrderModel is the persistence model for the Order entity, unique by
// (tenant, marketplace, external id).
type OrderModel struct {
	TenantModel
	Marketplace   marketplace.Code        `gorm:"type:varchar(20);not null;uniqueIndex:idx_order_tenant_code_external,priority:2"`
	ExternalID    string                  `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_tenant_code_external,priority:3"`
	Status        marketplace.OrderStatus `gorm:"type:varchar(30);not null;index"`
	OrderType     marketplace.OrderType   `gorm:"type:varchar(10);not null"`
	PostingNumber string                  `gorm:"type:varchar(100);index"`
	SupplyID      *uuid.UUID              `gorm:"type:uuid;index"`
	Total         decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Currency      string                  `gorm:"type:varchar(10)"`
	// AdditionalDataJSON carries marketplace-specific fields the domain
	// does not model explicitly.
	AdditionalDataJSON string           `gorm:"type:jsonb;column:additional_data"`
	PlacedAt           time.Time        `gorm:"not null;index"`
	Items              []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "marketplace_orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *marketplace.Order {
	o := &marketplace.Order{
		TenantEntity:  m.TenantModel.ToDomain(),
		Marketplace:   m.Marketplace,
		ExternalID:    m.ExternalID,
		Status:        m.Status,
		OrderType:     m.OrderType,
		PostingNumber: m.PostingNumber,
		SupplyID:      m.SupplyID,
		Total:         m.Total,
		Currency:      m.Currency,
		PlacedAt:      m.PlacedAt,
	}
	if m.AdditionalDataJSON != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(m.AdditionalDataJSON), &data); err == nil {
			o.AdditionalData = data
		}
	}
	for i := range m.Items {
		o.Items = append(o.Items, *m.Items[i].ToDomain())
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *marketplace.Order) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.Marketplace = o.Marketplace
	m.ExternalID = o.ExternalID
	m.Status = o.Status
	m.OrderType = o.OrderType
	m.PostingNumber = o.PostingNumber
	m.SupplyID = o.SupplyID
	m.Total = o.Total
	m.Currency = o.Currency
	m.PlacedAt = o.PlacedAt

	if len(o.AdditionalData) > 0 {
		if jsonBytes, err := json.Marshal(o.AdditionalData); err == nil {
			m.AdditionalDataJSON = string(jsonBytes)
		}
	} else {
		m.AdditionalDataJSON = "{}"
	}

	m.Items = m.Items[:0]
	for i := range o.Items {
		var im OrderItemModel
		im.FromDomain(&o.Items[i])
		m.Items = append(m.Items, im)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *marketplace.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
type OrderItemModel struct {
	BaseModel
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalID string          `gorm:"type:varchar(100)"`
	SKU        string          `gorm:"type:varchar(100);index"`
	Name       string          `gorm:"type:varchar(500)"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "marketplace_order_items"
}

// ToDomain converts the persistence model to a domain OrderItem entity.
func (m *OrderItemModel) ToDomain() *marketplace.OrderItem {
	return &marketplace.OrderItem{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		ExternalID: m.ExternalID,
		SKU:        m.SKU,
		Name:       m.Name,
		Quantity:   m.Quantity,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain OrderItem entity.
func (m *OrderItemModel) FromDomain(i *marketplace.OrderItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OrderID = i.OrderID
	m.ExternalID = i.ExternalID
	m.SKU = i.SKU
	m.Name = i.Name
	m.Quantity = i.Quantity
	m.Price = i.Price
}

// SupplyModel is the persistence model for the Supply entity.
type SupplyModel struct {
	TenantModel
	Marketplace marketplace.Code         `gorm:"type:varchar(20);not null;index:idx_supply_tenant_code,priority:2"`
	ExternalID  string                   `gorm:"type:varchar(100);index"`
	Name        string                   `gorm:"type:varchar(200)"`
	OrderType   marketplace.OrderType    `gorm:"type:varchar(10);not null"`
	Status      marketplace.SupplyStatus `gorm:"type:varchar(10);not null;index"`
	ClosedAt    *time.Time
}

// TableName returns the table name for GORM
func (SupplyModel) TableName() string {
	return "marketplace_supplies"
}

// ToDomain converts the persistence model to a domain Supply entity.
func (m *SupplyModel) ToDomain() *marketplace.Supply {
	return &marketplace.Supply{
		TenantEntity: m.TenantModel.ToDomain(),
		Marketplace:  m.Marketplace,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		OrderType:    m.OrderType,
		Status:       m.Status,
		ClosedAt:     m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Supply entity.
func (m *SupplyModel) FromDomain(s *marketplace.Supply) {
	m.FromDomainTenantEntity(s.TenantEntity)
	m.Marketplace = s.Marketplace
	m.ExternalID = s.ExternalID
	m.Name = s.Name
	m.OrderType = s.OrderType
	m.Status = s.Status
	m.ClosedAt = s.ClosedAt
}

// ListingModel is the persistence model for the Listing entity, unique
// by (tenant, marketplace, owner type, owner).
type ListingModel struct {
	TenantModel
	Marketplace marketplace.Code         `gorm:"type:varchar(20);not null;uniqueIndex:idx_listing_owner,priority:2"`
	OwnerType   catalog.OwnerType        `gorm:"type:varchar(20);not null;uniqueIndex:idx_listing_owner,priority:3"`
	OwnerID     uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_listing_owner,priority:4"`
	ExternalID  string                   `gorm:"type:varchar(100);index"`
	State       marketplace.ListingState `gorm:"type:varchar(10);not null;index"`
	LastError   string                   `gorm:"type:text"`
	TaskID      string                   `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "marketplace_listings"
}

// ToDomain converts the persistence model to a domain Listing entity.
func (m *ListingModel) ToDomain() *marketplace.Listing {
	return &marketplace.Listing{
		TenantEntity: m.TenantModel.ToDomain(),
		Marketplace:  m.Marketplace,
		OwnerType:    m.OwnerType,
		OwnerID:      m.OwnerID,
		ExternalID:   m.ExternalID,
		State:        m.State,
		LastError:    m.LastError,
		TaskID:       m.TaskID,
	}
}

// FromDomain populates the persistence model from a domain Listing entity.
func (m *ListingModel) FromDomain(l *marketplace.Listing) {
	m.FromDomainTenantEntity(l.TenantEntity)
	m.Marketplace = l.Marketplace
	m.OwnerType = l.OwnerType
	m.OwnerID = l.OwnerID
	m.ExternalID = l.ExternalID
	m.State = l.State
	m.LastError = l.LastError
	m.TaskID = l.TaskID
}

// DictionaryModel is the persistence model for marketplace reference
// data, unique by (marketplace, kind, external id).
type DictionaryModel struct {
	BaseModel
	Marketplace marketplace.Code           `gorm:"type:varchar(20);not null;uniqueIndex:idx_dictionary_entry,priority:1"`
	Kind        marketplace.DictionaryKind `gorm:"type:varchar(30);not null;uniqueIndex:idx_dictionary_entry,priority:2"`
	ExternalID  string                     `gorm:"type:varchar(100);not null;uniqueIndex:idx_dictionary_entry,priority:3"`
	ParentID    *uuid.UUID                 `gorm:"type:uuid;index"`
	Name        string                     `gorm:"type:varchar(500)"`
	PayloadJSON string                     `gorm:"type:jsonb;column:payload"`
}

// TableName returns the table name for GORM
func (DictionaryModel) TableName() string {
	return "marketplace_dictionaries"
}

// ToDomain converts the persistence model to a domain Dictionary entity.
func (m *DictionaryModel) ToDomain() *marketplace.Dictionary {
	d := &marketplace.Dictionary{
		BaseEntity:  m.BaseModel.ToDomain(),
		Marketplace: m.Marketplace,
		Kind:        m.Kind,
		ExternalID:  m.ExternalID,
		ParentID:    m.ParentID,
		Name:        m.Name,
	}
	if m.PayloadJSON != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(m.PayloadJSON), &payload); err == nil {
			d.Payload = payload
		}
	}
	return d
}

// FromDomain populates the persistence model from a domain Dictionary entity.
func (m *DictionaryModel) FromDomain(d *marketplace.Dictionary) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.Marketplace = d.Marketplace
	m.Kind = d.Kind
	m.ExternalID = d.ExternalID
	m.ParentID = d.ParentID
	m.Name = d.Name

	if len(d.Payload) > 0 {
		if jsonBytes, err := json.Marshal(d.Payload); err == nil {
			m.PayloadJSON = string(jsonBytes)
		}
	} else {
		m.PayloadJSON = "{}"
	}
}
