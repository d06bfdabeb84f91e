package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/catalog"
)

// PriceListModel is the persistence model for the PriceList entity.
type PriceListModel struct {
	TenantModel
	Name      string `gorm:"type:varchar(200);not null"`
	IsDefault bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PriceListModel) TableName() string {
	return "price_lists"
}

// ToDomain converts the persistence model to a domain PriceList entity.
func (m *PriceListModel) ToDomain() *catalog.PriceList {
	return &catalog.PriceList{
		TenantEntity: m.TenantModel.ToDomain(),
		Name:         m.Name,
		IsDefault:    m.IsDefault,
	}
}

// FromDomain populates the persistence model from a domain PriceList entity.
func (m *PriceListModel) FromDomain(l *catalog.PriceList) {
	m.FromDomainTenantEntity(l.TenantEntity)
	m.Name = l.Name
	m.IsDefault = l.IsDefault
}

// PriceListProductModel is the membership join between price lists and
// products.
type PriceListProductModel struct {
	PriceListID uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID   uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (PriceListProductModel) TableName() string {
	return "price_list_products"
}

// PriceRecordModel is the persistence model for per-list price/stock
// overrides, unique by (price list, owner type, owner).
type PriceRecordModel struct {
	BaseModel
	PriceListID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_price_record_owner,priority:1"`
	OwnerType   catalog.OwnerType `gorm:"type:varchar(20);not null;uniqueIndex:idx_price_record_owner,priority:2"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_price_record_owner,priority:3"`
	Price       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	OldPrice    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PriceRecordModel) TableName() string {
	return "price_records"
}

// ToDomain converts the persistence model to a domain PriceRecord entity.
func (m *PriceRecordModel) ToDomain() *catalog.PriceRecord {
	return &catalog.PriceRecord{
		BaseEntity:  m.BaseModel.ToDomain(),
		PriceListID: m.PriceListID,
		OwnerType:   m.OwnerType,
		OwnerID:     m.OwnerID,
		Price:       m.Price,
		OldPrice:    m.OldPrice,
		Stock:       m.Stock,
	}
}

// FromDomain populates the persistence model from a domain PriceRecord entity.
func (m *PriceRecordModel) FromDomain(r *catalog.PriceRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.PriceListID = r.PriceListID
	m.OwnerType = r.OwnerType
	m.OwnerID = r.OwnerID
	m.Price = r.Price
	m.OldPrice = r.OldPrice
	m.Stock = r.Stock
}
