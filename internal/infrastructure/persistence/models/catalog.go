package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantModel
	ExternalID  string                `gorm:"type:varchar(100);index:idx_product_tenant_external,priority:2"`
	SKU         string                `gorm:"type:varchar(100);index:idx_product_tenant_sku,priority:2"`
	Barcode     string                `gorm:"type:varchar(50);index"`
	Title       string                `gorm:"type:varchar(500);not null"`
	Description string                `gorm:"type:text"`
	CategoryID  *uuid.UUID            `gorm:"type:uuid;index"`
	Status      catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'published'"`
	// ImagesJSON stores the ordered image URL list.
	ImagesJSON string           `gorm:"type:jsonb;column:images"`
	Variations []VariationModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantEntity: m.TenantModel.ToDomain(),
		ExternalID:   m.ExternalID,
		SKU:          m.SKU,
		Barcode:      m.Barcode,
		Title:        m.Title,
		Description:  m.Description,
		CategoryID:   m.CategoryID,
		Status:       m.Status,
		Images:       []string{},
	}
	if m.ImagesJSON != "" {
		var images []string
		if err := json.Unmarshal([]byte(m.ImagesJSON), &images); err == nil {
			p.Images = images
		}
	}
	for i := range m.Variations {
		p.Variations = append(p.Variations, *m.Variations[i].ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.ExternalID = p.ExternalID
	m.SKU = p.SKU
	m.Barcode = p.Barcode
	m.Title = p.Title
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.Status = p.Status

	if len(p.Images) > 0 {
		if jsonBytes, err := json.Marshal(p.Images); err == nil {
			m.ImagesJSON = string(jsonBytes)
		}
	} else {
		m.ImagesJSON = "[]"
	}

	m.Variations = m.Variations[:0]
	for i := range p.Variations {
		var vm VariationModel
		vm.FromDomain(&p.Variations[i])
		m.Variations = append(m.Variations, vm)
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// VariationModel is the persistence model for the Variation entity.
type VariationModel struct {
	BaseModel
	ProductID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	ExternalID string                `gorm:"type:varchar(100);index"`
	VendorCode string                `gorm:"type:varchar(100);index"`
	Barcode    string                `gorm:"type:varchar(50)"`
	Status     catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'published'"`
	Price      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	OldPrice   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Stock      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Items      []VariationItemModel  `gorm:"foreignKey:VariationID"`
}

// TableName returns the table name for GORM
func (VariationModel) TableName() string {
	return "product_variations"
}

// ToDomain converts the persistence model to a domain Variation entity.
func (m *VariationModel) ToDomain() *catalog.Variation {
	v := &catalog.Variation{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		ExternalID: m.ExternalID,
		VendorCode: m.VendorCode,
		Barcode:    m.Barcode,
		Status:     m.Status,
		Price:      m.Price,
		OldPrice:   m.OldPrice,
		Stock:      m.Stock,
	}
	for i := range m.Items {
		v.Items = append(v.Items, *m.Items[i].ToDomain())
	}
	return v
}

// FromDomain populates the persistence model from a domain Variation entity.
func (m *VariationModel) FromDomain(v *catalog.Variation) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.ProductID = v.ProductID
	m.ExternalID = v.ExternalID
	m.VendorCode = v.VendorCode
	m.Barcode = v.Barcode
	m.Status = v.Status
	m.Price = v.Price
	m.OldPrice = v.OldPrice
	m.Stock = v.Stock

	m.Items = m.Items[:0]
	for i := range v.Items {
		var im VariationItemModel
		im.FromDomain(&v.Items[i])
		m.Items = append(m.Items, im)
	}
}

// VariationItemModel is the persistence model for the VariationItem entity.
type VariationItemModel struct {
	BaseModel
	VariationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalID  string          `gorm:"type:varchar(100);index"`
	Value       string          `gorm:"type:varchar(200)"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (VariationItemModel) TableName() string {
	return "product_variation_items"
}

// ToDomain converts the persistence model to a domain VariationItem entity.
func (m *VariationItemModel) ToDomain() *catalog.VariationItem {
	return &catalog.VariationItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		VariationID: m.VariationID,
		ExternalID:  m.ExternalID,
		Value:       m.Value,
		Price:       m.Price,
		Stock:       m.Stock,
	}
}

// FromDomain populates the persistence model from a domain VariationItem entity.
func (m *VariationItemModel) FromDomain(i *catalog.VariationItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.VariationID = i.VariationID
	m.ExternalID = i.ExternalID
	m.Value = i.Value
	m.Price = i.Price
	m.Stock = i.Stock
}

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	TenantModel
	Name             string     `gorm:"type:varchar(200);not null"`
	ExternalID       string     `gorm:"type:varchar(100);index:idx_category_tenant_external,priority:2"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index"`
	SystemCategoryID *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder        int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		TenantEntity:     m.TenantModel.ToDomain(),
		Name:             m.Name,
		ExternalID:       m.ExternalID,
		ParentID:         m.ParentID,
		SystemCategoryID: m.SystemCategoryID,
		SortOrder:        m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainTenantEntity(c.TenantEntity)
	m.Name = c.Name
	m.ExternalID = c.ExternalID
	m.ParentID = c.ParentID
	m.SystemCategoryID = c.SystemCategoryID
	m.SortOrder = c.SortOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// SystemCategoryModel is the persistence model for the shared taxonomy.
type SystemCategoryModel struct {
	BaseModel
	Name     string     `gorm:"type:varchar(200);not null;index"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (SystemCategoryModel) TableName() string {
	return "system_categories"
}

// ToDomain converts the persistence model to a domain SystemCategory entity.
func (m *SystemCategoryModel) ToDomain() *catalog.SystemCategory {
	return &catalog.SystemCategory{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		ParentID:   m.ParentID,
	}
}

// FromDomain populates the persistence model from a domain SystemCategory entity.
func (m *SystemCategoryModel) FromDomain(c *catalog.SystemCategory) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.ParentID = c.ParentID
}
