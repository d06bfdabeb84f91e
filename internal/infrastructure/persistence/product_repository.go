package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product owned by the tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Variations.Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a product by its external identifier
func (r *GormProductRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*catalog.Product, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Variations.Items").
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by its SKU natural key
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	if sku == "" {
		return nil, shared.ErrNotFound
	}
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Variations.Items").
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads a batch of products owned by the tenant
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var modelList []models.ProductModel
	if err := r.db.WithContext(ctx).
		Preload("Variations.Items").
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(modelList), nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("products.tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.PriceListID != nil {
		query = query.Joins("JOIN price_list_products plp ON plp.product_id = products.id").
			Where("plp.price_list_id = ?", *filter.PriceListID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(products.title) LIKE ? OR LOWER(products.sku) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []models.ProductModel
	if err := query.Preload("Variations.Items").Order("products.created_at").Find(&modelList).Error; err != nil {
		return nil, 0, err
	}
	return toDomainProducts(modelList), total, nil
}

// ExistsBySKU reports whether another product already uses the SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	if sku == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND sku = ? AND id <> ?", tenantID, sku, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindOwner resolves a price/stock owner by external ID or natural key.
func (r *GormProductRepository) FindOwner(ctx context.Context, tenantID uuid.UUID, ownerType catalog.OwnerType, externalID, sku string) (uuid.UUID, uuid.UUID, error) {
	switch ownerType {
	case catalog.OwnerTypeProduct:
		return r.findProductOwner(ctx, tenantID, externalID, sku)
	case catalog.OwnerTypeVariation:
		return r.findVariationOwner(ctx, tenantID, externalID, sku)
	case catalog.OwnerTypeItem:
		return r.findItemOwner(ctx, tenantID, externalID)
	default:
		return uuid.Nil, uuid.Nil, catalog.ErrPriceOwnerInvalid
	}
}

func (r *GormProductRepository) findProductOwner(ctx context.Context, tenantID uuid.UUID, externalID, sku string) (uuid.UUID, uuid.UUID, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ?", tenantID)
	switch {
	case externalID != "":
		query = query.Where("external_id = ?", externalID)
	case sku != "":
		query = query.Where("sku = ?", sku)
	default:
		return uuid.Nil, uuid.Nil, shared.ErrNotFound
	}

	var row struct{ ID uuid.UUID }
	if err := query.Select("id").First(&row).Error; err != nil {
		return uuid.Nil, uuid.Nil, mapNotFound(err)
	}
	return row.ID, row.ID, nil
}

func (r *GormProductRepository) findVariationOwner(ctx context.Context, tenantID uuid.UUID, externalID, sku string) (uuid.UUID, uuid.UUID, error) {
	query := r.db.WithContext(ctx).Model(&models.VariationModel{}).
		Joins("JOIN products p ON p.id = product_variations.product_id").
		Where("p.tenant_id = ?", tenantID)
	switch {
	case externalID != "":
		query = query.Where("product_variations.external_id = ?", externalID)
	case sku != "":
		query = query.Where("product_variations.vendor_code = ?", sku)
	default:
		return uuid.Nil, uuid.Nil, shared.ErrNotFound
	}

	var row struct {
		ID        uuid.UUID
		ProductID uuid.UUID
	}
	if err := query.Select("product_variations.id, product_variations.product_id").First(&row).Error; err != nil {
		return uuid.Nil, uuid.Nil, mapNotFound(err)
	}
	return row.ID, row.ProductID, nil
}

func (r *GormProductRepository) findItemOwner(ctx context.Context, tenantID uuid.UUID, externalID string) (uuid.UUID, uuid.UUID, error) {
	if externalID == "" {
		return uuid.Nil, uuid.Nil, shared.ErrNotFound
	}
	var row struct {
		ID        uuid.UUID
		ProductID uuid.UUID
	}
	err := r.db.WithContext(ctx).Model(&models.VariationItemModel{}).
		Joins("JOIN product_variations v ON v.id = product_variation_items.variation_id").
		Joins("JOIN products p ON p.id = v.product_id").
		Where("p.tenant_id = ? AND product_variation_items.external_id = ?", tenantID, externalID).
		Select("product_variation_items.id, v.product_id").
		First(&row).Error
	if err != nil {
		return uuid.Nil, uuid.Nil, mapNotFound(err)
	}
	return row.ID, row.ProductID, nil
}

// Save creates or updates a product with its variations and items.
// Variations and items no longer present on the aggregate are removed.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variations := model.Variations
		model.Variations = nil
		if err := tx.Save(model).Error; err != nil {
			return mapUniqueViolation(err, "sku", product.SKU)
		}

		keepVariations := make([]uuid.UUID, 0, len(variations))
		for i := range variations {
			keepVariations = append(keepVariations, variations[i].ID)
		}
		if err := deleteOrphans(tx, &models.VariationItemModel{},
			"variation_id IN (SELECT id FROM product_variations WHERE product_id = ?)", model.ID, itemIDs(variations)); err != nil {
			return err
		}
		if err := deleteOrphans(tx, &models.VariationModel{}, "product_id = ?", model.ID, keepVariations); err != nil {
			return err
		}

		for i := range variations {
			items := variations[i].Items
			variations[i].Items = nil
			if err := tx.Save(&variations[i]).Error; err != nil {
				return mapUniqueViolation(err, "vendor_code", variations[i].VendorCode)
			}
			if len(items) > 0 {
				if err := tx.Save(&items).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Delete removes a product and its dependents, children first.
func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("variation_id IN (SELECT id FROM product_variations WHERE product_id = ?)", id).
			Delete(&models.VariationItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.VariationModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.PriceListProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ? AND owner_type = ? AND owner_id = ?",
			tenantID, catalog.OwnerTypeProduct, id).Delete(&models.ListingModel{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// deleteOrphans removes child rows under the given scope whose IDs are
// not in keep.
func deleteOrphans(tx *gorm.DB, model any, scope string, scopeArg any, keep []uuid.UUID) error {
	query := tx.Where(scope, scopeArg)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

func itemIDs(variations []models.VariationModel) []uuid.UUID {
	var ids []uuid.UUID
	for i := range variations {
		for j := range variations[i].Items {
			ids = append(ids, variations[i].Items[j].ID)
		}
	}
	return ids
}

func toDomainProducts(modelList []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, 0, len(modelList))
	for i := range modelList {
		products = append(products, *modelList[i].ToDomain())
	}
	return products
}
