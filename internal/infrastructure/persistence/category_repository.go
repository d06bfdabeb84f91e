package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category owned by the tenant
func (r *GormCategoryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a category by its external identifier
func (r *GormCategoryRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*catalog.Category, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by name under the given parent
func (r *GormCategoryRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (*catalog.Category, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND name = ?", tenantID, name)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var model models.CategoryModel
	if err := query.First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists all categories for a tenant
func (r *GormCategoryRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	var modelList []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("sort_order, name").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainCategories(modelList), nil
}

// FindChildren lists direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]catalog.Category, error) {
	var modelList []models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Order("sort_order, name").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainCategories(modelList), nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return mapUniqueViolation(err, "external_id", category.ExternalID)
	}
	return nil
}

// Delete removes the category, re-parents its children to the deleted
// node's parent and unlinks products in one transaction.
func (r *GormCategoryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CategoryModel
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
			return mapNotFound(err)
		}

		if err := tx.Model(&models.CategoryModel{}).
			Where("tenant_id = ? AND parent_id = ?", tenantID, id).
			Update("parent_id", model.ParentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ProductModel{}).
			Where("tenant_id = ? AND category_id = ?", tenantID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

func toDomainCategories(modelList []models.CategoryModel) []catalog.Category {
	categories := make([]catalog.Category, 0, len(modelList))
	for i := range modelList {
		categories = append(categories, *modelList[i].ToDomain())
	}
	return categories
}

// Ensure GormSystemCategoryRepository implements SystemCategoryRepository
var _ catalog.SystemCategoryRepository = (*GormSystemCategoryRepository)(nil)

// GormSystemCategoryRepository implements SystemCategoryRepository using GORM
type GormSystemCategoryRepository struct {
	db *gorm.DB
}

// NewGormSystemCategoryRepository creates a new GormSystemCategoryRepository
func NewGormSystemCategoryRepository(db *gorm.DB) *GormSystemCategoryRepository {
	return &GormSystemCategoryRepository{db: db}
}

// FindByID finds a system category by ID
func (r *GormSystemCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SystemCategory, error) {
	var model models.SystemCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a system category by name under the given parent
func (r *GormSystemCategoryRepository) FindByName(ctx context.Context, name string, parentID *uuid.UUID) (*catalog.SystemCategory, error) {
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var model models.SystemCategoryModel
	if err := query.First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a system category
func (r *GormSystemCategoryRepository) Save(ctx context.Context, category *catalog.SystemCategory) error {
	var model models.SystemCategoryModel
	model.FromDomain(category)
	return r.db.WithContext(ctx).Save(&model).Error
}
