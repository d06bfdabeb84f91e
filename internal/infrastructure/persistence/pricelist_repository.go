package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormPriceListRepository implements PriceListRepository
var _ catalog.PriceListRepository = (*GormPriceListRepository)(nil)

// GormPriceListRepository implements PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// FindByID finds a price list owned by the tenant
func (r *GormPriceListRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PriceList, error) {
	var model models.PriceListModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists all price lists for a tenant
func (r *GormPriceListRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.PriceList, error) {
	var modelList []models.PriceListModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	lists := make([]catalog.PriceList, 0, len(modelList))
	for i := range modelList {
		lists = append(lists, *modelList[i].ToDomain())
	}
	return lists, nil
}

// Save creates or updates a price list
func (r *GormPriceListRepository) Save(ctx context.Context, list *catalog.PriceList) error {
	var model models.PriceListModel
	model.FromDomain(list)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a price list with its memberships and price records
func (r *GormPriceListRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.PriceListModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("price_list_id = ?", id).Delete(&models.PriceListProductModel{}).Error; err != nil {
			return err
		}
		return tx.Where("price_list_id = ?", id).Delete(&models.PriceRecordModel{}).Error
	})
}

// SyncProducts attaches the products to the list without detaching
// existing members.
func (r *GormPriceListRepository) SyncProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]models.PriceListProductModel, 0, len(productIDs))
	for _, productID := range productIDs {
		rows = append(rows, models.PriceListProductModel{
			PriceListID: listID,
			ProductID:   productID,
		})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// DetachProducts removes the products from the list
func (r *GormPriceListRepository) DetachProducts(ctx context.Context, listID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("price_list_id = ? AND product_id IN ?", listID, productIDs).
		Delete(&models.PriceListProductModel{}).Error
}

// FindPriceRecord loads the override for (list, owner type, owner)
func (r *GormPriceListRepository) FindPriceRecord(ctx context.Context, listID uuid.UUID, ownerType catalog.OwnerType, ownerID uuid.UUID) (*catalog.PriceRecord, error) {
	var model models.PriceRecordModel
	if err := r.db.WithContext(ctx).
		Where("price_list_id = ? AND owner_type = ? AND owner_id = ?", listID, ownerType, ownerID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// SavePriceRecords upserts a batch of price records
func (r *GormPriceListRepository) SavePriceRecords(ctx context.Context, records []catalog.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.PriceRecordModel, len(records))
	for i := range records {
		rows[i].FromDomain(&records[i])
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "price_list_id"}, {Name: "owner_type"}, {Name: "owner_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}
