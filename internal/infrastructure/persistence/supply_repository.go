package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormSupplyRepository implements SupplyRepository
var _ marketplace.SupplyRepository = (*GormSupplyRepository)(nil)

// GormSupplyRepository implements SupplyRepository using GORM
type GormSupplyRepository struct {
	db *gorm.DB
}

// NewGormSupplyRepository creates a new GormSupplyRepository
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{db: db}
}

// FindByID finds a supply owned by the tenant
func (r *GormSupplyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*marketplace.Supply, error) {
	var model models.SupplyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a supply by its marketplace identifier
func (r *GormSupplyRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.Supply, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.SupplyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ? AND external_id = ?", tenantID, code, externalID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindOpen returns the open supply for (tenant, marketplace, order type)
func (r *GormSupplyRepository) FindOpen(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, orderType marketplace.OrderType) (*marketplace.Supply, error) {
	var model models.SupplyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ? AND order_type = ? AND status = ?",
			tenantID, code, orderType, marketplace.SupplyStatusOpen).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists supplies for (tenant, marketplace)
func (r *GormSupplyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) ([]marketplace.Supply, error) {
	var modelList []models.SupplyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ?", tenantID, code).
		Order("created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	supplies := make([]marketplace.Supply, 0, len(modelList))
	for i := range modelList {
		supplies = append(supplies, *modelList[i].ToDomain())
	}
	return supplies, nil
}

// Save creates or updates a supply
func (r *GormSupplyRepository) Save(ctx context.Context, supply *marketplace.Supply) error {
	var model models.SupplyModel
	model.FromDomain(supply)
	return r.db.WithContext(ctx).Save(&model).Error
}
