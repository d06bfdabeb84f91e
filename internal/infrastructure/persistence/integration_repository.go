package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormIntegrationRepository implements IntegrationRepository
var _ marketplace.IntegrationRepository = (*GormIntegrationRepository)(nil)

// GormIntegrationRepository implements IntegrationRepository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByID finds an integration owned by the tenant
func (r *GormIntegrationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*marketplace.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByTenantAndCode finds the integration for (tenant, marketplace)
func (r *GormIntegrationRepository) FindByTenantAndCode(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*marketplace.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ?", tenantID, code).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllByTenant lists all integrations of a tenant
func (r *GormIntegrationRepository) FindAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]marketplace.Integration, error) {
	var modelList []models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("marketplace").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainIntegrations(modelList), nil
}

// FindActive lists integrations across all tenants matching the filter.
// Settings-level toggles are filtered in memory because they live
// inside the settings JSON document.
func (r *GormIntegrationRepository) FindActive(ctx context.Context, filter marketplace.IntegrationFilter) ([]marketplace.Integration, error) {
	query := r.db.WithContext(ctx).Model(&models.IntegrationModel{})
	if filter.Marketplace != nil {
		query = query.Where("marketplace = ?", *filter.Marketplace)
	}
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}

	var modelList []models.IntegrationModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, err
	}

	integrations := make([]marketplace.Integration, 0, len(modelList))
	for i := range modelList {
		integration := modelList[i].ToDomain()
		if filter.ImportOn != nil && integration.Settings.Import.Enabled != *filter.ImportOn {
			continue
		}
		if filter.ImportOrders != nil && integration.Settings.Import.ImportOrders != *filter.ImportOrders {
			continue
		}
		if filter.ExportOn != nil && integration.Settings.Export.Enabled != *filter.ExportOn {
			continue
		}
		integrations = append(integrations, *integration)
	}
	return integrations, nil
}

// Save creates or updates an integration
func (r *GormIntegrationRepository) Save(ctx context.Context, integration *marketplace.Integration) error {
	var model models.IntegrationModel
	model.FromDomain(integration)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return mapUniqueViolation(err, "marketplace", integration.Marketplace.String())
	}
	return nil
}

func toDomainIntegrations(modelList []models.IntegrationModel) []marketplace.Integration {
	integrations := make([]marketplace.Integration, 0, len(modelList))
	for i := range modelList {
		integrations = append(integrations, *modelList[i].ToDomain())
	}
	return integrations
}
