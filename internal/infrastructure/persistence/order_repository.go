package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormOrderRepository implements OrderRepository
var _ marketplace.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order owned by the tenant
func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*marketplace.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an order by its marketplace identifier
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.Order, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND marketplace = ? AND external_id = ?", tenantID, code, externalID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter marketplace.OrderFilter) ([]marketplace.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Marketplace != nil {
		query = query.Where("marketplace = ?", *filter.Marketplace)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OrderType != nil {
		query = query.Where("order_type = ?", *filter.OrderType)
	}
	if filter.SupplyID != nil {
		query = query.Where("supply_id = ?", *filter.SupplyID)
	}
	if filter.Since != nil {
		query = query.Where("placed_at >= ?", *filter.Since)
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

	var modelList []models.OrderModel
	if err := query.Preload("Items").Order("placed_at DESC").Find(&modelList).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]marketplace.Order, 0, len(modelList))
	for i := range modelList {
		orders = append(orders, *modelList[i].ToDomain())
	}
	return orders, total, nil
}

// FindOpenExternalIDs lists external IDs of non-terminal orders for
// the status polling job
func (r *GormOrderRepository) FindOpenExternalIDs(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) ([]string, error) {
	var externalIDs []string
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND marketplace = ? AND status NOT IN ?", tenantID, code, []marketplace.OrderStatus{
			marketplace.OrderStatusSold,
			marketplace.OrderStatusCanceled,
			marketplace.OrderStatusCanceledByClient,
			marketplace.OrderStatusReturned,
		}).
		Pluck("external_id", &externalIDs).Error
	if err != nil {
		return nil, err
	}
	return externalIDs, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *marketplace.Order) error {
	model := models.OrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		model.Items = nil
		if err := tx.Save(model).Error; err != nil {
			return mapUniqueViolation(err, "external_id", order.ExternalID)
		}

		keep := make([]uuid.UUID, 0, len(items))
		for i := range items {
			keep = append(keep, items[i].ID)
		}
		if err := deleteOrphans(tx, &models.OrderItemModel{}, "order_id = ?", model.ID, keep); err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Save(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
