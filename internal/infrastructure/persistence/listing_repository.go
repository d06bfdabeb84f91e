package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormListingRepository implements ListingRepository
var _ marketplace.ListingRepository = (*GormListingRepository)(nil)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByOwner finds the listing for one catalog owner on a marketplace
func (r *GormListingRepository) FindByOwner(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, ownerType catalog.OwnerType, ownerID uuid.UUID) (*marketplace.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ? AND owner_type = ? AND owner_id = ?",
			tenantID, code, ownerType, ownerID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOwners loads listings for a batch of catalog owners
func (r *GormListingRepository) FindByOwners(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, ownerType catalog.OwnerType, ownerIDs []uuid.UUID) ([]marketplace.Listing, error) {
	if len(ownerIDs) == 0 {
		return []marketplace.Listing{}, nil
	}
	var modelList []models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ? AND owner_type = ? AND owner_id IN ?",
			tenantID, code, ownerType, ownerIDs).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainListings(modelList), nil
}

// FindByState lists listings in the given state
func (r *GormListingRepository) FindByState(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, state marketplace.ListingState) ([]marketplace.Listing, error) {
	var modelList []models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND marketplace = ? AND state = ?", tenantID, code, state).
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainListings(modelList), nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, listing *marketplace.Listing) error {
	var model models.ListingModel
	model.FromDomain(listing)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveBatch creates or updates a batch of listings
func (r *GormListingRepository) SaveBatch(ctx context.Context, listings []*marketplace.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	rows := make([]models.ListingModel, len(listings))
	for i := range listings {
		rows[i].FromDomain(listings[i])
	}
	return r.db.WithContext(ctx).Save(&rows).Error
}

// DeleteByOwner removes all listings of one catalog owner
func (r *GormListingRepository) DeleteByOwner(ctx context.Context, tenantID uuid.UUID, ownerType catalog.OwnerType, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND owner_type = ? AND owner_id = ?", tenantID, ownerType, ownerID).
		Delete(&models.ListingModel{}).Error
}

func toDomainListings(modelList []models.ListingModel) []marketplace.Listing {
	listings := make([]marketplace.Listing, 0, len(modelList))
	for i := range modelList {
		listings = append(listings, *modelList[i].ToDomain())
	}
	return listings
}
