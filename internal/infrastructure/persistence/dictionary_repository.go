package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/persistence/models"
)

// Ensure GormDictionaryRepository implements DictionaryRepository
var _ marketplace.DictionaryRepository = (*GormDictionaryRepository)(nil)

// GormDictionaryRepository implements DictionaryRepository using GORM
type GormDictionaryRepository struct {
	db *gorm.DB
}

// NewGormDictionaryRepository creates a new GormDictionaryRepository
func NewGormDictionaryRepository(db *gorm.DB) *GormDictionaryRepository {
	return &GormDictionaryRepository{db: db}
}

// FindByID finds a dictionary entry by ID
func (r *GormDictionaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Dictionary, error) {
	var model models.DictionaryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an entry by (marketplace, kind, external id)
func (r *GormDictionaryRepository) FindByExternalID(ctx context.Context, code marketplace.Code, kind marketplace.DictionaryKind, externalID string) (*marketplace.Dictionary, error) {
	if externalID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.DictionaryModel
	if err := r.db.WithContext(ctx).
		Where("marketplace = ? AND kind = ? AND external_id = ?", code, kind, externalID).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByKind lists all entries of a kind for a marketplace
func (r *GormDictionaryRepository) FindByKind(ctx context.Context, code marketplace.Code, kind marketplace.DictionaryKind) ([]marketplace.Dictionary, error) {
	var modelList []models.DictionaryModel
	if err := r.db.WithContext(ctx).
		Where("marketplace = ? AND kind = ?", code, kind).
		Order("name").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainDictionaries(modelList), nil
}

// FindChildren lists entries parented by the given entry
func (r *GormDictionaryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]marketplace.Dictionary, error) {
	var modelList []models.DictionaryModel
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	return toDomainDictionaries(modelList), nil
}

// Save creates or updates a dictionary entry
func (r *GormDictionaryRepository) Save(ctx context.Context, entry *marketplace.Dictionary) error {
	var model models.DictionaryModel
	model.FromDomain(entry)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return mapUniqueViolation(err, "external_id", entry.ExternalID)
	}
	return nil
}

// SaveBatch upserts a batch of dictionary entries keyed by
// (marketplace, kind, external id)
func (r *GormDictionaryRepository) SaveBatch(ctx context.Context, entries []*marketplace.Dictionary) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.DictionaryModel, len(entries))
	for i := range entries {
		rows[i].FromDomain(entries[i])
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "marketplace"}, {Name: "kind"}, {Name: "external_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

func toDomainDictionaries(modelList []models.DictionaryModel) []marketplace.Dictionary {
	entries := make([]marketplace.Dictionary, 0, len(modelList))
	for i := range modelList {
		entries = append(entries, *modelList[i].ToDomain())
	}
	return entries
}
