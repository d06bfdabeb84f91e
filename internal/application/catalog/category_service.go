package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/domain/catalog"
)

// CategoryService manages the tenant category tree.
type CategoryService struct {
	categories catalog.CategoryRepository
	engine     *reconcile.Engine
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(
	categories catalog.CategoryRepository,
	engine *reconcile.Engine,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		engine:     engine,
		logger:     logger,
	}
}

// List returns all categories of the tenant as a flat list with parent
// references.
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categories.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *toCategoryResponse(&categories[i]))
	}
	return out, nil
}

// Create adds one category. The parent must belong to the tenant.
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.categories.FindByID(ctx, tenantID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	category, err := catalog.NewCategory(tenantID, req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Update renames or moves one category.
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := category.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil {
		if _, err := s.categories.FindByID(ctx, tenantID, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.Move(req.ParentID); err != nil {
			return nil, err
		}
	} else if req.MoveToRoot {
		if err := category.Move(nil); err != nil {
			return nil, err
		}
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete removes one category. Children are re-parented by the
// repository, never deleted.
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.categories.Delete(ctx, tenantID, id)
}

// BatchUpsert reconciles a batch of category records.
func (s *CategoryService) BatchUpsert(ctx context.Context, tenantID uuid.UUID, records []reconcile.CategoryRecord) (*reconcile.Result, error) {
	return s.engine.UpsertCategories(ctx, tenantID, records)
}
