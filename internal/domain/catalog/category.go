package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/shared"
)

var (
	ErrCategoryInvalidTenant = errors.New("catalog: invalid tenant ID")
	ErrCategoryNameRequired  = errors.New("catalog: category name is required")
	ErrCategorySelfParent    = errors.New("catalog: category cannot be its own parent")
)

// Category is a node of the per-tenant category tree (adjacency list).
// A category may be linked to one shared system category used for
// cross-marketplace attribute mapping.
type Category struct {
	shared.TenantEntity
	Name             string
	ExternalID       string
	ParentID         *uuid.UUID
	SystemCategoryID *uuid.UUID
	SortOrder        int
}

// SystemCategory is a node of the shared taxonomy that local categories
// from different tenants map onto.
type SystemCategory struct {
	shared.BaseEntity
	Name     string
	ParentID *uuid.UUID
}

// NewCategory creates a category for the tenant.
func NewCategory(tenantID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error) {
	if tenantID == uuid.Nil {
		return nil, ErrCategoryInvalidTenant
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrCategoryNameRequired
	}
	return &Category{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		ParentID:     parentID,
	}, nil
}

// Rename changes the category name.
func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrCategoryNameRequired
	}
	c.Name = name
	c.Touch()
	return nil
}

// Move re-parents the category.
func (c *Category) Move(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return ErrCategorySelfParent
	}
	c.ParentID = parentID
	c.Touch()
	return nil
}

// LinkSystemCategory binds the category to a shared taxonomy node.
func (c *Category) LinkSystemCategory(systemCategoryID uuid.UUID) {
	c.SystemCategoryID = &systemCategoryID
	c.Touch()
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Category, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Category, error)
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Category, error)
	Save(ctx context.Context, category *Category) error

	// Delete removes the category, re-parents children to the deleted
	// node's parent and clears the category link on products in one
	// transaction. The deletion contract is explicit here rather
	// than hidden in persistence lifecycle hooks.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SystemCategoryRepository persists the shared taxonomy.
type SystemCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SystemCategory, error)
	FindByName(ctx context.Context, name string, parentID *uuid.UUID) (*SystemCategory, error)
	Save(ctx context.Context, category *SystemCategory) error
}
