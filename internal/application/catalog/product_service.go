// Package catalog exposes catalog management use cases: product and
// category CRUD, price list maintenance and the batch endpoints backed
// by the reconciliation engine.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// ProductService serves product reads and writes. Batch mutations go
// through the reconciliation engine so API clients and marketplace
// imports share matching and validation semantics.
type ProductService struct {
	products catalog.ProductRepository
	engine   *reconcile.Engine
	logger   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	products catalog.ProductRepository,
	engine *reconcile.Engine,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		engine:   engine,
		logger:   logger,
	}
}

// List returns one page of products matching the query.
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, query ListProductsQuery) (*ProductListResponse, error) {
	filter := catalog.ProductFilter{
		CategoryID:  query.CategoryID,
		PriceListID: query.PriceListID,
		Search:      query.Search,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
	if query.Status != "" {
		status := catalog.ProductStatus(query.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "unknown product status "+query.Status)
		}
		filter.Status = &status
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 500 {
		filter.PageSize = 50
	}

	products, total, err := s.products.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	resp := &ProductListResponse{
		Items:    make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i := range products {
		resp.Items = append(resp.Items, *toProductResponse(&products[i]))
	}
	return resp, nil
}

// Get returns one product aggregate.
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// BatchUpsert reconciles a batch of product records.
func (s *ProductService) BatchUpsert(ctx context.Context, tenantID uuid.UUID, records []reconcile.ProductRecord) (*reconcile.Result, error) {
	return s.engine.UpsertProducts(ctx, tenantID, records)
}

// BatchDelete removes a batch of products.
func (s *ProductService) BatchDelete(ctx context.Context, tenantID uuid.UUID, records []reconcile.DeleteRecord) (*reconcile.Result, error) {
	return s.engine.DeleteProducts(ctx, tenantID, records)
}

// Delete removes one product with its dependents.
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.products.Delete(ctx, tenantID, id)
}
