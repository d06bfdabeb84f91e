package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/domain/catalog"
)

// PriceListService manages price lists, their product membership and
// per-list price overrides.
type PriceListService struct {
	priceLists catalog.PriceListRepository
	engine     *reconcile.Engine
	logger     *zap.Logger
}

// NewPriceListService creates a new PriceListService.
func NewPriceListService(
	priceLists catalog.PriceListRepository,
	engine *reconcile.Engine,
	logger *zap.Logger,
) *PriceListService {
	return &PriceListService{
		priceLists: priceLists,
		engine:     engine,
		logger:     logger,
	}
}

// List returns all price lists of the tenant.
func (s *PriceListService) List(ctx context.Context, tenantID uuid.UUID) ([]PriceListResponse, error) {
	lists, err := s.priceLists.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]PriceListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, *toPriceListResponse(&lists[i]))
	}
	return out, nil
}

// Create adds one price list.
func (s *PriceListService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePriceListRequest) (*PriceListResponse, error) {
	list, err := catalog.NewPriceList(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	list.IsDefault = req.IsDefault
	if err := s.priceLists.Save(ctx, list); err != nil {
		return nil, err
	}
	return toPriceListResponse(list), nil
}

// Delete removes one price list with its memberships and overrides.
func (s *PriceListService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.priceLists.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.priceLists.Delete(ctx, tenantID, id)
}

// AttachProducts adds products to the list, keeping existing members.
func (s *PriceListService) AttachProducts(ctx context.Context, tenantID, listID uuid.UUID, productIDs []uuid.UUID) error {
	if _, err := s.priceLists.FindByID(ctx, tenantID, listID); err != nil {
		return err
	}
	return s.priceLists.SyncProducts(ctx, listID, productIDs)
}

// DetachProducts removes products from the list.
func (s *PriceListService) DetachProducts(ctx context.Context, tenantID, listID uuid.UUID, productIDs []uuid.UUID) error {
	if _, err := s.priceLists.FindByID(ctx, tenantID, listID); err != nil {
		return err
	}
	return s.priceLists.DetachProducts(ctx, listID, productIDs)
}

// BatchUpsertPrices reconciles a batch of per-list price overrides.
func (s *PriceListService) BatchUpsertPrices(ctx context.Context, tenantID uuid.UUID, records []reconcile.PriceRecordInput) (*reconcile.Result, error) {
	return s.engine.UpsertPrices(ctx, tenantID, records)
}
