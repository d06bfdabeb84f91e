package marketplace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// ExportService pushes local catalog data to marketplaces. Every push
// records per-owner listing state so failures are visible and retryable
// per object rather than per batch.
type ExportService struct {
	products     catalog.ProductRepository
	priceLists   catalog.PriceListRepository
	integrations marketplace.IntegrationRepository
	listings     marketplace.ListingRepository
	registry     marketplace.Registry
	logger       *zap.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(
	products catalog.ProductRepository,
	priceLists catalog.PriceListRepository,
	integrations marketplace.IntegrationRepository,
	listings marketplace.ListingRepository,
	registry marketplace.Registry,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		products:     products,
		priceLists:   priceLists,
		integrations: integrations,
		listings:     listings,
		registry:     registry,
		logger:       logger,
	}
}

// ExportProducts assembles marketplace projections for the given
// products and pushes them. Unpublished products are skipped. Listing
// records are written for every pushed variation.
func (s *ExportService) ExportProducts(ctx context.Context, creds marketplace.Credentials, productIDs []uuid.UUID) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	integration, err := s.integrations.FindByTenantAndCode(ctx, creds.TenantID, creds.Marketplace)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByIDs(ctx, creds.TenantID, productIDs)
	if err != nil {
		return nil, err
	}

	exports := make([]marketplace.ProductExport, 0, len(products))
	for i := range products {
		p := &products[i]
		if !p.IsPublished() {
			continue
		}
		export, err := s.buildExport(ctx, integration, p)
		if err != nil {
			return nil, err
		}
		exports = append(exports, *export)
	}
	if len(exports) == 0 {
		return marketplace.NewBatchResult(0), nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	result, err := provider.ExportProducts(ctx, creds, exports)
	if err != nil {
		return nil, err
	}

	s.recordListings(ctx, creds, exports, result)
	return result, nil
}

// PollExportStatus checks a marketplace-side export task and resolves
// the pending listings it covers.
func (s *ExportService) PollExportStatus(ctx context.Context, creds marketplace.Credentials, taskID string) (*marketplace.ExportInfo, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	info, err := provider.ExportStatus(ctx, creds, taskID)
	if err != nil {
		return nil, err
	}
	if !info.Done {
		return info, nil
	}

	pending, err := s.listings.FindByState(ctx, creds.TenantID, creds.Marketplace, marketplace.ListingStatePending)
	if err != nil {
		return info, err
	}
	for i := range pending {
		l := &pending[i]
		if l.TaskID != taskID {
			continue
		}
		if info.HasError {
			l.MarkError(info.Log)
		} else {
			l.MarkSuccess("")
		}
		if err := s.listings.Save(ctx, l); err != nil {
			s.logger.Error("export poll: listing save failed",
				zap.String("owner_id", l.OwnerID.String()),
				zap.Error(err),
			)
		}
	}
	return info, nil
}

// SetVisibility toggles marketplace-side visibility of the given owners.
func (s *ExportService) SetVisibility(ctx context.Context, creds marketplace.Credentials, ownerType catalog.OwnerType, ownerIDs []uuid.UUID, visible bool) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	listings, err := s.listings.FindByOwners(ctx, creds.TenantID, creds.Marketplace, ownerType, ownerIDs)
	if err != nil {
		return nil, err
	}
	refs := make([]marketplace.ListingRef, 0, len(listings))
	for _, l := range listings {
		if l.ExternalID == "" {
			continue
		}
		refs = append(refs, marketplace.ListingRef{
			OwnerType:  l.OwnerType,
			OwnerID:    l.OwnerID,
			ExternalID: l.ExternalID,
		})
	}
	if len(refs) == 0 {
		return marketplace.NewBatchResult(0), nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	return provider.SetListingVisibility(ctx, creds, refs, visible)
}

// PushPricesAndStocks sends current prices and stocks of every
// successfully listed variation, honoring the integration's export
// toggles.
func (s *ExportService) PushPricesAndStocks(ctx context.Context, creds marketplace.Credentials) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	integration, err := s.integrations.FindByTenantAndCode(ctx, creds.TenantID, creds.Marketplace)
	if err != nil {
		return nil, err
	}
	export := integration.Settings.Export
	if !export.Enabled || (!export.UpdatePrices && !export.UpdateStocks) {
		return marketplace.NewBatchResult(0), nil
	}

	published := catalog.ProductStatusPublished
	products, _, err := s.products.FindAll(ctx, creds.TenantID, catalog.ProductFilter{Status: &published})
	if err != nil {
		return nil, err
	}

	variationIDs := make([]uuid.UUID, 0, len(products))
	for i := range products {
		for j := range products[i].Variations {
			variationIDs = append(variationIDs, products[i].Variations[j].ID)
		}
	}
	listed, err := s.listings.FindByOwners(ctx, creds.TenantID, creds.Marketplace, catalog.OwnerTypeVariation, variationIDs)
	if err != nil {
		return nil, err
	}
	listedByOwner := make(map[uuid.UUID]*marketplace.Listing, len(listed))
	for i := range listed {
		listedByOwner[listed[i].OwnerID] = &listed[i]
	}

	updates := make([]marketplace.PriceStockUpdate, 0, len(listed))
	for i := range products {
		for j := range products[i].Variations {
			v := &products[i].Variations[j]
			listing, ok := listedByOwner[v.ID]
			if !ok || listing.State != marketplace.ListingStateSuccess || listing.ExternalID == "" {
				continue
			}
			price, oldPrice, stock := v.Price, v.OldPrice, v.Stock
			if integration.PriceListID != nil {
				if record, err := s.priceLists.FindPriceRecord(ctx, *integration.PriceListID, catalog.OwnerTypeVariation, v.ID); err == nil {
					price, oldPrice, stock = record.Price, record.OldPrice, record.Stock
				}
			}
			updates = append(updates, marketplace.PriceStockUpdate{
				OwnerType:   catalog.OwnerTypeVariation,
				OwnerID:     v.ID,
				ExternalID:  listing.ExternalID,
				VendorCode:  v.VendorCode,
				Price:       price,
				OldPrice:    oldPrice,
				Stock:       stock,
				WarehouseID: creds.WarehouseID,
			})
		}
	}
	if len(updates) == 0 {
		return marketplace.NewBatchResult(0), nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	switch {
	case export.UpdatePrices && export.UpdateStocks:
		return provider.UpdatePricesAndStocks(ctx, creds, updates)
	case export.UpdatePrices:
		return provider.UpdatePrices(ctx, creds, updates)
	default:
		return provider.UpdateStocks(ctx, creds, updates)
	}
}

// ExportImages pushes product images through the marketplace media
// pipeline for the given products.
func (s *ExportService) ExportImages(ctx context.Context, creds marketplace.Credentials, productIDs []uuid.UUID) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	products, err := s.products.FindByIDs(ctx, creds.TenantID, productIDs)
	if err != nil {
		return nil, err
	}

	images := make([]marketplace.ImageExport, 0, len(products))
	for i := range products {
		p := &products[i]
		listing, err := s.listings.FindByOwner(ctx, creds.TenantID, creds.Marketplace, catalog.OwnerTypeProduct, p.ID)
		externalID := ""
		if err == nil {
			externalID = listing.ExternalID
		}
		for order, url := range p.Images {
			images = append(images, marketplace.ImageExport{
				OwnerType:  catalog.OwnerTypeProduct,
				OwnerID:    p.ID,
				ExternalID: externalID,
				URL:        url,
				SortOrder:  order,
			})
		}
	}
	if len(images) == 0 {
		return marketplace.NewBatchResult(0), nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	return provider.ExportImages(ctx, creds, images)
}

// buildExport projects one product into its marketplace shape using
// the integration's price list overrides when bound.
func (s *ExportService) buildExport(ctx context.Context, integration *marketplace.Integration, p *catalog.Product) (*marketplace.ProductExport, error) {
	export := &marketplace.ProductExport{
		ProductID:   p.ID,
		ExternalID:  p.ExternalID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Title:       p.Title,
		Description: p.Description,
		Images:      p.Images,
	}

	for i := range p.Variations {
		v := &p.Variations[i]
		price, oldPrice, stock := v.Price, v.OldPrice, v.Stock
		if integration.PriceListID != nil {
			if record, err := s.priceLists.FindPriceRecord(ctx, *integration.PriceListID, catalog.OwnerTypeVariation, v.ID); err == nil {
				price, oldPrice, stock = record.Price, record.OldPrice, record.Stock
			}
		}
		export.Variations = append(export.Variations, marketplace.VariationExport{
			VariationID: v.ID,
			ExternalID:  v.ExternalID,
			VendorCode:  v.VendorCode,
			Barcode:     v.Barcode,
			Price:       price,
			OldPrice:    oldPrice,
			Stock:       stock,
		})
	}

	// Product-level figures mirror the first variation so marketplaces
	// with a flat card model get sensible values.
	if len(export.Variations) > 0 {
		export.Price = export.Variations[0].Price
		export.OldPrice = export.Variations[0].OldPrice
		export.Stock = export.Variations[0].Stock
	}
	return export, nil
}

// recordListings writes per-variation listing state after a push.
func (s *ExportService) recordListings(ctx context.Context, creds marketplace.Credentials, exports []marketplace.ProductExport, result *marketplace.BatchResult) {
	failed := make(map[string]string, len(result.Errors))
	for _, e := range result.Errors {
		failed[e.ExternalID] = e.Message
	}

	var batch []*marketplace.Listing
	for _, export := range exports {
		for _, v := range export.Variations {
			listing, err := s.listings.FindByOwner(ctx, creds.TenantID, creds.Marketplace, catalog.OwnerTypeVariation, v.VariationID)
			if err != nil {
				if !isNotFound(err) {
					s.logger.Error("export: listing lookup failed",
						zap.String("variation_id", v.VariationID.String()),
						zap.Error(err),
					)
					continue
				}
				listing = marketplace.NewListing(creds.TenantID, creds.Marketplace, catalog.OwnerTypeVariation, v.VariationID)
			}
			key := v.ExternalID
			if key == "" {
				key = v.VendorCode
			}
			if msg, ok := failed[key]; ok {
				listing.MarkError(msg)
			} else {
				listing.MarkPending(result.TaskID)
			}
			batch = append(batch, listing)
		}
	}
	if len(batch) == 0 {
		return
	}
	if err := s.listings.SaveBatch(ctx, batch); err != nil {
		s.logger.Error("export: listing batch save failed", zap.Error(err))
	}
}
