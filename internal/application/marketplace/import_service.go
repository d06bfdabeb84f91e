package marketplace

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// ImportService pulls remote catalogs into the local one. The remote
// records are normalized by the provider and reconciled through the
// same engine that serves the batch API, so imports and API submissions
// share one matching and validation path.
type ImportService struct {
	engine       *reconcile.Engine
	integrations marketplace.IntegrationRepository
	registry     marketplace.Registry
	notifier     shared.Notifier
	logger       *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	engine *reconcile.Engine,
	integrations marketplace.IntegrationRepository,
	registry marketplace.Registry,
	notifier shared.Notifier,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		engine:       engine,
		integrations: integrations,
		registry:     registry,
		notifier:     notifier,
		logger:       logger,
	}
}

// ImportProducts pulls the remote catalog and reconciles it locally.
// Products the import creates or touches are attached to the
// integration's bound price list.
func (s *ImportService) ImportProducts(ctx context.Context, creds marketplace.Credentials) (*reconcile.Result, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	integration, err := s.integrations.FindByTenantAndCode(ctx, creds.TenantID, creds.Marketplace)
	if err != nil {
		return nil, err
	}
	if !integration.Settings.Import.Enabled {
		return reconcile.NewResult(0), nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	imported, err := provider.ImportProducts(ctx, creds)
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.ProductRecord, 0, len(imported))
	for _, ip := range imported {
		records = append(records, toProductRecord(ip, integration))
	}

	result, err := s.engine.UpsertProducts(ctx, creds.TenantID, records)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product import finished",
		zap.String("marketplace", creds.Marketplace.String()),
		zap.String("tenant_id", creds.TenantID.String()),
		zap.Int("all", result.All),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("rejected", len(result.AdditionalInfo)),
	)

	if len(result.AdditionalInfo) > 0 {
		s.notifier.Notify(ctx, shared.Notification{
			TenantID: creds.TenantID,
			Level:    shared.NotificationLevelWarning,
			Title:    "Product import finished with rejections",
			Message:  creds.Marketplace.DisplayName() + " import rejected some records",
		})
	}
	return result, nil
}

// toProductRecord converts a normalized remote product into an engine
// record, honoring the integration's update toggles: prices and stocks
// are dropped from the record when their import toggle is off so the
// engine never overwrites local values.
func toProductRecord(ip marketplace.ImportedProduct, integration *marketplace.Integration) reconcile.ProductRecord {
	settings := integration.Settings.Import

	rec := reconcile.ProductRecord{
		ExternalID:         ip.ExternalID,
		SKU:                ip.SKU,
		Barcode:            ip.Barcode,
		Title:              ip.Title,
		Description:        ip.Description,
		CategoryExternalID: ip.CategoryExternalID,
		CategoryName:       ip.CategoryName,
		Images:             ip.Images,
	}
	if integration.PriceListID != nil {
		rec.PriceListIDs = append(rec.PriceListIDs, *integration.PriceListID)
	}
	if settings.UpdatePrices {
		rec.Price = decimalPtr(ip.Price)
		rec.OldPrice = decimalPtr(ip.OldPrice)
	}
	if settings.UpdateStocks {
		rec.Stock = decimalPtr(ip.Stock)
	}

	for _, iv := range ip.Variations {
		vr := reconcile.VariationRecord{
			ExternalID: iv.ExternalID,
			VendorCode: iv.VendorCode,
			Barcode:    iv.Barcode,
		}
		if settings.UpdatePrices {
			vr.Price = decimalPtr(iv.Price)
		}
		if settings.UpdateStocks {
			vr.Stock = decimalPtr(iv.Stock)
		}
		rec.Variations = append(rec.Variations, vr)
	}
	return rec
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
