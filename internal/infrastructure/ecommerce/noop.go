package ecommerce

import (
	"context"
	"time"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// NoopProvider is the default adapter returned for unknown or
// unconfigured marketplace codes. Every operation succeeds with an
// empty or neutral result so callers never branch on marketplace
// presence.
type NoopProvider struct {
	code marketplace.Code
}

var _ marketplace.Provider = (*NoopProvider)(nil)

// NewNoopProvider creates the neutral adapter for the given code.
func NewNoopProvider(code marketplace.Code) *NoopProvider {
	return &NoopProvider{code: code}
}

// Code returns the marketplace this provider serves.
func (p *NoopProvider) Code() marketplace.Code {
	return p.code
}

func (p *NoopProvider) CheckConnection(ctx context.Context, creds marketplace.Credentials) (int, error) {
	return 0, nil
}

func (p *NoopProvider) CategoryAttributes(ctx context.Context, creds marketplace.Credentials, categoryExternalID string) ([]marketplace.AttributeSchema, error) {
	return nil, nil
}

func (p *NoopProvider) DictionaryValues(ctx context.Context, creds marketplace.Credentials, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, error) {
	return nil, nil
}

func (p *NoopProvider) ExportProducts(ctx context.Context, creds marketplace.Credentials, products []marketplace.ProductExport) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(products)), nil
}

func (p *NoopProvider) ExportStatus(ctx context.Context, creds marketplace.Credentials, taskID string) (*marketplace.ExportInfo, error) {
	return &marketplace.ExportInfo{TaskID: taskID, Done: true}, nil
}

func (p *NoopProvider) SetListingVisibility(ctx context.Context, creds marketplace.Credentials, refs []marketplace.ListingRef, visible bool) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(refs)), nil
}

func (p *NoopProvider) UpdatePricesAndStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(items)), nil
}

func (p *NoopProvider) UpdatePrices(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(items)), nil
}

func (p *NoopProvider) UpdateStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(items)), nil
}

func (p *NoopProvider) Warehouses(ctx context.Context, creds marketplace.Credentials) ([]marketplace.Warehouse, error) {
	return nil, nil
}

func (p *NoopProvider) ImportProducts(ctx context.Context, creds marketplace.Credentials) ([]marketplace.ImportedProduct, error) {
	return nil, nil
}

func (p *NoopProvider) ImportAttributes(ctx context.Context, creds marketplace.Credentials) ([]marketplace.DictionaryRecord, error) {
	return nil, nil
}

func (p *NoopProvider) PullOrders(ctx context.Context, creds marketplace.Credentials, since time.Time) ([]marketplace.RemoteOrder, error) {
	return nil, nil
}

func (p *NoopProvider) OrderStatuses(ctx context.Context, creds marketplace.Credentials, externalIDs []string) (map[string]marketplace.OrderStatus, error) {
	return map[string]marketplace.OrderStatus{}, nil
}

func (p *NoopProvider) CancelOrder(ctx context.Context, creds marketplace.Credentials, externalID string) error {
	return nil
}

func (p *NoopProvider) OpenSupply(ctx context.Context, creds marketplace.Credentials, orderType marketplace.OrderType) (*marketplace.RemoteSupply, error) {
	return &marketplace.RemoteSupply{OrderType: orderType, CreatedAt: time.Now().UTC()}, nil
}

func (p *NoopProvider) CloseSupply(ctx context.Context, creds marketplace.Credentials, supplyExternalID string) error {
	return nil
}

func (p *NoopProvider) Supplies(ctx context.Context, creds marketplace.Credentials) ([]marketplace.RemoteSupply, error) {
	return nil, nil
}

func (p *NoopProvider) ExportImages(ctx context.Context, creds marketplace.Credentials, images []marketplace.ImageExport) (*marketplace.BatchResult, error) {
	return marketplace.NewBatchResult(len(images)), nil
}
