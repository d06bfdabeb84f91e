package ecommerce

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

const (
	defaultOzonBaseURL = "https://api-seller.ozon.ru"

	// ozonPageSize is the page size for catalog and order listing calls
	ozonPageSize = 100

	// ozonCancelReasonID is the "canceled by seller" reason code
	ozonCancelReasonID = 352
)

// OzonProvider implements the marketplace provider port against the
// Ozon Seller API. Requests authenticate with the Client-Id and
// Api-Key headers taken from per-call credentials.
type OzonProvider struct {
	client *apiClient
	logger *zap.Logger
}

var _ marketplace.Provider = (*OzonProvider)(nil)

// NewOzonProvider creates an Ozon adapter from marketplace API settings.
func NewOzonProvider(cfg config.MarketplaceAPIConfig, logger *zap.Logger) *OzonProvider {
	api := APIConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	}
	if api.BaseURL == "" {
		api.BaseURL = defaultOzonBaseURL
	}
	return &OzonProvider{
		client: newAPIClient(api),
		logger: logger.Named("ozon"),
	}
}

// Code returns the marketplace this provider serves.
func (p *OzonProvider) Code() marketplace.Code {
	return marketplace.CodeOzon
}

func (p *OzonProvider) headers(creds marketplace.Credentials) map[string]string {
	return map[string]string{
		"Client-Id": creds.ClientID,
		"Api-Key":   creds.APIKey,
	}
}

// ---------------------------------------------------------------------------
// Connection and taxonomy
// ---------------------------------------------------------------------------

// CheckConnection probes the API with a minimal catalog listing and
// returns the remote catalog size.
func (p *OzonProvider) CheckConnection(ctx context.Context, creds marketplace.Credentials) (int, error) {
	if err := creds.Validate(); err != nil {
		return 0, err
	}
	req := ozonProductListRequest{Limit: 1}
	var resp ozonProductListResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v3/product/list", p.headers(creds), req, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Total, nil
}

// CategoryAttributes fetches the attribute schema for one mapped
// category. The external ID is "category" or "category:type" since
// Ozon keys attribute schemas by both.
func (p *OzonProvider) CategoryAttributes(ctx context.Context, creds marketplace.Credentials, categoryExternalID string) ([]marketplace.AttributeSchema, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if categoryExternalID == "" {
		return nil, nil
	}
	categoryID, typeID, err := splitOzonCategoryID(categoryExternalID)
	if err != nil {
		return nil, err
	}

	req := ozonAttributesRequest{DescriptionCategoryID: categoryID, TypeID: typeID}
	var resp ozonAttributesResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/description-category/attribute", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}

	schemas := make([]marketplace.AttributeSchema, 0, len(resp.Result))
	for _, attr := range resp.Result {
		schema := marketplace.AttributeSchema{
			ExternalID: strconv.FormatInt(attr.ID, 10),
			Name:       attr.Name,
			Type:       attr.Type,
			Required:   attr.IsRequired,
			Collection: attr.IsCollection,
		}
		if attr.DictionaryID != 0 {
			schema.DictionaryID = strconv.FormatInt(attr.DictionaryID, 10)
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

// DictionaryValues fetches enumerable values of one attribute
// dictionary.
func (p *OzonProvider) DictionaryValues(ctx context.Context, creds marketplace.Credentials, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	attributeID, err := strconv.ParseInt(query.DictionaryID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: dictionary id %q", marketplace.ErrInvalidResponse, query.DictionaryID)
	}
	limit := query.Limit
	if limit <= 0 || limit > ozonPageSize {
		limit = ozonPageSize
	}

	req := ozonAttributeValuesRequest{
		AttributeID: attributeID,
		Limit:       limit,
		Query:       query.Search,
	}
	if query.CategoryExternalID != "" {
		categoryID, _, err := splitOzonCategoryID(query.CategoryExternalID)
		if err != nil {
			return nil, err
		}
		req.DescriptionCategoryID = categoryID
	}

	var resp ozonAttributeValuesResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/description-category/attribute/values", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}

	values := make([]marketplace.DictionaryValue, 0, len(resp.Result))
	for _, v := range resp.Result {
		values = append(values, marketplace.DictionaryValue{
			ExternalID: strconv.FormatInt(v.ID, 10),
			Value:      v.Value,
			Info:       v.Info,
		})
	}
	return values, nil
}

// ImportAttributes crawls the category tree and the attribute schema of
// every leaf category. Request pacing comes from the shared client
// limiter.
func (p *OzonProvider) ImportAttributes(ctx context.Context, creds marketplace.Credentials) ([]marketplace.DictionaryRecord, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var tree ozonCategoryTreeResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/description-category/tree", p.headers(creds), struct{}{}, &tree); err != nil {
		return nil, err
	}

	var records []marketplace.DictionaryRecord
	var leaves []string
	var walk func(nodes []ozonCategoryNode, parent string)
	walk = func(nodes []ozonCategoryNode, parent string) {
		for _, node := range nodes {
			externalID := strconv.FormatInt(node.DescriptionCategoryID, 10)
			name := node.CategoryName
			if node.TypeID != 0 {
				// leaf type nodes carry the composite key attribute
				// schemas are fetched with
				externalID = joinOzonCategoryID(node.DescriptionCategoryID, node.TypeID)
				name = node.TypeName
				leaves = append(leaves, externalID)
			}
			records = append(records, marketplace.DictionaryRecord{
				Kind:             marketplace.DictionaryKindCategory,
				ExternalID:       externalID,
				ParentExternalID: parent,
				Name:             name,
			})
			walk(node.Children, externalID)
		}
	}
	walk(tree.Result, "")

	for _, leaf := range leaves {
		schemas, err := p.CategoryAttributes(ctx, creds, leaf)
		if err != nil {
			return nil, fmt.Errorf("attributes of category %s: %w", leaf, err)
		}
		for _, schema := range schemas {
			records = append(records, marketplace.DictionaryRecord{
				Kind:             marketplace.DictionaryKindAttribute,
				ExternalID:       leaf + "/" + schema.ExternalID,
				ParentExternalID: leaf,
				Name:             schema.Name,
				Payload: map[string]any{
					"type":          schema.Type,
					"required":      schema.Required,
					"collection":    schema.Collection,
					"dictionary_id": schema.DictionaryID,
				},
			})
		}
	}
	return records, nil
}

// Warehouses enumerates seller warehouses usable for FBS stock.
func (p *OzonProvider) Warehouses(ctx context.Context, creds marketplace.Credentials) ([]marketplace.Warehouse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp ozonWarehouseListResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/warehouse/list", p.headers(creds), struct{}{}, &resp); err != nil {
		return nil, err
	}
	warehouses := make([]marketplace.Warehouse, 0, len(resp.Result))
	for _, w := range resp.Result {
		warehouses = append(warehouses, marketplace.Warehouse{
			ExternalID: strconv.FormatInt(w.WarehouseID, 10),
			Name:       w.Name,
			IsFBS:      !w.IsRFBS,
		})
	}
	return warehouses, nil
}

// ---------------------------------------------------------------------------
// Catalog export
// ---------------------------------------------------------------------------

// ExportProducts submits product cards as one import task. Ozon
// processes imports asynchronously, so the result carries the task ID
// for later polling instead of per-item outcomes.
func (p *OzonProvider) ExportProducts(ctx context.Context, creds marketplace.Credentials, products []marketplace.ProductExport) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(0)
	req := ozonProductImportRequest{}
	for _, product := range products {
		for _, item := range ozonImportItems(product) {
			req.Items = append(req.Items, item)
			result.Total++
		}
	}
	if len(req.Items) == 0 {
		return result, nil
	}

	var resp ozonProductImportResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v3/product/import", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}
	result.Succeeded = result.Total
	result.TaskID = strconv.FormatInt(resp.Result.TaskID, 10)
	return result, nil
}

// ozonImportItems flattens one product export into Ozon import items,
// one per variation or one for the bare product.
func ozonImportItems(product marketplace.ProductExport) []ozonProductImportItem {
	categoryID := int64(0)
	if product.CategoryExternalID != "" {
		if id, _, err := splitOzonCategoryID(product.CategoryExternalID); err == nil {
			categoryID = id
		}
	}
	attributes := make([]ozonItemAttribute, 0, len(product.Attributes))
	for _, attr := range product.Attributes {
		id, err := strconv.ParseInt(attr.AttributeExternalID, 10, 64)
		if err != nil {
			continue
		}
		value := ozonItemAttrValue{Value: attr.Value}
		if attr.DictionaryValueID != "" {
			value.DictionaryValueID, _ = strconv.ParseInt(attr.DictionaryValueID, 10, 64)
		}
		attributes = append(attributes, ozonItemAttribute{ID: id, Values: []ozonItemAttrValue{value}})
	}

	base := ozonProductImportItem{
		Name:                  product.Title,
		Description:           product.Description,
		DescriptionCategoryID: categoryID,
		Images:                product.Images,
		Attributes:            attributes,
	}
	if len(product.Variations) == 0 {
		item := base
		item.OfferID = product.SKU
		item.Barcode = product.Barcode
		item.Price = product.Price.String()
		if product.OldPrice.IsPositive() {
			item.OldPrice = product.OldPrice.String()
		}
		return []ozonProductImportItem{item}
	}

	items := make([]ozonProductImportItem, 0, len(product.Variations))
	for _, variation := range product.Variations {
		item := base
		item.OfferID = variation.VendorCode
		item.Barcode = variation.Barcode
		item.Price = variation.Price.String()
		if variation.OldPrice.IsPositive() {
			item.OldPrice = variation.OldPrice.String()
		}
		items = append(items, item)
	}
	return items
}

// ExportStatus polls an import task submitted by ExportProducts.
func (p *OzonProvider) ExportStatus(ctx context.Context, creds marketplace.Credentials, taskID string) (*marketplace.ExportInfo, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(taskID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: task id %q", marketplace.ErrInvalidResponse, taskID)
	}
	var resp ozonImportInfoResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/product/import/info", p.headers(creds), ozonImportInfoRequest{TaskID: id}, &resp); err != nil {
		return nil, err
	}

	info := &marketplace.ExportInfo{TaskID: taskID, Done: len(resp.Result.Items) > 0}
	var logs []string
	for _, item := range resp.Result.Items {
		if item.Status == "pending" || item.Status == "processing" {
			info.Done = false
		}
		if item.Status == "failed" || len(item.Errors) > 0 {
			info.HasError = true
			logs = append(logs, fmt.Sprintf("%s: %s", item.OfferID, strings.Join(item.Errors, "; ")))
		}
	}
	info.Log = strings.Join(logs, "\n")
	if info.Done && !info.HasError {
		info.Result = "imported"
	}
	return info, nil
}

// SetListingVisibility archives or unarchives products.
func (p *OzonProvider) SetListingVisibility(ctx context.Context, creds marketplace.Credentials, refs []marketplace.ListingRef, visible bool) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := strconv.ParseInt(ref.ExternalID, 10, 64)
		if err != nil {
			result.Fail(ref.ExternalID, "external id is not an Ozon product id")
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return result, nil
	}

	path := "/v1/product/archive"
	if visible {
		path = "/v1/product/unarchive"
	}
	var resp ozonBoolResponse
	if err := p.client.doJSON(ctx, http.MethodPost, path, p.headers(creds), ozonArchiveRequest{ProductID: ids}, &resp); err != nil {
		return nil, err
	}
	result.Succeeded = len(ids)
	return result, nil
}

// ---------------------------------------------------------------------------
// Prices and stocks
// ---------------------------------------------------------------------------

// UpdatePrices pushes price deltas keyed by offer ID.
func (p *OzonProvider) UpdatePrices(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(items))
	if len(items) == 0 {
		return result, nil
	}

	req := ozonImportPricesRequest{Prices: make([]ozonPriceItem, 0, len(items))}
	for _, item := range items {
		price := ozonPriceItem{
			OfferID: ozonOfferID(item),
			Price:   item.Price.String(),
		}
		if item.OldPrice.IsPositive() {
			price.OldPrice = item.OldPrice.String()
		}
		req.Prices = append(req.Prices, price)
	}

	var resp ozonImportPricesResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/product/import/prices", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}
	collectOzonItemResults(result, resp.Result)
	return result, nil
}

// UpdateStocks pushes stock deltas keyed by offer ID. Stock routes to
// the warehouse on the update, falling back to the integration's
// default warehouse.
func (p *OzonProvider) UpdateStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(items))
	if len(items) == 0 {
		return result, nil
	}

	defaultWarehouse, _ := strconv.ParseInt(creds.WarehouseID, 10, 64)
	req := ozonStocksRequest{Stocks: make([]ozonStockItem, 0, len(items))}
	for _, item := range items {
		stock := ozonStockItem{
			OfferID:     ozonOfferID(item),
			Stock:       item.Stock.IntPart(),
			WarehouseID: defaultWarehouse,
		}
		if item.WarehouseID != "" {
			if id, err := strconv.ParseInt(item.WarehouseID, 10, 64); err == nil {
				stock.WarehouseID = id
			}
		}
		req.Stocks = append(req.Stocks, stock)
	}

	var resp ozonStocksResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v2/products/stocks", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}
	collectOzonItemResults(result, resp.Result)
	return result, nil
}

// UpdatePricesAndStocks pushes both deltas, prices first.
func (p *OzonProvider) UpdatePricesAndStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	prices, err := p.UpdatePrices(ctx, creds, items)
	if err != nil {
		return nil, err
	}
	stocks, err := p.UpdateStocks(ctx, creds, items)
	if err != nil {
		return nil, err
	}
	prices.Merge(stocks)
	return prices, nil
}

func collectOzonItemResults(result *marketplace.BatchResult, items []ozonItemResult) {
	for _, item := range items {
		if item.Updated && len(item.Errors) == 0 {
			result.Ok()
			continue
		}
		message := "update rejected"
		if len(item.Errors) > 0 {
			message = item.Errors[0].Message
			if message == "" {
				message = item.Errors[0].Code
			}
		}
		result.Fail(item.OfferID, message)
	}
}

// ozonOfferID picks the offer identifier of one update: the vendor
// code when present, the external ID otherwise.
func ozonOfferID(item marketplace.PriceStockUpdate) string {
	if item.VendorCode != "" {
		return item.VendorCode
	}
	return item.ExternalID
}

// ---------------------------------------------------------------------------
// Catalog import
// ---------------------------------------------------------------------------

// ImportProducts pages through the remote catalog and normalizes each
// card. Ozon items are flat SKUs, so imported products carry no
// variations.
func (p *OzonProvider) ImportProducts(ctx context.Context, creds marketplace.Credentials) ([]marketplace.ImportedProduct, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var products []marketplace.ImportedProduct
	lastID := ""
	for {
		req := ozonProductListRequest{Limit: ozonPageSize, LastID: lastID}
		var page ozonProductListResponse
		if err := p.client.doJSON(ctx, http.MethodPost, "/v3/product/list", p.headers(creds), req, &page); err != nil {
			return nil, err
		}
		if len(page.Result.Items) == 0 {
			break
		}

		ids := make([]int64, 0, len(page.Result.Items))
		for _, item := range page.Result.Items {
			ids = append(ids, item.ProductID)
		}
		var infos ozonProductInfoListResponse
		if err := p.client.doJSON(ctx, http.MethodPost, "/v3/product/info/list", p.headers(creds), ozonProductInfoListRequest{ProductID: ids}, &infos); err != nil {
			return nil, err
		}
		for _, info := range infos.Items {
			products = append(products, normalizeOzonProduct(info))
		}

		if page.Result.LastID == "" || page.Result.LastID == lastID {
			break
		}
		lastID = page.Result.LastID
	}
	return products, nil
}

func normalizeOzonProduct(info ozonProductInfo) marketplace.ImportedProduct {
	product := marketplace.ImportedProduct{
		ExternalID:  strconv.FormatInt(info.ID, 10),
		SKU:         info.OfferID,
		Title:       info.Name,
		Description: info.Description,
		Price:       parseDecimal(info.Price),
		OldPrice:    parseDecimal(info.OldPrice),
		Images:      info.Images,
	}
	if info.DescriptionCategoryID != 0 {
		product.CategoryExternalID = strconv.FormatInt(info.DescriptionCategoryID, 10)
	}
	if len(info.Barcodes) > 0 {
		product.Barcode = info.Barcodes[0]
	}
	var stock int64
	for _, s := range info.Stocks.Stocks {
		stock += s.Present
	}
	product.Stock = decimal.NewFromInt(stock)
	return product
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// PullOrders fetches FBS postings changed since the given time.
func (p *OzonProvider) PullOrders(ctx context.Context, creds marketplace.Credentials, since time.Time) ([]marketplace.RemoteOrder, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var orders []marketplace.RemoteOrder
	offset := 0
	for {
		req := ozonPostingListRequest{
			Dir: "ASC",
			Filter: ozonPostingListFilter{
				Since: since.UTC().Format(time.RFC3339),
				To:    time.Now().UTC().Format(time.RFC3339),
			},
			Limit:  ozonPageSize,
			Offset: offset,
			With:   ozonPostingListIncludes{FinancialData: true},
		}
		var page ozonPostingListResponse
		if err := p.client.doJSON(ctx, http.MethodPost, "/v3/posting/fbs/list", p.headers(creds), req, &page); err != nil {
			return nil, err
		}
		for _, posting := range page.Result.Postings {
			orders = append(orders, normalizeOzonPosting(posting))
		}
		if !page.Result.HasNext {
			break
		}
		offset += ozonPageSize
	}
	return orders, nil
}

func normalizeOzonPosting(posting ozonPosting) marketplace.RemoteOrder {
	order := marketplace.RemoteOrder{
		ExternalID:    posting.PostingNumber,
		Status:        mapOzonOrderStatus(posting.Status),
		OrderType:     marketplace.OrderTypeFBS,
		PostingNumber: posting.PostingNumber,
		AdditionalData: map[string]any{
			"order_id":     posting.OrderID,
			"order_number": posting.OrderNumber,
			"raw_status":   posting.Status,
		},
	}
	if createdAt, err := time.Parse(time.RFC3339, posting.InProcessAt); err == nil {
		order.CreatedAt = createdAt
	}
	for _, product := range posting.Products {
		price := parseDecimal(product.Price)
		quantity := decimal.NewFromInt(product.Quantity)
		order.Items = append(order.Items, marketplace.RemoteOrderItem{
			ExternalID: strconv.FormatInt(product.SKU, 10),
			SKU:        product.OfferID,
			Name:       product.Name,
			Quantity:   quantity,
			Price:      price,
		})
		order.Total = order.Total.Add(price.Mul(quantity))
		if order.Currency == "" {
			order.Currency = product.CurrencyCode
		}
	}
	return order
}

// mapOzonOrderStatus projects an Ozon posting status onto the uniform
// order lifecycle.
func mapOzonOrderStatus(status string) marketplace.OrderStatus {
	switch status {
	case "acceptance_in_progress", "awaiting_registration", "awaiting_verification":
		return marketplace.OrderStatusNew
	case "awaiting_approve":
		return marketplace.OrderStatusConfirm
	case "awaiting_packaging":
		return marketplace.OrderStatusAwaitingPackaging
	case "awaiting_deliver", "delivering", "driver_pickup":
		return marketplace.OrderStatusAwaitingDeliver
	case "delivered":
		return marketplace.OrderStatusSold
	case "cancelled":
		return marketplace.OrderStatusCanceled
	case "cancelled_by_client":
		return marketplace.OrderStatusCanceledByClient
	case "returned", "arbitration", "client_arbitration":
		return marketplace.OrderStatusReturned
	default:
		return marketplace.OrderStatusNew
	}
}

// OrderStatuses fetches current statuses per posting. Postings the
// marketplace no longer knows are omitted from the result.
func (p *OzonProvider) OrderStatuses(ctx context.Context, creds marketplace.Credentials, externalIDs []string) (map[string]marketplace.OrderStatus, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	statuses := make(map[string]marketplace.OrderStatus, len(externalIDs))
	for _, externalID := range externalIDs {
		var resp ozonPostingGetResponse
		err := p.client.doJSON(ctx, http.MethodPost, "/v3/posting/fbs/get", p.headers(creds), ozonPostingGetRequest{PostingNumber: externalID}, &resp)
		if err != nil {
			if isHTTPNotFound(err) {
				p.logger.Debug("posting not found on marketplace", zap.String("posting_number", externalID))
				continue
			}
			return nil, err
		}
		statuses[externalID] = mapOzonOrderStatus(resp.Result.Status)
	}
	return statuses, nil
}

// CancelOrder cancels one posting on the marketplace.
func (p *OzonProvider) CancelOrder(ctx context.Context, creds marketplace.Credentials, externalID string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	req := ozonCancelRequest{
		PostingNumber:       externalID,
		CancelReasonID:      ozonCancelReasonID,
		CancelReasonMessage: "canceled by seller",
	}
	var resp ozonBoolResponse
	err := p.client.doJSON(ctx, http.MethodPost, "/v2/posting/fbs/cancel", p.headers(creds), req, &resp)
	if err != nil && isHTTPNotFound(err) {
		return marketplace.ErrOrderNotFound
	}
	return err
}

// ---------------------------------------------------------------------------
// Supplies
// ---------------------------------------------------------------------------

// OpenSupply creates a carriage for the integration's delivery method.
func (p *OzonProvider) OpenSupply(ctx context.Context, creds marketplace.Credentials, orderType marketplace.OrderType) (*marketplace.RemoteSupply, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	deliveryMethodID, _ := strconv.ParseInt(creds.WarehouseID, 10, 64)
	var resp ozonCarriageResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/carriage/create", p.headers(creds), ozonCarriageCreateRequest{DeliveryMethodID: deliveryMethodID}, &resp); err != nil {
		return nil, err
	}
	supply := &marketplace.RemoteSupply{
		ExternalID: strconv.FormatInt(resp.CarriageID, 10),
		Name:       fmt.Sprintf("Carriage %d", resp.CarriageID),
		OrderType:  orderType,
	}
	if createdAt, err := time.Parse(time.RFC3339, resp.CreatedAt); err == nil {
		supply.CreatedAt = createdAt
	}
	return supply, nil
}

// CloseSupply approves a carriage, finalizing its postings.
func (p *OzonProvider) CloseSupply(ctx context.Context, creds marketplace.Credentials, supplyExternalID string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	carriageID, err := strconv.ParseInt(supplyExternalID, 10, 64)
	if err != nil {
		return marketplace.ErrSupplyNotFound
	}
	var resp ozonCarriageResponse
	err = p.client.doJSON(ctx, http.MethodPost, "/v1/carriage/approve", p.headers(creds), ozonCarriageApproveRequest{CarriageID: carriageID}, &resp)
	if err != nil && isHTTPNotFound(err) {
		return marketplace.ErrSupplyNotFound
	}
	return err
}

// Supplies lists carriages known to the marketplace.
func (p *OzonProvider) Supplies(ctx context.Context, creds marketplace.Credentials) ([]marketplace.RemoteSupply, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp ozonCarriageListResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/v1/carriage/list", p.headers(creds), struct{}{}, &resp); err != nil {
		return nil, err
	}
	supplies := make([]marketplace.RemoteSupply, 0, len(resp.Carriages))
	for _, carriage := range resp.Carriages {
		supply := marketplace.RemoteSupply{
			ExternalID: strconv.FormatInt(carriage.CarriageID, 10),
			Name:       fmt.Sprintf("Carriage %d", carriage.CarriageID),
			OrderType:  marketplace.OrderTypeFBS,
			Closed:     carriage.Status == "approved" || carriage.Status == "closed",
		}
		if createdAt, err := time.Parse(time.RFC3339, carriage.CreatedAt); err == nil {
			supply.CreatedAt = createdAt
		}
		supplies = append(supplies, supply)
	}
	return supplies, nil
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// ExportImages pushes image URLs grouped per product.
func (p *OzonProvider) ExportImages(ctx context.Context, creds marketplace.Credentials, images []marketplace.ImageExport) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(images))

	grouped := make(map[int64][]string)
	order := make([]int64, 0)
	for _, image := range images {
		productID, err := strconv.ParseInt(image.ExternalID, 10, 64)
		if err != nil {
			result.Fail(image.ExternalID, "external id is not an Ozon product id")
			continue
		}
		if _, seen := grouped[productID]; !seen {
			order = append(order, productID)
		}
		grouped[productID] = append(grouped[productID], image.URL)
	}

	for _, productID := range order {
		urls := grouped[productID]
		req := ozonPicturesImportRequest{ProductID: productID, Images: urls}
		if err := p.client.doJSON(ctx, http.MethodPost, "/v1/product/pictures/import", p.headers(creds), req, nil); err != nil {
			for range urls {
				result.Fail(strconv.FormatInt(productID, 10), err.Error())
			}
			continue
		}
		for range urls {
			result.Ok()
		}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// splitOzonCategoryID parses "category" or "category:type" composite
// external IDs.
func splitOzonCategoryID(externalID string) (categoryID, typeID int64, err error) {
	parts := strings.SplitN(externalID, ":", 2)
	categoryID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: category id %q", marketplace.ErrInvalidResponse, externalID)
	}
	if len(parts) == 2 {
		typeID, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: category id %q", marketplace.ErrInvalidResponse, externalID)
		}
	}
	return categoryID, typeID, nil
}

func joinOzonCategoryID(categoryID, typeID int64) string {
	return strconv.FormatInt(categoryID, 10) + ":" + strconv.FormatInt(typeID, 10)
}

// isHTTPNotFound reports whether an API error was an HTTP 404.
func isHTTPNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "HTTP 404")
}

// parseDecimal converts a marketplace money string, tolerating empty
// and malformed values as zero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
