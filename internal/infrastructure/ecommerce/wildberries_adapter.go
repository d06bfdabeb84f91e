package ecommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

const (
	defaultWildberriesBaseURL = "https://suppliers-api.wildberries.ru"

	// wbPageSize is the page size for card, order and goods listing calls
	wbPageSize = 100
)

// wbDirectories are the shared characteristic directories exposed by
// the content API.
var wbDirectories = []string{"colors", "kinds", "countries", "seasons", "tnved"}

// WildberriesProvider implements the marketplace provider port against
// the Wildberries supplier API. Requests authenticate with the
// Authorization header taken from per-call credentials.
type WildberriesProvider struct {
	client *apiClient
	logger *zap.Logger
}

var _ marketplace.Provider = (*WildberriesProvider)(nil)

// NewWildberriesProvider creates a Wildberries adapter from marketplace
// API settings.
func NewWildberriesProvider(cfg config.MarketplaceAPIConfig, logger *zap.Logger) *WildberriesProvider {
	api := APIConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	}
	if api.BaseURL == "" {
		api.BaseURL = defaultWildberriesBaseURL
	}
	return &WildberriesProvider{
		client: newAPIClient(api),
		logger: logger.Named("wildberries"),
	}
}

// Code returns the marketplace this provider serves.
func (p *WildberriesProvider) Code() marketplace.Code {
	return marketplace.CodeWildberries
}

func (p *WildberriesProvider) headers(creds marketplace.Credentials) map[string]string {
	return map[string]string{
		"Authorization": creds.APIKey,
	}
}

// ---------------------------------------------------------------------------
// Connection and taxonomy
// ---------------------------------------------------------------------------

// CheckConnection probes the content API with a minimal card listing
// and returns the remote catalog size.
func (p *WildberriesProvider) CheckConnection(ctx context.Context, creds marketplace.Credentials) (int, error) {
	if err := creds.Validate(); err != nil {
		return 0, err
	}
	req := wbCardsListRequest{Settings: wbCardsListSettings{
		Cursor: wbCardsCursor{Limit: 1},
		Filter: wbCardsListFilter{WithPhoto: -1},
	}}
	var resp wbCardsListResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/content/v2/get/cards/list", p.headers(creds), req, &resp); err != nil {
		return 0, err
	}
	return resp.Cursor.Total, nil
}

// CategoryAttributes fetches the characteristics of one subject. The
// external ID is the Wildberries subject ID.
func (p *WildberriesProvider) CategoryAttributes(ctx context.Context, creds marketplace.Credentials, categoryExternalID string) ([]marketplace.AttributeSchema, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if categoryExternalID == "" {
		return nil, nil
	}
	if _, err := strconv.ParseInt(categoryExternalID, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: subject id %q", marketplace.ErrInvalidResponse, categoryExternalID)
	}

	var resp wbCharcsResponse
	if err := p.client.doJSON(ctx, http.MethodGet, "/content/v2/object/charcs/"+categoryExternalID, p.headers(creds), nil, &resp); err != nil {
		return nil, err
	}

	schemas := make([]marketplace.AttributeSchema, 0, len(resp.Data))
	for _, charc := range resp.Data {
		schemas = append(schemas, marketplace.AttributeSchema{
			ExternalID:   strconv.FormatInt(charc.CharcID, 10),
			Name:         charc.Name,
			Type:         mapWBCharcType(charc.CharcType),
			Required:     charc.Required,
			Collection:   charc.MaxCount != 1,
			DictionaryID: charc.Dictionary,
		})
	}
	return schemas, nil
}

func mapWBCharcType(charcType int) string {
	switch charcType {
	case 4:
		return "number"
	default:
		return "string"
	}
}

// DictionaryValues fetches one shared characteristic directory. The
// dictionary ID is the directory name.
func (p *WildberriesProvider) DictionaryValues(ctx context.Context, creds marketplace.Credentials, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	params := url.Values{}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	path := "/content/v2/directory/" + url.PathEscape(query.DictionaryID)
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp wbDirectoryResponse
	if err := p.client.doJSON(ctx, http.MethodGet, path, p.headers(creds), nil, &resp); err != nil {
		return nil, err
	}

	values := make([]marketplace.DictionaryValue, 0, len(resp.Data))
	for _, entry := range resp.Data {
		values = append(values, marketplace.DictionaryValue{
			ExternalID: entry.Name,
			Value:      entry.Name,
			Info:       entry.ParentName,
		})
	}
	return values, nil
}

// ImportAttributes crawls parent categories, subjects and the shared
// directory list.
func (p *WildberriesProvider) ImportAttributes(ctx context.Context, creds marketplace.Credentials) ([]marketplace.DictionaryRecord, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var records []marketplace.DictionaryRecord

	var parents wbParentsResponse
	if err := p.client.doJSON(ctx, http.MethodGet, "/content/v2/object/parent/all", p.headers(creds), nil, &parents); err != nil {
		return nil, err
	}
	for _, parent := range parents.Data {
		records = append(records, marketplace.DictionaryRecord{
			Kind:       marketplace.DictionaryKindCategory,
			ExternalID: strconv.FormatInt(parent.ID, 10),
			Name:       parent.Name,
		})
	}

	offset := 0
	for {
		path := fmt.Sprintf("/content/v2/object/all?limit=%d&offset=%d", 1000, offset)
		var subjects wbSubjectsResponse
		if err := p.client.doJSON(ctx, http.MethodGet, path, p.headers(creds), nil, &subjects); err != nil {
			return nil, err
		}
		if len(subjects.Data) == 0 {
			break
		}
		for _, subject := range subjects.Data {
			records = append(records, marketplace.DictionaryRecord{
				Kind:             marketplace.DictionaryKindCategory,
				ExternalID:       strconv.FormatInt(subject.SubjectID, 10),
				ParentExternalID: strconv.FormatInt(subject.ParentID, 10),
				Name:             subject.SubjectName,
			})
		}
		offset += len(subjects.Data)
	}

	for _, directory := range wbDirectories {
		records = append(records, marketplace.DictionaryRecord{
			Kind:       marketplace.DictionaryKindDictionary,
			ExternalID: directory,
			Name:       directory,
		})
	}
	return records, nil
}

// Warehouses enumerates seller FBS warehouses.
func (p *WildberriesProvider) Warehouses(ctx context.Context, creds marketplace.Credentials) ([]marketplace.Warehouse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp wbWarehousesResponse
	if err := p.client.doJSON(ctx, http.MethodGet, "/api/v3/warehouses", p.headers(creds), nil, &resp); err != nil {
		return nil, err
	}
	warehouses := make([]marketplace.Warehouse, 0, len(resp))
	for _, w := range resp {
		warehouses = append(warehouses, marketplace.Warehouse{
			ExternalID: strconv.FormatInt(w.ID, 10),
			Name:       w.Name,
			IsFBS:      true,
		})
	}
	return warehouses, nil
}

// ---------------------------------------------------------------------------
// Catalog export
// ---------------------------------------------------------------------------

// ExportProducts uploads product cards. The upload is synchronous on
// the Wildberries side, card validation errors surface later through
// the error list polled by ExportStatus.
func (p *WildberriesProvider) ExportProducts(ctx context.Context, creds marketplace.Credentials, products []marketplace.ProductExport) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(products))
	if len(products) == 0 {
		return result, nil
	}

	req := make(wbCardsUploadRequest, 0, len(products))
	for _, product := range products {
		card, err := wbUploadCard(product)
		if err != nil {
			result.Fail(product.SKU, err.Error())
			continue
		}
		req = append(req, card)
	}
	if len(req) == 0 {
		return result, nil
	}

	if err := p.client.doJSON(ctx, http.MethodPost, "/content/v2/cards/upload", p.headers(creds), req, nil); err != nil {
		return nil, err
	}
	result.Succeeded = len(req)
	return result, nil
}

// wbUploadCard projects one product export onto a card upload.
func wbUploadCard(product marketplace.ProductExport) (wbCardUpload, error) {
	subjectID, err := strconv.ParseInt(product.CategoryExternalID, 10, 64)
	if err != nil {
		return wbCardUpload{}, fmt.Errorf("subject id %q is not mapped", product.CategoryExternalID)
	}

	characteristics := make([]wbCharacteristic, 0, len(product.Attributes))
	for _, attr := range product.Attributes {
		id, err := strconv.ParseInt(attr.AttributeExternalID, 10, 64)
		if err != nil {
			continue
		}
		characteristics = append(characteristics, wbCharacteristic{ID: id, Value: attr.Value})
	}

	variant := wbUploadVariant{
		VendorCode:      product.SKU,
		Title:           product.Title,
		Description:     product.Description,
		Characteristics: characteristics,
	}
	if len(product.Variations) == 0 {
		variant.Sizes = []wbUploadSize{{
			Price: product.Price.Round(0).IntPart(),
			Skus:  []string{product.Barcode},
		}}
	} else {
		for _, variation := range product.Variations {
			variant.Sizes = append(variant.Sizes, wbUploadSize{
				TechSize: variation.VendorCode,
				Price:    variation.Price.Round(0).IntPart(),
				Skus:     []string{variation.Barcode},
			})
		}
	}
	return wbCardUpload{SubjectID: subjectID, Variants: []wbUploadVariant{variant}}, nil
}

// ExportStatus reports card validation errors accumulated since the
// upload. Wildberries has no per-upload task handle, so the task ID is
// echoed back and the error list stands for the whole account.
func (p *WildberriesProvider) ExportStatus(ctx context.Context, creds marketplace.Credentials, taskID string) (*marketplace.ExportInfo, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp wbErrorListResponse
	if err := p.client.doJSON(ctx, http.MethodGet, "/content/v2/cards/error/list", p.headers(creds), nil, &resp); err != nil {
		return nil, err
	}
	info := &marketplace.ExportInfo{TaskID: taskID, Done: true}
	var logs []string
	for _, entry := range resp.Data {
		info.HasError = true
		logs = append(logs, fmt.Sprintf("%s: %s", entry.VendorCode, strings.Join(entry.Errors, "; ")))
	}
	info.Log = strings.Join(logs, "\n")
	if !info.HasError {
		info.Result = "uploaded"
	}
	return info, nil
}

// SetListingVisibility moves cards to or out of the trash.
func (p *WildberriesProvider) SetListingVisibility(ctx context.Context, creds marketplace.Credentials, refs []marketplace.ListingRef, visible bool) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := strconv.ParseInt(ref.ExternalID, 10, 64)
		if err != nil {
			result.Fail(ref.ExternalID, "external id is not a Wildberries nomenclature id")
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return result, nil
	}

	path := "/content/v2/cards/delete/trash"
	if visible {
		path = "/content/v2/cards/recover"
	}
	if err := p.client.doJSON(ctx, http.MethodPost, path, p.headers(creds), wbTrashRequest{NmIDs: ids}, nil); err != nil {
		return nil, err
	}
	result.Succeeded = len(ids)
	return result, nil
}

// ---------------------------------------------------------------------------
// Prices and stocks
// ---------------------------------------------------------------------------

// UpdatePrices submits one discounts-prices task for the batch.
func (p *WildberriesProvider) UpdatePrices(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(items))
	req := wbPricesUploadRequest{}
	for _, item := range items {
		nmID, err := strconv.ParseInt(item.ExternalID, 10, 64)
		if err != nil {
			result.Fail(item.ExternalID, "external id is not a Wildberries nomenclature id")
			continue
		}
		price := wbPriceItem{NmID: nmID, Price: item.Price.Round(0).IntPart()}
		if item.OldPrice.IsPositive() && item.OldPrice.GreaterThan(item.Price) {
			discount := item.OldPrice.Sub(item.Price).Div(item.OldPrice).Mul(decimal.NewFromInt(100))
			price.Price = item.OldPrice.Round(0).IntPart()
			price.Discount = int(discount.Round(0).IntPart())
		}
		req.Data = append(req.Data, price)
	}
	if len(req.Data) == 0 {
		return result, nil
	}

	var resp wbPricesUploadResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/api/v2/upload/task", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}
	result.Succeeded = len(req.Data)
	result.TaskID = strconv.FormatInt(resp.Data.ID, 10)
	return result, nil
}

// UpdateStocks pushes stock amounts grouped per warehouse. Stock is
// keyed by barcode on Wildberries.
func (p *WildberriesProvider) UpdateStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(items))

	grouped := make(map[string][]wbStockItem)
	warehouses := make([]string, 0)
	for _, item := range items {
		warehouseID := item.WarehouseID
		if warehouseID == "" {
			warehouseID = creds.WarehouseID
		}
		if warehouseID == "" {
			result.Fail(item.ExternalID, "no warehouse configured for stock update")
			continue
		}
		sku := item.VendorCode
		if sku == "" {
			sku = item.ExternalID
		}
		if _, seen := grouped[warehouseID]; !seen {
			warehouses = append(warehouses, warehouseID)
		}
		grouped[warehouseID] = append(grouped[warehouseID], wbStockItem{
			Sku:    sku,
			Amount: item.Stock.IntPart(),
		})
	}

	for _, warehouseID := range warehouses {
		stocks := grouped[warehouseID]
		path := "/api/v3/stocks/" + url.PathEscape(warehouseID)
		if err := p.client.doJSON(ctx, http.MethodPut, path, p.headers(creds), wbStocksRequest{Stocks: stocks}, nil); err != nil {
			for _, stock := range stocks {
				result.Fail(stock.Sku, err.Error())
			}
			continue
		}
		for range stocks {
			result.Ok()
		}
	}
	return result, nil
}

// UpdatePricesAndStocks pushes both deltas, prices first.
func (p *WildberriesProvider) UpdatePricesAndStocks(ctx context.Context, creds marketplace.Credentials, items []marketplace.PriceStockUpdate) (*marketplace.BatchResult, error) {
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

// ---------------------------------------------------------------------------
// Catalog import
// ---------------------------------------------------------------------------

// ImportProducts pages through the card catalog and joins prices from
// the discounts-prices listing. Card sizes become variations.
func (p *WildberriesProvider) ImportProducts(ctx context.Context, creds marketplace.Credentials) ([]marketplace.ImportedProduct, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	prices, err := p.fetchPrices(ctx, creds)
	if err != nil {
		return nil, err
	}

	var products []marketplace.ImportedProduct
	cursor := wbCardsCursor{Limit: wbPageSize}
	for {
		req := wbCardsListRequest{Settings: wbCardsListSettings{
			Cursor: cursor,
			Filter: wbCardsListFilter{WithPhoto: -1},
		}}
		var page wbCardsListResponse
		if err := p.client.doJSON(ctx, http.MethodPost, "/content/v2/get/cards/list", p.headers(creds), req, &page); err != nil {
			return nil, err
		}
		if len(page.Cards) == 0 {
			break
		}
		for _, card := range page.Cards {
			products = append(products, normalizeWBCard(card, prices[card.NmID]))
		}
		if len(page.Cards) < wbPageSize {
			break
		}
		cursor.UpdatedAt = page.Cursor.UpdatedAt
		cursor.NmID = page.Cursor.NmID
	}
	return products, nil
}

// fetchPrices pages the goods listing into an nmID to price map.
func (p *WildberriesProvider) fetchPrices(ctx context.Context, creds marketplace.Credentials) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal)
	offset := 0
	for {
		path := fmt.Sprintf("/api/v2/list/goods/filter?limit=%d&offset=%d", 1000, offset)
		var page wbGoodsListResponse
		if err := p.client.doJSON(ctx, http.MethodGet, path, p.headers(creds), nil, &page); err != nil {
			return nil, err
		}
		if len(page.Data.ListGoods) == 0 {
			break
		}
		for _, goods := range page.Data.ListGoods {
			if len(goods.Sizes) > 0 {
				prices[goods.NmID] = decimal.NewFromFloat(goods.Sizes[0].DiscountedPrice)
			}
		}
		offset += len(page.Data.ListGoods)
	}
	return prices, nil
}

func normalizeWBCard(card wbCard, price decimal.Decimal) marketplace.ImportedProduct {
	product := marketplace.ImportedProduct{
		ExternalID:         strconv.FormatInt(card.NmID, 10),
		SKU:                card.VendorCode,
		Title:              card.Title,
		Description:        card.Description,
		CategoryExternalID: strconv.FormatInt(card.SubjectID, 10),
		CategoryName:       card.SubjectName,
		Price:              price,
	}
	for _, photo := range card.Photos {
		if photo.Big != "" {
			product.Images = append(product.Images, photo.Big)
		}
	}
	for _, size := range card.Sizes {
		variation := marketplace.ImportedVariation{
			ExternalID: strconv.FormatInt(size.ChrtID, 10),
			VendorCode: size.TechSize,
			Price:      price,
		}
		if len(size.Skus) > 0 {
			variation.Barcode = size.Skus[0]
			if product.Barcode == "" {
				product.Barcode = size.Skus[0]
			}
		}
		product.Variations = append(product.Variations, variation)
	}
	return product
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// PullOrders fetches FBS orders created since the given time, then
// joins their current statuses in one batch call.
func (p *WildberriesProvider) PullOrders(ctx context.Context, creds marketplace.Credentials, since time.Time) ([]marketplace.RemoteOrder, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var raw []wbOrder
	next := int64(0)
	for {
		path := fmt.Sprintf("/api/v3/orders?limit=%d&next=%d&dateFrom=%d", wbPageSize, next, since.Unix())
		var page wbOrdersResponse
		if err := p.client.doJSON(ctx, http.MethodGet, path, p.headers(creds), nil, &page); err != nil {
			return nil, err
		}
		raw = append(raw, page.Orders...)
		if page.Next == 0 || len(page.Orders) == 0 {
			break
		}
		next = page.Next
	}
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(raw))
	for _, order := range raw {
		ids = append(ids, strconv.FormatInt(order.ID, 10))
	}
	statuses, err := p.OrderStatuses(ctx, creds, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]marketplace.RemoteOrder, 0, len(raw))
	for _, order := range raw {
		externalID := strconv.FormatInt(order.ID, 10)
		remote := normalizeWBOrder(order)
		if status, ok := statuses[externalID]; ok {
			remote.Status = status
		}
		orders = append(orders, remote)
	}
	return orders, nil
}

func normalizeWBOrder(order wbOrder) marketplace.RemoteOrder {
	externalID := strconv.FormatInt(order.ID, 10)
	price := decimal.New(order.Price, -2)
	remote := marketplace.RemoteOrder{
		ExternalID:    externalID,
		Status:        marketplace.OrderStatusNew,
		OrderType:     marketplace.OrderTypeFBS,
		PostingNumber: order.Rid,
		Total:         price,
		Currency:      mapWBCurrency(order.CurrencyCode),
		AdditionalData: map[string]any{
			"rid":   order.Rid,
			"nm_id": order.NmID,
		},
	}
	if order.SupplyID != "" {
		remote.AdditionalData["supply_id"] = order.SupplyID
	}
	if createdAt, err := time.Parse(time.RFC3339, order.CreatedAt); err == nil {
		remote.CreatedAt = createdAt
	}

	item := marketplace.RemoteOrderItem{
		ExternalID: strconv.FormatInt(order.NmID, 10),
		SKU:        order.Article,
		Name:       order.Article,
		Quantity:   decimal.NewFromInt(1),
		Price:      price,
	}
	if len(order.Skus) > 0 {
		item.ExternalID = order.Skus[0]
	}
	remote.Items = []marketplace.RemoteOrderItem{item}
	return remote
}

func mapWBCurrency(code int) string {
	switch code {
	case 643:
		return "RUB"
	case 933:
		return "BYN"
	case 398:
		return "KZT"
	default:
		return ""
	}
}

// OrderStatuses fetches current statuses in one batch call. Orders the
// marketplace no longer reports are omitted from the result.
func (p *WildberriesProvider) OrderStatuses(ctx context.Context, creds marketplace.Credentials, externalIDs []string) (map[string]marketplace.OrderStatus, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	statuses := make(map[string]marketplace.OrderStatus, len(externalIDs))
	req := wbOrderStatusRequest{}
	for _, externalID := range externalIDs {
		id, err := strconv.ParseInt(externalID, 10, 64)
		if err != nil {
			p.logger.Debug("skipping non-numeric order id", zap.String("external_id", externalID))
			continue
		}
		req.Orders = append(req.Orders, id)
	}
	if len(req.Orders) == 0 {
		return statuses, nil
	}

	var resp wbOrderStatusResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/api/v3/orders/status", p.headers(creds), req, &resp); err != nil {
		return nil, err
	}
	for _, order := range resp.Orders {
		statuses[strconv.FormatInt(order.ID, 10)] = mapWBOrderStatus(order.SupplierStatus, order.WbStatus)
	}
	return statuses, nil
}

// mapWBOrderStatus projects the supplier and marketplace status pair
// onto the uniform order lifecycle. The marketplace status wins once
// the order leaves the seller's hands.
func mapWBOrderStatus(supplierStatus, wbStatus string) marketplace.OrderStatus {
	switch wbStatus {
	case "sold":
		return marketplace.OrderStatusSold
	case "canceled":
		return marketplace.OrderStatusCanceled
	case "canceled_by_client", "declined_by_client":
		return marketplace.OrderStatusCanceledByClient
	case "defect", "returned":
		return marketplace.OrderStatusReturned
	case "sorted", "ready_for_pickup":
		return marketplace.OrderStatusAwaitingDeliver
	}
	switch supplierStatus {
	case "new":
		return marketplace.OrderStatusNew
	case "confirm":
		return marketplace.OrderStatusConfirm
	case "complete":
		return marketplace.OrderStatusAwaitingDeliver
	case "cancel":
		return marketplace.OrderStatusCanceled
	default:
		return marketplace.OrderStatusNew
	}
}

// CancelOrder cancels one order on the marketplace.
func (p *WildberriesProvider) CancelOrder(ctx context.Context, creds marketplace.Credentials, externalID string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(externalID, 10, 64); err != nil {
		return marketplace.ErrOrderNotFound
	}
	err := p.client.doJSON(ctx, http.MethodPatch, "/api/v3/orders/"+externalID+"/cancel", p.headers(creds), nil, nil)
	if err != nil && isHTTPNotFound(err) {
		return marketplace.ErrOrderNotFound
	}
	return err
}

// ---------------------------------------------------------------------------
// Supplies
// ---------------------------------------------------------------------------

// OpenSupply creates a named FBS supply.
func (p *WildberriesProvider) OpenSupply(ctx context.Context, creds marketplace.Credentials, orderType marketplace.OrderType) (*marketplace.RemoteSupply, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("Supply %s", time.Now().UTC().Format("2006-01-02 15:04"))
	var resp wbSupplyCreateResponse
	if err := p.client.doJSON(ctx, http.MethodPost, "/api/v3/supplies", p.headers(creds), wbSupplyCreateRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &marketplace.RemoteSupply{
		ExternalID: resp.ID,
		Name:       name,
		OrderType:  orderType,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// CloseSupply hands a supply over to delivery. Irreversible.
func (p *WildberriesProvider) CloseSupply(ctx context.Context, creds marketplace.Credentials, supplyExternalID string) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	path := "/api/v3/supplies/" + url.PathEscape(supplyExternalID) + "/deliver"
	err := p.client.doJSON(ctx, http.MethodPatch, path, p.headers(creds), nil, nil)
	if err != nil && isHTTPNotFound(err) {
		return marketplace.ErrSupplyNotFound
	}
	return err
}

// Supplies pages through supplies known to the marketplace.
func (p *WildberriesProvider) Supplies(ctx context.Context, creds marketplace.Credentials) ([]marketplace.RemoteSupply, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var supplies []marketplace.RemoteSupply
	next := int64(0)
	for {
		path := fmt.Sprintf("/api/v3/supplies?limit=%d&next=%d", 1000, next)
		var page wbSuppliesResponse
		if err := p.client.doJSON(ctx, http.MethodGet, path, p.headers(creds), nil, &page); err != nil {
			return nil, err
		}
		for _, supply := range page.Supplies {
			remote := marketplace.RemoteSupply{
				ExternalID: supply.ID,
				Name:       supply.Name,
				OrderType:  marketplace.OrderTypeFBS,
				Closed:     supply.Done,
			}
			if createdAt, err := time.Parse(time.RFC3339, supply.CreatedAt); err == nil {
				remote.CreatedAt = createdAt
			}
			supplies = append(supplies, remote)
		}
		if page.Next == 0 || len(page.Supplies) == 0 {
			break
		}
		next = page.Next
	}
	return supplies, nil
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// ExportImages saves image URLs grouped per nomenclature.
func (p *WildberriesProvider) ExportImages(ctx context.Context, creds marketplace.Credentials, images []marketplace.ImageExport) (*marketplace.BatchResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	result := marketplace.NewBatchResult(len(images))

	grouped := make(map[int64][]string)
	order := make([]int64, 0)
	for _, image := range images {
		nmID, err := strconv.ParseInt(image.ExternalID, 10, 64)
		if err != nil {
			result.Fail(image.ExternalID, "external id is not a Wildberries nomenclature id")
			continue
		}
		if _, seen := grouped[nmID]; !seen {
			order = append(order, nmID)
		}
		grouped[nmID] = append(grouped[nmID], image.URL)
	}

	for _, nmID := range order {
		urls := grouped[nmID]
		req := wbMediaSaveRequest{NmID: nmID, Data: urls}
		if err := p.client.doJSON(ctx, http.MethodPost, "/content/v3/media/save", p.headers(creds), req, nil); err != nil {
			for range urls {
				result.Fail(strconv.FormatInt(nmID, 10), err.Error())
			}
			continue
		}
		for range urls {
			result.Ok()
		}
	}
	return result, nil
}
