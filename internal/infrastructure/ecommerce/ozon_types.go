package ecommerce

// ---------------------------------------------------------------------------
// Product types
// ---------------------------------------------------------------------------

// ozonProductListRequest is the request for /v3/product/list
type ozonProductListRequest struct {
	Filter ozonProductListFilter `json:"filter"`
	LastID string                `json:"last_id,omitempty"`
	Limit  int                   `json:"limit"`
}

type ozonProductListFilter struct {
	Visibility string `json:"visibility,omitempty"`
}

// ozonProductListResponse is the response for /v3/product/list
type ozonProductListResponse struct {
	Result struct {
		Items []struct {
			ProductID int64  `json:"product_id"`
			OfferID   string `json:"offer_id"`
		} `json:"items"`
		Total  int    `json:"total"`
		LastID string `json:"last_id"`
	} `json:"result"`
}

// ozonProductInfoListRequest is the request for /v3/product/info/list
type ozonProductInfoListRequest struct {
	ProductID []int64 `json:"product_id"`
}

// ozonProductInfoListResponse is the response for /v3/product/info/list
type ozonProductInfoListResponse struct {
	Items []ozonProductInfo `json:"items"`
}

// ozonProductInfo is one product card as returned by Ozon
type ozonProductInfo struct {
	ID                    int64    `json:"id"`
	OfferID               string   `json:"offer_id"`
	Barcodes              []string `json:"barcodes"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	DescriptionCategoryID int64    `json:"description_category_id"`
	Price                 string   `json:"price"`
	OldPrice              string   `json:"old_price"`
	Images                []string `json:"images"`
	Stocks                struct {
		Stocks []struct {
			Present int64  `json:"present"`
			Type    string `json:"type"`
		} `json:"stocks"`
	} `json:"stocks"`
}

// ozonProductImportRequest is the request for /v3/product/import
type ozonProductImportRequest struct {
	Items []ozonProductImportItem `json:"items"`
}

type ozonProductImportItem struct {
	OfferID               string              `json:"offer_id"`
	Name                  string              `json:"name"`
	Description           string              `json:"description,omitempty"`
	Barcode               string              `json:"barcode,omitempty"`
	DescriptionCategoryID int64               `json:"description_category_id,omitempty"`
	Price                 string              `json:"price"`
	OldPrice              string              `json:"old_price,omitempty"`
	Images                []string            `json:"images,omitempty"`
	Attributes            []ozonItemAttribute `json:"attributes,omitempty"`
}

type ozonItemAttribute struct {
	ID     int64               `json:"id"`
	Values []ozonItemAttrValue `json:"values"`
}

type ozonItemAttrValue struct {
	DictionaryValueID int64  `json:"dictionary_value_id,omitempty"`
	Value             string `json:"value"`
}

// ozonProductImportResponse is the response for /v3/product/import
type ozonProductImportResponse struct {
	Result struct {
		TaskID int64 `json:"task_id"`
	} `json:"result"`
}

// ozonImportInfoRequest is the request for /v1/product/import/info
type ozonImportInfoRequest struct {
	TaskID int64 `json:"task_id"`
}

// ozonImportInfoResponse is the response for /v1/product/import/info
type ozonImportInfoResponse struct {
	Result struct {
		Items []struct {
			OfferID   string   `json:"offer_id"`
			ProductID int64    `json:"product_id"`
			Status    string   `json:"status"`
			Errors    []string `json:"errors"`
		} `json:"items"`
		Total int `json:"total"`
	} `json:"result"`
}

// ozonArchiveRequest is the request for /v1/product/archive and unarchive
type ozonArchiveRequest struct {
	ProductID []int64 `json:"product_id"`
}

type ozonBoolResponse struct {
	Result bool `json:"result"`
}

// ozonPicturesImportRequest is the request for /v1/product/pictures/import
type ozonPicturesImportRequest struct {
	ProductID int64    `json:"product_id"`
	Images    []string `json:"images"`
}

// ---------------------------------------------------------------------------
// Price and stock types
// ---------------------------------------------------------------------------

// ozonImportPricesRequest is the request for /v1/product/import/prices
type ozonImportPricesRequest struct {
	Prices []ozonPriceItem `json:"prices"`
}

type ozonPriceItem struct {
	OfferID  string `json:"offer_id"`
	Price    string `json:"price"`
	OldPrice string `json:"old_price,omitempty"`
}

// ozonImportPricesResponse is the response for /v1/product/import/prices
type ozonImportPricesResponse struct {
	Result []ozonItemResult `json:"result"`
}

// ozonStocksRequest is the request for /v2/products/stocks
type ozonStocksRequest struct {
	Stocks []ozonStockItem `json:"stocks"`
}

type ozonStockItem struct {
	OfferID     string `json:"offer_id"`
	Stock       int64  `json:"stock"`
	WarehouseID int64  `json:"warehouse_id,omitempty"`
}

// ozonStocksResponse is the response for /v2/products/stocks
type ozonStocksResponse struct {
	Result []ozonItemResult `json:"result"`
}

// ozonItemResult is the per-item outcome of a price/stock update
type ozonItemResult struct {
	OfferID string `json:"offer_id"`
	Updated bool   `json:"updated"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ---------------------------------------------------------------------------
// Taxonomy types
// ---------------------------------------------------------------------------

// ozonCategoryTreeResponse is the response for /v1/description-category/tree
type ozonCategoryTreeResponse struct {
	Result []ozonCategoryNode `json:"result"`
}

type ozonCategoryNode struct {
	DescriptionCategoryID int64              `json:"description_category_id"`
	CategoryName          string             `json:"category_name"`
	TypeID                int64              `json:"type_id"`
	TypeName              string             `json:"type_name"`
	Children              []ozonCategoryNode `json:"children"`
}

// ozonAttributesRequest is the request for /v1/description-category/attribute
type ozonAttributesRequest struct {
	DescriptionCategoryID int64 `json:"description_category_id"`
	TypeID                int64 `json:"type_id,omitempty"`
}

// ozonAttributesResponse is the response for /v1/description-category/attribute
type ozonAttributesResponse struct {
	Result []ozonAttribute `json:"result"`
}

type ozonAttribute struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsRequired   bool   `json:"is_required"`
	IsCollection bool   `json:"is_collection"`
	DictionaryID int64  `json:"dictionary_id"`
}

// ozonAttributeValuesRequest is the request for /v1/description-category/attribute/values
type ozonAttributeValuesRequest struct {
	DescriptionCategoryID int64  `json:"description_category_id,omitempty"`
	AttributeID           int64  `json:"attribute_id"`
	Limit                 int    `json:"limit"`
	LastValueID           int64  `json:"last_value_id,omitempty"`
	Query                 string `json:"query,omitempty"`
}

// ozonAttributeValuesResponse is the response for /v1/description-category/attribute/values
type ozonAttributeValuesResponse struct {
	Result []struct {
		ID    int64  `json:"id"`
		Value string `json:"value"`
		Info  string `json:"info"`
	} `json:"result"`
	HasNext bool `json:"has_next"`
}

// ---------------------------------------------------------------------------
// Warehouse types
// ---------------------------------------------------------------------------

// ozonWarehouseListResponse is the response for /v1/warehouse/list
type ozonWarehouseListResponse struct {
	Result []struct {
		WarehouseID int64  `json:"warehouse_id"`
		Name        string `json:"name"`
		IsRFBS      bool   `json:"is_rfbs"`
	} `json:"result"`
}

// ---------------------------------------------------------------------------
// Order types
// ---------------------------------------------------------------------------

// ozonPostingListRequest is the request for /v3/posting/fbs/list
type ozonPostingListRequest struct {
	Dir    string                  `json:"dir"`
	Filter ozonPostingListFilter   `json:"filter"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	With   ozonPostingListIncludes `json:"with"`
}

type ozonPostingListFilter struct {
	Since string `json:"since"`
	To    string `json:"to"`
}

type ozonPostingListIncludes struct {
	FinancialData bool `json:"financial_data"`
}

// ozonPostingListResponse is the response for /v3/posting/fbs/list
type ozonPostingListResponse struct {
	Result struct {
		Postings []ozonPosting `json:"postings"`
		HasNext  bool          `json:"has_next"`
	} `json:"result"`
}

// ozonPosting is one FBS posting
type ozonPosting struct {
	PostingNumber string `json:"posting_number"`
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	InProcessAt   string `json:"in_process_at"`
	Products      []struct {
		SKU          int64  `json:"sku"`
		OfferID      string `json:"offer_id"`
		Name         string `json:"name"`
		Quantity     int64  `json:"quantity"`
		Price        string `json:"price"`
		CurrencyCode string `json:"currency_code"`
	} `json:"products"`
}

// ozonPostingGetRequest is the request for /v3/posting/fbs/get
type ozonPostingGetRequest struct {
	PostingNumber string `json:"posting_number"`
}

// ozonPostingGetResponse is the response for /v3/posting/fbs/get
type ozonPostingGetResponse struct {
	Result ozonPosting `json:"result"`
}

// ozonCancelRequest is the request for /v2/posting/fbs/cancel
type ozonCancelRequest struct {
	PostingNumber       string `json:"posting_number"`
	CancelReasonID      int64  `json:"cancel_reason_id"`
	CancelReasonMessage string `json:"cancel_reason_message,omitempty"`
}

// ---------------------------------------------------------------------------
// Carriage (supply) types
// ---------------------------------------------------------------------------

// ozonCarriageCreateRequest is the request for /v1/carriage/create
type ozonCarriageCreateRequest struct {
	DeliveryMethodID int64 `json:"delivery_method_id"`
}

// ozonCarriageResponse describes one carriage
type ozonCarriageResponse struct {
	CarriageID int64  `json:"carriage_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// ozonCarriageApproveRequest is the request for /v1/carriage/approve
type ozonCarriageApproveRequest struct {
	CarriageID int64 `json:"carriage_id"`
}

// ozonCarriageListResponse is the response for /v1/carriage/list
type ozonCarriageListResponse struct {
	Carriages []ozonCarriageResponse `json:"carriages"`
}
