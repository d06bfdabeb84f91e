package ecommerce

// ---------------------------------------------------------------------------
// Content (card) types
// ---------------------------------------------------------------------------

// wbCardsListRequest is the request for /content/v2/get/cards/list
type wbCardsListRequest struct {
	Settings wbCardsListSettings `json:"settings"`
}

type wbCardsListSettings struct {
	Cursor wbCardsCursor     `json:"cursor"`
	Filter wbCardsListFilter `json:"filter"`
}

type wbCardsCursor struct {
	Limit     int    `json:"limit"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	NmID      int64  `json:"nmID,omitempty"`
}

type wbCardsListFilter struct {
	WithPhoto int `json:"withPhoto"`
}

// wbCardsListResponse is the response for /content/v2/get/cards/list
type wbCardsListResponse struct {
	Cards  []wbCard `json:"cards"`
	Cursor struct {
		UpdatedAt string `json:"updatedAt"`
		NmID      int64  `json:"nmID"`
		Total     int    `json:"total"`
	} `json:"cursor"`
}

// wbCard is one nomenclature card
type wbCard struct {
	NmID        int64  `json:"nmID"`
	VendorCode  string `json:"vendorCode"`
	SubjectID   int64  `json:"subjectID"`
	SubjectName string `json:"subjectName"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Photos      []struct {
		Big string `json:"big"`
	} `json:"photos"`
	Sizes []wbCardSize `json:"sizes"`
}

type wbCardSize struct {
	ChrtID   int64    `json:"chrtID"`
	TechSize string   `json:"techSize"`
	WbSize   string   `json:"wbSize"`
	Skus     []string `json:"skus"`
}

// wbCardsUploadRequest is the request for /content/v2/cards/upload
type wbCardsUploadRequest []wbCardUpload

type wbCardUpload struct {
	SubjectID int64             `json:"subjectID"`
	Variants  []wbUploadVariant `json:"variants"`
}

type wbUploadVariant struct {
	VendorCode      string             `json:"vendorCode"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Characteristics []wbCharacteristic `json:"characteristics,omitempty"`
	Sizes           []wbUploadSize     `json:"sizes"`
}

type wbCharacteristic struct {
	ID    int64 `json:"id"`
	Value any   `json:"value"`
}

type wbUploadSize struct {
	TechSize string   `json:"techSize,omitempty"`
	Price    int64    `json:"price"`
	Skus     []string `json:"skus"`
}

// wbErrorListResponse is the response for /content/v2/cards/error/list
type wbErrorListResponse struct {
	Data []struct {
		VendorCode string   `json:"vendorCode"`
		Errors     []string `json:"errors"`
	} `json:"data"`
}

// wbTrashRequest is the request for card trash and recover calls
type wbTrashRequest struct {
	NmIDs []int64 `json:"nmIDs"`
}

// wbMediaSaveRequest is the request for /content/v3/media/save
type wbMediaSaveRequest struct {
	NmID int64    `json:"nmId"`
	Data []string `json:"data"`
}

// ---------------------------------------------------------------------------
// Taxonomy types
// ---------------------------------------------------------------------------

// wbParentsResponse is the response for /content/v2/object/parent/all
type wbParentsResponse struct {
	Data []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// wbSubjectsResponse is the response for /content/v2/object/all
type wbSubjectsResponse struct {
	Data []struct {
		SubjectID   int64  `json:"subjectID"`
		ParentID    int64  `json:"parentID"`
		SubjectName string `json:"subjectName"`
		ParentName  string `json:"parentName"`
	} `json:"data"`
}

// wbCharcsResponse is the response for /content/v2/object/charcs/{subjectID}
type wbCharcsResponse struct {
	Data []struct {
		CharcID   int64  `json:"charcID"`
		Name      string `json:"name"`
		Required  bool   `json:"required"`
		UnitName  string `json:"unitName"`
		MaxCount  int    `json:"maxCount"`
		CharcType int    `json:"charcType"`
		// Dictionary names the shared directory backing this
		// characteristic, empty for free-form values.
		Dictionary string `json:"dictionary"`
	} `json:"data"`
}

// wbDirectoryResponse is the response for /content/v2/directory/{name}
type wbDirectoryResponse struct {
	Data []struct {
		Name       string `json:"name"`
		ParentName string `json:"parentName"`
	} `json:"data"`
}

// ---------------------------------------------------------------------------
// Price and stock types
// ---------------------------------------------------------------------------

// wbPricesUploadRequest is the request for /api/v2/upload/task
type wbPricesUploadRequest struct {
	Data []wbPriceItem `json:"data"`
}

type wbPriceItem struct {
	NmID     int64 `json:"nmID"`
	Price    int64 `json:"price"`
	Discount int   `json:"discount"`
}

// wbPricesUploadResponse is the response for /api/v2/upload/task
type wbPricesUploadResponse struct {
	Data struct {
		ID            int64 `json:"id"`
		AlreadyExists bool  `json:"alreadyExists"`
	} `json:"data"`
}

// wbGoodsListResponse is the response for /api/v2/list/goods/filter
type wbGoodsListResponse struct {
	Data struct {
		ListGoods []struct {
			NmID  int64 `json:"nmID"`
			Sizes []struct {
				Price           int64   `json:"price"`
				DiscountedPrice float64 `json:"discountedPrice"`
			} `json:"sizes"`
		} `json:"listGoods"`
	} `json:"data"`
}

// wbStocksRequest is the request for /api/v3/stocks/{warehouseID}
type wbStocksRequest struct {
	Stocks []wbStockItem `json:"stocks"`
}

type wbStockItem struct {
	Sku    string `json:"sku"`
	Amount int64  `json:"amount"`
}

// wbWarehousesResponse is the response for /api/v3/warehouses
type wbWarehousesResponse []struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ---------------------------------------------------------------------------
// Order types
// ---------------------------------------------------------------------------

// wbOrdersResponse is the response for /api/v3/orders
type wbOrdersResponse struct {
	Next   int64     `json:"next"`
	Orders []wbOrder `json:"orders"`
}

// wbOrder is one FBS order. Price is in kopecks.
type wbOrder struct {
	ID           int64    `json:"id"`
	Rid          string   `json:"rid"`
	NmID         int64    `json:"nmId"`
	Article      string   `json:"article"`
	CreatedAt    string   `json:"createdAt"`
	Skus         []string `json:"skus"`
	Price        int64    `json:"price"`
	CurrencyCode int      `json:"currencyCode"`
	SupplyID     string   `json:"supplyId"`
}

// wbOrderStatusRequest is the request for /api/v3/orders/status
type wbOrderStatusRequest struct {
	Orders []int64 `json:"orders"`
}

// wbOrderStatusResponse is the response for /api/v3/orders/status
type wbOrderStatusResponse struct {
	Orders []struct {
		ID             int64  `json:"id"`
		SupplierStatus string `json:"supplierStatus"`
		WbStatus       string `json:"wbStatus"`
	} `json:"orders"`
}

// ---------------------------------------------------------------------------
// Supply types
// ---------------------------------------------------------------------------

// wbSupplyCreateRequest is the request for /api/v3/supplies
type wbSupplyCreateRequest struct {
	Name string `json:"name"`
}

// wbSupplyCreateResponse is the response for /api/v3/supplies
type wbSupplyCreateResponse struct {
	ID string `json:"id"`
}

// wbSuppliesResponse is the response for listing /api/v3/supplies
type wbSuppliesResponse struct {
	Next     int64      `json:"next"`
	Supplies []wbSupply `json:"supplies"`
}

// wbSupply is one FBS supply
type wbSupply struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"createdAt"`
	ClosedAt  string `json:"closedAt"`
}
