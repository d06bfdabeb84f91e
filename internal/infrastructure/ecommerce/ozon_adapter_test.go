package ecommerce

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

func newOzonTest(t *testing.T, handler http.Handler) (*OzonProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	provider := NewOzonProvider(config.MarketplaceAPIConfig{
		BaseURL:   server.URL,
		RateLimit: 1000,
		Burst:     1000,
	}, zap.NewNop())
	return provider, server
}

func testCreds(code marketplace.Code) marketplace.Credentials {
	return marketplace.Credentials{
		TenantID:    uuid.New(),
		Marketplace: code,
		ClientID:    "client-1",
		APIKey:      "key-1",
		WarehouseID: "77",
	}
}

func TestOzonProvider_CheckConnection(t *testing.T) {
	t.Run("returns catalog size and sends auth headers", func(t *testing.T) {
		provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3/product/list", r.URL.Path)
			assert.Equal(t, "client-1", r.Header.Get("Client-Id"))
			assert.Equal(t, "key-1", r.Header.Get("Api-Key"))
			json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"items": []any{}, "total": 42},
			})
		}))

		total, err := provider.CheckConnection(t.Context(), testCreds(marketplace.CodeOzon))
		require.NoError(t, err)
		assert.Equal(t, 42, total)
	})

	t.Run("maps unauthorized to token required", func(t *testing.T) {
		provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := provider.CheckConnection(t.Context(), testCreds(marketplace.CodeOzon))
		require.ErrorIs(t, err, marketplace.ErrTokenRequired)
	})

	t.Run("maps throttling to rate limited", func(t *testing.T) {
		provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))

		_, err := provider.CheckConnection(t.Context(), testCreds(marketplace.CodeOzon))
		require.ErrorIs(t, err, marketplace.ErrRateLimited)
	})

	t.Run("rejects empty credentials without a request", func(t *testing.T) {
		provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}))

		creds := testCreds(marketplace.CodeOzon)
		creds.APIKey = ""
		_, err := provider.CheckConnection(t.Context(), creds)
		require.ErrorIs(t, err, marketplace.ErrTokenRequired)
	})
}

func TestOzonProvider_ImportProducts(t *testing.T) {
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/product/list":
			json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{
					"items":   []map[string]any{{"product_id": 101, "offer_id": "SKU-1"}},
					"total":   1,
					"last_id": "",
				},
			})
		case "/v3/product/info/list":
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"id":          101,
					"offer_id":    "SKU-1",
					"name":        "Ceramic mug",
					"barcodes":    []string{"4600000000017"},
					"price":       "490.00",
					"old_price":   "590.00",
					"images":      []string{"https://cdn.ozon.ru/mug.jpg"},
					"stocks": map[string]any{
						"stocks": []map[string]any{
							{"present": 3, "type": "fbs"},
							{"present": 2, "type": "fbo"},
						},
					},
				}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	products, err := provider.ImportProducts(t.Context(), testCreds(marketplace.CodeOzon))
	require.NoError(t, err)
	require.Len(t, products, 1)

	product := products[0]
	assert.Equal(t, "101", product.ExternalID)
	assert.Equal(t, "SKU-1", product.SKU)
	assert.Equal(t, "4600000000017", product.Barcode)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(490)))
	assert.True(t, product.OldPrice.Equal(decimal.NewFromInt(590)))
	assert.True(t, product.Stock.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, product.Variations)
}

func TestOzonProvider_ExportProducts(t *testing.T) {
	var received ozonProductImportRequest
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/product/import", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"task_id": 555}})
	}))

	export := marketplace.ProductExport{
		SKU:                "MUG",
		Title:              "Ceramic mug",
		CategoryExternalID: "17028922:970701931",
		Variations: []marketplace.VariationExport{
			{VendorCode: "MUG-RED", Barcode: "111", Price: decimal.NewFromInt(490)},
			{VendorCode: "MUG-BLUE", Barcode: "222", Price: decimal.NewFromInt(510), OldPrice: decimal.NewFromInt(590)},
		},
	}
	result, err := provider.ExportProducts(t.Context(), testCreds(marketplace.CodeOzon), []marketplace.ProductExport{export})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, "555", result.TaskID)

	require.Len(t, received.Items, 2)
	assert.Equal(t, "MUG-RED", received.Items[0].OfferID)
	assert.Equal(t, int64(17028922), received.Items[0].DescriptionCategoryID)
	assert.Equal(t, "590", received.Items[1].OldPrice)
}

func TestOzonProvider_UpdatePrices(t *testing.T) {
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/product/import/prices", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"offer_id": "MUG-RED", "updated": true},
				{"offer_id": "MUG-BLUE", "updated": false, "errors": []map[string]any{
					{"code": "PRICE_TOO_LOW", "message": "price below threshold"},
				}},
			},
		})
	}))

	items := []marketplace.PriceStockUpdate{
		{VendorCode: "MUG-RED", Price: decimal.NewFromInt(490)},
		{VendorCode: "MUG-BLUE", Price: decimal.NewFromInt(1)},
	}
	result, err := provider.UpdatePrices(t.Context(), testCreds(marketplace.CodeOzon), items)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "MUG-BLUE", result.Errors[0].ExternalID)
	assert.Equal(t, "price below threshold", result.Errors[0].Message)
}

func TestOzonProvider_UpdateStocks_DefaultWarehouse(t *testing.T) {
	var received ozonStocksRequest
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/products/stocks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{{"offer_id": "MUG-RED", "updated": true}},
		})
	}))

	items := []marketplace.PriceStockUpdate{
		{VendorCode: "MUG-RED", Stock: decimal.NewFromInt(8)},
	}
	result, err := provider.UpdateStocks(t.Context(), testCreds(marketplace.CodeOzon), items)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, received.Stocks, 1)
	assert.Equal(t, int64(77), received.Stocks[0].WarehouseID)
	assert.Equal(t, int64(8), received.Stocks[0].Stock)
}

func TestOzonProvider_PullOrders(t *testing.T) {
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/posting/fbs/list", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"has_next": false,
				"postings": []map[string]any{{
					"posting_number": "12345-0001-1",
					"order_id":       987,
					"order_number":   "12345-0001",
					"status":         "delivered",
					"in_process_at":  "2026-08-20T10:00:00Z",
					"products": []map[string]any{{
						"sku":           201,
						"offer_id":      "MUG-RED",
						"name":          "Ceramic mug",
						"quantity":      2,
						"price":         "490.00",
						"currency_code": "RUB",
					}},
				}},
			},
		})
	}))

	since := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	orders, err := provider.PullOrders(t.Context(), testCreds(marketplace.CodeOzon), since)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "12345-0001-1", order.ExternalID)
	assert.Equal(t, marketplace.OrderStatusSold, order.Status)
	assert.Equal(t, marketplace.OrderTypeFBS, order.OrderType)
	assert.Equal(t, "RUB", order.Currency)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(980)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "MUG-RED", order.Items[0].SKU)
}

func TestOzonProvider_OrderStatuses_SkipsMissing(t *testing.T) {
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ozonPostingGetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.PostingNumber == "gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"posting_number": req.PostingNumber, "status": "awaiting_deliver"},
		})
	}))

	statuses, err := provider.OrderStatuses(t.Context(), testCreds(marketplace.CodeOzon), []string{"alive", "gone"})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, marketplace.OrderStatusAwaitingDeliver, statuses["alive"])
}

func TestOzonProvider_CancelOrder_NotFound(t *testing.T) {
	provider, _ := newOzonTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := provider.CancelOrder(t.Context(), testCreds(marketplace.CodeOzon), "12345-0001-1")
	require.ErrorIs(t, err, marketplace.ErrOrderNotFound)
}

func TestMapOzonOrderStatus(t *testing.T) {
	cases := map[string]marketplace.OrderStatus{
		"awaiting_packaging":  marketplace.OrderStatusAwaitingPackaging,
		"awaiting_deliver":    marketplace.OrderStatusAwaitingDeliver,
		"delivering":          marketplace.OrderStatusAwaitingDeliver,
		"delivered":           marketplace.OrderStatusSold,
		"cancelled":           marketplace.OrderStatusCanceled,
		"cancelled_by_client": marketplace.OrderStatusCanceledByClient,
		"returned":            marketplace.OrderStatusReturned,
		"something_new":       marketplace.OrderStatusNew,
	}
	for raw, want := range cases {
		assert.Equal(t, want, mapOzonOrderStatus(raw), raw)
	}
}
