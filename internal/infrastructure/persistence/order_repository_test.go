package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

func remoteOrder(externalID string, status marketplace.OrderStatus) marketplace.RemoteOrder {
	return marketplace.RemoteOrder{
		ExternalID:    externalID,
		Status:        status,
		OrderType:     marketplace.OrderTypeFBS,
		PostingNumber: externalID + "-0001",
		Total:         decimal.RequireFromString("1500.00"),
		Currency:      "RUB",
		CreatedAt:     time.Now().Add(-time.Hour),
		Items: []marketplace.RemoteOrderItem{
			{ExternalID: "i-1", SKU: "SKU-1", Name: "Mug", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("750.00")},
		},
	}
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeOzon, remoteOrder("ord-1", marketplace.OrderStatusNew))
	require.NoError(t, repo.Save(ctx, order))

	t.Run("finds by external ID with items", func(t *testing.T) {
		found, err := repo.FindByExternalID(ctx, tenantID, marketplace.CodeOzon, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, marketplace.OrderStatusNew, found.Status)
		assert.True(t, found.Total.Equal(decimal.RequireFromString("1500.00")))
		require.Len(t, found.Items, 1)
		assert.Equal(t, "SKU-1", found.Items[0].SKU)
	})

	t.Run("external ID is scoped by marketplace", func(t *testing.T) {
		_, err := repo.FindByExternalID(ctx, tenantID, marketplace.CodeWildberries, "ord-1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("status update survives round trip", func(t *testing.T) {
		order.ApplyRemoteStatus(marketplace.OrderStatusAwaitingDeliver)
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, marketplace.OrderStatusAwaitingDeliver, found.Status)
		assert.Len(t, found.Items, 1)
	})
}

func TestGormOrderRepository_FindOpenExternalIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	open := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeOzon, remoteOrder("open-1", marketplace.OrderStatusNew))
	require.NoError(t, repo.Save(ctx, open))

	sold := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeOzon, remoteOrder("sold-1", marketplace.OrderStatusSold))
	require.NoError(t, repo.Save(ctx, sold))

	canceled := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeOzon, remoteOrder("cxl-1", marketplace.OrderStatusCanceled))
	require.NoError(t, repo.Save(ctx, canceled))

	ids, err := repo.FindOpenExternalIDs(ctx, tenantID, marketplace.CodeOzon)
	require.NoError(t, err)
	assert.Equal(t, []string{"open-1"}, ids)
}

func TestGormOrderRepository_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	older := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeOzon, remoteOrder("a-1", marketplace.OrderStatusNew))
	older.PlacedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	recent := marketplace.NewOrderFromRemote(tenantID, marketplace.CodeWildberries, remoteOrder("b-1", marketplace.OrderStatusSold))
	require.NoError(t, repo.Save(ctx, recent))

	t.Run("filters by marketplace", func(t *testing.T) {
		code := marketplace.CodeOzon
		orders, total, err := repo.FindAll(ctx, tenantID, marketplace.OrderFilter{Marketplace: &code})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, "a-1", orders[0].ExternalID)
	})

	t.Run("filters by placed-at window", func(t *testing.T) {
		since := time.Now().Add(-24 * time.Hour)
		orders, total, err := repo.FindAll(ctx, tenantID, marketplace.OrderFilter{Since: &since})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, "b-1", orders[0].ExternalID)
	})
}

func TestGormSupplyRepository_OpenSlot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSupplyRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	supply := marketplace.NewSupply(tenantID, marketplace.CodeOzon, marketplace.OrderTypeFBS,
		marketplace.RemoteSupply{ExternalID: "sup-1", Name: "Monday batch"})
	require.NoError(t, repo.Save(ctx, supply))

	t.Run("finds the open supply for its slot", func(t *testing.T) {
		found, err := repo.FindOpen(ctx, tenantID, marketplace.CodeOzon, marketplace.OrderTypeFBS)
		require.NoError(t, err)
		assert.Equal(t, supply.ID, found.ID)
	})

	t.Run("other slots stay empty", func(t *testing.T) {
		_, err := repo.FindOpen(ctx, tenantID, marketplace.CodeOzon, marketplace.OrderTypeFBO)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("closing frees the slot", func(t *testing.T) {
		require.NoError(t, supply.Close())
		require.NoError(t, repo.Save(ctx, supply))

		_, err := repo.FindOpen(ctx, tenantID, marketplace.CodeOzon, marketplace.OrderTypeFBS)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByExternalID(ctx, tenantID, marketplace.CodeOzon, "sup-1")
		require.NoError(t, err)
		assert.Equal(t, marketplace.SupplyStatusClosed, found.Status)
		assert.NotNil(t, found.ClosedAt)
	})
}
