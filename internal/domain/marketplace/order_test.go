package marketplace

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// OrderStatus Tests
// ---------------------------------------------------------------------------

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{OrderStatusNew, false},
		{OrderStatusConfirm, false},
		{OrderStatusAwaitingPackaging, false},
		{OrderStatusAwaitingDeliver, false},
		{OrderStatusSold, true},
		{OrderStatusCanceled, true},
		{OrderStatusCanceledByClient, true},
		{OrderStatusReturned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusAwaitingDeliver.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

// ---------------------------------------------------------------------------
// Order Tests
// ---------------------------------------------------------------------------

func newTestOrder(t *testing.T, status OrderStatus) *Order {
	t.Helper()
	o := NewOrderFromRemote(uuid.New(), CodeOzon, RemoteOrder{
		ExternalID: "ext-1",
		Status:     status,
		OrderType:  OrderTypeFBS,
		Total:      decimal.NewFromInt(100),
		Currency:   "RUB",
		Items: []RemoteOrderItem{
			{ExternalID: "item-1", SKU: "SKU-1", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(50)},
		},
		CreatedAt: time.Now(),
	})
	require.NotNil(t, o)
	return o
}

func TestNewOrderFromRemote(t *testing.T) {
	o := newTestOrder(t, OrderStatusNew)

	assert.Equal(t, CodeOzon, o.Marketplace)
	assert.Equal(t, "ext-1", o.ExternalID)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, o.ID, o.Items[0].OrderID)
}

func TestNewOrderFromRemote_UnknownStatusDefaultsToNew(t *testing.T) {
	o := NewOrderFromRemote(uuid.New(), CodeWildberries, RemoteOrder{
		ExternalID: "ext-2",
		Status:     OrderStatus("weird_remote_state"),
	})
	assert.Equal(t, OrderStatusNew, o.Status)
}

func TestOrder_ApplyRemoteStatus(t *testing.T) {
	o := newTestOrder(t, OrderStatusNew)

	assert.True(t, o.ApplyRemoteStatus(OrderStatusConfirm))
	assert.Equal(t, OrderStatusConfirm, o.Status)

	// Unchanged status is not a change
	assert.False(t, o.ApplyRemoteStatus(OrderStatusConfirm))

	// Invalid status is ignored
	assert.False(t, o.ApplyRemoteStatus(OrderStatus("bogus")))
	assert.Equal(t, OrderStatusConfirm, o.Status)
}

func TestOrder_Cancel(t *testing.T) {
	o := newTestOrder(t, OrderStatusConfirm)
	require.NoError(t, o.Cancel())
	assert.Equal(t, OrderStatusCanceled, o.Status)
}

func TestOrder_CancelTerminalFails(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusSold, OrderStatusCanceledByClient, OrderStatusReturned} {
		t.Run(string(status), func(t *testing.T) {
			o := newTestOrder(t, status)
			err := o.Cancel()
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "ORDER_TERMINAL", domainErr.Code)
			assert.Equal(t, status, o.Status)
		})
	}
}

func TestOrder_AttachToSupply(t *testing.T) {
	tenantID := uuid.New()
	o := NewOrderFromRemote(tenantID, CodeOzon, RemoteOrder{ExternalID: "ext-1", Status: OrderStatusAwaitingPackaging})
	s := NewSupply(tenantID, CodeOzon, OrderTypeFBS, RemoteSupply{ExternalID: "sup-1"})

	require.NoError(t, o.AttachToSupply(s))
	require.NotNil(t, o.SupplyID)
	assert.Equal(t, s.ID, *o.SupplyID)
}

func TestOrder_AttachToClosedSupplyFails(t *testing.T) {
	tenantID := uuid.New()
	o := NewOrderFromRemote(tenantID, CodeOzon, RemoteOrder{ExternalID: "ext-1", Status: OrderStatusAwaitingPackaging})
	s := NewSupply(tenantID, CodeOzon, OrderTypeFBS, RemoteSupply{ExternalID: "sup-1"})
	require.NoError(t, s.Close())

	err := o.AttachToSupply(s)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUPPLY_CLOSED", domainErr.Code)
	assert.Nil(t, o.SupplyID)
}

func TestOrder_AttachToForeignSupplyFails(t *testing.T) {
	o := NewOrderFromRemote(uuid.New(), CodeOzon, RemoteOrder{ExternalID: "ext-1", Status: OrderStatusNew})
	s := NewSupply(uuid.New(), CodeWildberries, OrderTypeFBS, RemoteSupply{ExternalID: "sup-1"})

	err := o.AttachToSupply(s)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Supply Tests
// ---------------------------------------------------------------------------

func TestSupply_CloseIsIrreversible(t *testing.T) {
	s := NewSupply(uuid.New(), CodeOzon, OrderTypeFBS, RemoteSupply{ExternalID: "sup-1"})
	assert.False(t, s.IsClosed())

	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())
	require.NotNil(t, s.ClosedAt)

	err := s.Close()
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUPPLY_CLOSED", domainErr.Code)
}
