package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appmarketplace "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/infrastructure/ecommerce"
)

// pullProvider overrides order pulling on the neutral adapter.
type pullProvider struct {
	*ecommerce.NoopProvider
	pull func(creds marketplace.Credentials) ([]marketplace.RemoteOrder, error)
}

func (p *pullProvider) PullOrders(_ context.Context, creds marketplace.Credentials, _ time.Time) ([]marketplace.RemoteOrder, error) {
	return p.pull(creds)
}

type singleProviderRegistry struct {
	provider marketplace.Provider
}

func (r *singleProviderRegistry) Provider(marketplace.Code) marketplace.Provider {
	return r.provider
}

func (r *singleProviderRegistry) Providers() []marketplace.Provider {
	return []marketplace.Provider{r.provider}
}

type memoryOrders struct {
	items map[uuid.UUID]*marketplace.Order
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{items: make(map[uuid.UUID]*marketplace.Order)}
}

func (m *memoryOrders) FindByID(_ context.Context, tenantID, id uuid.UUID) (*marketplace.Order, error) {
	o, ok := m.items[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *memoryOrders) FindByExternalID(_ context.Context, tenantID uuid.UUID, code marketplace.Code, externalID string) (*marketplace.Order, error) {
	for _, o := range m.items {
		if o.TenantID == tenantID && o.Marketplace == code && o.ExternalID == externalID {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryOrders) FindAll(_ context.Context, tenantID uuid.UUID, _ marketplace.OrderFilter) ([]marketplace.Order, int64, error) {
	var out []marketplace.Order
	for _, o := range m.items {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryOrders) FindOpenExternalIDs(_ context.Context, _ uuid.UUID, _ marketplace.Code) ([]string, error) {
	return nil, nil
}

func (m *memoryOrders) Save(_ context.Context, order *marketplace.Order) error {
	m.items[order.ID] = order
	return nil
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, shared.Notification) {}

func newPullExecutor(pull func(creds marketplace.Credentials) ([]marketplace.RemoteOrder, error), log *zap.Logger) *MarketplaceSyncExecutor {
	provider := &pullProvider{
		NoopProvider: ecommerce.NewNoopProvider(marketplace.CodeOzon),
		pull:         pull,
	}
	orders := appmarketplace.NewOrderService(
		newMemoryOrders(),
		&singleProviderRegistry{provider: provider},
		discardNotifier{},
		zap.NewNop(),
	)
	return NewMarketplaceSyncExecutor(orders, nil, nil, nil, nil, log)
}

func TestExecutorAccumulatesAcrossTenants(t *testing.T) {
	calls := 0
	executor := newPullExecutor(func(creds marketplace.Credentials) ([]marketplace.RemoteOrder, error) {
		calls++
		return []marketplace.RemoteOrder{
			{ExternalID: "ord-" + creds.TenantID.String(), Status: marketplace.OrderStatusNew},
		}, nil
	}, zap.NewNop())

	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 3), time.Now(), 0)
	require.NoError(t, executor.Execute(context.Background(), job))

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, job.Fetched)
	assert.Equal(t, 3, job.Applied)
	assert.Zero(t, job.Failed)
}

func TestExecutorSkipsTenantWithRejectedToken(t *testing.T) {
	creds := testCreds(marketplace.CodeOzon, 2)
	badTenant := creds[0].TenantID
	executor := newPullExecutor(func(c marketplace.Credentials) ([]marketplace.RemoteOrder, error) {
		if c.TenantID == badTenant {
			return nil, marketplace.ErrTokenRequired
		}
		return []marketplace.RemoteOrder{{ExternalID: "ord-1", Status: marketplace.OrderStatusNew}}, nil
	}, zap.NewNop())

	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, creds, time.Now(), 0)
	require.NoError(t, executor.Execute(context.Background(), job))

	// The token problem is not a batch failure; the other tenant synced
	assert.Equal(t, 1, job.Fetched)
	assert.Zero(t, job.Failed)
}

func TestExecutorRecordsPartialFailure(t *testing.T) {
	creds := testCreds(marketplace.CodeOzon, 2)
	downTenant := creds[1].TenantID
	core, logs := observer.New(zapcore.ErrorLevel)
	executor := newPullExecutor(func(c marketplace.Credentials) ([]marketplace.RemoteOrder, error) {
		if c.TenantID == downTenant {
			return nil, marketplace.ErrUnavailable
		}
		return []marketplace.RemoteOrder{{ExternalID: "ord-1", Status: marketplace.OrderStatusNew}}, nil
	}, zap.New(core))

	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, creds, time.Now(), 0)
	require.NoError(t, executor.Execute(context.Background(), job))

	assert.Equal(t, 1, job.Fetched)
	assert.Equal(t, 1, job.Failed)
	require.Equal(t, 1, logs.FilterMessage("sync: tenant failed").Len())
}

func TestExecutorFailsWhenEveryTenantFails(t *testing.T) {
	executor := newPullExecutor(func(marketplace.Credentials) ([]marketplace.RemoteOrder, error) {
		return nil, marketplace.ErrUnavailable
	}, zap.NewNop())

	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 2), time.Now(), 0)
	err := executor.Execute(context.Background(), job)

	assert.ErrorIs(t, err, ErrAllTenantsFailed)
	assert.Equal(t, 2, job.Failed)
}
