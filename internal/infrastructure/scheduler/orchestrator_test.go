package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// stubIntegrationRepo serves a fixed integration list to FindActive.
type stubIntegrationRepo struct {
	active []marketplace.Integration
}

func (r *stubIntegrationRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*marketplace.Integration, error) {
	return nil, marketplace.ErrIntegrationNotFound
}

func (r *stubIntegrationRepo) FindByTenantAndCode(_ context.Context, _ uuid.UUID, _ marketplace.Code) (*marketplace.Integration, error) {
	return nil, marketplace.ErrIntegrationNotFound
}

func (r *stubIntegrationRepo) FindAllByTenant(_ context.Context, _ uuid.UUID) ([]marketplace.Integration, error) {
	return nil, nil
}

func (r *stubIntegrationRepo) FindActive(_ context.Context, _ marketplace.IntegrationFilter) ([]marketplace.Integration, error) {
	return r.active, nil
}

func (r *stubIntegrationRepo) Save(_ context.Context, _ *marketplace.Integration) error {
	return nil
}

// recordingExecutor captures every job handed to it.
type recordingExecutor struct {
	mu   sync.Mutex
	jobs []*SyncJob
}

func (e *recordingExecutor) Execute(_ context.Context, job *SyncJob) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return nil
}

func (e *recordingExecutor) Jobs() []*SyncJob {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*SyncJob, len(e.jobs))
	copy(out, e.jobs)
	return out
}

func publishedIntegration(t *testing.T, code marketplace.Code, settings marketplace.Settings) marketplace.Integration {
	t.Helper()
	i, err := marketplace.NewIntegration(uuid.New(), code)
	require.NoError(t, err)
	i.UpdateSettings(settings)
	i.Publish()
	return *i
}

func orderSync(apiKey string) marketplace.Settings {
	return marketplace.Settings{
		ClientID: "client-1",
		APIKey:   apiKey,
		Import:   marketplace.ImportSettings{Enabled: true, ImportOrders: true},
	}
}

func startTestScheduler(t *testing.T, executor SyncExecutor) *SyncScheduler {
	t.Helper()
	s, err := NewSyncScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func orchestratorConfig(kinds ...SyncKind) OrchestratorConfig {
	cfg := OrchestratorConfig{
		TickInterval:  time.Minute,
		OrderLookback: 30 * time.Minute,
		Intervals:     make(map[SyncKind]time.Duration, len(kinds)),
	}
	for _, kind := range kinds {
		cfg.Intervals[kind] = 15 * time.Minute
	}
	return cfg
}

func TestOrchestratorTickBatchesTenantsPerMarketplace(t *testing.T) {
	repo := &stubIntegrationRepo{active: []marketplace.Integration{
		publishedIntegration(t, marketplace.CodeOzon, orderSync("key-1")),
		publishedIntegration(t, marketplace.CodeOzon, orderSync("key-2")),
		publishedIntegration(t, marketplace.CodeOzon, orderSync("key-3")),
	}}
	executor := &recordingExecutor{}
	s := startTestScheduler(t, executor)

	o := NewOrchestrator(orchestratorConfig(SyncKindPullOrders), s, repo, zap.NewNop())
	o.tick(context.Background())

	assert.Eventually(t, func() bool {
		return len(executor.Jobs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	jobs := executor.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, SyncKindPullOrders, jobs[0].Kind)
	assert.Equal(t, marketplace.CodeOzon, jobs[0].Marketplace)
	assert.Len(t, jobs[0].Credentials, 3)

	// The slot just ran; a second tick within the interval is a no-op
	o.tick(context.Background())
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, executor.Jobs(), 1)
}

func TestOrchestratorTickSplitsMarketplaces(t *testing.T) {
	repo := &stubIntegrationRepo{active: []marketplace.Integration{
		publishedIntegration(t, marketplace.CodeOzon, orderSync("key-1")),
		publishedIntegration(t, marketplace.CodeWildberries, orderSync("key-2")),
	}}
	executor := &recordingExecutor{}
	s := startTestScheduler(t, executor)

	o := NewOrchestrator(orchestratorConfig(SyncKindPullOrders), s, repo, zap.NewNop())
	o.tick(context.Background())

	assert.Eventually(t, func() bool {
		return len(executor.Jobs()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	seen := make(map[marketplace.Code]int)
	for _, job := range executor.Jobs() {
		seen[job.Marketplace] = len(job.Credentials)
	}
	assert.Equal(t, map[marketplace.Code]int{
		marketplace.CodeOzon:        1,
		marketplace.CodeWildberries: 1,
	}, seen)
}

func TestOrchestratorSkipsOrderKindsWhenImportOrdersOff(t *testing.T) {
	settings := orderSync("key-1")
	settings.Import.ImportOrders = false
	repo := &stubIntegrationRepo{active: []marketplace.Integration{
		publishedIntegration(t, marketplace.CodeOzon, settings),
	}}
	executor := &recordingExecutor{}
	s := startTestScheduler(t, executor)

	o := NewOrchestrator(orchestratorConfig(SyncKindPullOrders, SyncKindOrderStatuses, SyncKindSupplies), s, repo, zap.NewNop())
	o.tick(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, executor.Jobs())
}

func TestOrchestratorSkipsIntegrationsWithoutToken(t *testing.T) {
	repo := &stubIntegrationRepo{active: []marketplace.Integration{
		publishedIntegration(t, marketplace.CodeOzon, orderSync("key-1")),
		publishedIntegration(t, marketplace.CodeOzon, orderSync("")),
	}}
	executor := &recordingExecutor{}
	s := startTestScheduler(t, executor)

	core, logs := observer.New(zap.WarnLevel)
	o := NewOrchestrator(orchestratorConfig(SyncKindPullOrders), s, repo, zap.New(core))
	o.tick(context.Background())

	assert.Eventually(t, func() bool {
		return len(executor.Jobs()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, executor.Jobs()[0].Credentials, 1)

	skipped := logs.FilterMessage("orchestrator: skipping integration without token")
	require.Equal(t, 1, skipped.Len())
	assert.Equal(t, marketplace.CodeOzon.String(), skipped.All()[0].ContextMap()["marketplace"])
}
