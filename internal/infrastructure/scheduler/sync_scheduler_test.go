package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

func testCreds(code marketplace.Code, n int) []marketplace.Credentials {
	creds := make([]marketplace.Credentials, 0, n)
	for i := 0; i < n; i++ {
		creds = append(creds, marketplace.Credentials{
			TenantID:    uuid.New(),
			Marketplace: code,
			APIKey:      "key-1",
		})
	}
	return creds
}

// blockingExecutor holds jobs until released, counting executions.
type blockingExecutor struct {
	executed atomic.Int32
	release  chan struct{}
	err      error
}

func (e *blockingExecutor) Execute(ctx context.Context, _ *SyncJob) error {
	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	e.executed.Add(1)
	return e.err
}

func testConfig() SyncSchedulerConfig {
	cfg := DefaultSyncSchedulerConfig()
	cfg.MaxConcurrentJobs = 2
	cfg.JobTimeout = 5 * time.Second
	cfg.RetryAttempts = 0
	return cfg
}

func TestSyncJobLifecycle(t *testing.T) {
	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 3)
	assert.Equal(t, SyncJobStatusPending, job.Status)
	assert.NotEqual(t, uuid.Nil, job.ID)

	job.Start()
	assert.Equal(t, SyncJobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Complete(10, 8, 2)
	assert.Equal(t, SyncJobStatusPartial, job.Status)
	require.NotNil(t, job.CompletedAt)

	job = NewSyncJob(SyncKindSupplies, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 3)
	job.Start()
	job.Complete(5, 5, 0)
	assert.Equal(t, SyncJobStatusSuccess, job.Status)
}

func TestSyncJobRetryBackoff(t *testing.T) {
	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 2)
	job.Start()
	job.Fail("boom")
	require.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, SyncJobStatusPending, job.Status)
	require.NotNil(t, job.NextRetryAt)
	assert.True(t, job.NextRetryAt.After(time.Now()))

	job.Start()
	job.Fail("boom")
	job.ScheduleRetry(time.Minute)
	job.Start()
	job.Fail("boom")
	assert.False(t, job.ShouldRetry())
}

func TestSchedulerRejectsWhenStopped(t *testing.T) {
	s, err := NewSyncScheduler(testConfig(), &blockingExecutor{}, zap.NewNop())
	require.NoError(t, err)

	err = s.SubmitJob(NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestSchedulerExecutesJobs(t *testing.T) {
	executor := &blockingExecutor{}
	s, err := NewSyncScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SubmitJob(NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0)))
	}

	assert.Eventually(t, func() bool {
		return executor.executed.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)

	history := s.History()
	assert.Len(t, history, 3)
	for _, job := range history {
		assert.Equal(t, SyncJobStatusSuccess, job.Status)
	}
}

func TestSchedulerSingleFlightPerSlot(t *testing.T) {
	executor := &blockingExecutor{release: make(chan struct{})}
	s, err := NewSyncScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	first := NewSyncJob(SyncKindProductImport, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 2), time.Now(), 0)
	require.NoError(t, s.SubmitJob(first))

	// Same slot is busy until the first job finishes
	duplicate := NewSyncJob(SyncKindProductImport, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0)
	assert.ErrorIs(t, s.SubmitJob(duplicate), ErrSyncAlreadyInProgress)

	// A different kind for the same marketplace is its own slot
	other := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0)
	require.NoError(t, s.SubmitJob(other))

	// So is the same kind for a different marketplace
	wb := NewSyncJob(SyncKindProductImport, marketplace.CodeWildberries, testCreds(marketplace.CodeWildberries, 1), time.Now(), 0)
	require.NoError(t, s.SubmitJob(wb))

	close(executor.release)
	assert.Eventually(t, func() bool {
		return executor.executed.Load() == 3
	}, 2*time.Second, 10*time.Millisecond)

	// Slot freed, resubmission accepted
	assert.Eventually(t, func() bool {
		return s.SubmitJob(NewSyncJob(SyncKindProductImport, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0)) == nil
	}, 2*time.Second, 10*time.Millisecond)
}

// failOnceExecutor fails the first attempt and reports when the retry ran.
type failOnceExecutor struct {
	calls    atomic.Int32
	retryRan chan time.Time
}

func (e *failOnceExecutor) Execute(_ context.Context, _ *SyncJob) error {
	if e.calls.Add(1) == 1 {
		return errors.New("transient")
	}
	e.retryRan <- time.Now()
	return nil
}

func TestSchedulerRetryWaitsOutBackoff(t *testing.T) {
	executor := &failOnceExecutor{retryRan: make(chan time.Time, 1)}
	cfg := testConfig()
	cfg.RetryAttempts = 1
	cfg.RetryDelay = 150 * time.Millisecond
	s, err := NewSyncScheduler(cfg, executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	submitted := time.Now()
	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), cfg.RetryAttempts)
	require.NoError(t, s.SubmitJob(job))

	select {
	case ranAt := <-executor.retryRan:
		assert.GreaterOrEqual(t, ranAt.Sub(submitted), cfg.RetryDelay)
	case <-time.After(2 * time.Second):
		t.Fatal("retry never ran")
	}

	assert.Eventually(t, func() bool {
		return len(s.History()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, SyncJobStatusSuccess, s.History()[0].Status)
}

func TestSchedulerJobFailureRecorded(t *testing.T) {
	executor := &blockingExecutor{err: errors.New("marketplace down")}
	s, err := NewSyncScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewSyncJob(SyncKindPullOrders, marketplace.CodeOzon, testCreds(marketplace.CodeOzon, 1), time.Now(), 0)
	require.NoError(t, s.SubmitJob(job))

	assert.Eventually(t, func() bool {
		return len(s.History()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, SyncJobStatusFailed, s.History()[0].Status)
	assert.Equal(t, "marketplace down", s.History()[0].Error)
}
