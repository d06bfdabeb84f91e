package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// OrchestratorConfig
// ---------------------------------------------------------------------------

// OrchestratorConfig holds configuration for the sync orchestrator
type OrchestratorConfig struct {
	// TickInterval is how often the orchestrator inspects integrations
	TickInterval time.Duration
	// OrderLookback is the change window for order pulls, a buffer so
	// no orders are missed between ticks
	OrderLookback time.Duration
	// Intervals maps each sync kind to how often it should run;
	// kinds absent from the map never run automatically
	Intervals map[SyncKind]time.Duration
}

// DefaultOrchestratorConfig returns default configuration
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		TickInterval:  time.Minute,
		OrderLookback: 30 * time.Minute,
		Intervals: map[SyncKind]time.Duration{
			SyncKindPullOrders:     15 * time.Minute,
			SyncKindOrderStatuses:  15 * time.Minute,
			SyncKindSupplies:       30 * time.Minute,
			SyncKindWarehouses:     6 * time.Hour,
			SyncKindAttributes:     24 * time.Hour,
			SyncKindProductImport:  12 * time.Hour,
			SyncKindPriceStockPush: 30 * time.Minute,
		},
	}
}

// ---------------------------------------------------------------------------
// Orchestrator
// ---------------------------------------------------------------------------

// Orchestrator periodically turns published integrations into sync
// jobs, one per due (marketplace, kind) slot carrying the full
// per-tenant credential list. Each tick reads the current list, so
// tenants joining or leaving take effect on the next tick without
// restarts. Integrations without a usable token are logged and skipped,
// never fatal.
type Orchestrator struct {
	config       OrchestratorConfig
	scheduler    *SyncScheduler
	integrations marketplace.IntegrationRepository
	logger       *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// lastRun tracks when each (marketplace, kind) slot last ran
	lastRunMu sync.Mutex
	lastRun   map[string]time.Time
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	config OrchestratorConfig,
	scheduler *SyncScheduler,
	integrations marketplace.IntegrationRepository,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:       config,
		scheduler:    scheduler,
		integrations: integrations,
		logger:       logger,
		lastRun:      make(map[string]time.Time),
	}
}

// Start starts the orchestrator loop
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.isRunning {
		o.mu.Unlock()
		return nil
	}
	o.isRunning = true
	o.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go o.loop(ctx)

	o.logger.Info("Sync orchestrator started",
		zap.Duration("tick_interval", o.config.TickInterval),
	)
	return nil
}

// Stop stops the orchestrator loop
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.isRunning {
		o.mu.Unlock()
		return
	}
	o.isRunning = false
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	o.logger.Info("Sync orchestrator stopped")
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.config.TickInterval)
	defer ticker.Stop()

	// First tick immediately so sync starts without waiting a full interval
	o.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick submits at most one job per due (marketplace, kind) slot. The
// job carries the credential list of every published integration with
// the kind enabled, so queue fan-out is bounded by the number of
// marketplaces times sync kinds, never by tenant count.
func (o *Orchestrator) tick(ctx context.Context) {
	published := true
	integrations, err := o.integrations.FindActive(ctx, marketplace.IntegrationFilter{Published: &published})
	if err != nil {
		o.logger.Error("orchestrator: loading integrations failed", zap.Error(err))
		return
	}

	byMarketplace := make(map[marketplace.Code][]*marketplace.Integration)
	for i := range integrations {
		integration := &integrations[i]
		byMarketplace[integration.Marketplace] = append(byMarketplace[integration.Marketplace], integration)
	}

	now := time.Now()
	for code, group := range byMarketplace {
		for kind, interval := range o.config.Intervals {
			key := code.String() + "/" + string(kind)
			if last, ok := o.getRun(key); ok && now.Sub(last) < interval {
				continue
			}
			creds := o.collectCredentials(group, kind)
			if len(creds) == 0 {
				continue
			}

			job := NewSyncJob(kind, code, creds, now.Add(-o.config.OrderLookback), o.scheduler.config.RetryAttempts)
			err := o.scheduler.SubmitJob(job)
			switch {
			case err == nil:
				o.markRun(key, now)
			case errors.Is(err, ErrSyncAlreadyInProgress):
				// Previous run still busy, try again next tick
			case errors.Is(err, ErrJobQueueFull):
				o.logger.Warn("orchestrator: job queue full",
					zap.String("kind", string(kind)),
					zap.String("marketplace", code.String()),
				)
			default:
				o.logger.Error("orchestrator: submit failed",
					zap.String("kind", string(kind)),
					zap.String("marketplace", code.String()),
					zap.Error(err),
				)
			}
		}
	}
}

// collectCredentials builds the per-tenant credential list for one
// (marketplace, kind) job, honoring each integration's feature
// toggles. Integrations without a usable token are logged and left out.
func (o *Orchestrator) collectCredentials(group []*marketplace.Integration, kind SyncKind) []marketplace.Credentials {
	creds := make([]marketplace.Credentials, 0, len(group))
	for _, integration := range group {
		if !o.kindEnabled(kind, integration.Settings) {
			continue
		}
		c := integration.Credentials()
		if err := c.Validate(); err != nil {
			o.logger.Warn("orchestrator: skipping integration without token",
				zap.String("tenant_id", integration.TenantID.String()),
				zap.String("marketplace", integration.Marketplace.String()),
			)
			continue
		}
		creds = append(creds, c)
	}
	return creds
}

func (o *Orchestrator) kindEnabled(kind SyncKind, settings marketplace.Settings) bool {
	switch kind {
	case SyncKindPullOrders, SyncKindOrderStatuses, SyncKindSupplies:
		return settings.Import.Enabled && settings.Import.ImportOrders
	case SyncKindProductImport:
		return settings.Import.Enabled
	case SyncKindPriceStockPush:
		return settings.Export.Enabled && (settings.Export.UpdatePrices || settings.Export.UpdateStocks)
	case SyncKindWarehouses, SyncKindAttributes:
		return true
	default:
		return false
	}
}

func (o *Orchestrator) getRun(key string) (time.Time, bool) {
	o.lastRunMu.Lock()
	defer o.lastRunMu.Unlock()
	t, ok := o.lastRun[key]
	return t, ok
}

func (o *Orchestrator) markRun(key string, t time.Time) {
	o.lastRunMu.Lock()
	defer o.lastRunMu.Unlock()
	o.lastRun[key] = t
}
