package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Sync Job Types
// ---------------------------------------------------------------------------

// SyncKind names one category of scheduled marketplace work.
type SyncKind string

const (
	SyncKindPullOrders     SyncKind = "pull_orders"
	SyncKindOrderStatuses  SyncKind = "order_statuses"
	SyncKindSupplies       SyncKind = "supplies"
	SyncKindWarehouses     SyncKind = "warehouses"
	SyncKindAttributes     SyncKind = "attributes"
	SyncKindProductImport  SyncKind = "product_import"
	SyncKindPriceStockPush SyncKind = "price_stock_push"
)

// IsValid returns true if the kind is valid
func (k SyncKind) IsValid() bool {
	switch k {
	case SyncKindPullOrders, SyncKindOrderStatuses, SyncKindSupplies,
		SyncKindWarehouses, SyncKindAttributes, SyncKindProductImport,
		SyncKindPriceStockPush:
		return true
	default:
		return false
	}
}

// SyncJobStatus represents the status of a sync job
type SyncJobStatus string

const (
	SyncJobStatusPending   SyncJobStatus = "PENDING"
	SyncJobStatusRunning   SyncJobStatus = "RUNNING"
	SyncJobStatusSuccess   SyncJobStatus = "SUCCESS"
	SyncJobStatusPartial   SyncJobStatus = "PARTIAL"
	SyncJobStatusFailed    SyncJobStatus = "FAILED"
	SyncJobStatusCancelled SyncJobStatus = "CANCELLED"
)

// SyncJob is one unit of scheduled marketplace work covering every
// tenant of one marketplace: the per-tenant credential list travels in
// the job payload so workers never re-read integration settings
// mid-flight, and queue fan-out stays bounded by (marketplace, kind)
// rather than by tenant count.
type SyncJob struct {
	ID          uuid.UUID
	Kind        SyncKind
	Marketplace marketplace.Code
	Credentials []marketplace.Credentials
	// Since bounds pull-style jobs to a change window.
	Since       time.Time
	Status      SyncJobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	// Counters reported by the executor
	Fetched int
	Applied int
	Failed  int
}

// NewSyncJob creates a pending sync job for one (marketplace, kind)
// slot carrying the credential records of every tenant to process.
func NewSyncJob(kind SyncKind, code marketplace.Code, creds []marketplace.Credentials, since time.Time, maxRetries int) *SyncJob {
	return &SyncJob{
		ID:          uuid.New(),
		Kind:        kind,
		Marketplace: code,
		Credentials: creds,
		Since:       since,
		Status:      SyncJobStatusPending,
		MaxRetries:  maxRetries,
	}
}

// Key identifies the slot a job occupies: one job per
// (marketplace, kind) may be in flight at a time.
func (j *SyncJob) Key() string {
	return j.Marketplace.String() + "/" + string(j.Kind)
}

// Start marks the job as running
func (j *SyncJob) Start() {
	now := time.Now()
	j.Status = SyncJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as finished with the executor's counters.
func (j *SyncJob) Complete(fetched, applied, failed int) {
	now := time.Now()
	j.Fetched = fetched
	j.Applied = applied
	j.Failed = failed
	j.CompletedAt = &now

	switch {
	case failed == 0:
		j.Status = SyncJobStatusSuccess
	case applied > 0:
		j.Status = SyncJobStatusPartial
	default:
		j.Status = SyncJobStatusFailed
	}
}

// Fail marks the job as failed
func (j *SyncJob) Fail(err string) {
	now := time.Now()
	j.Status = SyncJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *SyncJob) ShouldRetry() bool {
	return j.Status == SyncJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry with exponential backoff
func (j *SyncJob) ScheduleRetry(baseDelay time.Duration) {
	j.RetryCount++
	j.Status = SyncJobStatusPending
	delay := baseDelay * time.Duration(1<<(j.RetryCount-1))
	if delay > 30*time.Minute {
		delay = 30 * time.Minute
	}
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}
