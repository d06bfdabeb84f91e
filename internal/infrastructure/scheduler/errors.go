package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSyncAlreadyInProgress is returned when a job for the same
	// marketplace and kind is already queued or running
	ErrSyncAlreadyInProgress = errors.New("sync already in progress for this marketplace/kind")

	// ErrUnknownSyncKind is returned for job kinds no executor handles
	ErrUnknownSyncKind = errors.New("unknown sync kind")

	// ErrAllTenantsFailed is returned when no tenant in a job's
	// credential list could be synced; the job is retried as a whole
	ErrAllTenantsFailed = errors.New("sync failed for every tenant in the job")
)
