package scheduler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	appmarketplace "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// MarketplaceSyncExecutor routes sync jobs to the application services.
type MarketplaceSyncExecutor struct {
	orders       *appmarketplace.OrderService
	supplies     *appmarketplace.SupplyService
	dictionaries *appmarketplace.DictionaryService
	imports      *appmarketplace.ImportService
	exports      *appmarketplace.ExportService
	logger       *zap.Logger
}

// NewMarketplaceSyncExecutor creates a new MarketplaceSyncExecutor
func NewMarketplaceSyncExecutor(
	orders *appmarketplace.OrderService,
	supplies *appmarketplace.SupplyService,
	dictionaries *appmarketplace.DictionaryService,
	imports *appmarketplace.ImportService,
	exports *appmarketplace.ExportService,
	logger *zap.Logger,
) *MarketplaceSyncExecutor {
	return &MarketplaceSyncExecutor{
		orders:       orders,
		supplies:     supplies,
		dictionaries: dictionaries,
		imports:      imports,
		exports:      exports,
		logger:       logger,
	}
}

var _ SyncExecutor = (*MarketplaceSyncExecutor)(nil)

// Execute runs the job's sync kind for every tenant in the credential
// list, accumulating the counters. Tenants are processed sequentially
// and independently: a rejected token or provider failure for one
// tenant is logged and does not stop the rest. The job as a whole
// fails (and becomes retryable) only when every tenant failed.
func (e *MarketplaceSyncExecutor) Execute(ctx context.Context, job *SyncJob) error {
	failed := 0
	for i := range job.Credentials {
		creds := job.Credentials[i]
		err := e.executeTenant(ctx, job, creds)
		if err == nil {
			continue
		}
		if errors.Is(err, marketplace.ErrTokenRequired) {
			// Retrying will not help until the tenant fixes the token
			e.logger.Error("sync: tenant token rejected",
				zap.String("kind", string(job.Kind)),
				zap.String("tenant_id", creds.TenantID.String()),
				zap.String("marketplace", creds.Marketplace.String()),
			)
			continue
		}
		failed++
		job.Failed++
		e.logger.Error("sync: tenant failed",
			zap.String("kind", string(job.Kind)),
			zap.String("tenant_id", creds.TenantID.String()),
			zap.String("marketplace", creds.Marketplace.String()),
			zap.Error(err),
		)
	}
	if failed > 0 && failed == len(job.Credentials) {
		return ErrAllTenantsFailed
	}
	return nil
}

// executeTenant performs one tenant's share of the job.
func (e *MarketplaceSyncExecutor) executeTenant(ctx context.Context, job *SyncJob, creds marketplace.Credentials) error {
	switch job.Kind {
	case SyncKindPullOrders:
		report, err := e.orders.Pull(ctx, creds, job.Since)
		return accumulate(job, report, err)

	case SyncKindOrderStatuses:
		report, err := e.orders.SyncStatuses(ctx, creds)
		return accumulate(job, report, err)

	case SyncKindSupplies:
		report, err := e.supplies.Sync(ctx, creds)
		return accumulate(job, report, err)

	case SyncKindWarehouses:
		report, err := e.dictionaries.SyncWarehouses(ctx, creds)
		return accumulate(job, report, err)

	case SyncKindAttributes:
		report, err := e.dictionaries.SyncAttributes(ctx, creds)
		return accumulate(job, report, err)

	case SyncKindProductImport:
		result, err := e.imports.ImportProducts(ctx, creds)
		if err != nil {
			return err
		}
		job.Fetched += result.All
		job.Applied += result.Created + result.Updated
		job.Failed += len(result.AdditionalInfo)
		return nil

	case SyncKindPriceStockPush:
		result, err := e.exports.PushPricesAndStocks(ctx, creds)
		if err != nil {
			return err
		}
		job.Fetched += result.Total
		job.Applied += result.Succeeded
		job.Failed += result.Failed
		return nil

	default:
		return ErrUnknownSyncKind
	}
}

func accumulate(job *SyncJob, report *appmarketplace.SyncReport, err error) error {
	if err != nil {
		return err
	}
	job.Fetched += report.Fetched
	job.Applied += report.Created + report.Updated
	job.Failed += report.Failed
	return nil
}
