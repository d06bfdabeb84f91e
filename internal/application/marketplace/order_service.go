package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// OrderService mirrors marketplace orders locally. The marketplace is
// authoritative for order state: pull jobs overwrite the local cache,
// and local transitions are propagated remotely before they commit.
type OrderService struct {
	orders   marketplace.OrderRepository
	registry marketplace.Registry
	notifier shared.Notifier
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders marketplace.OrderRepository,
	registry marketplace.Registry,
	notifier shared.Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		registry: registry,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns mirrored orders matching the filter.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter marketplace.OrderFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orders.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderResponse(&orders[i]))
	}
	return out, total, nil
}

// Get returns one mirrored order.
func (s *OrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Pull fetches orders changed since the given time and reconciles them
// into the local mirror. A failing order is skipped, never fatal for
// the batch.
func (s *OrderService) Pull(ctx context.Context, creds marketplace.Credentials, since time.Time) (*SyncReport, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	remote, err := provider.PullOrders(ctx, creds, since)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Marketplace: creds.Marketplace.String(), Fetched: len(remote)}
	for _, ro := range remote {
		if ro.ExternalID == "" {
			report.Skipped++
			continue
		}

		existing, err := s.orders.FindByExternalID(ctx, creds.TenantID, creds.Marketplace, ro.ExternalID)
		switch {
		case err == nil:
			if !existing.ApplyRemoteStatus(ro.Status) {
				report.Skipped++
				continue
			}
			if err := s.orders.Save(ctx, existing); err != nil {
				s.logger.Error("order sync: save failed",
					zap.String("external_id", ro.ExternalID),
					zap.Error(err),
				)
				report.Failed++
				continue
			}
			report.Updated++

		case isNotFound(err):
			order := marketplace.NewOrderFromRemote(creds.TenantID, creds.Marketplace, ro)
			if err := s.orders.Save(ctx, order); err != nil {
				s.logger.Error("order sync: create failed",
					zap.String("external_id", ro.ExternalID),
					zap.Error(err),
				)
				report.Failed++
				continue
			}
			report.Created++

		default:
			report.Failed++
		}
	}

	if report.Created > 0 {
		s.notifier.Notify(ctx, shared.Notification{
			TenantID: creds.TenantID,
			Level:    shared.NotificationLevelInfo,
			Title:    "New orders",
			Message:  creds.Marketplace.DisplayName() + " delivered new orders",
		})
	}
	return report, nil
}

// SyncStatuses refreshes the status of every non-terminal local order
// from the marketplace.
func (s *OrderService) SyncStatuses(ctx context.Context, creds marketplace.Credentials) (*SyncReport, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	externalIDs, err := s.orders.FindOpenExternalIDs(ctx, creds.TenantID, creds.Marketplace)
	if err != nil {
		return nil, err
	}
	report := &SyncReport{Marketplace: creds.Marketplace.String(), Fetched: len(externalIDs)}
	if len(externalIDs) == 0 {
		return report, nil
	}

	provider := s.registry.Provider(creds.Marketplace)
	statuses, err := provider.OrderStatuses(ctx, creds, externalIDs)
	if err != nil {
		return nil, err
	}

	for externalID, status := range statuses {
		order, err := s.orders.FindByExternalID(ctx, creds.TenantID, creds.Marketplace, externalID)
		if err != nil {
			report.Failed++
			continue
		}
		if !order.ApplyRemoteStatus(status) {
			report.Skipped++
			continue
		}
		if err := s.orders.Save(ctx, order); err != nil {
			s.logger.Error("order status sync: save failed",
				zap.String("external_id", externalID),
				zap.Error(err),
			)
			report.Failed++
			continue
		}
		report.Updated++
	}
	return report, nil
}

// Cancel cancels an order. The cancellation is propagated to the
// marketplace first; the local mirror only changes after the
// marketplace accepted it.
func (s *OrderService) Cancel(ctx context.Context, creds marketplace.Credentials, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, creds.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, shared.NewDomainError("ORDER_TERMINAL", "order is already in a terminal state")
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	if err := provider.CancelOrder(ctx, creds, order.ExternalID); err != nil {
		if errors.Is(err, marketplace.ErrOrderNotFound) {
			// Unknown remotely means nothing to cancel there; fall
			// through and cancel the stale local mirror.
			s.logger.Warn("cancel: order unknown on marketplace",
				zap.String("external_id", order.ExternalID),
			)
		} else {
			return nil, shared.NewDomainError("CANCEL_REJECTED", err.Error())
		}
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}
