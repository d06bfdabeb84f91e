package marketplace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// SupplyService manages shipment containers. At most one supply per
// (tenant, marketplace, order type) is open at a time; opening is
// idempotent and closing is irreversible.
type SupplyService struct {
	supplies marketplace.SupplyRepository
	orders   marketplace.OrderRepository
	registry marketplace.Registry
	logger   *zap.Logger
}

// NewSupplyService creates a new SupplyService.
func NewSupplyService(
	supplies marketplace.SupplyRepository,
	orders marketplace.OrderRepository,
	registry marketplace.Registry,
	logger *zap.Logger,
) *SupplyService {
	return &SupplyService{
		supplies: supplies,
		orders:   orders,
		registry: registry,
		logger:   logger,
	}
}

// List returns the supplies known for the marketplace.
func (s *SupplyService) List(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) ([]SupplyResponse, error) {
	supplies, err := s.supplies.FindAll(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	out := make([]SupplyResponse, 0, len(supplies))
	for i := range supplies {
		out = append(out, *toSupplyResponse(&supplies[i]))
	}
	return out, nil
}

// Open returns the open supply for the order type, opening one on the
// marketplace only when none exists. Calling Open twice in a row
// returns the same supply.
func (s *SupplyService) Open(ctx context.Context, creds marketplace.Credentials, orderType marketplace.OrderType) (*SupplyResponse, error) {
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid order type")
	}

	existing, err := s.supplies.FindOpen(ctx, creds.TenantID, creds.Marketplace, orderType)
	if err == nil {
		return toSupplyResponse(existing), nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	provider := s.registry.Provider(creds.Marketplace)
	remote, err := provider.OpenSupply(ctx, creds, orderType)
	if err != nil {
		return nil, shared.NewDomainError("SUPPLY_OPEN_FAILED", err.Error())
	}

	supply := marketplace.NewSupply(creds.TenantID, creds.Marketplace, orderType, *remote)
	if err := s.supplies.Save(ctx, supply); err != nil {
		return nil, err
	}
	return toSupplyResponse(supply), nil
}

// Close finalizes a supply. The close is propagated to the marketplace
// first; the local record flips to closed only after the marketplace
// accepted it, so a remote failure leaves the supply reopenable.
func (s *SupplyService) Close(ctx context.Context, creds marketplace.Credentials, supplyID uuid.UUID) (*SupplyResponse, error) {
	supply, err := s.supplies.FindByID(ctx, creds.TenantID, supplyID)
	if err != nil {
		return nil, err
	}
	if supply.IsClosed() {
		return nil, shared.NewDomainError("SUPPLY_CLOSED", "supply is already closed")
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	if err := provider.CloseSupply(ctx, creds, supply.ExternalID); err != nil {
		return nil, shared.NewDomainError("SUPPLY_CLOSE_FAILED", err.Error())
	}

	if err := supply.Close(); err != nil {
		return nil, err
	}
	if err := s.supplies.Save(ctx, supply); err != nil {
		return nil, err
	}
	return toSupplyResponse(supply), nil
}

// AttachOrder associates a mirrored order with an open supply.
func (s *SupplyService) AttachOrder(ctx context.Context, tenantID, supplyID, orderID uuid.UUID) (*OrderResponse, error) {
	supply, err := s.supplies.FindByID(ctx, tenantID, supplyID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AttachToSupply(supply); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Sync reconciles remote supplies into the local mirror, closing local
// records the marketplace reports as finalized.
func (s *SupplyService) Sync(ctx context.Context, creds marketplace.Credentials) (*SyncReport, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	provider := s.registry.Provider(creds.Marketplace)
	remote, err := provider.Supplies(ctx, creds)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Marketplace: creds.Marketplace.String(), Fetched: len(remote)}
	for _, rs := range remote {
		existing, err := s.supplies.FindByExternalID(ctx, creds.TenantID, creds.Marketplace, rs.ExternalID)
		switch {
		case err == nil:
			if !rs.Closed || existing.IsClosed() {
				report.Skipped++
				continue
			}
			if err := existing.Close(); err != nil {
				report.Failed++
				continue
			}
			if err := s.supplies.Save(ctx, existing); err != nil {
				s.logger.Error("supply sync: save failed",
					zap.String("external_id", rs.ExternalID),
					zap.Error(err),
				)
				report.Failed++
				continue
			}
			report.Updated++

		case isNotFound(err):
			supply := marketplace.NewSupply(creds.TenantID, creds.Marketplace, rs.OrderType, rs)
			if rs.Closed {
				if err := supply.Close(); err != nil {
					report.Failed++
					continue
				}
			}
			if err := s.supplies.Save(ctx, supply); err != nil {
				s.logger.Error("supply sync: create failed",
					zap.String("external_id", rs.ExternalID),
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
	return report, nil
}
