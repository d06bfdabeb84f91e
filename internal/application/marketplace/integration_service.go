package marketplace

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// IntegrationService manages per-tenant marketplace connections.
// Integrations are created lazily: reading the settings of a
// marketplace the tenant never configured yields a fresh unpublished
// integration instead of a not-found error.
type IntegrationService struct {
	integrations marketplace.IntegrationRepository
	registry     marketplace.Registry
}

// NewIntegrationService creates a new IntegrationService.
func NewIntegrationService(
	integrations marketplace.IntegrationRepository,
	registry marketplace.Registry,
) *IntegrationService {
	return &IntegrationService{
		integrations: integrations,
		registry:     registry,
	}
}

// List returns one entry per known marketplace, materializing missing
// integrations on the fly so the UI always shows the full set.
func (s *IntegrationService) List(ctx context.Context, tenantID uuid.UUID) ([]IntegrationResponse, error) {
	out := make([]IntegrationResponse, 0, len(marketplace.AllCodes()))
	for _, code := range marketplace.AllCodes() {
		integration, err := s.getOrCreate(ctx, tenantID, code)
		if err != nil {
			return nil, err
		}
		out = append(out, *toIntegrationResponse(integration))
	}
	return out, nil
}

// Get returns the integration for the marketplace, creating it lazily.
func (s *IntegrationService) Get(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*IntegrationResponse, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	return toIntegrationResponse(integration), nil
}

// UpdateSettings replaces the settings of the integration.
func (s *IntegrationService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, code marketplace.Code, req UpdateSettingsRequest) (*IntegrationResponse, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	integration.UpdateSettings(req.Settings)
	if req.PriceListID != nil {
		integration.BindPriceList(*req.PriceListID)
	}
	if req.TaxRate != nil {
		integration.TaxRate = *req.TaxRate
	}

	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	return toIntegrationResponse(integration), nil
}

// Publish enables the integration. Publishing without credentials is
// rejected so sync jobs never start against an unusable connection.
func (s *IntegrationService) Publish(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*IntegrationResponse, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if !integration.Settings.HasCredentials() {
		return nil, shared.NewDomainError("TOKEN_REQUIRED", "API token must be configured before publishing")
	}
	integration.Publish()
	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	return toIntegrationResponse(integration), nil
}

// Unpublish disables the integration without deleting its settings.
func (s *IntegrationService) Unpublish(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*IntegrationResponse, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	integration.Unpublish()
	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	return toIntegrationResponse(integration), nil
}

// CheckConnection probes the marketplace with the stored credentials.
func (s *IntegrationService) CheckConnection(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*CheckConnectionResponse, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	creds := integration.Credentials()
	if err := creds.Validate(); err != nil {
		return nil, shared.NewDomainError("TOKEN_REQUIRED", "API token is not configured")
	}

	provider := s.registry.Provider(code)
	count, err := provider.CheckConnection(ctx, creds)
	if err != nil {
		if errors.Is(err, marketplace.ErrTokenRequired) {
			return nil, shared.NewDomainError("TOKEN_REQUIRED", "marketplace rejected the API token")
		}
		return nil, shared.NewDomainError("CONNECTION_FAILED", err.Error())
	}

	return &CheckConnectionResponse{Connected: true, ProductCount: count}, nil
}

// Credentials resolves the stored credentials for provider-facing
// calls made on behalf of an API request.
func (s *IntegrationService) Credentials(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (marketplace.Credentials, error) {
	integration, err := s.getOrCreate(ctx, tenantID, code)
	if err != nil {
		return marketplace.Credentials{}, err
	}
	creds := integration.Credentials()
	if err := creds.Validate(); err != nil {
		return marketplace.Credentials{}, shared.NewDomainError("TOKEN_REQUIRED", "API token is not configured")
	}
	return creds, nil
}

// getOrCreate loads the integration or materializes a fresh one.
func (s *IntegrationService) getOrCreate(ctx context.Context, tenantID uuid.UUID, code marketplace.Code) (*marketplace.Integration, error) {
	integration, err := s.integrations.FindByTenantAndCode(ctx, tenantID, code)
	if err == nil {
		return integration, nil
	}
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != shared.ErrNotFound.Code {
		return nil, err
	}

	integration, err = marketplace.NewIntegration(tenantID, code)
	if err != nil {
		return nil, err
	}
	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}
