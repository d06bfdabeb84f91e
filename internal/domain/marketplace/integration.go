package marketplace

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerhub/backend/internal/domain/shared"
)

var (
	ErrIntegrationInvalidTenant = errors.New("marketplace: invalid tenant ID")
	ErrIntegrationInvalidCode   = errors.New("marketplace: invalid marketplace code")
)

// ImportSettings are the pull-side feature toggles of an integration.
type ImportSettings struct {
	Enabled      bool `json:"enabled"`
	ImportOrders bool `json:"import_orders"`
	UpdatePrices bool `json:"update_prices"`
	UpdateStocks bool `json:"update_stocks"`
}

// ExportSettings are the push-side feature toggles of an integration.
type ExportSettings struct {
	Enabled      bool `json:"enabled"`
	UpdatePrices bool `json:"update_prices"`
	UpdateStocks bool `json:"update_stocks"`
}

// Settings is the typed configuration of an integration. Credential
// fields are validated once at the boundary; downstream code never
// probes a loose settings blob.
type Settings struct {
	ClientID    string         `json:"client_id"`
	APIKey      string         `json:"api_key"`
	WarehouseID string         `json:"warehouse_id"`
	Import      ImportSettings `json:"import"`
	Export      ExportSettings `json:"export"`
}

// HasCredentials reports whether the settings carry a usable token.
func (s Settings) HasCredentials() bool {
	return s.APIKey != ""
}

// Integration is a tenant's configured connection to one marketplace.
// It is created lazily per (tenant, marketplace) pair and never hard
// deleted; Published toggles it on and off.
type Integration struct {
	shared.TenantEntity
	Marketplace Code
	Settings    Settings
	PriceListID *uuid.UUID
	TaxRate     decimal.Decimal
	Published   bool
}

// NewIntegration creates an unpublished integration with empty settings.
func NewIntegration(tenantID uuid.UUID, code Code) (*Integration, error) {
	if tenantID == uuid.Nil {
		return nil, ErrIntegrationInvalidTenant
	}
	if !code.IsValid() {
		return nil, ErrIntegrationInvalidCode
	}
	return &Integration{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Marketplace:  code,
	}, nil
}

// UpdateSettings replaces the integration settings.
func (i *Integration) UpdateSettings(s Settings) {
	i.Settings = s
	i.Touch()
}

// BindPriceList binds the integration to a price list.
func (i *Integration) BindPriceList(priceListID uuid.UUID) {
	i.PriceListID = &priceListID
	i.Touch()
}

// Publish enables the integration for sync.
func (i *Integration) Publish() {
	i.Published = true
	i.Touch()
}

// Unpublish disables the integration without deleting it.
func (i *Integration) Unpublish() {
	i.Published = false
	i.Touch()
}

// Credentials extracts only the credential fields sync jobs need. The
// full settings blob never travels in job payloads.
func (i *Integration) Credentials() Credentials {
	return Credentials{
		TenantID:    i.TenantID,
		Marketplace: i.Marketplace,
		ClientID:    i.Settings.ClientID,
		APIKey:      i.Settings.APIKey,
		WarehouseID: i.Settings.WarehouseID,
	}
}

// Credentials is the fixed-schema per-tenant credential record carried
// by sync job payloads.
type Credentials struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	Marketplace Code      `json:"marketplace"`
	ClientID    string    `json:"client_id"`
	APIKey      string    `json:"api_key"`
	WarehouseID string    `json:"warehouse_id"`
}

// Validate reports the token-required condition for unusable credentials.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return ErrTokenRequired
	}
	return nil
}

// IntegrationFilter narrows integration queries.
type IntegrationFilter struct {
	Marketplace  *Code
	Published    *bool
	ImportOrders *bool
	ImportOn     *bool
	ExportOn     *bool
}

// IntegrationRepository persists integrations.
type IntegrationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Integration, error)
	FindByTenantAndCode(ctx context.Context, tenantID uuid.UUID, code Code) (*Integration, error)
	FindAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]Integration, error)

	// FindActive lists integrations across all tenants matching the
	// filter; the orchestrator uses it to build per-tick credential lists.
	FindActive(ctx context.Context, filter IntegrationFilter) ([]Integration, error)

	Save(ctx context.Context, integration *Integration) error
}
