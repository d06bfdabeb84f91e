package ecommerce

import (
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

// ProviderRegistry resolves marketplace adapters by code. Unknown codes
// resolve to a shared no-op default.
type ProviderRegistry struct {
	providers map[marketplace.Code]marketplace.Provider
	fallback  marketplace.Provider
}

var _ marketplace.Registry = (*ProviderRegistry)(nil)

// NewProviderRegistry builds the registry with every configured
// adapter registered.
func NewProviderRegistry(cfg config.MarketplacesConfig, logger *zap.Logger) *ProviderRegistry {
	registry := &ProviderRegistry{
		providers: make(map[marketplace.Code]marketplace.Provider),
		fallback:  NewNoopProvider(marketplace.CodeNone),
	}
	registry.Register(NewOzonProvider(cfg.Ozon, logger))
	registry.Register(NewWildberriesProvider(cfg.Wildberries, logger))
	return registry
}

// Register adds or replaces the adapter for its code.
func (r *ProviderRegistry) Register(provider marketplace.Provider) {
	r.providers[provider.Code()] = provider
}

// Provider returns the adapter for the code, or the no-op default.
func (r *ProviderRegistry) Provider(code marketplace.Code) marketplace.Provider {
	if provider, ok := r.providers[code]; ok {
		return provider
	}
	return r.fallback
}

// Providers returns all registered adapters, excluding the default.
func (r *ProviderRegistry) Providers() []marketplace.Provider {
	providers := make([]marketplace.Provider, 0, len(r.providers))
	for _, provider := range r.providers {
		providers = append(providers, provider)
	}
	return providers
}
