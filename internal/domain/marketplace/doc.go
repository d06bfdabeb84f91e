// Package marketplace contains the marketplace integration domain: the
// provider port that every external marketplace adapter implements, the
// integration/credential model, mirrored orders and supplies, listings
// and marketplace-scoped reference dictionaries.
//
// Concrete provider adapters (Ozon, Wildberries) live in
// internal/infrastructure/marketplace following the ports-and-adapters
// pattern; this package only defines contracts and domain rules.
package marketplace
