package marketplace

import "errors"

var (
	// ErrTokenRequired is the distinguished credential error: the
	// integration has no token or the marketplace rejected it. The
	// orchestrator logs it and continues with the remaining tenants;
	// interactive flows surface it as a prompt to re-enter credentials.
	ErrTokenRequired = errors.New("marketplace: API token required or invalid")

	// ErrProviderNotFound is returned by the registry for an unknown code.
	ErrProviderNotFound = errors.New("marketplace: provider not found")

	// ErrUnavailable indicates a transport-level failure reaching the
	// marketplace API.
	ErrUnavailable = errors.New("marketplace: temporarily unavailable")

	// ErrRequestFailed indicates the marketplace returned an error response.
	ErrRequestFailed = errors.New("marketplace: request failed")

	// ErrInvalidResponse indicates an unparsable marketplace response.
	ErrInvalidResponse = errors.New("marketplace: invalid response")

	// ErrRateLimited indicates the marketplace throttled the caller.
	ErrRateLimited = errors.New("marketplace: rate limited")

	ErrIntegrationNotFound = errors.New("marketplace: integration not found")
	ErrOrderNotFound       = errors.New("marketplace: order not found")
	ErrSupplyNotFound      = errors.New("marketplace: supply not found")
	ErrListingNotFound     = errors.New("marketplace: listing not found")
	ErrDictionaryNotFound  = errors.New("marketplace: dictionary entry not found")
)
