package marketplace

// Code identifies an external marketplace.
type Code string

const (
	// CodeOzon represents the Ozon marketplace
	CodeOzon Code = "OZON"
	// CodeWildberries represents the Wildberries marketplace
	CodeWildberries Code = "WILDBERRIES"
	// CodeNone represents the absence of a configured marketplace; the
	// no-op provider serves it.
	CodeNone Code = "NONE"
)

// IsValid returns true if the code names a known marketplace
func (c Code) IsValid() bool {
	switch c {
	case CodeOzon, CodeWildberries, CodeNone:
		return true
	default:
		return false
	}
}

// String returns the string representation of Code
func (c Code) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the marketplace
func (c Code) DisplayName() string {
	switch c {
	case CodeOzon:
		return "Ozon"
	case CodeWildberries:
		return "Wildberries"
	case CodeNone:
		return "Not configured"
	default:
		return string(c)
	}
}

// AllCodes lists the marketplaces a tenant can integrate with.
func AllCodes() []Code {
	return []Code{CodeOzon, CodeWildberries}
}
