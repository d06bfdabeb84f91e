package shared

import (
	"context"

	"github.com/google/uuid"
)

// NotificationLevel indicates how a notification should be presented.
type NotificationLevel string

const (
	NotificationLevelInfo    NotificationLevel = "info"
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelWarning NotificationLevel = "warning"
	NotificationLevelError   NotificationLevel = "error"
)

// Notification is a user-facing alert produced by background sync work.
type Notification struct {
	TenantID uuid.UUID
	Level    NotificationLevel
	Title    string
	Message  string
}

// Notifier delivers user-facing notifications. Delivery is
// fire-and-forget from the caller's perspective: implementations must
// not block sync work on delivery failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
