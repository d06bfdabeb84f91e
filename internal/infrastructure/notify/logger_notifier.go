// Package notify delivers user-facing alerts produced by sync work.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/shared"
)

// LoggerNotifier writes notifications to the structured log. It stands
// in for an outbound notification channel until one is wired up and
// keeps alert delivery observable in the meantime.
type LoggerNotifier struct {
	logger *zap.Logger
}

var _ shared.Notifier = (*LoggerNotifier)(nil)

// NewLoggerNotifier creates a log-backed notifier.
func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger.Named("notify")}
}

// Notify logs the notification at a level matching its severity.
func (n *LoggerNotifier) Notify(ctx context.Context, notification shared.Notification) {
	fields := []zap.Field{
		zap.String("tenant_id", notification.TenantID.String()),
		zap.String("level", string(notification.Level)),
		zap.String("title", notification.Title),
		zap.String("message", notification.Message),
	}
	switch notification.Level {
	case shared.NotificationLevelError:
		n.logger.Error("notification", fields...)
	case shared.NotificationLevelWarning:
		n.logger.Warn("notification", fields...)
	default:
		n.logger.Info("notification", fields...)
	}
}
