package invite

import (
	"context"
	"log/slog"
)

// LogNotifications writes notifications to the log instead of sending email.
// Used in dev wiring when no delivery provider is configured.
type LogNotifications struct {
	logger *slog.Logger
}

func NewLogNotifications(logger *slog.Logger) *LogNotifications {
	return &LogNotifications{logger: logger}
}

func (n *LogNotifications) Send(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, "notification (log delivery)",
		"recipient", notification.Recipient,
		"subject", notification.Subject,
		"template", notification.Template,
	)
	return nil
}
