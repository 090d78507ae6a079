package email

import (
	"context"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"go.uber.org/zap"
)

// NoopNotifier logs notifications instead of sending them. Used when SMTP is not configured.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a notifier that only logs.
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) SendRenewalSucceeded(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	n.logger.Debug("email disabled, skipping renewal receipt",
		zap.String("user_id", user.ID.String()),
		zap.String("subscription_id", sub.ID.String()),
	)
	return nil
}

func (n *NoopNotifier) SendRenewalFailed(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	n.logger.Debug("email disabled, skipping renewal failure notice",
		zap.String("user_id", user.ID.String()),
		zap.String("subscription_id", sub.ID.String()),
	)
	return nil
}

// Compile-time check
var _ outbound.SubscriptionNotifierPort = (*NoopNotifier)(nil)
