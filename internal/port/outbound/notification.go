package outbound

import (
	"context"

	"github.com/homerent/server/internal/model"
)

// SubscriptionNotifierPort defines subscription email notifications.
type SubscriptionNotifierPort interface {
	// SendRenewalSucceeded notifies the user of a successful auto-renewal.
	SendRenewalSucceeded(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error

	// SendRenewalFailed notifies the user that auto-renewal could not be charged.
	SendRenewalFailed(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error
}
