package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"go.uber.org/zap"
)

const lazyExpiryNote = "grace period elapsed"

func (d *Domain) HasUsedFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error) {
	return d.subscriptionDB.HasFreeTrial(ctx, userID)
}

func (d *Domain) CheckEligibility(ctx context.Context, userID uuid.UUID) (*model.EligibilityOutput, error) {
	active, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := d.subscriptionDB.HasFreeTrial(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &model.EligibilityOutput{
		CanSubscribe:          active == nil,
		CanUseFreeTrialAgain:  !used,
		HasActiveSubscription: active != nil,
	}
	switch {
	case active != nil:
		out.Message = "You already have an active subscription"
	case used:
		out.Message = "You can subscribe to a paid plan; the free trial has already been used"
	default:
		out.Message = "You can subscribe to any plan, including the free trial"
	}
	return out, nil
}

// CheckAccess is the gate for landlord-only features. An ACTIVE subscription
// past its grace period is expired as a side effect.
func (d *Domain) CheckAccess(ctx context.Context, userID uuid.UUID) (*model.AccessOutput, error) {
	return d.checkAccess(ctx, userID, true)
}

func (d *Domain) checkAccess(ctx context.Context, userID uuid.UUID, retry bool) (*model.AccessOutput, error) {
	settings, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	used, err := d.subscriptionDB.HasFreeTrial(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &model.AccessOutput{
		CanUseFreeTrialAgain: !used,
		HasUsedFreeTrial:     used,
	}

	active, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !settings.Enabled {
		out.HasAccess = true
		out.Subscription = active
		out.Message = "Subscription enforcement is disabled"
		return out, nil
	}

	if active == nil {
		latest, err := d.subscriptionDB.GetLatestByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		out.Subscription = latest
		switch {
		case latest == nil:
			out.Message = "No subscription found"
		case latest.Status == model.SubscriptionStatusSuspended:
			out.Message = "Your subscription is suspended"
		default:
			out.Message = "Your subscription is no longer active"
		}
		return out, nil
	}

	now := d.now()
	if now.After(active.GraceDeadline(settings.GracePeriodDays)) {
		expired, err := d.expire(ctx, active, settings.GracePeriodDays, lazyExpiryNote)
		if errors.Is(err, errRowChanged) && retry {
			// Renewed or closed meanwhile; evaluate the fresh row.
			return d.checkAccess(ctx, userID, false)
		}
		if err != nil {
			return nil, err
		}
		d.logger.Info("landlord subscription expired on access check",
			zap.String("user_id", userID.String()),
			zap.String("subscription_id", active.ID.String()),
		)
		out.Subscription = expired
		out.Message = "Your subscription has expired"
		return out, nil
	}

	out.HasAccess = true
	out.Subscription = active
	if now.After(active.EndDate) {
		out.InGracePeriod = true
		out.Message = "Your subscription has ended; access continues during the grace period"
	}
	return out, nil
}

// expire moves an ACTIVE subscription past its grace period to EXPIRED and
// records it. The grace deadline is checked again on the locked row.
func (d *Domain) expire(ctx context.Context, sub *model.LandlordSubscription, graceDays int, note string) (*model.LandlordSubscription, error) {
	return d.applyTransition(ctx, sub, model.HistoryActionExpired, note, func(locked *model.LandlordSubscription, now time.Time) error {
		if !now.After(locked.GraceDeadline(graceDays)) {
			return errRowChanged
		}
		return nil
	})
}
