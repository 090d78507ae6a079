package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"go.uber.org/zap"
)

const (
	defaultAdminPageSize = 20
	maxAdminPageSize     = 100
)

func (d *Domain) AdminList(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error) {
	if filter == nil {
		filter = &model.SubscriptionFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultAdminPageSize
	}
	if filter.Limit > maxAdminPageSize {
		filter.Limit = maxAdminPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidRequest
	}
	return d.subscriptionDB.List(ctx, filter)
}

func (d *Domain) AdminStats(ctx context.Context) (*model.SubscriptionStats, error) {
	return d.subscriptionDB.Stats(ctx, d.now())
}

func (d *Domain) AdminGet(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	sub, err := d.subscriptionDB.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (d *Domain) AdminSuspend(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	return d.adminTransition(ctx, adminID, id, model.HistoryActionAdminSuspended, noteOr(reason, "suspended by admin"),
		func(sub *model.LandlordSubscription, now time.Time) error {
			sub.SuspendedAt = &now
			sub.StatusReason = reason
			return nil
		})
}

func (d *Domain) AdminReactivate(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	return d.adminTransition(ctx, adminID, id, model.HistoryActionAdminReactivated, noteOr(reason, "reactivated by admin"),
		func(sub *model.LandlordSubscription, _ time.Time) error {
			sub.SuspendedAt = nil
			sub.StatusReason = reason
			return nil
		})
}

func (d *Domain) AdminCancel(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	return d.adminTransition(ctx, adminID, id, model.HistoryActionAdminCanceled, noteOr(reason, "canceled by admin"),
		func(sub *model.LandlordSubscription, now time.Time) error {
			sub.AutoRenew = false
			sub.CanceledAt = &now
			sub.StatusReason = reason
			return nil
		})
}

// AdminRenew extends a subscription free of charge from the later of its end
// date and now, forcing it back to ACTIVE from any status.
func (d *Domain) AdminRenew(ctx context.Context, adminID, id uuid.UUID, in *model.AdminRenewInput) (*model.LandlordSubscription, error) {
	months := 1
	reason := ""
	if in != nil {
		if in.Months < 0 {
			return nil, ErrInvalidRequest
		}
		if in.Months > 0 {
			months = in.Months
		}
		reason = in.Reason
	}

	note := noteOr(reason, fmt.Sprintf("renewed by admin for %d month(s)", months))
	return d.adminTransition(ctx, adminID, id, model.HistoryActionAdminRenewed, note,
		func(sub *model.LandlordSubscription, now time.Time) error {
			base := sub.EndDate
			if now.After(base) {
				base = now
			}
			sub.EndDate = base.AddDate(0, months, 0)
			sub.IsFreeTrial = false
			sub.SuspendedAt = nil
			sub.CanceledAt = nil
			sub.StatusReason = reason
			return nil
		})
}

func (d *Domain) AdminHistory(ctx context.Context, id uuid.UUID) ([]*model.SubscriptionHistory, error) {
	if _, err := d.AdminGet(ctx, id); err != nil {
		return nil, err
	}
	return d.history.ListBySubscription(ctx, id)
}

// adminTransition applies action to any subscription. Other rows of the same
// user already holding the target status are demoted to EXPIRED first.
func (d *Domain) adminTransition(
	ctx context.Context,
	adminID, id uuid.UUID,
	action model.HistoryAction,
	note string,
	mutate mutation,
) (*model.LandlordSubscription, error) {
	sub, err := d.AdminGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := nextStatus(sub.Status, action); err != nil {
		return nil, fmt.Errorf("%w: cannot apply %s to %s subscription", ErrInvalidStateTransition, action, sub.Status)
	}

	var (
		updated *model.LandlordSubscription
		demoted int
	)
	err = d.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		locked, err := d.lock(txCtx, sub)
		if err != nil {
			return err
		}
		prev := locked.Status
		next, err := nextStatus(prev, action)
		if err != nil {
			return fmt.Errorf("%w: cannot apply %s to %s subscription", errRowChanged, action, prev)
		}

		others, err := d.subscriptionDB.DemoteOthers(txCtx, locked.UserID, locked.ID, next)
		if err != nil {
			return err
		}
		for _, other := range others {
			entry := newEntry(other, model.HistoryActionAdminDemoted).
				statuses(other.Status, model.SubscriptionStatusExpired).
				note(fmt.Sprintf("demoted before %s of %s", action, locked.ID))
			entry.PerformedBy = &adminID
			if _, err := d.history.Record(txCtx, entry); err != nil {
				return err
			}
		}

		if err := mutate(locked, d.now()); err != nil {
			return err
		}
		locked.Status = next
		if err := d.subscriptionDB.Update(txCtx, locked); err != nil {
			return translateWriteError(err)
		}

		entry := newEntry(locked, action).statuses(prev, next).note(note)
		entry.PerformedBy = &adminID
		if _, err := d.history.Record(txCtx, entry); err != nil {
			return err
		}
		updated = locked
		demoted = len(others)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < demoted; i++ {
		d.observer.ObserveTransition(model.HistoryActionAdminDemoted)
	}
	d.observer.ObserveTransition(action)
	d.logger.Info("admin subscription override",
		zap.String("admin_id", adminID.String()),
		zap.String("subscription_id", updated.ID.String()),
		zap.String("action", action.String()),
		zap.String("status", updated.Status.String()),
		zap.Int("demoted", demoted),
	)
	return updated, nil
}

func noteOr(note, fallback string) string {
	if note != "" {
		return note
	}
	return fallback
}

// --- Settings ---

func (d *Domain) GetSettings(ctx context.Context) (*model.SubscriptionSettings, error) {
	return d.settings.Get(ctx)
}

func (d *Domain) UpdateSettings(ctx context.Context, in *model.SettingsInput) (*model.SubscriptionSettings, error) {
	settings, err := d.settings.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	d.logger.Info("subscription settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.Int64("monthly_fee", settings.MonthlyFee),
		zap.Int("grace_period_days", settings.GracePeriodDays),
	)
	return settings, nil
}
