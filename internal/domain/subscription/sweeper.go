package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/homerent/server/internal/model"
	"go.uber.org/zap"
)

// Sweep job names.
const (
	JobAutoRenew = "auto-renew"
	JobExpiry    = "expiry"
)

const expirySweepNote = "auto-check"

// ErrSweepRunning is returned when a sweep is triggered while the same job is running.
var ErrSweepRunning = errors.New("sweep already running")

// RunAutoRenewSweep renews ACTIVE auto-renewing subscriptions whose end date
// falls within the renewal window, including ones already in their grace period.
// A subscription that cannot be charged gets an AUTO_RENEW_FAILED entry and is skipped.
func (d *Domain) RunAutoRenewSweep(ctx context.Context) (*model.SweepResult, error) {
	return d.runSweep(ctx, JobAutoRenew, func(ctx context.Context, result *model.SweepResult) error {
		settings, err := d.settings.Get(ctx)
		if err != nil {
			return err
		}

		now := d.now()
		deadline := now.Add(d.cfg.RenewalWindow)
		due, err := d.subscriptionDB.ListDueForRenewal(ctx, deadline)
		if err != nil {
			return err
		}
		result.Scanned = len(due)

		for _, sub := range due {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if now.After(sub.GraceDeadline(settings.GracePeriodDays)) {
				// Lapsed beyond grace; left for the expiry sweep.
				result.Skipped++
				continue
			}

			switch err := d.autoRenew(ctx, sub, settings.MonthlyFee, deadline); {
			case err == nil:
				result.Succeeded++
			case errors.Is(err, ErrInsufficientBalance), errors.Is(err, errRowChanged):
				result.Skipped++
			default:
				result.Failed++
				d.logger.Error("auto-renew failed",
					zap.String("subscription_id", sub.ID.String()),
					zap.String("user_id", sub.UserID.String()),
					zap.Error(err),
				)
			}
		}
		return nil
	})
}

// RunExpirySweep expires ACTIVE subscriptions whose grace period has elapsed.
func (d *Domain) RunExpirySweep(ctx context.Context) (*model.SweepResult, error) {
	return d.runSweep(ctx, JobExpiry, func(ctx context.Context, result *model.SweepResult) error {
		settings, err := d.settings.Get(ctx)
		if err != nil {
			return err
		}

		cutoff := d.now().AddDate(0, 0, -settings.GracePeriodDays)
		expired, err := d.subscriptionDB.ListActiveEndedBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		result.Scanned = len(expired)

		for _, sub := range expired {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, err := d.expire(ctx, sub, settings.GracePeriodDays, expirySweepNote)
			if errors.Is(err, errRowChanged) {
				result.Skipped++
				continue
			}
			if err != nil {
				result.Failed++
				d.logger.Error("failed to expire subscription",
					zap.String("subscription_id", sub.ID.String()),
					zap.String("user_id", sub.UserID.String()),
					zap.Error(err),
				)
				continue
			}
			result.Succeeded++
		}
		return nil
	})
}

// RunSweep runs the named job.
func (d *Domain) RunSweep(ctx context.Context, job string) (*model.SweepResult, error) {
	switch job {
	case JobAutoRenew:
		return d.RunAutoRenewSweep(ctx)
	case JobExpiry:
		return d.RunExpirySweep(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown sweep job %q", ErrInvalidRequest, job)
	}
}

func (d *Domain) runSweep(ctx context.Context, job string, fn func(ctx context.Context, result *model.SweepResult) error) (*model.SweepResult, error) {
	mu := d.sweepMus[job]
	if !mu.TryLock() {
		return nil, ErrSweepRunning
	}
	defer mu.Unlock()

	start := time.Now()
	result := &model.SweepResult{Job: job}
	err := fn(ctx, result)
	result.Duration = time.Since(start)

	d.observer.ObserveSweep(result)
	if err != nil {
		d.logger.Error("sweep aborted", zap.String("job", job), zap.Error(err))
		return result, err
	}

	d.logger.Info("sweep finished",
		zap.String("job", job),
		zap.Int("scanned", result.Scanned),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// autoRenew charges the fee and extends sub by one month. The row is locked
// and must still be ACTIVE, auto-renewing and due by deadline, otherwise
// errRowChanged is returned and nothing is charged. On insufficient balance
// it records AUTO_RENEW_FAILED, notifies the user and returns
// ErrInsufficientBalance.
func (d *Domain) autoRenew(ctx context.Context, sub *model.LandlordSubscription, fee int64, deadline time.Time) error {
	user, err := d.userDB.GetByID(ctx, sub.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if _, err := nextStatus(sub.Status, model.HistoryActionAutoRenewed); err != nil {
		return err
	}

	if !user.CanAfford(fee) {
		return d.recordAutoRenewFailure(ctx, sub, user, fee)
	}

	var renewed *model.LandlordSubscription
	err = d.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		locked, err := d.lock(txCtx, sub)
		if err != nil {
			return err
		}
		if !locked.IsActive() || !locked.AutoRenew || locked.EndDate.After(deadline) {
			return errRowChanged
		}
		prev := locked.Status
		next, err := nextStatus(prev, model.HistoryActionAutoRenewed)
		if err != nil {
			return err
		}

		entry := newEntry(locked, model.HistoryActionAutoRenewed).statuses(prev, next).amount(fee).note("auto-renewed for 1 month")
		if fee > 0 {
			payment, err := d.chargeUser(txCtx, locked.UserID, fee, locked.ID, "Landlord subscription auto-renewal")
			if err != nil {
				return err
			}
			entry.PaymentID = &payment.ID
		}

		locked.Status = next
		locked.EndDate = locked.EndDate.AddDate(0, 1, 0)
		locked.IsFreeTrial = false
		locked.Amount = fee
		if err := d.subscriptionDB.Update(txCtx, locked); err != nil {
			return translateWriteError(err)
		}
		if _, err := d.history.Record(txCtx, entry); err != nil {
			return err
		}
		renewed = locked
		return nil
	})
	if errors.Is(err, ErrInsufficientBalance) {
		// Balance changed between the read and the conditional debit.
		return d.recordAutoRenewFailure(ctx, sub, user, fee)
	}
	if err != nil {
		return err
	}
	d.observer.ObserveTransition(model.HistoryActionAutoRenewed)

	if err := d.notifier.SendRenewalSucceeded(ctx, user, renewed, fee); err != nil {
		d.logger.Warn("failed to send auto-renew email",
			zap.String("subscription_id", renewed.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

func (d *Domain) recordAutoRenewFailure(ctx context.Context, sub *model.LandlordSubscription, user *model.User, fee int64) error {
	note := fmt.Sprintf("insufficient balance: have %d, need %d", user.Balance, fee)
	entry := newEntry(sub, model.HistoryActionAutoRenewFailed).statuses(sub.Status, sub.Status).amount(fee).note(note)
	if _, err := d.history.Record(ctx, entry); err != nil {
		return err
	}
	d.observer.ObserveTransition(model.HistoryActionAutoRenewFailed)

	if err := d.notifier.SendRenewalFailed(ctx, user, sub, fee); err != nil {
		d.logger.Warn("failed to send auto-renew failure email",
			zap.String("subscription_id", sub.ID.String()),
			zap.Error(err),
		)
	}
	return ErrInsufficientBalance
}
