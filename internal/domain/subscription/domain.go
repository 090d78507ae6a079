package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/inbound"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/homerent/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

// Config holds lifecycle tunables.
type Config struct {
	// RenewalWindow is how far ahead of endDate auto-renewal is attempted.
	RenewalWindow time.Duration
}

// DefaultConfig returns the default lifecycle configuration.
func DefaultConfig() *Config {
	return &Config{RenewalWindow: 24 * time.Hour}
}

// Domain implements the landlord subscription lifecycle.
type Domain struct {
	planDB         outbound.PlanDatabasePort
	subscriptionDB outbound.SubscriptionDatabasePort
	paymentDB      outbound.PaymentDatabasePort
	userDB         outbound.UserDatabasePort
	tx             outbound.TransactionPort
	notifier       outbound.SubscriptionNotifierPort
	history        *HistoryRecorder
	settings       *SettingsProvider
	observer       Observer
	cfg            *Config
	logger         *zap.Logger

	now      func() time.Time
	sweepMus map[string]*sync.Mutex
}

// NewSubscriptionDomain creates a new subscription domain service.
func NewSubscriptionDomain(
	planDB outbound.PlanDatabasePort,
	subscriptionDB outbound.SubscriptionDatabasePort,
	paymentDB outbound.PaymentDatabasePort,
	userDB outbound.UserDatabasePort,
	tx outbound.TransactionPort,
	notifier outbound.SubscriptionNotifierPort,
	history *HistoryRecorder,
	settings *SettingsProvider,
	observer Observer,
	cfg *Config,
	logger *zap.Logger,
) *Domain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Domain{
		planDB:         planDB,
		subscriptionDB: subscriptionDB,
		paymentDB:      paymentDB,
		userDB:         userDB,
		tx:             tx,
		notifier:       notifier,
		history:        history,
		settings:       settings,
		observer:       observer,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
		sweepMus: map[string]*sync.Mutex{
			JobAutoRenew: {},
			JobExpiry:    {},
		},
	}
}

// Compile-time interface checks
var (
	_ inbound.SubscriptionDomain      = (*Domain)(nil)
	_ inbound.SubscriptionAdminDomain = (*Domain)(nil)
	_ inbound.SweeperDomain           = (*Domain)(nil)
)

// --- User lifecycle ---

func (d *Domain) Create(ctx context.Context, userID uuid.UUID, in *model.CreateSubscriptionInput) (*model.LandlordSubscription, error) {
	if in == nil || strings.TrimSpace(in.PlanID) == "" {
		return nil, ErrInvalidRequest
	}

	if err := d.ensureNoActive(ctx, userID); err != nil {
		return nil, err
	}

	plan, err := d.planDB.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanNotActive
	}

	if plan.IsFreeTrial {
		used, err := d.subscriptionDB.HasFreeTrial(ctx, userID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, ErrFreeTrialUsed
		}
	}

	charge := int64(0)
	if plan.IsPaid() && !plan.IsFreeTrial {
		charge = plan.Price
	}

	now := d.now()
	sub := &model.LandlordSubscription{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      plan.ID,
		PlanType:    plan.Name,
		Status:      model.SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     plan.EndDateFrom(now),
		Amount:      charge,
		IsFreeTrial: plan.IsFreeTrial,
		AutoRenew:   in.AutoRenew,
	}

	err = d.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		var paymentID *uuid.UUID
		if charge > 0 {
			payment, err := d.chargeUser(txCtx, userID, charge, sub.ID, fmt.Sprintf("Landlord subscription: %s", plan.Name))
			if err != nil {
				return err
			}
			paymentID = &payment.ID
		}

		if err := d.subscriptionDB.Create(txCtx, sub); err != nil {
			return translateWriteError(err)
		}

		entry := newEntry(sub, model.HistoryActionCreated).amount(charge).note(fmt.Sprintf("subscribed to %s", plan.Name))
		entry.NewStatus = model.SubscriptionStatusActive.Ptr()
		entry.PaymentID = paymentID
		_, err := d.history.Record(txCtx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.observer.ObserveTransition(model.HistoryActionCreated)
	d.logger.Info("landlord subscription created",
		zap.String("user_id", userID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.String("plan_id", plan.ID),
		zap.Int64("amount", charge),
		zap.String("request_id", requestctx.RequestID(ctx)),
	)

	sub.Plan = plan
	return sub, nil
}

func (d *Domain) Renew(ctx context.Context, userID uuid.UUID, paymentID *uuid.UUID) (*model.LandlordSubscription, error) {
	sub, err := d.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := nextStatus(sub.Status, model.HistoryActionRenewed); err != nil {
		return nil, err
	}

	settings, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	fee := settings.MonthlyFee

	var renewed *model.LandlordSubscription
	err = d.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		locked, err := d.lock(txCtx, sub)
		if err != nil {
			return err
		}
		prev := locked.Status
		next, err := nextStatus(prev, model.HistoryActionRenewed)
		if err != nil {
			return fmt.Errorf("%w: subscription is %s", errRowChanged, prev)
		}

		ref := paymentID
		if ref == nil && fee > 0 {
			payment, err := d.chargeUser(txCtx, userID, fee, locked.ID, "Landlord subscription renewal")
			if err != nil {
				return err
			}
			ref = &payment.ID
		}

		locked.Status = next
		locked.EndDate = locked.EndDate.AddDate(0, 1, 0)
		locked.IsFreeTrial = false
		locked.Amount = fee
		if err := d.subscriptionDB.Update(txCtx, locked); err != nil {
			return translateWriteError(err)
		}

		entry := newEntry(locked, model.HistoryActionRenewed).statuses(prev, next).amount(fee).note("renewed for 1 month")
		entry.PaymentID = ref
		if _, err := d.history.Record(txCtx, entry); err != nil {
			return err
		}
		renewed = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.observer.ObserveTransition(model.HistoryActionRenewed)
	d.logger.Info("landlord subscription renewed",
		zap.String("user_id", userID.String()),
		zap.String("subscription_id", renewed.ID.String()),
		zap.Time("end_date", renewed.EndDate),
	)
	return renewed, nil
}

func (d *Domain) Suspend(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	return d.userTransition(ctx, userID, model.HistoryActionSuspended, reason, func(sub *model.LandlordSubscription, now time.Time) error {
		sub.SuspendedAt = &now
		sub.StatusReason = reason
		return nil
	})
}

func (d *Domain) Cancel(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	return d.userTransition(ctx, userID, model.HistoryActionCanceled, reason, func(sub *model.LandlordSubscription, now time.Time) error {
		sub.AutoRenew = false
		sub.CanceledAt = &now
		sub.StatusReason = reason
		return nil
	})
}

func (d *Domain) ToggleAutoRenew(ctx context.Context, userID uuid.UUID, autoRenew bool) (*model.LandlordSubscription, error) {
	sub, err := d.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub.AutoRenew == autoRenew {
		return sub, nil
	}

	action := model.HistoryActionAutoRenewDisabled
	if autoRenew {
		action = model.HistoryActionAutoRenewEnabled
	}

	return d.applyTransition(ctx, sub, action, "", func(sub *model.LandlordSubscription, _ time.Time) error {
		sub.AutoRenew = autoRenew
		return nil
	})
}

func (d *Domain) GetMySubscription(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	sub, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	sub, err = d.subscriptionDB.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}
	return sub, nil
}

func (d *Domain) ListMyHistory(ctx context.Context, userID uuid.UUID, page *model.PaginationRequest) ([]*model.SubscriptionHistory, int64, error) {
	if page == nil {
		page = &model.PaginationRequest{}
	}
	page.DefaultPagination()
	return d.history.ListByUser(ctx, userID, page)
}

// --- Helpers ---

// requireActive returns the user's ACTIVE subscription. A user whose latest
// subscription is in another status gets ErrInvalidStateTransition.
func (d *Domain) requireActive(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	sub, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	latest, err := d.subscriptionDB.GetLatestByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch {
	case latest == nil:
		return nil, ErrNoActiveSubscription
	case latest.Status.IsTerminal():
		return nil, fmt.Errorf("%w: subscription is %s, subscribe again to continue", ErrInvalidStateTransition, latest.Status)
	default:
		return nil, fmt.Errorf("%w: subscription is %s", ErrInvalidStateTransition, latest.Status)
	}
}

// mutation changes a locked subscription row before it is saved. Returning
// an error aborts the transaction.
type mutation func(sub *model.LandlordSubscription, now time.Time) error

// userTransition applies action to the user's ACTIVE subscription and records it.
func (d *Domain) userTransition(
	ctx context.Context,
	userID uuid.UUID,
	action model.HistoryAction,
	note string,
	mutate mutation,
) (*model.LandlordSubscription, error) {
	sub, err := d.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return d.applyTransition(ctx, sub, action, note, mutate)
}

// applyTransition re-reads sub under a row lock, checks action against the
// locked status and saves the mutated row with its history entry.
func (d *Domain) applyTransition(
	ctx context.Context,
	sub *model.LandlordSubscription,
	action model.HistoryAction,
	note string,
	mutate mutation,
) (*model.LandlordSubscription, error) {
	if _, err := nextStatus(sub.Status, action); err != nil {
		return nil, err
	}

	var updated *model.LandlordSubscription
	err := d.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		locked, err := d.lock(txCtx, sub)
		if err != nil {
			return err
		}
		prev := locked.Status
		next, err := nextStatus(prev, action)
		if err != nil {
			return fmt.Errorf("%w: subscription is %s", errRowChanged, prev)
		}

		if err := mutate(locked, d.now()); err != nil {
			return err
		}
		locked.Status = next
		if err := d.subscriptionDB.Update(txCtx, locked); err != nil {
			return translateWriteError(err)
		}
		if _, err := d.history.Record(txCtx, newEntry(locked, action).statuses(prev, next).note(note)); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.observer.ObserveTransition(action)
	d.logger.Info("landlord subscription updated",
		zap.String("user_id", updated.UserID.String()),
		zap.String("subscription_id", updated.ID.String()),
		zap.String("action", action.String()),
		zap.String("status", updated.Status.String()),
		zap.String("request_id", requestctx.RequestID(ctx)),
	)
	return updated, nil
}

// lock re-reads sub inside the caller's transaction and holds its row lock
// until commit. The plan loaded on sub is carried over.
func (d *Domain) lock(ctx context.Context, sub *model.LandlordSubscription) (*model.LandlordSubscription, error) {
	locked, err := d.subscriptionDB.GetByIDForUpdate(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, ErrSubscriptionNotFound
	}
	if locked.Plan == nil && sub.Plan != nil && sub.Plan.ID == locked.PlanID {
		locked.Plan = sub.Plan
	}
	return locked, nil
}

// ensureNoActive fails when the user holds an ACTIVE subscription. A row
// already past its grace period is expired first and does not block.
func (d *Domain) ensureNoActive(ctx context.Context, userID uuid.UUID) error {
	active, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if active == nil || !active.IsActive() {
		return nil
	}

	settings, err := d.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !d.now().After(active.GraceDeadline(settings.GracePeriodDays)) {
		return ErrActiveSubscriptionExists
	}

	switch _, err := d.expire(ctx, active, settings.GracePeriodDays, lazyExpiryNote); {
	case err == nil:
		d.logger.Info("landlord subscription expired before new subscription",
			zap.String("user_id", userID.String()),
			zap.String("subscription_id", active.ID.String()),
		)
		return nil
	case errors.Is(err, errRowChanged):
		// Renewed or closed meanwhile; decide on the fresh row.
		current, err := d.subscriptionDB.GetActiveByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrActiveSubscriptionExists
		}
		return nil
	default:
		return err
	}
}

// chargeUser debits amount from the user's balance and records the payment.
// It must run inside a transaction.
func (d *Domain) chargeUser(ctx context.Context, userID uuid.UUID, amount int64, subscriptionID uuid.UUID, description string) (*model.PaymentTransaction, error) {
	user, err := d.userDB.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.CanAfford(amount) {
		return nil, ErrInsufficientBalance
	}
	before := user.Balance

	ok, err := d.userDB.TryDebitBalance(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("debit balance: %w", err)
	}
	if !ok {
		return nil, ErrInsufficientBalance
	}

	payment := model.NewSubscriptionPayment(userID, amount, before, description)
	payment.ReferenceID = &subscriptionID
	if err := d.paymentDB.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment transaction: %w", err)
	}
	return payment, nil
}

func translateWriteError(err error) error {
	if errors.Is(err, outbound.ErrDuplicateKey) {
		return ErrActiveSubscriptionExists
	}
	return err
}
