package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
)

// ErrDuplicateKey is returned when a write violates a unique constraint,
// including the one-ACTIVE-subscription-per-user index.
var ErrDuplicateKey = errors.New("duplicate key")

// PlanDatabasePort defines subscription plan persistence operations.
type PlanDatabasePort interface {
	// List lists plans ordered for display. Inactive plans are included only when includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]*model.SubscriptionPlan, error)

	// GetByID gets a plan by ID.
	GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error)

	// Create creates a new plan.
	Create(ctx context.Context, plan *model.SubscriptionPlan) error

	// Update updates a plan.
	Update(ctx context.Context, plan *model.SubscriptionPlan) error

	// Delete deletes a plan.
	Delete(ctx context.Context, id string) error
}

// SubscriptionDatabasePort defines landlord subscription persistence operations.
type SubscriptionDatabasePort interface {
	// Create creates a new subscription.
	Create(ctx context.Context, sub *model.LandlordSubscription) error

	// Update updates a subscription.
	Update(ctx context.Context, sub *model.LandlordSubscription) error

	// GetByID gets a subscription by ID with plan loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error)

	// GetByIDForUpdate reads a subscription and locks its row until the
	// surrounding transaction ends. The plan is not loaded.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error)

	// GetActiveByUserID gets the ACTIVE subscription of a user.
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error)

	// GetLatestByUserID gets the most recently created subscription of a user in any status.
	GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error)

	// HasFreeTrial reports whether any subscription of the user was a free trial.
	HasFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error)

	// DemoteOthers moves the user's rows holding status, other than exceptID, to EXPIRED
	// and returns the demoted rows with their previous status.
	DemoteOthers(ctx context.Context, userID, exceptID uuid.UUID, status model.SubscriptionStatus) ([]*model.LandlordSubscription, error)

	// ListDueForRenewal lists ACTIVE auto-renewing subscriptions ending at or before the deadline.
	ListDueForRenewal(ctx context.Context, deadline time.Time) ([]*model.LandlordSubscription, error)

	// ListActiveEndedBefore lists ACTIVE subscriptions whose end date is before cutoff.
	ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]*model.LandlordSubscription, error)

	// CountActiveByPlan counts ACTIVE subscriptions referencing a plan.
	CountActiveByPlan(ctx context.Context, planID string) (int64, error)

	// List lists subscriptions matching the filter.
	List(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error)

	// Stats aggregates subscriptions relative to now.
	Stats(ctx context.Context, now time.Time) (*model.SubscriptionStats, error)
}

// HistoryDatabasePort defines append-only subscription history persistence.
type HistoryDatabasePort interface {
	// Create appends a history entry.
	Create(ctx context.Context, entry *model.SubscriptionHistory) error

	// ListBySubscription lists entries of a subscription, newest first.
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*model.SubscriptionHistory, error)

	// ListByUser lists entries across all subscriptions of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.SubscriptionHistory, int64, error)
}

// PaymentDatabasePort defines payment transaction persistence operations.
type PaymentDatabasePort interface {
	// Create creates a payment transaction.
	Create(ctx context.Context, payment *model.PaymentTransaction) error

	// Exists reports whether a payment transaction with the ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserDatabasePort defines the user operations this service needs.
type UserDatabasePort interface {
	// GetByID gets a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// TryDebitBalance debits the balance if it is sufficient (atomic).
	// Returns (true, nil) if debited, (false, nil) if insufficient.
	TryDebitBalance(ctx context.Context, id uuid.UUID, amount int64) (bool, error)
}

// SettingDatabasePort defines system settings persistence operations.
type SettingDatabasePort interface {
	// GetMany gets the values of the given keys. Missing keys are absent from the map.
	GetMany(ctx context.Context, keys []string) (map[string]string, error)

	// Upsert inserts or updates settings.
	Upsert(ctx context.Context, settings []*model.SystemSetting) error
}

// TransactionPort defines transaction support.
type TransactionPort interface {
	// RunInTransaction executes the given function within a transaction.
	// Adapters called with the derived context join the transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
