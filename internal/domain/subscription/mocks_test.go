package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"github.com/stretchr/testify/mock"
)

// --- Mock implementations ---

type MockPlanDB struct {
	mock.Mock
}

func (m *MockPlanDB) List(ctx context.Context, includeInactive bool) ([]*model.SubscriptionPlan, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanDB) GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanDB) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanDB) Update(ctx context.Context, plan *model.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanDB) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubscriptionDB struct {
	mock.Mock
}

func (m *MockSubscriptionDB) Create(ctx context.Context, sub *model.LandlordSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionDB) Update(ctx context.Context, sub *model.LandlordSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionDB) GetByID(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) HasFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionDB) DemoteOthers(ctx context.Context, userID, exceptID uuid.UUID, status model.SubscriptionStatus) ([]*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, exceptID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) ListDueForRenewal(ctx context.Context, deadline time.Time) ([]*model.LandlordSubscription, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]*model.LandlordSubscription, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDB) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionDB) List(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.LandlordSubscription), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionDB) Stats(ctx context.Context, now time.Time) (*model.SubscriptionStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionStats), args.Error(1)
}

type MockHistoryDB struct {
	mock.Mock
}

func (m *MockHistoryDB) Create(ctx context.Context, entry *model.SubscriptionHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryDB) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*model.SubscriptionHistory, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionHistory), args.Error(1)
}

func (m *MockHistoryDB) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.SubscriptionHistory, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.SubscriptionHistory), args.Get(1).(int64), args.Error(2)
}

type MockPaymentDB struct {
	mock.Mock
}

func (m *MockPaymentDB) Create(ctx context.Context, payment *model.PaymentTransaction) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentDB) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockUserDB struct {
	mock.Mock
}

func (m *MockUserDB) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserDB) TryDebitBalance(ctx context.Context, id uuid.UUID, amount int64) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

type MockSettingDB struct {
	mock.Mock
}

func (m *MockSettingDB) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingDB) Upsert(ctx context.Context, settings []*model.SystemSetting) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRenewalSucceeded(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	args := m.Called(ctx, user, sub, amount)
	return args.Error(0)
}

func (m *MockNotifier) SendRenewalFailed(ctx context.Context, user *model.User, sub *model.LandlordSubscription, amount int64) error {
	args := m.Called(ctx, user, sub, amount)
	return args.Error(0)
}

// MockTransaction runs fn directly, propagating its error like a rollback would.
type MockTransaction struct{}

func (m *MockTransaction) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ outbound.TransactionPort = (*MockTransaction)(nil)

// countingObserver records the transitions reported after commit.
type countingObserver struct {
	transitions []model.HistoryAction
}

func (o *countingObserver) ObserveTransition(action model.HistoryAction) {
	o.transitions = append(o.transitions, action)
}

func (o *countingObserver) ObserveSweep(*model.SweepResult) {}
