package gin

import (
	"context"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSubscriptionDomain struct {
	mock.Mock
}

func (m *MockSubscriptionDomain) ListPlans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionPlan), args.Error(1)
}

func (m *MockSubscriptionDomain) HasUsedFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionDomain) CheckEligibility(ctx context.Context, userID uuid.UUID) (*model.EligibilityOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EligibilityOutput), args.Error(1)
}

func (m *MockSubscriptionDomain) CheckAccess(ctx context.Context, userID uuid.UUID) (*model.AccessOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessOutput), args.Error(1)
}

func (m *MockSubscriptionDomain) Create(ctx context.Context, userID uuid.UUID, in *model.CreateSubscriptionInput) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) Renew(ctx context.Context, userID uuid.UUID, paymentID *uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) Suspend(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) Cancel(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) ToggleAutoRenew(ctx context.Context, userID uuid.UUID, autoRenew bool) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID, autoRenew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) GetMySubscription(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockSubscriptionDomain) ListMyHistory(ctx context.Context, userID uuid.UUID, page *model.PaginationRequest) ([]*model.SubscriptionHistory, int64, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.SubscriptionHistory), args.Get(1).(int64), args.Error(2)
}

type MockAdminDomain struct {
	mock.Mock
}

func (m *MockAdminDomain) AdminList(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.LandlordSubscription), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminDomain) AdminStats(ctx context.Context) (*model.SubscriptionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionStats), args.Error(1)
}

func (m *MockAdminDomain) AdminGet(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockAdminDomain) AdminSuspend(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, adminID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockAdminDomain) AdminReactivate(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, adminID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockAdminDomain) AdminCancel(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, adminID, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockAdminDomain) AdminRenew(ctx context.Context, adminID, id uuid.UUID, in *model.AdminRenewInput) (*model.LandlordSubscription, error) {
	args := m.Called(ctx, adminID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LandlordSubscription), args.Error(1)
}

func (m *MockAdminDomain) AdminHistory(ctx context.Context, id uuid.UUID) ([]*model.SubscriptionHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionHistory), args.Error(1)
}

func (m *MockAdminDomain) ListAllPlans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubscriptionPlan), args.Error(1)
}

func (m *MockAdminDomain) GetPlan(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockAdminDomain) CreatePlan(ctx context.Context, in *model.PlanInput) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockAdminDomain) UpdatePlan(ctx context.Context, id string, in *model.UpdatePlanInput) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockAdminDomain) DeletePlan(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminDomain) GetSettings(ctx context.Context) (*model.SubscriptionSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionSettings), args.Error(1)
}

func (m *MockAdminDomain) UpdateSettings(ctx context.Context, in *model.SettingsInput) (*model.SubscriptionSettings, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionSettings), args.Error(1)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) RunAutoRenewSweep(ctx context.Context) (*model.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SweepResult), args.Error(1)
}

func (m *MockSweeper) RunExpirySweep(ctx context.Context) (*model.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SweepResult), args.Error(1)
}

func (m *MockSweeper) RunSweep(ctx context.Context, job string) (*model.SweepResult, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SweepResult), args.Error(1)
}
