package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
)

// SubscriptionDomain defines user-facing landlord subscription operations.
type SubscriptionDomain interface {
	ListPlans(ctx context.Context) ([]*model.SubscriptionPlan, error)

	HasUsedFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error)
	CheckEligibility(ctx context.Context, userID uuid.UUID) (*model.EligibilityOutput, error)
	CheckAccess(ctx context.Context, userID uuid.UUID) (*model.AccessOutput, error)

	Create(ctx context.Context, userID uuid.UUID, in *model.CreateSubscriptionInput) (*model.LandlordSubscription, error)
	Renew(ctx context.Context, userID uuid.UUID, paymentID *uuid.UUID) (*model.LandlordSubscription, error)
	Suspend(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error)
	Cancel(ctx context.Context, userID uuid.UUID, reason string) (*model.LandlordSubscription, error)
	ToggleAutoRenew(ctx context.Context, userID uuid.UUID, autoRenew bool) (*model.LandlordSubscription, error)

	GetMySubscription(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error)
	ListMyHistory(ctx context.Context, userID uuid.UUID, page *model.PaginationRequest) ([]*model.SubscriptionHistory, int64, error)
}

// SubscriptionAdminDomain defines administrator overrides and catalog management.
type SubscriptionAdminDomain interface {
	AdminList(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error)
	AdminStats(ctx context.Context) (*model.SubscriptionStats, error)
	AdminGet(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error)
	AdminSuspend(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error)
	AdminReactivate(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error)
	AdminCancel(ctx context.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error)
	AdminRenew(ctx context.Context, adminID, id uuid.UUID, in *model.AdminRenewInput) (*model.LandlordSubscription, error)
	AdminHistory(ctx context.Context, id uuid.UUID) ([]*model.SubscriptionHistory, error)

	ListAllPlans(ctx context.Context) ([]*model.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id string) (*model.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, in *model.PlanInput) (*model.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id string, in *model.UpdatePlanInput) (*model.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*model.SubscriptionSettings, error)
	UpdateSettings(ctx context.Context, in *model.SettingsInput) (*model.SubscriptionSettings, error)
}

// SweeperDomain defines the scheduled maintenance jobs.
type SweeperDomain interface {
	RunAutoRenewSweep(ctx context.Context) (*model.SweepResult, error)
	RunExpirySweep(ctx context.Context) (*model.SweepResult, error)
	RunSweep(ctx context.Context, job string) (*model.SweepResult, error)
}

// SubscriptionHttpPort defines HTTP handler interface for landlord subscription operations.
type SubscriptionHttpPort interface {
	// ListPlans handles GET /landlord-subscription/plans
	ListPlans(c *gin.Context)

	// Create handles POST /landlord-subscription/create
	Create(c *gin.Context)

	// GetMySubscription handles GET /landlord-subscription/my-subscription
	GetMySubscription(c *gin.Context)

	// Renew handles POST /landlord-subscription/renew
	Renew(c *gin.Context)

	// Suspend handles POST /landlord-subscription/suspend
	Suspend(c *gin.Context)

	// Cancel handles POST /landlord-subscription/cancel
	Cancel(c *gin.Context)

	// ToggleAutoRenew handles POST /landlord-subscription/toggle-auto-renew
	ToggleAutoRenew(c *gin.Context)

	// CheckAccess handles GET /landlord-subscription/check-access
	CheckAccess(c *gin.Context)

	// CheckEligibility handles GET /landlord-subscription/check-eligibility
	CheckEligibility(c *gin.Context)

	// History handles GET /landlord-subscription/history
	History(c *gin.Context)
}

// SubscriptionAdminHttpPort defines admin HTTP handler interface.
type SubscriptionAdminHttpPort interface {
	// List handles GET /landlord-subscription/admin/list
	List(c *gin.Context)

	// Stats handles GET /landlord-subscription/admin/stats
	Stats(c *gin.Context)

	// Get handles GET /landlord-subscription/admin/:id
	Get(c *gin.Context)

	// Suspend handles POST /landlord-subscription/admin/:id/suspend
	Suspend(c *gin.Context)

	// Reactivate handles POST /landlord-subscription/admin/:id/reactivate
	Reactivate(c *gin.Context)

	// Cancel handles POST /landlord-subscription/admin/:id/cancel
	Cancel(c *gin.Context)

	// Renew handles POST /landlord-subscription/admin/:id/renew
	Renew(c *gin.Context)

	// History handles GET /landlord-subscription/admin/:id/history
	History(c *gin.Context)

	// ListPlans handles GET /landlord-subscription/admin/plans
	ListPlans(c *gin.Context)

	// GetPlan handles GET /landlord-subscription/admin/plans/:planId
	GetPlan(c *gin.Context)

	// CreatePlan handles POST /landlord-subscription/admin/plans
	CreatePlan(c *gin.Context)

	// UpdatePlan handles PUT /landlord-subscription/admin/plans/:planId
	UpdatePlan(c *gin.Context)

	// DeletePlan handles DELETE /landlord-subscription/admin/plans/:planId
	DeletePlan(c *gin.Context)

	// GetSettings handles GET /landlord-subscription/admin/settings
	GetSettings(c *gin.Context)

	// UpdateSettings handles PUT /landlord-subscription/admin/settings
	UpdateSettings(c *gin.Context)

	// RunSweep handles POST /landlord-subscription/admin/sweeps/:job
	RunSweep(c *gin.Context)
}
