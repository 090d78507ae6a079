package model

import (
	"time"

	"github.com/google/uuid"
)

// CreateSubscriptionInput represents a request to subscribe to a plan.
type CreateSubscriptionInput struct {
	PlanID    string `json:"plan_id" binding:"required"`
	AutoRenew bool   `json:"auto_renew"`
}

// RenewSubscriptionInput represents a user renewal request.
// PaymentID is set when the payment was settled outside the wallet.
type RenewSubscriptionInput struct {
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
}

// ReasonInput carries an optional free-text reason.
type ReasonInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ToggleAutoRenewInput represents a request to change auto-renew.
type ToggleAutoRenewInput struct {
	AutoRenew *bool `json:"auto_renew" binding:"required"`
}

// AdminRenewInput represents an admin renewal override.
type AdminRenewInput struct {
	Months int    `json:"months" binding:"omitempty,min=1,max=120"`
	Reason string `json:"reason" binding:"max=500"`
}

// PlanInput represents a plan create request.
type PlanInput struct {
	ID           string       `json:"id" binding:"required,max=64"`
	Name         string       `json:"name" binding:"required"`
	Description  string       `json:"description"`
	Price        int64        `json:"price" binding:"min=0"`
	Duration     int          `json:"duration" binding:"required,min=1"`
	DurationType DurationType `json:"duration_type" binding:"required,oneof=days months years"`
	Features     []string     `json:"features"`
	IsFreeTrial  bool         `json:"is_free_trial"`
	IsActive     *bool        `json:"is_active"`
	Color        string       `json:"color"`
	Badge        string       `json:"badge"`
	Icon         string       `json:"icon"`
	DisplayOrder int          `json:"display_order"`
}

// UpdatePlanInput represents a partial plan update.
type UpdatePlanInput struct {
	Name         *string       `json:"name"`
	Description  *string       `json:"description"`
	Price        *int64        `json:"price" binding:"omitempty,min=0"`
	Duration     *int          `json:"duration" binding:"omitempty,min=1"`
	DurationType *DurationType `json:"duration_type" binding:"omitempty,oneof=days months years"`
	Features     []string      `json:"features"`
	IsFreeTrial  *bool         `json:"is_free_trial"`
	IsActive     *bool         `json:"is_active"`
	Color        *string       `json:"color"`
	Badge        *string       `json:"badge"`
	Icon         *string       `json:"icon"`
	DisplayOrder *int          `json:"display_order"`
}

// SettingsInput represents a partial update of subscription settings.
type SettingsInput struct {
	Enabled         *bool  `json:"enabled"`
	MonthlyFee      *int64 `json:"monthly_fee" binding:"omitempty,min=0"`
	FreeTrialDays   *int   `json:"free_trial_days" binding:"omitempty,min=0"`
	GracePeriodDays *int   `json:"grace_period_days" binding:"omitempty,min=0"`
}

// AdminListInput represents admin list query parameters.
type AdminListInput struct {
	Status    string `form:"status"`
	PlanID    string `form:"plan_id"`
	UserID    string `form:"user_id"`
	AutoRenew *bool  `form:"auto_renew"`
	PaginationRequest
}

// SubscriptionSettings is the typed view of the global subscription settings.
type SubscriptionSettings struct {
	Enabled         bool  `json:"enabled"`
	MonthlyFee      int64 `json:"monthly_fee"`
	FreeTrialDays   int   `json:"free_trial_days"`
	GracePeriodDays int   `json:"grace_period_days"`
}

// EligibilityOutput reports whether a user may start a new subscription.
type EligibilityOutput struct {
	CanSubscribe          bool   `json:"can_subscribe"`
	CanUseFreeTrialAgain  bool   `json:"can_use_free_trial_again"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
	Message               string `json:"message,omitempty"`
}

// AccessOutput reports whether a user may use landlord features.
type AccessOutput struct {
	HasAccess            bool                  `json:"has_access"`
	InGracePeriod        bool                  `json:"in_grace_period"`
	Subscription         *LandlordSubscription `json:"subscription,omitempty"`
	Message              string                `json:"message,omitempty"`
	CanUseFreeTrialAgain bool                  `json:"can_use_free_trial_again"`
	HasUsedFreeTrial     bool                  `json:"has_used_free_trial"`
}

// SubscriptionOutput represents a subscription in API responses.
type SubscriptionOutput struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	PlanID        string             `json:"plan_id"`
	PlanType      string             `json:"plan_type"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	Amount        int64              `json:"amount"`
	IsFreeTrial   bool               `json:"is_free_trial"`
	AutoRenew     bool               `json:"auto_renew"`
	StatusReason  string             `json:"status_reason,omitempty"`
	DaysRemaining int                `json:"days_remaining"`
	Plan          *SubscriptionPlan  `json:"plan,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToOutput converts a subscription to its API representation.
func (s *LandlordSubscription) ToOutput(now time.Time) *SubscriptionOutput {
	return &SubscriptionOutput{
		ID:            s.ID,
		UserID:        s.UserID,
		PlanID:        s.PlanID,
		PlanType:      s.PlanType,
		Status:        s.Status,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		Amount:        s.Amount,
		IsFreeTrial:   s.IsFreeTrial,
		AutoRenew:     s.AutoRenew,
		StatusReason:  s.StatusReason,
		DaysRemaining: s.DaysRemaining(now),
		Plan:          s.Plan,
		CreatedAt:     s.CreatedAt,
	}
}

// SweepResult summarizes one sweeper run.
type SweepResult struct {
	Job       string        `json:"job"`
	Scanned   int           `json:"scanned"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}
