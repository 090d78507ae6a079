package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DurationType is the unit of a plan's duration.
type DurationType string

const (
	DurationTypeDays   DurationType = "days"
	DurationTypeMonths DurationType = "months"
	DurationTypeYears  DurationType = "years"
)

// String returns the string representation of the duration type.
func (d DurationType) String() string {
	return string(d)
}

// IsValid checks if the duration type is valid.
func (d DurationType) IsValid() bool {
	switch d {
	case DurationTypeDays, DurationTypeMonths, DurationTypeYears:
		return true
	}
	return false
}

// AddTo returns t advanced by n units of the duration type.
func (d DurationType) AddTo(t time.Time, n int) time.Time {
	switch d {
	case DurationTypeDays:
		return t.AddDate(0, 0, n)
	case DurationTypeYears:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// SubscriptionPlan represents a landlord subscription plan.
type SubscriptionPlan struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	Price        int64          `json:"price" gorm:"not null;default:0"`
	Duration     int            `json:"duration" gorm:"not null;default:1"`
	DurationType DurationType   `json:"duration_type" gorm:"not null;default:months"`
	Features     pq.StringArray `json:"features" gorm:"type:text[]"`
	IsFreeTrial  bool           `json:"is_free_trial" gorm:"default:false"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`

	// Display metadata
	Color        string `json:"color,omitempty"`
	Badge        string `json:"badge,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// IsPaid returns true if subscribing to the plan requires a balance debit.
func (p *SubscriptionPlan) IsPaid() bool {
	return p.Price > 0
}

// EndDateFrom computes the end of one plan term starting at start.
func (p *SubscriptionPlan) EndDateFrom(start time.Time) time.Time {
	return p.DurationType.AddTo(start, p.Duration)
}

// SubscriptionStatus represents the status of a landlord subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusCanceled  SubscriptionStatus = "CANCELED"
)

// String returns the string representation of the status.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusExpired, SubscriptionStatusSuspended, SubscriptionStatusCanceled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that user actions cannot leave.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusExpired
}

// Ptr returns a pointer to a copy of the status.
func (s SubscriptionStatus) Ptr() *SubscriptionStatus {
	return &s
}

// LandlordSubscription represents a landlord's subscription record.
// At most one row per user may be ACTIVE; rows are never hard-deleted.
type LandlordSubscription struct {
	ID           uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	PlanID       string             `json:"plan_id" gorm:"not null;index"`
	PlanType     string             `json:"plan_type"`
	Status       SubscriptionStatus `json:"status" gorm:"not null;default:ACTIVE;index"`
	StartDate    time.Time          `json:"start_date" gorm:"not null"`
	EndDate      time.Time          `json:"end_date" gorm:"not null;index"`
	Amount       int64              `json:"amount" gorm:"not null;default:0"`
	IsFreeTrial  bool               `json:"is_free_trial" gorm:"default:false"`
	AutoRenew    bool               `json:"auto_renew" gorm:"default:false"`
	StatusReason string             `json:"status_reason,omitempty"`
	SuspendedAt  *time.Time         `json:"suspended_at,omitempty"`
	CanceledAt   *time.Time         `json:"canceled_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Relations
	Plan *SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

// TableName returns the database table name.
func (LandlordSubscription) TableName() string {
	return "landlord_subscriptions"
}

// IsActive returns true if the subscription status is ACTIVE.
func (s *LandlordSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// GraceDeadline returns the instant after which access lapses.
func (s *LandlordSubscription) GraceDeadline(graceDays int) time.Time {
	return s.EndDate.AddDate(0, 0, graceDays)
}

// DaysRemaining returns whole days until EndDate, never negative.
func (s *LandlordSubscription) DaysRemaining(now time.Time) int {
	if !s.EndDate.After(now) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

// SubscriptionFilter filters subscriptions for admin listing.
type SubscriptionFilter struct {
	UserID    *uuid.UUID
	Status    *SubscriptionStatus
	PlanID    string
	AutoRenew *bool
	Offset    int
	Limit     int
}

// SubscriptionStats aggregates subscriptions for the admin dashboard.
type SubscriptionStats struct {
	Total          int64                        `json:"total"`
	ByStatus       map[SubscriptionStatus]int64 `json:"by_status"`
	FreeTrials     int64                        `json:"free_trials"`
	AutoRenewing   int64                        `json:"auto_renewing"`
	ExpiringSoon   int64                        `json:"expiring_soon"`
	TotalRevenue   int64                        `json:"total_revenue"`
	MonthlyRevenue int64                        `json:"monthly_revenue"`
}
