package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoryAction tags a subscription lifecycle transition.
type HistoryAction string

const (
	HistoryActionCreated           HistoryAction = "CREATED"
	HistoryActionRenewed           HistoryAction = "RENEWED"
	HistoryActionSuspended         HistoryAction = "SUSPENDED"
	HistoryActionCanceled          HistoryAction = "CANCELED"
	HistoryActionExpired           HistoryAction = "EXPIRED"
	HistoryActionAutoRenewed       HistoryAction = "AUTO_RENEWED"
	HistoryActionAutoRenewFailed   HistoryAction = "AUTO_RENEW_FAILED"
	HistoryActionAutoRenewEnabled  HistoryAction = "AUTO_RENEW_ENABLED"
	HistoryActionAutoRenewDisabled HistoryAction = "AUTO_RENEW_DISABLED"
	HistoryActionAdminSuspended    HistoryAction = "ADMIN_SUSPENDED"
	HistoryActionAdminReactivated  HistoryAction = "ADMIN_REACTIVATED"
	HistoryActionAdminCanceled     HistoryAction = "ADMIN_CANCELED"
	HistoryActionAdminRenewed      HistoryAction = "ADMIN_RENEWED"
	HistoryActionAdminDemoted      HistoryAction = "ADMIN_DEMOTED"
)

// String returns the string representation of the action.
func (a HistoryAction) String() string {
	return string(a)
}

// SubscriptionHistory is an append-only audit entry for a lifecycle transition.
type SubscriptionHistory struct {
	ID             uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionID uuid.UUID           `json:"subscription_id" gorm:"type:uuid;not null;index"`
	Action         HistoryAction       `json:"action" gorm:"not null;size:50;index"`
	PreviousStatus *SubscriptionStatus `json:"previous_status,omitempty" gorm:"size:20"`
	NewStatus      *SubscriptionStatus `json:"new_status,omitempty" gorm:"size:20"`
	Amount         *int64              `json:"amount,omitempty"`
	PaymentID      *uuid.UUID          `json:"payment_id,omitempty" gorm:"type:uuid"`
	Note           string              `json:"note,omitempty" gorm:"size:500"`
	PlanType       string              `json:"plan_type,omitempty"`
	PlanID         string              `json:"plan_id,omitempty"`
	PerformedBy    *uuid.UUID          `json:"performed_by,omitempty" gorm:"type:uuid"`
	CreatedAt      time.Time           `json:"created_at" gorm:"index"`
}

// TableName returns the database table name.
func (SubscriptionHistory) TableName() string {
	return "subscription_histories"
}
