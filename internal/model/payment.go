package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentType represents the kind of wallet movement.
type PaymentType string

const (
	PaymentTypeSubscription PaymentType = "SUBSCRIPTION_PAYMENT"
)

// PaymentStatus represents the status of a payment transaction.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentTransaction records a balance debit made for a subscription.
type PaymentTransaction struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount        int64         `json:"amount" gorm:"not null"`
	Type          PaymentType   `json:"type" gorm:"not null;size:50"`
	Status        PaymentStatus `json:"status" gorm:"not null;size:20;default:PENDING"`
	Description   string        `json:"description,omitempty"`
	ReferenceID   *uuid.UUID    `json:"reference_id,omitempty" gorm:"type:uuid;index"`
	BalanceBefore int64         `json:"balance_before"`
	BalanceAfter  int64         `json:"balance_after"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TableName returns the database table name.
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// NewSubscriptionPayment builds a completed subscription payment for a debit
// that has already been applied to balanceBefore.
func NewSubscriptionPayment(userID uuid.UUID, amount, balanceBefore int64, description string) *PaymentTransaction {
	return &PaymentTransaction{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        amount,
		Type:          PaymentTypeSubscription,
		Status:        PaymentStatusCompleted,
		Description:   description,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore - amount,
	}
}
