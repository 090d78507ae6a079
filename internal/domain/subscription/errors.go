package subscription

import (
	"errors"
	"fmt"
)

// Domain errors for landlord subscriptions.
var (
	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Plan errors
	ErrPlanNotFound  = errors.New("plan not found")
	ErrPlanNotActive = errors.New("plan is not active")
	ErrPlanInUse     = errors.New("plan is referenced by an active subscription")
	ErrPlanExists    = errors.New("plan already exists")

	// Subscription errors
	ErrActiveSubscriptionExists = errors.New("user already has active subscription")
	ErrNoActiveSubscription     = errors.New("no active subscription")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrFreeTrialUsed            = errors.New("user has already used free trial")
	ErrInvalidStateTransition   = errors.New("invalid state for this action")

	// Balance errors
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// errRowChanged reports that the locked row no longer allows the action
// decided on from an earlier read.
var errRowChanged = fmt.Errorf("%w: subscription changed concurrently", ErrInvalidStateTransition)
