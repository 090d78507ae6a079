package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homerent/server/internal/domain/subscription"
	"github.com/homerent/server/internal/model"
)

// handleError maps domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var statusCode int
	var errorCode string
	var message string

	switch {
	// 400
	case errors.Is(err, subscription.ErrActiveSubscriptionExists):
		statusCode = http.StatusBadRequest
		errorCode = "active_subscription_exists"
		message = "User already has active subscription"

	case errors.Is(err, subscription.ErrFreeTrialUsed):
		statusCode = http.StatusBadRequest
		errorCode = "free_trial_used"
		message = "Free trial has already been used"

	case errors.Is(err, subscription.ErrInsufficientBalance):
		statusCode = http.StatusBadRequest
		errorCode = "insufficient_balance"
		message = "Insufficient balance"

	case errors.Is(err, subscription.ErrInvalidStateTransition):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_state"
		message = "Subscription is not in a valid state for this action"

	case errors.Is(err, subscription.ErrPlanNotActive):
		statusCode = http.StatusBadRequest
		errorCode = "plan_not_active"
		message = "Plan is not active"

	case errors.Is(err, subscription.ErrInvalidRequest):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_request"
		message = "Invalid request"

	// 404
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		statusCode = http.StatusNotFound
		errorCode = "no_active_subscription"
		message = "No active subscription"

	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		statusCode = http.StatusNotFound
		errorCode = "subscription_not_found"
		message = "Subscription not found"

	case errors.Is(err, subscription.ErrPlanNotFound):
		statusCode = http.StatusNotFound
		errorCode = "plan_not_found"
		message = "Plan not found"

	case errors.Is(err, subscription.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errorCode = "user_not_found"
		message = "User not found"

	// 409
	case errors.Is(err, subscription.ErrPlanInUse):
		statusCode = http.StatusConflict
		errorCode = "plan_in_use"
		message = "Plan is referenced by an active subscription"

	case errors.Is(err, subscription.ErrPlanExists):
		statusCode = http.StatusConflict
		errorCode = "plan_exists"
		message = "Plan already exists"

	case errors.Is(err, subscription.ErrSweepRunning):
		statusCode = http.StatusConflict
		errorCode = "sweep_running"
		message = "Sweep is already running"

	default:
		statusCode = http.StatusInternalServerError
		errorCode = "internal_error"
		message = "Internal server error"
		_ = c.Error(err)
	}

	c.JSON(statusCode, model.ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}

// badRequest writes a binding or parameter error.
func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
