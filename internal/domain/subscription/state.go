package subscription

import "github.com/homerent/server/internal/model"

// transition is a status change triggered by an action.
type transition struct {
	from   model.SubscriptionStatus
	action model.HistoryAction
}

// allowedTransitions maps (from, action) to the resulting status.
var allowedTransitions = map[transition]model.SubscriptionStatus{
	{model.SubscriptionStatusActive, model.HistoryActionRenewed}:           model.SubscriptionStatusActive,
	{model.SubscriptionStatusActive, model.HistoryActionAutoRenewed}:       model.SubscriptionStatusActive,
	{model.SubscriptionStatusActive, model.HistoryActionSuspended}:         model.SubscriptionStatusSuspended,
	{model.SubscriptionStatusActive, model.HistoryActionCanceled}:          model.SubscriptionStatusCanceled,
	{model.SubscriptionStatusActive, model.HistoryActionExpired}:           model.SubscriptionStatusExpired,
	{model.SubscriptionStatusActive, model.HistoryActionAutoRenewEnabled}:  model.SubscriptionStatusActive,
	{model.SubscriptionStatusActive, model.HistoryActionAutoRenewDisabled}: model.SubscriptionStatusActive,

	{model.SubscriptionStatusActive, model.HistoryActionAdminSuspended}:      model.SubscriptionStatusSuspended,
	{model.SubscriptionStatusActive, model.HistoryActionAdminCanceled}:       model.SubscriptionStatusCanceled,
	{model.SubscriptionStatusSuspended, model.HistoryActionAdminCanceled}:    model.SubscriptionStatusCanceled,
	{model.SubscriptionStatusSuspended, model.HistoryActionAdminReactivated}: model.SubscriptionStatusActive,

	// Admin renew forces ACTIVE from any status.
	{model.SubscriptionStatusActive, model.HistoryActionAdminRenewed}:    model.SubscriptionStatusActive,
	{model.SubscriptionStatusSuspended, model.HistoryActionAdminRenewed}: model.SubscriptionStatusActive,
	{model.SubscriptionStatusExpired, model.HistoryActionAdminRenewed}:   model.SubscriptionStatusActive,
	{model.SubscriptionStatusCanceled, model.HistoryActionAdminRenewed}:  model.SubscriptionStatusActive,
}

// nextStatus returns the status reached by applying action to from.
func nextStatus(from model.SubscriptionStatus, action model.HistoryAction) (model.SubscriptionStatus, error) {
	to, ok := allowedTransitions[transition{from: from, action: action}]
	if !ok {
		return "", ErrInvalidStateTransition
	}
	return to, nil
}
