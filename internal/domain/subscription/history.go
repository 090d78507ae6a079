package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"go.uber.org/zap"
)

// HistoryEntry describes one lifecycle transition to append.
type HistoryEntry struct {
	SubscriptionID uuid.UUID
	Action         model.HistoryAction
	PreviousStatus *model.SubscriptionStatus
	NewStatus      *model.SubscriptionStatus
	Amount         *int64
	PaymentID      *uuid.UUID
	Note           string
	PlanType       string
	PlanID         string
	PerformedBy    *uuid.UUID
}

// newEntry starts an entry for sub with its plan snapshot filled in.
func newEntry(sub *model.LandlordSubscription, action model.HistoryAction) *HistoryEntry {
	return &HistoryEntry{
		SubscriptionID: sub.ID,
		Action:         action,
		PlanType:       sub.PlanType,
		PlanID:         sub.PlanID,
	}
}

func (e *HistoryEntry) statuses(from, to model.SubscriptionStatus) *HistoryEntry {
	e.PreviousStatus = from.Ptr()
	e.NewStatus = to.Ptr()
	return e
}

func (e *HistoryEntry) amount(v int64) *HistoryEntry {
	e.Amount = &v
	return e
}

func (e *HistoryEntry) note(s string) *HistoryEntry {
	e.Note = s
	return e
}

// HistoryRecorder appends audit entries for subscription transitions.
type HistoryRecorder struct {
	historyDB outbound.HistoryDatabasePort
	paymentDB outbound.PaymentDatabasePort
	logger    *zap.Logger
}

// NewHistoryRecorder creates a new history recorder.
func NewHistoryRecorder(
	historyDB outbound.HistoryDatabasePort,
	paymentDB outbound.PaymentDatabasePort,
	logger *zap.Logger,
) *HistoryRecorder {
	return &HistoryRecorder{
		historyDB: historyDB,
		paymentDB: paymentDB,
		logger:    logger,
	}
}

// Record appends e. A payment reference that cannot be resolved is dropped
// and never blocks the write. ctx may carry a transaction, so transition
// metrics are left to the caller once it commits.
func (r *HistoryRecorder) Record(ctx context.Context, e *HistoryEntry) (*model.SubscriptionHistory, error) {
	if e == nil || e.SubscriptionID == uuid.Nil || e.Action == "" {
		return nil, ErrInvalidRequest
	}

	paymentID := r.resolvePayment(ctx, e.PaymentID)

	entry := &model.SubscriptionHistory{
		ID:             uuid.New(),
		SubscriptionID: e.SubscriptionID,
		Action:         e.Action,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		Amount:         e.Amount,
		PaymentID:      paymentID,
		Note:           e.Note,
		PlanType:       e.PlanType,
		PlanID:         e.PlanID,
		PerformedBy:    e.PerformedBy,
	}
	if err := r.historyDB.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record %s history: %w", e.Action, err)
	}

	return entry, nil
}

func (r *HistoryRecorder) resolvePayment(ctx context.Context, id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	exists, err := r.paymentDB.Exists(ctx, *id)
	if err != nil {
		r.logger.Warn("failed to verify payment reference",
			zap.String("payment_id", id.String()),
			zap.Error(err),
		)
		return nil
	}
	if !exists {
		r.logger.Debug("dropping unknown payment reference", zap.String("payment_id", id.String()))
		return nil
	}
	return id
}

// ListBySubscription lists entries of a subscription, newest first.
func (r *HistoryRecorder) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*model.SubscriptionHistory, error) {
	return r.historyDB.ListBySubscription(ctx, subscriptionID)
}

// ListByUser lists entries across all subscriptions of a user, newest first.
func (r *HistoryRecorder) ListByUser(ctx context.Context, userID uuid.UUID, page *model.PaginationRequest) ([]*model.SubscriptionHistory, int64, error) {
	return r.historyDB.ListByUser(ctx, userID, page.Offset(), page.PageSize)
}
