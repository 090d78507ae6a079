package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
)

// historyAdapter implements outbound.HistoryDatabasePort. Entries are append-only.
type historyAdapter struct {
	db *gorm.DB
}

// NewHistoryAdapter creates a new history database adapter.
func NewHistoryAdapter(db *gorm.DB) outbound.HistoryDatabasePort {
	return &historyAdapter{db: db}
}

func (a *historyAdapter) Create(ctx context.Context, entry *model.SubscriptionHistory) error {
	return conn(ctx, a.db).Create(entry).Error
}

func (a *historyAdapter) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*model.SubscriptionHistory, error) {
	var entries []*model.SubscriptionHistory
	err := conn(ctx, a.db).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *historyAdapter) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.SubscriptionHistory, int64, error) {
	query := conn(ctx, a.db).
		Model(&model.SubscriptionHistory{}).
		Joins("JOIN landlord_subscriptions ON landlord_subscriptions.id = subscription_histories.subscription_id").
		Where("landlord_subscriptions.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*model.SubscriptionHistory
	err := query.
		Select("subscription_histories.*").
		Order("subscription_histories.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Compile-time check
var _ outbound.HistoryDatabasePort = (*historyAdapter)(nil)
