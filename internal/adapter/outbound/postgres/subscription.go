package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// expiringSoonWindow bounds the "expiring soon" dashboard counter.
const expiringSoonWindow = 7 * 24 * time.Hour

// subscriptionAdapter implements outbound.SubscriptionDatabasePort.
type subscriptionAdapter struct {
	db *gorm.DB
}

// NewSubscriptionAdapter creates a new subscription database adapter.
func NewSubscriptionAdapter(db *gorm.DB) outbound.SubscriptionDatabasePort {
	return &subscriptionAdapter{db: db}
}

func (a *subscriptionAdapter) Create(ctx context.Context, sub *model.LandlordSubscription) error {
	return translate(conn(ctx, a.db).Omit(clause.Associations).Create(sub).Error)
}

func (a *subscriptionAdapter) Update(ctx context.Context, sub *model.LandlordSubscription) error {
	return translate(conn(ctx, a.db).Omit(clause.Associations).Save(sub).Error)
}

func (a *subscriptionAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	return a.first(conn(ctx, a.db).Where("id = ?", id))
}

func (a *subscriptionAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.LandlordSubscription, error) {
	var sub model.LandlordSubscription
	err := conn(ctx, a.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (a *subscriptionAdapter) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	return a.first(conn(ctx, a.db).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Order("created_at DESC"))
}

func (a *subscriptionAdapter) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*model.LandlordSubscription, error) {
	return a.first(conn(ctx, a.db).
		Where("user_id = ?", userID).
		Order("created_at DESC"))
}

func (a *subscriptionAdapter) first(q *gorm.DB) (*model.LandlordSubscription, error) {
	var sub model.LandlordSubscription
	err := q.Preload("Plan").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (a *subscriptionAdapter) HasFreeTrial(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.LandlordSubscription{}).
		Where("user_id = ? AND is_free_trial = ?", userID, true).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *subscriptionAdapter) DemoteOthers(ctx context.Context, userID, exceptID uuid.UUID, status model.SubscriptionStatus) ([]*model.LandlordSubscription, error) {
	db := conn(ctx, a.db)

	var rows []*model.LandlordSubscription
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ? AND id <> ?", userID, status, exceptID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	err = db.Model(&model.LandlordSubscription{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":        model.SubscriptionStatusExpired,
			"status_reason": "superseded by admin action",
		}).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (a *subscriptionAdapter) ListDueForRenewal(ctx context.Context, deadline time.Time) ([]*model.LandlordSubscription, error) {
	var subs []*model.LandlordSubscription
	err := conn(ctx, a.db).
		Preload("Plan").
		Where("status = ? AND auto_renew = ? AND end_date <= ?", model.SubscriptionStatusActive, true, deadline).
		Order("end_date ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (a *subscriptionAdapter) ListActiveEndedBefore(ctx context.Context, cutoff time.Time) ([]*model.LandlordSubscription, error) {
	var subs []*model.LandlordSubscription
	err := conn(ctx, a.db).
		Where("status = ? AND end_date < ?", model.SubscriptionStatusActive, cutoff).
		Order("end_date ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (a *subscriptionAdapter) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.LandlordSubscription{}).
		Where("plan_id = ? AND status = ?", planID, model.SubscriptionStatusActive).
		Count(&count).Error
	return count, err
}

func (a *subscriptionAdapter) List(ctx context.Context, filter *model.SubscriptionFilter) ([]*model.LandlordSubscription, int64, error) {
	query := conn(ctx, a.db).Model(&model.LandlordSubscription{})

	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.PlanID != "" {
			query = query.Where("plan_id = ?", filter.PlanID)
		}
		if filter.AutoRenew != nil {
			query = query.Where("auto_renew = ?", *filter.AutoRenew)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil {
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var subs []*model.LandlordSubscription
	if err := query.Preload("Plan").Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (a *subscriptionAdapter) Stats(ctx context.Context, now time.Time) (*model.SubscriptionStats, error) {
	db := conn(ctx, a.db)
	stats := &model.SubscriptionStats{ByStatus: make(map[model.SubscriptionStatus]int64)}

	var byStatus []struct {
		Status model.SubscriptionStatus
		Count  int64
	}
	err := db.Model(&model.LandlordSubscription{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	var active struct {
		FreeTrials   int64
		AutoRenewing int64
		ExpiringSoon int64
	}
	err = db.Model(&model.LandlordSubscription{}).
		Select(`COUNT(*) FILTER (WHERE is_free_trial) AS free_trials,
			COUNT(*) FILTER (WHERE auto_renew) AS auto_renewing,
			COUNT(*) FILTER (WHERE end_date BETWEEN ? AND ?) AS expiring_soon`, now, now.Add(expiringSoonWindow)).
		Where("status = ?", model.SubscriptionStatusActive).
		Scan(&active).Error
	if err != nil {
		return nil, err
	}
	stats.FreeTrials = active.FreeTrials
	stats.AutoRenewing = active.AutoRenewing
	stats.ExpiringSoon = active.ExpiringSoon

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var revenue struct {
		Total   int64
		Monthly int64
	}
	err = db.Model(&model.PaymentTransaction{}).
		Select(`COALESCE(SUM(amount), 0) AS total,
			COALESCE(SUM(amount) FILTER (WHERE created_at >= ?), 0) AS monthly`, monthStart).
		Where("type = ? AND status = ?", model.PaymentTypeSubscription, model.PaymentStatusCompleted).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue.Total
	stats.MonthlyRevenue = revenue.Monthly

	return stats, nil
}

// Compile-time check
var _ outbound.SubscriptionDatabasePort = (*subscriptionAdapter)(nil)
