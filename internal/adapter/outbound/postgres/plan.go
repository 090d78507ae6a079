package postgres

import (
	"context"
	"errors"

	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
)

// planAdapter implements outbound.PlanDatabasePort.
type planAdapter struct {
	db *gorm.DB
}

// NewPlanAdapter creates a new plan database adapter.
func NewPlanAdapter(db *gorm.DB) outbound.PlanDatabasePort {
	return &planAdapter{db: db}
}

func (a *planAdapter) List(ctx context.Context, includeInactive bool) ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	q := conn(ctx, a.db)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("display_order ASC, price ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (a *planAdapter) GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := conn(ctx, a.db).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (a *planAdapter) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	return translate(conn(ctx, a.db).Create(plan).Error)
}

func (a *planAdapter) Update(ctx context.Context, plan *model.SubscriptionPlan) error {
	return translate(conn(ctx, a.db).Save(plan).Error)
}

func (a *planAdapter) Delete(ctx context.Context, id string) error {
	return conn(ctx, a.db).Delete(&model.SubscriptionPlan{}, "id = ?", id).Error
}

// Compile-time check
var _ outbound.PlanDatabasePort = (*planAdapter)(nil)
