package subscription

import (
	"context"
	"strings"

	"github.com/homerent/server/internal/model"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ListPlans lists active plans for landlords.
func (d *Domain) ListPlans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return d.planDB.List(ctx, false)
}

func (d *Domain) ListAllPlans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return d.planDB.List(ctx, true)
}

func (d *Domain) GetPlan(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidRequest
	}
	plan, err := d.planDB.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (d *Domain) CreatePlan(ctx context.Context, in *model.PlanInput) (*model.SubscriptionPlan, error) {
	if in == nil {
		return nil, ErrInvalidRequest
	}
	plan := &model.SubscriptionPlan{
		ID:           strings.TrimSpace(in.ID),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Duration:     in.Duration,
		DurationType: in.DurationType,
		Features:     pq.StringArray(in.Features),
		IsFreeTrial:  in.IsFreeTrial,
		IsActive:     true,
		Color:        in.Color,
		Badge:        in.Badge,
		Icon:         in.Icon,
		DisplayOrder: in.DisplayOrder,
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	existing, err := d.planDB.GetByID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlanExists
	}

	if err := d.planDB.Create(ctx, plan); err != nil {
		return nil, err
	}
	d.logger.Info("subscription plan created", zap.String("plan_id", plan.ID))
	return plan, nil
}

func (d *Domain) UpdatePlan(ctx context.Context, id string, in *model.UpdatePlanInput) (*model.SubscriptionPlan, error) {
	if in == nil {
		return nil, ErrInvalidRequest
	}
	plan, err := d.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		plan.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.Price != nil {
		plan.Price = *in.Price
	}
	if in.Duration != nil {
		plan.Duration = *in.Duration
	}
	if in.DurationType != nil {
		plan.DurationType = *in.DurationType
	}
	if in.Features != nil {
		plan.Features = pq.StringArray(in.Features)
	}
	if in.IsFreeTrial != nil {
		plan.IsFreeTrial = *in.IsFreeTrial
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}
	if in.Color != nil {
		plan.Color = *in.Color
	}
	if in.Badge != nil {
		plan.Badge = *in.Badge
	}
	if in.Icon != nil {
		plan.Icon = *in.Icon
	}
	if in.DisplayOrder != nil {
		plan.DisplayOrder = *in.DisplayOrder
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if err := d.planDB.Update(ctx, plan); err != nil {
		return nil, err
	}
	d.logger.Info("subscription plan updated", zap.String("plan_id", plan.ID))
	return plan, nil
}

// DeletePlan deletes a plan that no ACTIVE subscription references.
func (d *Domain) DeletePlan(ctx context.Context, id string) error {
	if _, err := d.GetPlan(ctx, id); err != nil {
		return err
	}
	inUse, err := d.subscriptionDB.CountActiveByPlan(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrPlanInUse
	}
	if err := d.planDB.Delete(ctx, id); err != nil {
		return err
	}
	d.logger.Info("subscription plan deleted", zap.String("plan_id", id))
	return nil
}

func validatePlan(p *model.SubscriptionPlan) error {
	switch {
	case p.ID == "", p.Name == "":
		return ErrInvalidRequest
	case p.Price < 0, p.Duration < 1:
		return ErrInvalidRequest
	case !p.DurationType.IsValid():
		return ErrInvalidRequest
	case p.IsFreeTrial && p.Price > 0:
		return ErrInvalidRequest
	}
	return nil
}
