package gin

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/inbound"
)

// subscriptionAdminHandler implements inbound.SubscriptionAdminHttpPort.
type subscriptionAdminHandler struct {
	domain  inbound.SubscriptionAdminDomain
	sweeper inbound.SweeperDomain
	now     func() time.Time
}

// NewSubscriptionAdminHandler creates a new admin subscription HTTP handler.
func NewSubscriptionAdminHandler(domain inbound.SubscriptionAdminDomain, sweeper inbound.SweeperDomain) inbound.SubscriptionAdminHttpPort {
	return &subscriptionAdminHandler{domain: domain, sweeper: sweeper, now: time.Now}
}

func (h *subscriptionAdminHandler) List(c *gin.Context) {
	var req model.AdminListInput
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}
	req.DefaultPagination()

	filter := &model.SubscriptionFilter{
		PlanID:    req.PlanID,
		AutoRenew: req.AutoRenew,
		Offset:    req.Offset(),
		Limit:     req.PageSize,
	}
	if req.Status != "" {
		status := model.SubscriptionStatus(strings.ToUpper(req.Status))
		filter.Status = &status
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			badRequest(c, "invalid_input", "Invalid user ID")
			return
		}
		filter.UserID = &userID
	}

	subs, total, err := h.domain.AdminList(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	now := h.now()
	out := make([]*model.SubscriptionOutput, len(subs))
	for i, sub := range subs {
		out[i] = sub.ToOutput(now)
	}
	c.JSON(http.StatusOK, model.NewPaginatedResponse(out, total, req.Page, req.PageSize))
}

func (h *subscriptionAdminHandler) Stats(c *gin.Context) {
	stats, err := h.domain.AdminStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *subscriptionAdminHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.domain.AdminGet(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

type adminAction func(c *gin.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error)

// override runs an admin status override with an optional reason body.
func (h *subscriptionAdminHandler) override(c *gin.Context, action adminAction) {
	adminID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.ReasonInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	sub, err := action(c, adminID, id, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionAdminHandler) Suspend(c *gin.Context) {
	h.override(c, func(c *gin.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
		return h.domain.AdminSuspend(c.Request.Context(), adminID, id, reason)
	})
}

func (h *subscriptionAdminHandler) Reactivate(c *gin.Context) {
	h.override(c, func(c *gin.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
		return h.domain.AdminReactivate(c.Request.Context(), adminID, id, reason)
	})
}

func (h *subscriptionAdminHandler) Cancel(c *gin.Context) {
	h.override(c, func(c *gin.Context, adminID, id uuid.UUID, reason string) (*model.LandlordSubscription, error) {
		return h.domain.AdminCancel(c.Request.Context(), adminID, id, reason)
	})
}

func (h *subscriptionAdminHandler) Renew(c *gin.Context) {
	adminID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.AdminRenewInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	sub, err := h.domain.AdminRenew(c.Request.Context(), adminID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionAdminHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.domain.AdminHistory(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *subscriptionAdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.domain.ListAllPlans(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *subscriptionAdminHandler) GetPlan(c *gin.Context) {
	plan, err := h.domain.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *subscriptionAdminHandler) CreatePlan(c *gin.Context) {
	var req model.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	plan, err := h.domain.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *subscriptionAdminHandler) UpdatePlan(c *gin.Context) {
	var req model.UpdatePlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	plan, err := h.domain.UpdatePlan(c.Request.Context(), c.Param("planId"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *subscriptionAdminHandler) DeletePlan(c *gin.Context) {
	if err := h.domain.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Plan deleted"})
}

func (h *subscriptionAdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.domain.GetSettings(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *subscriptionAdminHandler) UpdateSettings(c *gin.Context) {
	var req model.SettingsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	settings, err := h.domain.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *subscriptionAdminHandler) RunSweep(c *gin.Context) {
	result, err := h.sweeper.RunSweep(c.Request.Context(), c.Param("job"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compile-time check
var _ inbound.SubscriptionAdminHttpPort = (*subscriptionAdminHandler)(nil)
