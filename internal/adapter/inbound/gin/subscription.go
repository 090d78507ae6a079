package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homerent/server/internal/model"
	"github.com/homerent/server/internal/port/inbound"
)

// subscriptionHandler implements inbound.SubscriptionHttpPort.
type subscriptionHandler struct {
	domain inbound.SubscriptionDomain
	now    func() time.Time
}

// NewSubscriptionHandler creates a new landlord subscription HTTP handler.
func NewSubscriptionHandler(domain inbound.SubscriptionDomain) inbound.SubscriptionHttpPort {
	return &subscriptionHandler{domain: domain, now: time.Now}
}

func (h *subscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.domain.ListPlans(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *subscriptionHandler) Create(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.CreateSubscriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	sub, err := h.domain.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) GetMySubscription(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	sub, err := h.domain.GetMySubscription(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) Renew(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.RenewSubscriptionInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	sub, err := h.domain.Renew(c.Request.Context(), userID, req.PaymentID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) Suspend(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.ReasonInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	sub, err := h.domain.Suspend(c.Request.Context(), userID, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.ReasonInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	sub, err := h.domain.Cancel(c.Request.Context(), userID, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) ToggleAutoRenew(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.ToggleAutoRenewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}

	sub, err := h.domain.ToggleAutoRenew(c.Request.Context(), userID, *req.AutoRenew)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub.ToOutput(h.now()))
}

func (h *subscriptionHandler) CheckAccess(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	access, err := h.domain.CheckAccess(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

func (h *subscriptionHandler) CheckEligibility(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	eligibility, err := h.domain.CheckEligibility(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

func (h *subscriptionHandler) History(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var page model.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		badRequest(c, "invalid_input", err.Error())
		return
	}
	page.DefaultPagination()

	entries, total, err := h.domain.ListMyHistory(c.Request.Context(), userID, &page)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(entries, total, page.Page, page.PageSize))
}

// Compile-time check
var _ inbound.SubscriptionHttpPort = (*subscriptionHandler)(nil)
