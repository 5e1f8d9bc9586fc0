// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"io"
	"net/http"
	"strconv"

	"projexa-service/internal/domain/subscription"
	"projexa-service/internal/integration/fedapay"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/response"
	service "projexa-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	payments            *fedapay.Client
	logger              *zap.Logger
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService, payments *fedapay.Client, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		payments:            payments,
		logger:              logger,
	}
}

// ========== Plans ==========

func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req subscription.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	plan, err := h.subscriptionService.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create plan")
		return
	}

	response.Success(c, http.StatusCreated, "plan created", plan)
}

func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	var req subscription.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	plan, err := h.subscriptionService.UpdatePlan(c.Request.Context(), planID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update plan")
		return
	}

	response.Success(c, http.StatusOK, "plan updated", plan)
}

func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := h.subscriptionService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		response.FromError(c, err, "failed to load plan")
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", plan)
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	includeInactive := middleware.IsAdmin(c) && c.Query("all") == "true"

	plans, err := h.subscriptionService.ListPlans(c.Request.Context(), includeInactive)
	if err != nil {
		response.FromError(c, err, "failed to list plans")
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", gin.H{"plans": plans})
}

// ========== Checkout / lifecycle ==========

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req subscription.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	result, err := h.subscriptionService.Checkout(c.Request.Context(), identityID, &req)
	if err != nil {
		response.FromError(c, err, "failed to start checkout")
		return
	}

	response.Success(c, http.StatusCreated, "checkout started", result)
}

// PaymentWebhook receives FedaPay transaction events. The signature is
// checked over the raw body before anything is decoded.
func (h *SubscriptionHandler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read body", err)
		return
	}

	if !h.payments.VerifySignature(body, c.GetHeader("X-FedaPay-Signature")) {
		h.logger.Warn("rejected webhook with bad signature", zap.String("ip", c.ClientIP()))
		response.Error(c, http.StatusUnauthorized, "invalid signature", nil)
		return
	}

	event, err := fedapay.ParseWebhook(body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	if err := h.subscriptionService.HandlePaymentWebhook(c.Request.Context(), event); err != nil {
		response.FromError(c, err, "failed to process payment event")
		return
	}

	response.Success(c, http.StatusOK, "event processed", nil)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	subID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), subID, identityID, role); err != nil {
		response.FromError(c, err, "failed to cancel subscription")
		return
	}

	response.Success(c, http.StatusOK, "subscription cancelled", nil)
}

// ========== Queries ==========

func (h *SubscriptionHandler) Get(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	role, _ := middleware.GetRole(c)

	subID, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(c.Request.Context(), subID, identityID, role)
	if err != nil {
		response.FromError(c, err, "failed to load subscription")
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", sub)
}

// GetCurrent returns the caller's live subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), identityID)
	if err != nil {
		response.FromError(c, err, "failed to load subscription")
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", sub)
}

// List is admin-only; regular users are scoped to themselves
func (h *SubscriptionHandler) List(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var filters subscription.SubscriptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}
	if !middleware.IsAdmin(c) {
		filters.UserID = &identityID
	}

	result, err := h.subscriptionService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list subscriptions")
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid ID", err)
		return 0, false
	}
	return id, true
}
