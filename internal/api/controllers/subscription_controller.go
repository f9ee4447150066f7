package controllers

import (
	"errors"
	"net/http"

	resp "fithub/internal/models/response_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	planService    services.PlanServiceInterface
	webhookService services.SubscriptionWebhookServiceInterface
	accountService services.AccountServiceInterface
}

func NewSubscriptionController(
	planService services.PlanServiceInterface,
	webhookService services.SubscriptionWebhookServiceInterface,
	accountService services.AccountServiceInterface,
) *SubscriptionController {
	return &SubscriptionController{
		planService:    planService,
		webhookService: webhookService,
		accountService: accountService,
	}
}

// ListPlans godoc
// @Summary Subscription plans
// @Description Active plans. Authenticated callers also get their active, canceled and current plan.
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.PlansPageResponse}
// @Router /subscriptions/plans [get]
func (s *SubscriptionController) ListPlans(c *gin.Context) {
	page, err := s.planService.ListPlans(c.Request.Context(), viewerID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// Subscribe godoc
// @Summary Enroll in a plan
// @Description Starts a subscription checkout. Subscribing while on another plan switches plans once payment completes.
// @Tags Subscriptions
// @Param plan_id path string true "Plan ID"
// @Success 303 "redirect to the payment page"
// @Success 302 "redirect to /subscriptions/plans"
// @Failure 404 {object} utils.APIResponse
// @Router /subscriptions/subscribe/{plan_id} [post]
func (s *SubscriptionController) Subscribe(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "plan_id")
	if !ok {
		return
	}
	account, err := s.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	session, err := s.planService.Enroll(c.Request.Context(), account, planID)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, session.URL)
	case errors.Is(err, utils.ErrAlreadySubscribed):
		utils.Flash(c, utils.FlashInfo, "You are already subscribed to this plan.")
		utils.Redirect(c, "/subscriptions/plans")
	case errors.Is(err, utils.ErrPlanNotPurchasable):
		utils.Flash(c, utils.FlashError, "This plan is not available for purchase right now.")
		utils.Redirect(c, "/subscriptions/plans")
	case errors.Is(err, utils.ErrPaymentProvider), errors.Is(err, utils.ErrProviderResourceMissing):
		utils.Flash(c, utils.FlashError, paymentErrorMessage)
		utils.Redirect(c, "/subscriptions/plans")
	default:
		utils.HandleServiceError(c, err)
	}
}

// MySubscription godoc
// @Summary The caller's current subscription
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/my [get]
func (s *SubscriptionController) MySubscription(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	sub, err := s.planService.CurrentSubscription(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"subscription": resp.NewSubscriptionStatus(sub)}, "")
}

// SubscriptionSuccess godoc
// @Summary Subscription payment completed page
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/success [get]
func (s *SubscriptionController) SubscriptionSuccess(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"session_id": c.Query("session_id")},
		"Thank you for subscribing! Your membership will be active in a moment.")
}

// SubscriptionCancel godoc
// @Summary Subscription payment abandoned page
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /subscriptions/cancel [get]
func (s *SubscriptionController) SubscriptionCancel(c *gin.Context) {
	utils.RespondSuccess(c, nil, "Subscription checkout canceled. You have not been charged.")
}

// CancelSubscription godoc
// @Summary Cancel one of the caller's subscriptions
// @Tags Subscriptions
// @Param sub_id path string true "Subscription ID"
// @Success 302 "redirect to /subscriptions/my"
// @Failure 404 {object} utils.APIResponse
// @Router /subscriptions/cancel/{sub_id} [post]
func (s *SubscriptionController) CancelSubscription(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	subID, ok := pathID(c, "sub_id")
	if !ok {
		return
	}

	outcome, err := s.planService.Cancel(c.Request.Context(), accountID, subID)
	switch {
	case err == nil && outcome == services.CancelOutcomeGoneUpstream:
		utils.Flash(c, utils.FlashInfo, "Your subscription was already ended by the payment processor. It is now marked as canceled.")
	case err == nil:
		utils.Flash(c, utils.FlashSuccess, "Your subscription has been canceled. You keep access until the end of the billing period.")
	case errors.Is(err, utils.ErrAlreadyCanceled):
		utils.Flash(c, utils.FlashInfo, "This subscription is already canceled.")
	case errors.Is(err, utils.ErrPaymentProvider):
		utils.Flash(c, utils.FlashError, "We could not cancel your subscription. Please contact support.")
	default:
		utils.HandleServiceError(c, err)
		return
	}
	utils.Redirect(c, "/subscriptions/my")
}

// SubscriptionWebhook godoc
// @Summary Payment processor webhook for subscriptions
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /subscriptions/webhook [post]
func (s *SubscriptionController) SubscriptionWebhook(c *gin.Context) {
	handleWebhook(c, "subscriptions", s.webhookService.HandleWebhook)
}
