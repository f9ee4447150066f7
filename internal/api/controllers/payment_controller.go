package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fithub/internal/metrics"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	paymentErrorMessage   = "There was a problem connecting to the payment processor. Please try again."
)

type PaymentController struct {
	checkoutService services.CheckoutServiceInterface
	orderService    services.OrderServiceInterface
	accountService  services.AccountServiceInterface
	catalogService  services.CatalogServiceInterface
}

func NewPaymentController(
	checkoutService services.CheckoutServiceInterface,
	orderService services.OrderServiceInterface,
	accountService services.AccountServiceInterface,
	catalogService services.CatalogServiceInterface,
) *PaymentController {
	return &PaymentController{
		checkoutService: checkoutService,
		orderService:    orderService,
		accountService:  accountService,
		catalogService:  catalogService,
	}
}

// CheckoutSummary godoc
// @Summary Checkout summary
// @Description Empty carts go back to the catalog; stock shortfalls go back to the cart.
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Success 302 "redirect to / or /cart"
// @Router /checkout [get]
func (p *PaymentController) CheckoutSummary(c *gin.Context) {
	view, err := p.checkoutService.Summary(c.Request.Context(), loadCart(c))
	if p.redirectOnCartProblem(c, err) {
		return
	}
	utils.RespondSuccess(c, view, "")
}

// CreateCheckout godoc
// @Summary Pay for the cart
// @Description Creates a hosted checkout session and redirects the browser to it.
// @Tags Payments
// @Success 303 "redirect to the payment page"
// @Success 302 "redirect to / or /cart"
// @Router /checkout [post]
func (p *PaymentController) CreateCheckout(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	account, err := p.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	session, err := p.checkoutService.StartCartCheckout(c.Request.Context(), account, loadCart(c))
	if p.redirectOnCartProblem(c, err) {
		return
	}
	c.Redirect(http.StatusSeeOther, session.URL)
}

// redirectOnCartProblem answers the request when err is set and reports
// whether it did.
func (p *PaymentController) redirectOnCartProblem(c *gin.Context, err error) bool {
	var shortage *services.StockShortageError
	switch {
	case err == nil:
		return false
	case errors.Is(err, utils.ErrEmptyCart):
		utils.Redirect(c, "/")
	case errors.As(err, &shortage):
		utils.Flash(c, utils.FlashError, shortage.Error())
		utils.Redirect(c, "/cart")
	case errors.Is(err, utils.ErrInvalidInput):
		utils.Flash(c, utils.FlashError, "Your cart has too many different products for a single checkout.")
		utils.Redirect(c, "/cart")
	case errors.Is(err, utils.ErrPaymentProvider), errors.Is(err, utils.ErrProviderResourceMissing):
		utils.Flash(c, utils.FlashError, paymentErrorMessage)
		utils.Redirect(c, "/cart")
	default:
		utils.HandleServiceError(c, err)
	}
	return true
}

// CreateProductCheckout godoc
// @Summary Pay for a single product
// @Tags Payments
// @Param id path string true "Product ID"
// @Success 303 "redirect to the payment page"
// @Success 302 "redirect back to the product"
// @Failure 404 {object} utils.APIResponse
// @Router /checkout/oneoff/{id} [post]
func (p *PaymentController) CreateProductCheckout(c *gin.Context) {
	accountID, ok := mustUserID(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := p.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	session, err := p.checkoutService.StartProductCheckout(c.Request.Context(), account, productID)
	var shortage *services.StockShortageError
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, session.URL)
	case errors.As(err, &shortage):
		utils.Flash(c, utils.FlashError, shortage.Error())
		utils.Redirect(c, "/products/"+productID.String())
	case errors.Is(err, utils.ErrPaymentProvider):
		utils.Flash(c, utils.FlashError, paymentErrorMessage)
		utils.Redirect(c, "/products/"+productID.String())
	default:
		utils.HandleServiceError(c, err)
	}
}

// BuyNow godoc
// @Summary Replace the cart with one product and go to checkout
// @Tags Payments
// @Param id path string true "Product ID"
// @Success 302 "redirect to /checkout"
// @Failure 404 {object} utils.APIResponse
// @Router /buy-now/{id} [post]
func (p *PaymentController) BuyNow(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := p.catalogService.GetProduct(c.Request.Context(), productID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if err := saveCart(c, services.Cart{productID: 1}); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.Redirect(c, "/checkout")
}

// CheckoutSuccess godoc
// @Summary Payment completed page
// @Description Clears the cart. The order itself is written by the webhook.
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /checkout/success [get]
func (p *PaymentController) CheckoutSuccess(c *gin.Context) {
	// Payment already went through, so a stale cart is only logged.
	if err := saveCart(c, services.Cart{}); err != nil {
		log.Warn().Err(err).Str("session_id", c.Query("session_id")).Msg("cart not cleared after checkout")
	}
	utils.RespondSuccess(c, gin.H{"session_id": c.Query("session_id")},
		"Thank you! Your payment was received and your order is being processed.")
}

// CheckoutCancel godoc
// @Summary Payment canceled page
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /checkout/cancel [get]
func (p *PaymentController) CheckoutCancel(c *gin.Context) {
	utils.RespondSuccess(c, nil, "Payment canceled. Your cart is still here when you are ready.")
}

// OrderWebhook godoc
// @Summary Payment processor webhook for one-off orders
// @Tags Payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /webhook/oneoff [post]
func (p *PaymentController) OrderWebhook(c *gin.Context) {
	handleWebhook(c, "orders", p.orderService.HandleWebhook)
}

type webhookHandler func(ctx context.Context, payload []byte, signature string) (string, error)

// handleWebhook reads, dispatches and measures one webhook delivery.
func handleWebhook(c *gin.Context, endpoint string, handle webhookHandler) {
	start := time.Now()
	eventType := "unknown"
	defer func() {
		status := c.Writer.Status()
		metrics.WebhookRequestsTotal.WithLabelValues(endpoint, eventType, strconv.Itoa(status)).Inc()
		metrics.WebhookDuration.WithLabelValues(endpoint, eventType).Observe(time.Since(start).Seconds())
	}()

	payload, err := readWebhookBody(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Unreadable body")
		return
	}

	typ, err := handle(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader))
	if typ != "" {
		eventType = typ
	}
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Str("event_type", eventType).Msg("webhook failed")
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
