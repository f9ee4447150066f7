package utils

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")

	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnauthenticated    = errors.New("authentication required")

	ErrProductNotFound      = errors.New("product not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrProgressNotFound     = errors.New("progress update not found")

	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCartFull           = errors.New("cart cannot hold more different products")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrAlreadySubscribed  = errors.New("already subscribed to this plan")
	ErrPlanNotPurchasable = errors.New("plan is not purchasable")
	ErrAlreadyCanceled    = errors.New("subscription already canceled")

	ErrPaymentProvider         = errors.New("payment provider error")
	ErrProviderResourceMissing = errors.New("resource missing at payment provider")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrInvalidWebhookPayload   = errors.New("invalid webhook payload")

	ErrMailDelivery = errors.New("mail delivery failed")
	ErrSessionStore = errors.New("session could not be saved")
)

// DBError tags a storage failure with ErrDatabaseError while keeping the
// original message for logs.
func DBError(op string, err error) error {
	return pkgerrors.Wrapf(ErrDatabaseError, "%s: %v", op, err)
}
