package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status   string         `json:"status"`
	Code     int            `json:"code"`
	Message  string         `json:"message,omitempty"`
	TraceID  string         `json:"trace_id,omitempty"`
	Messages []FlashMessage `json:"messages,omitempty"`
	Data     interface{}    `json:"data,omitempty"`
}

// FormResponse is the body of a form view: the submitted values plus any
// field-level errors. An empty Errors map means the form is pristine.
type FormResponse struct {
	Form   interface{} `json:"form"`
	Errors FieldErrors `json:"errors,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:   "success",
		Code:     http.StatusOK,
		Message:  message,
		TraceID:  traceID(c),
		Messages: PopFlashes(c),
		Data:     data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondForm re-renders a form. Invalid submissions still answer 200 so
// that browsers stay on the page.
func RespondForm(c *gin.Context, form interface{}, errs FieldErrors) {
	status := "success"
	message := ""
	if len(errs) > 0 {
		status = "invalid"
		message = "Please correct the errors below."
	}
	c.JSON(http.StatusOK, APIResponse{
		Status:   status,
		Code:     http.StatusOK,
		Message:  message,
		TraceID:  traceID(c),
		Messages: PopFlashes(c),
		Data:     FormResponse{Form: form, Errors: errs},
	})
}

func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrReviewNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrSubscriptionNotFound),
		errors.Is(err, ErrProgressNotFound):
		RespondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrCartFull):
		RespondError(c, http.StatusBadRequest, "Your cart cannot hold more different products. Please check out first.")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrUsernameTaken):
		RespondError(c, http.StatusConflict, "A user with that username already exists.")
	case errors.Is(err, ErrInvalidWebhookSignature), errors.Is(err, ErrInvalidWebhookPayload):
		RespondError(c, http.StatusBadRequest, "Invalid webhook")
	case errors.Is(err, ErrPaymentProvider):
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("payment provider error")
		RespondError(c, http.StatusBadGateway, "Payment provider unavailable")
	case errors.Is(err, ErrSessionStore):
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("session save failed")
		RespondError(c, http.StatusInternalServerError, "Could not save your session")
	case errors.Is(err, ErrDatabaseError):
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("unhandled error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
