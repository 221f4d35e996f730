package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/bookline/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/bookline/internal/catalog/domain"
	"github.com/smallbiznis/bookline/internal/intake"
	orderdomain "github.com/smallbiznis/bookline/internal/order/domain"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandlingMiddleware turns the last gin error into the client-visible
// response. The client only ever sees the fixed taxonomy messages; raw
// storage errors stay in the logs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)

		var limited *intake.RateLimitError
		if errors.As(lastErr.Err, &limited) {
			retryAfter := int(time.Until(limited.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
		}

		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var validation *intake.ValidationError
	var limited *intake.RateLimitError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, catalogdomain.ErrUnknownItems):
		return http.StatusBadRequest, "one or more items are unknown or inactive"
	case errors.Is(err, intake.ErrSlotUnavailable):
		return http.StatusBadRequest, "requested slot is not available"
	case errors.Is(err, bookingdomain.ErrTooLateToCancel):
		return http.StatusBadRequest, "booking can no longer be cancelled this close to the appointment"
	case errors.Is(err, bookingdomain.ErrAlreadyDone):
		return http.StatusBadRequest, "booking is already completed"
	case errors.Is(err, orderdomain.ErrPaymentFailed):
		return http.StatusBadRequest, "payment could not be initiated"
	case errors.Is(err, intake.ErrUnauthenticated):
		return http.StatusUnauthorized, "missing or invalid credentials"
	case errors.Is(err, intake.ErrOriginForbidden),
		errors.Is(err, bookingdomain.ErrNotOwner):
		return http.StatusForbidden, "forbidden"
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrInvalidHost),
		errors.Is(err, bookingdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// classifyErrorForLog labels errors for the request log without leaking
// message details into metric-style fields.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		return "validation_error", "invalid_request"
	case status == http.StatusUnauthorized:
		return "unauthorized", "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden", "forbidden"
	case status == http.StatusNotFound:
		return "not_found", "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limited", "rate_limited"
	default:
		return "internal_error", "internal_error"
	}
}
