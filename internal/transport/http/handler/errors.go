package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
)

const (
	errInternalServer = "Internal server error"
	errUserNotFound   = "No user found with this email"
	errCourseNotFound = "No course found with this ID"
)

// statusFor maps the domain error taxonomy onto HTTP status codes.
// ErrInvoiceNotPaid is deliberately 202: the gateway will call again.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrResetCodeMismatch):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrCourseAlreadyOwned):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrResetExpired),
		errors.Is(err, domain.ErrNoPendingReset),
		errors.Is(err, domain.ErrEmptyResetCode):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrEmailDelivery),
		errors.Is(err, domain.ErrGateway):
		return http.StatusBadGateway, true
	case errors.Is(err, domain.ErrInvoiceNotPaid):
		return http.StatusAccepted, true
	}
	return 0, false
}

// respondError writes a tagged domain error, or a logged 500 for anything
// outside the taxonomy.
func respondError(c *gin.Context, err error) bool {
	status, ok := statusFor(err)
	if !ok {
		return false
	}
	c.JSON(status, gin.H{"error": err.Error()})
	return true
}
