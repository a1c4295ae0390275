package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/domain"
)

// DomainError writes the response for the shared domain errors and reports
// whether err was one of them.
func DomainError(c *gin.Context, err error) bool {
	var conflict *domain.ConflictError
	var invalid *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrAdminImmune):
		Error(c, http.StatusForbidden, "ADMIN_IMMUNE", "Admin users cannot be modified by this action.")
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(c)
	case errors.Is(err, domain.ErrReasonTooShort):
		ValidationError(c, map[string]string{"reason": "The reason must be at least 10 characters."})
	case errors.As(err, &invalid):
		ValidationError(c, invalid.Fields)
	case errors.As(err, &conflict):
		Error(c, http.StatusUnprocessableEntity, "INVALID_STATE", conflict.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found.")
	default:
		return false
	}
	return true
}

// Fail maps err through DomainError and falls back to a generic 500.
func Fail(c *gin.Context, err error) {
	if DomainError(c, err) {
		return
	}
	Internal(c, err)
}
