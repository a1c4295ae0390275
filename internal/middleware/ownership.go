package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/pkg/response"
)

const ctxEvent = "event"

type EventLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

// OwnershipChecker guards routes that act on an event of the principal's account.
type OwnershipChecker struct {
	events EventLoader
	gate   *authz.Gate
}

func NewOwnershipChecker(events EventLoader, gate *authz.Gate) *OwnershipChecker {
	return &OwnershipChecker{events: events, gate: gate}
}

// CheckEventOwnership loads the event from URL param "id" and stores it in the
// context. Sub-users additionally need teamPerm on their team role, unless
// teamPerm is empty. A foreign event and a missing one both answer 403.
func (oc *OwnershipChecker) CheckEventOwnership(teamPerm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID")
			c.Abort()
			return
		}

		event, err := oc.events.GetByID(c.Request.Context(), eventID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			response.Internal(c, err)
			c.Abort()
			return
		}
		if event == nil {
			response.Forbidden(c)
			c.Abort()
			return
		}

		if err := oc.gate.CanActOnEvent(c.Request.Context(), u, event, teamPerm); err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(ctxEvent, event)
		c.Next()
	}
}

// Event returns the event loaded by CheckEventOwnership.
func Event(c *gin.Context) *domain.Event {
	if v, ok := c.Get(ctxEvent); ok {
		if e, ok := v.(*domain.Event); ok {
			return e
		}
	}
	return nil
}
