package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/authz"
	"ticketadmin/internal/domain"
	"ticketadmin/internal/middleware"
	"ticketadmin/internal/pkg/response"
	"ticketadmin/internal/pkg/validator"
)

type Handler struct {
	service *Service
	authz   Authorizer
}

func NewHandler(service *Service, authorizer Authorizer) *Handler {
	return &Handler{service: service, authz: authorizer}
}

// RegisterRoutes mounts user moderation on a group already behind JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup, gate *authz.Gate) {
	can := func(perm string) gin.HandlerFunc { return middleware.RequirePermission(gate, perm) }

	admin.GET("/users", can(domain.PermViewUsers), h.ListUsers)
	admin.GET("/users/:id", can(domain.PermViewUsers), h.GetUser)
	admin.GET("/users/:id/login-history", can(domain.PermViewLoginHistory), h.GetLoginHistory)

	admin.POST("/users/:id/approve", can(domain.PermApproveUsers), h.Approve)
	admin.POST("/users/:id/block", can(domain.PermBlockUsers), h.Block)
	admin.POST("/users/:id/unblock", can(domain.PermBlockUsers), h.Unblock)
	admin.DELETE("/users/:id", can(domain.PermDeleteUsers), h.SoftDelete)
	admin.POST("/users/:id/restore", can(domain.PermDeleteUsers), h.Restore)
	admin.DELETE("/users/:id/force-delete", can(domain.PermDeleteUsers), h.ForceDelete)

	// permission depends on the action in the body, checked in the handler
	admin.POST("/users/bulk-action", h.BulkAction)
}

// ListUsers lists every non-admin account including soft-deleted ones.
func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) GetLoginHistory(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.service.LoginHistory(c.Request.Context(), id, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"login_history": rows})
}

// Approve moves a pending account to active.
func (h *Handler) Approve(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.service.Approve(c.Request.Context(), actorID(c), id)
	h.respond(c, u, err, "User approved successfully.")
}

// Block blocks an account with a reason of at least 10 characters.
func (h *Handler) Block(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	req, ok := bindReason(c)
	if !ok {
		return
	}
	u, err := h.service.Block(c.Request.Context(), actorID(c), id, req.Reason)
	h.respond(c, u, err, "User blocked successfully.")
}

func (h *Handler) Unblock(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.service.Unblock(c.Request.Context(), actorID(c), id)
	h.respond(c, u, err, "User unblocked successfully.")
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	req, ok := bindReason(c)
	if !ok {
		return
	}
	u, err := h.service.SoftDelete(c.Request.Context(), actorID(c), id, req.Reason)
	h.respond(c, u, err, "User deleted successfully.")
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.service.Restore(c.Request.Context(), actorID(c), id)
	h.respond(c, u, err, "User restored successfully.")
}

func (h *Handler) ForceDelete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.service.ForceDelete(c.Request.Context(), actorID(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User permanently deleted.")
}

// BulkAction applies one action to a list of users and reports per-user outcomes.
func (h *Handler) BulkAction(c *gin.Context) {
	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	principal := middleware.MustPrincipal(c)
	if err := h.authz.Authorize(c.Request.Context(), principal, permissionFor(req.Action)); err != nil {
		response.Fail(c, err)
		return
	}

	outcomes, err := h.service.Bulk(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	succeeded := 0
	for _, o := range outcomes {
		if o.OK {
			succeeded++
		}
	}
	response.Success(c, http.StatusOK, gin.H{
		"results":   outcomes,
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	})
}

func (h *Handler) respond(c *gin.Context, u *domain.User, err error, message string) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": message, "user": u})
}

func permissionFor(action string) string {
	switch action {
	case ActionApprove:
		return domain.PermApproveUsers
	case ActionBlock, ActionUnblock:
		return domain.PermBlockUsers
	default:
		return domain.PermDeleteUsers
	}
}

func actorID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

// bindReason accepts a missing body as an empty reason.
func bindReason(c *gin.Context) (ReasonRequest, bool) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationError(c, validator.FieldErrors(err))
		return req, false
	}
	return req, true
}
