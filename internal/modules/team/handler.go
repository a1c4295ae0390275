package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/middleware"
	"ticketadmin/internal/pkg/response"
	"ticketadmin/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the organizer team surface on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	subUsers := rg.Group("/sub-users")
	{
		subUsers.GET("", h.ListSubUsers)
		subUsers.POST("", h.CreateSubUser)
		subUsers.POST("/:id/assign-role", h.AssignRole)
		subUsers.POST("/:id/action", h.PerformAction)
	}

	roles := rg.Group("/user/roles")
	{
		roles.GET("", h.ListTeamRoles)
		roles.GET("/assignable", h.AssignableRoles)
		roles.POST("", h.CreateTeamRole)
		roles.PUT("/:id", h.UpdateTeamRole)
		roles.DELETE("/:id", h.DeleteTeamRole)
	}
}

// ==================== Sub-users ====================

func (h *Handler) ListSubUsers(c *gin.Context) {
	users, err := h.service.ListSubUsers(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) CreateSubUser(c *gin.Context) {
	var req CreateSubUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	user, err := h.service.CreateSubUser(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Sub-user created successfully.", "user": user})
}

func (h *Handler) AssignRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	user, err := h.service.AssignRole(c.Request.Context(), middleware.MustPrincipal(c), id, req.Role)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Role assigned successfully.", "user": user})
}

func (h *Handler) PerformAction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SubUserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	user, err := h.service.PerformAction(c.Request.Context(), middleware.MustPrincipal(c), id, req.Action, req.Reason)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": actionMessages[req.Action], "user": user})
}

var actionMessages = map[string]string{
	ActionBlock:   "Sub-user blocked successfully.",
	ActionUnblock: "Sub-user unblocked successfully.",
	ActionRemove:  "Sub-user removed successfully.",
}

// ==================== Team roles ====================

func (h *Handler) ListTeamRoles(c *gin.Context) {
	roles, err := h.service.ListTeamRoles(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

func (h *Handler) AssignableRoles(c *gin.Context) {
	roles, err := h.service.AssignableRoles(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

func (h *Handler) CreateTeamRole(c *gin.Context) {
	var req TeamRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	role, err := h.service.CreateTeamRole(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Role created successfully.", "role": role})
}

func (h *Handler) UpdateTeamRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TeamRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	role, err := h.service.UpdateTeamRole(c.Request.Context(), middleware.MustPrincipal(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Role updated successfully.", "role": role})
}

func (h *Handler) DeleteTeamRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTeamRole(c.Request.Context(), middleware.MustPrincipal(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Role deleted successfully.")
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
