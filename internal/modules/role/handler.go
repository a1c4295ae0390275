package role

import (
	"errors"
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
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts global role management on the admin group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup, gate *authz.Gate) {
	manage := middleware.RequirePermission(gate, domain.PermManageRoles)

	admin.GET("/roles", manage, h.List)
	admin.GET("/roles/:id", manage, h.Get)
	admin.POST("/roles", manage, h.Create)
	admin.PUT("/roles/:id", manage, h.Update)
	admin.DELETE("/roles/:id", manage, h.Delete)
	admin.GET("/permissions", manage, h.Permissions)
	admin.POST("/users/:id/assign-roles", manage, h.AssignRoles)
}

func (h *Handler) List(c *gin.Context) {
	var q ListRolesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	roles, err := h.service.List(c.Request.Context(), q.Type)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"roles": roles})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"role": role})
}

// Create adds a global role.
func (h *Handler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	role, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Role created successfully.", "role": role})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	role, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Role updated successfully.", "role": role})
}

// Delete removes a role and its assignments. Any failure after the lookup is
// reported as a generic error.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Fail(c, err)
			return
		}
		response.Internal(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Role deleted successfully.")
}

func (h *Handler) Permissions(c *gin.Context) {
	perms, err := h.service.Permissions(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permissions": perms})
}

func (h *Handler) AssignRoles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	user, err := h.service.AssignRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Roles assigned successfully.", "user": user})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
