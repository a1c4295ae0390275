package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/middleware"
	"ticketadmin/internal/pkg/response"
	"ticketadmin/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts register and login. limit guards both against
// credential stuffing; pass nil to skip it.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter, limit gin.HandlerFunc) {
	handlers := func(final gin.HandlerFunc) []gin.HandlerFunc {
		if limit == nil {
			return []gin.HandlerFunc{final}
		}
		return []gin.HandlerFunc{limit, final}
	}
	r.POST("/register", handlers(h.Register)...)
	r.POST("/login", handlers(h.Login)...)
}

func (h *Handler) RegisterProtectedRoutes(protected gin.IRouter) {
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
}

// Register creates an account in the approval queue.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Login issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "These credentials do not match our records.")
		case errors.Is(err, ErrAccountPending):
			response.Error(c, http.StatusForbidden, "ACCOUNT_PENDING", "Your account is awaiting approval.")
		case errors.Is(err, ErrAccountBlocked):
			response.Error(c, http.StatusForbidden, "ACCOUNT_BLOCKED", "Your account has been blocked.")
		default:
			response.Internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	claims, _ := middleware.Claims(c)
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.Internal(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Logged out.")
}

func (h *Handler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}
