package event

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketadmin/internal/domain"
	"ticketadmin/internal/middleware"
	"ticketadmin/internal/pkg/response"
	"ticketadmin/internal/pkg/validator"
)

type Handler struct {
	service   *Service
	ownership *middleware.OwnershipChecker
}

func NewHandler(service *Service, ownership *middleware.OwnershipChecker) *Handler {
	return &Handler{service: service, ownership: ownership}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	view := h.ownership.CheckEventOwnership("")
	edit := h.ownership.CheckEventOwnership(domain.TeamPermEditEvents)
	remove := h.ownership.CheckEventOwnership(domain.TeamPermDeleteEvents)

	events := rg.Group("/events")
	{
		events.GET("", h.List)
		events.POST("", h.Create)
		events.GET("/:id", view, h.Get)
		events.PUT("/:id", edit, h.Update)
		events.DELETE("/:id", remove, h.Delete)

		events.GET("/:id/tickets", view, h.ListTickets)
		events.POST("/:id/tickets", edit, h.CreateTicket)
		events.GET("/:id/coupons", view, h.ListCoupons)
		events.POST("/:id/coupons", edit, h.CreateCoupon)
	}
}

func (h *Handler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	e, err := h.service.Create(c.Request.Context(), middleware.MustPrincipal(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": e})
}

func (h *Handler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"event": middleware.Event(c)})
}

func (h *Handler) Update(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	e, err := h.service.Update(c.Request.Context(), middleware.Event(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": e})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Event(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Event deleted successfully.")
}

func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.service.Tickets(c.Request.Context(), middleware.Event(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tickets": tickets})
}

func (h *Handler) CreateTicket(c *gin.Context) {
	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	t, err := h.service.CreateTicket(c.Request.Context(), middleware.Event(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"ticket": t})
}

func (h *Handler) ListCoupons(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"coupons": h.service.Coupons(c.Request.Context(), middleware.Event(c))})
}

func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FieldErrors(err))
		return
	}
	coupon, err := h.service.CreateCoupon(c.Request.Context(), middleware.Event(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"coupon": coupon})
}
