package event

import "time"

type EventRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description" binding:"omitempty,max=5000"`
	Venue       string     `json:"venue" binding:"omitempty,max=255"`
	StartsAt    *time.Time `json:"starts_at"`
}

type TicketRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
	Quantity   int    `json:"quantity" binding:"required,gte=1"`
}

type CouponRequest struct {
	Code            string `json:"code" binding:"required,alphanum,max=32"`
	DiscountPercent int    `json:"discount_percent" binding:"required,gte=1,lte=100"`
}
