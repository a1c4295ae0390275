package domain

import "time"

// Event, Ticket and Coupon are plain records. They exist here only so the
// ownership checks have something to guard.
type Event struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	OwnerID     int64      `json:"owner_id" gorm:"index;not null"`
	Owner       *User      `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Event) TableName() string { return "events" }

type Ticket struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	EventID      int64     `json:"event_id" gorm:"index;not null"`
	Event        *Event    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name         string    `json:"name" gorm:"not null"`
	PriceCents   int64     `json:"price_cents"`
	Quantity     int       `json:"quantity"`
	SoldQuantity int       `json:"sold_quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }

type Coupon struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	EventID         int64     `json:"event_id" gorm:"index;not null"`
	Event           *Event    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Code            string    `json:"code" gorm:"not null"`
	DiscountPercent int       `json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }
