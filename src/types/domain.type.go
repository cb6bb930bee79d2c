package types

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	Street  string `json:"street,omitempty" binding:"omitempty,max=200"`
	City    string `json:"city,omitempty" binding:"omitempty,max=100"`
	State   string `json:"state,omitempty" binding:"omitempty,max=100"`
	ZipCode string `json:"zip_code,omitempty" binding:"omitempty,max=20"`
	Country string `json:"country,omitempty" binding:"omitempty,max=100"`
}

type Contact struct {
	Phone string `json:"phone,omitempty" binding:"omitempty,max=30"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

type EventDetails struct {
	Type       string    `json:"type" binding:"required,oneof=wedding reception engagement mehendi haldi holud other"`
	Date       time.Time `json:"date" binding:"required,futuredate"`
	GuestCount int       `json:"guest_count" binding:"required,min=1"`
}

var EventTypes = []string{"wedding", "reception", "engagement", "mehendi", "haldi", "holud", "other"}

type Pricing struct {
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
	Discount float64 `json:"discount" binding:"gte=0"`
	Tax      float64 `json:"tax" binding:"gte=0"`
	Total    float64 `json:"total" binding:"gte=0"`
}

type Payment struct {
	Status        PaymentStatus `json:"status" binding:"omitempty,oneof=pending partial completed failed refunded"`
	Method        string        `json:"method,omitempty" binding:"omitempty,max=50"`
	PaidAmount    float64       `json:"paid_amount" binding:"gte=0"`
	TransactionID string        `json:"transaction_id,omitempty" binding:"omitempty,max=100"`
}

type ServiceItem struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Price float64 `json:"price" binding:"gte=0"`
}

type TimelineEntry struct {
	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	UpdatedBy uuid.UUID     `json:"updated_by"`
}

type VenueCapacity struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type VenuePricing struct {
	BasePrice     float64 `json:"base_price"`
	PricePerGuest float64 `json:"price_per_guest"`
	Currency      string  `json:"currency,omitempty" binding:"omitempty,oneof=BDT USD EUR"`
}

// AvailabilitySlot is one calendar entry of a venue. Date is YYYY-MM-DD.
type AvailabilitySlot struct {
	Date   string     `json:"date" binding:"required,calendardate"`
	Status SlotStatus `json:"status" binding:"required,oneof=available booked blocked"`
}

const DATE_FORMAT = "2006-01-02"
