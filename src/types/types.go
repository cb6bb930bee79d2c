package types

import "time"

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Role string

const (
	ROLE_USER    Role = "user"
	ROLE_MANAGER Role = "manager"
	ROLE_ADMIN   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case ROLE_USER, ROLE_MANAGER, ROLE_ADMIN:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
)

var BookingStatuses = []BookingStatus{BOOKING_PENDING, BOOKING_CONFIRMED, BOOKING_CANCELLED, BOOKING_COMPLETED}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_PARTIAL   PaymentStatus = "partial"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

type PackageStatus string

const (
	PACKAGE_ACTIVE   PackageStatus = "active"
	PACKAGE_INACTIVE PackageStatus = "inactive"
	PACKAGE_DRAFT    PackageStatus = "draft"
)

type VenueStatus string

const (
	VENUE_AVAILABLE   VenueStatus = "available"
	VENUE_UNAVAILABLE VenueStatus = "unavailable"
	VENUE_MAINTENANCE VenueStatus = "maintenance"
)

type SlotStatus string

const (
	SLOT_AVAILABLE SlotStatus = "available"
	SLOT_BOOKED    SlotStatus = "booked"
	SLOT_BLOCKED   SlotStatus = "blocked"
)

type MessageStatus string

const (
	MESSAGE_UNREAD  MessageStatus = "unread"
	MESSAGE_READ    MessageStatus = "read"
	MESSAGE_REPLIED MessageStatus = "replied"
	MESSAGE_CLOSED  MessageStatus = "closed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MESSAGE_UNREAD, MESSAGE_READ, MESSAGE_REPLIED, MESSAGE_CLOSED:
		return true
	}
	return false
}

type MessagePriority string

const (
	PRIORITY_LOW    MessagePriority = "low"
	PRIORITY_MEDIUM MessagePriority = "medium"
	PRIORITY_HIGH   MessagePriority = "high"
	PRIORITY_URGENT MessagePriority = "urgent"
)

type MessageCategory string

const (
	CATEGORY_GENERAL  MessageCategory = "general"
	CATEGORY_SUPPORT  MessageCategory = "support"
	CATEGORY_BOOKING  MessageCategory = "booking"
	CATEGORY_PAYMENT  MessageCategory = "payment"
	CATEGORY_FEEDBACK MessageCategory = "feedback"
	CATEGORY_OTHER    MessageCategory = "other"
)

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type SlugRequestParams struct {
	Slug string `uri:"slug" binding:"required"`
}
