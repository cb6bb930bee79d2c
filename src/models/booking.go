package models

import (
	"fmt"
	"time"

	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Booking struct {
	ID         uuid.UUID           `gorm:"type:uuid;primarykey" json:"id"`
	BookingID  string              `gorm:"size:12;uniqueIndex;not null" json:"booking_id"`
	CustomerID uuid.UUID           `gorm:"type:uuid;index;not null" json:"customer_id"`
	Event      types.EventDetails  `gorm:"embedded;embeddedPrefix:event_" json:"event"`
	PackageID  *uuid.UUID          `gorm:"type:uuid;index" json:"package_id,omitempty"`
	VenueID    *uuid.UUID          `gorm:"type:uuid;index" json:"venue_id,omitempty"`
	Status     types.BookingStatus `gorm:"size:20;index;not null" json:"status"`

	Services           datatypes.JSONSlice[types.ServiceItem]   `json:"services"`
	Pricing            types.Pricing                            `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`
	Payment            types.Payment                            `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Timeline           datatypes.JSONSlice[types.TimelineEntry] `json:"timeline"`
	Notes              string                                   `gorm:"size:1000" json:"notes,omitempty"`
	SpecialRequests    string                                   `gorm:"size:1000" json:"special_requests,omitempty"`
	CancellationReason string                                   `gorm:"size:500" json:"cancellation_reason,omitempty"`
	RefundAmount       float64                                  `json:"refund_amount"`
	Attachments        datatypes.JSONSlice[string]              `json:"attachments"`
	ReminderSentAt     *time.Time                               `json:"reminder_sent_at,omitempty"`
	CreatedBy          uuid.UUID                                `gorm:"type:uuid" json:"created_by"`

	Customer *User    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Package  *Package `gorm:"foreignKey:PackageID;constraint:OnDelete:SET NULL" json:"package,omitempty"`
	Venue    *Venue   `gorm:"foreignKey:VenueID;constraint:OnDelete:SET NULL" json:"venue,omitempty"`

	types.Timestamps
}

// FormatBookingID renders the public reference, e.g. BK25030042.
func FormatBookingID(at time.Time, suffix int) string {
	return fmt.Sprintf("BK%s%04d", at.UTC().Format("0601"), suffix%10000)
}

// Open seeds a new booking: pending status and a single "Booking created" entry.
func (b *Booking) Open(actor uuid.UUID, at time.Time) {
	b.Status = types.BOOKING_PENDING
	b.Timeline = datatypes.JSONSlice[types.TimelineEntry]{{
		Status:    types.BOOKING_PENDING,
		Timestamp: at,
		Message:   "Booking created",
		UpdatedBy: actor,
	}}
}

// Transition sets the status and appends exactly one timeline entry.
func (b *Booking) Transition(status types.BookingStatus, actor uuid.UUID, at time.Time) {
	b.Status = status
	b.Timeline = append(b.Timeline, types.TimelineEntry{
		Status:    status,
		Timestamp: at,
		Message:   fmt.Sprintf("Status changed to %s", status),
		UpdatedBy: actor,
	})
}
