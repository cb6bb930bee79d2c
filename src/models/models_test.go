package models

import (
	"testing"
	"time"

	"uservice/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestFormatBookingID(t *testing.T) {
	at := time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "BK25030042", FormatBookingID(at, 42))
	assert.Equal(t, "BK25039999", FormatBookingID(at, 9999))
	assert.Equal(t, "BK25030000", FormatBookingID(at, 10000))
}

func TestBookingTimeline(t *testing.T) {
	actor := uuid.New()
	manager := uuid.New()
	at := time.Now().UTC()

	var b Booking
	b.Open(actor, at)
	assert.Equal(t, types.BOOKING_PENDING, b.Status)
	if assert.Len(t, b.Timeline, 1) {
		assert.Equal(t, "Booking created", b.Timeline[0].Message)
		assert.Equal(t, actor, b.Timeline[0].UpdatedBy)
	}

	b.Transition(types.BOOKING_CONFIRMED, manager, at.Add(time.Minute))
	assert.Equal(t, types.BOOKING_CONFIRMED, b.Status)
	if assert.Len(t, b.Timeline, 2) {
		assert.Equal(t, types.BOOKING_PENDING, b.Timeline[0].Status)
		assert.Equal(t, types.BOOKING_CONFIRMED, b.Timeline[1].Status)
		assert.Equal(t, "Status changed to confirmed", b.Timeline[1].Message)
		assert.Equal(t, manager, b.Timeline[1].UpdatedBy)
	}
}

func TestVenueAvailability(t *testing.T) {
	date := time.Date(2030, time.June, 1, 15, 0, 0, 0, time.UTC)
	v := Venue{Status: types.VENUE_AVAILABLE, Capacity: types.VenueCapacity{Min: 50, Max: 300}}
	assert.True(t, v.IsAvailableOn(date), "empty calendar is open")

	v.Availability = datatypes.JSONSlice[types.AvailabilitySlot]{
		{Date: "2030-06-01", Status: types.SLOT_AVAILABLE},
		{Date: "2030-06-02", Status: types.SLOT_BOOKED},
	}
	assert.True(t, v.Bookable(date))
	assert.False(t, v.IsAvailableOn(date.Add(24*time.Hour)))

	v.Status = types.VENUE_MAINTENANCE
	assert.False(t, v.Bookable(date))

	assert.True(t, v.Fits(100))
	assert.False(t, v.Fits(20))
	assert.False(t, v.Fits(301))
}

func TestMessageStatusStampsOnce(t *testing.T) {
	first := time.Now().UTC()
	m := Message{Status: types.MESSAGE_UNREAD}
	m.SetStatus(types.MESSAGE_READ, first)
	m.SetStatus(types.MESSAGE_READ, first.Add(time.Hour))
	if assert.NotNil(t, m.ReadAt) {
		assert.True(t, m.ReadAt.Equal(first))
	}
	m.SetStatus(types.MESSAGE_CLOSED, first)
	assert.Equal(t, types.MESSAGE_CLOSED, m.Status)
	assert.NotNil(t, m.ClosedAt)
	assert.Nil(t, m.RepliedAt)
}

func TestMessageRoot(t *testing.T) {
	root := uuid.New()
	m := Message{ID: uuid.New()}
	assert.Equal(t, m.ID, m.Root())
	m.ThreadID = &root
	assert.Equal(t, root, m.Root())
}

func TestIssuedBeforePasswordChange(t *testing.T) {
	changed := time.Date(2025, 1, 1, 12, 0, 0, 500, time.UTC)
	u := User{}
	assert.False(t, u.IssuedBeforePasswordChange(changed))
	u.PasswordChangedAt = &changed
	assert.True(t, u.IssuedBeforePasswordChange(changed.Add(-time.Minute)))
	assert.False(t, u.IssuedBeforePasswordChange(changed.Truncate(time.Second)))
}
