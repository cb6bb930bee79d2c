package models

import (
	"time"

	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Venue struct {
	ID           uuid.UUID                                   `gorm:"type:uuid;primarykey" json:"id"`
	Name         string                                      `gorm:"size:100;not null" json:"name"`
	Slug         string                                      `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description  string                                      `gorm:"size:1000" json:"description,omitempty"`
	Location     types.Address                               `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Capacity     types.VenueCapacity                         `gorm:"embedded;embeddedPrefix:capacity_" json:"capacity"`
	Pricing      types.VenuePricing                          `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`
	Amenities    datatypes.JSONSlice[string]                 `json:"amenities"`
	Images       datatypes.JSONSlice[string]                 `json:"images"`
	Availability datatypes.JSONSlice[types.AvailabilitySlot] `json:"availability"`
	Rating       float64                                     `json:"rating"`
	Status       types.VenueStatus                           `gorm:"size:20;index;not null" json:"status"`
	Contact      types.Contact                               `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	Policies     string                                      `json:"policies,omitempty"`
	Tags         datatypes.JSONSlice[string]                 `json:"tags"`
	Features     datatypes.JSONSlice[string]                 `json:"features"`
	CreatedBy    uuid.UUID                                   `gorm:"type:uuid;index" json:"created_by"`

	types.Timestamps
}

// IsAvailableOn reports whether the calendar leaves the UTC day of t open.
// A day is open unless an entry for it has a status other than available.
func (v *Venue) IsAvailableOn(t time.Time) bool {
	day := t.UTC().Format(types.DATE_FORMAT)
	for _, slot := range v.Availability {
		if slot.Date == day && slot.Status != types.SLOT_AVAILABLE {
			return false
		}
	}
	return true
}

func (v *Venue) Bookable(t time.Time) bool {
	return v.Status == types.VENUE_AVAILABLE && v.IsAvailableOn(t)
}

func (v *Venue) Fits(guests int) bool {
	if v.Capacity.Min > 0 && guests < v.Capacity.Min {
		return false
	}
	if v.Capacity.Max > 0 && guests > v.Capacity.Max {
		return false
	}
	return true
}
