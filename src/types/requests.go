package types

import "time"

type RegisterUserRequestBody struct {
	FirstName string  `json:"first_name" binding:"required,min=2,max=50,personname"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=50,personname"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6,strongpassword"`
	Company   string  `json:"company,omitempty" binding:"omitempty,max=100"`
	Phone     string  `json:"phone,omitempty" binding:"omitempty,max=30"`
	Address   Address `json:"address,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequestBody struct {
	FirstName *string  `json:"first_name,omitempty" binding:"omitempty,min=2,max=50,personname"`
	LastName  *string  `json:"last_name,omitempty" binding:"omitempty,min=2,max=50,personname"`
	Company   *string  `json:"company,omitempty" binding:"omitempty,max=100"`
	Phone     *string  `json:"phone,omitempty" binding:"omitempty,max=30"`
	Address   *Address `json:"address,omitempty"`
}

type ChangePasswordRequestBody struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,strongpassword"`
}

type ForgotPasswordRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequestBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6,strongpassword"`
}

type VerifyEmailRequestBody struct {
	Token string `json:"token" binding:"required"`
}

type UpdateUserRequestBody struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,min=2,max=50,personname"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,min=2,max=50,personname"`
	Role      *Role   `json:"role,omitempty" binding:"omitempty,oneof=user manager admin"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type UserQueryFilters struct {
	PageQuery
	Role   string `form:"role" binding:"omitempty,oneof=user manager admin"`
	Active *bool  `form:"active"`
	Search string `form:"search"`
}

type CreatePackageRequestBody struct {
	Name               string        `json:"name" binding:"required,min=3,max=100"`
	Description        string        `json:"description" binding:"required,min=10,max=500"`
	Price              float64       `json:"price" binding:"gte=0"`
	Currency           string        `json:"currency,omitempty" binding:"omitempty,oneof=BDT USD EUR"`
	Features           []string      `json:"features" binding:"required,min=1,dive,min=3,max=100"`
	Category           string        `json:"category" binding:"required,oneof=basic standard premium luxury custom"`
	Duration           int           `json:"duration" binding:"required,min=1,max=30"`
	MaxGuests          int           `json:"max_guests,omitempty" binding:"omitempty,min=10,max=1000"`
	Status             PackageStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive draft"`
	IsPopular          bool          `json:"is_popular,omitempty"`
	Tags               []string      `json:"tags,omitempty"`
	Terms              string        `json:"terms,omitempty" binding:"omitempty,max=2000"`
	CancellationPolicy string        `json:"cancellation_policy,omitempty" binding:"omitempty,max=2000"`
}

type UpdatePackageRequestBody struct {
	Name               *string        `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description        *string        `json:"description,omitempty" binding:"omitempty,min=10,max=500"`
	Price              *float64       `json:"price,omitempty" binding:"omitempty,gte=0"`
	Currency           *string        `json:"currency,omitempty" binding:"omitempty,oneof=BDT USD EUR"`
	Features           []string       `json:"features,omitempty" binding:"omitempty,min=1,dive,min=3,max=100"`
	Category           *string        `json:"category,omitempty" binding:"omitempty,oneof=basic standard premium luxury custom"`
	Duration           *int           `json:"duration,omitempty" binding:"omitempty,min=1,max=30"`
	MaxGuests          *int           `json:"max_guests,omitempty" binding:"omitempty,min=10,max=1000"`
	Status             *PackageStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive draft"`
	Tags               []string       `json:"tags,omitempty"`
	Terms              *string        `json:"terms,omitempty" binding:"omitempty,max=2000"`
	CancellationPolicy *string        `json:"cancellation_policy,omitempty" binding:"omitempty,max=2000"`
}

type PackageQueryFilters struct {
	PageQuery
	Category string   `form:"category" binding:"omitempty,oneof=basic standard premium luxury custom"`
	Status   string   `form:"status" binding:"omitempty,oneof=active inactive draft"`
	MinPrice *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Search   string   `form:"search"`
}

type CreateVenueRequestBody struct {
	Name        string             `json:"name" binding:"required,min=3,max=100"`
	Description string             `json:"description,omitempty" binding:"omitempty,max=1000"`
	Location    Address            `json:"location"`
	Capacity    VenueCapacity      `json:"capacity"`
	Pricing     VenuePricing       `json:"pricing"`
	Amenities   []string           `json:"amenities,omitempty"`
	Contact     Contact            `json:"contact,omitempty"`
	Policies    string             `json:"policies,omitempty" binding:"omitempty,max=2000"`
	Tags        []string           `json:"tags,omitempty"`
	Features    []string           `json:"features,omitempty"`
	Status      VenueStatus        `json:"status,omitempty" binding:"omitempty,oneof=available unavailable maintenance"`
	Rating      float64            `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	Calendar    []AvailabilitySlot `json:"availability,omitempty" binding:"omitempty,dive"`
}

type UpdateVenueRequestBody struct {
	Name        *string        `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=1000"`
	Location    *Address       `json:"location,omitempty"`
	Capacity    *VenueCapacity `json:"capacity,omitempty"`
	Pricing     *VenuePricing  `json:"pricing,omitempty"`
	Amenities   []string       `json:"amenities,omitempty"`
	Contact     *Contact       `json:"contact,omitempty"`
	Policies    *string        `json:"policies,omitempty" binding:"omitempty,max=2000"`
	Tags        []string       `json:"tags,omitempty"`
	Features    []string       `json:"features,omitempty"`
	Rating      *float64       `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
}

type VenueStatusRequestBody struct {
	Status VenueStatus `json:"status" binding:"required,oneof=available unavailable maintenance"`
}

type VenueAvailabilityRequestBody struct {
	Availability []AvailabilitySlot `json:"availability" binding:"required,dive"`
}

type VenueQueryFilters struct {
	PageQuery
	City        string `form:"city"`
	Status      string `form:"status" binding:"omitempty,oneof=available unavailable maintenance"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=1"`
	MaxCapacity int    `form:"max_capacity" binding:"omitempty,min=1"`
	Search      string `form:"search"`
}

type AvailableVenuesQuery struct {
	Date       string `form:"date" binding:"required,calendardate"`
	GuestCount int    `form:"guest_count" binding:"omitempty,min=1"`
	City       string `form:"city"`
}

type CreateBookingRequestBody struct {
	Event           EventDetails  `json:"event"`
	Package         *string       `json:"package,omitempty" binding:"omitempty,uuid"`
	Venue           *string       `json:"venue,omitempty" binding:"omitempty,uuid"`
	Services        []ServiceItem `json:"services,omitempty" binding:"omitempty,dive"`
	Pricing         Pricing       `json:"pricing"`
	Notes           string        `json:"notes,omitempty" binding:"omitempty,max=1000"`
	SpecialRequests string        `json:"special_requests,omitempty" binding:"omitempty,max=1000"`
}

// UpdateBookingRequestBody is a partial update; nil fields are left unchanged.
type UpdateBookingRequestBody struct {
	Event              *EventDetails  `json:"event,omitempty"`
	Services           []ServiceItem  `json:"services,omitempty" binding:"omitempty,dive"`
	Pricing            *Pricing       `json:"pricing,omitempty"`
	Payment            *Payment       `json:"payment,omitempty"`
	Notes              *string        `json:"notes,omitempty" binding:"omitempty,max=1000"`
	SpecialRequests    *string        `json:"special_requests,omitempty" binding:"omitempty,max=1000"`
	CancellationReason *string        `json:"cancellation_reason,omitempty" binding:"omitempty,max=500"`
	Status             *BookingStatus `json:"status,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required"`
}

type BookingQueryFilters struct {
	PageQuery
	Status   string `form:"status"`
	Customer string `form:"customer" binding:"omitempty,uuid"`
	Package  string `form:"package" binding:"omitempty,uuid"`
	Venue    string `form:"venue" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty,calendardate"`
	To       string `form:"to" binding:"omitempty,calendardate"`
}

type DateRangeParams struct {
	Start string `uri:"start" binding:"required,calendardate"`
	End   string `uri:"end" binding:"required,calendardate"`
}

type CreateMessageRequestBody struct {
	Recipient      string     `json:"recipient" binding:"required,uuid"`
	Subject        string     `json:"subject" binding:"required,min=3,max=200"`
	Content        string     `json:"content" binding:"required,min=10,max=5000"`
	Category       string     `json:"category,omitempty" binding:"omitempty,oneof=general support booking payment feedback other"`
	Priority       string     `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	Tags           []string   `json:"tags,omitempty"`
	RelatedBooking *string    `json:"related_booking,omitempty" binding:"omitempty,uuid"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

type ReplyMessageRequestBody struct {
	Subject string `json:"subject,omitempty" binding:"omitempty,min=3,max=200"`
	Content string `json:"content" binding:"required,min=10,max=5000"`
}

type UpdateMessageStatusRequestBody struct {
	Status MessageStatus `json:"status" binding:"required,oneof=unread read replied closed"`
}

type MessageQueryFilters struct {
	PageQuery
	Type     string `form:"type" binding:"omitempty,oneof=sent received all"`
	Status   string `form:"status" binding:"omitempty,oneof=unread read replied closed"`
	Category string `form:"category" binding:"omitempty,oneof=general support booking payment feedback other"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type StatsQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=week month quarter year"`
}
