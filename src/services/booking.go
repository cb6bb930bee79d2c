package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"uservice/src/access"
	"uservice/src/models"
	"uservice/src/models/scopes"
	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bookingIDAttempts = 5

// BookingService is the booking engine: creation, the status timeline and
// owner/staff access to bookings.
type BookingService struct {
	db       *gorm.DB
	notifier Notifier
	now      Clock
	suffix   func() int
}

func NewBookingService(db *gorm.DB, notifier Notifier) *BookingService {
	return &BookingService{
		db:       db,
		notifier: notifier,
		now:      utcNow,
		suffix:   func() int { return rand.Intn(10000) },
	}
}

func (s *BookingService) WithClock(now Clock) *BookingService {
	s.now = now
	return s
}

// WithSuffix replaces the generator of the 4-digit booking id suffix.
func (s *BookingService) WithSuffix(suffix func() int) *BookingService {
	s.suffix = suffix
	return s
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Package").Preload("Venue")
}

func (s *BookingService) find(ctx context.Context, id uuid.UUID, preload bool) (*models.Booking, error) {
	q := s.db.WithContext(ctx)
	if preload {
		q = q.Scopes(withRelations)
	}
	var b models.Booking
	if err := q.Scopes(scopes.WithID(id)).First(&b).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	return &b, nil
}

func validateEvent(verr *types.ValidationError, event types.EventDetails, now time.Time) {
	if !event.Date.After(now) {
		verr.Add("event.date", "must be in the future")
	}
	if event.GuestCount < 1 {
		verr.Add("event.guest_count", "must be at least 1")
	}
	valid := false
	for _, t := range types.EventTypes {
		if t == event.Type {
			valid = true
			break
		}
	}
	if !valid {
		verr.Add("event.type", "is not a supported event type")
	}
}

func validatePricing(verr *types.ValidationError, p types.Pricing) {
	if p.Subtotal < 0 {
		verr.Add("pricing.subtotal", "must be zero or more")
	}
	if p.Discount < 0 {
		verr.Add("pricing.discount", "must be zero or more")
	}
	if p.Tax < 0 {
		verr.Add("pricing.tax", "must be zero or more")
	}
	if p.Total < 0 {
		verr.Add("pricing.total", "must be zero or more")
	}
}

func optionalID(verr *types.ValidationError, raw *string, field string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		verr.Add(field, "must be a valid id")
		return nil
	}
	return &id
}

func (s *BookingService) Create(ctx context.Context, caller *types.Caller, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, err
	}
	now := s.now()

	verr := &types.ValidationError{}
	validateEvent(verr, body.Event, now)
	validatePricing(verr, body.Pricing)
	packageID := optionalID(verr, body.Package, "package")
	venueID := optionalID(verr, body.Venue, "venue")
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var pkg *models.Package
	if packageID != nil {
		var p models.Package
		err := s.db.WithContext(ctx).Scopes(scopes.WithID(*packageID)).First(&p).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err != nil || !p.Bookable() {
			return nil, fmt.Errorf("%w: package is not available", types.ErrNotAvailable)
		}
		pkg = &p
	}
	var venue *models.Venue
	if venueID != nil {
		var v models.Venue
		err := s.db.WithContext(ctx).Scopes(scopes.WithID(*venueID)).First(&v).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err != nil || !v.Bookable(body.Event.Date) {
			return nil, fmt.Errorf("%w: venue is not available on the selected date", types.ErrNotAvailable)
		}
		venue = &v
	}
	if pkg != nil && pkg.MaxGuests > 0 && body.Event.GuestCount > pkg.MaxGuests {
		verr.Add("event.guest_count", fmt.Sprintf("exceeds the package limit of %d guests", pkg.MaxGuests))
	}
	if venue != nil && !venue.Fits(body.Event.GuestCount) {
		verr.Add("event.guest_count", fmt.Sprintf("must be between %d and %d for this venue", venue.Capacity.Min, venue.Capacity.Max))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	services := datatypes.JSONSlice[types.ServiceItem]{}
	if body.Services != nil {
		services = datatypes.JSONSlice[types.ServiceItem](body.Services)
	}
	booking := models.Booking{
		ID:         uuid.New(),
		CustomerID: caller.ID,
		Event: types.EventDetails{
			Type:       body.Event.Type,
			Date:       body.Event.Date.UTC(),
			GuestCount: body.Event.GuestCount,
		},
		PackageID:       packageID,
		VenueID:         venueID,
		Services:        services,
		Pricing:         body.Pricing,
		Payment:         types.Payment{Status: types.PAYMENT_PENDING},
		Notes:           body.Notes,
		SpecialRequests: body.SpecialRequests,
		Attachments:     strs(nil),
		CreatedBy:       caller.ID,
	}
	booking.Open(caller.ID, now)

	created := false
	for attempt := 1; attempt <= bookingIDAttempts; attempt++ {
		booking.BookingID = models.FormatBookingID(now, s.suffix())
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&booking).Error
		})
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		log.Printf("[Booking] booking id %s taken, attempt %d\n", booking.BookingID, attempt)
	}
	if !created {
		return nil, &types.ConflictError{Field: "booking_id", Message: "could not allocate a unique booking id"}
	}
	log.Printf("[Booking] %s created for %s\n", booking.BookingID, caller.ID)

	out, err := s.find(ctx, booking.ID, true)
	if err != nil {
		return nil, err
	}
	if out.Customer != nil {
		s.notifier.BookingCreated(out, out.Customer)
	}
	return out, nil
}

// UpdateStatus moves a booking to status and appends one timeline entry.
// Only status, timeline and updated_at are written.
func (s *BookingService) UpdateStatus(ctx context.Context, caller *types.Caller, id uuid.UUID, status types.BookingStatus) (*models.Booking, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, types.NewFieldError("status", "must be one of pending, confirmed, cancelled, completed")
	}
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(scopes.WithID(id)).First(&b).Error; err != nil {
			return notFound(err, "booking")
		}
		b.Transition(status, caller.ID, now)
		b.UpdatedAt = now
		return tx.Model(&b).Select("status", "timeline", "updated_at").Updates(&b).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Booking] %s status set to %s by %s\n", id, status, caller.ID)

	out, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if out.Customer != nil {
		s.notifier.BookingStatusChanged(out, out.Customer)
	}
	return out, nil
}

// Update applies a partial update. Status changes are honored only for staff.
func (s *BookingService) Update(ctx context.Context, caller *types.Caller, id uuid.UUID, body *types.UpdateBookingRequestBody) (*models.Booking, error) {
	current, err := s.find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, current.CustomerID, access.Staff...); err != nil {
		return nil, err
	}
	now := s.now()
	statusChanged := false

	// the row is re-read under lock so a concurrent status change keeps its timeline entry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(scopes.WithID(id)).First(&b).Error; err != nil {
			return notFound(err, "booking")
		}
		columns, changed, err := applyUpdate(&b, caller, body, now)
		if err != nil {
			return err
		}
		statusChanged = changed
		if len(columns) == 0 {
			return nil
		}
		b.UpdatedAt = now
		columns = append(columns, "updated_at")
		return tx.Model(&b).Select(columns).Updates(&b).Error
	})
	if err != nil {
		return nil, err
	}

	out, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if statusChanged && out.Customer != nil {
		s.notifier.BookingStatusChanged(out, out.Customer)
	}
	return out, nil
}

// applyUpdate copies the set fields of body onto b and returns the columns to write.
func applyUpdate(b *models.Booking, caller *types.Caller, body *types.UpdateBookingRequestBody, now time.Time) ([]string, bool, error) {
	verr := &types.ValidationError{}
	columns := []string{}

	if body.Event != nil {
		validateEvent(verr, *body.Event, now)
		b.Event = types.EventDetails{
			Type:       body.Event.Type,
			Date:       body.Event.Date.UTC(),
			GuestCount: body.Event.GuestCount,
		}
		columns = append(columns, "event_type", "event_date", "event_guest_count")
	}
	if body.Services != nil {
		b.Services = datatypes.JSONSlice[types.ServiceItem](body.Services)
		columns = append(columns, "services")
	}
	if body.Pricing != nil {
		validatePricing(verr, *body.Pricing)
		b.Pricing = *body.Pricing
		columns = append(columns, "pricing_subtotal", "pricing_discount", "pricing_tax", "pricing_total")
	}
	if body.Payment != nil {
		b.Payment = *body.Payment
		if b.Payment.Status == "" {
			b.Payment.Status = types.PAYMENT_PENDING
		}
		columns = append(columns, "payment_status", "payment_method", "payment_paid_amount", "payment_transaction_id")
	}
	if body.Notes != nil {
		b.Notes = *body.Notes
		columns = append(columns, "notes")
	}
	if body.SpecialRequests != nil {
		b.SpecialRequests = *body.SpecialRequests
		columns = append(columns, "special_requests")
	}
	if body.CancellationReason != nil {
		b.CancellationReason = *body.CancellationReason
		columns = append(columns, "cancellation_reason")
	}
	statusChanged := false
	if body.Status != nil && caller.IsStaff() {
		if !body.Status.Valid() {
			verr.Add("status", "must be one of pending, confirmed, cancelled, completed")
		} else if *body.Status != b.Status {
			b.Transition(*body.Status, caller.ID, now)
			statusChanged = true
			columns = append(columns, "status", "timeline")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, false, err
	}
	return columns, statusChanged, nil
}

// Delete removes a booking. Only admins may delete bookings past pending.
func (s *BookingService) Delete(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	b, err := s.find(ctx, id, false)
	if err != nil {
		return err
	}
	if err := access.RequireOwnerOrRole(caller, b.CustomerID, access.Staff...); err != nil {
		return err
	}
	if b.Status != types.BOOKING_PENDING && !caller.IsAdmin() {
		return fmt.Errorf("%w: only pending bookings can be deleted", types.ErrInvalidState)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).Where("related_booking_id = ?", id).Update("related_booking_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Scopes(scopes.WithID(id)).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		log.Printf("[Booking] %s deleted by %s\n", b.BookingID, caller.ID)
		return nil
	})
}

func (s *BookingService) Get(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.Booking, error) {
	b, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, b.CustomerID, access.Staff...); err != nil {
		return nil, err
	}
	return b, nil
}

func parseDay(raw, field string) (time.Time, error) {
	t, err := time.Parse(types.DATE_FORMAT, raw)
	if err != nil {
		return time.Time{}, types.NewFieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func (s *BookingService) List(ctx context.Context, caller *types.Caller, filters *types.BookingQueryFilters) ([]models.Booking, *types.Pagination, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Booking{}).Scopes(scopes.WithStatus(filters.Status))
	if filters.Customer != "" {
		q = q.Where("customer_id = ?", filters.Customer)
	}
	if filters.Package != "" {
		q = q.Where("package_id = ?", filters.Package)
	}
	if filters.Venue != "" {
		q = q.Where("venue_id = ?", filters.Venue)
	}
	if filters.From != "" {
		from, err := parseDay(filters.From, "from")
		if err != nil {
			return nil, nil, err
		}
		q = q.Where("event_date >= ?", from)
	}
	if filters.To != "" {
		to, err := parseDay(filters.To, "to")
		if err != nil {
			return nil, nil, err
		}
		q = q.Where("event_date < ?", to.AddDate(0, 0, 1))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	bookings := []models.Booking{}
	if err := q.Scopes(withRelations, scopes.Paginate(filters.PageQuery)).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, nil, err
	}
	return bookings, scopes.PaginationOf(filters.PageQuery, total), nil
}

// MyBookings lists the caller's own bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, caller *types.Caller, page types.PageQuery) ([]models.Booking, *types.Pagination, error) {
	if err := access.RequireCaller(caller); err != nil {
		return nil, nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Booking{}).Where("customer_id = ?", caller.ID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	bookings := []models.Booking{}
	if err := q.Preload("Package").Preload("Venue").
		Scopes(scopes.Paginate(page)).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, nil, err
	}
	return bookings, scopes.PaginationOf(page, total), nil
}

// InRange lists bookings whose event falls on a day between start and end, inclusive.
func (s *BookingService) InRange(ctx context.Context, caller *types.Caller, start, end string) ([]models.Booking, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	from, err := parseDay(start, "start")
	if err != nil {
		return nil, err
	}
	to, err := parseDay(end, "end")
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, types.NewFieldError("end", "must not be before start")
	}
	bookings := []models.Booking{}
	err = s.db.WithContext(ctx).Scopes(withRelations).
		Where("event_date >= ? AND event_date < ?", from, to.AddDate(0, 0, 1)).
		Order("event_date ASC").
		Find(&bookings).Error
	return bookings, err
}

type statusCount struct {
	Status types.BookingStatus
	Count  int64
}

func (s *BookingService) Overview(ctx context.Context, caller *types.Caller) (*types.BookingOverview, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	return bookingOverview(s.db.WithContext(ctx), time.Time{})
}

// bookingOverview counts bookings per status and sums completed revenue,
// restricted to bookings created at or after since when it is set.
func bookingOverview(db *gorm.DB, since time.Time) (*types.BookingOverview, error) {
	base := func() *gorm.DB {
		q := db.Model(&models.Booking{})
		if !since.IsZero() {
			q = q.Where("created_at >= ?", since)
		}
		return q
	}
	rows := []statusCount{}
	if err := base().Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	overview := &types.BookingOverview{ByStatus: map[types.BookingStatus]int64{}}
	for _, st := range types.BookingStatuses {
		overview.ByStatus[st] = 0
	}
	for _, r := range rows {
		overview.ByStatus[r.Status] = r.Count
		overview.Total += r.Count
	}
	if err := base().
		Where("status = ?", types.BOOKING_COMPLETED).
		Select("COALESCE(SUM(pricing_total), 0)").
		Scan(&overview.Revenue).Error; err != nil {
		return nil, err
	}
	return overview, nil
}
