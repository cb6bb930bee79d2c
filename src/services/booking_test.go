package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"uservice/src/models"
	"uservice/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type BookingServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	notifier *recordingNotifier
	svc      *BookingService
	customer *models.User
	manager  *models.User
	admin    *models.User
	eventDay time.Time
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.notifier = &recordingNotifier{}
	s.svc = NewBookingService(s.db, s.notifier).WithClock(fixedClock)
	s.customer = createUser(s.T(), s.db, types.ROLE_USER)
	s.manager = createUser(s.T(), s.db, types.ROLE_MANAGER)
	s.admin = createUser(s.T(), s.db, types.ROLE_ADMIN)
	s.eventDay = time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)
}

func (s *BookingServiceTestSuite) body() *types.CreateBookingRequestBody {
	return &types.CreateBookingRequestBody{
		Event:   types.EventDetails{Type: "wedding", Date: s.eventDay, GuestCount: 150},
		Pricing: types.Pricing{Subtotal: 100000, Total: 100000},
	}
}

func (s *BookingServiceTestSuite) create(caller *models.User) *models.Booking {
	b, err := s.svc.Create(context.Background(), caller.Caller(), s.body())
	s.Require().NoError(err)
	return b
}

func fieldsOf(err error) []string {
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := []string{}
	for _, fe := range verr.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func (s *BookingServiceTestSuite) TestCreate() {
	pkg := createPackage(s.T(), s.db, s.manager.ID, types.PACKAGE_ACTIVE, 200)
	venue := createVenue(s.T(), s.db, s.manager.ID, types.VENUE_AVAILABLE)
	body := s.body()
	pkgID, venueID := pkg.ID.String(), venue.ID.String()
	body.Package = &pkgID
	body.Venue = &venueID
	body.Services = []types.ServiceItem{{Name: "Catering", Price: 20000}}

	b, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.Require().NoError(err)

	s.Equal(types.BOOKING_PENDING, b.Status)
	s.Equal(s.customer.ID, b.CustomerID)
	s.Regexp(regexp.MustCompile(`^BK2503\d{4}$`), b.BookingID)
	s.Require().Len(b.Timeline, 1)
	s.Equal(types.BOOKING_PENDING, b.Timeline[0].Status)
	s.Equal("Booking created", b.Timeline[0].Message)
	s.Equal(s.customer.ID, b.Timeline[0].UpdatedBy)
	s.True(b.Timeline[0].Timestamp.Equal(testNow))
	s.Require().NotNil(b.Customer)
	s.Require().NotNil(b.Package)
	s.Require().NotNil(b.Venue)
	s.Len(b.Services, 1)
	s.Equal(types.PAYMENT_PENDING, b.Payment.Status)

	sent := s.notifier.of("booking_created")
	s.Require().Len(sent, 1)
	s.Equal(s.customer.Email, sent[0].To)
	s.Equal(b.BookingID, sent[0].Booking)
}

func (s *BookingServiceTestSuite) TestCreateCollectsFieldErrors() {
	body := s.body()
	body.Event = types.EventDetails{Type: "party", Date: testNow.Add(-time.Hour), GuestCount: 0}
	body.Pricing.Subtotal = -1

	_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.ErrorIs(err, types.ErrInvalidArgument)
	s.ElementsMatch([]string{"event.date", "event.guest_count", "event.type", "pricing.subtotal"}, fieldsOf(err))

	var count int64
	s.db.Model(&models.Booking{}).Count(&count)
	s.Zero(count)
}

func (s *BookingServiceTestSuite) TestCreateRejectsNowAsEventDate() {
	body := s.body()
	body.Event.Date = testNow
	_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.Equal([]string{"event.date"}, fieldsOf(err))
}

func (s *BookingServiceTestSuite) TestCreateVenueNotAvailable() {
	blocked := createVenue(s.T(), s.db, s.manager.ID, types.VENUE_AVAILABLE,
		types.AvailabilitySlot{Date: "2025-06-01", Status: types.SLOT_BOOKED})
	maintenance := createVenue(s.T(), s.db, s.manager.ID, types.VENUE_MAINTENANCE)
	open := createVenue(s.T(), s.db, s.manager.ID, types.VENUE_AVAILABLE,
		types.AvailabilitySlot{Date: "2025-06-02", Status: types.SLOT_BLOCKED},
		types.AvailabilitySlot{Date: "2025-06-01", Status: types.SLOT_AVAILABLE})

	for name, id := range map[string]uuid.UUID{"blocked": blocked.ID, "maintenance": maintenance.ID, "missing": uuid.New()} {
		body := s.body()
		raw := id.String()
		body.Venue = &raw
		_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
		s.ErrorIs(err, types.ErrNotAvailable, name)
	}

	body := s.body()
	raw := open.ID.String()
	body.Venue = &raw
	_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.NoError(err)
}

func (s *BookingServiceTestSuite) TestCreatePackageNotAvailable() {
	draft := createPackage(s.T(), s.db, s.manager.ID, types.PACKAGE_DRAFT, 200)
	for _, id := range []uuid.UUID{draft.ID, uuid.New()} {
		body := s.body()
		raw := id.String()
		body.Package = &raw
		_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
		s.ErrorIs(err, types.ErrNotAvailable)
	}
}

func (s *BookingServiceTestSuite) TestCreateGuestCountLimits() {
	pkg := createPackage(s.T(), s.db, s.manager.ID, types.PACKAGE_ACTIVE, 100)
	venue := createVenue(s.T(), s.db, s.manager.ID, types.VENUE_AVAILABLE)

	body := s.body()
	raw := pkg.ID.String()
	body.Package = &raw
	_, err := s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.Equal([]string{"event.guest_count"}, fieldsOf(err))

	body = s.body()
	body.Event.GuestCount = 20
	raw = venue.ID.String()
	body.Venue = &raw
	_, err = s.svc.Create(context.Background(), s.customer.Caller(), body)
	s.Equal([]string{"event.guest_count"}, fieldsOf(err))
}

func (s *BookingServiceTestSuite) TestCreateRetriesBookingID() {
	s.svc.WithSuffix(func() int { return 42 })
	first := s.create(s.customer)
	s.Equal("BK25030042", first.BookingID)

	_, err := s.svc.Create(context.Background(), s.customer.Caller(), s.body())
	var conflict *types.ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Equal("booking_id", conflict.Field)
	s.ErrorIs(err, types.ErrConflict)

	seq := []int{42, 42, 7}
	s.svc.WithSuffix(func() int {
		n := seq[0]
		seq = seq[1:]
		return n
	})
	second := s.create(s.customer)
	s.Equal("BK25030007", second.BookingID)

	var count int64
	s.db.Model(&models.Booking{}).Count(&count)
	s.Equal(int64(2), count)
}

func (s *BookingServiceTestSuite) TestUpdateStatus() {
	b := s.create(s.customer)

	_, err := s.svc.UpdateStatus(context.Background(), s.customer.Caller(), b.ID, types.BookingStatus("bogus"))
	s.ErrorIs(err, types.ErrForbidden)

	_, err = s.svc.UpdateStatus(context.Background(), s.manager.Caller(), b.ID, types.BookingStatus("bogus"))
	s.ErrorIs(err, types.ErrInvalidArgument)

	_, err = s.svc.UpdateStatus(context.Background(), s.manager.Caller(), uuid.New(), types.BOOKING_CONFIRMED)
	s.ErrorIs(err, types.ErrNotFound)

	out, err := s.svc.UpdateStatus(context.Background(), s.manager.Caller(), b.ID, types.BOOKING_CONFIRMED)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CONFIRMED, out.Status)
	s.Require().Len(out.Timeline, 2)
	s.Equal("Status changed to confirmed", out.Timeline[1].Message)
	s.Equal(s.manager.ID, out.Timeline[1].UpdatedBy)
	s.Equal(b.BookingID, out.BookingID)
	s.Equal(b.Pricing, out.Pricing)

	// any status may follow any status
	out, err = s.svc.UpdateStatus(context.Background(), s.admin.Caller(), b.ID, types.BOOKING_COMPLETED)
	s.Require().NoError(err)
	out, err = s.svc.UpdateStatus(context.Background(), s.admin.Caller(), b.ID, types.BOOKING_PENDING)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_PENDING, out.Status)
	s.Len(out.Timeline, 4)

	s.Len(s.notifier.of("booking_status"), 3)
}

func (s *BookingServiceTestSuite) TestUpdateStripsStatusForCustomers() {
	b := s.create(s.customer)
	confirmed := types.BOOKING_CONFIRMED
	notes := "Please add extra lighting"

	out, err := s.svc.Update(context.Background(), s.customer.Caller(), b.ID, &types.UpdateBookingRequestBody{
		Status: &confirmed,
		Notes:  &notes,
	})
	s.Require().NoError(err)
	s.Equal(types.BOOKING_PENDING, out.Status)
	s.Len(out.Timeline, 1)
	s.Equal(notes, out.Notes)
	s.Empty(s.notifier.of("booking_status"))
}

func (s *BookingServiceTestSuite) TestUpdateByStaff() {
	b := s.create(s.customer)
	pending := types.BOOKING_PENDING
	out, err := s.svc.Update(context.Background(), s.manager.Caller(), b.ID, &types.UpdateBookingRequestBody{Status: &pending})
	s.Require().NoError(err)
	s.Len(out.Timeline, 1)

	confirmed := types.BOOKING_CONFIRMED
	out, err = s.svc.Update(context.Background(), s.manager.Caller(), b.ID, &types.UpdateBookingRequestBody{
		Status:  &confirmed,
		Pricing: &types.Pricing{Subtotal: 90000, Total: 90000},
	})
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CONFIRMED, out.Status)
	s.Require().Len(out.Timeline, 2)
	s.Equal(90000.0, out.Pricing.Total)

	_, err = s.svc.Update(context.Background(), createUser(s.T(), s.db, types.ROLE_USER).Caller(), b.ID, &types.UpdateBookingRequestBody{})
	s.ErrorIs(err, types.ErrForbidden)
}

func (s *BookingServiceTestSuite) TestUpdateKeepsConcurrentStatusChange() {
	b := s.create(s.customer)

	// a status change lands between the update's first read and its write
	fired := false
	s.Require().NoError(s.db.Callback().Query().After("gorm:query").Register("test:status_between_reads", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "bookings" {
			return
		}
		fired = true
		_, err := s.svc.UpdateStatus(context.Background(), s.admin.Caller(), b.ID, types.BOOKING_CANCELLED)
		s.Require().NoError(err)
	}))

	confirmed := types.BOOKING_CONFIRMED
	out, err := s.svc.Update(context.Background(), s.manager.Caller(), b.ID, &types.UpdateBookingRequestBody{Status: &confirmed})
	s.Require().NoError(err)
	s.True(fired)
	s.Equal(types.BOOKING_CONFIRMED, out.Status)
	s.Require().Len(out.Timeline, 3)
	s.Equal(types.BOOKING_PENDING, out.Timeline[0].Status)
	s.Equal(types.BOOKING_CANCELLED, out.Timeline[1].Status)
	s.Equal(types.BOOKING_CONFIRMED, out.Timeline[2].Status)
}

func (s *BookingServiceTestSuite) TestUpdateValidatesEvent() {
	b := s.create(s.customer)
	_, err := s.svc.Update(context.Background(), s.customer.Caller(), b.ID, &types.UpdateBookingRequestBody{
		Event: &types.EventDetails{Type: "wedding", Date: testNow.AddDate(0, 0, -1), GuestCount: 10},
	})
	s.Equal([]string{"event.date"}, fieldsOf(err))
}

func (s *BookingServiceTestSuite) TestDelete() {
	stranger := createUser(s.T(), s.db, types.ROLE_USER)
	b := s.create(s.customer)
	s.ErrorIs(s.svc.Delete(context.Background(), stranger.Caller(), b.ID), types.ErrForbidden)
	s.NoError(s.svc.Delete(context.Background(), s.customer.Caller(), b.ID))
	s.ErrorIs(s.svc.Delete(context.Background(), s.customer.Caller(), b.ID), types.ErrNotFound)

	confirmed := s.create(s.customer)
	_, err := s.svc.UpdateStatus(context.Background(), s.manager.Caller(), confirmed.ID, types.BOOKING_CONFIRMED)
	s.Require().NoError(err)
	s.ErrorIs(s.svc.Delete(context.Background(), s.customer.Caller(), confirmed.ID), types.ErrInvalidState)
	s.ErrorIs(s.svc.Delete(context.Background(), s.manager.Caller(), confirmed.ID), types.ErrInvalidState)
	s.NoError(s.svc.Delete(context.Background(), s.admin.Caller(), confirmed.ID))
}

func (s *BookingServiceTestSuite) TestGet() {
	b := s.create(s.customer)
	got, err := s.svc.Get(context.Background(), s.customer.Caller(), b.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Customer)
	s.Equal(s.customer.Email, got.Customer.Email)

	_, err = s.svc.Get(context.Background(), s.manager.Caller(), b.ID)
	s.NoError(err)

	_, err = s.svc.Get(context.Background(), createUser(s.T(), s.db, types.ROLE_USER).Caller(), b.ID)
	s.ErrorIs(err, types.ErrForbidden)
}

func (s *BookingServiceTestSuite) TestListAndOverview() {
	other := createUser(s.T(), s.db, types.ROLE_USER)
	first := s.create(s.customer)
	s.create(s.customer)
	s.create(other)

	_, err := s.svc.UpdateStatus(context.Background(), s.manager.Caller(), first.ID, types.BOOKING_COMPLETED)
	s.Require().NoError(err)

	_, _, err = s.svc.List(context.Background(), s.customer.Caller(), &types.BookingQueryFilters{})
	s.ErrorIs(err, types.ErrForbidden)

	all, page, err := s.svc.List(context.Background(), s.manager.Caller(), &types.BookingQueryFilters{PageQuery: types.PageQuery{Limit: 2}})
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal(int64(3), page.Total)
	s.Equal(2, page.Pages)

	mine, _, err := s.svc.List(context.Background(), s.manager.Caller(), &types.BookingQueryFilters{Customer: s.customer.ID.String()})
	s.Require().NoError(err)
	s.Len(mine, 2)

	completed, _, err := s.svc.List(context.Background(), s.manager.Caller(), &types.BookingQueryFilters{Status: "completed"})
	s.Require().NoError(err)
	s.Len(completed, 1)

	own, _, err := s.svc.MyBookings(context.Background(), other.Caller(), types.PageQuery{})
	s.Require().NoError(err)
	s.Len(own, 1)

	overview, err := s.svc.Overview(context.Background(), s.manager.Caller())
	s.Require().NoError(err)
	s.Equal(int64(3), overview.Total)
	s.Equal(int64(2), overview.ByStatus[types.BOOKING_PENDING])
	s.Equal(int64(1), overview.ByStatus[types.BOOKING_COMPLETED])
	s.Equal(int64(0), overview.ByStatus[types.BOOKING_CANCELLED])
	s.Equal(100000.0, overview.Revenue)
}

func (s *BookingServiceTestSuite) TestInRange() {
	s.create(s.customer)

	in, err := s.svc.InRange(context.Background(), s.manager.Caller(), "2025-06-01", "2025-06-01")
	s.Require().NoError(err)
	s.Len(in, 1)

	out, err := s.svc.InRange(context.Background(), s.manager.Caller(), "2025-06-02", "2025-06-30")
	s.Require().NoError(err)
	s.Empty(out)

	_, err = s.svc.InRange(context.Background(), s.manager.Caller(), "2025-06-30", "2025-06-01")
	s.ErrorIs(err, types.ErrInvalidArgument)

	_, err = s.svc.InRange(context.Background(), s.customer.Caller(), "2025-06-01", "2025-06-30")
	s.ErrorIs(err, types.ErrForbidden)
}

func TestBookingService(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func TestSendEventReminders(t *testing.T) {
	gdb := newTestDB(t)
	notifier := &recordingNotifier{}
	bookings := NewBookingService(gdb, notifier).WithClock(fixedClock)
	customer := createUser(t, gdb, types.ROLE_USER)
	manager := createUser(t, gdb, types.ROLE_MANAGER)

	book := func(at time.Time) *models.Booking {
		b, err := bookings.Create(context.Background(), customer.Caller(), &types.CreateBookingRequestBody{
			Event: types.EventDetails{Type: "reception", Date: at, GuestCount: 80},
		})
		require.NoError(t, err)
		return b
	}
	soon := book(testNow.Add(48 * time.Hour))
	later := book(testNow.Add(10 * 24 * time.Hour))
	pending := book(testNow.Add(24 * time.Hour))
	for _, b := range []*models.Booking{soon, later} {
		_, err := bookings.UpdateStatus(context.Background(), manager.Caller(), b.ID, types.BOOKING_CONFIRMED)
		require.NoError(t, err)
	}

	jobs := NewJobs(gdb, nil, notifier, 72*time.Hour).WithClock(fixedClock)
	require.NoError(t, jobs.SendEventReminders(context.Background()))
	require.NoError(t, jobs.SendEventReminders(context.Background()))

	sent := notifier.of("reminder")
	require.Len(t, sent, 1)
	assert.Equal(t, soon.BookingID, sent[0].Booking)

	var reloaded models.Booking
	require.NoError(t, gdb.First(&reloaded, "id = ?", soon.ID).Error)
	assert.NotNil(t, reloaded.ReminderSentAt)
	assert.Equal(t, types.BOOKING_CONFIRMED, reloaded.Status)
	assert.Len(t, reloaded.Timeline, 2)

	require.NoError(t, gdb.First(&reloaded, "id = ?", pending.ID).Error)
	assert.Nil(t, reloaded.ReminderSentAt)
}
