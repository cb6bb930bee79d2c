package services

import (
	"sync"
	"testing"
	"time"

	"uservice/src/db"
	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

type sentNotice struct {
	Kind    string
	To      string
	Booking string
	Token   string
}

// recordingNotifier captures notifications instead of sending mail.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []sentNotice
}

func (n *recordingNotifier) add(s sentNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, s)
}

func (n *recordingNotifier) BookingCreated(b *models.Booking, c *models.User) {
	n.add(sentNotice{Kind: "booking_created", To: c.Email, Booking: b.BookingID})
}

func (n *recordingNotifier) BookingStatusChanged(b *models.Booking, c *models.User) {
	n.add(sentNotice{Kind: "booking_status", To: c.Email, Booking: b.BookingID})
}

func (n *recordingNotifier) EventReminder(b *models.Booking, c *models.User) {
	n.add(sentNotice{Kind: "reminder", To: c.Email, Booking: b.BookingID})
}

func (n *recordingNotifier) PasswordReset(u *models.User, token string) {
	n.add(sentNotice{Kind: "password_reset", To: u.Email, Token: token})
}

func (n *recordingNotifier) EmailVerification(u *models.User, token string) {
	n.add(sentNotice{Kind: "verify_email", To: u.Email, Token: token})
}

func (n *recordingNotifier) of(kind string) []sentNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := []sentNotice{}
	for _, s := range n.notices {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func createUser(t *testing.T, gdb *gorm.DB, role types.Role) *models.User {
	t.Helper()
	hash, err := lib.HashPassword("Secret123", 4)
	require.NoError(t, err)
	id := uuid.New()
	u := &models.User{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func createPackage(t *testing.T, gdb *gorm.DB, owner uuid.UUID, status types.PackageStatus, maxGuests int) *models.Package {
	t.Helper()
	id := uuid.New()
	p := &models.Package{
		ID:        id,
		Name:      "Package " + id.String()[:6],
		Slug:      "package-" + id.String()[:6],
		Price:     50000,
		Currency:  "BDT",
		Features:  datatypes.JSONSlice[string]{"Photography"},
		Category:  "standard",
		Duration:  1,
		MaxGuests: maxGuests,
		Status:    status,
		Images:    datatypes.JSONSlice[string]{},
		Tags:      datatypes.JSONSlice[string]{},
		CreatedBy: owner,
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func createVenue(t *testing.T, gdb *gorm.DB, owner uuid.UUID, status types.VenueStatus, slots ...types.AvailabilitySlot) *models.Venue {
	t.Helper()
	id := uuid.New()
	v := &models.Venue{
		ID:           id,
		Name:         "Venue " + id.String()[:6],
		Slug:         "venue-" + id.String()[:6],
		Location:     types.Address{City: "Dhaka"},
		Capacity:     types.VenueCapacity{Min: 50, Max: 300},
		Pricing:      types.VenuePricing{BasePrice: 100000, Currency: "BDT"},
		Amenities:    datatypes.JSONSlice[string]{},
		Images:       datatypes.JSONSlice[string]{},
		Availability: datatypes.JSONSlice[types.AvailabilitySlot](append([]types.AvailabilitySlot{}, slots...)),
		Status:       status,
		Tags:         datatypes.JSONSlice[string]{},
		Features:     datatypes.JSONSlice[string]{},
		CreatedBy:    owner,
	}
	require.NoError(t, gdb.Create(v).Error)
	return v
}
