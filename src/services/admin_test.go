package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"uservice/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	values map[string][]byte
	sets   int
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = b
	c.sets++
	return nil
}

func (c *memoryCache) Ping(context.Context) error {
	return nil
}

func TestDashboard(t *testing.T) {
	gdb := newTestDB(t)
	cache := &memoryCache{values: map[string][]byte{}}
	svc := NewAdminService(gdb, cache).WithClock(fixedClock)
	admin := createUser(t, gdb, types.ROLE_ADMIN)
	manager := createUser(t, gdb, types.ROLE_MANAGER)
	customer := createUser(t, gdb, types.ROLE_USER)
	pkg := createPackage(t, gdb, manager.ID, types.PACKAGE_ACTIVE, 300)

	bookings := NewBookingService(gdb, &recordingNotifier{}).WithClock(fixedClock)
	raw := pkg.ID.String()
	for i := 0; i < 3; i++ {
		b, err := bookings.Create(context.Background(), customer.Caller(), &types.CreateBookingRequestBody{
			Event:   types.EventDetails{Type: "wedding", Date: testNow.AddDate(0, 1, i), GuestCount: 100},
			Package: &raw,
			Pricing: types.Pricing{Subtotal: 1000, Total: 1000},
		})
		require.NoError(t, err)
		if i == 0 {
			_, err = bookings.UpdateStatus(context.Background(), manager.Caller(), b.ID, types.BOOKING_COMPLETED)
			require.NoError(t, err)
		}
	}

	_, err := svc.Dashboard(context.Background(), manager.Caller())
	assert.ErrorIs(t, err, types.ErrForbidden)

	d, err := svc.Dashboard(context.Background(), admin.Caller())
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Totals.Users)
	assert.Equal(t, int64(1), d.Totals.Packages)
	assert.Equal(t, int64(3), d.Totals.Bookings)
	assert.Equal(t, int64(2), d.Totals.PendingBookings)
	assert.Equal(t, 1000.0, d.Totals.Revenue)
	assert.Len(t, d.RecentBookings, 3)
	require.Len(t, d.MonthlyRevenue, 6)
	assert.Equal(t, "2025-03", d.MonthlyRevenue[5].Month)
	assert.Equal(t, "2024-10", d.MonthlyRevenue[0].Month)
	require.Len(t, d.TopPackages, 1)
	assert.Equal(t, pkg.Name, d.TopPackages[0].Name)
	assert.Equal(t, int64(3), d.TopPackages[0].Bookings)
	assert.Empty(t, d.TopVenues)
	assert.Equal(t, 1, cache.sets)

	createUser(t, gdb, types.ROLE_USER)
	cached, err := svc.Dashboard(context.Background(), admin.Caller())
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.Totals.Users)
	assert.Equal(t, 1, cache.sets)
}

func TestStatsAndHealth(t *testing.T) {
	gdb := newTestDB(t)
	admin := createUser(t, gdb, types.ROLE_ADMIN)
	svc := NewAdminService(gdb, nil).WithClock(func() time.Time { return time.Now().UTC() })

	stats, err := svc.Stats(context.Background(), admin.Caller(), "week")
	require.NoError(t, err)
	assert.Equal(t, "week", stats.Period)
	assert.Equal(t, int64(1), stats.NewUsers)
	assert.Len(t, stats.Bookings, 4)

	stats, err = svc.Stats(context.Background(), admin.Caller(), "")
	require.NoError(t, err)
	assert.Equal(t, "month", stats.Period)

	h := svc.Health(context.Background())
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "connected", h.Database)
	assert.Equal(t, "disabled", h.Redis)
}
