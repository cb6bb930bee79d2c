package services

import (
	"bytes"
	"context"
	"io"
	"testing"

	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryImageStore struct {
	objects map[string][]byte
}

func (m *memoryImageStore) Upload(_ context.Context, key string, _ string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	return "https://assets.test/" + key, nil
}

func packageBody(name string) *types.CreatePackageRequestBody {
	return &types.CreatePackageRequestBody{
		Name:        name,
		Description: "Everything for a grand day",
		Price:       150000,
		Features:    []string{"Decoration", "Photography"},
		Category:    "premium",
		Duration:    2,
	}
}

func TestCreatePackage(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, nil)
	user := createUser(t, gdb, types.ROLE_USER)
	manager := createUser(t, gdb, types.ROLE_MANAGER)

	_, err := svc.CreatePackage(context.Background(), user.Caller(), packageBody("Gold Package"))
	assert.ErrorIs(t, err, types.ErrForbidden)

	first, err := svc.CreatePackage(context.Background(), manager.Caller(), packageBody("Gold Package"))
	require.NoError(t, err)
	assert.Equal(t, "gold-package", first.Slug)
	assert.Equal(t, "BDT", first.Currency)
	assert.Equal(t, 100, first.MaxGuests)
	assert.Equal(t, types.PACKAGE_ACTIVE, first.Status)

	second, err := svc.CreatePackage(context.Background(), manager.Caller(), packageBody("Gold Package"))
	require.NoError(t, err)
	assert.Equal(t, "gold-package-2", second.Slug)

	got, err := svc.GetPackageBySlug(context.Background(), nil, "gold-package-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, []string{"Decoration", "Photography"}, []string(got.Features))
}

func TestListPackagesVisibility(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, nil)
	manager := createUser(t, gdb, types.ROLE_MANAGER)
	active := createPackage(t, gdb, manager.ID, types.PACKAGE_ACTIVE, 100)
	draft := createPackage(t, gdb, manager.ID, types.PACKAGE_DRAFT, 100)

	public, page, err := svc.ListPackages(context.Background(), nil, &types.PackageQueryFilters{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, active.ID, public[0].ID)
	assert.Equal(t, int64(1), page.Total)

	drafts, _, err := svc.ListPackages(context.Background(), manager.Caller(), &types.PackageQueryFilters{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	_, err = svc.GetPackage(context.Background(), nil, draft.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = svc.GetPackage(context.Background(), manager.Caller(), draft.ID)
	assert.NoError(t, err)

	ceiling := 10000.0
	cheap, _, err := svc.ListPackages(context.Background(), nil, &types.PackageQueryFilters{MaxPrice: &ceiling})
	require.NoError(t, err)
	assert.Empty(t, cheap)
}

func TestUpdateAndDeletePackage(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, nil)
	owner := createUser(t, gdb, types.ROLE_MANAGER)
	otherManager := createUser(t, gdb, types.ROLE_MANAGER)
	admin := createUser(t, gdb, types.ROLE_ADMIN)
	pkg, err := svc.CreatePackage(context.Background(), owner.Caller(), packageBody("Silver Package"))
	require.NoError(t, err)

	name := "Silver Plus"
	_, err = svc.UpdatePackage(context.Background(), otherManager.Caller(), pkg.ID, &types.UpdatePackageRequestBody{Name: &name})
	assert.ErrorIs(t, err, types.ErrForbidden)

	updated, err := svc.UpdatePackage(context.Background(), owner.Caller(), pkg.ID, &types.UpdatePackageRequestBody{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "silver-plus", updated.Slug)

	toggled, err := svc.TogglePopular(context.Background(), otherManager.Caller(), pkg.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPopular)
	popular, err := svc.PopularPackages(context.Background())
	require.NoError(t, err)
	assert.Len(t, popular, 1)

	customer := createUser(t, gdb, types.ROLE_USER)
	bookings := NewBookingService(gdb, &recordingNotifier{}).WithClock(fixedClock)
	raw := pkg.ID.String()
	b, err := bookings.Create(context.Background(), customer.Caller(), &types.CreateBookingRequestBody{
		Event:   types.EventDetails{Type: "wedding", Date: testNow.AddDate(0, 2, 0), GuestCount: 80},
		Package: &raw,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePackage(context.Background(), admin.Caller(), pkg.ID))
	var reloaded models.Booking
	require.NoError(t, gdb.First(&reloaded, "id = ?", b.ID).Error)
	assert.Nil(t, reloaded.PackageID)
}

func TestVenues(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewCatalogService(gdb, nil)
	manager := createUser(t, gdb, types.ROLE_MANAGER)

	_, err := svc.CreateVenue(context.Background(), manager.Caller(), &types.CreateVenueRequestBody{
		Name:     "Lake Pavilion",
		Capacity: types.VenueCapacity{Min: 500, Max: 100},
		Pricing:  types.VenuePricing{BasePrice: -1},
	})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.ElementsMatch(t, []string{"capacity.min", "pricing.base_price"}, fieldsOf(err))

	venue, err := svc.CreateVenue(context.Background(), manager.Caller(), &types.CreateVenueRequestBody{
		Name:     "Lake Pavilion",
		Location: types.Address{City: "Sylhet"},
		Capacity: types.VenueCapacity{Min: 50, Max: 400},
		Pricing:  types.VenuePricing{BasePrice: 200000},
	})
	require.NoError(t, err)
	assert.Equal(t, "lake-pavilion", venue.Slug)
	assert.Equal(t, types.VENUE_AVAILABLE, venue.Status)

	_, err = svc.SetVenueAvailability(context.Background(), manager.Caller(), venue.ID, []types.AvailabilitySlot{
		{Date: "2025-06-01", Status: types.SLOT_BLOCKED},
	})
	require.NoError(t, err)

	blocked, err := svc.AvailableVenues(context.Background(), &types.AvailableVenuesQuery{Date: "2025-06-01", GuestCount: 100})
	require.NoError(t, err)
	assert.Empty(t, blocked)

	open, err := svc.AvailableVenues(context.Background(), &types.AvailableVenuesQuery{Date: "2025-06-02", GuestCount: 100, City: "sylhet"})
	require.NoError(t, err)
	require.Len(t, open, 1)

	tooMany, err := svc.AvailableVenues(context.Background(), &types.AvailableVenuesQuery{Date: "2025-06-02", GuestCount: 1000})
	require.NoError(t, err)
	assert.Empty(t, tooMany)

	_, err = svc.SetVenueStatus(context.Background(), manager.Caller(), venue.ID, types.VENUE_MAINTENANCE)
	require.NoError(t, err)
	listed, _, err := svc.ListVenues(context.Background(), &types.VenueQueryFilters{Status: "maintenance"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	capacity := types.VenueCapacity{Min: 10, Max: 5}
	_, err = svc.UpdateVenue(context.Background(), manager.Caller(), venue.ID, &types.UpdateVenueRequestBody{Capacity: &capacity})
	assert.Equal(t, []string{"capacity.min"}, fieldsOf(err))
}

func TestVenueImages(t *testing.T) {
	gdb := newTestDB(t)
	manager := createUser(t, gdb, types.ROLE_MANAGER)
	venue := createVenue(t, gdb, manager.ID, types.VENUE_AVAILABLE)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	img, err := lib.ReadImage(bytes.NewReader(png))
	require.NoError(t, err)

	_, err = NewCatalogService(gdb, nil).AddVenueImage(context.Background(), manager.Caller(), venue.ID, img)
	assert.ErrorIs(t, err, types.ErrNotAvailable)

	store := &memoryImageStore{objects: map[string][]byte{}}
	svc := NewCatalogService(gdb, store)
	_, err = svc.AddVenueImage(context.Background(), createUser(t, gdb, types.ROLE_MANAGER).Caller(), venue.ID, img)
	assert.ErrorIs(t, err, types.ErrForbidden)

	updated, err := svc.AddVenueImage(context.Background(), manager.Caller(), venue.ID, img)
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Contains(t, updated.Images[0], "venues/"+venue.ID.String())
	assert.Len(t, store.objects, 1)

	_, err = svc.GetVenue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)
}
