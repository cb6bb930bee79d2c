package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"uservice/src/access"
	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/models/scopes"
	"uservice/src/types"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultCurrency  = "BDT"
	defaultMaxGuests = 100
	popularLimit     = 6
)

type CatalogService struct {
	db     *gorm.DB
	images lib.ImageStore
}

// NewCatalogService wires the catalog. images may be nil when no bucket is configured.
func NewCatalogService(db *gorm.DB, images lib.ImageStore) *CatalogService {
	return &CatalogService{db: db, images: images}
}

// uniqueSlug derives a slug from name and suffixes it until no row of model uses it.
func (s *CatalogService) uniqueSlug(ctx context.Context, model any, name string, self uuid.UUID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; i < 100; i++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(model).
			Where("slug = ? AND id <> ?", candidate, self).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func slugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &types.ConflictError{Field: "slug", Message: "slug is already taken"}
	}
	return err
}

func (s *CatalogService) findPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var pkg models.Package
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&pkg).Error; err != nil {
		return nil, notFound(err, "package")
	}
	return &pkg, nil
}

func (s *CatalogService) findVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&venue).Error; err != nil {
		return nil, notFound(err, "venue")
	}
	return &venue, nil
}

// ListPackages lists the catalog. Only staff see packages that are not active.
func (s *CatalogService) ListPackages(ctx context.Context, caller *types.Caller, filters *types.PackageQueryFilters) ([]models.Package, *types.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Package{}).
		Scopes(scopes.Search(filters.Search, "name", "description"))
	if caller.IsStaff() {
		q = q.Scopes(scopes.WithStatus(filters.Status))
	} else {
		q = q.Where("status = ?", types.PACKAGE_ACTIVE)
	}
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.MinPrice != nil {
		q = q.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("price <= ?", *filters.MaxPrice)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	pkgs := []models.Package{}
	if err := q.Order("is_popular DESC").Order("created_at DESC").
		Scopes(scopes.Paginate(filters.PageQuery)).
		Find(&pkgs).Error; err != nil {
		return nil, nil, err
	}
	return pkgs, scopes.PaginationOf(filters.PageQuery, total), nil
}

func (s *CatalogService) ActivePackages(ctx context.Context) ([]models.Package, error) {
	pkgs := []models.Package{}
	err := s.db.WithContext(ctx).
		Where("status = ?", types.PACKAGE_ACTIVE).
		Order("price ASC").
		Find(&pkgs).Error
	return pkgs, err
}

func (s *CatalogService) PopularPackages(ctx context.Context) ([]models.Package, error) {
	pkgs := []models.Package{}
	err := s.db.WithContext(ctx).
		Where("status = ? AND is_popular = ?", types.PACKAGE_ACTIVE, true).
		Order("created_at DESC").
		Limit(popularLimit).
		Find(&pkgs).Error
	return pkgs, err
}

func (s *CatalogService) visiblePackage(caller *types.Caller, pkg *models.Package) (*models.Package, error) {
	if !pkg.Bookable() && !caller.IsStaff() {
		return nil, fmt.Errorf("%w: package", types.ErrNotFound)
	}
	return pkg, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.Package, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visiblePackage(caller, pkg)
}

func (s *CatalogService) GetPackageBySlug(ctx context.Context, caller *types.Caller, slugValue string) (*models.Package, error) {
	var pkg models.Package
	if err := s.db.WithContext(ctx).Where("slug = ?", slugValue).First(&pkg).Error; err != nil {
		return nil, notFound(err, "package")
	}
	return s.visiblePackage(caller, &pkg)
}

func (s *CatalogService) CreatePackage(ctx context.Context, caller *types.Caller, body *types.CreatePackageRequestBody) (*models.Package, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	pkg := models.Package{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(body.Name),
		Description:        body.Description,
		Price:              body.Price,
		Currency:           body.Currency,
		Features:           strs(body.Features),
		Category:           body.Category,
		Duration:           body.Duration,
		MaxGuests:          body.MaxGuests,
		Status:             body.Status,
		IsPopular:          body.IsPopular,
		Images:             strs(nil),
		Tags:               strs(body.Tags),
		Terms:              body.Terms,
		CancellationPolicy: body.CancellationPolicy,
		CreatedBy:          caller.ID,
	}
	if pkg.Currency == "" {
		pkg.Currency = defaultCurrency
	}
	if pkg.MaxGuests == 0 {
		pkg.MaxGuests = defaultMaxGuests
	}
	if pkg.Status == "" {
		pkg.Status = types.PACKAGE_ACTIVE
	}
	var err error
	if pkg.Slug, err = s.uniqueSlug(ctx, &models.Package{}, pkg.Name, pkg.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&pkg).Error; err != nil {
		return nil, slugConflict(err)
	}
	log.Printf("[Catalog] package %s created by %s\n", pkg.Slug, caller.ID)
	return &pkg, nil
}

func (s *CatalogService) UpdatePackage(ctx context.Context, caller *types.Caller, id uuid.UUID, body *types.UpdatePackageRequestBody) (*models.Package, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, pkg.CreatedBy, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != pkg.Name {
		pkg.Name = strings.TrimSpace(*body.Name)
		if pkg.Slug, err = s.uniqueSlug(ctx, &models.Package{}, pkg.Name, pkg.ID); err != nil {
			return nil, err
		}
	}
	if body.Description != nil {
		pkg.Description = *body.Description
	}
	if body.Price != nil {
		pkg.Price = *body.Price
	}
	if body.Currency != nil {
		pkg.Currency = *body.Currency
	}
	if body.Features != nil {
		pkg.Features = strs(body.Features)
	}
	if body.Category != nil {
		pkg.Category = *body.Category
	}
	if body.Duration != nil {
		pkg.Duration = *body.Duration
	}
	if body.MaxGuests != nil {
		pkg.MaxGuests = *body.MaxGuests
	}
	if body.Status != nil {
		pkg.Status = *body.Status
	}
	if body.Tags != nil {
		pkg.Tags = strs(body.Tags)
	}
	if body.Terms != nil {
		pkg.Terms = *body.Terms
	}
	if body.CancellationPolicy != nil {
		pkg.CancellationPolicy = *body.CancellationPolicy
	}
	if err := s.db.WithContext(ctx).Save(pkg).Error; err != nil {
		return nil, slugConflict(err)
	}
	return pkg, nil
}

// DeletePackage removes the package and detaches it from existing bookings.
func (s *CatalogService) DeletePackage(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwnerOrRole(caller, pkg.CreatedBy, types.ROLE_ADMIN); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).Where("package_id = ?", id).Update("package_id", nil).Error; err != nil {
			return err
		}
		return tx.Scopes(scopes.WithID(id)).Delete(&models.Package{}).Error
	})
}

func (s *CatalogService) TogglePopular(ctx context.Context, caller *types.Caller, id uuid.UUID) (*models.Package, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg.IsPopular = !pkg.IsPopular
	if err := s.db.WithContext(ctx).Model(pkg).Update("is_popular", pkg.IsPopular).Error; err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *CatalogService) uploadImage(ctx context.Context, kind string, owner uuid.UUID, img *lib.Image) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image storage is not configured", types.ErrNotAvailable)
	}
	key := lib.ImageKey(kind, owner, img.Ext)
	return s.images.Upload(ctx, key, img.ContentType, img.Reader(), int64(len(img.Data)))
}

func (s *CatalogService) AddPackageImage(ctx context.Context, caller *types.Caller, id uuid.UUID, img *lib.Image) (*models.Package, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, pkg.CreatedBy, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	url, err := s.uploadImage(ctx, "packages", pkg.ID, img)
	if err != nil {
		return nil, err
	}
	pkg.Images = append(pkg.Images, url)
	if err := s.db.WithContext(ctx).Model(pkg).Update("images", pkg.Images).Error; err != nil {
		return nil, err
	}
	return pkg, nil
}

func validateVenue(capacity types.VenueCapacity, pricing types.VenuePricing) error {
	verr := &types.ValidationError{}
	if capacity.Min < 0 {
		verr.Add("capacity.min", "must be zero or more")
	}
	if capacity.Max < 1 {
		verr.Add("capacity.max", "must be at least 1")
	}
	if capacity.Max > 0 && capacity.Min > capacity.Max {
		verr.Add("capacity.min", "must not exceed capacity.max")
	}
	if pricing.BasePrice < 0 {
		verr.Add("pricing.base_price", "must be zero or more")
	}
	if pricing.PricePerGuest < 0 {
		verr.Add("pricing.price_per_guest", "must be zero or more")
	}
	return verr.OrNil()
}

func (s *CatalogService) ListVenues(ctx context.Context, filters *types.VenueQueryFilters) ([]models.Venue, *types.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Venue{}).
		Scopes(
			scopes.Search(filters.Search, "name", "description"),
			scopes.WithStatus(filters.Status),
		)
	if filters.City != "" {
		q = q.Where("LOWER(location_city) = ?", strings.ToLower(filters.City))
	}
	if filters.MinCapacity > 0 {
		q = q.Where("capacity_max >= ?", filters.MinCapacity)
	}
	if filters.MaxCapacity > 0 {
		q = q.Where("capacity_min <= ?", filters.MaxCapacity)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, err
	}
	venues := []models.Venue{}
	if err := q.Order("rating DESC").Order("created_at DESC").
		Scopes(scopes.Paginate(filters.PageQuery)).
		Find(&venues).Error; err != nil {
		return nil, nil, err
	}
	return venues, scopes.PaginationOf(filters.PageQuery, total), nil
}

// AvailableVenues returns bookable venues on date that can host guestCount guests.
func (s *CatalogService) AvailableVenues(ctx context.Context, query *types.AvailableVenuesQuery) ([]models.Venue, error) {
	date, err := time.Parse(types.DATE_FORMAT, query.Date)
	if err != nil {
		return nil, types.NewFieldError("date", "must be a date in YYYY-MM-DD format")
	}
	q := s.db.WithContext(ctx).Where("status = ?", types.VENUE_AVAILABLE)
	if query.City != "" {
		q = q.Where("LOWER(location_city) = ?", strings.ToLower(query.City))
	}
	if query.GuestCount > 0 {
		q = q.Where("capacity_max >= ? AND capacity_min <= ?", query.GuestCount, query.GuestCount)
	}
	candidates := []models.Venue{}
	if err := q.Order("rating DESC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	venues := make([]models.Venue, 0, len(candidates))
	for _, v := range candidates {
		if v.Bookable(date) {
			venues = append(venues, v)
		}
	}
	return venues, nil
}

func (s *CatalogService) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	return s.findVenue(ctx, id)
}

func (s *CatalogService) GetVenueBySlug(ctx context.Context, slugValue string) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.WithContext(ctx).Where("slug = ?", slugValue).First(&venue).Error; err != nil {
		return nil, notFound(err, "venue")
	}
	return &venue, nil
}

func (s *CatalogService) CreateVenue(ctx context.Context, caller *types.Caller, body *types.CreateVenueRequestBody) (*models.Venue, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	if err := validateVenue(body.Capacity, body.Pricing); err != nil {
		return nil, err
	}
	venue := models.Venue{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(body.Name),
		Description:  body.Description,
		Location:     body.Location,
		Capacity:     body.Capacity,
		Pricing:      body.Pricing,
		Amenities:    strs(body.Amenities),
		Images:       strs(nil),
		Availability: datatypes.JSONSlice[types.AvailabilitySlot]{},
		Rating:       body.Rating,
		Status:       body.Status,
		Contact:      body.Contact,
		Policies:     body.Policies,
		Tags:         strs(body.Tags),
		Features:     strs(body.Features),
		CreatedBy:    caller.ID,
	}
	if body.Calendar != nil {
		venue.Availability = datatypes.JSONSlice[types.AvailabilitySlot](body.Calendar)
	}
	if venue.Pricing.Currency == "" {
		venue.Pricing.Currency = defaultCurrency
	}
	if venue.Status == "" {
		venue.Status = types.VENUE_AVAILABLE
	}
	var err error
	if venue.Slug, err = s.uniqueSlug(ctx, &models.Venue{}, venue.Name, venue.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&venue).Error; err != nil {
		return nil, slugConflict(err)
	}
	log.Printf("[Catalog] venue %s created by %s\n", venue.Slug, caller.ID)
	return &venue, nil
}

func (s *CatalogService) UpdateVenue(ctx context.Context, caller *types.Caller, id uuid.UUID, body *types.UpdateVenueRequestBody) (*models.Venue, error) {
	venue, err := s.findVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, venue.CreatedBy, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != venue.Name {
		venue.Name = strings.TrimSpace(*body.Name)
		if venue.Slug, err = s.uniqueSlug(ctx, &models.Venue{}, venue.Name, venue.ID); err != nil {
			return nil, err
		}
	}
	if body.Description != nil {
		venue.Description = *body.Description
	}
	if body.Location != nil {
		venue.Location = *body.Location
	}
	if body.Capacity != nil {
		venue.Capacity = *body.Capacity
	}
	if body.Pricing != nil {
		venue.Pricing = *body.Pricing
	}
	if body.Amenities != nil {
		venue.Amenities = strs(body.Amenities)
	}
	if body.Contact != nil {
		venue.Contact = *body.Contact
	}
	if body.Policies != nil {
		venue.Policies = *body.Policies
	}
	if body.Tags != nil {
		venue.Tags = strs(body.Tags)
	}
	if body.Features != nil {
		venue.Features = strs(body.Features)
	}
	if body.Rating != nil {
		venue.Rating = *body.Rating
	}
	if err := validateVenue(venue.Capacity, venue.Pricing); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(venue).Error; err != nil {
		return nil, slugConflict(err)
	}
	return venue, nil
}

// DeleteVenue removes the venue and detaches it from existing bookings.
func (s *CatalogService) DeleteVenue(ctx context.Context, caller *types.Caller, id uuid.UUID) error {
	venue, err := s.findVenue(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwnerOrRole(caller, venue.CreatedBy, types.ROLE_ADMIN); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).Where("venue_id = ?", id).Update("venue_id", nil).Error; err != nil {
			return err
		}
		return tx.Scopes(scopes.WithID(id)).Delete(&models.Venue{}).Error
	})
}

func (s *CatalogService) SetVenueStatus(ctx context.Context, caller *types.Caller, id uuid.UUID, status types.VenueStatus) (*models.Venue, error) {
	if err := access.RequireRole(caller, access.Staff...); err != nil {
		return nil, err
	}
	venue, err := s.findVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	venue.Status = status
	if err := s.db.WithContext(ctx).Model(venue).Update("status", status).Error; err != nil {
		return nil, err
	}
	return venue, nil
}

// SetVenueAvailability replaces the whole calendar.
func (s *CatalogService) SetVenueAvailability(ctx context.Context, caller *types.Caller, id uuid.UUID, slots []types.AvailabilitySlot) (*models.Venue, error) {
	venue, err := s.findVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, venue.CreatedBy, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	verr := &types.ValidationError{}
	for i, slot := range slots {
		if _, err := time.Parse(types.DATE_FORMAT, slot.Date); err != nil {
			verr.Add(fmt.Sprintf("availability[%d].date", i), "must be a date in YYYY-MM-DD format")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	venue.Availability = datatypes.JSONSlice[types.AvailabilitySlot](slots)
	if venue.Availability == nil {
		venue.Availability = datatypes.JSONSlice[types.AvailabilitySlot]{}
	}
	if err := s.db.WithContext(ctx).Model(venue).Update("availability", venue.Availability).Error; err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *CatalogService) AddVenueImage(ctx context.Context, caller *types.Caller, id uuid.UUID, img *lib.Image) (*models.Venue, error) {
	venue, err := s.findVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnerOrRole(caller, venue.CreatedBy, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	url, err := s.uploadImage(ctx, "venues", venue.ID, img)
	if err != nil {
		return nil, err
	}
	venue.Images = append(venue.Images, url)
	if err := s.db.WithContext(ctx).Model(venue).Update("images", venue.Images).Error; err != nil {
		return nil, err
	}
	return venue, nil
}
