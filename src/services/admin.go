package services

import (
	"context"
	"log"
	"time"

	"uservice/src/access"
	"uservice/src/db"
	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "admin:dashboard"
	dashboardCacheTTL = time.Minute
	revenueMonths     = 6
	recentLimit       = 5
	topLimit          = 5
)

type Dashboard struct {
	Totals         types.DashboardTotals  `json:"totals"`
	RecentBookings []models.Booking       `json:"recent_bookings"`
	MonthlyRevenue []types.MonthlyRevenue `json:"monthly_revenue"`
	TopPackages    []types.RankedItem     `json:"top_packages"`
	TopVenues      []types.RankedItem     `json:"top_venues"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

type AdminService struct {
	db      *gorm.DB
	cache   lib.Cache
	started time.Time
	now     Clock
}

// NewAdminService wires the admin statistics. cache may be nil.
func NewAdminService(db *gorm.DB, cache lib.Cache) *AdminService {
	return &AdminService{db: db, cache: cache, started: time.Now(), now: utcNow}
}

func (s *AdminService) WithClock(now Clock) *AdminService {
	s.now = now
	return s
}

func (s *AdminService) Dashboard(ctx context.Context, caller *types.Caller) (*Dashboard, error) {
	if err := access.RequireRole(caller, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	if s.cache != nil {
		var cached Dashboard
		found, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			log.Printf("[Admin] dashboard cache read failed: %s\n", err.Error())
		} else if found {
			return &cached, nil
		}
	}

	d, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, d, dashboardCacheTTL); err != nil {
			log.Printf("[Admin] dashboard cache write failed: %s\n", err.Error())
		}
	}
	return d, nil
}

func (s *AdminService) buildDashboard(ctx context.Context) (*Dashboard, error) {
	tx := s.db.WithContext(ctx)
	d := &Dashboard{GeneratedAt: s.now()}

	counts := []struct {
		model any
		where []any
		dest  *int64
	}{
		{&models.User{}, nil, &d.Totals.Users},
		{&models.Package{}, nil, &d.Totals.Packages},
		{&models.Venue{}, nil, &d.Totals.Venues},
		{&models.Booking{}, nil, &d.Totals.Bookings},
		{&models.Message{}, nil, &d.Totals.Messages},
		{&models.Booking{}, []any{"status = ?", types.BOOKING_PENDING}, &d.Totals.PendingBookings},
		{&models.Message{}, []any{"status = ?", types.MESSAGE_UNREAD}, &d.Totals.UnreadMessages},
	}
	for _, c := range counts {
		q := tx.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Model(&models.Booking{}).
		Where("status = ?", types.BOOKING_COMPLETED).
		Select("COALESCE(SUM(pricing_total), 0)").
		Scan(&d.Totals.Revenue).Error; err != nil {
		return nil, err
	}

	d.RecentBookings = []models.Booking{}
	if err := tx.Preload("Customer").Preload("Package").Preload("Venue").
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&d.RecentBookings).Error; err != nil {
		return nil, err
	}

	var err error
	if d.MonthlyRevenue, err = s.monthlyRevenue(tx, d.GeneratedAt); err != nil {
		return nil, err
	}
	if d.TopPackages, err = topRanked(tx, "package_id", &models.Package{}); err != nil {
		return nil, err
	}
	if d.TopVenues, err = topRanked(tx, "venue_id", &models.Venue{}); err != nil {
		return nil, err
	}
	return d, nil
}

// monthlyRevenue buckets completed bookings of the last six months by creation month.
// Bucketing happens here rather than in SQL so it works on every dialect.
func (s *AdminService) monthlyRevenue(tx *gorm.DB, now time.Time) ([]types.MonthlyRevenue, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(revenueMonths - 1), 0)
	rows := []struct {
		CreatedAt    time.Time
		PricingTotal float64
	}{}
	if err := tx.Model(&models.Booking{}).
		Select("created_at, pricing_total").
		Where("status = ? AND created_at >= ?", types.BOOKING_COMPLETED, first).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.MonthlyRevenue, revenueMonths)
	index := map[string]int{}
	for i := range out {
		month := first.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = month
		index[month] = i
	}
	for _, r := range rows {
		if i, ok := index[r.CreatedAt.UTC().Format("2006-01")]; ok {
			out[i].Revenue += r.PricingTotal
			out[i].Count++
		}
	}
	return out, nil
}

func topRanked(tx *gorm.DB, column string, model any) ([]types.RankedItem, error) {
	rows := []struct {
		ID       uuid.UUID
		Bookings int64
	}{}
	if err := tx.Model(&models.Booking{}).
		Select(column + " AS id, COUNT(*) AS bookings").
		Where(column + " IS NOT NULL").
		Group(column).
		Order("bookings DESC").
		Limit(topLimit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]types.RankedItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	names := []struct {
		ID   uuid.UUID
		Name string
	}{}
	if err := tx.Model(model).Select("id, name").Where("id IN ?", ids).Scan(&names).Error; err != nil {
		return nil, err
	}
	byID := map[uuid.UUID]string{}
	for _, n := range names {
		byID[n.ID] = n.Name
	}
	for _, r := range rows {
		items = append(items, types.RankedItem{ID: r.ID.String(), Name: byID[r.ID], Bookings: r.Bookings})
	}
	return items, nil
}

func periodStart(period string, now time.Time) (string, time.Time) {
	switch period {
	case "week":
		return period, now.AddDate(0, 0, -7)
	case "quarter":
		return period, now.AddDate(0, -3, 0)
	case "year":
		return period, now.AddDate(-1, 0, 0)
	default:
		return "month", now.AddDate(0, -1, 0)
	}
}

func (s *AdminService) Stats(ctx context.Context, caller *types.Caller, period string) (*types.PeriodStats, error) {
	if err := access.RequireRole(caller, types.ROLE_ADMIN); err != nil {
		return nil, err
	}
	now := s.now()
	period, since := periodStart(period, now)
	tx := s.db.WithContext(ctx)

	stats := &types.PeriodStats{Period: period, Since: since, Generated: now}
	if err := tx.Model(&models.User{}).Where("created_at >= ?", since).Count(&stats.NewUsers).Error; err != nil {
		return nil, err
	}
	overview, err := bookingOverview(tx, since)
	if err != nil {
		return nil, err
	}
	stats.Bookings = overview.ByStatus
	stats.Revenue = overview.Revenue
	if err := tx.Model(&models.Message{}).Where("created_at >= ?", since).Count(&stats.Messages).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) Health(ctx context.Context) *types.Health {
	h := &types.Health{Status: "ok", Database: "connected", Redis: "disabled", Uptime: time.Since(s.started).Round(time.Second).String()}
	if err := db.Ping(ctx, s.db); err != nil {
		log.Printf("[Admin] database ping failed: %s\n", err.Error())
		h.Database = "disconnected"
		h.Status = "degraded"
	}
	if s.cache != nil {
		h.Redis = "connected"
		if err := s.cache.Ping(ctx); err != nil {
			log.Printf("[Admin] redis ping failed: %s\n", err.Error())
			h.Redis = "disconnected"
			h.Status = "degraded"
		}
	}
	return h
}
