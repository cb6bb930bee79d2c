package types

import "time"

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type BookingOverview struct {
	Total    int64                   `json:"total"`
	ByStatus map[BookingStatus]int64 `json:"by_status"`
	Revenue  float64                 `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int64   `json:"count"`
}

type RankedItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Bookings int64  `json:"bookings"`
}

type DashboardTotals struct {
	Users           int64   `json:"users"`
	Packages        int64   `json:"packages"`
	Venues          int64   `json:"venues"`
	Bookings        int64   `json:"bookings"`
	Messages        int64   `json:"messages"`
	PendingBookings int64   `json:"pending_bookings"`
	UnreadMessages  int64   `json:"unread_messages"`
	Revenue         float64 `json:"revenue"`
}

type PeriodStats struct {
	Period    string                  `json:"period"`
	Since     time.Time               `json:"since"`
	NewUsers  int64                   `json:"new_users"`
	Bookings  map[BookingStatus]int64 `json:"bookings"`
	Revenue   float64                 `json:"revenue"`
	Messages  int64                   `json:"messages"`
	Generated time.Time               `json:"generated_at"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Uptime   string `json:"uptime"`
}
