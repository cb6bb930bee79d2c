package services

import (
	"context"
	"log"
	"time"

	"uservice/src/models"
	"uservice/src/types"

	"gorm.io/gorm"
)

// Jobs are the periodic tasks run by the scheduler.
type Jobs struct {
	db       *gorm.DB
	identity *IdentityService
	notifier Notifier
	window   time.Duration
	now      Clock
}

func NewJobs(db *gorm.DB, identity *IdentityService, notifier Notifier, reminderWindow time.Duration) *Jobs {
	return &Jobs{db: db, identity: identity, notifier: notifier, window: reminderWindow, now: utcNow}
}

func (j *Jobs) WithClock(now Clock) *Jobs {
	j.now = now
	return j
}

// SendEventReminders emails customers of confirmed bookings whose event falls
// inside the reminder window. Each booking is reminded once.
func (j *Jobs) SendEventReminders(ctx context.Context) error {
	now := j.now()
	bookings := []models.Booking{}
	if err := j.db.WithContext(ctx).Preload("Customer").
		Where("status = ? AND reminder_sent_at IS NULL", types.BOOKING_CONFIRMED).
		Where("event_date > ? AND event_date <= ?", now, now.Add(j.window)).
		Find(&bookings).Error; err != nil {
		return err
	}
	sent := 0
	for i := range bookings {
		b := &bookings[i]
		if b.Customer == nil {
			continue
		}
		if err := j.db.WithContext(ctx).Model(b).UpdateColumn("reminder_sent_at", now).Error; err != nil {
			log.Printf("[Jobs] could not mark reminder for %s: %s\n", b.BookingID, err.Error())
			continue
		}
		j.notifier.EventReminder(b, b.Customer)
		sent++
	}
	if sent > 0 {
		log.Printf("[Jobs] sent %d event reminders\n", sent)
	}
	return nil
}

func (j *Jobs) PurgeExpiredTokens(ctx context.Context) error {
	n, err := j.identity.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[Jobs] purged %d expired tokens\n", n)
	}
	return nil
}
