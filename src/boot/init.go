package boot

import (
	"context"
	"log"
	"time"

	"uservice/src/lib"
	"uservice/src/models"
	"uservice/src/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Printf("error migration: %s\n", err.Error())
		return err
	}
	return nil
}

// SeedAdmin creates the first admin account when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func SeedAdmin(ctx context.Context, identity *services.IdentityService, email, password string) {
	created, err := identity.SeedAdmin(ctx, email, password)
	if err != nil {
		log.Printf("[Boot] Error seeding admin: %s\n", err.Error())
		return
	}
	if created {
		log.Printf("[Boot] Admin account created for %s\n", email)
	}
}

// InitScheduler registers the background jobs and starts the scheduler.
func InitScheduler(jobs *services.Jobs) (gocron.Scheduler, error) {
	sched, err := lib.NewScheduler()
	if err != nil {
		return nil, err
	}
	if _, err := lib.ScheduleEvery(sched, "event-reminders", time.Hour, 5*time.Minute, jobs.SendEventReminders); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return nil, err
	}
	if _, err := lib.ScheduleEvery(sched, "purge-expired-tokens", 24*time.Hour, time.Minute, jobs.PurgeExpiredTokens); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return nil, err
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
	return sched, nil
}

func StopScheduler(sched gocron.Scheduler) {
	if sched == nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("An error has occurred while stopping Scheduler: %s\n", err.Error())
	}
}
