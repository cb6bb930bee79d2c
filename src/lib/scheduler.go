package lib

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func NewScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	return sched, nil
}

// ScheduleEvery registers fn to run every interval. Overlapping runs are skipped.
func ScheduleEvery(sched gocron.Scheduler, name string, every time.Duration, timeout time.Duration, fn func(ctx context.Context) error) (string, error) {
	j, err := sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := fn(ctx); err != nil {
				log.Printf("[%s] job error: %s\n", name, err.Error())
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", err
	}
	log.Printf("Job: %s %s\n", j.ID().String(), j.Name())
	return j.ID().String(), nil
}
