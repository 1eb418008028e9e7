// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartAuditScheduler runs the integrity audit every interval and logs what it finds.
// The caller shuts the returned scheduler down.
func (a *IntegrityAuditor) StartAuditScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			violations, err := a.Audit(ctx)
			if err != nil {
				log.Printf("[AUDIT] DB error: %v", err)
				return
			}
			if len(violations) == 0 {
				return
			}
			for _, v := range violations {
				log.Printf("[AUDIT] ⚠️ %s", v)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
