package common_tools

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Global scheduler instance
var (
	scheduler     *cron.Cron
	schedulerOnce sync.Once
)

func getScheduler() *cron.Cron {
	schedulerOnce.Do(func() {
		scheduler = cron.New()
		scheduler.Start()
	})
	return scheduler
}

// ScheduleDailyReset resets every active route state at midnight, so each
// session starts the new day with a fresh schedule. The states callback is
// evaluated at fire time to pick up sessions created after registration.
func ScheduleDailyReset(states func() []*RouteState) (cron.EntryID, error) {
	return getScheduler().AddFunc("0 0 * * *", func() {
		active := states()
		for _, state := range active {
			state.Reset()
		}
		log.Printf("Daily reset: cleared %d route states", len(active))
	})
}
