package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/uniceg/eunice-dev/internal/logger"
	"github.com/uniceg/eunice-dev/internal/pages"
	"github.com/uniceg/eunice-dev/internal/visits"
)

// startJobs schedules page sweeping and visitor-data cleanup. The returned
// cron must be stopped on shutdown.
func startJobs(registry *pages.Registry, idle time.Duration, store *visits.Store, retention time.Duration, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("@every 1m", func() {
		if n := registry.Sweep(idle); n > 0 {
			log.WithFields(map[string]any{"swept": n}).Debug("unmounted idle pages")
		}
	})
	if err != nil {
		return nil, err
	}

	if store != nil {
		_, err = c.AddFunc("@daily", func() {
			pruneVisits(store, retention, log)
		})
		if err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}

func pruneVisits(store *visits.Store, retention time.Duration, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := store.Cleanup(ctx, retention)
	if err != nil {
		log.Error(err, "clean up visitor data")
		return
	}
	if removed > 0 {
		log.WithFields(map[string]any{"removed": removed}).Info("removed expired visitor records")
	}
}
