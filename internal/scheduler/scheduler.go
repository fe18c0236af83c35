// Package scheduler wires up the cron job that periodically purges expired
// search sessions from the store.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mhe931/jobflow/internal/db"
)

// Janitor wraps robfig/cron and manages the retention loop.
type Janitor struct {
	cron      *cron.Cron
	store     *db.DB
	retention time.Duration
	spec      string // cron spec, e.g. "@daily"
}

// New creates a Janitor that purges sessions older than retentionDays once a
// day.
func New(store *db.DB, retentionDays int) *Janitor {
	return &Janitor{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		spec:      "@daily",
	}
}

// Start registers the job and starts the scheduler. Also runs one purge
// immediately so expired sessions don't linger until the first tick.
func (j *Janitor) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.runPurge(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	j.cron.Start()
	log.Printf("[janitor] Cron started, spec %s, retention %s", j.spec, j.retention)

	// Run immediately on startup (non-blocking)
	go j.runPurge(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (j *Janitor) Stop() {
	j.cron.Stop()
	log.Println("[janitor] Cron stopped")
}

// runPurge deletes sessions past the retention window.
func (j *Janitor) runPurge(ctx context.Context) {
	n, err := j.store.PurgeOldSessions(ctx, j.retention)
	if err != nil {
		log.Printf("[janitor] Purge error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[janitor] Purged %d expired session(s)", n)
	}
}
