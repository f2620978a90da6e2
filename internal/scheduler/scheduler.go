// Package scheduler provides cron-based job scheduling for CraveBreaker.
//
// Its single production job is the daily retention cleanup, which purges old
// help-request and intervention log rows from the store.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionAge is how long help-request and intervention log rows are kept.
const RetentionAge = 90 * 24 * time.Hour

// cleanupSchedule runs the retention purge every night at 03:30.
const cleanupSchedule = "30 3 * * *"

// CleanupStore is the slice of the store the retention job needs.
type CleanupStore interface {
	CleanupOldData(olderThan time.Duration) error
}

// Scheduler provides cron-based job scheduling.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler.
func NewScheduler() *Scheduler {
	// Standard 5-field cron parser (min, hour, dom, month, dow); panics in
	// jobs are recovered so one bad job cannot kill the process.
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task using the provided cron expression.
// It returns an error if the expression is invalid.
func (s *Scheduler) AddJob(expr string, task func()) error {
	_, err := s.cron.AddFunc(expr, task)
	return err
}

// ScheduleRetentionCleanup registers the nightly purge of log rows older than
// RetentionAge. User accounts and progress records are never purged.
func (s *Scheduler) ScheduleRetentionCleanup(st CleanupStore) error {
	return s.AddJob(cleanupSchedule, func() {
		slog.Debug("scheduler running retention cleanup", "olderThan", RetentionAge)
		if err := st.CleanupOldData(RetentionAge); err != nil {
			slog.Error("scheduler retention cleanup failed", "error", err)
			return
		}
		slog.Info("scheduler retention cleanup completed")
	})
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
