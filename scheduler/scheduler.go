package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the poll cycle on a fixed cadence. Jobs are chained with
// SkipIfStillRunning so cycles are strictly sequential: a slow cycle causes
// the next tick to be skipped, never a concurrent cycle.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entryID cron.EntryID
}

// New creates a Scheduler.
func New() *Scheduler {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{cron: c}
}

// Schedule sets up the poll task at the given interval.
// If a previous schedule exists, it is replaced.
func (s *Scheduler) Schedule(interval time.Duration, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval < time.Second {
		return fmt.Errorf("poll interval %s too short: minimum is 1s", interval)
	}

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	spec := fmt.Sprintf("@every %s", interval)
	entryID, err := s.cron.AddFunc(spec, task)
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}

	s.entryID = entryID
	slog.Info("poll scheduled", "interval", interval.String())
	return nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
