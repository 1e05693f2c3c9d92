package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Resetter restores the backend catalog to its seed contents.
type Resetter interface {
	ResetCatalog() error
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// CatalogResetScheduler periodically resets the book service to its sample
// catalog, for shared demo backends.
type CatalogResetScheduler struct {
	resetter Resetter
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	lastRun    time.Time
	lastErr    error
	cancelFunc context.CancelFunc
}

// NewCatalogResetScheduler creates a scheduler; an empty schedule disables it.
func NewCatalogResetScheduler(resetter Resetter, schedule string) *CatalogResetScheduler {
	return &CatalogResetScheduler{
		resetter: resetter,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins the scheduler if a schedule is configured
func (s *CatalogResetScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("[SCHEDULER] catalog reset: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reset job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("[SCHEDULER] catalog reset: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(s.entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running reset to finish
func (s *CatalogResetScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	entryID := s.entryID
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs; RunNow takes the lock, so wait outside it
	<-s.cron.Stop().Done()
	s.cron.Remove(entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("[SCHEDULER] catalog reset: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CatalogResetScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next reset will occur
func (s *CatalogResetScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

// LastRun returns the time and outcome of the most recent reset.
func (s *CatalogResetScheduler) LastRun() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

// RunNow performs a reset synchronously.
func (s *CatalogResetScheduler) RunNow() {
	start := time.Now()
	err := s.resetter.ResetCatalog()

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		log.Printf("[SCHEDULER] catalog reset failed: %v", err)
		return
	}
	log.Printf("[SCHEDULER] catalog reset in %v", time.Since(start).Round(time.Millisecond))
}
