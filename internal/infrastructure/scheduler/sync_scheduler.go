package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	appintegration "github.com/pharmadash/backend/internal/application/integration"
)

// Orchestrator is the unit of work the scheduler drives on every tick
type Orchestrator interface {
	RunAll(ctx context.Context) appintegration.RunReport
}

// Status is a point-in-time snapshot of the scheduler, including the
// outcome of the most recent run so failures are observable beyond logs.
type Status struct {
	IsRunning   bool                      `json:"is_running"`
	Schedule    string                    `json:"schedule"`
	Timezone    string                    `json:"timezone"`
	LastRunTime *time.Time                `json:"last_run_time,omitempty"`
	NextRunTime *time.Time                `json:"next_run_time,omitempty"`
	LastError   string                    `json:"last_error,omitempty"`
	LastReport  *appintegration.RunReport `json:"last_report,omitempty"`
}

// SyncScheduler triggers orchestrator runs on a wall-clock-aligned cron
// cadence and on demand. A single run lock guarantees a manual trigger and
// a timer tick never execute concurrently; the loser of the race is
// rejected, not queued.
type SyncScheduler struct {
	orchestrator Orchestrator
	logger       *zap.Logger
	schedule     string
	location     *time.Location

	runMu sync.Mutex // held for the duration of every orchestrator run

	mu         sync.Mutex // guards the fields below
	cron       *cron.Cron
	entryID    cron.EntryID
	isRunning  bool
	baseCtx    context.Context
	lastRun    *time.Time
	lastReport *appintegration.RunReport
	lastError  string
}

// NewSyncScheduler creates a sync scheduler. The schedule is a standard
// five-field cron expression; "*/5 * * * *" fires on every 5-minute
// wall-clock boundary strictly after now.
func NewSyncScheduler(orchestrator Orchestrator, schedule, timezone string, logger *zap.Logger) (*SyncScheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSchedule, timezone, err)
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return &SyncScheduler{
		orchestrator: orchestrator,
		logger:       logger.Named("scheduler"),
		schedule:     schedule,
		location:     location,
	}, nil
}

// Start arms the recurring timer and performs one synchronous run before
// the first tick. Starting an already-started scheduler is a no-op.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}

	c := cron.New(cron.WithLocation(s.location))
	entryID, err := c.AddFunc(s.schedule, s.tick)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s.cron = c
	s.entryID = entryID
	s.isRunning = true
	s.baseCtx = ctx
	s.mu.Unlock()

	// Initial run before the timer's first tick.
	s.runMu.Lock()
	s.runOnce(ctx)
	s.runMu.Unlock()

	c.Start()
	s.logger.Info("Sync scheduler started",
		zap.String("schedule", s.schedule),
		zap.String("timezone", s.location.String()),
	)
	return nil
}

// Stop cancels the timer. In-flight runs complete; they are never torn
// down mid-write.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.isRunning = false
	s.logger.Info("Sync scheduler stopped")
}

// TriggerManualRun executes a run outside the timer cadence. It returns
// ErrRunInProgress when a timer-triggered or another manual run is active.
func (s *SyncScheduler) TriggerManualRun(ctx context.Context) (appintegration.RunReport, error) {
	if !s.runMu.TryLock() {
		return appintegration.RunReport{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.logger.Info("Manual sync run triggered")
	return s.runOnce(ctx), nil
}

// Status returns the scheduler's current state
func (s *SyncScheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		IsRunning:   s.isRunning,
		Schedule:    s.schedule,
		Timezone:    s.location.String(),
		LastRunTime: s.lastRun,
		LastError:   s.lastError,
		LastReport:  s.lastReport,
	}
	if s.isRunning && s.cron != nil {
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRunTime = &next
		}
	}
	return status
}

// tick is the cron callback. Nothing may escape it: a panic or error from
// one bad run must not kill the schedule.
func (s *SyncScheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sync tick panicked", zap.Any("panic", r))
			s.mu.Lock()
			s.lastError = fmt.Sprintf("panic: %v", r)
			s.mu.Unlock()
		}
	}()

	if !s.runMu.TryLock() {
		s.logger.Warn("Skipping scheduled sync: previous run still in progress")
		return
	}
	defer s.runMu.Unlock()

	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.runOnce(ctx)
}

// runOnce executes the orchestrator and records the outcome. Callers must
// hold runMu.
func (s *SyncScheduler) runOnce(ctx context.Context) appintegration.RunReport {
	report := s.orchestrator.RunAll(ctx)
	now := time.Now()

	var lastError string
	if report.Orders.Failed() {
		lastError = "orders: " + report.Orders.Error
	}
	if report.Products.Failed() {
		if lastError != "" {
			lastError += "; "
		}
		lastError += "products: " + report.Products.Error
	}

	s.mu.Lock()
	s.lastRun = &now
	s.lastReport = &report
	s.lastError = lastError
	s.mu.Unlock()

	return report
}
