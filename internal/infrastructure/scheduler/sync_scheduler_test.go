package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appintegration "github.com/pharmadash/backend/internal/application/integration"
)

// fakeOrchestrator lets tests control how long a run takes and what it reports
type fakeOrchestrator struct {
	mu      sync.Mutex
	runs    int
	report  appintegration.RunReport
	started chan struct{}
	release chan struct{}
}

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{
		report: appintegration.RunReport{
			Orders:   appintegration.OrderLegReport{Result: &appintegration.OrderSyncResult{Imported: 1}},
			Products: appintegration.ProductLegReport{Result: &appintegration.ProductSyncResult{Created: 1}},
		},
	}
}

func (f *fakeOrchestrator) RunAll(ctx context.Context) appintegration.RunReport {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.report
}

func (f *fakeOrchestrator) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestNewSyncScheduler(t *testing.T) {
	t.Run("rejects an invalid cron expression", func(t *testing.T) {
		_, err := NewSyncScheduler(newFakeOrchestrator(), "not a schedule", "UTC", zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		_, err := NewSyncScheduler(newFakeOrchestrator(), "*/5 * * * *", "Mars/Olympus", zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})
}

func TestSyncScheduler_TriggerManualRun(t *testing.T) {
	t.Run("runs immediately and returns the report", func(t *testing.T) {
		orch := newFakeOrchestrator()
		s, err := NewSyncScheduler(orch, "*/5 * * * *", "UTC", zap.NewNop())
		require.NoError(t, err)

		report, err := s.TriggerManualRun(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Orders.Result.Imported)
		assert.Equal(t, 1, orch.runCount())
	})

	t.Run("rejects a trigger while a run is in progress", func(t *testing.T) {
		orch := newFakeOrchestrator()
		orch.started = make(chan struct{})
		orch.release = make(chan struct{})

		s, err := NewSyncScheduler(orch, "*/5 * * * *", "UTC", zap.NewNop())
		require.NoError(t, err)

		firstDone := make(chan struct{})
		go func() {
			defer close(firstDone)
			_, err := s.TriggerManualRun(context.Background())
			assert.NoError(t, err)
		}()

		<-orch.started
		_, err = s.TriggerManualRun(context.Background())
		assert.ErrorIs(t, err, ErrRunInProgress)

		close(orch.release)
		<-firstDone
		assert.Equal(t, 1, orch.runCount())
	})
}

func TestSyncScheduler_Status(t *testing.T) {
	t.Run("reflects the last run and its outcome", func(t *testing.T) {
		orch := newFakeOrchestrator()
		s, err := NewSyncScheduler(orch, "*/5 * * * *", "UTC", zap.NewNop())
		require.NoError(t, err)

		before := s.Status()
		assert.False(t, before.IsRunning)
		assert.Nil(t, before.LastRunTime)

		_, err = s.TriggerManualRun(context.Background())
		require.NoError(t, err)

		after := s.Status()
		require.NotNil(t, after.LastRunTime)
		require.NotNil(t, after.LastReport)
		assert.Empty(t, after.LastError)
		assert.Equal(t, "*/5 * * * *", after.Schedule)
		assert.Equal(t, "UTC", after.Timezone)
	})

	t.Run("surfaces per-leg failures from the last run", func(t *testing.T) {
		orch := newFakeOrchestrator()
		orch.report = appintegration.RunReport{
			Orders:   appintegration.OrderLegReport{Error: "upstream unreachable"},
			Products: appintegration.ProductLegReport{Result: &appintegration.ProductSyncResult{Created: 2}},
		}

		s, err := NewSyncScheduler(orch, "*/5 * * * *", "UTC", zap.NewNop())
		require.NoError(t, err)

		_, err = s.TriggerManualRun(context.Background())
		require.NoError(t, err)

		status := s.Status()
		assert.Contains(t, status.LastError, "orders: upstream unreachable")
		require.NotNil(t, status.LastReport)
		assert.Equal(t, 2, status.LastReport.Products.Result.Created)
	})
}

func TestSyncScheduler_StartStop(t *testing.T) {
	orch := newFakeOrchestrator()
	s, err := NewSyncScheduler(orch, "*/5 * * * *", "UTC", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	// Start performs one synchronous run before the first tick.
	assert.Equal(t, 1, orch.runCount())

	status := s.Status()
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.NextRunTime)
	assert.True(t, status.NextRunTime.After(time.Now().Add(-time.Second)))

	// Idempotent: a second Start does not rerun or rearm.
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, orch.runCount())

	s.Stop()
	assert.False(t, s.Status().IsRunning)
	s.Stop()
}
