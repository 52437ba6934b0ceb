package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindStaleQuotations(ctx context.Context, before time.Time) ([]trade.Order, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

type warmerFunc func(ctx context.Context) error

func (f warmerFunc) WarmUp(ctx context.Context) error { return f(ctx) }

func TestScheduler_RegisterInvalidSchedule(t *testing.T) {
	s := NewScheduler(time.Second, zap.NewNop())
	err := s.Register("not a cron", funcJob{name: "x", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_RegisterDuplicate(t *testing.T) {
	s := NewScheduler(time.Second, zap.NewNop())
	job := funcJob{name: "x", fn: func(context.Context) error { return nil }}
	require.NoError(t, s.Register("@every 1h", job))
	assert.ErrorIs(t, s.Register("@every 1h", job), ErrDuplicateJob)
}

func TestScheduler_RunNowTracksStatus(t *testing.T) {
	s := NewScheduler(time.Second, zap.NewNop())
	require.NoError(t, s.Register("0 7 * * *", funcJob{name: "ok", fn: func(context.Context) error { return nil }}))
	require.NoError(t, s.Register("0 7 * * *", funcJob{name: "bad", fn: func(context.Context) error { return errors.New("boom") }}))

	require.NoError(t, s.RunNow("ok"))
	assert.EqualError(t, s.RunNow("bad"), "boom")
	assert.ErrorIs(t, s.RunNow("missing"), ErrJobNotFound)

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "bad", jobs[0].Name)
	assert.Equal(t, JobStatusFailed, jobs[0].Status)
	assert.Equal(t, "boom", jobs[0].LastError)
	assert.Equal(t, int64(1), jobs[0].FailedCount)
	assert.Equal(t, JobStatusSuccess, jobs[1].Status)
	assert.NotNil(t, jobs[1].LastRunAt)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := NewScheduler(time.Second, zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})
	var runs int32
	require.NoError(t, s.Register("0 7 * * *", funcJob{name: "slow", fn: func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return nil
	}}))

	done := make(chan error, 1)
	go func() { done <- s.RunNow("slow") }()
	<-started

	assert.ErrorIs(t, s.RunNow("slow"), ErrJobRunning)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(20*time.Millisecond, zap.NewNop())
	require.NoError(t, s.Register("0 7 * * *", funcJob{name: "stuck", fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}))

	assert.ErrorIs(t, s.RunNow("stuck"), context.DeadlineExceeded)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(time.Second, zap.NewNop())
	require.NoError(t, s.Register("*/15 * * * *", funcJob{name: "x", fn: func(context.Context) error { return nil }}))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.Jobs()[0].NextRunAt)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(ctx))
}

func TestStatsWarmupJob(t *testing.T) {
	var called bool
	job := NewStatsWarmupJob(warmerFunc(func(context.Context) error {
		called = true
		return nil
	}))

	assert.Equal(t, JobStatsWarmup, job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.True(t, called)
}

func staleOrder(repID uuid.UUID, repName, number string, created time.Time) trade.Order {
	return trade.Order{
		BaseEntity:         shared.BaseEntity{ID: uuid.New(), CreatedAt: created},
		Number:             number,
		RepresentativeID:   repID,
		RepresentativeName: repName,
		Status:             trade.OrderStatusQuotation,
	}
}

func TestSummarizeStaleQuotations(t *testing.T) {
	ana, bruno := uuid.New(), uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []trade.Order{
		staleOrder(bruno, "Bruno", "PED-2026-00003", base.AddDate(0, 0, 2)),
		staleOrder(ana, "Ana", "PED-2026-00002", base.AddDate(0, 0, 1)),
		staleOrder(bruno, "Bruno", "PED-2026-00001", base),
	}

	summaries := SummarizeStaleQuotations(orders)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Bruno", summaries[0].RepresentativeName)
	assert.Equal(t, 2, summaries[0].Count)
	assert.Equal(t, "PED-2026-00001", summaries[0].OldestNumber)
	assert.Equal(t, "Ana", summaries[1].RepresentativeName)
}

func TestStaleQuotationsJob_Run(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	finder := new(mockFinder)
	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -10)
	rep := uuid.New()
	finder.On("FindStaleQuotations", mock.Anything, cutoff).
		Return([]trade.Order{staleOrder(rep, "Carla", "PED-2026-00009", cutoff.Add(-time.Hour))}, nil)

	job := NewStaleQuotationsJob(finder, 10, zap.New(core))
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	finder.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("Stale quotations pending confirmation").Len())
}

func TestStaleQuotationsJob_DefaultDaysAndError(t *testing.T) {
	finder := new(mockFinder)
	finder.On("FindStaleQuotations", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	job := NewStaleQuotationsJob(finder, 0, zap.NewNop())
	assert.Equal(t, 30, job.days)
	assert.EqualError(t, job.Run(context.Background()), "db down")
}
