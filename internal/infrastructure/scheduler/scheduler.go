// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobInfo describes a registered job
type JobInfo struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Status      JobStatus  `json:"status"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
	RunCount    int64      `json:"run_count"`
	FailedCount int64      `json:"failed_count"`
}

type entry struct {
	job      Job
	schedule string
	entryID  cron.EntryID
	running  bool
	info     JobInfo
}

// Scheduler runs registered jobs on their cron schedules. A job never
// overlaps itself: a tick that fires while the previous run is still in
// progress is skipped.
type Scheduler struct {
	cron       *cron.Cron
	jobTimeout time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	entries   map[string]*entry
	isRunning bool
	baseCtx   context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler. jobTimeout bounds every run; zero means
// five minutes.
func NewScheduler(jobTimeout time.Duration, logger *zap.Logger) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	cronLogger := zapCronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		jobTimeout: jobTimeout,
		logger:     logger,
		entries:    make(map[string]*entry),
		baseCtx:    context.Background(),
	}
}

// Register adds a job with a standard five-field cron expression
func (s *Scheduler) Register(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	e := &entry{
		job:      job,
		schedule: schedule,
		info:     JobInfo{Name: name, Schedule: schedule, Status: JobStatusPending},
	}
	id, err := s.cron.AddFunc(schedule, func() {
		if err := s.run(e); err != nil && !errors.Is(err, ErrJobRunning) {
			s.logger.Debug("Scheduled job returned error", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidConfig, name, schedule, err)
	}
	e.entryID = id
	s.entries[name] = e
	return nil
}

// Start begins dispatching jobs
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.entries)))
	return nil
}

// Stop stops dispatching, cancels running jobs and waits for them to return
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	cronDone := s.cron.Stop().Done()
	done := make(chan struct{})
	go func() {
		<-cronDone
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow runs a job immediately, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(e)
}

// Jobs returns a snapshot of every registered job, sorted by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]JobInfo, 0, len(s.entries))
	for _, e := range s.entries {
		info := e.info
		if next := s.cron.Entry(e.entryID).Next; !next.IsZero() {
			info.NextRunAt = &next
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// IsRunning returns whether the scheduler is dispatching jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *Scheduler) run(e *entry) error {
	s.mu.Lock()
	if e.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping job run, previous run still in progress", zap.String("job", e.info.Name))
		return ErrJobRunning
	}
	e.running = true
	started := time.Now()
	e.info.Status = JobStatusRunning
	e.info.LastRunAt = &started
	parent := s.baseCtx
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(parent, s.jobTimeout)
	defer cancel()

	err := e.job.Run(ctx)
	elapsed := time.Since(started)

	s.mu.Lock()
	e.running = false
	e.info.RunCount++
	if err != nil {
		e.info.Status = JobStatusFailed
		e.info.LastError = err.Error()
		e.info.FailedCount++
	} else {
		e.info.Status = JobStatusSuccess
		e.info.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", e.info.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("Job completed",
		zap.String("job", e.info.Name),
		zap.Duration("duration", elapsed),
	)
	return nil
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw("cron: "+msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
