package worker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"inkwell/internal/handler/http/respond"
	"inkwell/internal/pkg/config"
)

// Job is one periodic task. Run returns the number of rows it touched.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (int64, error)
}

// JobStatus is the last known outcome of a job, served on /health/jobs.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Running     bool       `json:"running"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Rows        int64      `json:"rows"`
}

// Scheduler runs Jobs on their cron schedules. A run still in progress when
// its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *WorkerMetrics
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	status map[string]*JobStatus
}

// NewScheduler evaluates schedules in loc and bounds each run by timeout.
func NewScheduler(loc *time.Location, timeout time.Duration, logger *slog.Logger, metrics *WorkerMetrics) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(config.CronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
		now:     time.Now,
		ctx:     context.Background(),
		status:  make(map[string]*JobStatus),
	}
}

// Add registers job. Names must be unique.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	if _, dup := s.status[job.Name]; dup {
		s.mu.Unlock()
		return fmt.Errorf("job %q already registered", job.Name)
	}
	s.status[job.Name] = &JobStatus{Name: job.Name, Schedule: job.Schedule}
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(job.Schedule, func() { _ = s.RunNow(s.baseContext(), job) }); err != nil {
		s.mu.Lock()
		delete(s.status, job.Name)
		s.mu.Unlock()
		return fmt.Errorf("add job %q: %w", job.Name, err)
	}
	return nil
}

// Start begins firing schedules. Runs triggered by the scheduler inherit ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.cron.Start()
}

// Stop stops the schedules. The returned context is done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// RunNow runs job once, synchronously, and records its outcome.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	start := s.now()
	s.update(job.Name, func(st *JobStatus) {
		st.Running = true
		st.LastRun = &start
	})
	s.logger.Info("job started", slog.String("job", job.Name))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := job.Run(ctx)

	elapsed := s.now().Sub(start)
	s.metrics.RecordRun(job.Name, elapsed.Seconds(), rows, err)

	if err != nil {
		// 機密情報をマスクしてログ出力
		msg := respond.SanitizeError(err)
		s.logger.Error("job failed",
			slog.String("job", job.Name),
			slog.String("error", msg),
			slog.Duration("duration", elapsed))
		s.update(job.Name, func(st *JobStatus) {
			st.Running = false
			st.LastError = msg
		})
		return err
	}

	s.logger.Info("job completed",
		slog.String("job", job.Name),
		slog.Int64("rows", rows),
		slog.Duration("duration", elapsed))
	finished := s.now()
	s.update(job.Name, func(st *JobStatus) {
		st.Running = false
		st.LastSuccess = &finished
		st.LastError = ""
		st.Rows = rows
	})
	return nil
}

func (s *Scheduler) update(name string, fn func(*JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[name]
	if !ok {
		st = &JobStatus{Name: name}
		s.status[name] = st
	}
	fn(st)
}

// Statuses returns a copy of every job status ordered by name.
func (s *Scheduler) Statuses() []JobStatus {
	s.mu.Lock()
	out := make([]JobStatus, 0, len(s.status))
	for _, st := range s.status {
		out = append(out, *st)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b JobStatus) int { return strings.Compare(a.Name, b.Name) })
	return out
}
