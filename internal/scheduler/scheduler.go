package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/tradedash/pkg/logger"
)

// Scheduler manages scheduled jobs
// ⭐ SSOT: 스케줄 관리는 이 스케줄러에서만
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	entries map[string]cron.EntryID
	history map[string]*JobHistory
	mu      sync.RWMutex

	// Retry configuration
	maxRetries int
	retryDelay time.Duration
	jobTimeout time.Duration

	// Cancelled by Stop so in-flight runs and retry waits end promptly
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRetry sets the retry budget for failing jobs
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(s *Scheduler) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// WithJobTimeout bounds a single job attempt
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.jobTimeout = d
	}
}

// New creates a new scheduler. Schedules use six fields (seconds first).
func New(log *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log,
		jobs:       make(map[string]Job),
		entries:    make(map[string]cron.EntryID),
		history:    make(map[string]*JobHistory),
		maxRetries: 2,
		retryDelay: 30 * time.Second,
		jobTimeout: 5 * time.Minute,
		baseCtx:    ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()

	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job, TriggerSchedule)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.entries[jobName] = id
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob removes a job from the scheduler
func (s *Scheduler) RemoveJob(jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.entries[jobName]
	if !exists {
		return fmt.Errorf("job %s not found", jobName)
	}

	s.cron.Remove(id)
	delete(s.jobs, jobName)
	delete(s.entries, jobName)
	s.logger.WithField("job", jobName).Info("Job removed from scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs, scheduled or manual
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a specific job immediately (outside of schedule)
func (s *Scheduler) RunJob(jobName string) error {
	s.mu.RLock()
	job, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", jobName)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(job, TriggerManual)
	}()
	return nil
}

// runJob executes a job with retry logic and records the outcome
func (s *Scheduler) runJob(job Job, trigger Trigger) {
	jobName := job.Name()
	startTime := time.Now()

	s.logger.WithFields(map[string]interface{}{
		"job":     jobName,
		"trigger": trigger,
	}).Info("Job started")

	var lastErr error
	var success bool
	attempts := 0

retry:
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		attempts++
		err := s.attempt(job)
		if err == nil {
			success = true
			break
		}

		lastErr = err
		s.logger.WithFields(map[string]interface{}{
			"job":     jobName,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Job execution failed, retrying")

		if attempt < s.maxRetries {
			select {
			case <-time.After(s.retryDelay):
			case <-s.baseCtx.Done():
				break retry
			}
		}
	}

	endTime := time.Now()
	duration := endTime.Sub(startTime)

	result := JobResult{
		JobName:   jobName,
		Trigger:   trigger,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
		Attempts:  attempts,
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if history, exists := s.history[jobName]; exists {
		history.Record(result)
	}
	s.mu.Unlock()

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      jobName,
			"attempts": attempts,
			"duration": duration.String(),
		}).Info("Job completed successfully")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      jobName,
			"duration": duration.String(),
			"error":    result.Error,
		}).Error("Job failed after all retries")
	}
}

func (s *Scheduler) attempt(job Job) error {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.jobTimeout)
	defer cancel()
	return job.Run(ctx)
}

// GetJobHistory returns a copy of the history for a specific job
func (s *Scheduler) GetJobHistory(jobName string) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, exists := s.history[jobName]
	if !exists {
		return nil, fmt.Errorf("job %s not found", jobName)
	}

	return append([]JobResult(nil), history.Results...), nil
}

// GetAllJobs returns all registered job names, sorted
func (s *Scheduler) GetAllJobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]string, 0, len(s.jobs))
	for jobName := range s.jobs {
		jobs = append(jobs, jobName)
	}
	sort.Strings(jobs)

	return jobs
}

// GetJobStats returns statistics for all registered jobs
func (s *Scheduler) GetJobStats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.jobs))

	for jobName, job := range s.jobs {
		history := s.history[jobName]

		st := JobStats{
			JobName:      jobName,
			Schedule:     job.Schedule(),
			TotalRuns:    history.totalRuns,
			SuccessCount: history.totalRuns - history.failures,
			FailureCount: history.failures,
			SuccessRate:  history.SuccessRate(),
		}

		// Walk back so a failing streak still reports the last good run
		for i := len(history.Results) - 1; i >= 0; i-- {
			r := history.Results[i]
			start := r.StartTime
			if st.LastRun == nil {
				st.LastRun = &start
			}
			if r.Success && st.LastSuccess == nil {
				st.LastSuccess = &start
			}
			if !r.Success && st.LastFailure == nil {
				st.LastFailure = &start
			}
			if st.LastSuccess != nil && st.LastFailure != nil {
				break
			}
		}

		stats[jobName] = st
	}

	return stats
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}
