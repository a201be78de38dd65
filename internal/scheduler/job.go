package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds first
	// Examples: "0 */15 * * * *" (every 15 minutes), "@hourly"
	Schedule() string
}

// Trigger says what started a run
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// JobResult is the outcome of one run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	Trigger   Trigger       `json:"trigger"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyLimit = 50

// JobHistory keeps the last historyLimit runs of one job plus lifetime counters
type JobHistory struct {
	Results []JobResult

	totalRuns int
	failures  int
}

// Record appends a result, dropping the oldest past historyLimit
func (h *JobHistory) Record(result JobResult) {
	h.totalRuns++
	if !result.Success {
		h.failures++
	}

	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// Latest returns up to n most recent results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// Last returns the most recent result
func (h *JobHistory) Last() (JobResult, bool) {
	if len(h.Results) == 0 {
		return JobResult{}, false
	}
	return h.Results[len(h.Results)-1], true
}

// SuccessRate over every recorded run (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if h.totalRuns == 0 {
		return 0.0
	}
	return float64(h.totalRuns-h.failures) / float64(h.totalRuns)
}
