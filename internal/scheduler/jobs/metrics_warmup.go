package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/tradedash/internal/engineconfig"
	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/pkg/logger"
)

// MetricsRefresher recomputes and caches the statistics of a window
type MetricsRefresher interface {
	Refresh(ctx context.Context, from, to metrics.Date) (*metrics.MetricsResponse, error)
}

// Window is one precomputed date range
type Window struct {
	Label string
	From  metrics.Date
	To    metrics.Date
}

// MetricsWarmupJob keeps the dashboard's default windows hot in the cache
type MetricsWarmupJob struct {
	refresher MetricsRefresher
	warmup    engineconfig.Warmup
	schedule  string
	now       func() time.Time
	logger    *logger.Logger
}

// NewMetricsWarmupJob creates a new warm-up job
func NewMetricsWarmupJob(refresher MetricsRefresher, warmup engineconfig.Warmup, schedule string, log *logger.Logger) *MetricsWarmupJob {
	return &MetricsWarmupJob{
		refresher: refresher,
		warmup:    warmup,
		schedule:  schedule,
		now:       time.Now,
		logger:    log,
	}
}

// Name returns the job name
func (j *MetricsWarmupJob) Name() string {
	return "metrics_warmup"
}

// Schedule returns the cron schedule
func (j *MetricsWarmupJob) Schedule() string {
	return j.schedule
}

// Windows lists the ranges to precompute, all ending today (UTC)
func (j *MetricsWarmupJob) Windows() []Window {
	today := metrics.DateOf(j.now())

	windows := make([]Window, 0, len(j.warmup.TrailingDays)+1)
	for _, days := range j.warmup.TrailingDays {
		windows = append(windows, Window{
			Label: fmt.Sprintf("trailing_%dd", days),
			From:  today.AddDays(-(days - 1)),
			To:    today,
		})
	}
	if j.warmup.YearToDate {
		windows = append(windows, Window{
			Label: "ytd",
			From:  metrics.NewDate(today.Year(), time.January, 1),
			To:    today,
		})
	}
	return windows
}

// Run refreshes every window. A failing window does not stop the rest.
func (j *MetricsWarmupJob) Run(ctx context.Context) error {
	var errs []error
	warmed := 0

	for _, w := range j.Windows() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := j.refresher.Refresh(ctx, w.From, w.To); err != nil {
			j.logger.WithError(err).WithField("window", w.Label).Warn("Metrics warm-up failed")
			errs = append(errs, fmt.Errorf("%s: %w", w.Label, err))
			continue
		}
		warmed++
	}

	j.logger.WithFields(map[string]interface{}{
		"warmed": warmed,
		"failed": len(errs),
	}).Info("Metrics warm-up completed")

	return errors.Join(errs...)
}
