package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradedash/internal/api"
	"github.com/wonny/tradedash/internal/api/handlers"
	"github.com/wonny/tradedash/internal/scheduler"
	"github.com/wonny/tradedash/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Starts the HTTP API and serves the dashboard frontend.

Endpoints:
  GET  /health
  GET  /metrics?from=YYYY-MM-DD&to=YYYY-MM-DD
  GET  /watermarks?to=YYYY-MM-DD
  GET  /symbols
  GET  /strategy/{symbol}?from=&to=
  GET  /universe?from=&to=
  GET  /performance?from=&to=&is_active=

When WARMUP_ENABLED is set, a background job keeps the default
windows hot in the Redis cache.

Example:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard serve --port 9000`,
	RunE: runServe,
}

var (
	servePort string
	noWarmup  bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
	serveCmd.Flags().BoolVar(&noWarmup, "no-warmup", false, "disable the cache warm-up job")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	// Handlers
	health := handlers.NewHealthHandler(a.cfg.Tracing.ServiceName, map[string]handlers.HealthCheck{
		"database": a.db.Ping,
		"redis":    a.redis.Ping,
	})
	router := api.NewRouter(a.cfg, api.Handlers{
		Health:   health,
		Metrics:  handlers.NewMetricsHandler(a.service, a.log),
		Strategy: handlers.NewStrategyHandler(a.repo, a.log),
	}, a.log)

	server := api.New(a.cfg, a.log, router)

	// Cache warm-up
	var sched *scheduler.Scheduler
	if a.cfg.WarmupEnabled && !noWarmup && a.redis.Enabled() {
		sched = scheduler.New(a.log)
		job := jobs.NewMetricsWarmupJob(a.service, a.engine.Warmup, a.cfg.WarmupSchedule, a.log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register warm-up job: %w", err)
		}
		sched.Start()
		if err := sched.RunJob(job.Name()); err != nil {
			a.log.WithError(err).Warn("Initial warm-up failed to start")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Dashboard running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	a.log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
		for name, st := range sched.GetJobStats() {
			a.log.WithFields(map[string]interface{}{
				"job":          name,
				"total_runs":   st.TotalRuns,
				"success_rate": st.SuccessRate,
			}).Info("Job summary")
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
