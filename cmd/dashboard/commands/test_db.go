package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL connection test",
	Long: `Tests the database connection and prints pool statistics.

This command:
- loads DATABASE_URL from the environment
- opens the connection pool
- runs a health check
- counts stored strategies

Example:
  go run ./cmd/dashboard test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Dashboard Database Connection Test ===")

	fmt.Println("Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Connecting to database...")
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	fmt.Println("Getting health status...")
	status := db.HealthCheck(ctx)
	if !status.Healthy {
		return fmt.Errorf("❌ Health check failed: %s", status.Error)
	}

	fmt.Println("✅ Health Check Results:")
	fmt.Printf("   Response Time: %dms\n", status.ResponseTimeMs)
	fmt.Printf("   Timestamp: %v\n\n", status.Timestamp.Format(time.RFC3339))

	fmt.Println("📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Printf("   Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Printf("   Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Printf("   Idle Connections: %d\n", status.Stats.IdleConns)

	var total, closed int64
	err = db.Pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE status = $1)
		FROM strategy
	`, int32(metrics.StatusClosed)).Scan(&total, &closed)
	if err != nil {
		return fmt.Errorf("❌ Failed to query strategy table: %w", err)
	}
	fmt.Printf("\n📈 Strategies: %d stored, %d closed\n", total, closed)

	fmt.Println("\n✅ All tests passed!")
	return nil
}

// maskPassword hides the password component of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
