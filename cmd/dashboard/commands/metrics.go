package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradedash/internal/metrics"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute statistics for a date window",
	Long: `Computes the dashboard statistics for closed strategies whose exit
date lies in [from, to] and prints them.

The cache is bypassed and refreshed with the result.

Example:
  go run ./cmd/dashboard metrics --from 2024-01-01 --to 2024-03-31
  go run ./cmd/dashboard metrics --from 2024-01-01 --to 2024-03-31 --output json`,
	RunE: runMetrics,
}

// watermarksCmd represents the watermarks command
var watermarksCmd = &cobra.Command{
	Use:   "watermarks",
	Short: "Build the watermark heatmap",
	Long: `Counts profitable closed strategies per (week, watermark band) over the
lookback ending at --to.

Example:
  go run ./cmd/dashboard watermarks --to 2024-12-31
  go run ./cmd/dashboard watermarks --to 2024-12-31 --output json`,
	RunE: runWatermarks,
}

var (
	fromDate string
	toDate   string
	output   string
)

func init() {
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(watermarksCmd)

	metricsCmd.Flags().StringVar(&fromDate, "from", "", "window start (YYYY-MM-DD)")
	metricsCmd.Flags().StringVar(&toDate, "to", "", "window end, inclusive (YYYY-MM-DD)")
	metricsCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json)")
	_ = metricsCmd.MarkFlagRequired("from")
	_ = metricsCmd.MarkFlagRequired("to")

	watermarksCmd.Flags().StringVar(&toDate, "to", "", "lookback end (YYYY-MM-DD, default today)")
	watermarksCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|json)")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
	from, err := metrics.ParseDate(fromDate)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := metrics.ParseDate(toDate)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.service.Refresh(ctx, from, to)
	if err != nil {
		return fmt.Errorf("compute metrics: %w", err)
	}

	if output == "json" {
		return printJSON(os.Stdout, map[string]interface{}{"metrics": resp})
	}
	printMetrics(os.Stdout, resp)
	return nil
}

func runWatermarks(cmd *cobra.Command, args []string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
	to := metrics.DateOf(time.Now())
	if toDate != "" {
		d, err := metrics.ParseDate(toDate)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		to = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	heatmap, err := a.service.Watermarks(ctx, to)
	if err != nil {
		return fmt.Errorf("build heatmap: %w", err)
	}

	if output == "json" {
		return printJSON(os.Stdout, heatmap)
	}
	printHeatmap(os.Stdout, to, heatmap)
	return nil
}
