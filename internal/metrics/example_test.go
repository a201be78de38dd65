package metrics_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/tradedash/internal/metrics"
)

// Example_computeMetrics shows the engine on a two-trade window.
func Example_computeMetrics() {
	engine, err := metrics.NewEngine(metrics.DefaultConfig())
	if err != nil {
		panic(err)
	}

	trades := []metrics.TradeRecord{
		{
			Symbol:   "/ES",
			ExitTime: time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC),
			Status:   metrics.StatusClosed,
			GrossPnL: decimal.NewFromInt(55),
			Fee:      decimal.NewFromInt(5),
		},
		{
			Symbol:   "SPY",
			ExitTime: time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC),
			Status:   metrics.StatusClosed,
			GrossPnL: decimal.NewFromInt(-28),
			Fee:      decimal.NewFromInt(2),
		},
	}

	resp, err := engine.ComputeMetrics(trades, metrics.NewDate(2024, 1, 1), metrics.NewDate(2024, 1, 5))
	if err != nil {
		panic(err)
	}

	fmt.Println("max drawdown:", resp.Drawdown.MaxDDAbs)
	fmt.Println("peak:", resp.Drawdown.PeakDate, "trough:", resp.Drawdown.TroughDate)
	fmt.Println("recovered:", resp.Drawdown.RecoveryDays != nil)
	fmt.Println("expectancy:", resp.Expectancy.Expectancy)
	fmt.Printf("profit factor: %.4f\n", *resp.ProfitFactor.ProfitFactor)

	// Output:
	// max drawdown: 30
	// peak: 2024-01-02 trough: 2024-01-03
	// recovered: false
	// expectancy: 10
	// profit factor: 1.6667
}
