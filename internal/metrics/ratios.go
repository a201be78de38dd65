package metrics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ExpectancyResult summarizes the per-trade distribution of net results.
type ExpectancyResult struct {
	Expectancy decimal.Decimal `json:"expectancy_usd"`
	Median     decimal.Decimal `json:"median_usd"`
	WinRate    *float64        `json:"win_rate,omitempty"`
	AvgWin     decimal.Decimal `json:"avg_win"`
	AvgLoss    decimal.Decimal `json:"avg_loss"`
	TradeCount int             `json:"trade_count"`
}

// ProfitFactorResult is gross wins over gross losses.
type ProfitFactorResult struct {
	ProfitFactor *float64        `json:"profit_factor,omitempty"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	GrossLoss    decimal.Decimal `json:"gross_loss"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	TradeCount   int             `json:"trade_count"`
}

// RecoveryFactorResult is net profit over the worst drawdown.
type RecoveryFactorResult struct {
	RecoveryFactor *float64        `json:"recovery_factor,omitempty"`
	NetProfit      decimal.Decimal `json:"net_profit"`
	ReferenceMaxDD decimal.Decimal `json:"reference_max_dd"`
}

// ComputeExpectancy derives mean, median, win rate and average win/loss.
// AvgLoss is reported as a negative amount.
func ComputeExpectancy(s NetsSummary) ExpectancyResult {
	count := s.TradeCount()
	result := ExpectancyResult{
		Expectancy: decimal.Zero,
		Median:     decimal.Zero,
		AvgWin:     decimal.Zero,
		AvgLoss:    decimal.Zero,
		TradeCount: count,
	}
	if count == 0 {
		return result
	}

	result.Expectancy = decimal.Sum(decimal.Zero, s.Nets...).Div(decimal.NewFromInt(int64(count)))
	result.Median = median(s.Nets)

	winRate := float64(s.WinsCount) / float64(count)
	result.WinRate = &winRate

	if s.WinsCount > 0 {
		result.AvgWin = s.WinsSum.Div(decimal.NewFromInt(int64(s.WinsCount)))
	}
	if s.LossesCount > 0 {
		result.AvgLoss = s.LossesSumAbs.Neg().Div(decimal.NewFromInt(int64(s.LossesCount)))
	}

	return result
}

// median sorts a copy; even counts average the two central values.
func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// ComputeProfitFactor reports the ratio only when there is a gross loss.
// Wins with no losses leave it nil rather than infinite.
func ComputeProfitFactor(s NetsSummary) ProfitFactorResult {
	result := ProfitFactorResult{
		GrossProfit: s.WinsSum,
		GrossLoss:   s.LossesSumAbs,
		Wins:        s.WinsCount,
		Losses:      s.LossesCount,
		TradeCount:  s.TradeCount(),
	}
	if s.LossesSumAbs.IsPositive() {
		pf := s.WinsSum.Div(s.LossesSumAbs).InexactFloat64()
		result.ProfitFactor = &pf
	}
	return result
}

// ComputeRecoveryFactor divides the curve's final equity by maxDD.
// Nil when there was no drawdown, whatever the profit.
func ComputeRecoveryFactor(curve EquityCurve, maxDD decimal.Decimal) RecoveryFactorResult {
	result := RecoveryFactorResult{
		NetProfit:      curve.Last(),
		ReferenceMaxDD: maxDD,
	}
	if maxDD.IsPositive() {
		rf := result.NetProfit.Div(maxDD).InexactFloat64()
		result.RecoveryFactor = &rf
	}
	return result
}
