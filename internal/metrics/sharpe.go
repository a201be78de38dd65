package metrics

import "math"

// SharpeResult is the annualized Sharpe ratio of daily returns.
type SharpeResult struct {
	Sharpe     *float64 `json:"sharpe,omitempty"`
	MeanDaily  *float64 `json:"mean_daily,omitempty"`
	VolDaily   *float64 `json:"vol_daily,omitempty"`
	RFAnnual   float64  `json:"rf_annual"`
	SampleDays int      `json:"sample_days"`
}

// ComputeSharpe converts daily nets into returns on baseCapital and computes
// mean excess return over its sample standard deviation, annualized by
// sqrt(tradingDays).
//
// Fewer than two samples or zero volatility leaves every optional field nil.
func ComputeSharpe(series DailySeries, rfAnnual, baseCapital float64, tradingDays int) SharpeResult {
	result := SharpeResult{RFAnnual: rfAnnual, SampleDays: len(series)}
	if len(series) < 2 || baseCapital <= 0 || tradingDays <= 0 {
		return result
	}

	returns := make([]float64, len(series))
	var sum float64
	for i, p := range series {
		returns[i] = p.Net.InexactFloat64() / baseCapital
		sum += returns[i]
	}
	n := float64(len(returns))
	meanReturn := sum / n

	// rf is constant per day, so excess returns share the variance of the raw
	// returns. Measuring the raw series keeps an idle window at exactly zero.
	var variance float64
	for _, r := range returns {
		diff := r - meanReturn
		variance += diff * diff
	}
	variance /= n - 1
	std := math.Sqrt(variance)

	if std == 0 {
		return result
	}

	mean := meanReturn - rfAnnual/float64(tradingDays)
	sharpe := mean / std * math.Sqrt(float64(tradingDays))

	result.MeanDaily = &mean
	result.VolDaily = &std
	result.Sharpe = &sharpe
	return result
}
