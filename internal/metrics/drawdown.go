package metrics

import "github.com/shopspring/decimal"

// DrawdownResult describes the worst peak-to-trough decline of an equity curve.
type DrawdownResult struct {
	MaxDDAbs     decimal.Decimal `json:"max_dd_abs"`
	MaxDDPctBase float64         `json:"max_dd_pct_base"`
	PeakDate     *Date           `json:"peak_date,omitempty"`
	TroughDate   *Date           `json:"trough_date,omitempty"`
	RecoveryDays *int            `json:"recovery_days,omitempty"`
}

// ComputeDrawdown scans the curve once, tracking the running peak.
//
// The peak starts at zero rather than the first equity value, so a window
// that opens negative is an immediate drawdown from zero. Both the peak and
// the max drawdown only move on a strict improvement: equal peaks keep the
// earlier date and the first point reaching a given drawdown is the trough.
func ComputeDrawdown(curve EquityCurve, baseCapital float64) DrawdownResult {
	peak := decimal.Zero
	peakIdx := -1
	maxDD := decimal.Zero
	ddPeakIdx, troughIdx := -1, -1

	for i, p := range curve {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
			peakIdx = i
		}
		dd := peak.Sub(p.Equity)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
			ddPeakIdx = peakIdx
			troughIdx = i
		}
	}

	result := DrawdownResult{MaxDDAbs: maxDD}
	if baseCapital > 0 {
		result.MaxDDPctBase = maxDD.InexactFloat64() / baseCapital
	}
	if ddPeakIdx >= 0 {
		d := curve[ddPeakIdx].Date
		result.PeakDate = &d
	}
	if troughIdx >= 0 {
		d := curve[troughIdx].Date
		result.TroughDate = &d
	}

	// Recovery needs both ends; a drawdown from the zero baseline has no peak date.
	if ddPeakIdx >= 0 && troughIdx >= 0 {
		result.RecoveryDays = recoveryDays(curve, curve[ddPeakIdx].Equity, troughIdx)
	}

	return result
}

// recoveryDays counts curve steps from the trough to the first point back at
// or above the prior peak. Nil when the window ends first.
func recoveryDays(curve EquityCurve, priorPeak decimal.Decimal, troughIdx int) *int {
	for i := troughIdx; i < len(curve); i++ {
		if curve[i].Equity.GreaterThanOrEqual(priorPeak) {
			days := i - troughIdx
			return &days
		}
	}
	return nil
}
