package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DailyPoint is one day of net PnL.
type DailyPoint struct {
	Date Date            `json:"date"`
	Net  decimal.Decimal `json:"net"`
}

// DailySeries covers every date of a window in chronological order.
// Drawdown and recovery depend on this ordering.
type DailySeries []DailyPoint

// Total sums the series.
func (s DailySeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Net)
	}
	return total
}

// EquityPoint is the cumulative net PnL at the end of a day.
type EquityPoint struct {
	Date   Date            `json:"date"`
	Equity decimal.Decimal `json:"equity"`
}

// EquityCurve is the running prefix sum of a DailySeries.
type EquityCurve []EquityPoint

// Last returns the final cumulative value, zero for an empty curve.
func (c EquityCurve) Last() decimal.Decimal {
	if len(c) == 0 {
		return decimal.Zero
	}
	return c[len(c)-1].Equity
}

// BuildDailySeries zero-fills [from, to] and folds each trade's net into the
// bucket of its exit date. Several exits on one day sum together.
func BuildDailySeries(from, to Date, trades []TradeRecord) (DailySeries, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, from, to)
	}

	days := to.DaysSince(from) + 1
	series := make(DailySeries, days)
	for i := range series {
		series[i] = DailyPoint{Date: from.AddDays(i), Net: decimal.Zero}
	}

	for _, t := range trades {
		exit := t.ExitDate()
		if exit.Before(from) || exit.After(to) {
			return nil, fmt.Errorf("%w: trade %s exited %s, window %s..%s",
				ErrTradeOutsideWindow, t.LocalID, exit, from, to)
		}
		idx := exit.DaysSince(from)
		series[idx].Net = series[idx].Net.Add(t.Net())
	}

	return series, nil
}

// BuildEquityCurve walks the series keeping a running total.
func BuildEquityCurve(series DailySeries) EquityCurve {
	curve := make(EquityCurve, 0, len(series))
	cum := decimal.Zero
	for _, p := range series {
		cum = cum.Add(p.Net)
		curve = append(curve, EquityPoint{Date: p.Date, Equity: cum})
	}
	return curve
}
