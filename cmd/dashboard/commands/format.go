package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/tradedash/internal/metrics"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────────────"
)

func checkOutput(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text|json)", format)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHeader(w io.Writer, title, subtitle string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintf(w, "  %s\n", title)
	if subtitle != "" {
		fmt.Fprintf(w, "  %s\n", subtitle)
	}
	fmt.Fprintln(w, ruleLight)
}

// optFloat renders an undefined ratio as "n/a"
func optFloat(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}

func optPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func optDate(d *metrics.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func optInt(v *int) string {
	if v == nil {
		return "not recovered"
	}
	return fmt.Sprintf("%d days", *v)
}

// printMetrics writes the human-readable metrics report
func printMetrics(w io.Writer, m *metrics.MetricsResponse) {
	printHeader(w, "Performance Metrics", fmt.Sprintf("Window : %s ~ %s", m.From, m.To))

	dd := m.Drawdown
	fmt.Fprintln(w, "  Drawdown")
	fmt.Fprintf(w, "    Max DD        : $%s (%.2f%% of base)\n", dd.MaxDDAbs.StringFixed(2), dd.MaxDDPctBase)
	fmt.Fprintf(w, "    Peak / Trough : %s / %s\n", optDate(dd.PeakDate), optDate(dd.TroughDate))
	fmt.Fprintf(w, "    Recovery      : %s\n", optInt(dd.RecoveryDays))

	sh := m.Sharpe
	fmt.Fprintln(w, "  Sharpe")
	fmt.Fprintf(w, "    Ratio         : %s\n", optFloat(sh.Sharpe, "%.3f"))
	fmt.Fprintf(w, "    Risk-free     : %.2f%% (%d days)\n", sh.RFAnnual*100, sh.SampleDays)

	ex := m.Expectancy
	fmt.Fprintln(w, "  Expectancy")
	fmt.Fprintf(w, "    Per trade     : $%s (median $%s)\n", ex.Expectancy.StringFixed(2), ex.Median.StringFixed(2))
	fmt.Fprintf(w, "    Win rate      : %s over %d trades\n", optPercent(ex.WinRate), ex.TradeCount)
	fmt.Fprintf(w, "    Avg win/loss  : $%s / $%s\n", ex.AvgWin.StringFixed(2), ex.AvgLoss.StringFixed(2))

	pf := m.ProfitFactor
	fmt.Fprintln(w, "  Profit Factor")
	fmt.Fprintf(w, "    Ratio         : %s (%d wins, %d losses)\n", optFloat(pf.ProfitFactor, "%.3f"), pf.Wins, pf.Losses)
	fmt.Fprintf(w, "    Gross         : +$%s / -$%s\n", pf.GrossProfit.StringFixed(2), pf.GrossLoss.StringFixed(2))

	rf := m.Recovery
	fmt.Fprintln(w, "  Recovery Factor")
	fmt.Fprintf(w, "    Ratio         : %s (net $%s, max DD $%s)\n",
		optFloat(rf.RecoveryFactor, "%.3f"), rf.NetProfit.StringFixed(2), rf.ReferenceMaxDD.StringFixed(2))

	fmt.Fprintln(w, ruleHeavy)
}

// printHeatmap lists the non-empty heatmap cells
func printHeatmap(w io.Writer, to metrics.Date, h *metrics.WatermarkHeatmap) {
	printHeader(w, "Watermark Heatmap", fmt.Sprintf("Ending : %s  Bands : %.0f%% ~ %.0f%%", to, h.MinWatermark, h.MaxWatermark))

	cells := h.Cells()
	if len(cells) == 0 {
		fmt.Fprintln(w, "  (no qualifying trades)")
	}
	for _, c := range cells {
		fmt.Fprintf(w, "  %-14s  %4s%%  %d\n", c.X, c.Y, c.Value)
	}

	fmt.Fprintln(w, ruleHeavy)
}
