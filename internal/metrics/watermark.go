package metrics

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// HeatmapKey addresses one heatmap cell.
type HeatmapKey struct {
	Week string
	Band string
}

// HeatmapCell is the wire form of a non-empty cell.
type HeatmapCell struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Value int    `json:"value"`
}

// WatermarkHeatmap counts qualifying trades per (week, watermark band).
type WatermarkHeatmap struct {
	Counts       map[HeatmapKey]int
	MinWatermark float64
	MaxWatermark float64
}

// Cells returns the non-empty cells ordered by week then band.
func (h WatermarkHeatmap) Cells() []HeatmapCell {
	cells := make([]HeatmapCell, 0, len(h.Counts))
	for k, v := range h.Counts {
		cells = append(cells, HeatmapCell{X: k.Week, Y: k.Band, Value: v})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].X != cells[j].X {
			return cells[i].X < cells[j].X
		}
		return bandLess(cells[i].Y, cells[j].Y)
	})
	return cells
}

type heatmapWire struct {
	Watermarks   []HeatmapCell `json:"watermarks"`
	MinWatermark float64       `json:"min_watermark"`
	MaxWatermark float64       `json:"max_watermark"`
}

// MarshalJSON renders the shape the dashboard chart reads.
func (h WatermarkHeatmap) MarshalJSON() ([]byte, error) {
	return json.Marshal(heatmapWire{h.Cells(), h.MinWatermark, h.MaxWatermark})
}

// UnmarshalJSON restores a heatmap from its wire shape.
func (h *WatermarkHeatmap) UnmarshalJSON(data []byte) error {
	var w heatmapWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	h.Counts = make(map[HeatmapKey]int, len(w.Watermarks))
	for _, c := range w.Watermarks {
		h.Counts[HeatmapKey{Week: c.X, Band: c.Y}] += c.Value
	}
	h.MinWatermark = w.MinWatermark
	h.MaxWatermark = w.MaxWatermark
	return nil
}

// watermarkBand is the half-open interval [lo, hi).
type watermarkBand struct {
	lo, hi decimal.Decimal
	label  string
}

func (b watermarkBand) contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(b.lo) && v.LessThan(b.hi)
}

// buildBands slices [min, max) into step-wide bands labeled by lower bound.
func buildBands(cfg Config) []watermarkBand {
	var bands []watermarkBand
	step := decimal.NewFromFloat(cfg.WatermarkStep)
	upper := decimal.NewFromFloat(cfg.MaxWatermark)
	for lo := decimal.NewFromFloat(cfg.MinWatermark); lo.LessThan(upper); lo = lo.Add(step) {
		bands = append(bands, watermarkBand{
			lo:    lo,
			hi:    lo.Add(step),
			label: lo.String(),
		})
	}
	return bands
}

// NormalizeWatermark converts a fraction in (0, 1) into percentage points.
// Values at or above 1, and non-positive values, pass through.
func NormalizeWatermark(w decimal.Decimal) decimal.Decimal {
	if w.IsPositive() && w.LessThan(decimal.NewFromInt(1)) {
		return w.Mul(hundred)
	}
	return w
}

// weekLabel buckets a date into a week counted from yearStart.
func weekLabel(exit, yearStart Date, buckets int) string {
	week := exit.DaysSince(yearStart) / 7
	if week < 0 {
		week = 0
	}
	if week > buckets-1 {
		week = buckets - 1
	}
	start := yearStart.AddDays(week * 7)
	return fmt.Sprintf("W%02d-%s", week+1, start.Format("01/02"))
}

// BuildWatermarkHeatmap counts points per week and watermark band over the
// lookback ending at to. Points whose watermark falls outside every band are
// dropped.
func BuildWatermarkHeatmap(points []WatermarkPoint, to Date, cfg Config) WatermarkHeatmap {
	return buildWatermarkHeatmap(points, to, cfg, buildBands(cfg))
}

func buildWatermarkHeatmap(points []WatermarkPoint, to Date, cfg Config, bands []watermarkBand) WatermarkHeatmap {
	heatmap := WatermarkHeatmap{
		Counts:       make(map[HeatmapKey]int),
		MinWatermark: cfg.MinWatermark,
		MaxWatermark: cfg.MaxWatermark,
	}
	yearStart := to.AddDays(-cfg.LookbackDays)

	for _, p := range points {
		w := NormalizeWatermark(p.Watermark)
		for _, b := range bands {
			if b.contains(w) {
				key := HeatmapKey{Week: weekLabel(DateOf(p.ExitTime), yearStart, cfg.WeekBuckets), Band: b.label}
				heatmap.Counts[key]++
				break
			}
		}
	}

	return heatmap
}

func bandLess(a, b string) bool {
	x, errA := decimal.NewFromString(a)
	y, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return x.LessThan(y)
}
