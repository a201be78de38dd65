package metrics

import "fmt"

// Config holds the assumptions the engine computes under.
// ⭐ SSOT: engine constants live here, never as package-level statics
type Config struct {
	// BaseCapital normalizes drawdown and daily returns to a conventional
	// account size rather than the window's own peak.
	BaseCapital float64 `yaml:"base_capital" json:"base_capital"`

	// TradingDaysPerYear annualizes the Sharpe ratio.
	TradingDaysPerYear int `yaml:"trading_days_per_year" json:"trading_days_per_year"`

	// Watermark band scan range [MinWatermark, MaxWatermark) in percentage points.
	MinWatermark  float64 `yaml:"min_watermark" json:"min_watermark"`
	MaxWatermark  float64 `yaml:"max_watermark" json:"max_watermark"`
	WatermarkStep float64 `yaml:"watermark_step" json:"watermark_step"`

	// WeekBuckets is the number of weekly columns in the heatmap.
	WeekBuckets int `yaml:"week_buckets" json:"week_buckets"`

	// LookbackDays is the heatmap window ending at the request's to date.
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
}

// DefaultConfig returns the dashboard's production assumptions.
func DefaultConfig() Config {
	return Config{
		BaseCapital:        5000,
		TradingDaysPerYear: 252,
		MinWatermark:       20,
		MaxWatermark:       40,
		WatermarkStep:      1,
		WeekBuckets:        52,
		LookbackDays:       365,
	}
}

// Validate checks the config can drive the engine.
func (c Config) Validate() error {
	switch {
	case c.BaseCapital <= 0:
		return fmt.Errorf("%w: base_capital must be > 0", ErrInvalidConfig)
	case c.TradingDaysPerYear <= 0:
		return fmt.Errorf("%w: trading_days_per_year must be > 0", ErrInvalidConfig)
	case c.WatermarkStep <= 0:
		return fmt.Errorf("%w: watermark_step must be > 0", ErrInvalidConfig)
	case c.MinWatermark >= c.MaxWatermark:
		return fmt.Errorf("%w: min_watermark must be < max_watermark", ErrInvalidConfig)
	case c.WeekBuckets <= 0:
		return fmt.Errorf("%w: week_buckets must be > 0", ErrInvalidConfig)
	case c.LookbackDays <= 0:
		return fmt.Errorf("%w: lookback_days must be > 0", ErrInvalidConfig)
	}
	return nil
}
