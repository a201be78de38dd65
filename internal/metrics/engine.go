package metrics

import "fmt"

// MetricsResponse is the full set of statistics for one window.
type MetricsResponse struct {
	From         Date                 `json:"from"`
	To           Date                 `json:"to"`
	Drawdown     DrawdownResult       `json:"drawdown"`
	Sharpe       SharpeResult         `json:"sharpe"`
	Expectancy   ExpectancyResult     `json:"expectancy"`
	Recovery     RecoveryFactorResult `json:"recovery"`
	ProfitFactor ProfitFactorResult   `json:"profit_factor"`
}

// Engine turns closed trades into performance statistics.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg   Config
	bands []watermarkBand
}

// NewEngine validates cfg and precomputes the watermark bands.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, bands: buildBands(cfg)}, nil
}

// Config returns the assumptions the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// ComputeMetrics runs the pipeline over trades exiting within [from, to].
//
// trades must already be filtered to closed positions in the window;
// anything else is a contract violation and returns an error. The risk-free
// rate is the one carried by the most recently exited trade.
func (e *Engine) ComputeMetrics(trades []TradeRecord, from, to Date) (*MetricsResponse, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, from, to)
	}
	for _, t := range trades {
		if t.Status != StatusClosed {
			return nil, fmt.Errorf("%w: %s is %s", ErrTradeNotClosed, t.LocalID, t.Status)
		}
	}

	summary := DeriveNets(trades)
	daily, err := BuildDailySeries(from, to, trades)
	if err != nil {
		return nil, err
	}
	equity := BuildEquityCurve(daily)

	drawdown := ComputeDrawdown(equity, e.cfg.BaseCapital)
	sharpe := ComputeSharpe(daily, LatestRiskFreeRate(trades), e.cfg.BaseCapital, e.cfg.TradingDaysPerYear)

	return &MetricsResponse{
		From:         from,
		To:           to,
		Drawdown:     drawdown,
		Sharpe:       sharpe,
		Expectancy:   ComputeExpectancy(summary),
		Recovery:     ComputeRecoveryFactor(equity, drawdown.MaxDDAbs),
		ProfitFactor: ComputeProfitFactor(summary),
	}, nil
}

// ComputeWatermarkHeatmap buckets the projection over the lookback ending at to.
func (e *Engine) ComputeWatermarkHeatmap(points []WatermarkPoint, to Date) WatermarkHeatmap {
	return buildWatermarkHeatmap(points, to, e.cfg, e.bands)
}
