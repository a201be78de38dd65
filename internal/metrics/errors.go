package metrics

import "errors"

// Contract violations. Statistically undefined metrics are never errors,
// they surface as nil optional fields on the result types.
var (
	// ErrInvalidWindow is returned when the requested window has from > to.
	ErrInvalidWindow = errors.New("invalid window: from is after to")

	// ErrTradeNotClosed is returned when a non-closed trade reaches the engine.
	ErrTradeNotClosed = errors.New("trade is not closed")

	// ErrTradeOutsideWindow is returned when a trade exits outside the window.
	// The engine does not re-filter trades handed to it.
	ErrTradeOutsideWindow = errors.New("trade exit date outside window")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid engine config")
)
