package metrics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a position.
// The integer values match the strategy table encoding.
type Status int

const (
	StatusOpen   Status = 1
	StatusClosed Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either the name or the integer code.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "Open":
			*s = StatusOpen
		case "Closed":
			*s = StatusClosed
		default:
			return fmt.Errorf("unknown status %q", name)
		}
		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	*s = StatusFromCode(code)
	return nil
}

// StatusFromCode maps a stored status code. Anything other than 1 is closed.
func StatusFromCode(code int) Status {
	if code == int(StatusOpen) {
		return StatusOpen
	}
	return StatusClosed
}

// TradeRecord is a single position as consumed by the engine.
// It is owned by the caller and never mutated here.
type TradeRecord struct {
	LocalID        uuid.UUID       `json:"local_id"`
	Symbol         string          `json:"symbol"`
	EntryTime      time.Time       `json:"entry_time"`
	ExitTime       time.Time       `json:"exit_time"`
	Status         Status          `json:"status"`
	GrossPnL       decimal.Decimal `json:"gross_pnl"`
	Fee            decimal.Decimal `json:"fee"`
	Watermark      decimal.Decimal `json:"watermark"`
	RiskFreeAnnual float64         `json:"risk_free_annual"`
}

// Net returns the realized result after fees.
func (t TradeRecord) Net() decimal.Decimal {
	return t.GrossPnL.Sub(t.Fee)
}

// ExitDate returns the calendar day the trade is bucketed under.
func (t TradeRecord) ExitDate() Date {
	return DateOf(t.ExitTime)
}

// WatermarkPoint is the projection the heatmap works on: closed trades with a
// positive realized PnL and a stored watermark.
type WatermarkPoint struct {
	ExitTime  time.Time       `json:"exit_time"`
	PnL       decimal.Decimal `json:"pnl"`
	Watermark decimal.Decimal `json:"watermark"`
}

// LatestRiskFreeRate returns the rate of the most recent trade by exit time,
// or zero when there are no trades. Ties go to the later element.
func LatestRiskFreeRate(trades []TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}

	latest := trades[0]
	for _, t := range trades[1:] {
		if !t.ExitTime.Before(latest.ExitTime) {
			latest = t
		}
	}
	return latest.RiskFreeAnnual
}
