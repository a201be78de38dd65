package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wonny/tradedash/internal/metrics"
)

// Strategy is one row of the strategy table: a position from entry to exit.
type Strategy struct {
	LocalID   uuid.UUID            `json:"local_id"`
	Symbol    string               `json:"symbol"`   // aliased: "/ESZ4" lists as "/ES"
	Contract  string               `json:"contract"` // symbol as stored
	EntryTime time.Time            `json:"entry_time"`
	ExitTime  time.Time            `json:"exit_time"`
	Status    metrics.Status       `json:"status"`
	Meta      Metadata             `json:"meta"`
	Risk      RiskData             `json:"risk"`
	Account   AccountDailySnapshot `json:"account"`
}

// Metadata describes the instrument and structure of a position.
type Metadata struct {
	LocalID     uuid.UUID       `json:"local_id"`
	Underlying  string          `json:"underlying"`
	PriceEffect string          `json:"price_effect"`
	AssetType   string          `json:"asset_type"`
	Type        string          `json:"type"`
	Status      metrics.Status  `json:"status"`
	OpenPrice   decimal.Decimal `json:"open_price"`
	Side        string          `json:"side"`
}

// RiskData is the risk JSON column.
type RiskData struct {
	Side  string `json:"side,omitempty"`
	Gain  Gain   `json:"gain"`
	Loss  Loss   `json:"loss"`
	Stats Stats  `json:"stats"`
}

type Gain struct {
	Target  decimal.NullDecimal `json:"target"`
	Current decimal.NullDecimal `json:"current"`
}

// Loss.Watermark is the deepest adverse excursion seen while the trade was open.
type Loss struct {
	Target    decimal.NullDecimal `json:"target"`
	Watermark decimal.NullDecimal `json:"watermark"`
}

type Stats struct {
	PnL decimal.Decimal `json:"pnl"`
	ROI decimal.Decimal `json:"roi"`
	Fee decimal.Decimal `json:"fee"`
}

// AccountDailySnapshot is the account context recorded with the trade.
type AccountDailySnapshot struct {
	AccountID           string           `json:"account_id"`
	Date                string           `json:"date,omitempty"`
	Currency            string           `json:"currency"`
	NetLiquidatingValue decimal.Decimal  `json:"net_liquidating_value"`
	CashBalance         decimal.Decimal  `json:"cash_balance"`
	CashFlows           AccountCashFlows `json:"cash_flows"`
	RiskFreeAnnual      float64          `json:"risk_free_annual"`
}

type AccountCashFlows struct {
	Deposits  decimal.Decimal `json:"deposits"`
	Fees      decimal.Decimal `json:"fees"`
	Interest  decimal.Decimal `json:"interest"`
	Dividends decimal.Decimal `json:"dividends"`
}

// Alias collapses futures contracts to their root: "/ESZ4" -> "/ES".
func Alias(symbol string) string {
	if strings.HasPrefix(symbol, "/") && len(symbol) > 3 {
		return symbol[:3]
	}
	return symbol
}

// TradeRecord converts the row into the engine's input.
func (s Strategy) TradeRecord() metrics.TradeRecord {
	return metrics.TradeRecord{
		LocalID:        s.LocalID,
		Symbol:         s.Contract,
		EntryTime:      s.EntryTime,
		ExitTime:       s.ExitTime,
		Status:         s.Status,
		GrossPnL:       s.Risk.Stats.PnL,
		Fee:            s.Risk.Stats.Fee,
		Watermark:      s.Risk.Loss.Watermark.Decimal,
		RiskFreeAnnual: s.Account.RiskFreeAnnual,
	}
}

// TradeRecords converts rows in order.
func TradeRecords(rows []Strategy) []metrics.TradeRecord {
	out := make([]metrics.TradeRecord, len(rows))
	for i, s := range rows {
		out[i] = s.TradeRecord()
	}
	return out
}

// Symbol is an entry of the symbol picker.
type Symbol struct {
	Name string `json:"name"`
}

// Performance is the per-trade projection charted by the dashboard.
type Performance struct {
	LocalID    uuid.UUID       `json:"local_id"`
	Strategy   string          `json:"strategy"`
	Type       string          `json:"type"`
	StartDate  metrics.Date    `json:"start_date"`
	EndDate    metrics.Date    `json:"end_date"`
	StartPrice decimal.Decimal `json:"start_price"`
	PnL        decimal.Decimal `json:"pnl"`
	ROI        decimal.Decimal `json:"roi"`
	Fee        decimal.Decimal `json:"fee"`
}

// Performance projects the row for charting.
func (s Strategy) Performance() Performance {
	return Performance{
		LocalID:    s.LocalID,
		Strategy:   Alias(s.Symbol),
		Type:       s.Meta.Type,
		StartDate:  metrics.DateOf(s.EntryTime),
		EndDate:    metrics.DateOf(s.ExitTime),
		StartPrice: s.Meta.OpenPrice,
		PnL:        s.Risk.Stats.PnL,
		ROI:        s.Risk.Stats.ROI,
		Fee:        s.Risk.Stats.Fee,
	}
}

// Window is an inclusive calendar-day range used by the listing queries.
type Window struct {
	From metrics.Date
	To   metrics.Date
}

// NewWindow validates from <= to.
func NewWindow(from, to metrics.Date) (Window, error) {
	if from.After(to) {
		return Window{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidInput, from, to)
	}
	return Window{From: from, To: to}, nil
}

// bounds returns [start, end) timestamps covering every instant of the window.
func (w Window) bounds() (time.Time, time.Time) {
	return w.From.Time, w.To.AddDays(1).Time
}
