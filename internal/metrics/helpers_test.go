package metrics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func day(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

// closedTrade builds a closed trade exiting at 15:30 UTC on the given day.
func closedTrade(t *testing.T, exit, gross, fee string) TradeRecord {
	t.Helper()
	d := day(t, exit)
	return TradeRecord{
		LocalID:   uuid.New(),
		Symbol:    "SPY",
		EntryTime: d.Time.Add(-24 * time.Hour),
		ExitTime:  d.Time.Add(15*time.Hour + 30*time.Minute),
		Status:    StatusClosed,
		GrossPnL:  dec(t, gross),
		Fee:       dec(t, fee),
	}
}

func curveOf(t *testing.T, start string, values ...string) EquityCurve {
	t.Helper()
	from := day(t, start)
	curve := make(EquityCurve, len(values))
	for i, v := range values {
		curve[i] = EquityPoint{Date: from.AddDays(i), Equity: dec(t, v)}
	}
	return curve
}

func seriesOf(t *testing.T, start string, values ...string) DailySeries {
	t.Helper()
	from := day(t, start)
	series := make(DailySeries, len(values))
	for i, v := range values {
		series[i] = DailyPoint{Date: from.AddDays(i), Net: dec(t, v)}
	}
	return series
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(t, want).Equal(got), "want %s, got %s", want, got)
}
