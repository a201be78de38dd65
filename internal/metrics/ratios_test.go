package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryOf(t *testing.T, nets ...string) NetsSummary {
	t.Helper()
	trades := make([]TradeRecord, len(nets))
	for i, n := range nets {
		trades[i] = closedTrade(t, "2024-01-01", n, "0")
	}
	return DeriveNets(trades)
}

func TestComputeExpectancy_Median(t *testing.T) {
	tests := []struct {
		name   string
		nets   []string
		median string
	}{
		{name: "odd", nets: []string{"20", "-10", "5"}, median: "5"},
		{name: "even", nets: []string{"20", "-10"}, median: "5"},
		{name: "single", nets: []string{"-7"}, median: "-7"},
		{name: "even unsorted", nets: []string{"3", "1", "4", "1"}, median: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ComputeExpectancy(summaryOf(t, tt.nets...))
			assertDecimal(t, tt.median, e.Median)
		})
	}
}

func TestComputeExpectancy(t *testing.T) {
	e := ComputeExpectancy(summaryOf(t, "100", "-50", "0", "30"))

	assertDecimal(t, "20", e.Expectancy)
	assertDecimal(t, "15", e.Median)
	require.NotNil(t, e.WinRate)
	assert.InDelta(t, 0.5, *e.WinRate, 1e-12)
	assertDecimal(t, "65", e.AvgWin)
	assertDecimal(t, "-50", e.AvgLoss)
	assert.Equal(t, 4, e.TradeCount)
}

func TestComputeExpectancy_Empty(t *testing.T) {
	e := ComputeExpectancy(DeriveNets(nil))

	assert.True(t, e.Expectancy.IsZero())
	assert.True(t, e.Median.IsZero())
	assert.Nil(t, e.WinRate)
	assert.True(t, e.AvgWin.IsZero())
	assert.True(t, e.AvgLoss.IsZero())
	assert.Zero(t, e.TradeCount)
}

func TestComputeProfitFactor(t *testing.T) {
	tests := []struct {
		name   string
		nets   []string
		wantPF *float64
	}{
		{name: "wins and losses", nets: []string{"90", "-30", "30"}, wantPF: ptr(4.0)},
		{name: "wins only", nets: []string{"90", "10"}, wantPF: nil},
		{name: "break-even only", nets: []string{"0"}, wantPF: nil},
		{name: "losses only", nets: []string{"-5"}, wantPF: ptr(0.0)},
		{name: "empty", nets: nil, wantPF: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := summaryOf(t, tt.nets...)
			pf := ComputeProfitFactor(s)

			if tt.wantPF == nil {
				assert.Nil(t, pf.ProfitFactor)
			} else {
				require.NotNil(t, pf.ProfitFactor)
				assert.InDelta(t, *tt.wantPF, *pf.ProfitFactor, 1e-12)
			}
			assert.Equal(t, s.WinsCount, pf.Wins)
			assert.Equal(t, s.LossesCount, pf.Losses)
			assert.Equal(t, len(tt.nets), pf.TradeCount)
			assert.False(t, pf.GrossLoss.IsNegative())
			assert.False(t, pf.GrossProfit.IsNegative())
		})
	}
}

func TestComputeRecoveryFactor(t *testing.T) {
	curve := curveOf(t, "2024-01-01", "50", "20", "80")

	rf := ComputeRecoveryFactor(curve, decimal.NewFromInt(30))
	require.NotNil(t, rf.RecoveryFactor)
	assert.InDelta(t, 80.0/30.0, *rf.RecoveryFactor, 1e-12)
	assertDecimal(t, "80", rf.NetProfit)
	assertDecimal(t, "30", rf.ReferenceMaxDD)

	// profitable but never drew down
	rf = ComputeRecoveryFactor(curveOf(t, "2024-01-01", "10", "20"), decimal.Zero)
	assert.Nil(t, rf.RecoveryFactor)
	assertDecimal(t, "20", rf.NetProfit)

	rf = ComputeRecoveryFactor(nil, decimal.Zero)
	assert.Nil(t, rf.RecoveryFactor)
	assert.True(t, rf.NetProfit.IsZero())
}

func ptr[T any](v T) *T {
	return &v
}
