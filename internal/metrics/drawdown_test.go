package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDrawdown_RiseThenFall(t *testing.T) {
	// +50 on day one, -30 on day two, flat afterwards
	curve := curveOf(t, "2024-01-01", "50", "20", "20")

	dd := ComputeDrawdown(curve, 5000)

	assertDecimal(t, "30", dd.MaxDDAbs)
	assert.InDelta(t, 30.0/5000.0, dd.MaxDDPctBase, 1e-12)
	require.NotNil(t, dd.PeakDate)
	require.NotNil(t, dd.TroughDate)
	assert.Equal(t, "2024-01-01", dd.PeakDate.String())
	assert.Equal(t, "2024-01-02", dd.TroughDate.String())
	assert.Nil(t, dd.RecoveryDays, "equity never returns to 50")
}

func TestComputeDrawdown_Recovery(t *testing.T) {
	curve := curveOf(t, "2024-01-01", "100", "60", "40", "70", "100", "120")

	dd := ComputeDrawdown(curve, 5000)

	assertDecimal(t, "60", dd.MaxDDAbs)
	assert.Equal(t, "2024-01-01", dd.PeakDate.String())
	assert.Equal(t, "2024-01-03", dd.TroughDate.String())
	require.NotNil(t, dd.RecoveryDays)
	assert.Equal(t, 2, *dd.RecoveryDays)
}

func TestComputeDrawdown_StartsNegative(t *testing.T) {
	// peak stays at the zero baseline, so there is no peak date
	curve := curveOf(t, "2024-01-01", "-10", "-25", "-5")

	dd := ComputeDrawdown(curve, 5000)

	assertDecimal(t, "25", dd.MaxDDAbs)
	assert.Nil(t, dd.PeakDate)
	require.NotNil(t, dd.TroughDate)
	assert.Equal(t, "2024-01-02", dd.TroughDate.String())
	assert.Nil(t, dd.RecoveryDays)
}

func TestComputeDrawdown_TiesKeepFirst(t *testing.T) {
	// equal peaks do not move the peak date; equal drawdowns keep the first trough
	curve := curveOf(t, "2024-01-01", "100", "80", "100", "80")

	dd := ComputeDrawdown(curve, 5000)

	assertDecimal(t, "20", dd.MaxDDAbs)
	assert.Equal(t, "2024-01-01", dd.PeakDate.String())
	assert.Equal(t, "2024-01-02", dd.TroughDate.String())
	require.NotNil(t, dd.RecoveryDays)
	assert.Equal(t, 1, *dd.RecoveryDays)
}

func TestComputeDrawdown_NoDrawdown(t *testing.T) {
	tests := []struct {
		name  string
		curve EquityCurve
	}{
		{name: "empty", curve: nil},
		{name: "flat", curve: curveOf(t, "2024-01-01", "0", "0", "0")},
		{name: "rising", curve: curveOf(t, "2024-01-01", "0", "0", "100", "100", "100")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dd := ComputeDrawdown(tt.curve, 5000)
			assert.True(t, dd.MaxDDAbs.IsZero())
			assert.Zero(t, dd.MaxDDPctBase)
			assert.Nil(t, dd.PeakDate)
			assert.Nil(t, dd.TroughDate)
			assert.Nil(t, dd.RecoveryDays)
		})
	}
}

func TestComputeDrawdown_RunningMaxNeverShrinks(t *testing.T) {
	curve := curveOf(t, "2024-01-01", "10", "-5", "30", "12", "45", "-20", "0", "60", "59")

	prev := ComputeDrawdown(nil, 5000).MaxDDAbs
	for i := 1; i <= len(curve); i++ {
		dd := ComputeDrawdown(curve[:i], 5000)
		assert.False(t, dd.MaxDDAbs.IsNegative())
		assert.True(t, dd.MaxDDAbs.GreaterThanOrEqual(prev), "prefix %d shrank", i)
		if dd.RecoveryDays != nil {
			assert.GreaterOrEqual(t, *dd.RecoveryDays, 0)
		}
		prev = dd.MaxDDAbs
	}
	assertDecimal(t, "65", prev)
}
