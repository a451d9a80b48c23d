package correlation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrivero/macrolens/internal/contracts"
)

func f(v float64) *float64 { return &v }

func point(symbol, window string, value *float64) contracts.CorrelationPoint {
	return contracts.CorrelationPoint{
		Symbol:     symbol,
		Benchmark:  "DXY",
		Window:     contracts.Window(window),
		Value:      value,
		SampleSize: 60,
		UpdatedAt:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeWindow(t *testing.T) {
	tests := []struct {
		label string
		want  contracts.Window
		ok    bool
	}{
		{"3m", contracts.Window3M, true},
		{"90d", contracts.Window3M, true},
		{"  1Y ", contracts.Window12M, true},
		{"2y", contracts.Window24M, true},
		{"730d", contracts.Window24M, true},
		{"180d", contracts.Window6M, true},
		{"5y", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeWindow(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestClassifyShift(t *testing.T) {
	tests := []struct {
		name   string
		corr12 *float64
		corr3  *float64
		want   contracts.ShiftRegime
	}{
		{"sign flip is a break", f(0.65), f(-0.10), contracts.ShiftBreak},
		{"large delta is a break", f(0.20), f(0.70), contracts.ShiftBreak},
		{"both weak magnitudes", f(0.10), f(0.15), contracts.ShiftWeak},
		{"small delta is stable", f(0.60), f(0.65), contracts.ShiftStable},
		{"positive drift reinforces", f(0.50), f(0.75), contracts.ShiftReinforcing},
		{"negative drift short of a break stays stable", f(0.75), f(0.50), contracts.ShiftStable},
		{"null 12m is weak", nil, f(0.80), contracts.ShiftWeak},
		{"null 3m is weak", f(0.80), nil, contracts.ShiftWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []contracts.CorrelationPoint{
				point("SPX", "12m", tt.corr12),
				point("SPX", "3m", tt.corr3),
			}
			state := Analyze(records, "", nil)
			require.Len(t, state.Shifts, 1)
			assert.Equal(t, tt.want, state.Shifts[0].Regime)
		})
	}
}

func TestSummary_NowAndStrongestWindow(t *testing.T) {
	records := []contracts.CorrelationPoint{
		point("SPX", "3m", nil),
		point("SPX", "6m", f(0.30)),
		point("SPX", "12m", f(-0.90)),
		point("SPX", "24m", f(0.50)),
	}

	state := Analyze(records, "", nil)
	require.Len(t, state.Summaries, 1)
	s := state.Summaries[0]

	require.NotNil(t, s.CorrelationNow)
	assert.InDelta(t, 0.30, *s.CorrelationNow, 1e-9, "first non-null scanning 3m→24m")
	assert.Equal(t, contracts.Window12M, s.StrongestWindow, "largest absolute value")
	assert.Equal(t, contracts.TrendInconclusive, s.Trend, "null 3m makes the trend inconclusive")
}

func TestSummary_Trend(t *testing.T) {
	tests := []struct {
		corr12, corr3 float64
		want          contracts.CorrelationTrend
	}{
		{0.60, 0.65, contracts.TrendFlat},
		{0.40, 0.80, contracts.TrendStrengthening},
		{-0.40, -0.80, contracts.TrendStrengthening},
		{0.80, 0.40, contracts.TrendWeakening},
	}

	for _, tt := range tests {
		records := []contracts.CorrelationPoint{
			point("SPX", "12m", f(tt.corr12)),
			point("SPX", "3m", f(tt.corr3)),
		}
		state := Analyze(records, "", nil)
		require.Len(t, state.Summaries, 1)
		assert.Equal(t, tt.want, state.Summaries[0].Trend, "12m=%v 3m=%v", tt.corr12, tt.corr3)
	}
}

func TestRelevance(t *testing.T) {
	// Break bonus: |corr12m| + 0.2
	breakRecords := []contracts.CorrelationPoint{
		point("SPX", "12m", f(0.65)),
		point("SPX", "3m", f(-0.10)),
	}
	state := Analyze(breakRecords, "", nil)
	require.Len(t, state.Summaries, 1)
	assert.InDelta(t, 0.85, state.Summaries[0].MacroRelevanceScore, 1e-9)

	// Weak penalty floors at 0
	weakRecords := []contracts.CorrelationPoint{
		point("GLD", "12m", f(0.05)),
		point("GLD", "3m", f(0.10)),
	}
	state = Analyze(weakRecords, "", nil)
	require.Len(t, state.Summaries, 1)
	assert.InDelta(t, 0.0, state.Summaries[0].MacroRelevanceScore, 1e-9)

	// Risk OFF + strongly positive correlation earns the alignment bonus
	alignedRecords := []contracts.CorrelationPoint{
		point("SPX", "12m", f(0.70)),
		point("SPX", "3m", f(0.72)),
	}
	state = Analyze(alignedRecords, contracts.RiskOff, nil)
	require.Len(t, state.Summaries, 1)
	assert.InDelta(t, 0.80, state.Summaries[0].MacroRelevanceScore, 1e-9)

	// Clamped to 1
	clamped := []contracts.CorrelationPoint{
		point("NDX", "12m", f(0.95)),
		point("NDX", "3m", f(-0.40)),
	}
	state = Analyze(clamped, "", nil)
	require.Len(t, state.Summaries, 1)
	assert.InDelta(t, 1.0, state.Summaries[0].MacroRelevanceScore, 1e-9)
}

func TestAnalyze_FreshestPerWindowWins(t *testing.T) {
	old := point("SPX", "12m", f(0.20))
	old.UpdatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fresh := point("SPX", "1y", f(0.60))

	state := Analyze([]contracts.CorrelationPoint{old, fresh, point("SPX", "3m", f(0.55))}, "", nil)
	require.Len(t, state.Summaries, 1)
	require.NotNil(t, state.Summaries[0].Corr12M)
	assert.InDelta(t, 0.60, *state.Summaries[0].Corr12M, 1e-9)
}

func TestAnalyze_UnknownWindowsDropped(t *testing.T) {
	state := Analyze([]contracts.CorrelationPoint{point("SPX", "5y", f(0.99))}, "", nil)
	assert.Empty(t, state.Shifts)
	assert.Empty(t, state.Summaries)
}

func TestAnalyze_DeterministicOrder(t *testing.T) {
	records := []contracts.CorrelationPoint{
		point("NDX", "3m", f(0.5)),
		point("BTC", "3m", f(0.4)),
		point("SPX", "3m", f(0.3)),
	}
	a := Analyze(records, "", nil)
	b := Analyze(records, "", nil)
	require.Equal(t, len(a.Summaries), len(b.Summaries))
	for i := range a.Summaries {
		assert.Equal(t, a.Summaries[i].Symbol, b.Summaries[i].Symbol)
	}
	assert.Equal(t, "BTC", a.Summaries[0].Symbol, "sorted by symbol")
}
