package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityHardStop.Rank(), SeverityError.Rank())
	assert.Less(t, SeverityError.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityInfo.Rank())
	assert.Equal(t, 4, DeltaSeverity("bogus").Rank())
}

func TestWindowIsCanonical(t *testing.T) {
	for _, w := range CanonicalWindows {
		assert.True(t, w.IsCanonical(), "window %s", w)
	}
	assert.False(t, Window("90d").IsCanonical())
	assert.False(t, Window("").IsCanonical())
}

func TestObservationDelta(t *testing.T) {
	obs := IndicatorObservation{Value: 3.2, PrevValue: 3.5}
	assert.InDelta(t, -0.3, obs.Delta(), 1e-9)
}

func TestTopDriver(t *testing.T) {
	snap := &MacroSnapshot{
		Drivers: []WeightedDriver{
			{Key: "cpi", Weight: 0.08, Direction: "up"},
			{Key: "gdp", Weight: -0.35, Direction: "down"},
			{Key: "m2", Weight: 0.2, Direction: "up"},
		},
	}

	top := snap.TopDriver(0.1)
	if assert.NotNil(t, top) {
		assert.Equal(t, "gdp", top.Key)
	}

	// All below the floor: no driver qualifies
	low := &MacroSnapshot{Drivers: []WeightedDriver{{Key: "cpi", Weight: 0.05}}}
	assert.Nil(t, low.TopDriver(0.1))
}

func TestCorrelationSummaryValue(t *testing.T) {
	v := 0.8
	s := CorrelationSummary{Corr12M: &v}
	assert.Equal(t, &v, s.Value(Window12M))
	assert.Nil(t, s.Value(Window3M))
	assert.Nil(t, s.Value(Window("1y")))
}

func TestValidationError(t *testing.T) {
	var e ValidationError
	assert.NoError(t, e.OrNil())

	e.Add("score %0.f out of range", 120.0)
	e.Add("missing timestamp")
	err := e.OrNil()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "score 120 out of range")
	assert.Contains(t, err.Error(), "missing timestamp")
}
