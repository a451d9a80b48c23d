package synthesis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrivero/macrolens/internal/contracts"
)

var frozen = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

func baseSnapshot(score float64) *contracts.MacroSnapshot {
	return &contracts.MacroSnapshot{
		Regime: contracts.RegimeSet{
			Overall:      contracts.RiskOn,
			USDDirection: contracts.USDBearish,
			Quad:         contracts.QuadGoldilocks,
			Liquidity:    contracts.LiquidityHigh,
			Credit:       contracts.CreditLow,
			Risk:         contracts.RiskOn,
		},
		Score:    score,
		Headline: "liquidity keeps expanding",
		Drivers: []contracts.WeightedDriver{
			{Key: "gdp", Label: "GDP", Weight: 0.35, Direction: "up"},
			{Key: "cpi", Label: "CPI", Weight: -0.2, Direction: "down"},
			{Key: "m2", Label: "M2", Weight: 0.05, Direction: "up"},
		},
		Correlations: []contracts.CorrelationSummary{
			{Symbol: "SPX", Benchmark: "DXY", Corr12M: f(0.85)},
		},
		UpdatedAt:            frozen,
		BiasUpdatedAt:        frozen,
		CorrelationUpdatedAt: frozen,
	}
}

func newSynth() *Synthesizer {
	return NewSynthesizer(contracts.FixedClock(frozen))
}

func TestSynthesize_StrongLong(t *testing.T) {
	sig := newSynth().Synthesize(Input{Snapshot: baseSnapshot(75)})

	assert.Equal(t, contracts.BiasLong, sig.BiasDirection)
	assert.Equal(t, contracts.ConvictionHigh, sig.Conviction)
	assert.Equal(t, contracts.ActionLong, sig.Action)
	assert.InDelta(t, 0.75, sig.Confidence, 1e-9)

	require.NotNil(t, sig.PositionSizing)
	assert.Equal(t, 1.0, sig.PositionSizing.BaseRiskUnits)
	assert.Equal(t, 1.0, sig.PositionSizing.RecommendedRiskUnits)

	assert.Nil(t, sig.CooldownState, "no hard stop, no cooldown")
	assert.Nil(t, sig.TimeToNextEvent, "omitted when no qualifying event")
}

func TestSynthesize_EventProximityOutranksEverything(t *testing.T) {
	snap := baseSnapshot(60)
	snap.UpcomingEvents = []contracts.CalendarEvent{
		{Name: "FOMC", Date: frozen.Add(3 * time.Hour), Importance: contracts.ImportanceHigh},
	}
	// A FAIL invariant is also present; the event still wins the precedence.
	invariants := []contracts.QualityInvariantResult{
		{Level: contracts.QualityFail, Rule: "stale_series", Message: "stale"},
	}

	sig := newSynth().Synthesize(Input{Snapshot: snap, Invariants: invariants})

	assert.Equal(t, contracts.ActionNoTrade, sig.Action)
	assert.Contains(t, sig.ActionReason, "FOMC")
	require.NotNil(t, sig.PositionSizing)
	assert.Equal(t, 0.0, sig.PositionSizing.RecommendedRiskUnits)

	require.NotNil(t, sig.TimeToNextEvent)
	assert.InDelta(t, 180, sig.TimeToNextEvent.Minutes, 1e-9)

	assert.Contains(t, sig.ExecutionChecklist.Blockers, "wait for the event to pass")
	assert.Equal(t, contracts.ConvictionLow, sig.Conviction, "near event caps conviction at low")
}

func TestSynthesize_InvariantFailForcesNoTrade(t *testing.T) {
	invariants := []contracts.QualityInvariantResult{
		{Level: contracts.QualityFail, Rule: "negative_m2", Message: "m2 below zero"},
	}

	sig := newSynth().Synthesize(Input{Snapshot: baseSnapshot(75), Invariants: invariants})

	assert.Equal(t, contracts.ActionNoTrade, sig.Action)
	assert.Equal(t, "inconsistencias críticas", sig.ActionReason)
	assert.Equal(t, 0.0, sig.PositionSizing.RecommendedRiskUnits)
	assert.Contains(t, sig.ExecutionChecklist.Blockers, "re-evaluate once invariants pass")

	require.NotEmpty(t, sig.RiskFlags)
	assert.Equal(t, FlagInvariantFail, sig.RiskFlags[0].Code)
	assert.Equal(t, contracts.FlagHigh, sig.RiskFlags[0].Severity)
}

func TestSynthesize_RiskFlagOrder(t *testing.T) {
	snap := baseSnapshot(30) // confidence 0.3 < 0.5
	snap.Headline = ""
	invariants := []contracts.QualityInvariantResult{
		{Level: contracts.QualityWarn, Rule: "w1"},
		{Level: contracts.QualityWarn, Rule: "w2"},
		{Level: contracts.QualityWarn, Rule: "w3"},
	}

	sig := newSynth().Synthesize(Input{Snapshot: snap, Invariants: invariants})

	codes := make([]string, 0, len(sig.RiskFlags))
	for _, fl := range sig.RiskFlags {
		codes = append(codes, fl.Code)
	}
	assert.Equal(t, []string{FlagNoHeadline, FlagLowConfidence, FlagManyWarnings}, codes)
}

func TestSizing_Scenario(t *testing.T) {
	flags := []contracts.RiskFlag{
		{Severity: contracts.FlagHigh, Code: "a"},
		{Severity: contracts.FlagHigh, Code: "b"},
	}

	ps := sizing(contracts.ConvictionLow, flags, contracts.ActionLong)
	assert.Equal(t, 0.25, ps.BaseRiskUnits)
	assert.Equal(t, 0.5, ps.ReductionFactor)
	assert.Equal(t, 0.25, ps.RecommendedRiskUnits, "round(0.25×0.5×4)/4")
}

func TestSizing_ReductionTiers(t *testing.T) {
	high := contracts.RiskFlag{Severity: contracts.FlagHigh}
	med := contracts.RiskFlag{Severity: contracts.FlagMedium}

	assert.Equal(t, 1.0, sizing(contracts.ConvictionHigh, nil, contracts.ActionLong).ReductionFactor)
	assert.Equal(t, 0.75, sizing(contracts.ConvictionHigh, []contracts.RiskFlag{high}, contracts.ActionLong).ReductionFactor)
	assert.Equal(t, 0.5, sizing(contracts.ConvictionHigh, []contracts.RiskFlag{med, med}, contracts.ActionLong).ReductionFactor)

	// With round-half-away-from-zero the quarter-unit grid never collapses a
	// nonzero base to zero; the smallest tradeable clip is 0.25R.
	ps := sizing(contracts.ConvictionLow, []contracts.RiskFlag{high, med}, contracts.ActionLong)
	assert.Equal(t, 0.25, ps.RecommendedRiskUnits)
}

func TestSynthesize_Playbook(t *testing.T) {
	snap := baseSnapshot(75)
	snap.UpcomingEvents = []contracts.CalendarEvent{
		{Name: "NFP", Date: frozen.Add(30 * time.Hour), Importance: contracts.ImportanceHigh},
	}

	sig := newSynth().Synthesize(Input{Snapshot: snap})

	require.Len(t, sig.PlaybookNotes, 5)
	assert.Contains(t, sig.PlaybookNotes[0], "Risk ON")
	assert.Contains(t, sig.PlaybookNotes[1], "GDP ↑ (35%)")
	assert.Contains(t, sig.PlaybookNotes[2], "CPI ↓ (20%)")
	assert.Contains(t, sig.PlaybookNotes[3], "NFP in 30h")
	assert.Contains(t, sig.PlaybookNotes[4], "SPX/DXY")

	assert.Contains(t, sig.ExecutionChecklist.Invalidation, "score crosses zero")
	assert.Contains(t, sig.ExecutionChecklist.Invalidation, "confidence drops below 0.5")
	assert.Contains(t, sig.ExecutionChecklist.Invalidation, "top driver GDP changes direction")
}

func TestSynthesize_CooldownOnHardStop(t *testing.T) {
	prev := baseSnapshot(40)
	prev.Regime.Overall = contracts.RiskOff

	sig := newSynth().Synthesize(Input{Snapshot: baseSnapshot(40), Previous: prev})

	require.NotEmpty(t, sig.Deltas)
	assert.Equal(t, contracts.DeltaRegimeChange, sig.Deltas[0].ID)

	require.NotNil(t, sig.CooldownState)
	assert.True(t, sig.CooldownState.IsActive)
	assert.Equal(t, frozen.Add(time.Hour), sig.CooldownState.ExpiresAt)
	assert.Contains(t, sig.CooldownState.RevalidationConditions, "new regime confirmed by the composite score")

	assert.Contains(t, sig.ExecutionPlan.CancellationConditions, "regime changed")
}

func TestSynthesize_Deterministic(t *testing.T) {
	snap := baseSnapshot(75)
	snap.UpcomingEvents = []contracts.CalendarEvent{
		{Name: "CPI", Date: frozen.Add(26 * time.Hour), Importance: contracts.ImportanceHigh},
	}
	in := Input{Snapshot: snap, Invariants: []contracts.QualityInvariantResult{
		{Level: contracts.QualityWarn, Rule: "w1"},
	}}

	s := newSynth()
	a := s.Synthesize(in)
	b := s.Synthesize(in)
	assert.Equal(t, a, b, "identical inputs reproduce every field")
}
