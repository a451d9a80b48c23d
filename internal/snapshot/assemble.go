package snapshot

import (
	"math"
	"sort"

	"github.com/lrivero/macrolens/internal/contracts"
)

// Assemble maps a regime pass, a correlation pass and the calendar into one
// MacroSnapshot. This is a thin, deterministic mapping step: no thresholds
// or classification live here.
func Assemble(bias *contracts.BiasState, corr *contracts.CorrelationState, events []contracts.CalendarEvent, clock contracts.Clock) *contracts.MacroSnapshot {
	if clock == nil {
		clock = contracts.SystemClock
	}

	snap := &contracts.MacroSnapshot{
		Regime: bias.Regime,
		// Composite score re-expressed on the [-100, 100] scale the
		// synthesizer thresholds are written against.
		Score:   math.Round(bias.Scores.Risk * 100),
		Drivers: drivers(bias.Observations),
		Metrics: map[string]float64{
			"usd_score":       bias.Scores.USD,
			"quad_score":      bias.Scores.Quad,
			"liquidity_score": bias.Scores.Liquidity,
			"credit_score":    bias.Scores.Credit,
			"risk_score":      bias.Scores.Risk,
		},
		CurrencyRegimes: map[string]string{
			"USD": string(bias.Regime.USDDirection),
		},
		Correlations:         corr.Summaries,
		CorrelationShifts:    corr.Shifts,
		UpcomingEvents:       upcoming(events, clock),
		UpdatedAt:            clock(),
		BiasUpdatedAt:        bias.UpdatedAt,
		CorrelationUpdatedAt: corr.UpdatedAt,
	}

	return snap
}

// drivers converts observations into weighted drivers sorted by |weight|
// descending (ties broken by key for reproducibility). Direction follows the
// sign of the delta.
func drivers(observations []contracts.IndicatorObservation) []contracts.WeightedDriver {
	out := make([]contracts.WeightedDriver, 0, len(observations))
	for _, obs := range observations {
		direction := "down"
		if obs.Delta() > 0 {
			direction = "up"
		}
		out = append(out, contracts.WeightedDriver{
			Key:       obs.Key,
			Label:     obs.Label,
			Weight:    obs.Weight,
			Direction: direction,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		wi, wj := math.Abs(out[i].Weight), math.Abs(out[j].Weight)
		if wi != wj {
			return wi > wj
		}
		return out[i].Key < out[j].Key
	})

	return out
}

// upcoming keeps future events sorted by date. Past events are dropped; the
// consumer must never mistake an elapsed event for pending risk.
func upcoming(events []contracts.CalendarEvent, clock contracts.Clock) []contracts.CalendarEvent {
	now := clock()
	out := make([]contracts.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.Date.After(now) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
