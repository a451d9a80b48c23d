package delta

import (
	"fmt"
	"sort"

	"github.com/lrivero/macrolens/internal/contracts"
)

const (
	// topDriverWeightFloor mirrors the synthesizer's top-driver floor.
	topDriverWeightFloor = 0.1
	// anchorCorrFloor is the |corr| threshold an anchor must hold.
	anchorCorrFloor = 0.7

	scoreSignificantDelta = 15.0
	eventBlockedMinutes   = 240.0
	timeToEventDeltaMin   = 60.0
	driverWeightDeltaMin  = 0.1
)

// Input is one (current, previous) comparison. TimeToEvent values come from
// the signals bracketing the two snapshots; either may be nil.
type Input struct {
	Current  *contracts.MacroSnapshot
	Previous *contracts.MacroSnapshot

	CurrentTimeToEvent  *contracts.TimeToEvent
	PreviousTimeToEvent *contracts.TimeToEvent
}

// Compute evaluates the change rules against a temporally ordered snapshot
// pair. Each rule yields at most one delta. The result is sorted by severity
// (hard_stop first, stable by rule order) and truncated to MaxDeltas. With no
// previous snapshot there is nothing to diff and the result is empty.
func Compute(in Input) []contracts.SnapshotDelta {
	if in.Current == nil || in.Previous == nil {
		return nil
	}

	var out []contracts.SnapshotDelta
	add := func(d *contracts.SnapshotDelta) {
		if d != nil {
			out = append(out, *d)
		}
	}

	add(regimeChange(in.Current, in.Previous))
	add(topDriverDirection(in.Current, in.Previous))
	add(anchorLost(in.Current, in.Previous))
	add(scoreCrossesZero(in.Current, in.Previous))
	add(scoreSignificant(in.Current, in.Previous))
	add(eventProximity(in.CurrentTimeToEvent, in.PreviousTimeToEvent))
	add(topDriverWeight(in.Current, in.Previous))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	if len(out) > contracts.MaxDeltas {
		out = out[:contracts.MaxDeltas]
	}
	return out
}

func regimeChange(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	if curr.Regime.Overall == prev.Regime.Overall {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaRegimeChange,
		Severity: contracts.SeverityHardStop,
		Message:  fmt.Sprintf("regime changed: %s → %s", prev.Regime.Overall, curr.Regime.Overall),
		Context: map[string]interface{}{
			"from": string(prev.Regime.Overall),
			"to":   string(curr.Regime.Overall),
		},
	}
}

func topDriverDirection(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	c := curr.TopDriver(topDriverWeightFloor)
	p := prev.TopDriver(topDriverWeightFloor)
	if c == nil || p == nil || c.Key != p.Key || c.Direction == p.Direction {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaTopDriverDirection,
		Severity: contracts.SeverityHardStop,
		Message:  fmt.Sprintf("top driver %s flipped direction: %s → %s", c.Label, p.Direction, c.Direction),
		Context: map[string]interface{}{
			"driver": c.Key,
			"from":   p.Direction,
			"to":     c.Direction,
		},
	}
}

func anchorLost(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	p := prev.Anchor(anchorCorrFloor)
	if p == nil {
		return nil
	}
	c := curr.Anchor(anchorCorrFloor)
	if c != nil && c.Symbol == p.Symbol && c.Benchmark == p.Benchmark {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaAnchorCorrelationLost,
		Severity: contracts.SeverityError,
		Message:  fmt.Sprintf("anchor correlation %s/%s (%s %.2f) no longer holds", p.Symbol, p.Benchmark, p.Window, p.Value),
		Context: map[string]interface{}{
			"symbol":    p.Symbol,
			"benchmark": p.Benchmark,
			"window":    string(p.Window),
			"value":     p.Value,
		},
	}
}

func scoreCrossesZero(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	if sign(curr.Score) == 0 || sign(prev.Score) == 0 || sign(curr.Score) == sign(prev.Score) {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaScoreCrossesZero,
		Severity: contracts.SeverityError,
		Message:  fmt.Sprintf("composite score flipped sign: %.0f → %.0f", prev.Score, curr.Score),
		Context: map[string]interface{}{
			"previous": prev.Score,
			"current":  curr.Score,
		},
	}
}

func scoreSignificant(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	d := curr.Score - prev.Score
	if abs(d) < scoreSignificantDelta {
		return nil
	}

	// Aligned with the current lean ⇒ the move adds momentum, otherwise the
	// edge is eroding.
	label := "pérdida de edge"
	if (d > 0 && curr.Score > 0) || (d < 0 && curr.Score < 0) {
		label = "impulso a favor"
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaScoreSignificant,
		Severity: contracts.SeverityWarning,
		Message:  fmt.Sprintf("score moved %.0f → %.0f (%s)", prev.Score, curr.Score, label),
		Context: map[string]interface{}{
			"previous": prev.Score,
			"current":  curr.Score,
			"delta":    d,
		},
	}
}

// eventProximity fires the blocked-window rule when the countdown crosses the
// 4-hour line between evaluations, and falls back to the plain countdown-shift
// rule for large moves. A missing countdown on either side means the rule has
// nothing to compare.
func eventProximity(curr, prev *contracts.TimeToEvent) *contracts.SnapshotDelta {
	if curr == nil || prev == nil {
		return nil
	}

	if prev.Minutes >= eventBlockedMinutes && curr.Minutes < eventBlockedMinutes {
		return &contracts.SnapshotDelta{
			ID:       contracts.DeltaEventEntersBlockedZone,
			Severity: contracts.SeverityError,
			Message:  fmt.Sprintf("%s entered the 4h blocked window (%.0f min away)", curr.Event, curr.Minutes),
			Context: map[string]interface{}{
				"event":   curr.Event,
				"minutes": curr.Minutes,
			},
		}
	}

	d := curr.Minutes - prev.Minutes
	if abs(d) < timeToEventDeltaMin {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaTimeToEvent,
		Severity: contracts.SeverityWarning,
		Message:  fmt.Sprintf("time to %s shifted %.0f → %.0f min", curr.Event, prev.Minutes, curr.Minutes),
		Context: map[string]interface{}{
			"event":    curr.Event,
			"previous": prev.Minutes,
			"current":  curr.Minutes,
		},
	}
}

func topDriverWeight(curr, prev *contracts.MacroSnapshot) *contracts.SnapshotDelta {
	c := curr.TopDriver(topDriverWeightFloor)
	p := prev.TopDriver(topDriverWeightFloor)
	if c == nil || p == nil || c.Key != p.Key {
		return nil
	}
	if abs(c.Weight-p.Weight) < driverWeightDeltaMin {
		return nil
	}
	return &contracts.SnapshotDelta{
		ID:       contracts.DeltaTopDriverWeight,
		Severity: contracts.SeverityInfo,
		Message:  fmt.Sprintf("top driver %s weight %.0f%% → %.0f%%", c.Label, p.Weight*100, c.Weight*100),
		Context: map[string]interface{}{
			"driver":   c.Key,
			"previous": p.Weight,
			"current":  c.Weight,
		},
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
