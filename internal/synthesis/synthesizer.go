package synthesis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/delta"
)

// Decision thresholds.
const (
	biasLongAbove   = 20.0
	biasShortBelow  = -20.0
	lowConfidence   = 0.5
	eventBlockMins  = 240.0
	warnFlagAbove   = 2
	maxPlaybook     = 5
	driverFloor     = 0.1
	anchorCorrFloor = 0.7
	cooldownWindow  = time.Hour
)

// Conviction tiers.
const (
	highScoreFloor      = 50.0
	highConfidenceFloor = 0.7
	medScoreFloor       = 30.0
	medConfidenceFloor  = 0.6
)

// Risk flag codes.
const (
	FlagInvariantFail = "invariant_fail"
	FlagEventNear     = "event_proximity"
	FlagNoHeadline    = "missing_headline"
	FlagLowConfidence = "low_confidence"
	FlagManyWarnings  = "data_quality_warnings"
)

var baseSizeByConviction = map[contracts.Conviction]float64{
	contracts.ConvictionLow:  0.25,
	contracts.ConvictionMed:  0.5,
	contracts.ConvictionHigh: 1.0,
}

// Input bundles one synthesis call. Previous and PreviousSignal come from the
// prior cycle and may be nil on the first run; without them no deltas or
// cooldown can be derived.
type Input struct {
	Snapshot   *contracts.MacroSnapshot
	Invariants []contracts.QualityInvariantResult

	Previous       *contracts.MacroSnapshot
	PreviousSignal *contracts.MacroSignal
}

// Synthesizer folds a snapshot, the data-quality verdicts and the previous
// cycle into one actionable MacroSignal. Pure except for the injected clock,
// which only feeds cooldown expiry and the event countdown.
type Synthesizer struct {
	clock contracts.Clock
}

func NewSynthesizer(clock contracts.Clock) *Synthesizer {
	if clock == nil {
		clock = contracts.SystemClock
	}
	return &Synthesizer{clock: clock}
}

// Synthesize produces the decision artifact. For fixed inputs every field is
// reproducible except CooldownState.ExpiresAt, the one wall-clock value.
func (s *Synthesizer) Synthesize(in Input) *contracts.MacroSignal {
	snap := in.Snapshot
	now := s.clock()

	score := snap.Score
	confidence := math.Min(math.Abs(score)/100, 1)

	sig := &contracts.MacroSignal{
		Score:         score,
		Confidence:    confidence,
		BiasDirection: biasDirection(score),
	}

	failed := filterInvariants(in.Invariants, contracts.QualityFail)
	warned := filterInvariants(in.Invariants, contracts.QualityWarn)
	nextEvent, blocking := nextHighImportanceEvent(snap.UpcomingEvents, now)
	if nextEvent != nil {
		sig.TimeToNextEvent = nextEvent
	}

	sig.RiskFlags = riskFlags(failed, warned, nextEvent, blocking, snap.Headline, confidence)
	sig.Action, sig.ActionReason = action(sig.BiasDirection, score, failed, nextEvent, blocking)
	sig.Conviction = conviction(score, confidence, len(failed) > 0, blocking)

	topDriver := snap.TopDriver(driverFloor)
	anchor := snap.Anchor(anchorCorrFloor)

	sig.PlaybookNotes = playbook(snap, nextEvent)
	sig.ExecutionChecklist = checklist(snap, topDriver, anchor, sig.Action, blocking, len(failed) > 0)

	sig.Deltas = delta.Compute(delta.Input{
		Current:             snap,
		Previous:            in.Previous,
		CurrentTimeToEvent:  sig.TimeToNextEvent,
		PreviousTimeToEvent: previousTimeToEvent(in.PreviousSignal),
	})

	sig.PositionSizing = sizing(sig.Conviction, sig.RiskFlags, sig.Action)
	sig.ExecutionPlan = plan(sig, snap)
	sig.CooldownState = cooldown(sig.Deltas, now)

	return sig
}

func biasDirection(score float64) contracts.BiasDirection {
	switch {
	case score > biasLongAbove:
		return contracts.BiasLong
	case score < biasShortBelow:
		return contracts.BiasShort
	}
	return contracts.BiasFlat
}

func filterInvariants(results []contracts.QualityInvariantResult, level contracts.QualityLevel) []contracts.QualityInvariantResult {
	var out []contracts.QualityInvariantResult
	for _, r := range results {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// nextHighImportanceEvent returns the countdown to the nearest future
// high-importance event and whether it falls inside the 4-hour blocked
// window. Nil when no qualifying event exists; the countdown is omitted
// rather than zero-filled so "no data" can never read as "no risk ahead".
func nextHighImportanceEvent(events []contracts.CalendarEvent, now time.Time) (*contracts.TimeToEvent, bool) {
	var next *contracts.CalendarEvent
	for i := range events {
		ev := &events[i]
		if ev.Importance != contracts.ImportanceHigh || !ev.Date.After(now) {
			continue
		}
		if next == nil || ev.Date.Before(next.Date) {
			next = ev
		}
	}
	if next == nil {
		return nil, false
	}
	minutes := next.Date.Sub(now).Minutes()
	return &contracts.TimeToEvent{Event: next.Name, Minutes: minutes}, minutes < eventBlockMins
}

// riskFlags extracts the prioritized risk conditions in fixed order:
// invariant FAILs, event proximity, missing headline, low confidence,
// accumulated WARNs.
func riskFlags(failed, warned []contracts.QualityInvariantResult, nextEvent *contracts.TimeToEvent, blocking bool, headline string, confidence float64) []contracts.RiskFlag {
	var flags []contracts.RiskFlag

	if len(failed) > 0 {
		rules := make([]string, 0, len(failed))
		for _, r := range failed {
			rules = append(rules, r.Rule)
		}
		flags = append(flags, contracts.RiskFlag{
			Severity: contracts.FlagHigh,
			Code:     FlagInvariantFail,
			Message:  fmt.Sprintf("failed invariants: %s", strings.Join(rules, ", ")),
		})
	}

	if blocking && nextEvent != nil {
		flags = append(flags, contracts.RiskFlag{
			Severity: contracts.FlagHigh,
			Code:     FlagEventNear,
			Message:  fmt.Sprintf("%s in %.0f min", nextEvent.Event, nextEvent.Minutes),
		})
	}

	if headline == "" {
		flags = append(flags, contracts.RiskFlag{
			Severity: contracts.FlagMedium,
			Code:     FlagNoHeadline,
			Message:  "no narrative headline available",
		})
	}

	if confidence < lowConfidence {
		flags = append(flags, contracts.RiskFlag{
			Severity: contracts.FlagMedium,
			Code:     FlagLowConfidence,
			Message:  fmt.Sprintf("derived confidence %.2f below 0.5", confidence),
		})
	}

	if len(warned) > warnFlagAbove {
		flags = append(flags, contracts.RiskFlag{
			Severity: contracts.FlagMedium,
			Code:     FlagManyWarnings,
			Message:  fmt.Sprintf("%d data-quality warnings active", len(warned)),
		})
	}

	return flags
}

// action applies the precedence chain: event proximity outranks data quality,
// which outranks bias.
func action(dir contracts.BiasDirection, score float64, failed []contracts.QualityInvariantResult, nextEvent *contracts.TimeToEvent, blocking bool) (contracts.Action, string) {
	if blocking && nextEvent != nil {
		return contracts.ActionNoTrade, fmt.Sprintf("evento de alto impacto: %s en %.0f min", nextEvent.Event, nextEvent.Minutes)
	}
	if len(failed) > 0 {
		return contracts.ActionNoTrade, "inconsistencias críticas"
	}
	switch dir {
	case contracts.BiasLong:
		return contracts.ActionLong, fmt.Sprintf("bias long (score %.0f)", score)
	case contracts.BiasShort:
		return contracts.ActionShort, fmt.Sprintf("bias short (score %.0f)", score)
	}
	return contracts.ActionNeutral, fmt.Sprintf("bias neutral (score %.0f)", score)
}

func conviction(score, confidence float64, hasFail, nearEvent bool) contracts.Conviction {
	if math.Abs(score) >= highScoreFloor && confidence >= highConfidenceFloor && !hasFail {
		return contracts.ConvictionHigh
	}
	if (math.Abs(score) >= medScoreFloor || confidence >= medConfidenceFloor) && !nearEvent {
		return contracts.ConvictionMed
	}
	return contracts.ConvictionLow
}

// playbook builds the operator notes in fixed order: regime summary, top-2
// drivers, event countdown, anchor correlation. Capped at maxPlaybook.
func playbook(snap *contracts.MacroSnapshot, nextEvent *contracts.TimeToEvent) []string {
	notes := make([]string, 0, maxPlaybook)
	notes = append(notes, fmt.Sprintf("Regime %s · USD %s · %s",
		snap.Regime.Overall, snap.Regime.USDDirection, snap.Regime.Quad))

	for _, d := range topDrivers(snap, 2) {
		notes = append(notes, driverLine(d))
	}

	if nextEvent != nil {
		notes = append(notes, fmt.Sprintf("%s in %s", nextEvent.Event, countdown(nextEvent.Minutes)))
	}

	if a := snap.Anchor(anchorCorrFloor); a != nil {
		notes = append(notes, anchorLine(a))
	}

	if len(notes) > maxPlaybook {
		notes = notes[:maxPlaybook]
	}
	return notes
}

func checklist(snap *contracts.MacroSnapshot, topDriver *contracts.WeightedDriver, anchor *contracts.AnchorCorrelation, act contracts.Action, blocking, hasFail bool) contracts.ExecutionChecklist {
	cl := contracts.ExecutionChecklist{
		Setup: []string{
			fmt.Sprintf("regime: %s", snap.Regime.Overall),
			fmt.Sprintf("USD bias: %s", snap.Regime.USDDirection),
		},
		Blockers: []string{},
	}

	for _, d := range topDrivers(snap, 2) {
		cl.Setup = append(cl.Setup, driverLine(d))
	}
	if anchor != nil {
		cl.Setup = append(cl.Setup, anchorLine(anchor))
	}

	if act == contracts.ActionNoTrade {
		if blocking {
			cl.Blockers = append(cl.Blockers, "wait for the event to pass")
		} else if hasFail {
			cl.Blockers = append(cl.Blockers, "re-evaluate once invariants pass")
		}
	}

	cl.Invalidation = []string{
		"score crosses zero",
		"confidence drops below 0.5",
	}
	if topDriver != nil {
		cl.Invalidation = append(cl.Invalidation, fmt.Sprintf("top driver %s changes direction", topDriver.Label))
	}

	return cl
}

// sizing applies the conviction base and flag-driven reduction. NO_TRADE
// bypasses the formula and forces the recommendation to zero. The rounding
// can legitimately floor a small base to zero on a tradeable action; that is
// carried through unchanged rather than bumped to a minimum clip.
func sizing(conv contracts.Conviction, flags []contracts.RiskFlag, act contracts.Action) *contracts.PositionSizing {
	base := baseSizeByConviction[conv]

	var high, med int
	for _, f := range flags {
		switch f.Severity {
		case contracts.FlagHigh:
			high++
		case contracts.FlagMedium:
			med++
		}
	}

	factor := 1.0
	switch {
	case high+med >= 2:
		factor = 0.5
	case high >= 1:
		factor = 0.75
	}

	ps := &contracts.PositionSizing{
		BaseRiskUnits:   base,
		ReductionFactor: factor,
	}

	if act == contracts.ActionNoTrade {
		ps.RecommendedRiskUnits = 0
		ps.Rationale = "no trade: position size forced to zero"
		return ps
	}

	ps.RecommendedRiskUnits = math.Round(base*factor*4) / 4
	ps.Rationale = fmt.Sprintf("%s conviction base %.2fR × %.2f reduction (%d high / %d medium flags)",
		conv, base, factor, high, med)
	return ps
}

func plan(sig *contracts.MacroSignal, snap *contracts.MacroSnapshot) *contracts.ExecutionPlan {
	entry := fmt.Sprintf("%s while %s holds and the composite score stays %s",
		sig.Action, snap.Regime.Overall, sideOfZero(sig.Score))
	if sig.Conviction == contracts.ConvictionLow {
		entry += "; low conviction, scale in gradually"
	}

	p := &contracts.ExecutionPlan{
		Entry:                  entry,
		InvalidationTriggers:   append([]string{}, sig.ExecutionChecklist.Invalidation...),
		CancellationConditions: []string{},
	}

	for _, d := range sig.Deltas {
		if d.Severity == contracts.SeverityHardStop {
			p.InvalidationTriggers = append(p.InvalidationTriggers, d.Message)
		}
	}

	if hasDelta(sig.Deltas, contracts.DeltaRegimeChange) {
		p.CancellationConditions = append(p.CancellationConditions, "regime changed")
	}
	if len(sig.RiskFlags) > 2 {
		p.CancellationConditions = append(p.CancellationConditions, "multiple high/medium flags active")
	}

	return p
}

// cooldown derives the re-entry suppression from the current delta list. It
// is recomputed fresh each call with no persisted origin, so a hard stop that
// is still present on the next evaluation slides the one-hour window forward.
func cooldown(deltas []contracts.SnapshotDelta, now time.Time) *contracts.CooldownState {
	var trigger *contracts.SnapshotDelta
	for i := range deltas {
		if deltas[i].Severity == contracts.SeverityHardStop {
			trigger = &deltas[i]
			break
		}
	}
	if trigger == nil {
		return nil
	}

	conditions := []string{
		"regime stable for one full evaluation",
		"no hard-stop deltas on re-evaluation",
	}
	switch trigger.ID {
	case contracts.DeltaRegimeChange:
		conditions = append(conditions, "new regime confirmed by the composite score")
	case contracts.DeltaTopDriverDirection:
		conditions = append(conditions, "top driver direction consistent across two evaluations")
	case contracts.DeltaAnchorCorrelationLost:
		conditions = append(conditions, "anchor correlation re-established above 0.7")
	}

	return &contracts.CooldownState{
		IsActive:               true,
		Reason:                 trigger.Message,
		ExpiresAt:              now.Add(cooldownWindow),
		RevalidationConditions: conditions,
	}
}

func previousTimeToEvent(sig *contracts.MacroSignal) *contracts.TimeToEvent {
	if sig == nil {
		return nil
	}
	return sig.TimeToNextEvent
}

func topDrivers(snap *contracts.MacroSnapshot, n int) []contracts.WeightedDriver {
	out := make([]contracts.WeightedDriver, 0, n)
	for _, d := range snap.Drivers {
		if math.Abs(d.Weight) <= driverFloor {
			continue
		}
		out = append(out, d)
		if len(out) == n {
			break
		}
	}
	return out
}

func driverLine(d contracts.WeightedDriver) string {
	arrow := "↓"
	if d.Direction == "up" {
		arrow = "↑"
	}
	return fmt.Sprintf("%s %s (%.0f%%)", d.Label, arrow, math.Abs(d.Weight)*100)
}

func anchorLine(a *contracts.AnchorCorrelation) string {
	return fmt.Sprintf("anchor %s/%s %s corr %.2f", a.Symbol, a.Benchmark, a.Window, a.Value)
}

func countdown(minutes float64) string {
	switch {
	case minutes >= 48*60:
		return fmt.Sprintf("%.0fd", minutes/(24*60))
	case minutes >= 120:
		return fmt.Sprintf("%.0fh", minutes/60)
	}
	return fmt.Sprintf("%.0f min", minutes)
}

func sideOfZero(score float64) string {
	if score < 0 {
		return "negative"
	}
	return "positive"
}

func hasDelta(deltas []contracts.SnapshotDelta, id string) bool {
	for _, d := range deltas {
		if d.ID == id {
			return true
		}
	}
	return false
}
