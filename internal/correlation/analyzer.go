package correlation

import (
	"sort"
	"time"

	"github.com/lrivero/macrolens/internal/contracts"
)

// Shift classification constants.
const (
	breakDeltaAbove   = 0.4
	weakMagnitudeBelow = 0.3
	stableDeltaWithin = 0.1
)

// Relevance scoring adjustments.
const (
	relevanceBreakBonus   = 0.2
	relevanceWeakPenalty  = 0.2
	relevanceAlignedBonus = 0.1
	alignedCorrThreshold  = 0.6
)

// pair groups the canonical-window values of one (symbol, benchmark).
type pair struct {
	symbol    string
	benchmark string
	values    map[contracts.Window]*float64
	updated   map[contracts.Window]time.Time
	latest    time.Time
}

// Analyze turns raw correlation points into shift classifications and
// relevance summaries. prevailing is the currently known risk regime used
// for the sign-alignment bonus; pass the zero value when unknown — the
// analyzer has no data dependency on the regime classifier and may run
// concurrently with it.
func Analyze(records []contracts.CorrelationPoint, prevailing contracts.RiskRegime, clock contracts.Clock) *contracts.CorrelationState {
	if clock == nil {
		clock = contracts.SystemClock
	}

	pairs := groupPairs(records)

	state := &contracts.CorrelationState{
		Shifts:    make([]contracts.CorrelationShift, 0, len(pairs)),
		Summaries: make([]contracts.CorrelationSummary, 0, len(pairs)),
		UpdatedAt: clock(),
	}

	for _, p := range pairs {
		shift := classifyShift(p)
		state.Shifts = append(state.Shifts, shift)
		state.Summaries = append(state.Summaries, summarize(p, shift.Regime, prevailing))
	}

	return state
}

// groupPairs buckets points per (symbol, benchmark), normalizing window
// labels and keeping the freshest value per window. Points with
// unrecognized windows are dropped. The result is sorted by pair key so the
// output order is reproducible.
func groupPairs(records []contracts.CorrelationPoint) []*pair {
	byKey := make(map[string]*pair)
	for _, rec := range records {
		w, ok := NormalizeWindow(string(rec.Window))
		if !ok {
			continue
		}

		key := rec.Symbol + "\x00" + rec.Benchmark
		p, exists := byKey[key]
		if !exists {
			p = &pair{
				symbol:    rec.Symbol,
				benchmark: rec.Benchmark,
				values:    make(map[contracts.Window]*float64, 4),
				updated:   make(map[contracts.Window]time.Time, 4),
			}
			byKey[key] = p
		}

		if prev, has := p.updated[w]; !has || rec.UpdatedAt.After(prev) {
			p.values[w] = rec.Value
			p.updated[w] = rec.UpdatedAt
		}
		if rec.UpdatedAt.After(p.latest) {
			p.latest = rec.UpdatedAt
		}
	}

	out := make([]*pair, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].symbol != out[j].symbol {
			return out[i].symbol < out[j].symbol
		}
		return out[i].benchmark < out[j].benchmark
	})
	return out
}

// classifyShift compares the 3m and 12m readings of a pair:
//
//	Break        sign flip, or |corr3m − corr12m| > 0.4
//	Weak         both magnitudes under 0.3 (or either value null)
//	Stable       |delta| ≤ 0.1, or a negative drift that is not a break
//	Reinforcing  delta > 0.1 with consistent sign
func classifyShift(p *pair) contracts.CorrelationShift {
	corr12 := p.values[contracts.Window12M]
	corr3 := p.values[contracts.Window3M]

	shift := contracts.CorrelationShift{
		Symbol:    p.symbol,
		Benchmark: p.benchmark,
		Corr12M:   corr12,
		Corr3M:    corr3,
	}

	if corr12 == nil || corr3 == nil {
		shift.Regime = contracts.ShiftWeak
		return shift
	}

	d := *corr3 - *corr12
	shift.Delta = &d

	switch {
	case sign(*corr12) != sign(*corr3) || abs(d) > breakDeltaAbove:
		shift.Regime = contracts.ShiftBreak
	case abs(*corr12) < weakMagnitudeBelow && abs(*corr3) < weakMagnitudeBelow:
		shift.Regime = contracts.ShiftWeak
	case abs(d) <= stableDeltaWithin:
		shift.Regime = contracts.ShiftStable
	case d > 0:
		shift.Regime = contracts.ShiftReinforcing
	default:
		shift.Regime = contracts.ShiftStable
	}

	return shift
}

// summarize condenses a pair into its anchor window, current value, trend
// and macro relevance score.
func summarize(p *pair, shiftRegime contracts.ShiftRegime, prevailing contracts.RiskRegime) contracts.CorrelationSummary {
	s := contracts.CorrelationSummary{
		Symbol:    p.symbol,
		Benchmark: p.benchmark,
		Corr3M:    p.values[contracts.Window3M],
		Corr6M:    p.values[contracts.Window6M],
		Corr12M:   p.values[contracts.Window12M],
		Corr24M:   p.values[contracts.Window24M],
	}

	// Strongest window: largest |value|, shortest window wins ties
	var best *float64
	for _, w := range contracts.CanonicalWindows {
		v := p.values[w]
		if v == nil {
			continue
		}
		if best == nil || abs(*v) > abs(*best) {
			best = v
			s.StrongestWindow = w
		}
	}

	// Correlation now: first non-null scanning 3m → 24m
	for _, w := range contracts.CanonicalWindows {
		if v := p.values[w]; v != nil {
			s.CorrelationNow = v
			break
		}
	}

	s.Trend = classifyTrend(s.Corr3M, s.Corr12M)
	s.MacroRelevanceScore = relevance(s, shiftRegime, prevailing)

	return s
}

func classifyTrend(corr3, corr12 *float64) contracts.CorrelationTrend {
	if corr3 == nil || corr12 == nil {
		return contracts.TrendInconclusive
	}
	switch {
	case abs(*corr3-*corr12) <= stableDeltaWithin:
		return contracts.TrendFlat
	case abs(*corr3) > abs(*corr12):
		return contracts.TrendStrengthening
	default:
		return contracts.TrendWeakening
	}
}

// relevance scores how much this pair matters for the macro read, in [0, 1].
func relevance(s contracts.CorrelationSummary, shiftRegime contracts.ShiftRegime, prevailing contracts.RiskRegime) float64 {
	score := abs(coalesce(s.Corr12M, s.Corr3M, s.CorrelationNow))

	switch shiftRegime {
	case contracts.ShiftBreak:
		score += relevanceBreakBonus
	case contracts.ShiftWeak:
		score -= relevanceWeakPenalty
	}

	if s.CorrelationNow != nil {
		now := *s.CorrelationNow
		if (prevailing == contracts.RiskOff && now > alignedCorrThreshold) ||
			(prevailing == contracts.RiskOn && now < -alignedCorrThreshold) {
			score += relevanceAlignedBonus
		}
	}

	return clamp(score, 0, 1)
}

func coalesce(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
