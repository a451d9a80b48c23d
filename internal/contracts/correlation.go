package contracts

import "time"

// Window is a canonical correlation lookback window.
type Window string

const (
	Window3M  Window = "3m"
	Window6M  Window = "6m"
	Window12M Window = "12m"
	Window24M Window = "24m"
)

// CanonicalWindows lists the four allowed windows in scan order
// (shortest first). "Correlation now" is the first non-null value in
// this order.
var CanonicalWindows = []Window{Window3M, Window6M, Window12M, Window24M}

// IsCanonical reports whether w is one of the four allowed windows.
func (w Window) IsCanonical() bool {
	switch w {
	case Window3M, Window6M, Window12M, Window24M:
		return true
	}
	return false
}

// CorrelationPoint is one correlation reading supplied by the statistical
// correlation engine. Value is nil when the sample was insufficient.
type CorrelationPoint struct {
	Symbol     string    `json:"symbol"`
	Benchmark  string    `json:"benchmark"`
	Window     Window    `json:"window"`
	Value      *float64  `json:"value"`
	SampleSize int       `json:"sample_size"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ShiftRegime classifies the move between the 12m and 3m correlation.
type ShiftRegime string

const (
	ShiftBreak       ShiftRegime = "Break"
	ShiftReinforcing ShiftRegime = "Reinforcing"
	ShiftStable      ShiftRegime = "Stable"
	ShiftWeak        ShiftRegime = "Weak"
)

// CorrelationShift is the shift classification for one (symbol, benchmark).
type CorrelationShift struct {
	Symbol    string      `json:"symbol"`
	Benchmark string      `json:"benchmark"`
	Corr12M   *float64    `json:"corr_12m"`
	Corr3M    *float64    `json:"corr_3m"`
	Delta     *float64    `json:"delta"`
	Regime    ShiftRegime `json:"regime"`
}

// CorrelationTrend describes how a correlation is evolving.
type CorrelationTrend string

const (
	TrendStrengthening CorrelationTrend = "Strengthening"
	TrendWeakening     CorrelationTrend = "Weakening"
	TrendFlat          CorrelationTrend = "Stable"
	TrendInconclusive  CorrelationTrend = "Inconclusive"
)

// CorrelationSummary condenses one (symbol, benchmark) pair into the fields
// the synthesizer and delta engine consume. The per-window values are kept
// so the correlation anchor (|corr| > 0.7, 12m→6m→3m) can be located without
// going back to the raw points.
type CorrelationSummary struct {
	Symbol              string           `json:"symbol"`
	Benchmark           string           `json:"benchmark"`
	StrongestWindow     Window           `json:"strongest_window"`
	CorrelationNow      *float64         `json:"correlation_now"`
	Trend               CorrelationTrend `json:"trend"`
	MacroRelevanceScore float64          `json:"macro_relevance_score"`
	Corr3M              *float64         `json:"corr_3m"`
	Corr6M              *float64         `json:"corr_6m"`
	Corr12M             *float64         `json:"corr_12m"`
	Corr24M             *float64         `json:"corr_24m"`
}

// Value returns the pair's correlation for a canonical window.
func (s CorrelationSummary) Value(w Window) *float64 {
	switch w {
	case Window3M:
		return s.Corr3M
	case Window6M:
		return s.Corr6M
	case Window12M:
		return s.Corr12M
	case Window24M:
		return s.Corr24M
	}
	return nil
}

// CorrelationState is the Correlation Analyzer output.
type CorrelationState struct {
	Shifts    []CorrelationShift   `json:"shifts"`
	Summaries []CorrelationSummary `json:"summaries"`
	UpdatedAt time.Time            `json:"updated_at"`
}
