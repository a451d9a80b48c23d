package contracts

import "time"

// WeightedDriver is one weighted macro factor contributing to the composite
// score. Direction is "up" or "down" from the sign of the series delta.
type WeightedDriver struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Weight    float64 `json:"weight"`
	Direction string  `json:"direction"`
}

// MacroSnapshot is the point-in-time union of the regime pass, the
// correlation pass and the calendar. It is the schema-validated contract
// shared by the Signal Synthesizer and the Delta Engine: fully serializable
// and diffable. The caller retains the previous snapshot between cycles; the
// core stores nothing.
type MacroSnapshot struct {
	Regime RegimeSet `json:"regime"`

	// Composite score on a [-100, 100] scale (risk sub-score × 100).
	Score float64 `json:"score"`

	// Drivers sorted by |weight| descending.
	Drivers []WeightedDriver `json:"drivers"`

	// Headline supplied by the narrative collaborator; may be empty.
	Headline string `json:"headline,omitempty"`

	UpcomingEvents []CalendarEvent `json:"upcoming_events"`

	Correlations      []CorrelationSummary `json:"correlations"`
	CorrelationShifts []CorrelationShift   `json:"correlation_shifts"`

	// Metrics carries the raw axis sub-scores for UI display.
	Metrics map[string]float64 `json:"metrics"`

	// CurrencyRegimes maps currency code to its regime label.
	CurrencyRegimes map[string]string `json:"currency_regimes"`

	UpdatedAt            time.Time `json:"updated_at"`
	BiasUpdatedAt        time.Time `json:"bias_updated_at"`
	CorrelationUpdatedAt time.Time `json:"correlation_updated_at"`
}

// TopDriver returns the driver with the largest |weight| above the floor, or
// nil when no driver qualifies.
func (s *MacroSnapshot) TopDriver(minAbsWeight float64) *WeightedDriver {
	var top *WeightedDriver
	for i := range s.Drivers {
		d := &s.Drivers[i]
		if abs(d.Weight) <= minAbsWeight {
			continue
		}
		if top == nil || abs(d.Weight) > abs(top.Weight) {
			top = d
		}
	}
	return top
}

// AnchorCorrelation is the single correlation a decision leans on: the first
// pair whose reading exceeds the magnitude floor, scanning windows 12m, then
// 6m, then 3m.
type AnchorCorrelation struct {
	Symbol    string
	Benchmark string
	Window    Window
	Value     float64
}

var anchorScanOrder = []Window{Window12M, Window6M, Window3M}

// Anchor locates the anchor correlation, or nil when no pair qualifies.
func (s *MacroSnapshot) Anchor(minAbsCorr float64) *AnchorCorrelation {
	for _, w := range anchorScanOrder {
		for _, sum := range s.Correlations {
			v := sum.Value(w)
			if v == nil || abs(*v) <= minAbsCorr {
				continue
			}
			return &AnchorCorrelation{
				Symbol:    sum.Symbol,
				Benchmark: sum.Benchmark,
				Window:    w,
				Value:     *v,
			}
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
