package contracts

import "time"

// Trend describes the direction a macro series is moving in.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// Posture describes the monetary-policy reading of a series.
type Posture string

const (
	PostureHawkish Posture = "hawkish"
	PostureNeutral Posture = "neutral"
	PostureDovish  Posture = "dovish"
)

// IndicatorObservation is one raw macro indicator reading supplied per
// evaluation cycle by the indicator-aggregation subsystem. Immutable inside
// the core; no independent lifecycle.
type IndicatorObservation struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	PrevValue float64   `json:"prev_value"`
	Trend     Trend     `json:"trend"`
	Posture   Posture   `json:"posture"`
	Weight    float64   `json:"weight"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	PrevDate  time.Time `json:"prev_date"`
	Unit      string    `json:"unit"`
}

// Delta returns the change versus the previous reading.
func (o IndicatorObservation) Delta() float64 {
	return o.Value - o.PrevValue
}
