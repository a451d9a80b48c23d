package contracts

import "time"

// Importance is the market impact of a calendar event.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// CalendarEvent is one scheduled economic-calendar event supplied by the
// calendar ingestion collaborator. Date is ISO-8601 UTC.
type CalendarEvent struct {
	Name       string     `json:"name"`
	Date       time.Time  `json:"date"`
	Importance Importance `json:"importance"`
	Country    string     `json:"country"`
	Currency   string     `json:"currency"`
}

// QualityLevel is the outcome of a data-quality invariant check.
type QualityLevel string

const (
	QualityFail QualityLevel = "FAIL"
	QualityWarn QualityLevel = "WARN"
	QualityPass QualityLevel = "PASS"
)

// QualityInvariantResult is one invariant check result from the data-quality
// validator collaborator.
type QualityInvariantResult struct {
	Level   QualityLevel `json:"level"`
	Rule    string       `json:"rule"`
	Message string       `json:"message"`
}
