package contracts

// DeltaSeverity ranks a detected change. Severity order (most severe first):
// hard_stop < error < warning < info.
type DeltaSeverity string

const (
	SeverityHardStop DeltaSeverity = "hard_stop"
	SeverityError    DeltaSeverity = "error"
	SeverityWarning  DeltaSeverity = "warning"
	SeverityInfo     DeltaSeverity = "info"
)

// Rank returns the sort rank of the severity; lower sorts first.
func (s DeltaSeverity) Rank() int {
	switch s {
	case SeverityHardStop:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	}
	return 4
}

// MaxDeltas caps the delta list length.
const MaxDeltas = 6

// Delta rule identifiers.
const (
	DeltaRegimeChange            = "regime_change"
	DeltaTopDriverDirection      = "top_driver_direction_change"
	DeltaAnchorCorrelationLost   = "anchor_correlation_lost"
	DeltaScoreCrossesZero        = "score_crosses_zero"
	DeltaScoreSignificant        = "score_delta_significant"
	DeltaEventEntersBlockedZone  = "event_enters_blocked_window"
	DeltaTimeToEvent             = "time_to_event_delta"
	DeltaTopDriverWeight         = "top_driver_weight_change"
)

// SnapshotDelta is one severity-ranked change between two temporally ordered
// snapshots.
type SnapshotDelta struct {
	ID       string                 `json:"id"`
	Severity DeltaSeverity          `json:"severity"`
	Message  string                 `json:"message"`
	Context  map[string]interface{} `json:"context,omitempty"`
}
