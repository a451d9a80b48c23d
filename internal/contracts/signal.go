package contracts

import "time"

// Action is the trade decision.
type Action string

const (
	ActionLong    Action = "LONG"
	ActionShort   Action = "SHORT"
	ActionNeutral Action = "NEUTRAL"
	ActionNoTrade Action = "NO_TRADE"
)

// BiasDirection is the directional lean derived from the composite score.
type BiasDirection string

const (
	BiasLong    BiasDirection = "long"
	BiasShort   BiasDirection = "short"
	BiasFlat    BiasDirection = "neutral"
)

// Conviction is the confidence tier gating position size.
type Conviction string

const (
	ConvictionLow  Conviction = "low"
	ConvictionMed  Conviction = "med"
	ConvictionHigh Conviction = "high"
)

// FlagSeverity ranks a risk flag.
type FlagSeverity string

const (
	FlagHigh   FlagSeverity = "high"
	FlagMedium FlagSeverity = "medium"
)

// RiskFlag is one prioritized risk condition attached to a signal.
type RiskFlag struct {
	Severity FlagSeverity `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
}

// ExecutionChecklist echoes the setup and lists blockers and invalidation
// conditions for the decision.
type ExecutionChecklist struct {
	Setup        []string `json:"setup"`
	Blockers     []string `json:"blockers"`
	Invalidation []string `json:"invalidation"`
}

// PositionSizing is the risk-unit recommendation. RecommendedRiskUnits is
// forced to 0 whenever the action is NO_TRADE.
type PositionSizing struct {
	BaseRiskUnits        float64 `json:"base_risk_units"`
	ReductionFactor      float64 `json:"reduction_factor"`
	RecommendedRiskUnits float64 `json:"recommended_risk_units"`
	Rationale            string  `json:"rationale"`
}

// ExecutionPlan carries entry guidance plus the triggers that void it.
type ExecutionPlan struct {
	Entry                  string   `json:"entry"`
	InvalidationTriggers   []string `json:"invalidation_triggers"`
	CancellationConditions []string `json:"cancellation_conditions"`
}

// CooldownState is a time-boxed suppression of re-entry signals after a
// hard-stop delta. Derived fresh from the current delta list on every call;
// it has no persisted identity, so a still-present hard stop slides the
// one-hour window forward.
type CooldownState struct {
	IsActive                bool      `json:"is_active"`
	Reason                  string    `json:"reason"`
	ExpiresAt               time.Time `json:"expires_at"`
	RevalidationConditions  []string  `json:"revalidation_conditions"`
}

// TimeToEvent is the countdown to the next qualifying calendar event.
// Omitted entirely when no qualifying event exists; never zero-filled.
type TimeToEvent struct {
	Event   string  `json:"event"`
	Minutes float64 `json:"minutes"`
}

// MacroSignal is the decision artifact. Ephemeral; never persisted by the
// core itself.
type MacroSignal struct {
	Action       Action        `json:"action"`
	ActionReason string        `json:"action_reason"`

	BiasDirection BiasDirection `json:"bias_direction"`
	Conviction    Conviction    `json:"conviction"`

	RiskFlags     []RiskFlag `json:"risk_flags"`
	PlaybookNotes []string   `json:"playbook_notes"` // at most 5

	ExecutionChecklist ExecutionChecklist `json:"execution_checklist"`

	PositionSizing  *PositionSizing `json:"position_sizing,omitempty"`
	ExecutionPlan   *ExecutionPlan  `json:"execution_plan,omitempty"`
	CooldownState   *CooldownState  `json:"cooldown_state,omitempty"`
	TimeToNextEvent *TimeToEvent    `json:"time_to_next_event,omitempty"`
	Deltas          []SnapshotDelta `json:"deltas,omitempty"`

	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}
