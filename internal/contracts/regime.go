package contracts

import "time"

// USDBias classifies the dollar direction.
type USDBias string

const (
	USDBullish USDBias = "Bullish"
	USDBearish USDBias = "Bearish"
	USDNeutral USDBias = "Neutral"
)

// Quadrant is the growth/inflation quadrant label.
type Quadrant string

const (
	QuadGoldilocks  Quadrant = "Goldilocks"
	QuadRecesivo    Quadrant = "Recesivo"
	QuadStagflation Quadrant = "Stagflation"
	QuadExpansivo   Quadrant = "Expansivo"
)

// LiquidityRegime classifies system liquidity.
type LiquidityRegime string

const (
	LiquidityHigh        LiquidityRegime = "High"
	LiquidityLow         LiquidityRegime = "Low"
	LiquidityContracting LiquidityRegime = "Contracting"
	LiquidityMedium      LiquidityRegime = "Medium"
)

// CreditRegime classifies credit stress.
type CreditRegime string

const (
	CreditLow        CreditRegime = "Low"
	CreditMedium     CreditRegime = "Medium"
	CreditStressHigh CreditRegime = "Stress High"
)

// RiskRegime is the composite risk-appetite label.
type RiskRegime string

const (
	RiskOn      RiskRegime = "Risk ON"
	RiskOff     RiskRegime = "Risk OFF"
	RiskNeutral RiskRegime = "Neutral"
)

// RegimeSet groups every regime label produced by one classification pass.
type RegimeSet struct {
	Overall      RiskRegime      `json:"overall"`
	USDDirection USDBias         `json:"usd_direction"`
	Quad         Quadrant        `json:"quad"`
	Liquidity    LiquidityRegime `json:"liquidity"`
	Credit       CreditRegime    `json:"credit"`
	Risk         RiskRegime      `json:"risk"`
}

// ScoreSet holds the numeric sub-score behind each regime axis.
// Every score is clamped to [-1, 1] at computation time.
type ScoreSet struct {
	USD       float64 `json:"usd"`
	Quad      float64 `json:"quad"`
	Liquidity float64 `json:"liquidity"`
	Credit    float64 `json:"credit"`
	Risk      float64 `json:"risk"`
}

// TacticalRow is a per-instrument suggestion derived from the regime pass.
// Correlation may be filled in by the enrichment step; nil means unknown.
type TacticalRow struct {
	Symbol      string   `json:"symbol"`
	Benchmark   string   `json:"benchmark"`
	Direction   string   `json:"direction"` // long, short, neutral
	Confidence  float64  `json:"confidence"`
	Correlation *float64 `json:"correlation,omitempty"`
}

// BiasState is the Regime Classifier output. Recomputed fresh on every call;
// UpdatedAt is computation time, not data time, and is not a cache key.
type BiasState struct {
	Regime       RegimeSet              `json:"regime"`
	Scores       ScoreSet               `json:"scores"`
	Observations []IndicatorObservation `json:"observations"`
	Tactical     []TacticalRow          `json:"tactical"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
