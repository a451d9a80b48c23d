package regime

import (
	"context"
	"fmt"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
	"github.com/lrivero/macrolens/pkg/logger"
)

// CorrelationSource supplies the latest correlation value per symbol for
// tactical-row enrichment. Implemented by the store (Postgres) and the
// redis-backed cache wrapper; nil when enrichment is not wired.
type CorrelationSource interface {
	// FetchLatest returns symbol → latest correlation value in one batched
	// call. A symbol missing from the map, or mapped to nil, is unknown.
	FetchLatest(ctx context.Context, symbols []string) (map[string]*float64, error)
}

// Classifier turns indicator observations into a BiasState.
type Classifier struct {
	cfg    *macroconfig.Config
	source CorrelationSource
	clock  contracts.Clock
	log    *logger.Logger
}

// NewClassifier creates a classifier. source may be nil to skip enrichment.
func NewClassifier(cfg *macroconfig.Config, source CorrelationSource, clock contracts.Clock, log *logger.Logger) *Classifier {
	if clock == nil {
		clock = contracts.SystemClock
	}
	return &Classifier{cfg: cfg, source: source, clock: clock, log: log}
}

// Classify computes the full regime pass. Any failure in the mandatory axis
// computations propagates; only the correlation enrichment step degrades
// gracefully.
func (c *Classifier) Classify(ctx context.Context, observations []contracts.IndicatorObservation) (*contracts.BiasState, error) {
	set := newObservationSet(c.cfg, observations)

	usdLabel, usdScore, err := scoreUSD(set)
	if err != nil {
		return nil, fmt.Errorf("usd bias: %w", err)
	}
	quadLabel, quadScore, err := scoreQuadrant(set)
	if err != nil {
		return nil, fmt.Errorf("growth/inflation quadrant: %w", err)
	}
	liqLabel, liqScore, err := scoreLiquidity(set)
	if err != nil {
		return nil, fmt.Errorf("liquidity regime: %w", err)
	}
	credLabel, credScore, err := scoreCredit(set)
	if err != nil {
		return nil, fmt.Errorf("credit stress: %w", err)
	}

	riskLabel, riskScore := scoreRisk(axisResults{
		usdLabel: usdLabel, usdScore: usdScore,
		quadLabel: quadLabel, quadScore: quadScore,
		liqLabel: liqLabel, liqScore: liqScore,
		credLabel: credLabel, credScore: credScore,
	})

	state := &contracts.BiasState{
		Regime: contracts.RegimeSet{
			Overall:      riskLabel,
			USDDirection: usdLabel,
			Quad:         quadLabel,
			Liquidity:    liqLabel,
			Credit:       credLabel,
			Risk:         riskLabel,
		},
		Scores: contracts.ScoreSet{
			USD:       usdScore,
			Quad:      quadScore,
			Liquidity: liqScore,
			Credit:    credScore,
			Risk:      riskScore,
		},
		Observations: observations,
		Tactical:     c.tacticalRows(riskLabel, riskScore),
		UpdatedAt:    c.clock(),
	}

	c.enrich(ctx, state)

	return state, nil
}

// tacticalRows derives one suggested row per configured instrument from the
// composite risk read. Inverse instruments flip the direction.
func (c *Classifier) tacticalRows(risk contracts.RiskRegime, riskScore float64) []contracts.TacticalRow {
	rows := make([]contracts.TacticalRow, 0, len(c.cfg.Tactical.Instruments))
	confidence := clamp(abs(riskScore), 0, 1)

	for _, inst := range c.cfg.Tactical.Instruments {
		direction := "neutral"
		switch risk {
		case contracts.RiskOn:
			direction = "long"
		case contracts.RiskOff:
			direction = "short"
		}
		if inst.Inverse && direction != "neutral" {
			if direction == "long" {
				direction = "short"
			} else {
				direction = "long"
			}
		}

		rows = append(rows, contracts.TacticalRow{
			Symbol:     inst.Symbol,
			Benchmark:  inst.Benchmark,
			Direction:  direction,
			Confidence: confidence,
		})
	}

	return rows
}

// enrich batch-fetches correlation values for every distinct tactical symbol
// in a single call (one fan-out, not per-row) and merges them in. Merge rule:
// prefer a freshly fetched non-null value, otherwise keep whatever the row
// already had — a known value is never overwritten with null. Fetch failures
// are logged and ignored.
func (c *Classifier) enrich(ctx context.Context, state *contracts.BiasState) {
	if c.source == nil || len(state.Tactical) == 0 {
		return
	}

	seen := make(map[string]bool, len(state.Tactical))
	symbols := make([]string, 0, len(state.Tactical))
	for _, row := range state.Tactical {
		if !seen[row.Symbol] {
			seen[row.Symbol] = true
			symbols = append(symbols, row.Symbol)
		}
	}

	fetched, err := c.source.FetchLatest(ctx, symbols)
	if err != nil {
		if c.log != nil {
			c.log.WithError(err).Warn("Correlation enrichment failed, keeping prior values")
		}
		return
	}

	for i := range state.Tactical {
		row := &state.Tactical[i]
		if v, ok := fetched[row.Symbol]; ok && v != nil {
			row.Correlation = v
		}
	}
}
