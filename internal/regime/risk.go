package regime

import (
	"github.com/lrivero/macrolens/internal/contracts"
)

// axisResults feeds the composite risk-appetite scorer.
type axisResults struct {
	usdLabel  contracts.USDBias
	usdScore  float64
	quadLabel contracts.Quadrant
	quadScore float64
	liqLabel  contracts.LiquidityRegime
	liqScore  float64
	credLabel contracts.CreditRegime
	credScore float64
}

// scoreRisk computes the composite risk appetite:
//
//	-usd + liquidity + 0.5·quad - credit
//
// plus discrete adjustments for a few label combinations, clamped to [-1, 1]
// and classified at ±0.25.
func scoreRisk(ax axisResults) (contracts.RiskRegime, float64) {
	score := -ax.usdScore + ax.liqScore + 0.5*ax.quadScore - ax.credScore

	// Discrete heuristic adjustments
	if ax.usdLabel == contracts.USDBullish && ax.liqLabel == contracts.LiquidityLow {
		score -= 0.5
	}
	if ax.usdLabel == contracts.USDBearish &&
		ax.liqLabel == contracts.LiquidityHigh &&
		ax.quadLabel == contracts.QuadGoldilocks {
		score += 0.5
	}
	if ax.credLabel == contracts.CreditStressHigh {
		score -= 0.5
	}

	score = clamp(score, -1, 1)

	switch {
	case score > biasThreshold:
		return contracts.RiskOn, score
	case score < -biasThreshold:
		return contracts.RiskOff, score
	default:
		return contracts.RiskNeutral, score
	}
}
