package regime

import (
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
)

// scoreCredit computes the credit-stress axis from the yield-curve and
// credit-spread deltas. Widening spreads and a flattening/inverting curve
// both push the score positive (towards stress). Fixed thresholds:
// score > 0.4 is Stress High, score < -0.3 is Low, Medium otherwise.
func scoreCredit(set *observationSet) (contracts.CreditRegime, float64, error) {
	curve, err := set.delta(macroconfig.KeyYieldCurve)
	if err != nil {
		return "", 0, err
	}
	spread, err := set.delta(macroconfig.KeyCreditSpread)
	if err != nil {
		return "", 0, err
	}

	div := set.cfg.Credit
	spreadComponent := clamp(spread/div.CreditSpreadDivisor, -1, 1)
	curveComponent := clamp(-curve/div.YieldCurveDivisor, -1, 1)
	score := clamp((spreadComponent+curveComponent)/2, -1, 1)

	switch {
	case score > creditStressAbove:
		return contracts.CreditStressHigh, score, nil
	case score < creditLowBelow:
		return contracts.CreditLow, score, nil
	default:
		return contracts.CreditMedium, score, nil
	}
}
