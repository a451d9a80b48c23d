package regime

import (
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
)

// scoreUSD computes the USD bias axis: normalize each delta by its fixed
// divisor, clamp to [-1, 1], average, then classify at ±0.25.
func scoreUSD(set *observationSet) (contracts.USDBias, float64, error) {
	twd, err := set.delta(macroconfig.KeyTradeWeightedDollar)
	if err != nil {
		return "", 0, err
	}
	curve, err := set.delta(macroconfig.KeyYieldCurve)
	if err != nil {
		return "", 0, err
	}
	pce, err := set.delta(macroconfig.KeyCorePCE)
	if err != nil {
		return "", 0, err
	}
	gdp, err := set.delta(macroconfig.KeyGDP)
	if err != nil {
		return "", 0, err
	}

	div := set.cfg.USDBias
	components := []float64{
		clamp(twd/div.TWDDivisor, -1, 1),
		clamp(curve/div.YieldCurveDivisor, -1, 1),
		clamp(pce/div.CorePCEDivisor, -1, 1),
		clamp(gdp/div.GDPDivisor, -1, 1),
	}

	var sum float64
	for _, c := range components {
		sum += c
	}
	score := sum / float64(len(components))

	switch {
	case score > biasThreshold:
		return contracts.USDBullish, score, nil
	case score < -biasThreshold:
		return contracts.USDBearish, score, nil
	default:
		return contracts.USDNeutral, score, nil
	}
}
