package regime

import (
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
)

// scoreLiquidity classifies system liquidity from the balance-sheet,
// reverse-repo, treasury-cash and M2 deltas. The score is a pseudo z-scored
// linear combination (each delta over its divisor; RRP and TGA drain
// liquidity, so they enter with a negative sign), clamped to [-1, 1].
//
// Label heuristics: an expanding balance sheet with no net drain is High; a
// shrinking balance sheet while the drains fill is Contracting; a clearly
// negative score is Low; everything else is Medium.
func scoreLiquidity(set *observationSet) (contracts.LiquidityRegime, float64, error) {
	bs, err := set.delta(macroconfig.KeyBalanceSheet)
	if err != nil {
		return "", 0, err
	}
	rrp, err := set.delta(macroconfig.KeyReverseRepo)
	if err != nil {
		return "", 0, err
	}
	tga, err := set.delta(macroconfig.KeyTreasuryCash)
	if err != nil {
		return "", 0, err
	}
	m2, err := set.delta(macroconfig.KeyM2)
	if err != nil {
		return "", 0, err
	}

	div := set.cfg.Liquidity
	score := clamp(
		bs/div.BalanceSheetDivisor-
			rrp/div.ReverseRepoDivisor-
			tga/div.TreasuryCashDivisor+
			m2/div.M2Divisor,
		-1, 1)

	drains := rrp + tga

	var label contracts.LiquidityRegime
	switch {
	case bs > 0 && drains <= 0:
		label = contracts.LiquidityHigh
	case bs < 0 && drains > 0:
		label = contracts.LiquidityContracting
	case score < liquidityLowBelow:
		label = contracts.LiquidityLow
	default:
		label = contracts.LiquidityMedium
	}

	return label, score, nil
}
