package regime

import (
	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
)

// scoreQuadrant maps the signs of the CPI and GDP deltas onto the
// growth/inflation quadrant. A zero delta counts as falling.
//
//	CPI↓ GDP↑  Goldilocks    CPI↑ GDP↑  Expansivo
//	CPI↓ GDP↓  Recesivo      CPI↑ GDP↓  Stagflation
//
// The score is the average of the two signed unit contributions:
// disinflation and growth are each worth +1, their opposites -1.
func scoreQuadrant(set *observationSet) (contracts.Quadrant, float64, error) {
	cpi, err := set.delta(macroconfig.KeyCPI)
	if err != nil {
		return "", 0, err
	}
	gdp, err := set.delta(macroconfig.KeyGDP)
	if err != nil {
		return "", 0, err
	}

	cpiUp := cpi > 0
	gdpUp := gdp > 0

	inflationUnit := 1.0 // CPI falling
	if cpiUp {
		inflationUnit = -1.0
	}
	growthUnit := 1.0 // GDP rising
	if !gdpUp {
		growthUnit = -1.0
	}
	score := (inflationUnit + growthUnit) / 2

	var quad contracts.Quadrant
	switch {
	case !cpiUp && gdpUp:
		quad = contracts.QuadGoldilocks
	case !cpiUp && !gdpUp:
		quad = contracts.QuadRecesivo
	case cpiUp && !gdpUp:
		quad = contracts.QuadStagflation
	default:
		quad = contracts.QuadExpansivo
	}

	return quad, score, nil
}
