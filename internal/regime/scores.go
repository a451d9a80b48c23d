package regime

import (
	"fmt"

	"github.com/lrivero/macrolens/internal/contracts"
	"github.com/lrivero/macrolens/internal/macroconfig"
)

// Classification thresholds shared by the axis scorers.
const (
	biasThreshold      = 0.25 // USD bullish/bearish and risk ON/OFF cutoff
	creditStressAbove  = 0.4
	creditLowBelow     = -0.3
	liquidityLowBelow  = -0.25
)

// observationSet indexes the cycle's observations by raw key and resolves
// canonical keys through the configured alias lists.
type observationSet struct {
	byKey map[string]contracts.IndicatorObservation
	cfg   *macroconfig.Config
}

func newObservationSet(cfg *macroconfig.Config, observations []contracts.IndicatorObservation) *observationSet {
	byKey := make(map[string]contracts.IndicatorObservation, len(observations))
	for _, obs := range observations {
		byKey[obs.Key] = obs
	}
	return &observationSet{byKey: byKey, cfg: cfg}
}

// resolve tries each alias of the canonical key in order and returns the
// first match. A miss on a required series is fatal upstream: the regime is
// never fabricated from partial data.
func (s *observationSet) resolve(canonical string) (contracts.IndicatorObservation, error) {
	candidates := s.cfg.AliasesFor(canonical)
	for _, key := range candidates {
		if obs, ok := s.byKey[key]; ok {
			return obs, nil
		}
	}
	return contracts.IndicatorObservation{}, fmt.Errorf(
		"required indicator %q not found (tried %v)", canonical, candidates)
}

// delta resolves a canonical key and returns its change vs the previous
// reading.
func (s *observationSet) delta(canonical string) (float64, error) {
	obs, err := s.resolve(canonical)
	if err != nil {
		return 0, err
	}
	return obs.Delta(), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
