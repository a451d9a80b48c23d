package snapshot

import (
	"github.com/lrivero/macrolens/internal/contracts"
)

var (
	validRisk = map[contracts.RiskRegime]bool{
		contracts.RiskOn: true, contracts.RiskOff: true, contracts.RiskNeutral: true,
	}
	validUSD = map[contracts.USDBias]bool{
		contracts.USDBullish: true, contracts.USDBearish: true, contracts.USDNeutral: true,
	}
	validQuad = map[contracts.Quadrant]bool{
		contracts.QuadGoldilocks: true, contracts.QuadRecesivo: true,
		contracts.QuadStagflation: true, contracts.QuadExpansivo: true,
	}
	validLiquidity = map[contracts.LiquidityRegime]bool{
		contracts.LiquidityHigh: true, contracts.LiquidityLow: true,
		contracts.LiquidityContracting: true, contracts.LiquidityMedium: true,
	}
	validCredit = map[contracts.CreditRegime]bool{
		contracts.CreditLow: true, contracts.CreditMedium: true, contracts.CreditStressHigh: true,
	}
	validShift = map[contracts.ShiftRegime]bool{
		contracts.ShiftBreak: true, contracts.ShiftReinforcing: true,
		contracts.ShiftStable: true, contracts.ShiftWeak: true,
	}
	validImportance = map[contracts.Importance]bool{
		contracts.ImportanceLow: true, contracts.ImportanceMedium: true, contracts.ImportanceHigh: true,
	}
)

// Validate checks a snapshot against the schema. An invalid snapshot is
// returned as an explicit failure carrying every issue found, not a panic:
// downstream consumers must treat it as untrustworthy and render no signal
// from it.
func Validate(snap *contracts.MacroSnapshot) error {
	var issues contracts.ValidationError

	if snap == nil {
		issues.Add("snapshot is nil")
		return issues.OrNil()
	}

	if !validRisk[snap.Regime.Overall] {
		issues.Add("regime.overall %q not in enumerated set", snap.Regime.Overall)
	}
	if !validRisk[snap.Regime.Risk] {
		issues.Add("regime.risk %q not in enumerated set", snap.Regime.Risk)
	}
	if !validUSD[snap.Regime.USDDirection] {
		issues.Add("regime.usd_direction %q not in enumerated set", snap.Regime.USDDirection)
	}
	if !validQuad[snap.Regime.Quad] {
		issues.Add("regime.quad %q not in enumerated set", snap.Regime.Quad)
	}
	if !validLiquidity[snap.Regime.Liquidity] {
		issues.Add("regime.liquidity %q not in enumerated set", snap.Regime.Liquidity)
	}
	if !validCredit[snap.Regime.Credit] {
		issues.Add("regime.credit %q not in enumerated set", snap.Regime.Credit)
	}

	if snap.Score < -100 || snap.Score > 100 {
		issues.Add("score %v outside [-100, 100]", snap.Score)
	}

	for key, v := range snap.Metrics {
		if v < -1 || v > 1 {
			issues.Add("metrics[%s] %v outside [-1, 1]", key, v)
		}
	}

	for i, s := range snap.Correlations {
		if s.StrongestWindow != "" && !s.StrongestWindow.IsCanonical() {
			issues.Add("correlations[%d].strongest_window %q not canonical", i, s.StrongestWindow)
		}
		if s.MacroRelevanceScore < 0 || s.MacroRelevanceScore > 1 {
			issues.Add("correlations[%d].macro_relevance_score %v outside [0, 1]", i, s.MacroRelevanceScore)
		}
	}

	for i, sh := range snap.CorrelationShifts {
		if !validShift[sh.Regime] {
			issues.Add("correlation_shifts[%d].regime %q not in enumerated set", i, sh.Regime)
		}
	}

	for i, ev := range snap.UpcomingEvents {
		if !validImportance[ev.Importance] {
			issues.Add("upcoming_events[%d].importance %q not in enumerated set", i, ev.Importance)
		}
		if ev.Date.IsZero() {
			issues.Add("upcoming_events[%d].date is zero", i)
		}
	}

	if snap.UpdatedAt.IsZero() {
		issues.Add("updated_at is zero")
	}
	if snap.BiasUpdatedAt.IsZero() {
		issues.Add("bias_updated_at is zero")
	}
	if snap.CorrelationUpdatedAt.IsZero() {
		issues.Add("correlation_updated_at is zero")
	}

	return issues.OrNil()
}
