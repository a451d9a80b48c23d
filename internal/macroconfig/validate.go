package macroconfig

import "fmt"

// Validate rejects configs that would make the scorers divide by zero or
// leave a tactical row unidentifiable.
func Validate(cfg *Config) error {
	if cfg.Meta.ConfigID == "" {
		return fmt.Errorf("meta.config_id is required")
	}

	divisors := map[string]float64{
		"usd_bias.twd_divisor":            cfg.USDBias.TWDDivisor,
		"usd_bias.yield_curve_divisor":    cfg.USDBias.YieldCurveDivisor,
		"usd_bias.core_pce_divisor":       cfg.USDBias.CorePCEDivisor,
		"usd_bias.gdp_divisor":            cfg.USDBias.GDPDivisor,
		"liquidity.balance_sheet_divisor": cfg.Liquidity.BalanceSheetDivisor,
		"liquidity.reverse_repo_divisor":  cfg.Liquidity.ReverseRepoDivisor,
		"liquidity.treasury_cash_divisor": cfg.Liquidity.TreasuryCashDivisor,
		"liquidity.m2_divisor":            cfg.Liquidity.M2Divisor,
		"credit.yield_curve_divisor":      cfg.Credit.YieldCurveDivisor,
		"credit.credit_spread_divisor":    cfg.Credit.CreditSpreadDivisor,
	}
	for name, v := range divisors {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}

	seen := make(map[string]bool)
	for i, inst := range cfg.Tactical.Instruments {
		if inst.Symbol == "" {
			return fmt.Errorf("tactical.instruments[%d]: symbol is required", i)
		}
		if inst.Benchmark == "" {
			return fmt.Errorf("tactical.instruments[%d]: benchmark is required", i)
		}
		pair := inst.Symbol + "/" + inst.Benchmark
		if seen[pair] {
			return fmt.Errorf("tactical.instruments[%d]: duplicate pair %s", i, pair)
		}
		seen[pair] = true
	}

	return nil
}
