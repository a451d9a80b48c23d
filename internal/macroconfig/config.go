package macroconfig

import "time"

// Config is the full scoring configuration for the regime classifier:
// alias tables, normalization divisors and the tactical instrument list.
// Loaded once at startup and passed explicitly to every scorer; there is no
// global singleton.
type Config struct {
	Meta      Meta                `yaml:"meta" json:"meta"`
	Aliases   map[string][]string `yaml:"aliases" json:"aliases"`
	USDBias   USDBiasConfig       `yaml:"usd_bias" json:"usd_bias"`
	Liquidity LiquidityConfig     `yaml:"liquidity" json:"liquidity"`
	Credit    CreditConfig        `yaml:"credit" json:"credit"`
	Tactical  TacticalConfig      `yaml:"tactical" json:"tactical"`

	// resolved is the canonical-key → candidate-list map, built once at load
	// time so alias resolution never rebuilds it per lookup.
	resolved map[string][]string
}

// Meta identifies the config revision.
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// USDBiasConfig holds the fixed normalization divisors for the USD bias
// axis. Each delta is divided by its divisor before clamping to [-1, 1].
type USDBiasConfig struct {
	TWDDivisor        float64 `yaml:"twd_divisor" json:"twd_divisor"`
	YieldCurveDivisor float64 `yaml:"yield_curve_divisor" json:"yield_curve_divisor"`
	CorePCEDivisor    float64 `yaml:"core_pce_divisor" json:"core_pce_divisor"`
	GDPDivisor        float64 `yaml:"gdp_divisor" json:"gdp_divisor"`
}

// LiquidityConfig holds the divisors of the pseudo z-scored liquidity
// combination. Units follow the upstream series (billions of USD for the
// Fed balance sheet, RRP and TGA; percent YoY for M2).
type LiquidityConfig struct {
	BalanceSheetDivisor float64 `yaml:"balance_sheet_divisor" json:"balance_sheet_divisor"`
	ReverseRepoDivisor  float64 `yaml:"reverse_repo_divisor" json:"reverse_repo_divisor"`
	TreasuryCashDivisor float64 `yaml:"treasury_cash_divisor" json:"treasury_cash_divisor"`
	M2Divisor           float64 `yaml:"m2_divisor" json:"m2_divisor"`
}

// CreditConfig holds the credit-stress normalization divisors.
type CreditConfig struct {
	YieldCurveDivisor   float64 `yaml:"yield_curve_divisor" json:"yield_curve_divisor"`
	CreditSpreadDivisor float64 `yaml:"credit_spread_divisor" json:"credit_spread_divisor"`
}

// TacticalConfig lists the instruments the classifier produces tactical rows
// for. Inverse instruments (safe havens) flip the suggested direction.
type TacticalConfig struct {
	Instruments []Instrument `yaml:"instruments" json:"instruments"`
}

// Instrument is one tactical row definition.
type Instrument struct {
	Symbol    string `yaml:"symbol" json:"symbol"`
	Benchmark string `yaml:"benchmark" json:"benchmark"`
	Inverse   bool   `yaml:"inverse" json:"inverse"`
}

// Canonical indicator keys. Alias resolution maps historical key names onto
// these.
const (
	KeyTradeWeightedDollar = "trade_weighted_dollar"
	KeyYieldCurve          = "yield_curve"
	KeyCorePCE             = "core_pce"
	KeyGDP                 = "gdp"
	KeyCPI                 = "cpi"
	KeyBalanceSheet        = "balance_sheet"
	KeyReverseRepo         = "reverse_repo"
	KeyTreasuryCash        = "treasury_cash"
	KeyM2                  = "m2"
	KeyCreditSpread        = "credit_spread"
)

// requiredKeys are the canonical series without which the baseline regime
// cannot be computed. A missing one is a fatal error, never a fallback.
var requiredKeys = []string{
	KeyTradeWeightedDollar,
	KeyYieldCurve,
	KeyCorePCE,
	KeyGDP,
	KeyCPI,
	KeyBalanceSheet,
	KeyReverseRepo,
	KeyTreasuryCash,
	KeyM2,
	KeyCreditSpread,
}

// RequiredKeys returns the canonical keys every evaluation cycle must resolve.
func RequiredKeys() []string {
	out := make([]string, len(requiredKeys))
	copy(out, requiredKeys)
	return out
}

// AliasesFor returns the lookup candidates for a canonical key, in priority
// order. The canonical key itself is always tried first; the configured
// historical aliases follow.
func (c *Config) AliasesFor(canonical string) []string {
	return c.resolved[canonical]
}

// finalize precomputes the alias candidate lists.
func (c *Config) finalize() {
	c.resolved = make(map[string][]string, len(requiredKeys))
	for _, key := range requiredKeys {
		candidates := []string{key}
		for _, alias := range c.Aliases[key] {
			if alias != key {
				candidates = append(candidates, alias)
			}
		}
		c.resolved[key] = candidates
	}
}

// DecisionSnapshot ties an evaluation to the exact config it used.
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigID   string    `json:"config_id"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}
