package macroconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML scoring config. KnownFields(true) makes typos and
// unused fields fail immediately instead of silently defaulting.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.finalize()
	return &cfg, nil
}

// Default returns the built-in scoring config used when no YAML file is
// provided (library callers, tests).
func Default() *Config {
	cfg := &Config{
		Meta: Meta{ConfigID: "macro_core_default", Version: "1.0"},
		Aliases: map[string][]string{
			KeyTradeWeightedDollar: {"dxy", "twd", "usd_index"},
			KeyYieldCurve:          {"t10y2y", "yield_curve_spread"},
			KeyCorePCE:             {"pce_core", "core_pce_yoy"},
			KeyGDP:                 {"gdp_growth", "gdp_qoq"},
			KeyCPI:                 {"cpi_yoy", "inflation"},
			KeyBalanceSheet:        {"walcl", "fed_balance_sheet"},
			KeyReverseRepo:         {"rrp", "on_rrp"},
			KeyTreasuryCash:        {"tga", "treasury_general_account"},
			KeyM2:                  {"m2sl", "m2_yoy"},
			KeyCreditSpread:        {"hy_oas", "high_yield_spread"},
		},
		USDBias: USDBiasConfig{
			TWDDivisor:        2.0,
			YieldCurveDivisor: 0.5,
			CorePCEDivisor:    0.3,
			GDPDivisor:        1.0,
		},
		Liquidity: LiquidityConfig{
			BalanceSheetDivisor: 100.0,
			ReverseRepoDivisor:  200.0,
			TreasuryCashDivisor: 200.0,
			M2Divisor:           2.0,
		},
		Credit: CreditConfig{
			YieldCurveDivisor:   0.5,
			CreditSpreadDivisor: 0.75,
		},
		Tactical: TacticalConfig{
			Instruments: []Instrument{
				{Symbol: "SPX", Benchmark: "DXY"},
				{Symbol: "NDX", Benchmark: "US10Y"},
				{Symbol: "XAUUSD", Benchmark: "DXY", Inverse: true},
				{Symbol: "BTCUSD", Benchmark: "SPX"},
				{Symbol: "EURUSD", Benchmark: "DXY", Inverse: true},
			},
		},
	}
	cfg.finalize()
	return cfg
}

// Hash generates a SHA-256 hash from the config (canonical JSON). Structs,
// not maps, keep the field order deterministic — except Aliases, which the
// JSON encoder sorts by key.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewDecisionSnapshot creates an audit record tying an evaluation to its
// exact config revision.
func NewDecisionSnapshot(cfg *Config) (*DecisionSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &DecisionSnapshot{
		ConfigHash: hash,
		ConfigID:   cfg.Meta.ConfigID,
		Version:    cfg.Meta.Version,
		CreatedAt:  time.Now(),
	}, nil
}
