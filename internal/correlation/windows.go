package correlation

import (
	"strings"

	"github.com/lrivero/macrolens/internal/contracts"
)

// windowLabels maps heterogeneous upstream window labels onto the four
// canonical windows. Providers disagree on naming; everything funnels
// through this table.
var windowLabels = map[string]contracts.Window{
	"3m":      contracts.Window3M,
	"90d":     contracts.Window3M,
	"quarter": contracts.Window3M,
	"6m":      contracts.Window6M,
	"180d":    contracts.Window6M,
	"12m":     contracts.Window12M,
	"1y":      contracts.Window12M,
	"365d":    contracts.Window12M,
	"annual":  contracts.Window12M,
	"24m":     contracts.Window24M,
	"2y":      contracts.Window24M,
	"730d":    contracts.Window24M,
}

// NormalizeWindow maps a raw window label onto a canonical window.
// Unrecognized labels are rejected rather than guessed.
func NormalizeWindow(label string) (contracts.Window, bool) {
	w, ok := windowLabels[strings.ToLower(strings.TrimSpace(label))]
	return w, ok
}
