// Package replay re-runs recorded draws offline so disputed orders can be
// audited without the service.
package replay

import (
	"strings"

	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/tier"
)

// Config holds the inputs of one replay.
//
// ServerConfig names the YAML file the server ran with. When set, its tier
// overrides, catalog path and draw scalar fill in whatever the fields below
// leave empty, so the catalog is validated and generated exactly as the
// server loaded it.
type Config struct {
	ServerConfig string      // server config file; empty uses built-in settings
	Tiers        *tier.Table // division table; nil uses ServerConfig or the defaults
	CatalogPath  string      // YAML catalog; empty uses the embedded one
	Division     string      // division whose pool is drawn from
	Seed         string      // seed recorded with the order
	Count        int         // number of items the order drew
	Exclude      []string    // item ids the player owned at purchase time
	Scalar       string      // draw scalar name: legacy or splitmix
	Expect       []string    // item ids the order recorded; empty skips verification
	Verbose      bool        // log each sub-draw
}

// Report is the JSON document printed by the replay tool.
type Report struct {
	Config   string             `json:"config,omitempty"`
	Division string             `json:"division"`
	Seed     string             `json:"seed"`
	Scalar   string             `json:"scalar"`
	Count    int                `json:"count"`
	Excluded []string           `json:"excluded,omitempty"`
	Result   draw.Result        `json:"result"`
	Odds     map[string]float64 `json:"odds"`
	Verified *bool              `json:"verified,omitempty"`
}

// SplitList parses a comma-separated flag value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
