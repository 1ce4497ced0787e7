package replay

import (
	"io"

	"github.com/okian/shootout/pkg/logger"
)

// SetupLogging sends logs to w so the JSON report on stdout stays clean.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return err
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return logger.SetLevelString("warn")
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Shootout Draw Replay
====================

Re-runs a recorded order draw offline and prints the result as JSON.

Usage:
  replay -division D -seed S -count N [options]

Options:
  -config string
        Server config file; its tier overrides, catalog_path and draw_scalar
        apply unless overridden below (default: $SHOOTOUT_CONFIG)
  -catalog string
        YAML catalog file (default: from -config, else embedded catalog)
  -division string
        Division whose pool is drawn (tercera, segunda, primera)
  -seed string
        Seed recorded with the order (usually the order id)
  -count int
        Number of items the order drew (default 1)
  -exclude string
        Comma-separated item ids owned at purchase time
  -scalar string
        Draw scalar: legacy or splitmix (default: from -config, else legacy)
  -expect string
        Comma-separated recorded item ids; exits non-zero on mismatch
  -verbose
        Log every sub-draw to stderr
  -help
        Show this help message

Examples:
  replay -division tercera -seed order-123 -count 3
  replay -config /etc/shootout/config.yaml -division segunda -seed o-42 -count 2 -expect seg-gk-001,seg-mf-005
  replay -division primera -seed 9f0c... -count 5 -exclude pri-gk-001 -expect pri-df-002,pri-fw-005
`)
}
