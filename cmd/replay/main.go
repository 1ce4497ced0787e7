package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/shootout/internal/replay"
)

func main() {
	var (
		serverCfg   = flag.String("config", os.Getenv("SHOOTOUT_CONFIG"), "Server config file whose tiers, catalog and scalar apply")
		catalogPath = flag.String("catalog", "", "YAML catalog file (default: from -config, else embedded catalog)")
		division    = flag.String("division", "", "Division whose pool is drawn")
		seed        = flag.String("seed", "", "Seed recorded with the order")
		count       = flag.Int("count", 1, "Number of items the order drew")
		exclude     = flag.String("exclude", "", "Comma-separated item ids owned at purchase time")
		scalar      = flag.String("scalar", "", "Draw scalar: legacy or splitmix (default: from -config, else legacy)")
		expect      = flag.String("expect", "", "Comma-separated recorded item ids to verify")
		verbose     = flag.Bool("verbose", false, "Log every sub-draw")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		replay.ShowHelp(os.Stdout)
		return
	}

	if err := replay.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := &replay.Config{
		ServerConfig: *serverCfg,
		CatalogPath:  *catalogPath,
		Division:     *division,
		Seed:         *seed,
		Count:        *count,
		Exclude:      replay.SplitList(*exclude),
		Scalar:       *scalar,
		Expect:       replay.SplitList(*expect),
		Verbose:      *verbose,
	}
	if _, err := replay.Run(context.Background(), cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
