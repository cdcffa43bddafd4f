package cmd

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edgelab/outcomes/config"
	"github.com/edgelab/outcomes/logger"
	"github.com/edgelab/outcomes/market"
	"github.com/edgelab/outcomes/methodology"
	"github.com/edgelab/outcomes/store"
)

var rootCmd = &cobra.Command{
	Use:   "outcomes",
	Short: "Deterministic trade outcome resolution over historical bar data",
	Long: `Outcomes walks minute-resolution OHLCV bars for each recorded trade
and resolves a deterministic exit (stop, R-multiple target, or end of
day) under several competing stop methodologies, then reconciles them
into one canonical outcome per trade.

It provides commands for:
  - Importing trades and bar series from CSV (plain or xz-compressed)
  - Running the incremental batch resolver
  - Reporting win rate and expectancy over resolved outcomes
  - Watching for new trades on a cron schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgFile  string
	dbPath   string
	logLevel string
	pretty   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON; defaults to $OUTCOMES_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console log output")
}

// loadConfig resolves the effective configuration: file (or defaults)
// with command-line overrides applied on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if pretty {
		cfg.Log.Pretty = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
}

func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Database.Path)
}

func buildSession(cfg *config.Config) (market.SessionSpec, error) {
	loc, err := time.LoadLocation(cfg.Session.Timezone)
	if err != nil {
		return market.SessionSpec{}, err
	}
	return market.SessionSpec{Location: loc, Cutoff: cfg.Session.Cutoff}, nil
}

func buildSet(cfg *config.Config) (methodology.Set, error) {
	return methodology.NewSet(
		cfg.Methodologies.Primary,
		cfg.Methodologies.Fallback,
		cfg.Methodologies.Descriptive,
		methodology.Params{
			ATRStopMultiple:  cfg.Methodologies.ATRStopMultiple,
			ZoneBufferPct:    cfg.Methodologies.ZoneBufferPct,
			SessionATRWindow: cfg.Methodologies.SessionATRWindow,
		},
	)
}
