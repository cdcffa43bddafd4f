package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/edgelab/outcomes/batch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve outcomes for pending trades",
	Long: `Run executes one batch pass: it selects the trades needing work,
resolves every configured methodology per trade, reconciles the results
into canonical outcomes, and persists everything idempotently. Re-runs
over already-resolved trades are no-ops unless --full is given.

Examples:
  outcomes run
  outcomes run --full --workers 8
  outcomes run --dry-run
  outcomes run --only zone_buffer
  outcomes run --start-from reconcile
  outcomes run --trades 3f2b5c12,9a1e44d0`,
	RunE: runRun,
}

var (
	runFull      bool
	runDryRun    bool
	runOnly      string
	runStartFrom string
	runTrades    []string
	runWorkers   int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFull, "full", false, "reprocess every trade, not just pending ones")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "report what would change without writing")
	runCmd.Flags().StringVar(&runOnly, "only", "", "restrict to one step (resolve, reconcile) or one methodology ID")
	runCmd.Flags().StringVar(&runStartFrom, "start-from", "", "resume from a step (resolve, reconcile) reusing persisted upstream results")
	runCmd.Flags().StringSliceVar(&runTrades, "trades", nil, "explicit trade IDs to process (overrides pending selection)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "worker pool size (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	set, err := buildSet(cfg)
	if err != nil {
		return fmt.Errorf("methodologies: %w", err)
	}
	session, err := buildSession(cfg)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	workers := cfg.Batch.Workers
	if runWorkers > 0 {
		workers = runWorkers
	}

	driver := &batch.Driver{
		Store:    st,
		Provider: st,
		Set:      set,
		Session:  session,
		Log:      log,
	}
	summary, err := driver.Run(cmd.Context(), batch.Options{
		Full:       runFull,
		DryRun:     runDryRun,
		Only:       runOnly,
		StartFrom:  batch.Step(runStartFrom),
		Trades:     runTrades,
		Workers:    workers,
		Resolution: cfg.Batch.Resolution,
	})
	if err != nil {
		return err
	}

	printSummary(summary)

	if summary.HasFailures() && !summary.DryRun {
		return fmt.Errorf("%d of %d trades failed", summary.Failed, summary.Total)
	}
	return nil
}

func printSummary(s batch.Summary) {
	label := "Run"
	if s.DryRun {
		label = "Dry run"
	}
	fmt.Printf("%s %s complete.\n", label, s.RunID)
	fmt.Printf("  Total:     %d\n", s.Total)
	fmt.Printf("  Processed: %d\n", s.Processed)
	fmt.Printf("  Failed:    %d\n", s.Failed)
	fmt.Printf("  Skipped:   %d\n", s.Skipped)

	if len(s.ErrorCounts) == 0 {
		return
	}
	kinds := make([]string, 0, len(s.ErrorCounts))
	for k := range s.ErrorCounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Println("  Errors:")
	for _, k := range kinds {
		fmt.Printf("    %s: %d", k, s.ErrorCounts[k])
		if ids := s.Samples[k]; len(ids) > 0 {
			fmt.Printf(" (e.g. %v)", ids)
		}
		fmt.Println()
	}
}
