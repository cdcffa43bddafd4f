package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgelab/outcomes/stats"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize resolved outcomes (win rate, expectancy)",
	Long: `Report summarizes the canonical outcome population and, per
methodology, every available descriptive outcome. When legacy outcomes
were preserved during reconciliation it also compares canonical versus
legacy expectancy over the same trades.`,
	RunE: runReport,
}

var reportRuns int

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportRuns, "runs", 0, "also list the N most recent batch runs")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	canon, err := st.ListCanonicalOutcomes(ctx)
	if err != nil {
		return fmt.Errorf("load canonical outcomes: %w", err)
	}
	all, err := st.ListAllMethodologyOutcomes(ctx)
	if err != nil {
		return fmt.Errorf("load methodology outcomes: %w", err)
	}

	fmt.Println("Canonical outcomes")
	printReport("  ", stats.Canonical(canon))

	byID := stats.ByMethodology(all)
	if len(byID) > 0 {
		fmt.Println("\nPer methodology")
		for _, id := range stats.MethodologyIDs(byID) {
			fmt.Printf("  %s\n", id)
			printReport("    ", byID[id])
		}
	}

	c, l := stats.LegacyComparison(canon)
	if l.Trades > 0 {
		fmt.Printf("\nCanonical vs legacy (%d trades with a preserved legacy outcome)\n", l.Trades)
		fmt.Println("  canonical")
		printReport("    ", c)
		fmt.Println("  legacy")
		printReport("    ", l)
		fmt.Printf("  expectancy delta: %+.3fR\n", c.Expectancy-l.Expectancy)
	}

	if reportRuns > 0 {
		runs, err := st.ListRuns(ctx, reportRuns)
		if err != nil {
			return fmt.Errorf("load runs: %w", err)
		}
		fmt.Println("\nRecent runs")
		for _, r := range runs {
			fmt.Printf("  %s  %s  total=%d processed=%d failed=%d skipped=%d\n",
				r.RunID, r.Finished.Format("2006-01-02 15:04:05"),
				r.Total, r.Processed, r.Failed, r.Skipped)
		}
	}
	return nil
}

func printReport(indent string, r stats.Report) {
	fmt.Printf("%sTrades:     %d\n", indent, r.Trades)
	if r.Trades == 0 {
		return
	}
	fmt.Printf("%sWins:       %d\n", indent, r.Wins)
	fmt.Printf("%sLosses:     %d\n", indent, r.Losses)
	fmt.Printf("%sWin rate:   %.1f%%\n", indent, r.WinRate*100)
	fmt.Printf("%sExpectancy: %+.3fR\n", indent, r.Expectancy)
	fmt.Printf("%sR stddev:   %.3f\n", indent, r.RStdDev)
}
