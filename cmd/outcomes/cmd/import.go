package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/edgelab/outcomes/market"
	"github.com/edgelab/outcomes/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import trades and bar series from CSV",
	Long: `Import seeds the database from CSV files. Files ending in .xz are
decompressed on the fly.

Trade CSV columns:
  trade_id,ticker,date,direction,entry_price,entry_time,zone_high,zone_low,atr,model
with zone_high, zone_low, atr and model optional (leave empty).

Bar CSV columns:
  ticker,date,ts,open,high,low,close,volume
with ts in RFC3339. Rows are grouped per (ticker, date) series.

Examples:
  outcomes import --trades trades.csv
  outcomes import --bars bars-2026-08.csv.xz --resolution 1`,
	RunE: runImport,
}

var (
	importTrades     string
	importBars       string
	importResolution int
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importTrades, "trades", "", "path to trade CSV (optionally .xz)")
	importCmd.Flags().StringVar(&importBars, "bars", "", "path to bar CSV (optionally .xz)")
	importCmd.Flags().IntVar(&importResolution, "resolution", 0, "bar resolution in minutes (overrides config)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importTrades == "" && importBars == "" {
		return fmt.Errorf("nothing to import: pass --trades and/or --bars")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	resolution := cfg.Batch.Resolution
	if importResolution > 0 {
		resolution = importResolution
	}

	ctx := cmd.Context()
	if importTrades != "" {
		n, err := importTradeCSV(ctx, st, importTrades)
		if err != nil {
			return fmt.Errorf("import trades: %w", err)
		}
		fmt.Printf("Imported %d trades from %s\n", n, importTrades)
	}
	if importBars != "" {
		series, rows, err := importBarCSV(ctx, st, importBars, resolution)
		if err != nil {
			return fmt.Errorf("import bars: %w", err)
		}
		fmt.Printf("Imported %d bars across %d series from %s\n", rows, series, importBars)
	}
	return nil
}

// openCSV opens a possibly xz-compressed CSV file.
func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open xz stream: %w", err)
		}
		src = xr
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	return r, f.Close, nil
}

func importTradeCSV(ctx context.Context, st *store.Store, path string) (int, error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	n := 0
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		// Skip a header row.
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "trade_id") {
			continue
		}
		t, err := parseTradeRow(row)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := st.InsertTrade(ctx, t); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
}

func parseTradeRow(row []string) (market.Trade, error) {
	if len(row) < 6 {
		return market.Trade{}, fmt.Errorf("need at least 6 cols trade_id,ticker,date,direction,entry_price,entry_time: %v", row)
	}

	entryPrice, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return market.Trade{}, fmt.Errorf("bad entry_price %q: %w", row[4], err)
	}
	entryTime, err := parseTime(row[5])
	if err != nil {
		return market.Trade{}, fmt.Errorf("bad entry_time %q: %w", row[5], err)
	}

	t := market.Trade{
		ID:         strings.TrimSpace(row[0]),
		Ticker:     strings.TrimSpace(row[1]),
		Date:       strings.TrimSpace(row[2]),
		Direction:  market.Direction(strings.ToUpper(strings.TrimSpace(row[3]))),
		EntryPrice: entryPrice,
		EntryTime:  entryTime,
	}
	if t.ZoneHigh, err = optFloat(row, 6); err != nil {
		return market.Trade{}, fmt.Errorf("bad zone_high: %w", err)
	}
	if t.ZoneLow, err = optFloat(row, 7); err != nil {
		return market.Trade{}, fmt.Errorf("bad zone_low: %w", err)
	}
	if t.ATR, err = optFloat(row, 8); err != nil {
		return market.Trade{}, fmt.Errorf("bad atr: %w", err)
	}
	if len(row) > 9 {
		t.Model = strings.TrimSpace(row[9])
	}
	return t, t.Validate()
}

func optFloat(row []string, i int) (*float64, error) {
	if i >= len(row) || strings.TrimSpace(row[i]) == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, err
		}
		t = t2
	}
	return t, nil
}

func importBarCSV(ctx context.Context, st *store.Store, path string, resolution int) (series, rows int, err error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return 0, 0, err
	}
	defer closeFn()

	type key struct{ ticker, date string }
	groups := make(map[key][]market.Bar)

	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, err
		}
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "ticker") {
			continue
		}
		if len(row) < 8 {
			return 0, 0, fmt.Errorf("line %d: need 8 cols ticker,date,ts,open,high,low,close,volume: %v", line, row)
		}

		ts, err := parseTime(row[2])
		if err != nil {
			return 0, 0, fmt.Errorf("line %d: bad ts %q: %w", line, row[2], err)
		}
		vals := make([]float64, 5)
		for i, col := range row[3:8] {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(col), 64)
			if err != nil {
				return 0, 0, fmt.Errorf("line %d: bad value %q: %w", line, col, err)
			}
		}

		k := key{strings.TrimSpace(row[0]), strings.TrimSpace(row[1])}
		groups[k] = append(groups[k], market.Bar{
			Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
		rows++
	}

	for k, bars := range groups {
		sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
		if err := st.InsertBars(ctx, k.ticker, k.date, resolution, bars); err != nil {
			return series, rows, fmt.Errorf("series %s %s: %w", k.ticker, k.date, err)
		}
		series++
	}
	return series, rows, nil
}
