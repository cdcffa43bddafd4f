package store

import (
	"context"
	"fmt"

	"github.com/edgelab/outcomes/market"
)

// InsertBars upserts a bar series for a (ticker, date, resolution).
// Bars must be chronologically sorted.
func (s *Store) InsertBars(ctx context.Context, ticker, date string, resolution int, bars []market.Bar) error {
	if !market.Sorted(bars) {
		return fmt.Errorf("bars for %s %s are not chronologically sorted", ticker, date)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (ticker, date, resolution, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, date, resolution, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, ticker, date, resolution, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Bars returns the chronologically ordered bar series for a
// (ticker, date) pair at the requested resolution (minutes). An empty
// result is not an error here; the walker decides whether the series
// is sufficient.
func (s *Store) Bars(ctx context.Context, ticker, date string, resolution int) ([]market.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE ticker = ? AND date = ? AND resolution = ?
		ORDER BY ts ASC`, ticker, date, resolution)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Bar
	for rows.Next() {
		var b market.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
