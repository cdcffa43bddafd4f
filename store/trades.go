package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edgelab/outcomes/market"
)

// InsertTrade upserts a trade record. Used by the import command to
// seed the trade population; the engine itself never writes trades.
func (s *Store) InsertTrade(ctx context.Context, t market.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, ticker, date, direction, entry_price, entry_time, zone_high, zone_low, atr, model)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id) DO UPDATE SET
			ticker=excluded.ticker, date=excluded.date, direction=excluded.direction,
			entry_price=excluded.entry_price, entry_time=excluded.entry_time,
			zone_high=excluded.zone_high, zone_low=excluded.zone_low,
			atr=excluded.atr, model=excluded.model`,
		t.ID, t.Ticker, t.Date, string(t.Direction), t.EntryPrice, t.EntryTime,
		nullFloat(t.ZoneHigh), nullFloat(t.ZoneLow), nullFloat(t.ATR), t.Model,
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (s *Store) GetTrade(ctx context.Context, tradeID string) (market.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT trade_id, ticker, date, direction, entry_price, entry_time, zone_high, zone_low, atr, model
		FROM trades
		WHERE trade_id = ?`, tradeID)

	var (
		t         market.Trade
		direction string
		zh, zl, a sql.NullFloat64
	)
	err := row.Scan(&t.ID, &t.Ticker, &t.Date, &direction, &t.EntryPrice, &t.EntryTime, &zh, &zl, &a, &t.Model)
	if err != nil {
		if err == sql.ErrNoRows {
			return market.Trade{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return market.Trade{}, err
	}
	t.Direction = market.Direction(direction)
	t.ZoneHigh = floatPtr(zh)
	t.ZoneLow = floatPtr(zl)
	t.ATR = floatPtr(a)
	return t, nil
}

// ListTradeIDs returns every trade ID, ordered for deterministic runs.
func (s *Store) ListTradeIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `SELECT trade_id FROM trades ORDER BY trade_id`)
}

// ListPendingTradeIDs returns trades with no canonical outcome yet,
// the pending set of an incremental run.
func (s *Store) ListPendingTradeIDs(ctx context.Context) ([]string, error) {
	return s.listIDs(ctx, `
		SELECT t.trade_id
		FROM trades t
		LEFT JOIN canonical_outcomes c ON c.trade_id = t.trade_id
		WHERE c.trade_id IS NULL
		ORDER BY t.trade_id`)
}

func (s *Store) listIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
