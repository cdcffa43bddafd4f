package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edgelab/outcomes/engine"
	"github.com/edgelab/outcomes/methodology"
)

// hitCols is the flattened column group for one R level.
type hitCols struct {
	hit   bool
	t     sql.NullTime
	bars  sql.NullInt64
	price sql.NullFloat64
}

func packHits(hits []engine.RLevelHit) [methodology.RLevelCount]hitCols {
	var out [methodology.RLevelCount]hitCols
	for _, h := range hits {
		if h.Level < 1 || h.Level > methodology.RLevelCount {
			continue
		}
		out[h.Level-1] = hitCols{
			hit:   true,
			t:     sql.NullTime{Time: h.Time, Valid: true},
			bars:  sql.NullInt64{Int64: int64(h.BarsFromEntry), Valid: true},
			price: sql.NullFloat64{Float64: h.Price, Valid: true},
		}
	}
	return out
}

func unpackHits(cols [methodology.RLevelCount]hitCols) []engine.RLevelHit {
	var out []engine.RLevelHit
	for i, c := range cols {
		if !c.hit {
			continue
		}
		out = append(out, engine.RLevelHit{
			Level:         i + 1,
			Time:          c.t.Time,
			BarsFromEntry: int(c.bars.Int64),
			Price:         c.price.Float64,
		})
	}
	return out
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// UpsertMethodologyOutcome replaces the stored outcome for a
// (trade, methodology) pair wholesale. Unavailable outcomes are
// persisted too, so an audit can see why a methodology could not run.
func (s *Store) UpsertMethodologyOutcome(ctx context.Context, o engine.MethodologyOutcome) error {
	h := packHits(o.Hits)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO methodology_outcomes
		(trade_id, methodology_id, available, unavailable_reason,
		 outcome, exit_type, exit_level, exit_time, exit_price, bars_from_entry, max_r,
		 r1_hit, r1_time, r1_bars, r1_price,
		 r2_hit, r2_time, r2_bars, r2_price,
		 r3_hit, r3_time, r3_bars, r3_price,
		 r4_hit, r4_time, r4_bars, r4_price,
		 r5_hit, r5_time, r5_bars, r5_price,
		 pnl_r, stop_price, stop_distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		        ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,
		        ?, ?, ?)
		ON CONFLICT(trade_id, methodology_id) DO UPDATE SET
			available=excluded.available, unavailable_reason=excluded.unavailable_reason,
			outcome=excluded.outcome, exit_type=excluded.exit_type, exit_level=excluded.exit_level,
			exit_time=excluded.exit_time, exit_price=excluded.exit_price,
			bars_from_entry=excluded.bars_from_entry, max_r=excluded.max_r,
			r1_hit=excluded.r1_hit, r1_time=excluded.r1_time, r1_bars=excluded.r1_bars, r1_price=excluded.r1_price,
			r2_hit=excluded.r2_hit, r2_time=excluded.r2_time, r2_bars=excluded.r2_bars, r2_price=excluded.r2_price,
			r3_hit=excluded.r3_hit, r3_time=excluded.r3_time, r3_bars=excluded.r3_bars, r3_price=excluded.r3_price,
			r4_hit=excluded.r4_hit, r4_time=excluded.r4_time, r4_bars=excluded.r4_bars, r4_price=excluded.r4_price,
			r5_hit=excluded.r5_hit, r5_time=excluded.r5_time, r5_bars=excluded.r5_bars, r5_price=excluded.r5_price,
			pnl_r=excluded.pnl_r, stop_price=excluded.stop_price, stop_distance=excluded.stop_distance`,
		o.TradeID, o.MethodologyID, o.Available, o.UnavailableReason,
		string(o.Outcome), string(o.Exit.Type), o.Exit.Level, nullTime(o.Exit.Time), o.Exit.FillPrice, o.Exit.BarsFromEntry, o.MaxR,
		h[0].hit, h[0].t, h[0].bars, h[0].price,
		h[1].hit, h[1].t, h[1].bars, h[1].price,
		h[2].hit, h[2].t, h[2].bars, h[2].price,
		h[3].hit, h[3].t, h[3].bars, h[3].price,
		h[4].hit, h[4].t, h[4].bars, h[4].price,
		o.PnLR, o.StopPrice, o.StopDistance,
	)
	return err
}

const methodologyOutcomeCols = `
	trade_id, methodology_id, available, unavailable_reason,
	outcome, exit_type, exit_level, exit_time, exit_price, bars_from_entry, max_r,
	r1_hit, r1_time, r1_bars, r1_price,
	r2_hit, r2_time, r2_bars, r2_price,
	r3_hit, r3_time, r3_bars, r3_price,
	r4_hit, r4_time, r4_bars, r4_price,
	r5_hit, r5_time, r5_bars, r5_price,
	pnl_r, stop_price, stop_distance`

func scanMethodologyOutcome(rows *sql.Rows) (engine.MethodologyOutcome, error) {
	var (
		o        engine.MethodologyOutcome
		outcome  string
		exitType string
		exitTime sql.NullTime
		h        [methodology.RLevelCount]hitCols
	)
	err := rows.Scan(
		&o.TradeID, &o.MethodologyID, &o.Available, &o.UnavailableReason,
		&outcome, &exitType, &o.Exit.Level, &exitTime, &o.Exit.FillPrice, &o.Exit.BarsFromEntry, &o.MaxR,
		&h[0].hit, &h[0].t, &h[0].bars, &h[0].price,
		&h[1].hit, &h[1].t, &h[1].bars, &h[1].price,
		&h[2].hit, &h[2].t, &h[2].bars, &h[2].price,
		&h[3].hit, &h[3].t, &h[3].bars, &h[3].price,
		&h[4].hit, &h[4].t, &h[4].bars, &h[4].price,
		&o.PnLR, &o.StopPrice, &o.StopDistance,
	)
	if err != nil {
		return engine.MethodologyOutcome{}, err
	}
	o.Outcome = engine.Outcome(outcome)
	o.Exit.Type = engine.ExitType(exitType)
	o.Exit.Time = exitTime.Time
	o.Hits = unpackHits(h)
	return o, nil
}

// ListMethodologyOutcomes returns every stored methodology outcome for
// one trade.
func (s *Store) ListMethodologyOutcomes(ctx context.Context, tradeID string) ([]engine.MethodologyOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+methodologyOutcomeCols+` FROM methodology_outcomes WHERE trade_id = ? ORDER BY methodology_id`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.MethodologyOutcome
	for rows.Next() {
		o, err := scanMethodologyOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListAllMethodologyOutcomes returns every stored methodology outcome,
// ordered by methodology then trade. Used by the edge report.
func (s *Store) ListAllMethodologyOutcomes(ctx context.Context) ([]engine.MethodologyOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+methodologyOutcomeCols+` FROM methodology_outcomes ORDER BY methodology_id, trade_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.MethodologyOutcome
	for rows.Next() {
		o, err := scanMethodologyOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpsertCanonicalOutcome replaces the canonical outcome for a trade
// wholesale. The trade_id primary key guarantees at most one row per
// trade; rerunning an unchanged trade rewrites an identical row.
func (s *Store) UpsertCanonicalOutcome(ctx context.Context, c engine.CanonicalOutcome) error {
	h := packHits(c.Hits)

	var (
		legacyID    sql.NullString
		legacyOut   sql.NullString
		legacyPnLR  sql.NullFloat64
		legacyMaxR  sql.NullInt64
		legacyStopP sql.NullFloat64
		legacyStopD sql.NullFloat64
		legacyExit  sql.NullString
	)
	if l := c.Legacy; l != nil {
		legacyID = sql.NullString{String: l.MethodologyID, Valid: true}
		legacyOut = sql.NullString{String: string(l.Outcome), Valid: true}
		legacyPnLR = sql.NullFloat64{Float64: l.PnLR, Valid: true}
		legacyMaxR = sql.NullInt64{Int64: int64(l.MaxR), Valid: true}
		legacyStopP = sql.NullFloat64{Float64: l.StopPrice, Valid: true}
		legacyStopD = sql.NullFloat64{Float64: l.StopDistance, Valid: true}
		legacyExit = sql.NullString{String: string(l.ExitType), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO canonical_outcomes
		(trade_id, outcome_method, methodology_id, outcome,
		 exit_type, exit_level, exit_time, exit_price, bars_from_entry, max_r,
		 r1_hit, r1_time, r1_bars, r1_price,
		 r2_hit, r2_time, r2_bars, r2_price,
		 r3_hit, r3_time, r3_bars, r3_price,
		 r4_hit, r4_time, r4_bars, r4_price,
		 r5_hit, r5_time, r5_bars, r5_price,
		 pnl_r, stop_price, stop_distance,
		 legacy_methodology_id, legacy_outcome, legacy_pnl_r, legacy_max_r,
		 legacy_stop_price, legacy_stop_distance, legacy_exit_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		        ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,  ?, ?, ?, ?,
		        ?, ?, ?,
		        ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id) DO UPDATE SET
			outcome_method=excluded.outcome_method, methodology_id=excluded.methodology_id,
			outcome=excluded.outcome, exit_type=excluded.exit_type, exit_level=excluded.exit_level,
			exit_time=excluded.exit_time, exit_price=excluded.exit_price,
			bars_from_entry=excluded.bars_from_entry, max_r=excluded.max_r,
			r1_hit=excluded.r1_hit, r1_time=excluded.r1_time, r1_bars=excluded.r1_bars, r1_price=excluded.r1_price,
			r2_hit=excluded.r2_hit, r2_time=excluded.r2_time, r2_bars=excluded.r2_bars, r2_price=excluded.r2_price,
			r3_hit=excluded.r3_hit, r3_time=excluded.r3_time, r3_bars=excluded.r3_bars, r3_price=excluded.r3_price,
			r4_hit=excluded.r4_hit, r4_time=excluded.r4_time, r4_bars=excluded.r4_bars, r4_price=excluded.r4_price,
			r5_hit=excluded.r5_hit, r5_time=excluded.r5_time, r5_bars=excluded.r5_bars, r5_price=excluded.r5_price,
			pnl_r=excluded.pnl_r, stop_price=excluded.stop_price, stop_distance=excluded.stop_distance,
			legacy_methodology_id=excluded.legacy_methodology_id, legacy_outcome=excluded.legacy_outcome,
			legacy_pnl_r=excluded.legacy_pnl_r, legacy_max_r=excluded.legacy_max_r,
			legacy_stop_price=excluded.legacy_stop_price, legacy_stop_distance=excluded.legacy_stop_distance,
			legacy_exit_type=excluded.legacy_exit_type`,
		c.TradeID, string(c.OutcomeMethod), c.MethodologyID, string(c.Outcome),
		string(c.Exit.Type), c.Exit.Level, c.Exit.Time, c.Exit.FillPrice, c.Exit.BarsFromEntry, c.MaxR,
		h[0].hit, h[0].t, h[0].bars, h[0].price,
		h[1].hit, h[1].t, h[1].bars, h[1].price,
		h[2].hit, h[2].t, h[2].bars, h[2].price,
		h[3].hit, h[3].t, h[3].bars, h[3].price,
		h[4].hit, h[4].t, h[4].bars, h[4].price,
		c.PnLR, c.StopPrice, c.StopDistance,
		legacyID, legacyOut, legacyPnLR, legacyMaxR, legacyStopP, legacyStopD, legacyExit,
	)
	return err
}

const canonicalOutcomeCols = `
	trade_id, outcome_method, methodology_id, outcome,
	exit_type, exit_level, exit_time, exit_price, bars_from_entry, max_r,
	r1_hit, r1_time, r1_bars, r1_price,
	r2_hit, r2_time, r2_bars, r2_price,
	r3_hit, r3_time, r3_bars, r3_price,
	r4_hit, r4_time, r4_bars, r4_price,
	r5_hit, r5_time, r5_bars, r5_price,
	pnl_r, stop_price, stop_distance,
	legacy_methodology_id, legacy_outcome, legacy_pnl_r, legacy_max_r,
	legacy_stop_price, legacy_stop_distance, legacy_exit_type`

func scanCanonicalOutcome(rows *sql.Rows) (engine.CanonicalOutcome, error) {
	var (
		c           engine.CanonicalOutcome
		method      string
		outcome     string
		exitType    string
		h           [methodology.RLevelCount]hitCols
		legacyID    sql.NullString
		legacyOut   sql.NullString
		legacyPnLR  sql.NullFloat64
		legacyMaxR  sql.NullInt64
		legacyStopP sql.NullFloat64
		legacyStopD sql.NullFloat64
		legacyExit  sql.NullString
	)
	err := rows.Scan(
		&c.TradeID, &method, &c.MethodologyID, &outcome,
		&exitType, &c.Exit.Level, &c.Exit.Time, &c.Exit.FillPrice, &c.Exit.BarsFromEntry, &c.MaxR,
		&h[0].hit, &h[0].t, &h[0].bars, &h[0].price,
		&h[1].hit, &h[1].t, &h[1].bars, &h[1].price,
		&h[2].hit, &h[2].t, &h[2].bars, &h[2].price,
		&h[3].hit, &h[3].t, &h[3].bars, &h[3].price,
		&h[4].hit, &h[4].t, &h[4].bars, &h[4].price,
		&c.PnLR, &c.StopPrice, &c.StopDistance,
		&legacyID, &legacyOut, &legacyPnLR, &legacyMaxR, &legacyStopP, &legacyStopD, &legacyExit,
	)
	if err != nil {
		return engine.CanonicalOutcome{}, err
	}
	c.OutcomeMethod = engine.OutcomeMethod(method)
	c.Outcome = engine.Outcome(outcome)
	c.Exit.Type = engine.ExitType(exitType)
	c.Hits = unpackHits(h)
	if legacyID.Valid {
		c.Legacy = &engine.LegacyOutcome{
			MethodologyID: legacyID.String,
			Outcome:       engine.Outcome(legacyOut.String),
			PnLR:          legacyPnLR.Float64,
			MaxR:          int(legacyMaxR.Int64),
			StopPrice:     legacyStopP.Float64,
			StopDistance:  legacyStopD.Float64,
			ExitType:      engine.ExitType(legacyExit.String),
		}
	}
	return c, nil
}

// GetCanonicalOutcome returns the canonical outcome for one trade.
func (s *Store) GetCanonicalOutcome(ctx context.Context, tradeID string) (engine.CanonicalOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+canonicalOutcomeCols+` FROM canonical_outcomes WHERE trade_id = ?`, tradeID)
	if err != nil {
		return engine.CanonicalOutcome{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return engine.CanonicalOutcome{}, err
		}
		return engine.CanonicalOutcome{}, fmt.Errorf("no canonical outcome for trade %q", tradeID)
	}
	return scanCanonicalOutcome(rows)
}

// ListCanonicalOutcomes returns every canonical outcome, ordered by
// trade ID.
func (s *Store) ListCanonicalOutcomes(ctx context.Context) ([]engine.CanonicalOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+canonicalOutcomeCols+` FROM canonical_outcomes ORDER BY trade_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.CanonicalOutcome
	for rows.Next() {
		c, err := scanCanonicalOutcome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
