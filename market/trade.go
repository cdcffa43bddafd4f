package market

import (
	"errors"
	"fmt"
	"time"
)

// Direction of a trade: LONG profits from rising prices, SHORT from falling.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Sign returns +1 for LONG and -1 for SHORT so price deltas can be
// direction-adjusted with a single multiplication.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// ErrMalformedTrade marks a trade record missing the fields required
// before any bar walk can be attempted.
var ErrMalformedTrade = errors.New("malformed trade")

// Trade is an immutable input record created upstream. The engine never
// mutates it; it only derives outcomes from it.
//
// ZoneHigh/ZoneLow bound the supply/demand zone the entry was taken
// from and may be absent. ATR is the precomputed ATR value at entry
// (populated by the upstream indicator pipeline) and may be absent,
// in which case the primary methodology is unavailable for this trade.
type Trade struct {
	ID         string
	Ticker     string
	Date       string // session date, YYYY-MM-DD
	Direction  Direction
	EntryPrice float64
	EntryTime  time.Time
	ZoneHigh   *float64
	ZoneLow    *float64
	ATR        *float64
	Model      string // informational tag only
}

// Validate checks the preconditions for processing. A failure here is
// a MalformedTrade error: the trade is skipped before any bar walk.
func (t Trade) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing trade ID", ErrMalformedTrade)
	}
	if t.Ticker == "" {
		return fmt.Errorf("%w %s: missing ticker", ErrMalformedTrade, t.ID)
	}
	if t.Date == "" {
		return fmt.Errorf("%w %s: missing session date", ErrMalformedTrade, t.ID)
	}
	if t.Direction != Long && t.Direction != Short {
		return fmt.Errorf("%w %s: direction %q", ErrMalformedTrade, t.ID, t.Direction)
	}
	if t.EntryPrice <= 0 {
		return fmt.Errorf("%w %s: entry price %v", ErrMalformedTrade, t.ID, t.EntryPrice)
	}
	if t.EntryTime.IsZero() {
		return fmt.Errorf("%w %s: missing entry time", ErrMalformedTrade, t.ID)
	}
	return nil
}
