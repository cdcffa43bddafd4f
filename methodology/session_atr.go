package methodology

import (
	"fmt"

	"github.com/edgelab/outcomes/indicators"
	"github.com/edgelab/outcomes/market"
)

// SessionATR is a descriptive-only methodology: instead of the
// precomputed daily ATR it derives an ATR from the session's own bars
// before entry, over a short window. Useful for comparing intraday
// volatility stops against the primary; never selected as canonical.
type SessionATR struct {
	Window   int
	Multiple float64
}

// NewSessionATR builds the session-ATR methodology. Non-positive
// parameters fall back to window 5, multiple 1.0.
func NewSessionATR(window int, multiple float64) SessionATR {
	if window <= 0 {
		window = 5
	}
	if multiple <= 0 {
		multiple = 1.0
	}
	return SessionATR{Window: window, Multiple: multiple}
}

func (SessionATR) ID() string           { return "session_atr" }
func (SessionATR) Trigger() TriggerMode { return TriggerPrice }
func (SessionATR) Canonical() bool      { return false }

func (m SessionATR) StopDistance(ctx Context) (float64, error) {
	t := ctx.Trade
	prior := market.PreEntry(ctx.Session, t.EntryTime)
	v, err := indicators.ATR(prior, m.Window)
	if err != nil {
		return 0, fmt.Errorf("%w: trade %s: %v", ErrUnavailable, t.ID, err)
	}
	return m.Multiple * v, nil
}
