package methodology

import (
	"fmt"
)

// ATRStop is the primary methodology: the stop sits a fixed multiple
// of the trade's precomputed ATR away from entry, and hits are
// detected on intrabar extremes.
type ATRStop struct {
	Multiple float64
}

// NewATRStop builds the primary ATR methodology. A non-positive
// multiple falls back to 1.0.
func NewATRStop(multiple float64) ATRStop {
	if multiple <= 0 {
		multiple = 1.0
	}
	return ATRStop{Multiple: multiple}
}

func (ATRStop) ID() string           { return "atr" }
func (ATRStop) Trigger() TriggerMode { return TriggerPrice }
func (ATRStop) Canonical() bool      { return true }

func (m ATRStop) StopDistance(ctx Context) (float64, error) {
	t := ctx.Trade
	if t.ATR == nil || *t.ATR <= 0 {
		return 0, fmt.Errorf("%w: trade %s has no ATR value recorded", ErrUnavailable, t.ID)
	}
	return m.Multiple * *t.ATR, nil
}
