package methodology

import (
	"fmt"

	"github.com/edgelab/outcomes/market"
)

// PriorBar is a descriptive-only methodology: the stop sits at the
// low (LONG) or high (SHORT) of the last bar before entry. Run for
// comparison, never selected as canonical.
type PriorBar struct{}

func (PriorBar) ID() string           { return "prior_bar" }
func (PriorBar) Trigger() TriggerMode { return TriggerPrice }
func (PriorBar) Canonical() bool      { return false }

func (PriorBar) StopDistance(ctx Context) (float64, error) {
	t := ctx.Trade
	prior := market.PreEntry(ctx.Session, t.EntryTime)
	if len(prior) == 0 {
		return 0, fmt.Errorf("%w: trade %s has no bar before entry", ErrUnavailable, t.ID)
	}
	last := prior[len(prior)-1]

	var dist float64
	if t.Direction == market.Short {
		dist = last.High - t.EntryPrice
	} else {
		dist = t.EntryPrice - last.Low
	}
	if dist <= 0 {
		return 0, fmt.Errorf("%w: trade %s prior-bar stop is not beyond entry", ErrUnavailable, t.ID)
	}
	return dist, nil
}
