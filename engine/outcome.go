package engine

import (
	"github.com/edgelab/outcomes/market"
)

// ComputeOutcome converts a realized exit plus the R-level crossing
// history into a MethodologyOutcome.
//
// The pnl_r rule is deliberately asymmetric and must stay that way:
//
//   - STOP loses exactly -1.0R.
//   - An R-target win is credited the highest integer level reached at
//     any point up to exit, not just the level that triggered it.
//   - EOD is the direction-adjusted price delta divided by the stop
//     distance: a continuous value that can sit arbitrarily close to
//     zero while the trade is still scored WIN. That paradox is
//     intentional (no minimum-move threshold) and preserved here.
func ComputeOutcome(t market.Trade, methodologyID string, exit ExitEvent, hits []RLevelHit, e Entry) MethodologyOutcome {
	maxR := 0
	for _, h := range hits {
		if h.Level > maxR {
			maxR = h.Level
		}
	}

	out := MethodologyOutcome{
		TradeID:       t.ID,
		MethodologyID: methodologyID,
		Available:     true,
		Exit:          exit,
		MaxR:          maxR,
		Hits:          hits,
		StopPrice:     e.StopPrice,
		StopDistance:  e.StopDistance,
	}

	switch exit.Type {
	case ExitStop:
		out.Outcome = Loss
		out.PnLR = -1.0
	case ExitRTarget:
		out.Outcome = Win
		out.PnLR = float64(maxR)
	case ExitEOD:
		delta := t.Direction.Sign() * (exit.FillPrice - t.EntryPrice)
		if delta > 0 {
			out.Outcome = Win
		} else {
			out.Outcome = Loss
		}
		out.PnLR = delta / e.StopDistance
	}
	return out
}
