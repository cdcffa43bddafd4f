package engine

import (
	"github.com/edgelab/outcomes/market"
	"github.com/edgelab/outcomes/methodology"
)

// RunMethodology walks one trade under one methodology. Precondition
// failures (missing ATR, missing zone bound, too few bars) come back
// as an unavailable outcome, never as an error: the reconciler needs
// visibility into why a methodology could not run.
func RunMethodology(t market.Trade, bars []market.Bar, m methodology.Methodology, session market.SessionSpec) MethodologyOutcome {
	dist, err := m.StopDistance(methodology.Context{Trade: t, Session: bars})
	if err != nil {
		return unavailable(t.ID, m.ID(), err)
	}

	entry := BuildEntry(t, dist, methodology.RLevels())
	exit, hits, err := Walk(t, bars, m.Trigger(), entry, session)
	if err != nil {
		return unavailable(t.ID, m.ID(), err)
	}

	return ComputeOutcome(t, m.ID(), exit, hits, entry)
}

// RunAll produces one MethodologyOutcome per configured methodology,
// including unavailable ones. The per-trade computation is pure: it
// reads only the trade and its own bar slice.
func RunAll(t market.Trade, bars []market.Bar, set methodology.Set, session market.SessionSpec) []MethodologyOutcome {
	ms := set.All()
	outs := make([]MethodologyOutcome, 0, len(ms))
	for _, m := range ms {
		outs = append(outs, RunMethodology(t, bars, m, session))
	}
	return outs
}

func unavailable(tradeID, methodologyID string, err error) MethodologyOutcome {
	return MethodologyOutcome{
		TradeID:           tradeID,
		MethodologyID:     methodologyID,
		Available:         false,
		UnavailableReason: err.Error(),
	}
}
