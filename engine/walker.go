package engine

import (
	"errors"
	"fmt"

	"github.com/edgelab/outcomes/market"
	"github.com/edgelab/outcomes/methodology"
)

// ErrInsufficientBars marks a session with too few bars to walk. It is
// a data precondition failure for the methodology, never a crash.
var ErrInsufficientBars = errors.New("insufficient session bars")

// MinSessionBars is the minimum number of bars at/after entry a walk
// requires.
const MinSessionBars = 3

// Entry is the per-methodology entry context: the stop and the full
// R-target ladder, already direction-adjusted into absolute prices.
type Entry struct {
	StopPrice    float64
	StopDistance float64
	Targets      []float64 // Targets[i] is the R(i+1) price
}

// BuildEntry converts a stop distance into absolute stop and target
// prices for the trade's direction.
func BuildEntry(t market.Trade, dist float64, rLevels []float64) Entry {
	sign := t.Direction.Sign()
	e := Entry{
		StopPrice:    t.EntryPrice - sign*dist,
		StopDistance: dist,
		Targets:      make([]float64, len(rLevels)),
	}
	for i, r := range rLevels {
		e.Targets[i] = t.EntryPrice + sign*r*dist
	}
	return e
}

// Walk iterates the trade's bars once, chronologically, from the first
// bar at/after entry through the session cutoff, and returns exactly
// one ExitEvent plus every R-level first-crossing recorded on the way.
//
// R-level crossings accumulate across bars. The stop finalizes the
// walk on the bar it triggers; that bar's own target crossings are
// recorded first and both candidate sets go to Resolve, which applies
// the stop-first precedence. If the stop never triggers, the realized
// exit is the highest R level reached (at that level's first
// crossing), or a synthetic EOD at the cutoff bar's close when no
// level was ever reached.
func Walk(trade market.Trade, bars []market.Bar, mode methodology.TriggerMode, e Entry, cutoff market.SessionSpec) (ExitEvent, []RLevelHit, error) {
	cut, err := cutoff.CutoffFor(trade.Date)
	if err != nil {
		return ExitEvent{}, nil, err
	}

	session := market.SessionSlice(bars, trade.EntryTime, cut)
	if len(session) < MinSessionBars {
		return ExitEvent{}, nil, fmt.Errorf("%w: trade %s has %d bars in session window, need %d",
			ErrInsufficientBars, trade.ID, len(session), MinSessionBars)
	}

	var hits []RLevelHit
	hit := make([]bool, len(e.Targets))

	for i, b := range session {
		// Record new target crossings in ascending level order, so a
		// single bar that clears several levels logs them all with the
		// same timestamp.
		var barTargets []Candidate
		for lvl := range e.Targets {
			if hit[lvl] {
				continue
			}
			if !targetReached(mode, trade.Direction, b, e.Targets[lvl]) {
				continue
			}
			hit[lvl] = true
			h := RLevelHit{Level: lvl + 1, Time: b.Time, BarsFromEntry: i, Price: e.Targets[lvl]}
			hits = append(hits, h)
			barTargets = append(barTargets, Candidate{
				Level: h.Level, Time: h.Time, BarsFromEntry: h.BarsFromEntry, Price: h.Price,
			})
		}

		if stopTriggered(mode, trade.Direction, b, e.StopPrice) {
			ev, err := Resolve(Candidates{
				Stop:    &Candidate{Time: b.Time, BarsFromEntry: i, Price: e.StopPrice},
				Targets: barTargets,
			})
			return ev, hits, err
		}
	}

	// Stop never triggered: exit at the highest level reached, or EOD
	// at the cutoff bar's close.
	targets := make([]Candidate, len(hits))
	for i, h := range hits {
		targets[i] = Candidate{Level: h.Level, Time: h.Time, BarsFromEntry: h.BarsFromEntry, Price: h.Price}
	}
	last := session[len(session)-1]
	ev, err := Resolve(Candidates{
		Targets: targets,
		EOD:     &Candidate{Time: last.Time, BarsFromEntry: len(session) - 1, Price: last.Close},
	})
	return ev, hits, err
}

// stopTriggered reports whether the bar breaches the stop under the
// methodology's trigger mode.
func stopTriggered(mode methodology.TriggerMode, dir market.Direction, b market.Bar, stop float64) bool {
	if mode == methodology.TriggerClose {
		if dir == market.Short {
			return b.Close >= stop
		}
		return b.Close <= stop
	}
	// PRICE mode: an intrabar wick through the stop counts.
	if dir == market.Short {
		return b.High >= stop
	}
	return b.Low <= stop
}

// targetReached reports whether the bar reaches the target under the
// methodology's trigger mode.
func targetReached(mode methodology.TriggerMode, dir market.Direction, b market.Bar, target float64) bool {
	if mode == methodology.TriggerClose {
		if dir == market.Short {
			return b.Close <= target
		}
		return b.Close >= target
	}
	if dir == market.Short {
		return b.Low <= target
	}
	return b.High >= target
}
