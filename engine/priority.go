package engine

import (
	"errors"
	"time"
)

// Candidate is one satisfiable exit condition handed to Resolve.
type Candidate struct {
	Level         int // 1..5 for targets, 0 for stop/EOD
	Time          time.Time
	BarsFromEntry int
	Price         float64
}

// Candidates collects every exit condition satisfiable at the point of
// resolution: the stop (if breached), the R targets reached, and the
// synthetic end-of-day close.
type Candidates struct {
	Stop    *Candidate
	Targets []Candidate
	EOD     *Candidate
}

// ErrNoCandidates is returned when Resolve is called with nothing to
// choose from; the walker never does this.
var ErrNoCandidates = errors.New("no exit candidates to resolve")

// Resolve applies the fixed exit precedence and returns the one
// realized ExitEvent.
//
// Precedence is a policy decision, not an implementation detail: it
// directly determines whether a volatile bar scores a loss or a win.
//
//  1. STOP beats every R-target candidate on the same bar.
//  2. Among R-target candidates, the highest level wins (all of them
//     are still logged as hits by the walker).
//  3. EOD is chosen only when no stop or target candidate exists.
func Resolve(c Candidates) (ExitEvent, error) {
	if c.Stop != nil {
		return ExitEvent{
			Type:          ExitStop,
			Time:          c.Stop.Time,
			FillPrice:     c.Stop.Price,
			BarsFromEntry: c.Stop.BarsFromEntry,
		}, nil
	}

	if len(c.Targets) > 0 {
		best := c.Targets[0]
		for _, t := range c.Targets[1:] {
			if t.Level > best.Level {
				best = t
			}
		}
		return ExitEvent{
			Type:          ExitRTarget,
			Level:         best.Level,
			Time:          best.Time,
			FillPrice:     best.Price,
			BarsFromEntry: best.BarsFromEntry,
		}, nil
	}

	if c.EOD != nil {
		return ExitEvent{
			Type:          ExitEOD,
			Time:          c.EOD.Time,
			FillPrice:     c.EOD.Price,
			BarsFromEntry: c.EOD.BarsFromEntry,
		}, nil
	}

	return ExitEvent{}, ErrNoCandidates
}
