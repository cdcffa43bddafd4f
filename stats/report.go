// Package stats summarizes resolved outcomes into the headline edge
// numbers: win rate, expectancy (mean R), and R dispersion. The
// canonical/legacy comparison shows how much the governing methodology
// changes the measured edge on an identical trade population.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/edgelab/outcomes/engine"
)

// Report is one population's edge summary.
type Report struct {
	Trades     int
	Wins       int
	Losses     int
	WinRate    float64 // wins / trades
	Expectancy float64 // mean pnl_r
	RStdDev    float64 // sample stddev of pnl_r; 0 when trades < 2
}

func build(rs []float64, wins, losses int) Report {
	r := Report{Trades: len(rs), Wins: wins, Losses: losses}
	if len(rs) == 0 {
		return r
	}
	r.WinRate = float64(wins) / float64(len(rs))
	r.Expectancy = stat.Mean(rs, nil)
	if len(rs) > 1 {
		r.RStdDev = stat.StdDev(rs, nil)
	}
	return r
}

// Canonical summarizes the canonical outcome population.
func Canonical(outs []engine.CanonicalOutcome) Report {
	rs := make([]float64, 0, len(outs))
	wins, losses := 0, 0
	for _, o := range outs {
		rs = append(rs, o.PnLR)
		if o.Outcome == engine.Win {
			wins++
		} else {
			losses++
		}
	}
	return build(rs, wins, losses)
}

// LegacyComparison summarizes, over the trades that carry a preserved
// legacy outcome, both the canonical and the legacy numbers: the same
// trades measured under old and new governing methodology.
func LegacyComparison(outs []engine.CanonicalOutcome) (canonical, legacy Report) {
	var crs, lrs []float64
	var cw, cl, lw, ll int
	for _, o := range outs {
		if o.Legacy == nil {
			continue
		}
		crs = append(crs, o.PnLR)
		if o.Outcome == engine.Win {
			cw++
		} else {
			cl++
		}
		lrs = append(lrs, o.Legacy.PnLR)
		if o.Legacy.Outcome == engine.Win {
			lw++
		} else {
			ll++
		}
	}
	return build(crs, cw, cl), build(lrs, lw, ll)
}

// ByMethodology summarizes every methodology's available outcomes,
// keyed by methodology ID. MethodologyIDs returns the keys sorted.
func ByMethodology(outs []engine.MethodologyOutcome) map[string]Report {
	type acc struct {
		rs           []float64
		wins, losses int
	}
	byID := make(map[string]*acc)
	for _, o := range outs {
		if !o.Available {
			continue
		}
		a := byID[o.MethodologyID]
		if a == nil {
			a = &acc{}
			byID[o.MethodologyID] = a
		}
		a.rs = append(a.rs, o.PnLR)
		if o.Outcome == engine.Win {
			a.wins++
		} else {
			a.losses++
		}
	}

	out := make(map[string]Report, len(byID))
	for id, a := range byID {
		out[id] = build(a.rs, a.wins, a.losses)
	}
	return out
}

// MethodologyIDs returns the report keys in stable order.
func MethodologyIDs(reports map[string]Report) []string {
	ids := make([]string, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
