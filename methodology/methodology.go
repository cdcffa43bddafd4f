// Package methodology defines the stop-placement policies the engine
// runs against every trade. Each methodology is a pure policy value:
// given the trade's entry context it yields a stop distance, and it
// declares whether hits are detected on intrabar extremes (PRICE) or
// on closes only (CLOSE).
//
// Methodologies never touch the walker or the resolver; adding a new
// stop policy means adding a value here and registering it in NewSet.
package methodology

import (
	"errors"

	"github.com/edgelab/outcomes/market"
)

// TriggerMode selects how stop and target hits are detected.
type TriggerMode string

const (
	// TriggerPrice compares the bar's high/low: an intrabar wick
	// through the level counts as a hit.
	TriggerPrice TriggerMode = "PRICE"
	// TriggerClose compares the bar's close only: a wick through the
	// level does not count.
	TriggerClose TriggerMode = "CLOSE"
)

// ErrUnavailable marks a methodology whose data preconditions are not
// met for a trade. It is recorded against that methodology and never
// fails the trade as a whole.
var ErrUnavailable = errors.New("methodology unavailable")

// RLevelCount is the number of R-multiple targets every methodology
// defines (R1..R5).
const RLevelCount = 5

// Context is the entry context a methodology computes its stop from.
// Session holds the full bar series for the trade's (ticker, date);
// policies that only need trade fields ignore it.
type Context struct {
	Trade   market.Trade
	Session []market.Bar
}

// Methodology is one named stop-placement policy.
type Methodology interface {
	ID() string
	Trigger() TriggerMode

	// Canonical reports whether this methodology may govern the
	// canonical outcome. Descriptive-only methodologies return false.
	Canonical() bool

	// StopDistance returns the 1R distance for the trade, or an error
	// wrapping ErrUnavailable when the policy's preconditions are
	// unmet (missing ATR, missing zone bound, too few bars).
	StopDistance(ctx Context) (float64, error)
}

// RLevels returns the R-multiple ladder shared by all methodologies.
func RLevels() []float64 {
	return []float64{1, 2, 3, 4, 5}
}
