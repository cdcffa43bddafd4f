// Package engine resolves historical trade outcomes: it walks each
// trade's minute bars once, decides deterministically whether and how
// the trade exited (stop, R target, end of day) under every configured
// stop methodology, and reconciles those per-methodology outcomes into
// a single canonical outcome per trade.
package engine

import (
	"time"
)

// ExitType tags the realized exit of a (trade, methodology) walk.
type ExitType string

const (
	ExitStop    ExitType = "STOP"
	ExitRTarget ExitType = "R_TARGET"
	ExitEOD     ExitType = "EOD"
)

// ExitEvent is the single realized exit of one walk.
//
// Fill prices are ideal by design: a STOP fills at the stop price
// exactly, an R target at the target price exactly, and EOD at the
// cutoff bar's close. No slippage adjustment is ever applied.
type ExitEvent struct {
	Type          ExitType
	Level         int // 1..5 for R_TARGET, 0 otherwise
	Time          time.Time
	FillPrice     float64
	BarsFromEntry int
}

// RLevelHit records the first bar on which an R-multiple target was
// reached, whether or not that level ended up being the realized exit.
type RLevelHit struct {
	Level         int // 1..5
	Time          time.Time
	BarsFromEntry int
	Price         float64
}

// Outcome is the binary WIN/LOSS verdict.
type Outcome string

const (
	Win  Outcome = "WIN"
	Loss Outcome = "LOSS"
)

// MethodologyOutcome is the full result of running one methodology
// against one trade. It is recomputed from scratch on every run, never
// patched incrementally.
//
// When Available is false the methodology's preconditions were unmet;
// UnavailableReason says why, and the outcome fields are zero.
type MethodologyOutcome struct {
	TradeID           string
	MethodologyID     string
	Available         bool
	UnavailableReason string

	Outcome      Outcome
	Exit         ExitEvent
	MaxR         int // highest level in Hits, 0..5
	Hits         []RLevelHit
	PnLR         float64
	StopPrice    float64
	StopDistance float64
}

// OutcomeMethod says which methodology governs a canonical outcome.
type OutcomeMethod string

const (
	MethodPrimary  OutcomeMethod = "primary"
	MethodFallback OutcomeMethod = "fallback"
)

// LegacyOutcome preserves the headline fields of the superseded
// methodology after canonicalization, so comparative analysis between
// methodologies stays possible downstream.
type LegacyOutcome struct {
	MethodologyID string
	Outcome       Outcome
	PnLR          float64
	MaxR          int
	StopPrice     float64
	StopDistance  float64
	ExitType      ExitType
}

// CanonicalOutcome is the one governing outcome per trade. It always
// references a methodology whose preconditions were actually met.
type CanonicalOutcome struct {
	TradeID       string
	OutcomeMethod OutcomeMethod
	MethodologyID string

	Outcome      Outcome
	Exit         ExitEvent
	MaxR         int
	Hits         []RLevelHit
	PnLR         float64
	StopPrice    float64
	StopDistance float64

	Legacy *LegacyOutcome
}
