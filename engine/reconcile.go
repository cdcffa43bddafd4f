package engine

import (
	"errors"
	"fmt"
)

// ErrNoMethodologyAvailable marks a trade for which neither the
// primary nor the fallback methodology could run. Such trades are
// excluded from the canonical table and surfaced in the run summary;
// they are never defaulted to a placeholder outcome.
var ErrNoMethodologyAvailable = errors.New("no methodology available")

// ReconcilePolicy names the methodology that governs canonical
// outcomes and the one to fall back to when its preconditions fail.
type ReconcilePolicy struct {
	PrimaryID  string
	FallbackID string
}

// Reconcile selects the governing methodology for a trade.
//
// If the primary is available it is always preferred over the
// fallback, even when the two disagree; reconciliation never votes
// between methodologies. The superseded outcome's headline fields are
// preserved on the canonical record so the two can still be compared
// after canonicalization.
func Reconcile(outcomes []MethodologyOutcome, p ReconcilePolicy) (CanonicalOutcome, error) {
	var primary, fallback *MethodologyOutcome
	for i := range outcomes {
		switch outcomes[i].MethodologyID {
		case p.PrimaryID:
			primary = &outcomes[i]
		case p.FallbackID:
			fallback = &outcomes[i]
		}
	}

	if primary != nil && primary.Available {
		c := canonicalFrom(*primary, MethodPrimary)
		if fallback != nil && fallback.Available {
			c.Legacy = legacyFrom(*fallback)
		}
		return c, nil
	}

	if fallback != nil && fallback.Available {
		return canonicalFrom(*fallback, MethodFallback), nil
	}

	return CanonicalOutcome{}, fmt.Errorf("%w: primary %s (%s), fallback %s (%s)",
		ErrNoMethodologyAvailable,
		p.PrimaryID, reasonOf(primary), p.FallbackID, reasonOf(fallback))
}

func canonicalFrom(o MethodologyOutcome, method OutcomeMethod) CanonicalOutcome {
	return CanonicalOutcome{
		TradeID:       o.TradeID,
		OutcomeMethod: method,
		MethodologyID: o.MethodologyID,
		Outcome:       o.Outcome,
		Exit:          o.Exit,
		MaxR:          o.MaxR,
		Hits:          o.Hits,
		PnLR:          o.PnLR,
		StopPrice:     o.StopPrice,
		StopDistance:  o.StopDistance,
	}
}

func legacyFrom(o MethodologyOutcome) *LegacyOutcome {
	return &LegacyOutcome{
		MethodologyID: o.MethodologyID,
		Outcome:       o.Outcome,
		PnLR:          o.PnLR,
		MaxR:          o.MaxR,
		StopPrice:     o.StopPrice,
		StopDistance:  o.StopDistance,
		ExitType:      o.Exit.Type,
	}
}

func reasonOf(o *MethodologyOutcome) string {
	if o == nil {
		return "not run"
	}
	if o.Available {
		return "available"
	}
	return o.UnavailableReason
}
