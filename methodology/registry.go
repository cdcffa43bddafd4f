package methodology

import (
	"fmt"
)

// Params carries the tunables for every known methodology. Values are
// passed explicitly into each policy; there is no process-wide
// "current methodology" state.
type Params struct {
	ATRStopMultiple  float64
	ZoneBufferPct    float64
	SessionATRWindow int
}

// Set is the fixed collection of methodologies a batch run evaluates:
// one primary, one fallback, and any number of descriptive-only
// policies run for comparison.
type Set struct {
	primary     Methodology
	fallback    Methodology
	descriptive []Methodology
}

func (s Set) Primary() Methodology  { return s.primary }
func (s Set) Fallback() Methodology { return s.fallback }

// All returns every methodology in the set, primary first.
func (s Set) All() []Methodology {
	out := make([]Methodology, 0, 2+len(s.descriptive))
	out = append(out, s.primary, s.fallback)
	out = append(out, s.descriptive...)
	return out
}

// ByID returns the methodology with the given ID, if present.
func (s Set) ByID(id string) (Methodology, bool) {
	for _, m := range s.All() {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

func build(id string, p Params) (Methodology, error) {
	switch id {
	case "atr":
		return NewATRStop(p.ATRStopMultiple), nil
	case "zone_buffer":
		return NewZoneBuffer(p.ZoneBufferPct), nil
	case "prior_bar":
		return PriorBar{}, nil
	case "session_atr":
		return NewSessionATR(p.SessionATRWindow, 1.0), nil
	}
	return nil, fmt.Errorf("unknown methodology %q", id)
}

// NewSet builds a methodology set from IDs. The primary and fallback
// must be distinct and eligible for canonical selection.
func NewSet(primary, fallback string, descriptive []string, p Params) (Set, error) {
	if primary == fallback {
		return Set{}, fmt.Errorf("primary and fallback methodology are both %q", primary)
	}

	pm, err := build(primary, p)
	if err != nil {
		return Set{}, fmt.Errorf("primary: %w", err)
	}
	fm, err := build(fallback, p)
	if err != nil {
		return Set{}, fmt.Errorf("fallback: %w", err)
	}
	if !pm.Canonical() {
		return Set{}, fmt.Errorf("methodology %q is descriptive-only, cannot be primary", primary)
	}
	if !fm.Canonical() {
		return Set{}, fmt.Errorf("methodology %q is descriptive-only, cannot be fallback", fallback)
	}

	s := Set{primary: pm, fallback: fm}
	for _, id := range descriptive {
		if id == primary || id == fallback {
			continue
		}
		m, err := build(id, p)
		if err != nil {
			return Set{}, fmt.Errorf("descriptive: %w", err)
		}
		s.descriptive = append(s.descriptive, m)
	}
	return s, nil
}
