package methodology

import (
	"fmt"

	"github.com/edgelab/outcomes/market"
)

// ZoneBuffer is the fallback methodology: the stop sits just beyond
// the zone boundary the entry was taken from, padded by a fraction of
// the entry-to-boundary distance. Hits are detected on closes only,
// preserving the legacy close-based trigger semantics this methodology
// has always had.
type ZoneBuffer struct {
	Buffer float64
}

// NewZoneBuffer builds the zone-boundary-buffer methodology. A
// non-positive buffer falls back to 0.05.
func NewZoneBuffer(buffer float64) ZoneBuffer {
	if buffer <= 0 {
		buffer = 0.05
	}
	return ZoneBuffer{Buffer: buffer}
}

func (ZoneBuffer) ID() string           { return "zone_buffer" }
func (ZoneBuffer) Trigger() TriggerMode { return TriggerClose }
func (ZoneBuffer) Canonical() bool      { return true }

// StopDistance places the stop at
//
//	LONG:  zone_low  - buffer*(entry - zone_low)
//	SHORT: zone_high + buffer*(zone_high - entry)
//
// and returns the distance from entry to that stop.
func (m ZoneBuffer) StopDistance(ctx Context) (float64, error) {
	t := ctx.Trade
	switch t.Direction {
	case market.Long:
		if t.ZoneLow == nil {
			return 0, fmt.Errorf("%w: trade %s has no zone_low", ErrUnavailable, t.ID)
		}
		room := t.EntryPrice - *t.ZoneLow
		if room <= 0 {
			return 0, fmt.Errorf("%w: trade %s entered at/below its zone_low", ErrUnavailable, t.ID)
		}
		return room * (1 + m.Buffer), nil
	case market.Short:
		if t.ZoneHigh == nil {
			return 0, fmt.Errorf("%w: trade %s has no zone_high", ErrUnavailable, t.ID)
		}
		room := *t.ZoneHigh - t.EntryPrice
		if room <= 0 {
			return 0, fmt.Errorf("%w: trade %s entered at/above its zone_high", ErrUnavailable, t.ID)
		}
		return room * (1 + m.Buffer), nil
	}
	return 0, fmt.Errorf("%w: trade %s has direction %q", ErrUnavailable, t.ID, t.Direction)
}
