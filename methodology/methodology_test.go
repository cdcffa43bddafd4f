package methodology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgelab/outcomes/market"
)

func f(v float64) *float64 { return &v }

func longTrade() market.Trade {
	return market.Trade{
		ID:         "T1",
		Ticker:     "AAPL",
		Date:       "2026-01-05",
		Direction:  market.Long,
		EntryPrice: 100,
		EntryTime:  time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC),
	}
}

func TestATRStopDistance(t *testing.T) {
	t.Parallel()

	tr := longTrade()
	tr.ATR = f(1.1)

	m := NewATRStop(1.0)
	dist, err := m.StopDistance(Context{Trade: tr})
	require.NoError(t, err)
	assert.InDelta(t, 1.1, dist, 1e-12)

	m2 := NewATRStop(2.0)
	dist, err = m2.StopDistance(Context{Trade: tr})
	require.NoError(t, err)
	assert.InDelta(t, 2.2, dist, 1e-12)
}

func TestATRStopUnavailable(t *testing.T) {
	t.Parallel()

	m := NewATRStop(1.0)

	_, err := m.StopDistance(Context{Trade: longTrade()})
	assert.ErrorIs(t, err, ErrUnavailable)

	tr := longTrade()
	tr.ATR = f(0)
	_, err = m.StopDistance(Context{Trade: tr})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestATRStopDefaultMultiple(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, NewATRStop(0).Multiple)
	assert.Equal(t, 1.0, NewATRStop(-2).Multiple)
}

func TestZoneBufferLong(t *testing.T) {
	t.Parallel()

	tr := longTrade()
	tr.ZoneLow = f(98)

	m := NewZoneBuffer(0.05)
	dist, err := m.StopDistance(Context{Trade: tr})
	require.NoError(t, err)

	// room = 100 - 98 = 2; stop at 98 - 0.05*2 = 97.90; distance 2.10.
	assert.InDelta(t, 2.10, dist, 1e-12)
	assert.InDelta(t, 97.90, tr.EntryPrice-dist, 1e-12)
}

func TestZoneBufferShort(t *testing.T) {
	t.Parallel()

	tr := longTrade()
	tr.Direction = market.Short
	tr.ZoneHigh = f(102)

	m := NewZoneBuffer(0.05)
	dist, err := m.StopDistance(Context{Trade: tr})
	require.NoError(t, err)
	assert.InDelta(t, 2.10, dist, 1e-12)
	assert.InDelta(t, 102.10, tr.EntryPrice+dist, 1e-12)
}

func TestZoneBufferUnavailable(t *testing.T) {
	t.Parallel()

	m := NewZoneBuffer(0.05)

	// Missing zone bound.
	_, err := m.StopDistance(Context{Trade: longTrade()})
	assert.ErrorIs(t, err, ErrUnavailable)

	// Entry at/below zone_low leaves no room for a LONG stop.
	tr := longTrade()
	tr.ZoneLow = f(100)
	_, err = m.StopDistance(Context{Trade: tr})
	assert.ErrorIs(t, err, ErrUnavailable)

	tr.ZoneLow = f(101)
	_, err = m.StopDistance(Context{Trade: tr})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPriorBarStop(t *testing.T) {
	t.Parallel()

	tr := longTrade()
	session := []market.Bar{
		{Time: time.Date(2026, 1, 5, 9, 43, 0, 0, time.UTC), High: 100.4, Low: 99.6},
		{Time: time.Date(2026, 1, 5, 9, 44, 0, 0, time.UTC), High: 100.5, Low: 99.2},
		{Time: time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC), High: 100.9, Low: 99.9},
	}

	dist, err := PriorBar{}.StopDistance(Context{Trade: tr, Session: session})
	require.NoError(t, err)

	// Last bar strictly before 09:45 is the 09:44 bar; LONG stop at its low.
	assert.InDelta(t, 0.8, dist, 1e-12)
}

func TestPriorBarUnavailable(t *testing.T) {
	t.Parallel()

	tr := longTrade()

	_, err := PriorBar{}.StopDistance(Context{Trade: tr})
	assert.ErrorIs(t, err, ErrUnavailable)

	// Prior bar low above entry is no stop at all for a LONG.
	session := []market.Bar{
		{Time: time.Date(2026, 1, 5, 9, 44, 0, 0, time.UTC), High: 101, Low: 100.5},
	}
	_, err = PriorBar{}.StopDistance(Context{Trade: tr, Session: session})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSessionATRUnavailable(t *testing.T) {
	t.Parallel()

	m := NewSessionATR(5, 1.0)

	// Too few pre-entry bars for the window.
	session := []market.Bar{
		{Time: time.Date(2026, 1, 5, 9, 43, 0, 0, time.UTC), High: 100.4, Low: 99.6, Close: 100},
		{Time: time.Date(2026, 1, 5, 9, 44, 0, 0, time.UTC), High: 100.5, Low: 99.2, Close: 100},
	}
	_, err := m.StopDistance(Context{Trade: longTrade(), Session: session})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSessionATRStopDistance(t *testing.T) {
	t.Parallel()

	tr := longTrade()
	start := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	session := make([]market.Bar, 10)
	for i := range session {
		session[i] = market.Bar{
			Time: start.Add(time.Duration(i) * time.Minute),
			Open: 100, High: 100.25, Low: 99.75, Close: 100,
		}
	}

	m := NewSessionATR(5, 1.0)
	dist, err := m.StopDistance(Context{Trade: tr, Session: session})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist, 1e-9)
}

func TestNewSet(t *testing.T) {
	t.Parallel()

	p := Params{ATRStopMultiple: 1.0, ZoneBufferPct: 0.05, SessionATRWindow: 5}

	set, err := NewSet("atr", "zone_buffer", []string{"prior_bar", "session_atr"}, p)
	require.NoError(t, err)

	assert.Equal(t, "atr", set.Primary().ID())
	assert.Equal(t, "zone_buffer", set.Fallback().ID())
	require.Len(t, set.All(), 4)
	assert.Equal(t, "atr", set.All()[0].ID())

	m, ok := set.ByID("session_atr")
	require.True(t, ok)
	assert.False(t, m.Canonical())

	_, ok = set.ByID("nope")
	assert.False(t, ok)
}

func TestNewSetRejectsBadCombos(t *testing.T) {
	t.Parallel()

	p := Params{ATRStopMultiple: 1.0, ZoneBufferPct: 0.05, SessionATRWindow: 5}

	_, err := NewSet("atr", "atr", nil, p)
	assert.Error(t, err)

	_, err = NewSet("prior_bar", "zone_buffer", nil, p)
	assert.Error(t, err)

	_, err = NewSet("atr", "session_atr", nil, p)
	assert.Error(t, err)

	_, err = NewSet("atr", "fibonacci", nil, p)
	assert.Error(t, err)
}

func TestTriggerModes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TriggerPrice, NewATRStop(1).Trigger())
	assert.Equal(t, TriggerClose, NewZoneBuffer(0.05).Trigger())
	assert.Equal(t, TriggerPrice, PriorBar{}.Trigger())
	assert.Equal(t, TriggerPrice, NewSessionATR(5, 1).Trigger())
}
