package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minuteBar(hh, mm int) Bar {
	return Bar{
		Time: time.Date(2026, 1, 5, hh, mm, 0, 0, time.UTC),
		Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
	}
}

func TestSorted(t *testing.T) {
	t.Parallel()

	assert.True(t, Sorted(nil))
	assert.True(t, Sorted([]Bar{minuteBar(9, 30)}))
	assert.True(t, Sorted([]Bar{minuteBar(9, 30), minuteBar(9, 31), minuteBar(9, 33)}))
	assert.False(t, Sorted([]Bar{minuteBar(9, 31), minuteBar(9, 30)}))
}

func TestSessionSlice(t *testing.T) {
	t.Parallel()

	bars := []Bar{
		minuteBar(9, 30),
		minuteBar(9, 45),
		minuteBar(10, 0),
		minuteBar(15, 30),
		minuteBar(15, 31),
	}

	from := time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC)
	cutoff := time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC)

	got := SessionSlice(bars, from, cutoff)
	require.Len(t, got, 3)

	// Both bounds are inclusive: the bar exactly at entry and the bar
	// exactly at cutoff are in, the bar after cutoff is out.
	assert.Equal(t, bars[1].Time, got[0].Time)
	assert.Equal(t, bars[3].Time, got[2].Time)
}

func TestSessionSliceEmpty(t *testing.T) {
	t.Parallel()

	bars := []Bar{minuteBar(9, 30), minuteBar(9, 31)}

	from := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	cutoff := time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC)
	assert.Empty(t, SessionSlice(bars, from, cutoff))

	assert.Empty(t, SessionSlice(nil, from, cutoff))
}

func TestPreEntry(t *testing.T) {
	t.Parallel()

	bars := []Bar{
		minuteBar(9, 30),
		minuteBar(9, 31),
		minuteBar(9, 45),
	}

	// Strictly before: a bar exactly at entry is not pre-entry.
	entry := time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC)
	got := PreEntry(bars, entry)
	require.Len(t, got, 2)
	assert.Equal(t, bars[1].Time, got[1].Time)

	assert.Empty(t, PreEntry(bars, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))
}
