package market

import (
	"sort"
	"time"
)

// Bar is one OHLCV interval in a (ticker, date) series. Series are
// chronologically sorted and may contain gaps (non-trading minutes);
// the engine tolerates gaps and never interpolates.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Sorted reports whether bars are in non-decreasing time order.
func Sorted(bars []Bar) bool {
	return sort.SliceIsSorted(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
}

// SessionSlice returns the bars in [from, cutoff], preserving order.
// The result aliases the input slice.
func SessionSlice(bars []Bar, from, cutoff time.Time) []Bar {
	lo := sort.Search(len(bars), func(i int) bool {
		return !bars[i].Time.Before(from)
	})
	hi := sort.Search(len(bars), func(i int) bool {
		return bars[i].Time.After(cutoff)
	})
	if lo >= hi {
		return nil
	}
	return bars[lo:hi]
}

// PreEntry returns the bars strictly before entry, preserving order.
func PreEntry(bars []Bar, entry time.Time) []Bar {
	hi := sort.Search(len(bars), func(i int) bool {
		return !bars[i].Time.Before(entry)
	})
	if hi == 0 {
		return nil
	}
	return bars[:hi]
}
