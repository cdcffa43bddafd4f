package indicators

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/edgelab/outcomes/market"
)

// ATR returns the Average True Range (Wilder smoothing) of the last
// bar in the series, computed over the given period.
// Needs period+1 bars because the true range uses the previous close.
func ATR(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("atr: period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("atr: not enough bars: need %d, got %d", period+1, len(bars))
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	out := talib.Atr(highs, lows, closes, period)
	v := out[len(out)-1]
	if math.IsNaN(v) || v <= 0 {
		return 0, fmt.Errorf("atr: degenerate value %v over %d bars", v, len(bars))
	}
	return v, nil
}
