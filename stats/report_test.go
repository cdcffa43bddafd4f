package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgelab/outcomes/engine"
)

func canon(id string, outcome engine.Outcome, pnl float64, legacy *engine.LegacyOutcome) engine.CanonicalOutcome {
	return engine.CanonicalOutcome{
		TradeID:       id,
		OutcomeMethod: engine.MethodPrimary,
		MethodologyID: "atr",
		Outcome:       outcome,
		PnLR:          pnl,
		Legacy:        legacy,
	}
}

func TestCanonicalReport(t *testing.T) {
	t.Parallel()

	outs := []engine.CanonicalOutcome{
		canon("T1", engine.Win, 2, nil),
		canon("T2", engine.Loss, -1, nil),
		canon("T3", engine.Win, 1, nil),
		canon("T4", engine.Loss, -1, nil),
	}

	r := Canonical(outs)
	assert.Equal(t, 4, r.Trades)
	assert.Equal(t, 2, r.Wins)
	assert.Equal(t, 2, r.Losses)
	assert.InDelta(t, 0.5, r.WinRate, 1e-12)
	assert.InDelta(t, 0.25, r.Expectancy, 1e-12)
	assert.Greater(t, r.RStdDev, 0.0)
}

func TestCanonicalReportEmpty(t *testing.T) {
	t.Parallel()

	r := Canonical(nil)
	assert.Equal(t, 0, r.Trades)
	assert.Zero(t, r.WinRate)
	assert.Zero(t, r.Expectancy)
	assert.Zero(t, r.RStdDev)
}

func TestSingleTradeHasNoStdDev(t *testing.T) {
	t.Parallel()

	r := Canonical([]engine.CanonicalOutcome{canon("T1", engine.Win, 2, nil)})
	assert.Equal(t, 1, r.Trades)
	assert.Zero(t, r.RStdDev)
}

func TestLegacyComparison(t *testing.T) {
	t.Parallel()

	legacyLoss := &engine.LegacyOutcome{MethodologyID: "zone_buffer", Outcome: engine.Loss, PnLR: -1}
	legacyWin := &engine.LegacyOutcome{MethodologyID: "zone_buffer", Outcome: engine.Win, PnLR: 1}

	outs := []engine.CanonicalOutcome{
		canon("T1", engine.Win, 2, legacyLoss),
		canon("T2", engine.Win, 3, legacyWin),
		canon("T3", engine.Loss, -1, nil), // no legacy: excluded from comparison
	}

	c, l := LegacyComparison(outs)
	assert.Equal(t, 2, c.Trades)
	assert.Equal(t, 2, l.Trades)
	assert.InDelta(t, 2.5, c.Expectancy, 1e-12)
	assert.InDelta(t, 0.0, l.Expectancy, 1e-12)
	assert.Equal(t, 1, l.Wins)
	assert.Equal(t, 1, l.Losses)
}

func TestByMethodologySkipsUnavailable(t *testing.T) {
	t.Parallel()

	outs := []engine.MethodologyOutcome{
		{TradeID: "T1", MethodologyID: "atr", Available: true, Outcome: engine.Win, PnLR: 2},
		{TradeID: "T2", MethodologyID: "atr", Available: true, Outcome: engine.Loss, PnLR: -1},
		{TradeID: "T1", MethodologyID: "zone_buffer", Available: true, Outcome: engine.Win, PnLR: 1},
		{TradeID: "T2", MethodologyID: "zone_buffer", Available: false, UnavailableReason: "no zone_low"},
	}

	byID := ByMethodology(outs)
	require.Len(t, byID, 2)
	assert.Equal(t, 2, byID["atr"].Trades)
	assert.Equal(t, 1, byID["zone_buffer"].Trades)
	assert.InDelta(t, 0.5, byID["atr"].Expectancy, 1e-12)

	assert.Equal(t, []string{"atr", "zone_buffer"}, MethodologyIDs(byID))
}
