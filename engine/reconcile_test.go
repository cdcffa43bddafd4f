package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = ReconcilePolicy{PrimaryID: "atr", FallbackID: "zone_buffer"}

func available(methodologyID string, outcome Outcome, pnl float64) MethodologyOutcome {
	return MethodologyOutcome{
		TradeID:       "T1",
		MethodologyID: methodologyID,
		Available:     true,
		Outcome:       outcome,
		Exit:          ExitEvent{Type: ExitStop, Time: at(9, 46), FillPrice: 99},
		PnLR:          pnl,
		StopPrice:     99,
		StopDistance:  1,
	}
}

func notAvailable(methodologyID, reason string) MethodologyOutcome {
	return MethodologyOutcome{
		TradeID:           "T1",
		MethodologyID:     methodologyID,
		Available:         false,
		UnavailableReason: reason,
	}
}

func TestReconcilePrimaryPreferred(t *testing.T) {
	t.Parallel()

	outs := []MethodologyOutcome{
		available("atr", Loss, -1),
		available("zone_buffer", Win, 2),
		available("prior_bar", Win, 3), // descriptive, never considered
	}

	c, err := Reconcile(outs, testPolicy)
	require.NoError(t, err)

	// Primary governs even though the fallback disagrees.
	assert.Equal(t, MethodPrimary, c.OutcomeMethod)
	assert.Equal(t, "atr", c.MethodologyID)
	assert.Equal(t, Loss, c.Outcome)

	// The superseded fallback outcome is preserved for comparison.
	require.NotNil(t, c.Legacy)
	assert.Equal(t, "zone_buffer", c.Legacy.MethodologyID)
	assert.Equal(t, Win, c.Legacy.Outcome)
	assert.Equal(t, 2.0, c.Legacy.PnLR)
}

func TestReconcileFallbackWhenPrimaryUnavailable(t *testing.T) {
	t.Parallel()

	outs := []MethodologyOutcome{
		notAvailable("atr", "no ATR value recorded"),
		available("zone_buffer", Win, 1),
	}

	c, err := Reconcile(outs, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, c.OutcomeMethod)
	assert.Equal(t, "zone_buffer", c.MethodologyID)
	assert.Nil(t, c.Legacy)
}

func TestReconcilePrimaryOnlyHasNoLegacy(t *testing.T) {
	t.Parallel()

	outs := []MethodologyOutcome{
		available("atr", Win, 2),
		notAvailable("zone_buffer", "no zone_low"),
	}

	c, err := Reconcile(outs, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, MethodPrimary, c.OutcomeMethod)
	assert.Nil(t, c.Legacy)
}

func TestReconcileNeitherAvailable(t *testing.T) {
	t.Parallel()

	outs := []MethodologyOutcome{
		notAvailable("atr", "no ATR value recorded"),
		notAvailable("zone_buffer", "no zone_low"),
	}

	_, err := Reconcile(outs, testPolicy)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMethodologyAvailable)
	assert.Contains(t, err.Error(), "no ATR value recorded")
	assert.Contains(t, err.Error(), "no zone_low")
}

func TestReconcileNothingRan(t *testing.T) {
	t.Parallel()

	_, err := Reconcile(nil, testPolicy)
	assert.ErrorIs(t, err, ErrNoMethodologyAvailable)
}
