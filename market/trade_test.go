package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTrade() Trade {
	return Trade{
		ID:         "T1",
		Ticker:     "AAPL",
		Date:       "2026-01-05",
		Direction:  Long,
		EntryPrice: 100,
		EntryTime:  time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC),
	}
}

func TestDirectionSign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Long.Sign())
	assert.Equal(t, -1.0, Short.Sign())
}

func TestTradeValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validTrade().Validate())

	cases := []struct {
		name   string
		mutate func(*Trade)
	}{
		{"missing id", func(tr *Trade) { tr.ID = "" }},
		{"missing ticker", func(tr *Trade) { tr.Ticker = "" }},
		{"missing date", func(tr *Trade) { tr.Date = "" }},
		{"bad direction", func(tr *Trade) { tr.Direction = "SIDEWAYS" }},
		{"zero entry price", func(tr *Trade) { tr.EntryPrice = 0 }},
		{"negative entry price", func(tr *Trade) { tr.EntryPrice = -1 }},
		{"zero entry time", func(tr *Trade) { tr.EntryTime = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tr := validTrade()
			tc.mutate(&tr)
			err := tr.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedTrade)
		})
	}
}

func TestSessionCutoffFor(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	s := SessionSpec{Location: loc, Cutoff: "15:30"}
	cut, err := s.CutoffFor("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 15, 30, 0, 0, loc), cut)

	_, err = s.CutoffFor("01/05/2026")
	assert.Error(t, err)

	bad := SessionSpec{Location: loc, Cutoff: "half past three"}
	_, err = bad.CutoffFor("2026-01-05")
	assert.Error(t, err)
}

func TestDefaultSession(t *testing.T) {
	t.Parallel()

	s := DefaultSession()
	assert.Equal(t, "15:30", s.Cutoff)
	require.NotNil(t, s.Location)
	assert.Equal(t, "America/New_York", s.Location.String())
}
