package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStopWinsOverTargets(t *testing.T) {
	t.Parallel()

	exit, err := Resolve(Candidates{
		Stop: &Candidate{Time: at(9, 46), BarsFromEntry: 1, Price: 99},
		Targets: []Candidate{
			{Level: 1, Time: at(9, 46), BarsFromEntry: 1, Price: 101},
			{Level: 2, Time: at(9, 46), BarsFromEntry: 1, Price: 102},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ExitStop, exit.Type)
	assert.Equal(t, 0, exit.Level)
	assert.InDelta(t, 99.0, exit.FillPrice, 1e-12)
}

func TestResolveHighestTarget(t *testing.T) {
	t.Parallel()

	exit, err := Resolve(Candidates{
		Targets: []Candidate{
			{Level: 1, Time: at(9, 46), BarsFromEntry: 1, Price: 101},
			{Level: 3, Time: at(9, 50), BarsFromEntry: 5, Price: 103},
			{Level: 2, Time: at(9, 48), BarsFromEntry: 3, Price: 102},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ExitRTarget, exit.Type)
	assert.Equal(t, 3, exit.Level)
	assert.Equal(t, at(9, 50), exit.Time)
	assert.InDelta(t, 103.0, exit.FillPrice, 1e-12)
}

func TestResolveEODLast(t *testing.T) {
	t.Parallel()

	exit, err := Resolve(Candidates{
		EOD: &Candidate{Time: at(15, 30), BarsFromEntry: 9, Price: 100.4},
	})
	require.NoError(t, err)
	assert.Equal(t, ExitEOD, exit.Type)
	assert.InDelta(t, 100.4, exit.FillPrice, 1e-12)

	// EOD never outranks a reached target.
	exit, err = Resolve(Candidates{
		Targets: []Candidate{{Level: 1, Time: at(10, 0), BarsFromEntry: 2, Price: 101}},
		EOD:     &Candidate{Time: at(15, 30), BarsFromEntry: 9, Price: 100.4},
	})
	require.NoError(t, err)
	assert.Equal(t, ExitRTarget, exit.Type)
}

func TestResolveNoCandidates(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Candidates{})
	assert.ErrorIs(t, err, ErrNoCandidates)
}
