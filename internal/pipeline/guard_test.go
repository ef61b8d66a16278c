package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardSingleOwner(t *testing.T) {
	var g Guard

	release, err := g.Acquire()
	require.NoError(t, err)

	_, err = g.Acquire()
	require.ErrorIs(t, err, ErrBusy)

	release()
	release2, err := g.Acquire()
	require.NoError(t, err)
	release2()
}

func TestNilGuardIsNoop(t *testing.T) {
	var g *Guard
	release, err := g.Acquire()
	require.NoError(t, err)
	release()
}

func TestRunnersShareGuard(t *testing.T) {
	var g Guard
	release, err := g.Acquire()
	require.NoError(t, err)
	defer release()

	step := &StepRunner{Gen: newFakeGen(), Pub: newFakePub(), Guard: &g}
	_, err = step.Run(context.Background(), NewState(site), StageTopic)
	require.ErrorIs(t, err, ErrBusy)

	lucky := &LuckyRunner{Gen: newFakeGen(), Pub: newFakePub(), Guard: &g}
	_, err = lucky.Run(context.Background(), site)
	require.ErrorIs(t, err, ErrBusy)

	series := &SeriesRunner{Gen: newFakeGen(), Pub: newFakePub(), Guard: &g}
	_, err = series.Run(context.Background(), site, SeriesConfig{Now: fixedClock})
	require.ErrorIs(t, err, ErrBusy)
}
