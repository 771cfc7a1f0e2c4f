package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenLoopSpeedInitial(t *testing.T) {
	p := mustNew(t, *NewConfig())
	for _, elapsed := range []float64{0, 1e-5, 0.5, 10} {
		require.Equal(t, 0.0, p.OpenLoopSpeed(elapsed))
	}
}

func TestSpeedAfter(t *testing.T) {
	testCases := []struct {
		name    string
		profile Profile
		elapsed float64
		expect  float64
	}{
		{"single point", Profile{{X: 1, Y: 2, Speed: 3}}, 0, 3},
		{"single point later", Profile{{X: 1, Y: 2, Speed: 3}}, 42, 3},
		{"no time passed", Profile{{Speed: 2}, {X: 2, Speed: 4}}, 5e-5, 2},
		{"constant segment", Profile{{Speed: 10}, {X: 10, Speed: 10}}, 0.5, 10},
		{"interpolate first segment", Profile{{Speed: 2}, {X: 2, Speed: 4}, {X: 4, Speed: 4}}, 0.5, 3},
		{"interpolate second segment", Profile{{Speed: 2}, {X: 2, Speed: 4}, {X: 4, Speed: 6}}, 1.25, 5},
		{"past the end", Profile{{Speed: 2}, {X: 2, Speed: 4}, {X: 4, Speed: 6}}, 1.5, 6},
		{"far past the end", Profile{{Speed: 2}, {X: 2, Speed: 4}, {X: 4, Speed: 6}}, 100, 6},
		{"stationary", Profile{{Speed: 0}, {X: 1, Speed: 0}}, 3, 0},
		{"stopped midway", Profile{{Speed: 1}, {X: 1, Speed: 0}, {X: 2, Speed: 0}}, 5, 0},
		{"empty", Profile{}, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, tc.profile.SpeedAfter(tc.elapsed), 1e-9)
		})
	}
}

func TestOpenLoopSpeedFollowsLatestProfile(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 0})
	_, err := p.ComputeVelocityProfile(Request{
		Path:         straightPath(30, 1),
		DesiredSpeed: 5,
		Ego:          EgoState{Speed: 1},
	})
	require.NoError(t, err)
	prev := 0.0
	for _, elapsed := range []float64{0, 0.5, 1, 2, 3, 4, 6} {
		v := p.OpenLoopSpeed(elapsed)
		require.True(t, v >= prev, "elapsed %v", elapsed)
		require.True(t, v <= 5)
		prev = v
	}
	require.Equal(t, 5.0, p.OpenLoopSpeed(1000))
}
