package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func straightPath(n int, spacing float64) Path {
	path := make(Path, n)
	for i := range path {
		path[i] = Waypoint{X: float64(i) * spacing}
	}
	return path
}

func mustNew(t *testing.T, conf Config) *Planner {
	p, err := New(conf)
	require.NoError(t, err)
	return p
}

func requireWellFormed(t *testing.T, path Path, prof Profile) {
	require.Len(t, prof, len(path))
	for n, pt := range prof {
		require.False(t, math.IsNaN(pt.Speed), "speed at %d", n)
		require.True(t, pt.Speed >= 0, "speed at %d is %v", n, pt.Speed)
	}
}

func TestStopProfileShortPath(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 2, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(5, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:             path,
		Ego:              EgoState{Speed: 5},
		DecelerateToStop: true,
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)
	require.Equal(t, 0.0, prof[4].Speed)
	require.InDelta(t, 2, prof[3].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(8), prof[2].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(12), prof[1].Speed, 1e-9)
	require.InDelta(t, 4+0.1*(math.Sqrt(12)-4), prof[0].Speed, 1e-9)
	require.InDelta(t, 0.1, prof[0].X, 1e-9)
	for i := 1; i < len(prof); i++ {
		require.True(t, prof[i].Speed <= prof[i-1].Speed)
	}
}

func TestStopProfileNeverExceedsStartSpeed(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 3, SlowSpeed: 2, StopLineBuffer: 1})
	path := straightPath(10, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:             path,
		Ego:              EgoState{Speed: 1},
		DecelerateToStop: true,
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)
	for _, pt := range prof {
		require.True(t, pt.Speed <= 1)
	}
	require.Equal(t, 0.0, prof[9].Speed)
	require.Equal(t, 0.0, prof[8].Speed)
	for i := 1; i+1 < len(prof); i++ {
		decel := (prof[i].Speed*prof[i].Speed - prof[i+1].Speed*prof[i+1].Speed) / 2
		require.True(t, decel <= 3+1e-9)
	}
}

func TestStopProfileTwoStages(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 2})
	path := straightPath(30, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:             path,
		Ego:              EgoState{Speed: 3},
		DecelerateToStop: true,
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)

	require.InDelta(t, 3+0.1*(math.Sqrt(7)-3), prof[0].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(7), prof[1].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(5), prof[2].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(3), prof[3].Speed, 1e-9)
	for i := 4; i <= 26; i++ {
		require.InDelta(t, 1, prof[i].Speed, 1e-9, "index %d", i)
	}
	for i := 27; i < 30; i++ {
		require.Equal(t, 0.0, prof[i].Speed, "index %d", i)
	}
}

func TestStopProfileBufferCoversPath(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 100})
	path := straightPath(6, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:             path,
		Ego:              EgoState{Speed: 8},
		DecelerateToStop: true,
	})
	require.NoError(t, err)
	for _, pt := range prof {
		require.Equal(t, 0.0, pt.Speed)
	}
}

func TestFollowProfile(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 2, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(20, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:              path,
		DesiredSpeed:      10,
		Ego:               EgoState{Speed: 5},
		Lead:              LeadCarState{X: 8, Y: 0.5, Speed: 3},
		FollowLeadVehicle: true,
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)

	require.InDelta(t, math.Sqrt(21), prof[1].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(17), prof[2].Speed, 1e-9)
	require.InDelta(t, math.Sqrt(13), prof[3].Speed, 1e-9)
	for i := 4; i < len(prof); i++ {
		require.InDelta(t, 3, prof[i].Speed, 1e-9, "index %d", i)
	}
	for i := 1; i+1 <= 5; i++ {
		decel := (prof[i].Speed*prof[i].Speed - prof[i+1].Speed*prof[i+1].Speed) / 2
		require.True(t, decel <= 2+1e-9)
	}
}

func TestFollowProfileCappedByLeadSpeed(t *testing.T) {
	testCases := []struct {
		name      string
		desired   float64
		leadSpeed float64
		expect    float64
	}{
		{"lead slower", 10, 3, 3},
		{"lead faster", 4, 12, 4},
		{"lead stopped", 6, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustNew(t, Config{TimeGap: 2, AMax: 1.5, SlowSpeed: 1, StopLineBuffer: 0})
			path := straightPath(40, 2)
			prof, err := p.ComputeVelocityProfile(Request{
				Path:              path,
				DesiredSpeed:      tc.desired,
				Ego:               EgoState{Speed: 2},
				Lead:              LeadCarState{X: 70, Speed: tc.leadSpeed},
				FollowLeadVehicle: true,
			})
			require.NoError(t, err)
			requireWellFormed(t, path, prof)
			require.InDelta(t, tc.expect, prof[len(prof)-1].Speed, 1e-9)
			for _, pt := range prof[1:] {
				require.True(t, pt.Speed <= math.Max(2, tc.expect)+1e-9)
			}
		})
	}
}

func TestFollowProfileLeadBeyondPath(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(5, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:              path,
		DesiredSpeed:      3,
		Ego:               EgoState{Speed: 1},
		Lead:              LeadCarState{X: 50, Speed: 5},
		FollowLeadVehicle: true,
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)
	for i := 1; i < len(prof); i++ {
		require.True(t, prof[i].Speed >= prof[i-1].Speed)
		require.True(t, prof[i].Speed <= 3)
	}
}

func TestNominalProfileAccelerate(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(20, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:         path,
		DesiredSpeed: 5,
		Ego:          EgoState{Speed: 0},
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)

	require.InDelta(t, 0.1*math.Sqrt(2), prof[0].Speed, 1e-9)
	for i := 1; i <= 12; i++ {
		require.InDelta(t, math.Sqrt(2*float64(i)), prof[i].Speed, 1e-9, "index %d", i)
	}
	for i := 13; i < len(prof); i++ {
		require.Equal(t, 5.0, prof[i].Speed, "index %d", i)
	}
	for i := 1; i < len(prof); i++ {
		require.True(t, prof[i].Speed >= prof[i-1].Speed)
		accel := (prof[i].Speed*prof[i].Speed - prof[i-1].Speed*prof[i-1].Speed) / 2
		if i > 1 {
			require.True(t, accel <= 1+1e-9, "index %d", i)
		}
	}
}

func TestNominalProfileDecelerate(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 2, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(40, 1)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:         path,
		DesiredSpeed: 4,
		Ego:          EgoState{Speed: 10},
	})
	require.NoError(t, err)
	requireWellFormed(t, path, prof)
	for i := 1; i < len(prof); i++ {
		require.True(t, prof[i].Speed <= prof[i-1].Speed, "index %d", i)
		require.True(t, prof[i].Speed >= 4)
	}
	for i := 21; i < len(prof); i++ {
		require.Equal(t, 4.0, prof[i].Speed)
	}
}

func TestNominalProfileShortPath(t *testing.T) {
	testCases := []struct {
		name    string
		start   float64
		desired float64
		speeds  []float64
	}{
		{"accelerate", 0, 5, []float64{0, math.Sqrt(2), 2}},
		{"decelerate", 10, 0, []float64{10, math.Sqrt(98), math.Sqrt(96)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustNew(t, Config{TimeGap: 1, AMax: 1, SlowSpeed: 1, StopLineBuffer: 0})
			path := straightPath(3, 1)
			prof, err := p.ComputeVelocityProfile(Request{
				Path:         path,
				DesiredSpeed: tc.desired,
				Ego:          EgoState{Speed: tc.start},
			})
			require.NoError(t, err)
			requireWellFormed(t, path, prof)
			for i := 1; i < len(prof); i++ {
				require.InDelta(t, tc.speeds[i], prof[i].Speed, 1e-9, "index %d", i)
				accel := (prof[i].Speed*prof[i].Speed - prof[i-1].Speed*prof[i-1].Speed) / 2
				require.True(t, math.Abs(accel) <= 1+1e-9, "index %d accel %v", i, accel)
			}
		})
	}
}

func TestNominalProfileHoldSpeed(t *testing.T) {
	p := mustNew(t, Config{TimeGap: 1, AMax: 2, SlowSpeed: 1, StopLineBuffer: 0})
	path := straightPath(8, 1.5)
	prof, err := p.ComputeVelocityProfile(Request{
		Path:         path,
		DesiredSpeed: 7,
		Ego:          EgoState{Speed: 7},
	})
	require.NoError(t, err)
	for _, pt := range prof {
		require.Equal(t, 7.0, pt.Speed)
	}
	for _, elapsed := range []float64{0, 0.3, 1, 2.5, 100} {
		require.InDelta(t, 7, p.OpenLoopSpeed(elapsed), 1e-9)
	}
}

func TestModePrecedence(t *testing.T) {
	testCases := []struct {
		name   string
		req    Request
		expect Mode
	}{
		{"cruise", Request{}, ModeCruise},
		{"follow", Request{FollowLeadVehicle: true}, ModeFollow},
		{"stop", Request{DecelerateToStop: true}, ModeStop},
		{"stop over follow", Request{DecelerateToStop: true, FollowLeadVehicle: true}, ModeStop},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.req.Mode())
		})
	}
	require.Equal(t, "follow", ModeFollow.String())
	require.Equal(t, "Mode(7)", Mode(7).String())
}

func TestComputeIsIdempotent(t *testing.T) {
	p := mustNew(t, *NewConfig())
	req := Request{
		Path:              Path{{0, 0}, {1, 0.5}, {2.5, 1}, {4, 1}, {6, 2}, {9, 2}},
		DesiredSpeed:      6,
		Ego:               EgoState{Speed: 3},
		Lead:              LeadCarState{X: 6, Y: 2, Speed: 4},
		FollowLeadVehicle: true,
	}
	first, err := p.ComputeVelocityProfile(req)
	require.NoError(t, err)
	second, err := p.ComputeVelocityProfile(req)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("profiles differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, p.PreviousProfile(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("previous profile differs:\n%s", diff)
	}
}

func TestComputeInvalidRequests(t *testing.T) {
	testCases := []struct {
		name   string
		req    Request
		expect error
	}{
		{"empty path", Request{}, ErrInvalidPath},
		{"single waypoint", Request{Path: Path{{1, 1}}}, ErrInvalidPath},
		{"NaN waypoint", Request{Path: Path{{0, 0}, {math.NaN(), 1}}}, ErrInvalidPath},
		{"negative ego speed", Request{Path: straightPath(3, 1), Ego: EgoState{Speed: -1}}, ErrInvalidSpeed},
		{"infinite desired speed", Request{Path: straightPath(3, 1), DesiredSpeed: math.Inf(1)}, ErrInvalidSpeed},
		{"negative lead speed", Request{Path: straightPath(3, 1), FollowLeadVehicle: true, Lead: LeadCarState{Speed: -2}}, ErrInvalidLeadState},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustNew(t, *NewConfig())
			_, err := p.ComputeVelocityProfile(tc.req)
			require.True(t, errors.Is(err, tc.expect), "got %v", err)
			require.Equal(t, Profile{{}}, p.PreviousProfile())
		})
	}
}

func TestProfilesWellFormed(t *testing.T) {
	paths := []Path{
		straightPath(2, 1),
		straightPath(7, 0.5),
		{{0, 0}, {1, 1}, {1, 1}, {3, 2}, {6, 2}},
	}
	p := mustNew(t, *NewConfig())
	for _, path := range paths {
		for _, start := range []float64{0, 1, 4, 15} {
			for _, desired := range []float64{0, 2, 10} {
				for _, req := range []Request{
					{Path: path, DesiredSpeed: desired, Ego: EgoState{Speed: start}},
					{Path: path, DesiredSpeed: desired, Ego: EgoState{Speed: start}, DecelerateToStop: true},
					{Path: path, DesiredSpeed: desired, Ego: EgoState{Speed: start}, FollowLeadVehicle: true,
						Lead: LeadCarState{X: 2, Y: 1, Speed: 3}},
				} {
					prof, err := p.ComputeVelocityProfile(req)
					require.NoError(t, err)
					requireWellFormed(t, path, prof)
					if req.DecelerateToStop {
						require.Equal(t, 0.0, prof[len(prof)-1].Speed)
					}
				}
			}
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{SlowSpeed: -1})
	require.Error(t, err)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "time_gap", cfgErr.Field)
	require.Contains(t, err.Error(), "a_max")
	require.Contains(t, err.Error(), "slow_speed")
}
