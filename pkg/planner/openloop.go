package planner

const (
	// MinTimestep is the elapsed time (s) below which no time is considered passed.
	MinTimestep = 1e-4
	// SpeedEpsilon is the speed (m/s) below which a point is considered stationary.
	SpeedEpsilon = 1e-6
)

// OpenLoopSpeed returns the speed expected after elapsed seconds since the
// previous profile was produced, by replaying the profile's implied timing.
// It doesn't change the planner state.
func (p *Planner) OpenLoopSpeed(elapsed float64) float64 {
	return p.prev.SpeedAfter(elapsed)
}

// SpeedAfter walks the profile segments, each traversed at its start speed,
// and interpolates the speed within the segment where elapsed runs out.
func (p Profile) SpeedAfter(elapsed float64) float64 {
	if len(p) == 0 {
		return 0
	}
	if len(p) == 1 || elapsed < MinTimestep {
		return p[0].Speed
	}
	for i := 0; i+1 < len(p); i++ {
		v1, v2 := p[i].Speed, p[i+1].Speed
		if v1 < SpeedEpsilon {
			// stationary, the next point is never reached.
			return v1
		}
		dt := p[i].Pos().DistanceTo(p[i+1].Pos()) / v1
		if dt > elapsed {
			return v1 + (v2-v1)*elapsed/dt
		}
		elapsed -= dt
	}
	return p[len(p)-1].Speed
}
