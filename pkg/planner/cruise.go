package planner

import (
	"math"

	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/robotalks/velplan/pkg/planner/kinematics"
)

// nominalProfile ramps from the start speed to the desired speed and holds it.
func (p *Planner) nominalProfile(path Path, startSpeed, desiredSpeed float64) Profile {
	accel := rampAccel(startSpeed, desiredSpeed, p.conf.AMax)
	accelDistance := kinematics.DistanceForSpeedChange(startSpeed, desiredSpeed, accel)

	rampEndIndex, dist := 0, 0.0
	for ; rampEndIndex < len(path)-1 && dist < accelDistance; rampEndIndex++ {
		dist += path.SegmentLength(rampEndIndex)
	}

	// the ramp never overshoots the desired speed in either direction.
	lower, upper := math.Min(startSpeed, desiredSpeed), math.Max(startSpeed, desiredSpeed)

	speeds := make([]float64, len(path))
	vi := startSpeed
	for i := 0; i < rampEndIndex; i++ {
		speeds[i] = vi
		vi = lo.Clamp(kinematics.FinalSpeedAfterDistance(vi, accel, path.SegmentLength(i)), lower, upper)
	}
	// path ends before the desired speed is reached.
	if dist < accelDistance {
		speeds[rampEndIndex] = vi
		rampEndIndex++
	}
	for i := rampEndIndex; i < len(path); i++ {
		speeds[i] = desiredSpeed
	}

	glog.V(4).Infof("cruise: ramp-end=%d accel=%.2f", rampEndIndex, accel)
	return path.profile(speeds)
}
