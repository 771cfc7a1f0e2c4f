package planner

import (
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/velplan/pkg/planner/kinematics"
)

// stopProfile brings the vehicle to rest StopLineBuffer before the path end,
// decelerating to SlowSpeed first and then braking to zero.
func (p *Planner) stopProfile(path Path, startSpeed float64) Profile {
	aMax, slowSpeed, buffer := p.conf.AMax, p.conf.SlowSpeed, p.conf.StopLineBuffer
	decelDistance := kinematics.DistanceForSpeedChange(startSpeed, slowSpeed, -aMax)
	brakeDistance := kinematics.DistanceForSpeedChange(slowSpeed, 0, -aMax)

	stopIndex := len(path) - 1
	for dist := 0.0; stopIndex > 0 && dist < buffer; stopIndex-- {
		dist += path.SegmentLength(stopIndex - 1)
	}

	// speeds from stopIndex onwards stay 0.
	speeds := make([]float64, len(path))

	if decelDistance+brakeDistance+buffer > path.Length() {
		// not enough room for both stages, take the steepest feasible
		// deceleration ending at the stop index.
		vf := 0.0
		for i := stopIndex - 1; i >= 0; i-- {
			vi := math.Min(kinematics.FinalSpeedAfterDistance(vf, aMax, path.SegmentLength(i)), startSpeed)
			speeds[i], vf = vi, vi
		}
		glog.V(4).Infof("stop: short path, stop=%d", stopIndex)
		return path.profile(speeds)
	}

	brakeIndex := stopIndex
	for dist := 0.0; brakeIndex > 0 && dist < brakeDistance; brakeIndex-- {
		dist += path.SegmentLength(brakeIndex - 1)
	}

	decelIndex := 0
	for dist := 0.0; decelIndex < brakeIndex && dist < decelDistance; decelIndex++ {
		dist += path.SegmentLength(decelIndex)
	}

	vi := startSpeed
	for i := 0; i < decelIndex; i++ {
		speeds[i] = vi
		vi = math.Max(kinematics.FinalSpeedAfterDistance(vi, -aMax, path.SegmentLength(i)), slowSpeed)
	}
	for i := decelIndex; i < brakeIndex; i++ {
		speeds[i] = vi
	}
	for i := brakeIndex; i < stopIndex; i++ {
		speeds[i] = vi
		vi = kinematics.FinalSpeedAfterDistance(vi, -aMax, path.SegmentLength(i))
	}

	glog.V(4).Infof("stop: decel=%d brake=%d stop=%d", decelIndex, brakeIndex, stopIndex)
	return path.profile(speeds)
}
