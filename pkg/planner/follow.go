package planner

import (
	"math"

	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/robotalks/velplan/pkg/planner/kinematics"
)

// followProfile matches the lead car speed while keeping a time-gap based
// distance behind it.
func (p *Planner) followProfile(path Path, startSpeed, desiredSpeed float64, lead LeadCarState) Profile {
	targetIndex, gap := path.Closest(lead.Pos())

	// never close faster than the lead car.
	desiredSpeed = math.Min(lead.Speed, desiredSpeed)
	followDistance := desiredSpeed * p.conf.TimeGap

	rampEndIndex := targetIndex
	for dist := gap; rampEndIndex > 0 && dist < followDistance; rampEndIndex-- {
		dist += path.SegmentLength(rampEndIndex - 1)
	}

	accel := rampAccel(startSpeed, desiredSpeed, p.conf.AMax)
	lower, upper := math.Min(startSpeed, desiredSpeed), math.Max(startSpeed, desiredSpeed)

	speeds := make([]float64, len(path))
	vi := startSpeed
	for i := 0; i <= rampEndIndex; i++ {
		speeds[i] = vi
		if i+1 < len(path) {
			vi = lo.Clamp(kinematics.FinalSpeedAfterDistance(vi, accel, path.SegmentLength(i)), lower, upper)
		}
	}
	for i := rampEndIndex + 1; i < len(path); i++ {
		speeds[i] = desiredSpeed
	}

	glog.V(4).Infof("follow: target=%d gap=%.2f ramp-end=%d speed=%.2f", targetIndex, gap, rampEndIndex, desiredSpeed)
	return path.profile(speeds)
}

// rampAccel picks -aMax when slowing down and +aMax otherwise.
func rampAccel(startSpeed, desiredSpeed, aMax float64) float64 {
	if desiredSpeed < startSpeed {
		return -aMax
	}
	return aMax
}
