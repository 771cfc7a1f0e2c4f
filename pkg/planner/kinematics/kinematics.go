// Package kinematics provides closed-form constant-acceleration formulas
// shared by the velocity profile generators.
//
// All distances are in metres, speeds in m/s and accelerations in m/s².
package kinematics

import "math"

// AccelEpsilon is the magnitude below which an acceleration is treated as zero.
const AccelEpsilon = 1e-5

// DistanceForSpeedChange returns the distance needed to change speed from vi
// to vf under constant acceleration a: (vf² - vi²) / 2a.
// A near-zero acceleration yields 0, callers must not rely on it when vi != vf.
func DistanceForSpeedChange(vi, vf, a float64) float64 {
	if math.Abs(a) < AccelEpsilon {
		return 0
	}
	return (vf*vf - vi*vi) / (2 * a)
}

// FinalSpeedAfterDistance returns the speed reached from vi after covering d
// under constant acceleration a. It is 0 if the vehicle stops before d.
func FinalSpeedAfterDistance(vi, a, d float64) float64 {
	disc := vi*vi + 2*a*d
	if disc < 0 {
		return 0
	}
	return math.Sqrt(disc)
}
