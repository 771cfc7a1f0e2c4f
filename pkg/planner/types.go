package planner

import (
	"math"
)

// Waypoint is a 2D position on a candidate path.
type Waypoint struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance to another waypoint.
func (w Waypoint) DistanceTo(o Waypoint) float64 {
	return math.Hypot(o.X-w.X, o.Y-w.Y)
}

// Path is an ordered sequence of at least two waypoints.
// Use NewPath to construct a validated Path.
type Path []Waypoint

// NewPath validates the waypoints and returns them as a Path.
func NewPath(waypoints []Waypoint) (Path, error) {
	p := Path(waypoints)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the path has at least two finite waypoints.
// Zero-length segments are tolerated.
func (p Path) Validate() error {
	if len(p) < 2 {
		return &PathError{Reason: "at least 2 waypoints required", Index: len(p)}
	}
	for n, w := range p {
		if !isFinite(w.X) || !isFinite(w.Y) {
			return &PathError{Reason: "non-finite coordinate", Index: n}
		}
	}
	return nil
}

// SegmentLength returns the arc length between waypoint i and i+1.
func (p Path) SegmentLength(i int) float64 {
	return p[i].DistanceTo(p[i+1])
}

// Length returns the total arc length.
func (p Path) Length() (l float64) {
	for i := 0; i+1 < len(p); i++ {
		l += p.SegmentLength(i)
	}
	return
}

// Closest returns the index of the waypoint closest to pos and the distance.
// Ties resolve to the lowest index.
func (p Path) Closest(pos Waypoint) (index int, dist float64) {
	index, dist = len(p)-1, math.Inf(1)
	for n, w := range p {
		if d := w.DistanceTo(pos); d < dist {
			index, dist = n, d
		}
	}
	return
}

// profile builds an index-aligned Profile from speeds.
func (p Path) profile(speeds []float64) Profile {
	prof := make(Profile, len(p))
	for n, w := range p {
		prof[n] = TrajectoryPoint{X: w.X, Y: w.Y, Speed: speeds[n]}
	}
	return prof
}

// TrajectoryPoint is a position with the target speed at that position.
type TrajectoryPoint struct {
	X, Y  float64
	Speed float64
}

// Pos returns the position of the point.
func (t TrajectoryPoint) Pos() Waypoint {
	return Waypoint{X: t.X, Y: t.Y}
}

// Lerp linearly interpolates all of x, y and speed toward o by ratio.
func (t TrajectoryPoint) Lerp(o TrajectoryPoint, ratio float64) TrajectoryPoint {
	return TrajectoryPoint{
		X:     t.X + (o.X-t.X)*ratio,
		Y:     t.Y + (o.Y-t.Y)*ratio,
		Speed: t.Speed + (o.Speed-t.Speed)*ratio,
	}
}

// Profile is a velocity profile, one point per path waypoint.
type Profile []TrajectoryPoint

// Speeds extracts the speeds of all points.
func (p Profile) Speeds() []float64 {
	speeds := make([]float64, len(p))
	for n, pt := range p {
		speeds[n] = pt.Speed
	}
	return speeds
}

// ArcLengths returns the cumulative distance from the first point to each point.
func (p Profile) ArcLengths() []float64 {
	s := make([]float64, len(p))
	for n := 1; n < len(p); n++ {
		s[n] = s[n-1] + p[n-1].Pos().DistanceTo(p[n].Pos())
	}
	return s
}

// Clone returns a copy of the profile.
func (p Profile) Clone() Profile {
	return append(Profile(nil), p...)
}

// EgoState is the pose and speed of the vehicle being planned for.
// Only Speed is consumed by the planner.
type EgoState struct {
	X, Y  float64
	Yaw   float64
	Speed float64
}

// LeadCarState is the position and speed of the vehicle being followed.
type LeadCarState struct {
	X, Y  float64
	Speed float64
}

// Pos returns the position of the lead car.
func (l LeadCarState) Pos() Waypoint {
	return Waypoint{X: l.X, Y: l.Y}
}

// Validate checks the lead car state is usable for following.
func (l LeadCarState) Validate() error {
	if !isFinite(l.X) || !isFinite(l.Y) || !isFinite(l.Speed) || l.Speed < 0 {
		return ErrInvalidLeadState
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
