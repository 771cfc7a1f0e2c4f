package planner

// SmoothingRatio is how far the first point is moved toward the second.
const SmoothingRatio = 0.1

// smooth replaces the first point with one SmoothingRatio of the way to the
// second point, so the first commanded segment doesn't start exactly at the
// vehicle's current position.
func smooth(prof Profile) Profile {
	if len(prof) > 1 {
		prof[0] = prof[0].Lerp(prof[1], SmoothingRatio)
	}
	return prof
}
