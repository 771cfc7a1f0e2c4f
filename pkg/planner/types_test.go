package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	_, err := NewPath(nil)
	require.True(t, errors.Is(err, ErrInvalidPath))
	_, err = NewPath([]Waypoint{{0, 0}, {math.Inf(1), 0}})
	var pathErr *PathError
	require.True(t, errors.As(err, &pathErr))
	require.Equal(t, 1, pathErr.Index)

	path, err := NewPath([]Waypoint{{0, 0}, {3, 4}, {3, 4}, {6, 8}})
	require.NoError(t, err)
	require.InDelta(t, 10, path.Length(), 1e-12)
	require.Equal(t, 0.0, path.SegmentLength(1))
}

func TestPathClosest(t *testing.T) {
	path := straightPath(5, 2)
	index, dist := path.Closest(Waypoint{X: 4.5, Y: 1})
	require.Equal(t, 2, index)
	require.InDelta(t, math.Hypot(0.5, 1), dist, 1e-12)

	index, _ = path.Closest(Waypoint{X: 5, Y: 0})
	require.Equal(t, 2, index)
}

func TestProfileHelpers(t *testing.T) {
	prof := Profile{{Speed: 1}, {X: 3, Y: 4, Speed: 2}, {X: 3, Y: 6, Speed: 0}}
	require.Equal(t, []float64{1, 2, 0}, prof.Speeds())
	require.Equal(t, []float64{0, 5, 7}, prof.ArcLengths())

	clone := prof.Clone()
	clone[0].Speed = 9
	require.Equal(t, 1.0, prof[0].Speed)

	pt := prof[0].Lerp(prof[1], 0.1)
	require.InDelta(t, 0.3, pt.X, 1e-12)
	require.InDelta(t, 0.4, pt.Y, 1e-12)
	require.InDelta(t, 1.1, pt.Speed, 1e-12)
}
