// Package plot renders velocity profiles.
package plot

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/robotalks/velplan/pkg/planner"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Stats summarizes a profile.
type Stats struct {
	Points int
	Length float64
	Min    float64
	Max    float64
	Final  float64
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("points=%d length=%.2fm speed min=%.3f max=%.3f final=%.3f m/s",
		s.Points, s.Length, s.Min, s.Max, s.Final)
}

// ProfileStats computes Stats of a profile.
func ProfileStats(prof planner.Profile) Stats {
	if len(prof) == 0 {
		return Stats{}
	}
	speeds := prof.Speeds()
	arcs := prof.ArcLengths()
	return Stats{
		Points: len(prof),
		Length: arcs[len(arcs)-1],
		Min:    floats.Min(speeds),
		Max:    floats.Max(speeds),
		Final:  speeds[len(speeds)-1],
	}
}

// New creates the plot of speed over arc length.
func New(prof planner.Profile, title string) (*plot.Plot, error) {
	if len(prof) == 0 {
		return nil, fmt.Errorf("empty profile")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "distance (m)"
	p.Y.Label.Text = "speed (m/s)"
	p.Y.Min = 0

	arcs, speeds := prof.ArcLengths(), prof.Speeds()
	pts := make(plotter.XYs, len(prof))
	for i := range pts {
		pts[i].X, pts[i].Y = arcs[i], speeds[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// WritePNG renders the profile as PNG.
func WritePNG(w io.Writer, prof planner.Profile, title string) error {
	p, err := New(prof, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders the profile into a PNG file.
func SavePNG(fn string, prof planner.Profile, title string) error {
	p, err := New(prof, title)
	if err != nil {
		return err
	}
	return p.Save(DefaultWidth, DefaultHeight, fn)
}
