// Package plan adds velocity planning commands to the shell.
package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/velplan/pkg/cli/sh"
	"github.com/robotalks/velplan/pkg/planner"
	"github.com/robotalks/velplan/pkg/plot"
)

// parseArgs parses required float arguments by name.
func parseArgs(args []string, names ...string) ([]float64, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("%s required", strings.Join(names, " "))
	}
	vals := make([]float64, len(names))
	for n, name := range names {
		val, err := strconv.ParseFloat(args[n], 64)
		if err != nil {
			return nil, fmt.Errorf("Invalid %s: %v", name, err)
		}
		vals[n] = val
	}
	return vals, nil
}

// ParseMode parses the planning mode name.
func ParseMode(s string) (planner.Mode, error) {
	for _, mode := range []planner.Mode{planner.ModeCruise, planner.ModeFollow, planner.ModeStop} {
		if mode.String() == s {
			return mode, nil
		}
	}
	return planner.ModeCruise, fmt.Errorf("unknown mode %q, expect cruise|follow|stop", s)
}

// FormatProfile prints one point per line.
func FormatProfile(prof planner.Profile) string {
	var sb strings.Builder
	arcs := prof.ArcLengths()
	for n, pt := range prof {
		fmt.Fprintf(&sb, "%4d s=%8.3f (%8.3f, %8.3f) v=%.4f\n", n, arcs[n], pt.X, pt.Y, pt.Speed)
	}
	return sb.String()
}

var (
	// ConfigCmd prints the planner config.
	ConfigCmd = ishell.Cmd{
		Name: "config",
		Help: "show planner config",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			ctx, cancel := s.Context()
			defer cancel()
			conf, err := s.Session.Service.Config(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, conf, fmt.Sprintf("time_gap=%v a_max=%v slow_speed=%v stop_line_buffer=%v",
				conf.TimeGap, conf.AMax, conf.SlowSpeed, conf.StopLineBuffer))
		},
	}

	// PathCmd prints the current path.
	PathCmd = ishell.Cmd{
		Name: "path",
		Help: "[load FILE | line N SPACING]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(s.Session.Path) == 0 {
				c.Println("No path")
				return
			}
			s.Print(c, s.Session.Path, fmt.Sprintf("%d waypoints, %.3fm", len(s.Session.Path), s.Session.Path.Length()))
		},
	}

	// PathLoadCmd loads a path from YAML file.
	PathLoadCmd = ishell.Cmd{
		Name: "load",
		Help: "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			if err := sh.ShellFrom(c).Session.LoadPath(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// PathLineCmd creates a straight path.
	PathLineCmd = ishell.Cmd{
		Name: "line",
		Help: "N SPACING(m)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("N SPACING required"))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("Invalid N: %v", err))
				return
			}
			vals, err := parseArgs(c.Args[1:], "SPACING")
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Session.StraightPath(n, vals[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// EgoCmd sets the ego speed.
	EgoCmd = ishell.Cmd{
		Name: "ego",
		Help: "SPEED(m/s)",
		Func: func(c *ishell.Context) {
			vals, err := parseArgs(c.Args, "SPEED")
			if err != nil {
				c.Err(err)
				return
			}
			sh.ShellFrom(c).Session.Ego.Speed = vals[0]
		},
	}

	// LeadCmd sets or clears the lead car.
	LeadCmd = ishell.Cmd{
		Name: "lead",
		Help: "X Y SPEED(m/s) | off",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) == 1 && c.Args[0] == "off" {
				s.Session.Lead = nil
				return
			}
			vals, err := parseArgs(c.Args, "X", "Y", "SPEED")
			if err != nil {
				c.Err(err)
				return
			}
			s.Session.Lead = &planner.LeadCarState{X: vals[0], Y: vals[1], Speed: vals[2]}
		},
	}

	// PlanCmd computes a profile.
	PlanCmd = ishell.Cmd{
		Name:    "plan",
		Aliases: []string{"p"},
		Help:    "cruise|stop|follow DESIRED(m/s)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("MODE DESIRED required"))
				return
			}
			mode, err := ParseMode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			vals, err := parseArgs(c.Args[1:], "DESIRED")
			if err != nil {
				c.Err(err)
				return
			}
			s := sh.ShellFrom(c)
			ctx, cancel := s.Context()
			defer cancel()
			res, err := s.Session.Plan(ctx, mode, vals[0])
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, res, fmt.Sprintf("%s %s %s", res.ID, res.Mode, plot.ProfileStats(res.Profile)))
		},
	}

	// SpeedCmd queries the open-loop speed.
	SpeedCmd = ishell.Cmd{
		Name: "speed",
		Help: "ELAPSED(s)",
		Func: func(c *ishell.Context) {
			vals, err := parseArgs(c.Args, "ELAPSED")
			if err != nil {
				c.Err(err)
				return
			}
			s := sh.ShellFrom(c)
			ctx, cancel := s.Context()
			defer cancel()
			speed, err := s.Session.Service.OpenLoopSpeed(ctx, vals[0])
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, speed, strconv.FormatFloat(speed, 'f', 4, 64))
		},
	}

	// ProfileCmd prints the last profile.
	ProfileCmd = ishell.Cmd{
		Name: "profile",
		Help: "show last profile",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.Session.Last == nil {
				c.Println("No profile")
				return
			}
			prof := s.Session.Last.Profile
			s.Print(c, prof, FormatProfile(prof)+plot.ProfileStats(prof).String())
		},
	}

	// PlotCmd renders the last profile into PNG.
	PlotCmd = ishell.Cmd{
		Name: "plot",
		Help: "FILE.png",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			s := sh.ShellFrom(c)
			if s.Session.Last == nil {
				c.Err(fmt.Errorf("no profile"))
				return
			}
			last := s.Session.Last
			if err := plot.SavePNG(c.Args[0], last.Profile, last.Mode+" "+last.ID); err != nil {
				c.Err(err)
			}
		},
	}
)

func init() {
	PathCmd.AddCmd(&PathLoadCmd)
	PathCmd.AddCmd(&PathLineCmd)
	sh.AddCmds(
		&ConfigCmd,
		&PathCmd,
		&EgoCmd,
		&LeadCmd,
		&PlanCmd,
		&SpeedCmd,
		&ProfileCmd,
		&PlotCmd,
	)
}
