package sh

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/velplan/pkg/planner"
	"github.com/robotalks/velplan/pkg/transport"
)

// Session holds the planning inputs edited by shell commands.
type Session struct {
	Service Service
	Path    planner.Path
	Ego     planner.EgoState
	Lead    *planner.LeadCarState
	Last    *PlanResult

	local Service
}

// NewSession creates a Session planning in process.
func NewSession(conf planner.Config) (*Session, error) {
	local, err := NewLocalService(conf)
	if err != nil {
		return nil, err
	}
	return &Session{Service: local, local: local}, nil
}

// Connected tells if requests go to a remote node.
func (s *Session) Connected() bool {
	return s.Service != s.local
}

// Connect switches to a remote node.
func (s *Session) Connect(ctx context.Context, url, nodeID string) error {
	rw, err := transport.Dial(ctx, url, nodeID)
	if err != nil {
		return err
	}
	name := nodeID
	if name == "" {
		name = url
	}
	s.Attach(NewRemoteService(name, rw))
	return nil
}

// Attach switches to the service.
func (s *Session) Attach(svc Service) {
	s.Disconnect()
	s.Service = svc
}

// Disconnect switches back to the local planner.
func (s *Session) Disconnect() {
	if s.Connected() {
		s.Service.Close()
		s.Service = s.local
	}
}

// pathFile is the YAML layout of a path file:
//
//	waypoints:
//	  - {x: 0, y: 0}
//	  - {x: 1, y: 0}
type pathFile struct {
	Waypoints []struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"waypoints"`
}

// ParsePath parses a path from YAML.
func ParsePath(data []byte) (planner.Path, error) {
	var f pathFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	waypoints := make([]planner.Waypoint, len(f.Waypoints))
	for n, w := range f.Waypoints {
		waypoints[n] = planner.Waypoint{X: w.X, Y: w.Y}
	}
	return planner.NewPath(waypoints)
}

// LoadPath loads the path from a YAML file.
func (s *Session) LoadPath(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	path, err := ParsePath(data)
	if err != nil {
		return err
	}
	s.Path = path
	return nil
}

// StraightPath sets a path of n waypoints along x spaced evenly.
func (s *Session) StraightPath(n int, spacing float64) error {
	waypoints := make([]planner.Waypoint, n)
	for i := range waypoints {
		waypoints[i].X = float64(i) * spacing
	}
	path, err := planner.NewPath(waypoints)
	if err != nil {
		return err
	}
	s.Path = path
	return nil
}

// Plan requests a profile in the given mode.
func (s *Session) Plan(ctx context.Context, mode planner.Mode, desiredSpeed float64) (*PlanResult, error) {
	req := planner.Request{
		Path:            s.Path,
		DesiredSpeed:    desiredSpeed,
		Ego:             s.Ego,
		ClosedLoopSpeed: s.Ego.Speed,
	}
	switch mode {
	case planner.ModeStop:
		req.DecelerateToStop = true
	case planner.ModeFollow:
		if s.Lead == nil {
			return nil, fmt.Errorf("%w: no lead car set", planner.ErrInvalidLeadState)
		}
		req.FollowLeadVehicle = true
	}
	if s.Lead != nil {
		req.Lead = *s.Lead
	}
	res, err := s.Service.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	s.Last = res
	return res, nil
}
