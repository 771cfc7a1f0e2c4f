// Package planner assigns target speeds to the waypoints of a candidate path
// and estimates the open-loop speed between planning cycles.
//
// A Planner is not safe for concurrent use. Calls to ComputeVelocityProfile
// and OpenLoopSpeed on the same Planner must be serialized by the caller,
// typically by issuing both from a single planning loop.
package planner

import (
	"fmt"

	"github.com/golang/glog"
)

// Mode selects the profile generator.
type Mode int

// Modes, in precedence order.
const (
	ModeCruise Mode = iota
	ModeFollow
	ModeStop
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeCruise:
		return "cruise"
	case ModeFollow:
		return "follow"
	case ModeStop:
		return "stop"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Request is the input of one planning cycle.
//
// DecelerateToStop takes precedence over FollowLeadVehicle, which takes
// precedence over cruising. Setting both flags is allowed; stopping wins.
type Request struct {
	Path         Path
	DesiredSpeed float64
	Ego          EgoState
	// ClosedLoopSpeed is accepted for interface compatibility and not used.
	ClosedLoopSpeed   float64
	DecelerateToStop  bool
	Lead              LeadCarState
	FollowLeadVehicle bool
}

// Mode returns the generator selected by the flags.
func (r *Request) Mode() Mode {
	switch {
	case r.DecelerateToStop:
		return ModeStop
	case r.FollowLeadVehicle:
		return ModeFollow
	}
	return ModeCruise
}

// Validate checks the preconditions of the request.
func (r *Request) Validate() error {
	if err := r.Path.Validate(); err != nil {
		return err
	}
	if !isFinite(r.Ego.Speed) || r.Ego.Speed < 0 {
		return fmt.Errorf("%w: ego speed %v", ErrInvalidSpeed, r.Ego.Speed)
	}
	if !isFinite(r.DesiredSpeed) || r.DesiredSpeed < 0 {
		return fmt.Errorf("%w: desired speed %v", ErrInvalidSpeed, r.DesiredSpeed)
	}
	if r.Mode() == ModeFollow {
		return r.Lead.Validate()
	}
	return nil
}

// Planner holds the configuration and the most recently produced profile.
type Planner struct {
	conf Config
	prev Profile
}

// New creates a Planner.
func New(conf Config) (*Planner, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Planner{
		conf: conf,
		prev: Profile{{}},
	}, nil
}

// Config returns the configuration of the planner.
func (p *Planner) Config() Config {
	return p.conf
}

// PreviousProfile returns a copy of the most recently produced profile.
func (p *Planner) PreviousProfile() Profile {
	return p.prev.Clone()
}

// ComputeVelocityProfile generates a profile for the request, smooths its
// first point and keeps it for open-loop speed lookups.
// The planner state is untouched if the request is invalid.
func (p *Planner) ComputeVelocityProfile(req Request) (Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startSpeed := req.Ego.Speed
	var prof Profile
	mode := req.Mode()
	glog.V(4).Infof("plan: mode=%s waypoints=%d start=%.2f desired=%.2f", mode, len(req.Path), startSpeed, req.DesiredSpeed)
	switch mode {
	case ModeStop:
		prof = p.stopProfile(req.Path, startSpeed)
	case ModeFollow:
		prof = p.followProfile(req.Path, startSpeed, req.DesiredSpeed, req.Lead)
	default:
		prof = p.nominalProfile(req.Path, startSpeed, req.DesiredSpeed)
	}
	p.prev = smooth(prof)
	return p.prev.Clone(), nil
}
