package sh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robotalks/velplan/pkg/comm"
	"github.com/robotalks/velplan/pkg/msgs"
	"github.com/robotalks/velplan/pkg/planner"
)

// ErrNotConnected indicates no remote node is connected.
var ErrNotConnected = errors.New("not connected")

// PlanResult is the outcome of a plan request.
type PlanResult struct {
	ID      string
	Mode    string
	Profile planner.Profile
}

// Service computes profiles either in process or on a node.
type Service interface {
	Name() string
	Plan(ctx context.Context, req planner.Request) (*PlanResult, error)
	OpenLoopSpeed(ctx context.Context, elapsed float64) (float64, error)
	Config(ctx context.Context) (planner.Config, error)
	Close() error
}

// LocalService runs a Planner in process.
type LocalService struct {
	Planner *planner.Planner
}

// NewLocalService creates a LocalService.
func NewLocalService(conf planner.Config) (*LocalService, error) {
	p, err := planner.New(conf)
	if err != nil {
		return nil, err
	}
	return &LocalService{Planner: p}, nil
}

// Name implements Service.
func (s *LocalService) Name() string { return "local" }

// Plan implements Service.
func (s *LocalService) Plan(ctx context.Context, req planner.Request) (*PlanResult, error) {
	prof, err := s.Planner.ComputeVelocityProfile(req)
	if err != nil {
		return nil, err
	}
	return &PlanResult{ID: uuid.NewString(), Mode: req.Mode().String(), Profile: prof}, nil
}

// OpenLoopSpeed implements Service.
func (s *LocalService) OpenLoopSpeed(ctx context.Context, elapsed float64) (float64, error) {
	return s.Planner.OpenLoopSpeed(elapsed), nil
}

// Config implements Service.
func (s *LocalService) Config(ctx context.Context) (planner.Config, error) {
	return s.Planner.Config(), nil
}

// Close implements Service.
func (s *LocalService) Close() error { return nil }

// RemoteService sends requests to a planner node.
type RemoteService struct {
	Client *comm.Client

	name   string
	cancel func()
}

// NewRemoteService runs a client over the link.
func NewRemoteService(name string, rw comm.PacketReadWriter) *RemoteService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &RemoteService{Client: comm.NewClient(rw), name: name, cancel: cancel}
	go s.Client.Run(ctx)
	return s
}

// Name implements Service.
func (s *RemoteService) Name() string { return s.name }

// Plan implements Service.
func (s *RemoteService) Plan(ctx context.Context, req planner.Request) (*PlanResult, error) {
	reply, err := s.Client.Do(ctx, msgs.NewPlanRequest(req))
	if err != nil {
		return nil, err
	}
	prof, ok := reply.(*msgs.Profile)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %s", msgs.TypeName(reply))
	}
	return &PlanResult{ID: prof.ProfileId, Mode: prof.Mode, Profile: prof.PlannerProfile()}, nil
}

// OpenLoopSpeed implements Service.
func (s *RemoteService) OpenLoopSpeed(ctx context.Context, elapsed float64) (float64, error) {
	query := &msgs.OpenLoopSpeedQuery{}
	query.Elapsed = elapsed
	reply, err := s.Client.Do(ctx, query)
	if err != nil {
		return 0, err
	}
	speed, ok := reply.(*msgs.OpenLoopSpeed)
	if !ok {
		return 0, fmt.Errorf("unexpected reply %s", msgs.TypeName(reply))
	}
	return speed.Speed, nil
}

// Config implements Service.
func (s *RemoteService) Config(ctx context.Context) (planner.Config, error) {
	reply, err := s.Client.Do(ctx, &msgs.ConfigQuery{})
	if err != nil {
		return planner.Config{}, err
	}
	conf, ok := reply.(*msgs.PlannerConfig)
	if !ok {
		return planner.Config{}, fmt.Errorf("unexpected reply %s", msgs.TypeName(reply))
	}
	return conf.Config(), nil
}

// Close implements Service.
func (s *RemoteService) Close() error {
	s.cancel()
	return nil
}

// DefaultTimeout bounds each request from the shell.
const DefaultTimeout = 2 * time.Second
