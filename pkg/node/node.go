// Package node runs a velocity planner as a networked service.
//
// All planner access happens on the loop, so a node serves any number of
// links with a single Planner.
package node

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/robotalks/velplan/pkg/comm"
	"github.com/robotalks/velplan/pkg/comm/mqtt"
	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/msgs"
	"github.com/robotalks/velplan/pkg/planner"
	"github.com/robotalks/velplan/pkg/transport"
)

// Version is reported in node meta.
var Version = "dev"

// ErrInvalidElapsed indicates a negative or non-finite elapsed time.
var ErrInvalidElapsed = errors.New("invalid elapsed time")

// Node serves planner commands and emits speed commands.
type Node struct {
	Config Config
	// Events receives SpeedCommand events, defaults to the Endpoint.
	Events comm.EventSender

	id       string
	planner  *planner.Planner
	endpoint comm.Endpoint

	profileID string
	profileAt time.Time
}

// New creates a Node.
func New(conf Config) (*Node, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	id, err := conf.NodeID()
	if err != nil {
		return nil, err
	}
	p, err := planner.New(conf.Planner)
	if err != nil {
		return nil, err
	}
	n := &Node{Config: conf, id: id, planner: p}
	n.Events = &n.endpoint
	return n, nil
}

// ID returns the node ID.
func (n *Node) ID() string {
	return n.id
}

// Endpoint returns the endpoint links are attached to.
func (n *Node) Endpoint() *comm.Endpoint {
	return &n.endpoint
}

// AddToLoop implements LoopAdder.
func (n *Node) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPlan, fx.ControlFunc(n.handleCommands))
	loop.AddController(fx.PrLvCommand, fx.Every(n.Config.SpeedInterval, fx.ControlFunc(n.sendSpeedCommand)))
	loop.Add(&comm.UnsupportedCommands{})
}

// Run implements Runnable.
func (n *Node) Run(ctx context.Context) error {
	loop := fx.NewLoop()
	loop.Interval = n.Config.PlanInterval
	loop.Add(n)
	info := mqtt.NodeInfo{
		ID:      n.id,
		Version: Version,
		Meta: map[string]string{
			"a_max":    fmt.Sprint(n.Config.Planner.AMax),
			"time_gap": fmt.Sprint(n.Config.Planner.TimeGap),
		},
	}
	for _, u := range n.Config.URLs() {
		srv, err := transport.NewServer(u, info, n.endpoint.Serve)
		if err != nil {
			return err
		}
		loop.AddRunnable(srv)
	}
	glog.Infof("node %s started", n.id)
	return loop.Run(ctx)
}

func (n *Node) handleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*comm.CommandMsg)
		if !ok {
			return
		}
		var reply fx.Message
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.PlanRequest:
			reply = n.plan(cc.Time(), m)
		case *msgs.OpenLoopSpeedQuery:
			reply = n.openLoopSpeed(cc.Time(), m)
		case *msgs.ConfigQuery:
			reply = msgs.NewPlannerConfig(n.planner.Config())
		default:
			return
		}
		mctx.MessageTaken()
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Warningf("reply %s: %v", msgs.TypeName(reply), err)
		}
	}))
	return nil
}

func (n *Node) plan(now time.Time, m *msgs.PlanRequest) fx.Message {
	req, err := m.Request()
	if err != nil {
		glog.Warningf("reject plan request: %v", err)
		return msgs.NewCommandErr(err)
	}
	prof, err := n.planner.ComputeVelocityProfile(req)
	if err != nil {
		glog.Warningf("reject plan request: %v", err)
		return msgs.NewCommandErr(err)
	}
	n.profileID, n.profileAt = uuid.NewString(), now
	glog.V(2).Infof("profile %s: %s, %d points", n.profileID, req.Mode(), len(prof))
	return msgs.NewProfile(n.profileID, req.Mode(), prof)
}

func (n *Node) openLoopSpeed(now time.Time, m *msgs.OpenLoopSpeedQuery) fx.Message {
	elapsed := m.Elapsed
	if m.SinceProfile {
		elapsed = n.sinceProfile(now)
	}
	if !(elapsed >= 0) || math.IsInf(elapsed, 0) {
		return msgs.NewCommandErr(fmt.Errorf("%w: %v", ErrInvalidElapsed, elapsed))
	}
	reply := &msgs.OpenLoopSpeed{}
	reply.ProfileId = n.profileID
	reply.Elapsed = elapsed
	reply.Speed = n.planner.OpenLoopSpeed(elapsed)
	return reply
}

func (n *Node) sinceProfile(now time.Time) float64 {
	if n.profileAt.IsZero() {
		return 0
	}
	return now.Sub(n.profileAt).Seconds()
}

func (n *Node) sendSpeedCommand(cc fx.ControlContext) error {
	if n.profileID == "" {
		return nil
	}
	elapsed := n.sinceProfile(cc.Time())
	cmd := &msgs.SpeedCommand{}
	cmd.ProfileId = n.profileID
	cmd.Elapsed = elapsed
	cmd.Speed = n.planner.OpenLoopSpeed(elapsed)
	glog.V(4).Infof("speed command %.3f at %.3fs", cmd.Speed, elapsed)
	return n.Events.SendEvent(cc.Context(), cmd)
}
