package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"
	"github.com/samber/lo"

	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/planner"
	pb "github.com/robotalks/velplan/pkg/proto/velplan/v1"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// PlanRequest command.
type PlanRequest struct {
	pb.PlanRequest
}

// NewPlanRequest creates a PlanRequest from a planner request.
func NewPlanRequest(req planner.Request) *PlanRequest {
	return &PlanRequest{
		PlanRequest: pb.PlanRequest{
			Path: lo.Map(req.Path, func(w planner.Waypoint, _ int) *pb.Waypoint {
				return &pb.Waypoint{X: w.X, Y: w.Y}
			}),
			DesiredSpeed: req.DesiredSpeed,
			Ego: &pb.EgoState{
				X:     req.Ego.X,
				Y:     req.Ego.Y,
				Yaw:   req.Ego.Yaw,
				Speed: req.Ego.Speed,
			},
			ClosedLoopSpeed:  req.ClosedLoopSpeed,
			DecelerateToStop: req.DecelerateToStop,
			Lead: &pb.LeadCarState{
				X:     req.Lead.X,
				Y:     req.Lead.Y,
				Speed: req.Lead.Speed,
			},
			FollowLeadVehicle: req.FollowLeadVehicle,
		},
	}
}

// NewMessage implements Message.
func (m *PlanRequest) NewMessage() fx.Message { return &PlanRequest{} }

// TypeID implements SerializableMessage.
func (m *PlanRequest) TypeID() uint32 { return PlanRequestTypeID }

// Serializable implements SerializableMessage.
func (m *PlanRequest) Serializable() proto.Message { return &m.PlanRequest }

// Request converts the message into a planner request.
func (m *PlanRequest) Request() (planner.Request, error) {
	req := planner.Request{
		DesiredSpeed:      m.DesiredSpeed,
		ClosedLoopSpeed:   m.ClosedLoopSpeed,
		DecelerateToStop:  m.DecelerateToStop,
		FollowLeadVehicle: m.FollowLeadVehicle,
	}
	for _, w := range m.Path {
		if w == nil {
			return req, errors.New("nil waypoint")
		}
		req.Path = append(req.Path, planner.Waypoint{X: w.X, Y: w.Y})
	}
	if ego := m.Ego; ego != nil {
		req.Ego = planner.EgoState{X: ego.X, Y: ego.Y, Yaw: ego.Yaw, Speed: ego.Speed}
	}
	if lead := m.Lead; lead != nil {
		req.Lead = planner.LeadCarState{X: lead.X, Y: lead.Y, Speed: lead.Speed}
	} else if req.FollowLeadVehicle {
		return req, planner.ErrInvalidLeadState
	}
	return req, nil
}

// Profile is the reply of PlanRequest.
type Profile struct {
	pb.Profile
}

// NewProfile creates a Profile message.
func NewProfile(id string, mode planner.Mode, prof planner.Profile) *Profile {
	return &Profile{
		Profile: pb.Profile{
			ProfileId: id,
			Mode:      mode.String(),
			Points: lo.Map(prof, func(pt planner.TrajectoryPoint, _ int) *pb.TrajectoryPoint {
				return &pb.TrajectoryPoint{X: pt.X, Y: pt.Y, Speed: pt.Speed}
			}),
		},
	}
}

// NewMessage implements Message.
func (m *Profile) NewMessage() fx.Message { return &Profile{} }

// TypeID implements SerializableMessage.
func (m *Profile) TypeID() uint32 { return ProfileTypeID }

// Serializable implements SerializableMessage.
func (m *Profile) Serializable() proto.Message { return &m.Profile }

// PlannerProfile converts the message into a planner profile.
func (m *Profile) PlannerProfile() planner.Profile {
	prof := make(planner.Profile, 0, len(m.Points))
	for _, pt := range m.Points {
		if pt != nil {
			prof = append(prof, planner.TrajectoryPoint{X: pt.X, Y: pt.Y, Speed: pt.Speed})
		}
	}
	return prof
}

// OpenLoopSpeedQuery command.
type OpenLoopSpeedQuery struct {
	pb.OpenLoopSpeedQuery
}

// NewMessage implements Message.
func (m *OpenLoopSpeedQuery) NewMessage() fx.Message { return &OpenLoopSpeedQuery{} }

// TypeID implements SerializableMessage.
func (m *OpenLoopSpeedQuery) TypeID() uint32 { return OpenLoopSpeedQueryTypeID }

// Serializable implements SerializableMessage.
func (m *OpenLoopSpeedQuery) Serializable() proto.Message { return &m.OpenLoopSpeedQuery }

// OpenLoopSpeed is the reply of OpenLoopSpeedQuery.
type OpenLoopSpeed struct {
	pb.OpenLoopSpeed
}

// NewMessage implements Message.
func (m *OpenLoopSpeed) NewMessage() fx.Message { return &OpenLoopSpeed{} }

// TypeID implements SerializableMessage.
func (m *OpenLoopSpeed) TypeID() uint32 { return OpenLoopSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *OpenLoopSpeed) Serializable() proto.Message { return &m.OpenLoopSpeed }

// SpeedCommand event carries the open-loop speed emitted by the node.
type SpeedCommand struct {
	pb.OpenLoopSpeed
}

// NewMessage implements Message.
func (m *SpeedCommand) NewMessage() fx.Message { return &SpeedCommand{} }

// TypeID implements SerializableMessage.
func (m *SpeedCommand) TypeID() uint32 { return SpeedCommandTypeID }

// Serializable implements SerializableMessage.
func (m *SpeedCommand) Serializable() proto.Message { return &m.OpenLoopSpeed }

// ConfigQuery command.
type ConfigQuery struct {
	pb.ConfigQuery
}

// NewMessage implements Message.
func (m *ConfigQuery) NewMessage() fx.Message { return &ConfigQuery{} }

// TypeID implements SerializableMessage.
func (m *ConfigQuery) TypeID() uint32 { return ConfigQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ConfigQuery) Serializable() proto.Message { return &m.ConfigQuery }

// PlannerConfig is the reply of ConfigQuery.
type PlannerConfig struct {
	pb.PlannerConfig
}

// NewPlannerConfig creates a PlannerConfig message.
func NewPlannerConfig(conf planner.Config) *PlannerConfig {
	return &PlannerConfig{
		PlannerConfig: pb.PlannerConfig{
			TimeGap:        conf.TimeGap,
			AMax:           conf.AMax,
			SlowSpeed:      conf.SlowSpeed,
			StopLineBuffer: conf.StopLineBuffer,
		},
	}
}

// NewMessage implements Message.
func (m *PlannerConfig) NewMessage() fx.Message { return &PlannerConfig{} }

// TypeID implements SerializableMessage.
func (m *PlannerConfig) TypeID() uint32 { return PlannerConfigTypeID }

// Serializable implements SerializableMessage.
func (m *PlannerConfig) Serializable() proto.Message { return &m.PlannerConfig }

// Config converts the message into a planner config.
func (m *PlannerConfig) Config() planner.Config {
	return planner.Config{
		TimeGap:        m.TimeGap,
		AMax:           m.AMax,
		SlowSpeed:      m.SlowSpeed,
		StopLineBuffer: m.StopLineBuffer,
	}
}

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupPlan    uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID          uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	PlanRequestTypeID        uint32 = GroupPlan | 0x0000
	ProfileTypeID            uint32 = PlanRequestTypeID | TypeIDMaskReply
	OpenLoopSpeedQueryTypeID uint32 = GroupPlan | 0x0001
	OpenLoopSpeedTypeID      uint32 = OpenLoopSpeedQueryTypeID | TypeIDMaskReply
	ConfigQueryTypeID        uint32 = GroupPlan | 0x0002
	PlannerConfigTypeID      uint32 = ConfigQueryTypeID | TypeIDMaskReply
	SpeedCommandTypeID       uint32 = TypeIDKindEvent | GroupPlan | 0x0010
)
