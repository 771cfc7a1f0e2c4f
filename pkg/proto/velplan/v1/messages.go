// Package velplanpb declares the protobuf wire messages of the velocity
// planner protocol, proto3 syntax, package velplan.v1.
//
// velplan.proto is the schema; struct tags here must match it field by field.
package velplanpb

import (
	"github.com/golang/protobuf/proto"
)

// Typed is the envelope of every packet on the wire.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

// CommandOK is the generic success reply.
type CommandOK struct {
}

func (m *CommandOK) Reset()         { *m = CommandOK{} }
func (m *CommandOK) String() string { return proto.CompactTextString(m) }
func (*CommandOK) ProtoMessage()    {}

// CommandErr is the generic failure reply.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

// Waypoint is a 2D path point.
type Waypoint struct {
	X float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
}

func (m *Waypoint) Reset()         { *m = Waypoint{} }
func (m *Waypoint) String() string { return proto.CompactTextString(m) }
func (*Waypoint) ProtoMessage()    {}

// TrajectoryPoint is a path point with target speed.
type TrajectoryPoint struct {
	X     float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y     float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Speed float64 `protobuf:"fixed64,3,opt,name=speed,proto3" json:"speed,omitempty"`
}

func (m *TrajectoryPoint) Reset()         { *m = TrajectoryPoint{} }
func (m *TrajectoryPoint) String() string { return proto.CompactTextString(m) }
func (*TrajectoryPoint) ProtoMessage()    {}

// EgoState is the pose and speed of the planned vehicle.
type EgoState struct {
	X     float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y     float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Yaw   float64 `protobuf:"fixed64,3,opt,name=yaw,proto3" json:"yaw,omitempty"`
	Speed float64 `protobuf:"fixed64,4,opt,name=speed,proto3" json:"speed,omitempty"`
}

func (m *EgoState) Reset()         { *m = EgoState{} }
func (m *EgoState) String() string { return proto.CompactTextString(m) }
func (*EgoState) ProtoMessage()    {}

// LeadCarState is the position and speed of the followed vehicle.
type LeadCarState struct {
	X     float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y     float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Speed float64 `protobuf:"fixed64,3,opt,name=speed,proto3" json:"speed,omitempty"`
}

func (m *LeadCarState) Reset()         { *m = LeadCarState{} }
func (m *LeadCarState) String() string { return proto.CompactTextString(m) }
func (*LeadCarState) ProtoMessage()    {}

// PlanRequest asks for a velocity profile over a path.
type PlanRequest struct {
	Path              []*Waypoint   `protobuf:"bytes,1,rep,name=path,proto3" json:"path,omitempty"`
	DesiredSpeed      float64       `protobuf:"fixed64,2,opt,name=desired_speed,json=desiredSpeed,proto3" json:"desired_speed,omitempty"`
	Ego               *EgoState     `protobuf:"bytes,3,opt,name=ego,proto3" json:"ego,omitempty"`
	ClosedLoopSpeed   float64       `protobuf:"fixed64,4,opt,name=closed_loop_speed,json=closedLoopSpeed,proto3" json:"closed_loop_speed,omitempty"`
	DecelerateToStop  bool          `protobuf:"varint,5,opt,name=decelerate_to_stop,json=decelerateToStop,proto3" json:"decelerate_to_stop,omitempty"`
	Lead              *LeadCarState `protobuf:"bytes,6,opt,name=lead,proto3" json:"lead,omitempty"`
	FollowLeadVehicle bool          `protobuf:"varint,7,opt,name=follow_lead_vehicle,json=followLeadVehicle,proto3" json:"follow_lead_vehicle,omitempty"`
}

func (m *PlanRequest) Reset()         { *m = PlanRequest{} }
func (m *PlanRequest) String() string { return proto.CompactTextString(m) }
func (*PlanRequest) ProtoMessage()    {}

// Profile is a produced velocity profile.
type Profile struct {
	ProfileId string             `protobuf:"bytes,1,opt,name=profile_id,json=profileId,proto3" json:"profile_id,omitempty"`
	Mode      string             `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	Points    []*TrajectoryPoint `protobuf:"bytes,3,rep,name=points,proto3" json:"points,omitempty"`
}

func (m *Profile) Reset()         { *m = Profile{} }
func (m *Profile) String() string { return proto.CompactTextString(m) }
func (*Profile) ProtoMessage()    {}

// OpenLoopSpeedQuery asks for the speed after Elapsed seconds on the
// previous profile. With SinceProfile, the node measures the elapsed time.
type OpenLoopSpeedQuery struct {
	Elapsed      float64 `protobuf:"fixed64,1,opt,name=elapsed,proto3" json:"elapsed,omitempty"`
	SinceProfile bool    `protobuf:"varint,2,opt,name=since_profile,json=sinceProfile,proto3" json:"since_profile,omitempty"`
}

func (m *OpenLoopSpeedQuery) Reset()         { *m = OpenLoopSpeedQuery{} }
func (m *OpenLoopSpeedQuery) String() string { return proto.CompactTextString(m) }
func (*OpenLoopSpeedQuery) ProtoMessage()    {}

// OpenLoopSpeed is the speed on a profile after an elapsed time.
type OpenLoopSpeed struct {
	ProfileId string  `protobuf:"bytes,1,opt,name=profile_id,json=profileId,proto3" json:"profile_id,omitempty"`
	Elapsed   float64 `protobuf:"fixed64,2,opt,name=elapsed,proto3" json:"elapsed,omitempty"`
	Speed     float64 `protobuf:"fixed64,3,opt,name=speed,proto3" json:"speed,omitempty"`
}

func (m *OpenLoopSpeed) Reset()         { *m = OpenLoopSpeed{} }
func (m *OpenLoopSpeed) String() string { return proto.CompactTextString(m) }
func (*OpenLoopSpeed) ProtoMessage()    {}

// ConfigQuery asks for the planner configuration.
type ConfigQuery struct {
}

func (m *ConfigQuery) Reset()         { *m = ConfigQuery{} }
func (m *ConfigQuery) String() string { return proto.CompactTextString(m) }
func (*ConfigQuery) ProtoMessage()    {}

// PlannerConfig is the planner configuration.
type PlannerConfig struct {
	TimeGap        float64 `protobuf:"fixed64,1,opt,name=time_gap,json=timeGap,proto3" json:"time_gap,omitempty"`
	AMax           float64 `protobuf:"fixed64,2,opt,name=a_max,json=aMax,proto3" json:"a_max,omitempty"`
	SlowSpeed      float64 `protobuf:"fixed64,3,opt,name=slow_speed,json=slowSpeed,proto3" json:"slow_speed,omitempty"`
	StopLineBuffer float64 `protobuf:"fixed64,4,opt,name=stop_line_buffer,json=stopLineBuffer,proto3" json:"stop_line_buffer,omitempty"`
}

func (m *PlannerConfig) Reset()         { *m = PlannerConfig{} }
func (m *PlannerConfig) String() string { return proto.CompactTextString(m) }
func (*PlannerConfig) ProtoMessage()    {}
