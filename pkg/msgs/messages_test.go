package msgs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/velplan/pkg/planner"
	pb "github.com/robotalks/velplan/pkg/proto/velplan/v1"
)

func TestPlanRequestOverWire(t *testing.T) {
	req := planner.Request{
		Path:              planner.Path{{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: 2, Y: 1}},
		DesiredSpeed:      8,
		Ego:               planner.EgoState{X: 0.1, Y: -0.2, Yaw: 0.3, Speed: 4},
		ClosedLoopSpeed:   3.9,
		Lead:              planner.LeadCarState{X: 2, Y: 1, Speed: 5},
		FollowLeadVehicle: true,
	}
	typed, err := TypedFrom(NewPlanRequest(req))
	require.NoError(t, err)
	typed.Sequence = 7
	require.True(t, typed.IsCommand())
	require.False(t, typed.IsReply())

	data, err := typed.Encode()
	require.NoError(t, err)
	decodedTyped, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decodedTyped.Sequence)

	msg, err := decodedTyped.Decode()
	require.NoError(t, err)
	planReq, ok := msg.(*PlanRequest)
	require.True(t, ok)
	decoded, err := planReq.Request()
	require.NoError(t, err)
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanRequestMissingLead(t *testing.T) {
	msg := &PlanRequest{PlanRequest: pb.PlanRequest{
		Path:              []*pb.Waypoint{{X: 0}, {X: 1}},
		FollowLeadVehicle: true,
	}}
	_, err := msg.Request()
	require.True(t, errors.Is(err, planner.ErrInvalidLeadState))

	msg.FollowLeadVehicle = false
	req, err := msg.Request()
	require.NoError(t, err)
	require.Len(t, req.Path, 2)
	require.Equal(t, planner.ModeCruise, req.Mode())
}

func TestProfileConversion(t *testing.T) {
	prof := planner.Profile{{X: 0.1, Speed: 1}, {X: 1, Speed: 2}}
	msg := NewProfile("p-1", planner.ModeStop, prof)
	require.Equal(t, "stop", msg.Mode)
	require.Equal(t, prof, msg.PlannerProfile())
	require.True(t, (&Typed{Typed: pb.Typed{TypeId: msg.TypeID()}}).IsReply())
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		name    string
		msg     SerializableMessage
		command bool
		reply   bool
	}{
		{"plan request", &PlanRequest{}, true, false},
		{"profile", &Profile{}, true, true},
		{"speed query", &OpenLoopSpeedQuery{}, true, false},
		{"speed", &OpenLoopSpeed{}, true, true},
		{"config query", &ConfigQuery{}, true, false},
		{"config", &PlannerConfig{}, true, true},
		{"command ok", NewCommandOK(), true, true},
		{"command err", NewCommandErrFromMsg("boom"), true, true},
		{"speed command", &SpeedCommand{}, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, !tc.command, typed.IsEvent())
			require.Equal(t, tc.reply, typed.IsReply())
			msg, err := typed.Decode()
			require.NoError(t, err)
			require.Equal(t, TypeName(tc.msg), TypeName(msg))
		})
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := (&Typed{Typed: pb.Typed{TypeId: GroupCustom | 1}}).Decode()
	var unknown *ErrUnknownType
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, GroupCustom|1, unknown.TypeID)

	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)
}

func TestPlannerConfigConversion(t *testing.T) {
	conf := planner.Config{TimeGap: 1.2, AMax: 2.5, SlowSpeed: 1, StopLineBuffer: 3}
	require.Equal(t, conf, NewPlannerConfig(conf).Config())
}
