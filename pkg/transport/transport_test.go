package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/velplan/pkg/comm"
	"github.com/robotalks/velplan/pkg/comm/mqtt"
	"github.com/robotalks/velplan/pkg/comm/stream"
	"github.com/robotalks/velplan/pkg/comm/websocket"
)

func nopServe(context.Context, comm.PacketReadWriter) error { return nil }

func TestNewServer(t *testing.T) {
	srv, err := NewServer("tcp://127.0.0.1:7700", mqtt.NodeInfo{ID: "n1"}, nopServe)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7700", srv.(*stream.Server).Address)

	srv, err = NewServer("ws://:8080/velplan", mqtt.NodeInfo{ID: "n1"}, nopServe)
	require.NoError(t, err)
	ws := srv.(*websocket.Server)
	require.Equal(t, ":8080", ws.Address)
	require.Equal(t, "/velplan", ws.Path)

	srv, err = NewServer("mqtt://localhost:1883/velplan/", mqtt.NodeInfo{ID: "n1"}, nopServe)
	require.NoError(t, err)
	require.Equal(t, "velplan/", srv.(*mqtt.Node).Queue.TopicPrefix)

	_, err = NewServer("udp://localhost:1", mqtt.NodeInfo{ID: "n1"}, nopServe)
	require.Error(t, err)
}

func TestDialRequiresNodeForBroker(t *testing.T) {
	_, err := Dial(context.Background(), "mqtt://localhost:1883", "")
	require.Error(t, err)
	_, err = Dial(context.Background(), "unix:///tmp/x", "n1")
	require.Error(t, err)
}
