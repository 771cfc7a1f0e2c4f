// Package transport selects the link implementation from a URL.
//
// Supported schemes:
//
//	mqtt://host:port/topic-prefix  (also mqtts://)
//	ws://host:port/path
//	tcp://host:port
package transport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/robotalks/velplan/pkg/comm"
	"github.com/robotalks/velplan/pkg/comm/mqtt"
	"github.com/robotalks/velplan/pkg/comm/stream"
	"github.com/robotalks/velplan/pkg/comm/websocket"
	fx "github.com/robotalks/velplan/pkg/framework"
)

// ServeFunc serves a single attached link.
type ServeFunc func(context.Context, comm.PacketReadWriter) error

// NewServer creates the Runnable accepting links for a node.
func NewServer(rawURL string, info mqtt.NodeInfo, serve ServeFunc) (fx.Runnable, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL: %w", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts":
		return mqtt.NewNode(rawURL, info, serve)
	case "ws":
		return &websocket.Server{Address: u.Host, Path: u.Path, Serve: serve}, nil
	case "tcp":
		return &stream.Server{Address: u.Host, Serve: stream.ServeFunc(serve)}, nil
	default:
		return nil, fmt.Errorf("unknown transport URL scheme: %q", u.Scheme)
	}
}

// Dial connects to the node. nodeID is only used to address the node
// through a broker.
func Dial(ctx context.Context, rawURL, nodeID string) (comm.PacketReadWriter, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL: %w", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts":
		if nodeID == "" {
			return nil, fmt.Errorf("node id is required for %s", u.Scheme)
		}
		return mqtt.Dial(rawURL, nodeID)
	case "ws":
		return websocket.Dial(rawURL)
	case "tcp":
		return stream.Dial(ctx, u.Host)
	default:
		return nil, fmt.Errorf("unknown transport URL scheme: %q", u.Scheme)
	}
}
