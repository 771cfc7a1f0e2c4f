package stream

import (
	"context"
	"net"

	"github.com/golang/glog"

	"github.com/robotalks/velplan/pkg/comm"
	fx "github.com/robotalks/velplan/pkg/framework"
)

// ServeFunc serves a single accepted link.
type ServeFunc func(context.Context, comm.PacketReadWriter) error

// Server accepts TCP connections and serves each of them.
type Server struct {
	Address string
	Serve   ServeFunc
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}
	glog.Infof("listening on tcp %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			glog.V(2).Infof("accepted %s", conn.RemoteAddr())
			go func() {
				if err := s.Serve(ctx, New(conn)); err != nil && err != context.Canceled {
					glog.V(2).Infof("link %s closed: %v", conn.RemoteAddr(), err)
				}
			}()
		}
	})
}

// Dial connects to a TCP server.
func Dial(ctx context.Context, address string) (*ReadWriter, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}
