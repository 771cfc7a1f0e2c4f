// Package websocket carries packets as binary websocket messages.
package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/velplan/pkg/comm"
	fx "github.com/robotalks/velplan/pkg/framework"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Server accepts websocket connections on Path and serves each of them.
type Server struct {
	Address string
	Path    string
	Serve   func(context.Context, comm.PacketReadWriter) error
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		if err := s.Serve(ctx, New(conn)); err != nil && err != context.Canceled {
			glog.V(2).Infof("websocket %s closed: %v", conn.Request().RemoteAddr, err)
		}
	}))
	srv := &http.Server{Addr: s.Address, Handler: mux}
	glog.Infof("listening on ws %s%s", s.Address, path)
	return fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
}

// Dial connects to a websocket server.
func Dial(url string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return New(conn), nil
}
