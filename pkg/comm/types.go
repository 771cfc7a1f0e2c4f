// Package comm transports planner protocol messages between a planner node
// and its clients over packet oriented links.
package comm

import (
	"context"
	"errors"

	fx "github.com/robotalks/velplan/pkg/framework"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message posted into the loop.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

var (
	// ErrClosed indicates the connection is closed.
	ErrClosed = errors.New("connection closed")
)

// EventSender sends events to the remote side.
type EventSender interface {
	SendEvent(context.Context, fx.Message) error
}
