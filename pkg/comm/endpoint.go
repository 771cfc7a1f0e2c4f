package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/msgs"
)

// Endpoint is the node side of the protocol. Commands received from any
// attached link are posted into the loop as CommandMsg, and events are
// broadcast to all attached links.
type Endpoint struct {
	pipes map[*Pipe]struct{}
	lock  sync.RWMutex
}

// Serve attaches a link and processes its packets until it's closed.
// ctx must be derived from the loop context.
func (e *Endpoint) Serve(ctx context.Context, rw PacketReadWriter) error {
	pipe := &Pipe{ReadWriter: rw}
	pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		if !typed.IsCommand() || typed.IsReply() {
			glog.V(2).Infof("ignore %s", msgs.TypeName(msg))
			return nil
		}
		loopCtl := fx.LoopCtlFrom(ctx)
		loopCtl.PostMessage(&CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: pipe}})
		loopCtl.TriggerNext()
		return nil
	})

	e.lock.Lock()
	if e.pipes == nil {
		e.pipes = make(map[*Pipe]struct{})
	}
	e.pipes[pipe] = struct{}{}
	e.lock.Unlock()

	defer func() {
		e.lock.Lock()
		delete(e.pipes, pipe)
		e.lock.Unlock()
	}()
	return fx.RunWithContextCloser(ctx, pipe, func() error {
		return pipe.Run(ctx)
	})
}

// SendEvent broadcasts an event to all attached links.
func (e *Endpoint) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	e.lock.RLock()
	defer e.lock.RUnlock()
	for pipe := range e.pipes {
		errs.Add(pipe.SendEventMsg(msg))
	}
	return errs.Aggregate()
}

// Links returns the number of attached links.
func (e *Endpoint) Links() int {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.pipes)
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.seq)
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*CommandMsg); ok {
			mctx.MessageTaken()
			cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
