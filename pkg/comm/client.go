package comm

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/velplan/pkg/framework"
	"github.com/robotalks/velplan/pkg/msgs"
)

// Client is the requesting side of the protocol. Commands are matched to
// replies by sequence number and fail with context.DeadlineExceeded when no
// reply arrives before Expiration.
type Client struct {
	Expiration time.Duration
	// OnEvent is invoked from the reading goroutine for each event.
	OnEvent func(fx.Message)

	pipe     Pipe
	seq      uint32
	commands list.List
	seqMap   map[uint32]*commandFuture
	lock     sync.Mutex
}

// DefaultCommandExpiration is the default expiration expecting a result.
const DefaultCommandExpiration = 1 * time.Second

// purgeInterval is how often expired commands are checked.
const purgeInterval = 100 * time.Millisecond

// NewClient creates a Client over the link.
func NewClient(rw PacketReadWriter) *Client {
	c := &Client{Expiration: DefaultCommandExpiration}
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.seqMap = make(map[uint32]*commandFuture)
	return c
}

// DoCommand sends a command and returns the future of its reply.
func (c *Client) DoCommand(msg fx.Message) CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.result <- Result{Err: err}
		close(f.result)
		return f
	}
	f.elem = c.commands.PushBack(f)
	c.seqMap[f.seq] = f
	return f
}

// Do sends a command and waits for the reply.
func (c *Client) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-c.DoCommand(msg).ResultChan():
		if !ok {
			return nil, ErrClosed
		}
		return r.Msg, r.Err
	}
}

// Run implements Runnable.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.purgeExpired(now)
			}
		}
	}()
	defer c.failAll(ErrClosed)
	return fx.RunWithContextCloser(ctx, &c.pipe, func() error {
		return c.pipe.Run(ctx)
	})
}

// Close closes the underlying link.
func (c *Client) Close() error {
	return c.pipe.Close()
}

func (c *Client) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		if c.OnEvent != nil {
			c.OnEvent(msg)
		}
		return nil
	}
	if !typed.IsReply() {
		glog.V(2).Infof("ignore command %s", msgs.TypeName(msg))
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	f := c.seqMap[typed.Sequence]
	if f == nil {
		return nil
	}
	c.commands.Remove(f.elem)
	delete(c.seqMap, typed.Sequence)
	result := Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

func (c *Client) purgeExpired(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for c.commands.Len() > 0 {
		elem := c.commands.Front()
		f := elem.Value.(*commandFuture)
		if f.expireAt.After(now) {
			break
		}
		c.commands.Remove(elem)
		delete(c.seqMap, f.seq)
		f.result <- Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
}

func (c *Client) failAll(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for c.commands.Len() > 0 {
		f := c.commands.Remove(c.commands.Front()).(*commandFuture)
		delete(c.seqMap, f.seq)
		f.result <- Result{Err: err}
		close(f.result)
	}
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	elem     *list.Element
	result   chan Result
}

func (c *commandFuture) ResultChan() <-chan Result {
	return c.result
}
