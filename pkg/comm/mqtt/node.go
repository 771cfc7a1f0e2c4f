package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/velplan/pkg/comm"
)

// NodeInfo is published retained on node/meta while the node is online.
type NodeInfo struct {
	ID      string            `json:"id"`
	Version string            `json:"version,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Node attaches a planner node to the broker.
type Node struct {
	Queue *Queue
	Info  NodeInfo
	Serve func(context.Context, comm.PacketReadWriter) error

	metaJSON []byte
}

// NewNode creates a Node. The retained meta is cleared by the will when the
// node drops off unexpectedly.
func NewNode(brokerURL string, info NodeInfo, serve func(context.Context, comm.PacketReadWriter) error) (*Node, error) {
	meta, err := json.Marshal(&info)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.ID+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("velplan:" + info.ID)
	}
	n := &Node{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		Serve:    serve,
		metaJSON: meta,
	}
	n.Queue.OnConnect = func(q *Queue) {
		q.PubWith(n.Info.ID+TopicMeta, n.metaJSON, 1, true)
	}
	return n, nil
}

// Run implements Runnable.
func (n *Node) Run(ctx context.Context) error {
	if err := n.Queue.Connect(); err != nil {
		return err
	}
	defer n.Queue.Close()
	rw := NewPacketReadWriter(n.Queue).ForNode(n.Info.ID)
	if err := rw.Open(); err != nil {
		return err
	}
	err := n.Serve(ctx, rw)
	token := n.Queue.PubWith(n.Info.ID+TopicMeta, nil, 1, true)
	token.WaitTimeout(time.Second)
	return err
}

// Dial connects to a node through the broker.
func Dial(brokerURL, nodeID string) (*ReadWriter, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	rw := NewPacketReadWriter(q).ForClient(nodeID)
	rw.ownsQueue = true
	if err = rw.Open(); err != nil {
		q.Close()
		return nil, err
	}
	return rw, nil
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover lists online nodes from their retained meta.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) ([]NodeInfo, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	defer q.Close()
	resCh := make(chan NodeInfo, 16)
	sub := q.Sub("+"+TopicMeta, func(topic string, payload []byte) {
		var info NodeInfo
		if len(payload) == 0 {
			return
		}
		if err := json.Unmarshal(payload, &info); err != nil {
			glog.Warningf("invalid meta on %s: %v", topic, err)
			return
		}
		if info.ID == "" {
			info.ID = strings.TrimSuffix(topic, TopicMeta)
		}
		select {
		case resCh <- info:
		case <-time.After(time.Second):
		}
	})
	defer sub.Close()

	if timeout == 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	var res []NodeInfo
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-expire:
			return res, nil
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}
