package mqtt

import (
	"io"
	"sync"
)

// Topic suffixes under a node's topic root.
const (
	TopicCmd  = "/cmd"
	TopicMsg  = "/msg"
	TopicMeta = "/meta"
)

// ReadWriter implements PacketReadWriter over a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	sub       *Subscription
	ownsQueue bool
	packetCh  chan []byte
	closeCh   chan struct{}
	once      sync.Once
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		closeCh:  make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForClient sets topics for the client talking to a node:
// SubTopic = node/msg
// PubTopic = node/cmd
func (p *ReadWriter) ForClient(nodeID string) *ReadWriter {
	return p.WithTopics(nodeID+TopicMsg, nodeID+TopicCmd)
}

// ForNode sets topics for the node itself:
// SubTopic = node/cmd
// PubTopic = node/msg
func (p *ReadWriter) ForNode(nodeID string) *ReadWriter {
	return p.WithTopics(nodeID+TopicCmd, nodeID+TopicMsg)
}

// Open subscribes SubTopic.
func (p *ReadWriter) Open() error {
	p.sub = p.Queue.Sub(p.SubTopic, p.handleMsg)
	p.sub.Token.Wait()
	return p.sub.Token.Error()
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (p *ReadWriter) Close() (err error) {
	p.once.Do(func() {
		close(p.closeCh)
		if p.sub != nil {
			err = p.sub.Close()
		}
		if p.ownsQueue {
			p.Queue.Close()
		}
	})
	return
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.closeCh:
	}
}
