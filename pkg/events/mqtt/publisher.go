package mqtt

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/events/msgs"
)

// Topic suffixes under <prefix><terminal>/.
const (
	TopicMeta   = "meta"
	TopicAccess = "access"
	TopicStatus = "status"
)

// Topic builds the topic of kind for terminal.
func Topic(terminal, kind string) string {
	return terminal + "/" + kind
}

// Meta describes a terminal. It is published retained and cleared by
// the will when the terminal disappears.
type Meta struct {
	Gate     int               `json:"gate"`
	Revision string            `json:"revision,omitempty"`
	Keymap   string            `json:"keymap,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
}

// DefaultBacklog is the number of events buffered while the broker is
// slow or unreachable.
const DefaultBacklog = 64

// Publisher publishes terminal events. Record and PublishStatus never
// block the terminal; events beyond the backlog are dropped.
type Publisher struct {
	Queue    *Queue
	Terminal string
	Meta     Meta
	// Timeout bounds waiting for one publish acknowledgement.
	Timeout time.Duration

	metaJSON []byte
	pending  chan proto.Message
}

// NewPublisher creates a Publisher connecting to brokerURL.
func NewPublisher(brokerURL, terminal string, meta Meta) (*Publisher, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+Topic(terminal, TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("gate:" + terminal)
	}
	p := newPublisher(NewQueue(opts, topicPrefix), terminal, meta)
	return p, nil
}

func newPublisher(q *Queue, terminal string, meta Meta) *Publisher {
	data, err := json.Marshal(&meta)
	if err != nil {
		panic(err)
	}
	p := &Publisher{
		Queue:    q,
		Terminal: terminal,
		Meta:     meta,
		Timeout:  5 * time.Second,
		metaJSON: data,
		pending:  make(chan proto.Message, DefaultBacklog),
	}
	q.OnConnect = func(*Queue) { p.publishMeta(p.metaJSON) }
	return p
}

// Record implements events.Recorder.
func (p *Publisher) Record(ev events.Event) {
	if ev.Terminal == "" {
		ev.Terminal = p.Terminal
	}
	p.enqueue(msgs.FromEvent(ev))
}

// PublishStatus publishes the terminal state, retained.
func (p *Publisher) PublishStatus(state string) {
	p.enqueue(&msgs.TerminalStatus{
		Terminal: p.Terminal,
		Gate:     int64(p.Meta.Gate),
		State:    state,
	})
}

func (p *Publisher) enqueue(msg proto.Message) {
	select {
	case p.pending <- msg:
	default:
		glog.Warningf("mqtt: backlog full, dropped %T", msg)
	}
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	p.Queue.Connect()
	for {
		select {
		case <-ctx.Done():
			p.drain()
			p.publishMeta(nil)
			p.Queue.Close()
			return ctx.Err()
		case msg := <-p.pending:
			p.publish(msg)
		}
	}
}

// drain publishes what was queued before shutdown.
func (p *Publisher) drain() {
	for {
		select {
		case msg := <-p.pending:
			p.publish(msg)
		default:
			return
		}
	}
}

func (p *Publisher) publish(msg proto.Message) {
	data, err := msgs.Encode(msg)
	if err != nil {
		glog.Errorf("mqtt: encode %T: %v", msg, err)
		return
	}
	var token paho.Token
	switch msg.(type) {
	case *msgs.TerminalStatus:
		token = p.Queue.PubWith(Topic(p.Terminal, TopicStatus), data, 1, true)
	default:
		token = p.Queue.PubWith(Topic(p.Terminal, TopicAccess), data, 1, false)
	}
	p.wait(token)
}

func (p *Publisher) publishMeta(data []byte) {
	p.wait(p.Queue.PubWith(Topic(p.Terminal, TopicMeta), data, 1, true))
}

func (p *Publisher) wait(token paho.Token) {
	if !token.WaitTimeout(p.Timeout) {
		glog.Warningf("mqtt: publish not acknowledged within %v", p.Timeout)
	} else if err := token.Error(); err != nil {
		glog.Warningf("mqtt: publish: %v", err)
	}
}
