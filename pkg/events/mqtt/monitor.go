package mqtt

import (
	"encoding/json"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/events/msgs"
)

// Watcher receives decoded messages from every terminal.
type Watcher interface {
	Meta(terminal string, meta *Meta)
	Access(ev events.Event)
	Status(st *msgs.TerminalStatus)
}

// Watch subscribes to all terminals under the queue prefix.
func Watch(q *Queue, w Watcher) []*Subscription {
	return []*Subscription{
		q.Sub(Topic("+", TopicMeta), func(topic string, payload []byte) {
			terminal := strings.TrimSuffix(topic, "/"+TopicMeta)
			if len(payload) == 0 {
				w.Meta(terminal, nil)
				return
			}
			var meta Meta
			if err := json.Unmarshal(payload, &meta); err != nil {
				glog.Warningf("meta %s: %v", terminal, err)
				return
			}
			w.Meta(terminal, &meta)
		}),
		q.Sub(Topic("+", TopicAccess), func(topic string, payload []byte) {
			if msg := decode(topic, payload); msg != nil {
				if ev, ok := msg.(*msgs.AccessEvent); ok {
					w.Access(ev.Event())
				}
			}
		}),
		q.Sub(Topic("+", TopicStatus), func(topic string, payload []byte) {
			if msg := decode(topic, payload); msg != nil {
				if st, ok := msg.(*msgs.TerminalStatus); ok {
					w.Status(st)
				}
			}
		}),
	}
}

func decode(topic string, payload []byte) interface{} {
	if len(payload) == 0 {
		return nil
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return nil
	}
	msg, err := typed.Decode()
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return nil
	}
	return msg
}
