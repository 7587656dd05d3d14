package msgs

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/gate.go/pkg/events"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// TypeIDGroupGate is the group of all terminal messages.
const TypeIDGroupGate uint32 = 0x00010000

// Type IDs
const (
	AccessEventTypeID    = TypeIDKindEvent | TypeIDGroupGate | 0x0001
	TerminalStatusTypeID = TypeIDKindEvent | TypeIDGroupGate | 0x0002
)

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// MessageTypes maps type IDs to message constructors.
var MessageTypes = map[uint32]func() proto.Message{
	AccessEventTypeID:    func() proto.Message { return &AccessEvent{} },
	TerminalStatusTypeID: func() proto.Message { return &TerminalStatus{} },
}

// TypeIDOf returns the type ID of a known message.
func TypeIDOf(msg proto.Message) (uint32, bool) {
	switch msg.(type) {
	case *AccessEvent:
		return AccessEventTypeID, true
	case *TerminalStatus:
		return TerminalStatusTypeID, true
	}
	return 0, false
}

// Wrap encloses msg in a Typed envelope.
func Wrap(msg proto.Message) (*Typed, error) {
	typeID, ok := TypeIDOf(msg)
	if !ok {
		return nil, fmt.Errorf("message %T has no type id", msg)
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Typed{TypeId: typeID, Message: data}, nil
}

// Encode wraps and serializes msg.
func Encode(msg proto.Message) ([]byte, error) {
	typed, err := Wrap(msg)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(typed)
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Decode decodes the payload into the actual message.
func (m *Typed) Decode() (proto.Message, error) {
	newMsg, ok := MessageTypes[m.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: m.TypeId}
	}
	msg := newMsg()
	if err := proto.Unmarshal(m.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// IsEvent determines if the message is an event.
func (m *Typed) IsEvent() bool {
	return m.TypeId&TypeIDMaskKind == TypeIDKindEvent
}

// FromEvent converts an access event.
func FromEvent(ev events.Event) *AccessEvent {
	return &AccessEvent{
		Id:            ev.ID,
		TimeUnixNano:  ev.Time.UnixNano(),
		Terminal:      ev.Terminal,
		Gate:          int64(ev.Gate),
		User:          int64(ev.User),
		Outcome:       string(ev.Outcome),
		Error:         ev.Error,
		DurationNanos: int64(ev.Duration),
	}
}

// Event converts back to an access event.
func (m *AccessEvent) Event() events.Event {
	return events.Event{
		ID:       m.Id,
		Time:     time.Unix(0, m.TimeUnixNano),
		Terminal: m.Terminal,
		Gate:     int(m.Gate),
		User:     int(m.User),
		Outcome:  events.Outcome(m.Outcome),
		Error:    m.Error,
		Duration: time.Duration(m.DurationNanos),
	}
}
