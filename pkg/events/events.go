// Package events records the outcome of access checks.
//
// Events never carry the PIN.
package events

import (
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Outcome of an access attempt.
type Outcome string

// Outcomes
const (
	// Granted means the server accepted the credential.
	Granted Outcome = "granted"
	// Denied means the server rejected the credential.
	Denied Outcome = "denied"
	// Failed means the check could not complete; access was denied.
	Failed Outcome = "failed"
	// Offline means the terminal has no server; access was denied.
	Offline Outcome = "offline"
)

// Event describes one access attempt.
type Event struct {
	ID       string        `cbor:"1,keyasint" yaml:"id"`
	Time     time.Time     `cbor:"2,keyasint" yaml:"time"`
	Terminal string        `cbor:"3,keyasint,omitempty" yaml:"terminal,omitempty"`
	Gate     int           `cbor:"4,keyasint" yaml:"gate"`
	User     int           `cbor:"5,keyasint" yaml:"user"`
	Outcome  Outcome       `cbor:"6,keyasint" yaml:"outcome"`
	Error    string        `cbor:"7,keyasint,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `cbor:"8,keyasint" yaml:"duration"`
}

// New creates an Event with a fresh ID.
func New(at time.Time, gate, user int, outcome Outcome) Event {
	return Event{
		ID:      uuid.New().String(),
		Time:    at,
		Gate:    gate,
		User:    user,
		Outcome: outcome,
	}
}

// Recorder receives events.
type Recorder interface {
	Record(Event)
}

// RecorderFunc is the func form of Recorder.
type RecorderFunc func(Event)

// Record implements Recorder.
func (f RecorderFunc) Record(ev Event) {
	f(ev)
}

// Multi fans out events to several recorders.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ev Event) {
	for _, r := range m {
		r.Record(ev)
	}
}

// Log records events to glog.
type Log struct{}

// Record implements Recorder.
func (Log) Record(ev Event) {
	switch ev.Outcome {
	case Granted, Denied:
		glog.Infof("gate %d user %d: %s (%v)", ev.Gate, ev.User, ev.Outcome, ev.Duration)
	default:
		glog.Warningf("gate %d user %d: %s: %s", ev.Gate, ev.User, ev.Outcome, ev.Error)
	}
}
