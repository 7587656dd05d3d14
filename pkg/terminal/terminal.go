// Package terminal runs the keypad access terminal.
//
// The terminal prompts for a user id and a PIN, asks the authorization
// server, and signals the verdict:
//
//	Idle -> EnteringID -> EnteringPIN -> Authorizing -> Granted|Denied -> Idle
//
// Cancel returns to Idle from any entry state and Exit powers the
// card off. Every failure to reach a verdict denies access.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/alert"
	"github.com/robotalks/gate.go/pkg/events"
	fx "github.com/robotalks/gate.go/pkg/framework"
	"github.com/robotalks/gate.go/pkg/keypad"
)

// ErrPoweredOff is returned by Step once the terminal is off.
var ErrPoweredOff = errors.New("terminal powered off")

// Screen text and positions.
const (
	Banner       = "Gate is ready."
	PromptID     = "ID: "
	PromptPIN    = "PASS: "
	TextGranted  = "OK"
	TextDenied   = "DENIED"
	rowID        = 0
	rowPIN       = 1
	maskedDigit  = '*'
	settlePower  = time.Millisecond
	ledPulse     = time.Second
	bannerLength = time.Second
)

// Default timings.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultKeyDelay     = 400 * time.Millisecond
	DefaultResultHold   = time.Second
)

// Terminal is the access terminal state machine. It must be driven
// from a single goroutine.
type Terminal struct {
	Gate    int
	Power   Power
	Keypad  Keypad
	Display Display
	Alerts  Alerts
	// Auth may be nil: the terminal then denies every attempt.
	Auth     Authorizer
	Recorder events.Recorder
	// Console receives prompts and typed digits.
	Console io.Writer
	Clock   fx.Clock

	// PollInterval is the wait before each key scan.
	PollInterval time.Duration
	// KeyDelay is the wait after an accepted key.
	KeyDelay time.Duration
	// ResultHold keeps the verdict on screen before returning to Idle.
	ResultHold time.Duration
	// MaskPIN echoes '*' instead of PIN digits.
	MaskPIN bool
	// OnState is called on every state change.
	OnState func(State)

	state State
	id    Credential
	pin   Credential
}

// New creates a Terminal with default timings.
func New(gate int, power Power, kp Keypad, disp Display, alerts Alerts, clock fx.Clock) *Terminal {
	if clock == nil {
		clock = fx.SystemClock
	}
	return &Terminal{
		Gate:         gate,
		Power:        power,
		Keypad:       kp,
		Display:      disp,
		Alerts:       alerts,
		Console:      io.Discard,
		Clock:        clock,
		PollInterval: DefaultPollInterval,
		KeyDelay:     DefaultKeyDelay,
		ResultHold:   DefaultResultHold,
		state:        PoweredOff,
	}
}

// State returns the current state.
func (t *Terminal) State() State {
	return t.state
}

// Start powers the card up, shows the banner and enters Idle.
func (t *Terminal) Start() {
	t.Power.PowerOn()
	t.Clock.Sleep(settlePower)
	t.Alerts.PiezoOff()
	t.Alerts.LEDOn(alert.LEDAll)
	t.Clock.Sleep(ledPulse)
	t.Alerts.LEDOff()
	t.Display.Init()
	fmt.Fprintf(t.Console, "Gate %d is ready.\n", t.Gate)
	t.shown(t.Display.WriteLine(0, Banner))
	t.Clock.Sleep(bannerLength)
	glog.Infof("gate %d ready", t.Gate)
	t.enter(Idle)
}

// Run starts the terminal and steps it until Exit is pressed or ctx is
// done. The card is powered off on return.
func (t *Terminal) Run(ctx context.Context) error {
	t.Start()
	for {
		if err := ctx.Err(); err != nil {
			t.enter(PoweredOff)
			return err
		}
		if _, err := t.Step(ctx); err != nil {
			return err
		}
		if t.state == PoweredOff {
			return nil
		}
	}
}

// Step performs one unit of work in the current state and returns the
// resulting state.
func (t *Terminal) Step(ctx context.Context) (State, error) {
	switch t.state {
	case Idle, EnteringID, EnteringPIN:
		t.Clock.Sleep(t.PollInterval)
		if k := t.Keypad.ScanDebounced(); k != keypad.Blank {
			t.handleKey(k)
			t.Clock.Sleep(t.KeyDelay)
		}
	case Authorizing:
		t.authorize(ctx)
	case Granted, Denied:
		t.Clock.Sleep(t.ResultHold)
		t.enter(Idle)
	case PoweredOff:
		return t.state, ErrPoweredOff
	}
	return t.state, nil
}

func (t *Terminal) handleKey(k keypad.Key) {
	glog.V(3).Infof("key %s in %s", k, t.state)
	switch {
	case k == keypad.Exit:
		fmt.Fprintln(t.Console)
		t.enter(PoweredOff)
	case k == keypad.Cancel:
		if t.state != Idle {
			fmt.Fprintln(t.Console)
			t.enter(Idle)
		}
	case k == keypad.Enter:
		switch t.state {
		case EnteringID:
			t.finishID()
		case EnteringPIN:
			// an empty PIN is never sent
			if t.pin.Len() > 0 {
				t.finishPIN()
			}
		}
	case k.IsDigit():
		switch t.state {
		case Idle:
			t.enter(EnteringID)
			t.typeID(k)
		case EnteringID:
			t.typeID(k)
		case EnteringPIN:
			t.typePIN(k)
		}
	}
}

func (t *Terminal) typeID(k keypad.Key) {
	if !t.id.Append(k) {
		return
	}
	t.shown(t.Display.WriteChar(rowID, len(PromptID)+t.id.Len()-1, byte(k)))
	fmt.Fprintf(t.Console, "%c", byte(k))
	if t.id.Full() {
		t.finishID()
	}
}

func (t *Terminal) typePIN(k keypad.Key) {
	if !t.pin.Append(k) {
		return
	}
	echo := byte(k)
	if t.MaskPIN {
		echo = maskedDigit
	}
	t.shown(t.Display.WriteChar(rowPIN, len(PromptPIN)+t.pin.Len()-1, echo))
	fmt.Fprintf(t.Console, "%c", echo)
	if t.pin.Full() {
		t.finishPIN()
	}
}

func (t *Terminal) finishID() {
	fmt.Fprintln(t.Console)
	t.enter(EnteringPIN)
}

func (t *Terminal) finishPIN() {
	fmt.Fprintln(t.Console)
	t.enter(Authorizing)
}

func (t *Terminal) authorize(ctx context.Context) {
	req := access.Request{Gate: t.Gate, User: t.id.Value(), PIN: t.pin.Value()}
	t.pin.Reset()
	start := t.Clock.Now()
	var (
		granted bool
		err     error
		outcome events.Outcome
	)
	if t.Auth == nil {
		outcome = events.Offline
	} else if granted, err = t.Auth.Authorize(ctx, req); err != nil {
		glog.Warningf("authorize %s: %v", req, err)
		outcome = events.Failed
	} else if granted {
		outcome = events.Granted
	} else {
		outcome = events.Denied
	}
	if t.Recorder != nil {
		ev := events.New(t.Clock.Now(), req.Gate, req.User, outcome)
		ev.Duration = t.Clock.Now().Sub(start)
		if err != nil {
			ev.Error = err.Error()
		}
		t.Recorder.Record(ev)
	}
	if outcome == events.Granted {
		t.enter(Granted)
	} else {
		t.enter(Denied)
	}
}

// enter switches state and performs its entry action.
// shown logs a failed display write; the terminal carries on without
// that feedback.
func (t *Terminal) shown(err error) {
	if err != nil {
		glog.Warningf("display: %v", err)
	}
}

func (t *Terminal) enter(s State) {
	if glog.V(2) {
		glog.Infof("%s -> %s", t.state, s)
	}
	prev := t.state
	t.state = s
	if t.OnState != nil {
		t.OnState(s)
	}
	switch s {
	case Idle:
		t.id.Reset()
		t.pin.Reset()
		t.Display.Clear()
		t.shown(t.Display.WriteText(rowID, 0, PromptID))
		fmt.Fprint(t.Console, PromptID)
	case EnteringPIN:
		t.shown(t.Display.WriteText(rowPIN, 0, PromptPIN))
		fmt.Fprint(t.Console, PromptPIN)
	case Granted:
		t.Display.Clear()
		t.shown(t.Display.WriteLine(0, TextGranted))
		t.Alerts.SignalGranted()
	case Denied:
		t.Display.Clear()
		t.shown(t.Display.WriteLine(0, TextDenied))
		t.Alerts.SignalDenied()
	case PoweredOff:
		t.id.Reset()
		t.pin.Reset()
		if prev != PoweredOff {
			t.Display.Clear()
			t.Power.PowerOff()
		}
	}
}
