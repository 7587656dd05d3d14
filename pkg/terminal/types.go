package terminal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/keypad"
)

// State of the terminal.
type State int

// States
const (
	Idle State = iota
	EnteringID
	EnteringPIN
	Authorizing
	Granted
	Denied
	PoweredOff
)

var stateNames = []string{
	Idle:        "idle",
	EnteringID:  "entering-id",
	EnteringPIN: "entering-pin",
	Authorizing: "authorizing",
	Granted:     "granted",
	Denied:      "denied",
	PoweredOff:  "powered-off",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MaxDigits bounds the length of a user id and a PIN.
const MaxDigits = 6

// Credential collects digits up to MaxDigits.
type Credential struct {
	digits []byte
}

// Append adds a digit key. It reports false when k is not a digit or
// the credential is already full.
func (c *Credential) Append(k keypad.Key) bool {
	if !k.IsDigit() || c.Full() {
		return false
	}
	c.digits = append(c.digits, byte(k))
	return true
}

// Len returns the number of digits.
func (c *Credential) Len() int {
	return len(c.digits)
}

// Full reports whether no more digits fit.
func (c *Credential) Full() bool {
	return len(c.digits) >= MaxDigits
}

// Value returns the digits as a number.
func (c *Credential) Value() int {
	if len(c.digits) == 0 {
		return 0
	}
	v, err := strconv.Atoi(string(c.digits))
	if err != nil {
		panic(err)
	}
	return v
}

// Digits returns the digits as typed.
func (c *Credential) Digits() string {
	return string(c.digits)
}

// Reset clears the credential, overwriting the digits.
func (c *Credential) Reset() {
	for i := range c.digits {
		c.digits[i] = 0
	}
	c.digits = c.digits[:0]
}

// Power switches the card.
type Power interface {
	PowerOn()
	PowerOff()
}

// Keypad reads debounced keys.
type Keypad interface {
	ScanDebounced() keypad.Key
}

// Display shows text.
type Display interface {
	Init()
	Clear()
	WriteChar(row, col int, ch byte) error
	WriteText(row, col int, text string) error
	WriteLine(row int, text string) error
}

// Alerts drives the LEDs and the buzzer.
type Alerts interface {
	LEDOn(mask byte)
	LEDOff()
	PiezoOff()
	SignalGranted()
	SignalDenied()
}

// Authorizer checks a credential.
type Authorizer interface {
	Authorize(ctx context.Context, req access.Request) (bool, error)
}
