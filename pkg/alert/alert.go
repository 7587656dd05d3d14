// Package alert drives the LED bar and the piezo buzzer.
package alert

import (
	"time"

	"github.com/robotalks/gate.go/pkg/bus"
)

// Signal durations.
const (
	GrantedBuzz = 200 * time.Millisecond
	DeniedBuzz  = 100 * time.Millisecond
	DeniedPause = 100 * time.Millisecond
	DeniedCount = 3
)

// LEDAll lights every LED.
const LEDAll byte = 0xff

// Controller drives LEDs and the buzzer. All operations block for
// their full duration.
type Controller struct {
	bus       *bus.Bus
	led       byte
	buzzer    byte
	buzzerBit byte
}

// New creates a Controller. The buzzer shares its register with the
// keypad column select.
func New(b *bus.Bus, p bus.PeripheralMap) *Controller {
	return &Controller{
		bus:       b,
		led:       p.LED,
		buzzer:    p.KeypadWrite,
		buzzerBit: p.BuzzerBit,
	}
}

// LEDOn lights the LEDs in mask.
func (c *Controller) LEDOn(mask byte) {
	c.bus.WriteReg(c.led, mask)
}

// LEDOff switches all LEDs off.
func (c *Controller) LEDOff() {
	c.bus.WriteReg(c.led, 0)
}

// PiezoOff silences the buzzer.
func (c *Controller) PiezoOff() {
	c.bus.WriteReg(c.buzzer, 0)
}

// Buzz sounds the buzzer for d.
func (c *Controller) Buzz(d time.Duration) {
	c.bus.WriteReg(c.buzzer, c.buzzerBit)
	c.bus.Clock().Sleep(d)
	c.PiezoOff()
}

// Pulse lights the LEDs in mask for d.
func (c *Controller) Pulse(mask byte, d time.Duration) {
	c.LEDOn(mask)
	c.bus.Clock().Sleep(d)
	c.LEDOff()
}

// SignalGranted sounds one short buzz.
func (c *Controller) SignalGranted() {
	c.Buzz(GrantedBuzz)
}

// SignalDenied sounds DeniedCount buzzes separated by pauses.
func (c *Controller) SignalDenied() {
	for i := 0; i < DeniedCount; i++ {
		if i > 0 {
			c.bus.Clock().Sleep(DeniedPause)
		}
		c.Buzz(DeniedBuzz)
	}
}
