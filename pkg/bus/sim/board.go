// Package sim simulates the gate terminal card behind a register window.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/robotalks/gate.go/pkg/bus"
	fx "github.com/robotalks/gate.go/pkg/framework"
)

// Transfer is one completed bus transfer seen by the card.
type Transfer struct {
	Write bool
	Addr  byte
	Value byte
}

// String implements fmt.Stringer.
func (t Transfer) String() string {
	if t.Write {
		return fmt.Sprintf("W %#02x <- %#02x", t.Addr, t.Value)
	}
	return fmt.Sprintf("R %#02x -> %#02x", t.Addr, t.Value)
}

// Pulse is one buzzer activation.
type Pulse struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the pulse.
func (p Pulse) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Board is a simulated card. It implements bus.Window by decoding
// the strobe sequence written to the Control register, and models the
// keypad matrix, the character display, the LEDs and the buzzer.
// Registers at unassigned bus addresses echo what was written to them.
type Board struct {
	Layout      bus.Layout
	Peripherals bus.PeripheralMap

	keypad Keypad
	lcd    LCD
	time   fx.TimeSource

	mem        []byte
	powered    bool
	asserted   byte
	led        byte
	buzzing    bool
	pulses     []Pulse
	regs       map[byte]byte
	transfers  []Transfer
	violations []string
	lock       sync.Mutex
}

// NewBoard creates a Board for layout. ts stamps buzzer pulses.
func NewBoard(layout bus.Layout, peripherals bus.PeripheralMap, columns, rows []byte, ts fx.TimeSource) *Board {
	size := layout.WindowSize
	if size == 0 {
		size = bus.DefaultWindowSize
	}
	if ts == nil {
		ts = fx.SystemClock
	}
	b := &Board{
		Layout:      layout,
		Peripherals: peripherals,
		time:        ts,
		mem:         make([]byte, size),
		regs:        make(map[byte]byte),
	}
	b.keypad.init(columns, rows)
	b.lcd.init()
	return b
}

// Len implements bus.Window.
func (b *Board) Len() int {
	return len(b.mem)
}

// Load implements bus.Window.
func (b *Board) Load(off int) byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.mem[off]
}

// Store implements bus.Window.
func (b *Board) Store(off int, v byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.mem[off] = v
	if off == b.Layout.Control {
		b.control(v)
	}
}

func (b *Board) lines() byte {
	bits := b.Layout.Bits
	return bits.ChipSelect | bits.Read | bits.Write
}

func (b *Board) control(v byte) {
	l := &b.Layout
	if v&l.Bits.Power == 0 {
		b.powered, b.asserted = false, 0
		b.setBuzzer(false)
		return
	}
	b.powered = true
	var asserted byte
	if l.Polarity == bus.ActiveLow {
		asserted = ^v & b.lines()
	} else {
		asserted = v & b.lines()
	}
	prev := b.asserted
	b.asserted = asserted

	cs, strobes := l.Bits.ChipSelect, l.Bits.Read|l.Bits.Write
	wasSelected, selected := prev&cs != 0, asserted&cs != 0
	if wasSelected && selected && prev&strobes != asserted&strobes {
		b.violations = append(b.violations,
			fmt.Sprintf("strobe changed while chip-select asserted (control %#02x)", v))
	}
	if wasSelected || !selected {
		return
	}

	var addr byte
	if l.PackedAddress {
		addr = v & l.AddressMask
	} else {
		addr = b.mem[l.Address]
	}
	switch asserted & strobes {
	case l.Bits.Write:
		value := b.mem[l.DataOut]
		b.transfers = append(b.transfers, Transfer{Write: true, Addr: addr, Value: value})
		b.write(addr, value)
	case l.Bits.Read:
		value := b.read(addr)
		b.mem[l.DataIn] = value
		b.transfers = append(b.transfers, Transfer{Addr: addr, Value: value})
	default:
		b.violations = append(b.violations,
			fmt.Sprintf("chip-select asserted without a single strobe (control %#02x)", v))
	}
}

func (b *Board) write(addr, value byte) {
	p := &b.Peripherals
	switch addr {
	case p.KeypadWrite:
		b.keypad.selectColumn(value &^ p.BuzzerBit)
		b.setBuzzer(value&p.BuzzerBit != 0)
	case p.LED:
		b.led = value
	case p.LCDInst:
		b.lcd.instruction(value)
	case p.LCDData:
		b.lcd.data(value)
	default:
		b.regs[addr] = value
	}
}

func (b *Board) read(addr byte) byte {
	p := &b.Peripherals
	switch addr {
	case p.KeypadRead:
		return b.keypad.rowBits()
	case p.LCDStatus:
		return b.lcd.status()
	}
	return b.regs[addr]
}

func (b *Board) setBuzzer(on bool) {
	if on == b.buzzing {
		return
	}
	b.buzzing = on
	now := b.time.Now()
	if on {
		b.pulses = append(b.pulses, Pulse{Start: now})
	} else if n := len(b.pulses); n > 0 {
		b.pulses[n-1].End = now
	}
}

// Powered reports whether the card is powered.
func (b *Board) Powered() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.powered
}

// LED returns the LED register.
func (b *Board) LED() byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.led
}

// Buzzing reports whether the buzzer is on.
func (b *Board) Buzzing() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buzzing
}

// Pulses returns the buzzer activations so far.
func (b *Board) Pulses() []Pulse {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Pulse(nil), b.pulses...)
}

// Transfers returns all transfers so far.
func (b *Board) Transfers() []Transfer {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Transfer(nil), b.transfers...)
}

// Violations returns the strobe ordering violations observed.
func (b *Board) Violations() []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]string(nil), b.violations...)
}

// Reset clears the transfer log, buzzer pulses and violations.
func (b *Board) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.transfers, b.pulses, b.violations = nil, nil, nil
}

// Line returns the visible text on a display row, or "" for a row
// the display does not have.
func (b *Board) Line(row int) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lcd.line(row)
}

// DisplayOn reports whether the display has been switched on.
func (b *Board) DisplayOn() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lcd.on
}

// Press queues key presses by matrix position. Each press is held for
// Hold column sweeps.
func (b *Board) Press(pos ...Position) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.keypad.queue = append(b.keypad.queue, pos...)
}

// Pending returns the number of queued presses not yet started.
func (b *Board) Pending() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.keypad.queue)
}

// SetHold sets how many column sweeps each press lasts.
func (b *Board) SetHold(sweeps int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.keypad.hold = sweeps
}
