package bus

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/gate.go/pkg/framework"
)

// Bus is the single owner of a register Window. All peripheral
// drivers access the card through one Bus.
//
// Bus is not safe for concurrent use; a register transfer must never
// interleave with another one.
type Bus struct {
	layout Layout
	window Window
	clock  fx.Clock
}

// New creates a Bus after validating layout against the window.
func New(w Window, layout Layout, clock fx.Clock) (*Bus, error) {
	if w == nil {
		return nil, fmt.Errorf("bus: no register window")
	}
	if err := layout.Validate(w.Len()); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = fx.SystemClock
	}
	return &Bus{layout: layout, window: w, clock: clock}, nil
}

// Layout returns the layout in use.
func (b *Bus) Layout() Layout {
	return b.layout
}

// Clock returns the clock used for bus delays.
func (b *Bus) Clock() fx.Clock {
	return b.clock
}

// PowerOn writes the idle Control value which powers the card.
func (b *Bus) PowerOn() {
	glog.V(2).Infof("bus %s: power on", b.layout.Name)
	b.window.Store(b.layout.Control, b.layout.Idle)
}

// PowerOff removes power from the card.
func (b *Bus) PowerOff() {
	glog.V(2).Infof("bus %s: power off", b.layout.Name)
	b.window.Store(b.layout.Control, b.layout.Off)
}

// WriteReg writes value to the peripheral register at addr.
func (b *Bus) WriteReg(addr, value byte) {
	l := &b.layout
	if !l.PackedAddress {
		b.window.Store(l.Address, addr)
	}
	b.window.Store(l.DataOut, value)
	b.window.Store(l.Control, l.controlValue(l.Bits.Write, addr))
	b.window.Store(l.Control, l.controlValue(l.Bits.Write|l.Bits.ChipSelect, addr))
	b.clock.Sleep(l.WriteSettle)
	// chip-select goes first, releasing the strobe while selected
	// corrupts the latch on some cards.
	b.window.Store(l.Control, l.controlValue(l.Bits.Write, addr))
	b.window.Store(l.Control, l.controlValue(0, addr))
	if glog.V(4) {
		glog.Infof("bus W %#02x <- %#02x", addr, value)
	}
}

// ReadReg reads the peripheral register at addr.
func (b *Bus) ReadReg(addr byte) byte {
	l := &b.layout
	if !l.PackedAddress {
		b.window.Store(l.Address, addr)
	}
	b.window.Store(l.Control, l.controlValue(l.Bits.Read, addr))
	b.window.Store(l.Control, l.controlValue(l.Bits.Read|l.Bits.ChipSelect, addr))
	b.clock.Sleep(l.ReadSettle)
	value := b.window.Load(l.DataIn)
	b.window.Store(l.Control, l.controlValue(l.Bits.Read, addr))
	b.window.Store(l.Control, l.controlValue(0, addr))
	if glog.V(4) {
		glog.Infof("bus R %#02x -> %#02x", addr, value)
	}
	return value
}
