// Package keypad scans the key matrix on the terminal card.
package keypad

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/bus"
)

// DefaultDebounce is the delay between the two samples of ScanDebounced.
const DefaultDebounce = time.Millisecond

// Driver scans a key matrix through a bus.
type Driver struct {
	Map      Map
	Debounce time.Duration

	bus       *bus.Bus
	readAddr  byte
	writeAddr byte
}

// New creates a Driver.
func New(b *bus.Bus, m Map, p bus.PeripheralMap) (*Driver, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("keypad: no bus")
	}
	return &Driver{
		Map:       m,
		Debounce:  DefaultDebounce,
		bus:       b,
		readAddr:  p.KeypadRead,
		writeAddr: p.KeypadWrite,
	}, nil
}

// ScanOnce selects each column from left to right and returns the
// first pressed key found scanning rows top to bottom.
func (d *Driver) ScanOnce() Key {
	for c, mask := range d.Map.Columns {
		d.bus.WriteReg(d.writeAddr, mask)
		rows := d.bus.ReadReg(d.readAddr)
		for r, rowMask := range d.Map.Rows {
			if rows&rowMask != 0 {
				continue
			}
			if k := d.Map.At(r, c); k != Blank {
				return k
			}
		}
	}
	return Blank
}

// ScanDebounced samples twice, Debounce apart, and returns the key only
// when both samples agree.
func (d *Driver) ScanDebounced() Key {
	first := d.ScanOnce()
	d.bus.Clock().Sleep(d.Debounce)
	second := d.ScanOnce()
	if first != second {
		if glog.V(3) {
			glog.Infof("keypad: bounce %s/%s", first, second)
		}
		return Blank
	}
	return first
}
