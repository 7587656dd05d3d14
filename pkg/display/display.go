// Package display drives the two-line HD44780 character display.
package display

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/bus"
)

// Geometry
const (
	Rows    = 2
	Columns = 16
)

// Controller instructions.
const (
	CmdMode     byte = 0x38
	CmdClear    byte = 0x01
	CmdOn       byte = 0x0c
	CmdPosition byte = 0x80

	StatusBusy byte = 0x80
	rowOffset  byte = 0x40
)

// DefaultSettle is the delay after Init and Clear instructions.
const DefaultSettle = 10 * time.Millisecond

// ErrOutOfRange is returned for a row or column outside the display.
var ErrOutOfRange = errors.New("position out of range")

// Driver writes to the display through a bus.
type Driver struct {
	Settle time.Duration
	// BusyPolls bounds how many times the busy flag is polled before
	// each instruction; zero disables polling.
	BusyPolls int

	bus    *bus.Bus
	status byte
	inst   byte
	data   byte
}

// New creates a Driver.
func New(b *bus.Bus, p bus.PeripheralMap) *Driver {
	return &Driver{
		Settle: DefaultSettle,
		bus:    b,
		status: p.LCDStatus,
		inst:   p.LCDInst,
		data:   p.LCDData,
	}
}

func (d *Driver) waitReady() {
	for i := 0; i < d.BusyPolls; i++ {
		if d.bus.ReadReg(d.status)&StatusBusy == 0 {
			return
		}
	}
	if d.BusyPolls > 0 {
		glog.Warningf("display: still busy after %d polls", d.BusyPolls)
	}
}

func (d *Driver) instruction(cmd byte) {
	d.waitReady()
	d.bus.WriteReg(d.inst, cmd)
}

func (d *Driver) settled(cmd byte) {
	d.instruction(cmd)
	d.bus.Clock().Sleep(d.Settle)
}

// Init sets the display mode, clears it and switches it on.
func (d *Driver) Init() {
	d.settled(CmdMode)
	d.settled(CmdClear)
	d.settled(CmdOn)
}

// Clear blanks both rows.
func (d *Driver) Clear() {
	d.settled(CmdClear)
}

// WriteChar places ch at row, col.
func (d *Driver) WriteChar(row, col int, ch byte) error {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return fmt.Errorf("display: row %d col %d: %w", row, col, ErrOutOfRange)
	}
	pos := byte(col)
	if row == 1 {
		pos += rowOffset
	}
	d.instruction(CmdPosition | pos)
	d.waitReady()
	d.bus.WriteReg(d.data, ch)
	return nil
}

// WriteText writes text starting at row, col, stopping at the end of
// the row.
func (d *Driver) WriteText(row, col int, text string) error {
	for i := 0; i < len(text); i++ {
		if col+i >= Columns {
			break
		}
		if err := d.WriteChar(row, col+i, text[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteLine fills a whole row: text is truncated to the row width and
// padded with spaces.
func (d *Driver) WriteLine(row int, text string) error {
	var cells [Columns]byte
	for i := range cells {
		if i < len(text) {
			cells[i] = text[i]
		} else {
			cells[i] = ' '
		}
	}
	for col, ch := range cells {
		if err := d.WriteChar(row, col, ch); err != nil {
			return err
		}
	}
	return nil
}
