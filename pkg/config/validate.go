package config

import (
	"fmt"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/keypad"
)

// Validate checks the profile can be resolved into a layout, a
// peripheral map and a keymap.
func (p *Profile) Validate() error {
	layout, err := p.BusLayout()
	if err != nil {
		return err
	}
	size := layout.WindowSize
	if size == 0 {
		size = bus.DefaultWindowSize
	}
	if err := layout.Validate(size); err != nil {
		return err
	}
	if _, err := p.KeypadMap(); err != nil {
		return err
	}
	if p.Display.BusyPolls < 0 {
		return fmt.Errorf("display.busy_polls must not be negative")
	}
	return nil
}

// BusLayout resolves the bus layout.
func (p *Profile) BusLayout() (bus.Layout, error) {
	rev := p.Revision
	if rev == "" {
		rev = bus.DefaultRevision
	}
	l, err := bus.Revision(rev)
	if err != nil {
		return l, err
	}
	b := &p.Bus
	setInt(&l.Control, b.Control)
	setInt(&l.Address, b.Address)
	setInt(&l.DataOut, b.DataOut)
	setInt(&l.DataIn, b.DataIn)
	setInt(&l.WindowSize, b.WindowSize)
	if b.PackedAddress != nil {
		l.PackedAddress = *b.PackedAddress
	}
	setByte(&l.AddressMask, b.AddressMask)
	setByte(&l.Bits.Power, b.Power)
	setByte(&l.Bits.ChipSelect, b.ChipSelect)
	setByte(&l.Bits.Read, b.Read)
	setByte(&l.Bits.Write, b.Write)
	setByte(&l.Idle, b.Idle)
	setByte(&l.Off, b.Off)
	if b.WriteSettle != nil {
		l.WriteSettle = *b.WriteSettle
	}
	if b.ReadSettle != nil {
		l.ReadSettle = *b.ReadSettle
	}
	if b.Polarity != "" {
		if l.Polarity, err = bus.ParsePolarity(b.Polarity); err != nil {
			return l, err
		}
	}
	if p.Revision != "" || p.Bus != (BusConfig{}) {
		l.Name = rev
	}
	return l, nil
}

// PeripheralMap resolves the peripheral map.
func (p *Profile) PeripheralMap() bus.PeripheralMap {
	m := bus.DefaultPeripherals
	c := &p.Peripherals
	setByte(&m.KeypadRead, c.KeypadRead)
	setByte(&m.KeypadWrite, c.KeypadWrite)
	setByte(&m.LED, c.LED)
	setByte(&m.LCDStatus, c.LCDStatus)
	setByte(&m.LCDInst, c.LCDInst)
	setByte(&m.LCDData, c.LCDData)
	setByte(&m.BuzzerBit, c.BuzzerBit)
	return m
}

// KeypadMap resolves the keypad map.
func (p *Profile) KeypadMap() (keypad.Map, error) {
	name := p.Keymap
	if name == "" {
		name = keypad.DefaultMap
	}
	m, err := keypad.Lookup(name)
	if err != nil {
		return m, err
	}
	c := &p.Keypad
	if len(c.Columns) > 0 {
		m.Columns = c.Columns
	}
	if len(c.Rows) > 0 {
		m.Rows = c.Rows
	}
	if len(c.Keys) > 0 {
		m.Name = "custom"
		m.Keys = make([][]keypad.Key, len(c.Keys))
		for r, row := range c.Keys {
			for _, ch := range []byte(row) {
				k, err := parseCell(ch)
				if err != nil {
					return m, fmt.Errorf("keypad.keys[%d]: %w", r, err)
				}
				m.Keys[r] = append(m.Keys[r], k)
			}
		}
	}
	return m, m.Validate()
}

func parseCell(ch byte) (keypad.Key, error) {
	if ch == '-' {
		return keypad.Blank, nil
	}
	return keypad.ParseKey(string(ch))
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setByte(dst *byte, v *uint8) {
	if v != nil {
		*dst = *v
	}
}
