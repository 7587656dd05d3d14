package bus

import (
	"fmt"
	"sort"
	"time"
)

// Polarity of the strobe and chip-select lines in the Control register.
type Polarity uint8

// Polarities
const (
	// ActiveLow asserts a line by clearing its bit.
	ActiveLow Polarity = iota
	// ActiveHigh asserts a line by setting its bit.
	ActiveHigh
)

// String implements fmt.Stringer.
func (p Polarity) String() string {
	switch p {
	case ActiveLow:
		return "active-low"
	case ActiveHigh:
		return "active-high"
	}
	return fmt.Sprintf("polarity(%d)", uint8(p))
}

// ParsePolarity parses the String form of a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "active-low", "low":
		return ActiveLow, nil
	case "active-high", "high":
		return ActiveHigh, nil
	}
	return 0, fmt.Errorf("unknown polarity %q", s)
}

// ControlBits are the bit roles within the Control register.
type ControlBits struct {
	Power      byte
	ChipSelect byte
	Read       byte
	Write      byte
}

// Layout describes the register window of one hardware revision.
type Layout struct {
	Name string

	// Offsets relative to the window base.
	Control int
	Address int
	DataOut int
	DataIn  int

	// PackedAddress places the bus address into the low bits of
	// Control (masked by AddressMask); Address is unused then.
	PackedAddress bool
	AddressMask   byte

	Bits     ControlBits
	Polarity Polarity

	// Idle is the Control value with power on and nothing asserted.
	Idle byte
	// Off is the Control value which removes power from the card.
	Off byte

	WriteSettle time.Duration
	ReadSettle  time.Duration

	// WindowSize is the size of the mapping the layout expects.
	WindowSize int
}

// controlValue computes the Control register content with the given
// lines asserted and addr selected.
func (l *Layout) controlValue(asserted, addr byte) byte {
	var v byte
	if l.Polarity == ActiveLow {
		v = l.Idle &^ asserted
	} else {
		v = l.Idle | asserted
	}
	if l.PackedAddress {
		v = v&^l.AddressMask | addr&l.AddressMask
	}
	return v
}

// Validate checks the layout against a window of size bytes.
func (l *Layout) Validate(size int) error {
	offsets := []struct {
		name string
		off  int
	}{
		{"control", l.Control},
		{"data_out", l.DataOut},
		{"data_in", l.DataIn},
	}
	if !l.PackedAddress {
		offsets = append(offsets, struct {
			name string
			off  int
		}{"address", l.Address})
	}
	seen := make(map[int]string)
	for _, o := range offsets {
		if o.off < 0 || o.off >= size {
			return fmt.Errorf("layout %q: %s offset %#x outside window of %#x bytes", l.Name, o.name, o.off, size)
		}
		if prev, ok := seen[o.off]; ok {
			return fmt.Errorf("layout %q: %s and %s share offset %#x", l.Name, prev, o.name, o.off)
		}
		seen[o.off] = o.name
	}
	lines := []byte{l.Bits.ChipSelect, l.Bits.Read, l.Bits.Write}
	var all byte
	for _, b := range lines {
		if b == 0 {
			return fmt.Errorf("layout %q: control bit not assigned", l.Name)
		}
		if all&b != 0 {
			return fmt.Errorf("layout %q: control bits overlap", l.Name)
		}
		all |= b
	}
	if l.Bits.Power == 0 || all&l.Bits.Power != 0 {
		return fmt.Errorf("layout %q: invalid power bit %#x", l.Name, l.Bits.Power)
	}
	if l.PackedAddress && (l.AddressMask == 0 || l.AddressMask&(all|l.Bits.Power) != 0) {
		return fmt.Errorf("layout %q: address mask %#x overlaps control bits", l.Name, l.AddressMask)
	}
	if l.Idle&l.Bits.Power == 0 {
		return fmt.Errorf("layout %q: idle control %#x does not keep power on", l.Name, l.Idle)
	}
	if l.Polarity == ActiveLow && l.Idle&all != all {
		return fmt.Errorf("layout %q: active-low idle control %#x asserts a line", l.Name, l.Idle)
	}
	if l.Polarity == ActiveHigh && l.Idle&all != 0 {
		return fmt.Errorf("layout %q: active-high idle control %#x asserts a line", l.Name, l.Idle)
	}
	if l.WriteSettle <= 0 || l.ReadSettle < 10*l.WriteSettle {
		return fmt.Errorf("layout %q: read settle %v must be at least ten times write settle %v",
			l.Name, l.ReadSettle, l.WriteSettle)
	}
	return nil
}

// Default settle delays.
const (
	DefaultWriteSettle = time.Microsecond
	DefaultReadSettle  = 10 * time.Microsecond
)

// DefaultWindowSize is the size of the register window on all known revisions.
const DefaultWindowSize = 0x10000

// Revisions are the known hardware revisions.
//
// Both revisions observed so far use active-low strobes and chip-select
// with an active-high power bit.
var Revisions = map[string]Layout{
	// gate: dedicated Address-select register.
	"gate": {
		Name:        "gate",
		Control:     0x8080,
		Address:     0x8060,
		DataIn:      0x8040,
		DataOut:     0x8020,
		Bits:        ControlBits{Power: 0x80, ChipSelect: 0x40, Read: 0x01, Write: 0x02},
		Polarity:    ActiveLow,
		Idle:        0xff,
		Off:         0x00,
		WriteSettle: DefaultWriteSettle,
		ReadSettle:  DefaultReadSettle,
		WindowSize:  DefaultWindowSize,
	},
	// apo-pci: bus address packed into the low nibble of Control.
	"apo-pci": {
		Name:          "apo-pci",
		Control:       0x8020,
		DataOut:       0x8040,
		DataIn:        0x8060,
		PackedAddress: true,
		AddressMask:   0x0f,
		Bits:          ControlBits{Power: 0x80, ChipSelect: 0x40, Read: 0x20, Write: 0x10},
		Polarity:      ActiveLow,
		Idle:          0xf0,
		Off:           0x00,
		WriteSettle:   DefaultWriteSettle,
		ReadSettle:    DefaultReadSettle,
		WindowSize:    DefaultWindowSize,
	},
}

// DefaultRevision is the revision used when none is selected.
const DefaultRevision = "gate"

// Revision looks up a known revision by name.
func Revision(name string) (Layout, error) {
	l, ok := Revisions[name]
	if !ok {
		return Layout{}, fmt.Errorf("unknown bus revision %q (known: %v)", name, RevisionNames())
	}
	return l, nil
}

// RevisionNames lists known revisions in sorted order.
func RevisionNames() []string {
	names := make([]string, 0, len(Revisions))
	for name := range Revisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PeripheralMap assigns bus addresses to the peripherals on the card.
type PeripheralMap struct {
	KeypadRead  byte
	KeypadWrite byte
	LED         byte
	LCDStatus   byte
	LCDInst     byte
	LCDData     byte
	// BuzzerBit is the bit on KeypadWrite which drives the piezo.
	BuzzerBit byte
}

// DefaultPeripherals is the peripheral map of the gate card.
var DefaultPeripherals = PeripheralMap{
	KeypadRead:  0x00,
	LED:         0x01,
	KeypadWrite: 0x03,
	LCDStatus:   0x04,
	LCDInst:     0x06,
	LCDData:     0x07,
	BuzzerBit:   0x80,
}
