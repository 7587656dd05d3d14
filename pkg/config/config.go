// Package config loads hardware profiles.
//
// A profile starts from a named bus revision and keymap and overrides
// individual fields:
//
//	revision: apo-pci
//	bus:
//	  polarity: active-low
//	  read_settle: 20us
//	peripherals:
//	  led: 0x02
//	keymap: legacy
//	display:
//	  busy_polls: 8
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML form of a hardware profile. Nil fields keep the
// value of the base revision.
type Profile struct {
	Revision    string           `yaml:"revision"`
	Bus         BusConfig        `yaml:"bus"`
	Peripherals PeripheralConfig `yaml:"peripherals"`
	Keymap      string           `yaml:"keymap"`
	Keypad      KeypadConfig     `yaml:"keypad"`
	Display     DisplayConfig    `yaml:"display"`
}

// ---- BUS ----

type BusConfig struct {
	Control       *int           `yaml:"control"`
	Address       *int           `yaml:"address"`
	DataOut       *int           `yaml:"data_out"`
	DataIn        *int           `yaml:"data_in"`
	PackedAddress *bool          `yaml:"packed_address"`
	AddressMask   *uint8         `yaml:"address_mask"`
	Power         *uint8         `yaml:"power_bit"`
	ChipSelect    *uint8         `yaml:"cs_bit"`
	Read          *uint8         `yaml:"read_bit"`
	Write         *uint8         `yaml:"write_bit"`
	Polarity      string         `yaml:"polarity"`
	Idle          *uint8         `yaml:"idle"`
	Off           *uint8         `yaml:"off"`
	WriteSettle   *time.Duration `yaml:"write_settle"`
	ReadSettle    *time.Duration `yaml:"read_settle"`
	WindowSize    *int           `yaml:"window_size"`
}

// ---- PERIPHERALS ----

type PeripheralConfig struct {
	KeypadRead  *uint8 `yaml:"keypad_read"`
	KeypadWrite *uint8 `yaml:"keypad_write"`
	LED         *uint8 `yaml:"led"`
	LCDStatus   *uint8 `yaml:"lcd_status"`
	LCDInst     *uint8 `yaml:"lcd_inst"`
	LCDData     *uint8 `yaml:"lcd_data"`
	BuzzerBit   *uint8 `yaml:"buzzer_bit"`
}

// ---- KEYPAD ----

// KeypadConfig may replace the keymap table. Each entry of Keys is
// one row; '-' marks an unpopulated cell, e/c/x are Enter, Cancel
// and Exit.
type KeypadConfig struct {
	Columns  []uint8        `yaml:"columns"`
	Rows     []uint8        `yaml:"rows"`
	Keys     []string       `yaml:"keys"`
	Debounce *time.Duration `yaml:"debounce"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	BusyPolls int            `yaml:"busy_polls"`
	Settle    *time.Duration `yaml:"settle"`
}

// Parse decodes a profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and decodes the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
