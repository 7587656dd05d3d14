// Package device locates the terminal card on the PCI bus and maps its
// register window.
package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ID is a PCI vendor/device pair.
type ID struct {
	Vendor uint16
	Device uint16
}

// DefaultID is the id of the terminal card.
var DefaultID = ID{Vendor: 0x1172, Device: 0x1f32}

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Device)
}

// Set implements flag.Value.
func (id *ID) Set(s string) error {
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID parses the vendor:device form.
func ParseID(s string) (ID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ID{}, fmt.Errorf("invalid PCI id %q, want vendor:device", s)
	}
	vendor, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return ID{}, fmt.Errorf("invalid PCI vendor %q: %w", parts[0], err)
	}
	dev, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return ID{}, fmt.Errorf("invalid PCI device %q: %w", parts[1], err)
	}
	return ID{Vendor: uint16(vendor), Device: uint16(dev)}, nil
}

// ErrNotFound is returned when no PCI function matches the id.
var ErrNotFound = errors.New("device not found")

// AccessError reports a device file which could not be opened or written.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// MapError reports a failed mapping of physical memory.
type MapError struct {
	Base uint32
	Size int
	Err  error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("map %#x bytes at %#08x: %v", e.Size, e.Base, e.Err)
}

func (e *MapError) Unwrap() error {
	return e.Err
}
