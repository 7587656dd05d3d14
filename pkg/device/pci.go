package device

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// DefaultProcRoot is where the kernel exposes PCI configuration space.
const DefaultProcRoot = "/proc/bus/pci"

// barOffset is the offset of BAR0 in configuration space.
const barOffset = 0x10

// barFlags are the low flag bits of a memory BAR.
const barFlags = 0x0f

// Find walks root/<bus>/<function> and returns the path of the first
// configuration file starting with id.
func Find(root string, id ID) (string, error) {
	buses, err := os.ReadDir(root)
	if err != nil {
		return "", &AccessError{Path: root, Err: err}
	}
	for _, b := range buses {
		if !b.IsDir() {
			continue
		}
		dir := filepath.Join(root, b.Name())
		funcs, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range funcs {
			if f.IsDir() {
				continue
			}
			path := filepath.Join(dir, f.Name())
			if got, err := readID(path); err == nil && got == id {
				return path, nil
			}
		}
	}
	return "", ErrNotFound
}

func readID(path string) (ID, error) {
	f, err := os.Open(path)
	if err != nil {
		return ID{}, err
	}
	defer f.Close()
	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return ID{}, err
	}
	return ID{
		Vendor: binary.LittleEndian.Uint16(buf[0:]),
		Device: binary.LittleEndian.Uint16(buf[2:]),
	}, nil
}

// ReadBase reads BAR0 from the configuration file at path, without
// the flag bits.
func ReadBase(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &AccessError{Path: path, Err: err}
	}
	defer f.Close()
	var buf [4]byte
	if _, err := f.ReadAt(buf[:], barOffset); err != nil {
		return 0, &AccessError{Path: path, Err: err}
	}
	return binary.LittleEndian.Uint32(buf[:]) &^ barFlags, nil
}

// Enable writes the enable toggle of a PCI function, e.g.
// /sys/bus/pci/devices/0000:03:00.0/enable.
func Enable(path string, on bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &AccessError{Path: path, Err: err}
	}
	v := []byte{'0'}
	if on {
		v[0] = '1'
	}
	_, err = f.Write(v)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &AccessError{Path: path, Err: err}
	}
	return nil
}
