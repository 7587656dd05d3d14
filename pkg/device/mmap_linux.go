//go:build linux
// +build linux

package device

import (
	"os"

	"golang.org/x/sys/unix"
)

type mapping struct {
	file *os.File
	data []byte
}

func mapPhysical(memPath string, base uint32, size int) (*mapping, error) {
	f, err := os.OpenFile(memPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, &AccessError{Path: memPath, Err: err}
	}
	data, err := unix.Mmap(int(f.Fd()), int64(base), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &MapError{Base: base, Size: size, Err: err}
	}
	return &mapping{file: f, data: data}, nil
}

func (m *mapping) Close() error {
	err := unix.Munmap(m.data)
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
