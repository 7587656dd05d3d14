//go:build !linux
// +build !linux

package device

import (
	"errors"
	"os"
)

type mapping struct {
	data []byte
}

func mapPhysical(memPath string, base uint32, size int) (*mapping, error) {
	f, err := os.OpenFile(memPath, os.O_RDWR, 0)
	if err != nil {
		return nil, &AccessError{Path: memPath, Err: err}
	}
	f.Close()
	return nil, &MapError{Base: base, Size: size, Err: errors.New("physical memory mapping requires linux")}
}

func (m *mapping) Close() error {
	return nil
}
