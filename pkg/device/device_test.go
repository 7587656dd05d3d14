package device

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigSpace(t *testing.T, path string, id ID, bar uint32) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint16(buf[0:], id.Vendor)
	binary.LittleEndian.PutUint16(buf[2:], id.Device)
	binary.LittleEndian.PutUint32(buf[barOffset:], bar)
	require.NoError(t, os.WriteFile(path, buf, 0644))
}

func newProcTree(t *testing.T) string {
	root, err := os.MkdirTemp("", "gate-pci")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })
	writeConfigSpace(t, filepath.Join(root, "00", "00.0"), ID{Vendor: 0x8086, Device: 0x1234}, 0xfe000000)
	writeConfigSpace(t, filepath.Join(root, "03", "00.0"), DefaultID, 0xfe8f0008)
	require.NoError(t, os.WriteFile(filepath.Join(root, "devices"), []byte("junk"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "00", "short"), []byte{0x72}, 0644))
	return root
}

func TestFind(t *testing.T) {
	root := newProcTree(t)
	path, err := Find(root, DefaultID)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "03", "00.0"), path)

	base, err := ReadBase(path)
	require.NoError(t, err)
	require.Equal(t, uint32(0xfe8f0000), base)

	_, err = Find(root, ID{Vendor: 1, Device: 2})
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = Find(filepath.Join(root, "nope"), DefaultID)
	var accessErr *AccessError
	require.True(t, errors.As(err, &accessErr))
}

func TestEnable(t *testing.T) {
	root := newProcTree(t)
	path := filepath.Join(root, "enable")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.NoError(t, Enable(path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1", string(data))

	require.NoError(t, Enable(path, false))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "0", string(data))

	err = Enable(filepath.Join(root, "missing", "enable"), true)
	var accessErr *AccessError
	require.True(t, errors.As(err, &accessErr))
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		in     string
		expect ID
		fail   bool
	}{
		{in: "1172:1f32", expect: DefaultID},
		{in: "8086:0001", expect: ID{Vendor: 0x8086, Device: 1}},
		{in: "1172", fail: true},
		{in: "xyz:1f32", fail: true},
		{in: "1172:12345", fail: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			id, err := ParseID(tc.in)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, id)
			require.Equal(t, tc.in, id.String())
		})
	}
}

func TestOpenErrors(t *testing.T) {
	root := newProcTree(t)
	conf := NewConfig()
	conf.ProcRoot = root
	conf.Mem = filepath.Join(root, "no-mem")

	_, err := conf.Open()
	var accessErr *AccessError
	require.True(t, errors.As(err, &accessErr), "got %v", err)
	require.Equal(t, conf.Mem, accessErr.Path)

	conf.ID = ID{Vendor: 1, Device: 1}
	_, err = conf.Open()
	require.True(t, errors.Is(err, ErrNotFound))
}
