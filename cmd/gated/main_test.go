package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/bus/sim"
	"github.com/robotalks/gate.go/pkg/config"
	"github.com/robotalks/gate.go/pkg/device"
	"github.com/robotalks/gate.go/pkg/keypad"
)

func TestParseGate(t *testing.T) {
	testCases := []struct {
		args []string
		gate int
		fail bool
	}{
		{args: []string{"3"}, gate: 3},
		{args: nil, fail: true},
		{args: []string{"1", "2"}, fail: true},
		{args: []string{"north"}, fail: true},
		{args: []string{"-1"}, fail: true},
	}
	for _, tc := range testCases {
		gate, err := parseGate(tc.args)
		if tc.fail {
			require.Error(t, err, "%v", tc.args)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.gate, gate)
	}
}

func TestExitCode(t *testing.T) {
	require.Equal(t, exitMapping, exitCode(fmt.Errorf("open: %w", &device.MapError{})))
	require.Equal(t, exitFailure, exitCode(&device.AccessError{Path: "/dev/mem"}))
	require.Equal(t, exitFailure, exitCode(device.ErrNotFound))
}

func TestKeyPositions(t *testing.T) {
	m := keypad.Maps[keypad.DefaultMap]
	require.Equal(t, []sim.Position{{Row: 2, Col: 0}, {Row: 3, Col: 0}, {Row: 3, Col: 1}},
		keyPositions("1 e?x", m))
}

func TestResolveHardware(t *testing.T) {
	hw, err := resolveHardware(&config.Profile{Revision: "apo-pci", Keymap: "legacy"}, keypad.DefaultDebounce)
	require.NoError(t, err)
	require.True(t, hw.Layout.PackedAddress)
	require.Equal(t, "legacy", hw.Keymap.Name)
	require.Equal(t, keypad.DefaultDebounce, hw.Debounce)

	require.Equal(t, bus.DefaultWindowSize, hw.windowSize())

	_, err = resolveHardware(&config.Profile{Revision: "vax"}, 0)
	require.Error(t, err)
}

func TestHardwareWindowSize(t *testing.T) {
	size := 0x9000
	hw, err := resolveHardware(&config.Profile{Bus: config.BusConfig{WindowSize: &size}}, 0)
	require.NoError(t, err)
	require.Equal(t, 0x9000, hw.windowSize())
	require.Equal(t, 0x9000, hw.newBoard().Len())

	// the gate registers live above 0x8000
	small := 0x1000
	_, err = resolveHardware(&config.Profile{Bus: config.BusConfig{WindowSize: &small}}, 0)
	require.Error(t, err)
}
