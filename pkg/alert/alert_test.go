package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/bus/sim"
	fx "github.com/robotalks/gate.go/pkg/framework"
)

func newTestController(t *testing.T) (*Controller, *sim.Board) {
	layout := bus.Revisions[bus.DefaultRevision]
	clock := fx.NewManualClock(time.Unix(0, 0))
	board := sim.NewBoard(layout, bus.DefaultPeripherals, nil, nil, clock)
	b, err := bus.New(board, layout, clock)
	require.NoError(t, err)
	b.PowerOn()
	return New(b, bus.DefaultPeripherals), board
}

func durations(pulses []sim.Pulse) []time.Duration {
	var ds []time.Duration
	for _, p := range pulses {
		// the release transfer adds its own settle time
		ds = append(ds, p.Duration().Truncate(time.Millisecond))
	}
	return ds
}

func TestLED(t *testing.T) {
	c, board := newTestController(t)
	c.LEDOn(0x15)
	require.Equal(t, byte(0x15), board.LED())
	c.LEDOff()
	require.Equal(t, byte(0), board.LED())
	c.Pulse(LEDAll, time.Second)
	require.Equal(t, byte(0), board.LED())
}

func TestSignals(t *testing.T) {
	testCases := []struct {
		name   string
		signal func(*Controller)
		expect []time.Duration
	}{
		{"granted", (*Controller).SignalGranted, []time.Duration{GrantedBuzz}},
		{"denied", (*Controller).SignalDenied, []time.Duration{DeniedBuzz, DeniedBuzz, DeniedBuzz}},
		{"buzz", func(c *Controller) { c.Buzz(42 * time.Millisecond) }, []time.Duration{42 * time.Millisecond}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, board := newTestController(t)
			c.PiezoOff()
			tc.signal(c)
			require.False(t, board.Buzzing())
			require.Equal(t, tc.expect, durations(board.Pulses()))
		})
	}
}

func TestDeniedPauses(t *testing.T) {
	c, board := newTestController(t)
	c.SignalDenied()
	pulses := board.Pulses()
	require.Len(t, pulses, DeniedCount)
	for i := 1; i < len(pulses); i++ {
		gap := pulses[i].Start.Sub(pulses[i-1].End)
		require.True(t, gap >= DeniedPause, "gap %v", gap)
	}
}
