package bus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/bus/sim"
	fx "github.com/robotalks/gate.go/pkg/framework"
)

var testColumns = []byte{0x0b, 0x0d, 0x0e}
var testRows = []byte{0x01, 0x02, 0x04, 0x08}

func newTestBus(t *testing.T, rev string) (*bus.Bus, *sim.Board, *fx.ManualClock) {
	layout, err := bus.Revision(rev)
	require.NoError(t, err)
	clock := fx.NewManualClock(time.Unix(0, 0))
	board := sim.NewBoard(layout, bus.DefaultPeripherals, testColumns, testRows, clock)
	b, err := bus.New(board, layout, clock)
	require.NoError(t, err)
	b.PowerOn()
	return b, board, clock
}

func TestRoundTrip(t *testing.T) {
	for _, rev := range bus.RevisionNames() {
		t.Run(rev, func(t *testing.T) {
			b, board, _ := newTestBus(t, rev)
			for addr := byte(0x08); addr < 0x0f; addr++ {
				for _, v := range []byte{0x00, 0x5a, 0xa5, 0xff, addr} {
					b.WriteReg(addr, v)
					require.Equalf(t, v, b.ReadReg(addr), "addr %#x", addr)
				}
			}
			require.Empty(t, board.Violations())
		})
	}
}

func TestStrobeTiming(t *testing.T) {
	b, board, clock := newTestBus(t, bus.DefaultRevision)
	var sleeps []time.Duration
	clock.OnSleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	b.WriteReg(0x09, 0x42)
	b.ReadReg(0x09)

	require.Equal(t, []time.Duration{bus.DefaultWriteSettle, bus.DefaultReadSettle}, sleeps)
	require.Equal(t, []sim.Transfer{
		{Write: true, Addr: 0x09, Value: 0x42},
		{Addr: 0x09, Value: 0x42},
	}, board.Transfers())
	require.Empty(t, board.Violations())
}

type recordingWindow struct {
	bus.MemWindow
	control int
	values  []byte
}

func (w *recordingWindow) Store(off int, v byte) {
	if off == w.control {
		w.values = append(w.values, v)
	}
	w.MemWindow.Store(off, v)
}

func TestControlSequence(t *testing.T) {
	testCases := []struct {
		rev   string
		write []byte
		read  []byte
	}{
		{
			rev:   "gate",
			write: []byte{0xfd, 0xbd, 0xfd, 0xff},
			read:  []byte{0xfe, 0xbe, 0xfe, 0xff},
		},
		{
			rev:   "apo-pci",
			write: []byte{0xe3, 0xa3, 0xe3, 0xf3},
			read:  []byte{0xd3, 0x93, 0xd3, 0xf3},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.rev, func(t *testing.T) {
			layout, err := bus.Revision(tc.rev)
			require.NoError(t, err)
			w := &recordingWindow{MemWindow: make(bus.MemWindow, layout.WindowSize), control: layout.Control}
			b, err := bus.New(w, layout, fx.NewManualClock(time.Unix(0, 0)))
			require.NoError(t, err)

			b.WriteReg(0x03, 0x7e)
			require.Equal(t, tc.write, w.values)
			require.Equal(t, byte(0x7e), w.Load(layout.DataOut))
			if !layout.PackedAddress {
				require.Equal(t, byte(0x03), w.Load(layout.Address))
			}

			w.values = nil
			b.ReadReg(0x03)
			require.Equal(t, tc.read, w.values)
		})
	}
}

func TestPower(t *testing.T) {
	b, board, _ := newTestBus(t, bus.DefaultRevision)
	require.True(t, board.Powered())
	b.PowerOff()
	require.False(t, board.Powered())
}

func TestLayoutValidate(t *testing.T) {
	base := bus.Revisions[bus.DefaultRevision]
	testCases := []struct {
		name   string
		modify func(*bus.Layout)
		size   int
	}{
		{"offset outside window", func(l *bus.Layout) {}, 0x8000},
		{"shared offset", func(l *bus.Layout) { l.DataIn = l.DataOut }, 0},
		{"missing bit", func(l *bus.Layout) { l.Bits.Read = 0 }, 0},
		{"overlapping bits", func(l *bus.Layout) { l.Bits.Read = l.Bits.Write }, 0},
		{"power overlaps", func(l *bus.Layout) { l.Bits.Power = l.Bits.ChipSelect }, 0},
		{"idle unpowered", func(l *bus.Layout) { l.Idle = 0x7f }, 0},
		{"idle asserts", func(l *bus.Layout) { l.Idle = 0xfe }, 0},
		{"active-high idle asserts", func(l *bus.Layout) { l.Polarity = bus.ActiveHigh }, 0},
		{"read settle too short", func(l *bus.Layout) { l.ReadSettle = l.WriteSettle }, 0},
		{"packed mask overlaps", func(l *bus.Layout) {
			l.PackedAddress, l.AddressMask = true, 0x03
		}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := base
			tc.modify(&l)
			size := tc.size
			if size == 0 {
				size = bus.DefaultWindowSize
			}
			require.Error(t, l.Validate(size))
			_, err := bus.New(make(bus.MemWindow, size), l, nil)
			require.Error(t, err)
		})
	}
	for _, name := range bus.RevisionNames() {
		l := bus.Revisions[name]
		require.NoError(t, l.Validate(bus.DefaultWindowSize), name)
	}
}

func TestPolarity(t *testing.T) {
	for _, p := range []bus.Polarity{bus.ActiveLow, bus.ActiveHigh} {
		parsed, err := bus.ParsePolarity(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
	_, err := bus.ParsePolarity("sideways")
	require.Error(t, err)

	_, err = bus.Revision("nope")
	require.Error(t, err)
}

func TestActiveHigh(t *testing.T) {
	layout := bus.Revisions[bus.DefaultRevision]
	layout.Name = "active-high"
	layout.Polarity = bus.ActiveHigh
	layout.Idle = 0x80
	clock := fx.NewManualClock(time.Unix(0, 0))
	board := sim.NewBoard(layout, bus.DefaultPeripherals, testColumns, testRows, clock)
	b, err := bus.New(board, layout, clock)
	require.NoError(t, err)
	b.PowerOn()
	b.WriteReg(0x0a, 0x33)
	require.Equal(t, byte(0x33), b.ReadReg(0x0a))
	require.Empty(t, board.Violations())
}
