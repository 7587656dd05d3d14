package main

import (
	"bufio"
	"flag"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/bus/sim"
	"github.com/robotalks/gate.go/pkg/config"
	fx "github.com/robotalks/gate.go/pkg/framework"
	"github.com/robotalks/gate.go/pkg/keypad"
)

var (
	busRevision = bus.DefaultRevision
	profilePath string
)

func setupHardwareFlags() {
	flag.StringVar(&busRevision, "bus-rev", busRevision, "Bus revision (gate, apo-pci), ignored with -profile.")
	flag.StringVar(&profilePath, "profile", profilePath, "YAML hardware profile.")
}

type hardware struct {
	Layout        bus.Layout
	Peripherals   bus.PeripheralMap
	Keymap        keypad.Map
	Debounce      time.Duration
	BusyPolls     int
	DisplaySettle time.Duration
}

// loadHardware resolves the hardware from the profile, or from flags
// when no profile is given.
func loadHardware() (*hardware, error) {
	kconf := keypad.NewConfig()
	p := &config.Profile{Revision: busRevision, Keymap: kconf.Map}
	if profilePath != "" {
		var err error
		if p, err = config.Load(profilePath); err != nil {
			return nil, err
		}
	}
	return resolveHardware(p, kconf.Debounce)
}

func resolveHardware(p *config.Profile, debounce time.Duration) (*hardware, error) {
	hw := &hardware{Peripherals: p.PeripheralMap(), Debounce: debounce, BusyPolls: p.Display.BusyPolls}
	var err error
	if hw.Layout, err = p.BusLayout(); err != nil {
		return nil, err
	}
	if err = hw.Layout.Validate(hw.windowSize()); err != nil {
		return nil, err
	}
	if hw.Keymap, err = p.KeypadMap(); err != nil {
		return nil, err
	}
	if d := p.Keypad.Debounce; d != nil {
		hw.Debounce = *d
	}
	if d := p.Display.Settle; d != nil {
		hw.DisplaySettle = *d
	}
	return hw, nil
}

// windowSize is the number of bytes to map for the layout.
func (hw *hardware) windowSize() int {
	if hw.Layout.WindowSize > 0 {
		return hw.Layout.WindowSize
	}
	return bus.DefaultWindowSize
}

func (hw *hardware) newBoard() *sim.Board {
	return sim.NewBoard(hw.Layout, hw.Peripherals, hw.Keymap.Columns, hw.Keymap.Rows, fx.SystemClock)
}

// feedKeys presses the keys typed on r: digits, e(nter), c(ancel) and
// (e)x(it); other characters are ignored.
func feedKeys(r io.Reader, board *sim.Board, m keypad.Map) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		for _, pos := range keyPositions(s.Text(), m) {
			board.Press(pos)
		}
	}
}

func keyPositions(text string, m keypad.Map) []sim.Position {
	var positions []sim.Position
	for _, ch := range []byte(text) {
		row, col, ok := m.Locate(keypad.Key(ch))
		if !ok || keypad.Key(ch) == keypad.Blank {
			glog.V(2).Infof("sim: no key %q", ch)
			continue
		}
		positions = append(positions, sim.Position{Row: row, Col: col})
	}
	return positions
}
