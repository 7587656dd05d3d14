package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/alert"
	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/device"
	"github.com/robotalks/gate.go/pkg/display"
	"github.com/robotalks/gate.go/pkg/env"
	"github.com/robotalks/gate.go/pkg/events/mqtt"
	fx "github.com/robotalks/gate.go/pkg/framework"
	"github.com/robotalks/gate.go/pkg/keypad"
	"github.com/robotalks/gate.go/pkg/terminal"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitMapping = 2
)

var (
	simMode bool
	offline bool
)

func init() {
	setupHardwareFlags()
	flag.BoolVar(&simMode, "sim", simMode, "Run on a simulated card, keys are read from stdin.")
	flag.BoolVar(&offline, "offline", offline, "Run without an authorization server, denying every attempt.")
	access.SetupFlags()
	device.SetupFlags()
	env.SetupFlags()
	keypad.SetupFlags()
	terminal.SetupFlags()
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] GATE_ID\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func exitCode(err error) int {
	var mapErr *device.MapError
	if errors.As(err, &mapErr) {
		return exitMapping
	}
	return exitFailure
}

func parseGate(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("exactly one GATE_ID expected")
	}
	gate, err := strconv.Atoi(args[0])
	if err != nil || gate < 0 {
		return 0, fmt.Errorf("invalid GATE_ID %q", args[0])
	}
	return gate, nil
}

func main() {
	flag.Parse()

	gate, err := parseGate(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(exitFailure)
	}
	code := run(gate)
	glog.Flush()
	os.Exit(code)
}

func run(gate int) int {
	hw, err := loadHardware()
	if err != nil {
		glog.Errorf("hardware profile: %v", err)
		return exitFailure
	}

	var window bus.Window
	if simMode {
		board := hw.newBoard()
		go feedKeys(os.Stdin, board, hw.Keymap)
		window = board
	} else {
		dconf := device.NewConfig()
		dconf.Size = hw.windowSize()
		card, err := dconf.Open()
		if err != nil {
			glog.Errorf("open card: %v", err)
			return exitCode(err)
		}
		defer card.Close()
		window = card.Window
	}

	b, err := bus.New(window, hw.Layout, fx.SystemClock)
	if err != nil {
		glog.Errorf("bus: %v", err)
		return exitFailure
	}
	kp, err := keypad.New(b, hw.Keymap, hw.Peripherals)
	if err != nil {
		glog.Errorf("keypad: %v", err)
		return exitFailure
	}
	kp.Debounce = hw.Debounce
	disp := display.New(b, hw.Peripherals)
	disp.BusyPolls = hw.BusyPolls
	if hw.DisplaySettle > 0 {
		disp.Settle = hw.DisplaySettle
	}

	e, err := env.NewConfig().NewEnv(mqtt.Meta{Gate: gate, Revision: hw.Layout.Name, Keymap: hw.Keymap.Name})
	if err != nil {
		glog.Errorf("events: %v", err)
		return exitFailure
	}
	defer e.Close()

	term := terminal.NewConfig().NewTerminal(gate, b, kp, disp, alert.New(b, hw.Peripherals), fx.SystemClock)
	term.Console = os.Stdout
	term.Recorder = e
	if !offline {
		term.Auth = access.NewConfig().NewClient()
	}
	if p := e.Publisher; p != nil {
		term.OnState = func(s terminal.State) { p.PublishStatus(s.String()) }
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(e.Runnables()...)
	runner.Go(fx.NamedRun("terminal", fx.RunFunc(func(ctx context.Context) error {
		defer runner.Stop()
		return term.Run(ctx)
	})))
	if err := runner.Wait(); err != nil {
		glog.Errorf("terminal: %v", err)
		return exitFailure
	}
	return exitOK
}
