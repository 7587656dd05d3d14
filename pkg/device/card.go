package device

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/bus"
)

// Config defines how the card is found and mapped.
type Config struct {
	ProcRoot string
	Mem      string
	ID       ID
	// Enable is the optional PCI enable toggle file.
	Enable string
	Size   int
}

var defaultConfig = Config{
	ProcRoot: DefaultProcRoot,
	Mem:      "/dev/mem",
	ID:       DefaultID,
	Size:     bus.DefaultWindowSize,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ProcRoot, "pci-root", defaultConfig.ProcRoot, "PCI configuration space directory.")
	flag.StringVar(&defaultConfig.Mem, "mem", defaultConfig.Mem, "Physical memory device.")
	flag.Var(&defaultConfig.ID, "pci-id", "PCI vendor:device of the card.")
	flag.StringVar(&defaultConfig.Enable, "enable", defaultConfig.Enable, "PCI enable toggle, switched on at start and off at exit.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Card is the mapped register window of the card.
type Card struct {
	Path   string
	Base   uint32
	Window bus.MemWindow

	mapping *mapping
	enable  string
}

// Open finds, maps and enables the card.
func (c *Config) Open() (*Card, error) {
	path, err := Find(c.ProcRoot, c.ID)
	if err != nil {
		return nil, fmt.Errorf("find PCI %s: %w", c.ID, err)
	}
	base, err := ReadBase(path)
	if err != nil {
		return nil, err
	}
	glog.Infof("card %s at %s, base %#08x", c.ID, path, base)
	m, err := mapPhysical(c.Mem, base, c.Size)
	if err != nil {
		return nil, err
	}
	card := &Card{Path: path, Base: base, Window: bus.MemWindow(m.data), mapping: m}
	if c.Enable != "" {
		if err := Enable(c.Enable, true); err != nil {
			m.Close()
			return nil, err
		}
		card.enable = c.Enable
	}
	return card, nil
}

// Close disables the card and unmaps the window.
func (c *Card) Close() error {
	if c.enable != "" {
		if err := Enable(c.enable, false); err != nil {
			glog.Warningf("disable card: %v", err)
		}
	}
	return c.mapping.Close()
}
