package keypad

import (
	"flag"
	"time"

	"github.com/robotalks/gate.go/pkg/bus"
)

// Config defines the keypad configuration.
type Config struct {
	Map      string
	Debounce time.Duration
}

var defaultConfig = Config{
	Map:      DefaultMap,
	Debounce: DefaultDebounce,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Map, "keymap", defaultConfig.Map, "Keypad map (gate, legacy).")
	flag.DurationVar(&defaultConfig.Debounce, "debounce", defaultConfig.Debounce, "Delay between the two keypad samples.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewDriver creates a Driver using the config.
func (c *Config) NewDriver(b *bus.Bus, p bus.PeripheralMap) (*Driver, error) {
	m, err := Lookup(c.Map)
	if err != nil {
		return nil, err
	}
	d, err := New(b, m, p)
	if err != nil {
		return nil, err
	}
	if c.Debounce > 0 {
		d.Debounce = c.Debounce
	}
	return d, nil
}
