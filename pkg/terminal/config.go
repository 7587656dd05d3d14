package terminal

import (
	"flag"
	"time"

	fx "github.com/robotalks/gate.go/pkg/framework"
)

// Config defines the terminal behavior.
type Config struct {
	PollInterval time.Duration
	KeyDelay     time.Duration
	ResultHold   time.Duration
	MaskPIN      bool
}

var defaultConfig = Config{
	PollInterval: DefaultPollInterval,
	KeyDelay:     DefaultKeyDelay,
	ResultHold:   DefaultResultHold,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Wait before each key scan.")
	flag.DurationVar(&defaultConfig.KeyDelay, "key-delay", defaultConfig.KeyDelay, "Wait after an accepted key.")
	flag.DurationVar(&defaultConfig.ResultHold, "result-hold", defaultConfig.ResultHold, "How long the verdict stays on screen.")
	flag.BoolVar(&defaultConfig.MaskPIN, "mask-pin", defaultConfig.MaskPIN, "Echo * instead of PIN digits.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewTerminal creates a Terminal using the config.
func (c *Config) NewTerminal(gate int, power Power, kp Keypad, disp Display, alerts Alerts, clock fx.Clock) *Terminal {
	t := New(gate, power, kp, disp, alerts, clock)
	t.PollInterval = c.PollInterval
	t.KeyDelay = c.KeyDelay
	t.ResultHold = c.ResultHold
	t.MaskPIN = c.MaskPIN
	return t
}
