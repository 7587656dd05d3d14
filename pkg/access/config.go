package access

import (
	"flag"
	"os"
	"time"
)

// Config defines the access client configuration.
type Config struct {
	Server  string
	Timeout time.Duration
	SOCKS5  string
}

var defaultConfig = Config{
	Server:  "localhost:7777",
	Timeout: DefaultTimeout,
}

func init() {
	if s := os.Getenv("GATE_SERVER"); s != "" {
		defaultConfig.Server = s
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Server, "server", defaultConfig.Server, "Authorization server host:port, env GATE_SERVER.")
	flag.DurationVar(&defaultConfig.Timeout, "auth-timeout", defaultConfig.Timeout, "Timeout of one access check.")
	flag.StringVar(&defaultConfig.SOCKS5, "socks5", defaultConfig.SOCKS5, "SOCKS5 proxy used to reach the server.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewClient creates a Client using the config.
func (c *Config) NewClient() *Client {
	cl := NewClient(c.Server)
	cl.Timeout = c.Timeout
	cl.SOCKS5 = c.SOCKS5
	return cl
}
