// Package env assembles the event sinks shared by the terminal programs.
package env

import (
	"flag"
	"fmt"
	"io"
	"os"

	fx "github.com/robotalks/gate.go/pkg/framework"
	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/events/mqtt"
)

// Config defines where terminal events go.
type Config struct {
	// Terminal identifies this terminal; defaults to the machine id.
	Terminal string
	// MQTTBrokerURL, if set, publishes events,
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
	// AuditLog, if set, appends events to a CBOR file.
	AuditLog string
}

var defaultConfig = Config{}

func init() {
	if val := os.Getenv("GATE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("GATE_TERMINAL"); val != "" {
		defaultConfig.Terminal = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Terminal, "terminal", defaultConfig.Terminal, "Terminal ID, defaults to the machine id, env GATE_TERMINAL.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for events, env GATE_MQTT_URL.")
	flag.StringVar(&defaultConfig.AuditLog, "audit-log", defaultConfig.AuditLog, "Append access events to this CBOR file.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env holds the event sinks.
type Env struct {
	Terminal  string
	Recorder  events.Multi
	Publisher *mqtt.Publisher

	closers []io.Closer
}

// NewEnv creates Env from config. meta describes the terminal to
// MQTT subscribers.
func (c *Config) NewEnv(meta mqtt.Meta) (*Env, error) {
	e := &Env{Terminal: c.Terminal}
	if e.Terminal == "" {
		e.Terminal = MachineID()
	}
	e.Recorder = append(e.Recorder, events.Log{})
	if c.AuditLog != "" {
		l, err := events.OpenFileLog(c.AuditLog)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		e.Recorder = append(e.Recorder, l)
		e.closers = append(e.closers, l)
	}
	if c.MQTTBrokerURL != "" {
		p, err := mqtt.NewPublisher(c.MQTTBrokerURL, e.Terminal, meta)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("create MQTT publisher: %w", err)
		}
		e.Publisher = p
		e.Recorder = append(e.Recorder, p)
	}
	return e, nil
}

// Record implements events.Recorder, stamping the terminal id.
func (e *Env) Record(ev events.Event) {
	if ev.Terminal == "" {
		ev.Terminal = e.Terminal
	}
	e.Recorder.Record(ev)
}

// Runnables returns the background parts which must be run.
func (e *Env) Runnables() []fx.Runnable {
	if e.Publisher == nil {
		return nil
	}
	return []fx.Runnable{fx.NamedRun("mqtt", e.Publisher)}
}

// Close implements io.Closer.
func (e *Env) Close() error {
	var errs fx.AggregatedError
	for _, c := range e.closers {
		errs.Add(c.Close())
	}
	e.closers = nil
	return errs.Aggregate()
}
