package main

import (
	"flag"
	"log"
	"time"

	"github.com/robotalks/gate.go/pkg/env"
	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/events/mqtt"
	"github.com/robotalks/gate.go/pkg/events/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/gate/"
)

func init() {
	// same broker as the terminals, env GATE_MQTT_URL
	if val := env.Default().MQTTBrokerURL; val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

type printer struct{}

func (printer) Meta(terminal string, meta *mqtt.Meta) {
	if meta == nil {
		log.Printf("%s: gone", terminal)
		return
	}
	log.Printf("%s: gate %d revision %s keymap %s %v", terminal, meta.Gate, meta.Revision, meta.Keymap, meta.Labels)
}

func (printer) Access(ev events.Event) {
	if ev.Error != "" {
		log.Printf("%s: %s gate %d user %d %s: %s", ev.Terminal, ev.Time.Format(time.RFC3339), ev.Gate, ev.User, ev.Outcome, ev.Error)
		return
	}
	log.Printf("%s: %s gate %d user %d %s", ev.Terminal, ev.Time.Format(time.RFC3339), ev.Gate, ev.User, ev.Outcome)
}

func (printer) Status(st *msgs.TerminalStatus) {
	log.Printf("%s: gate %d %s", st.Terminal, st.Gate, st.State)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	mqtt.Watch(q, printer{})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
