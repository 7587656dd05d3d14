package sh

import (
	"context"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/keypad"
)

type checkResult struct {
	Request string `json:"request"`
	Granted bool   `json:"granted"`
	Error   string `json:"error,omitempty"`
}

func (r checkResult) String() string {
	switch {
	case r.Error != "":
		return fmt.Sprintf("%s: denied (%s)", r.Request, r.Error)
	case r.Granted:
		return r.Request + ": granted"
	}
	return r.Request + ": denied"
}

// LayoutSummary describes a bus revision on one line.
func LayoutSummary(l bus.Layout) string {
	addr := fmt.Sprintf("address %#04x", l.Address)
	if l.PackedAddress {
		addr = fmt.Sprintf("address in control & %#02x", l.AddressMask)
	}
	return fmt.Sprintf("%-8s control %#04x, %s, out %#04x, in %#04x, %s, idle %#02x",
		l.Name, l.Control, addr, l.DataOut, l.DataIn, l.Polarity, l.Idle)
}

// KeymapSummary draws a keymap.
func KeymapSummary(m keypad.Map) string {
	var lines []string
	for _, row := range m.Keys {
		cells := make([]string, len(row))
		for n, k := range row {
			switch k {
			case keypad.Blank:
				cells[n] = "-"
			case keypad.Enter:
				cells[n] = "E"
			case keypad.Exit:
				cells[n] = "X"
			case keypad.Cancel:
				cells[n] = "C"
			default:
				cells[n] = k.String()
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return m.Name + ":\n  " + strings.Join(lines, "\n  ")
}

var (
	// CheckCmd sends one access check.
	CheckCmd = ishell.Cmd{
		Name:    "check",
		Aliases: []string{"c"},
		Help:    "GATE USER PIN",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			req, err := ParseRequest(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			granted, err := s.Check(context.Background(), req)
			res := checkResult{Request: req.String(), Granted: granted}
			if err != nil {
				res.Error = err.Error()
			}
			s.Print(c, res)
		},
	}

	// ServerCmd shows or changes the authorization server.
	ServerCmd = ishell.Cmd{
		Name:    "server",
		Aliases: []string{"s"},
		Help:    "[HOST:PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.SetServer(c.Args[0])
			}
			c.Println(s.Access.Server)
		},
	}

	// LayoutsCmd lists bus revisions and keymaps.
	LayoutsCmd = ishell.Cmd{
		Name:    "layouts",
		Aliases: []string{"l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.OutputJSON {
				s.Print(c, map[string]interface{}{
					"revisions": bus.RevisionNames(),
					"keymaps":   keypad.MapNames(),
				})
				return
			}
			for _, name := range bus.RevisionNames() {
				c.Println(LayoutSummary(bus.Revisions[name]))
			}
			for _, name := range keypad.MapNames() {
				c.Println(KeymapSummary(keypad.Maps[name]))
			}
		},
	}

	// AuditCmd prints a CBOR audit log.
	AuditCmd = ishell.Cmd{
		Name:    "audit",
		Aliases: []string{"a"},
		Help:    "[FILE] [yaml]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			path, asYAML := s.AuditLog, false
			for _, arg := range c.Args {
				if arg == "yaml" {
					asYAML = true
				} else {
					path = arg
				}
			}
			if path == "" {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			evs, err := events.ReadFile(path)
			if err != nil {
				c.Err(err)
				if len(evs) == 0 {
					return
				}
			}
			switch {
			case s.OutputJSON:
				if evs == nil {
					evs = []events.Event{}
				}
				s.Print(c, evs)
			case asYAML:
				out, err := yaml.Marshal(evs)
				if err != nil {
					c.Err(err)
					return
				}
				c.Print(string(out))
			default:
				for _, ev := range evs {
					c.Println(FormatEvent(ev))
				}
			}
		},
	}
)
