// Package sh provides the interactive maintenance shell of the terminal.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/events"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AuditLog    string

	Shell  *ishell.Shell
	Access *access.Config
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool
	auditLog   string

	// commands
	commands = []*ishell.Cmd{
		&CheckCmd,
		&ServerCmd,
		&LayoutsCmd,
		&AuditCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&auditLog, "audit-log", auditLog, "Default audit log for the audit command.")
}

// AddCmds registers additional commands; call it from init funcs.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *access.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		AuditLog:    auditLog,

		Shell:  ishell.New(),
		Access: conf,
	}
	s.Shell.Set(shellKey, s)
	s.updatePrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) updatePrompt() {
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", s.Access.Server))
}

// SetServer changes the authorization server.
func (s *Shell) SetServer(server string) {
	s.Access.Server = server
	s.updatePrompt()
}

// Check performs one access check against the configured server.
func (s *Shell) Check(ctx context.Context, req access.Request) (bool, error) {
	return s.Access.NewClient().Authorize(ctx, req)
}

// Print writes v as JSON or via fmt.
func (s *Shell) Print(c *ishell.Context, v interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v)
}

// ParseRequest parses GATE USER PIN.
func ParseRequest(args []string) (access.Request, error) {
	var req access.Request
	if len(args) != 3 {
		return req, fmt.Errorf("GATE USER PIN required")
	}
	vals := make([]int, len(args))
	for n, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return req, fmt.Errorf("invalid number %q", arg)
		}
		vals[n] = v
	}
	req.Gate, req.User, req.PIN = vals[0], vals[1], vals[2]
	return req, nil
}

// FormatEvent renders an event on one line.
func FormatEvent(ev events.Event) string {
	line := fmt.Sprintf("%s gate %d user %d %s", ev.Time.Format("2006-01-02 15:04:05"), ev.Gate, ev.User, ev.Outcome)
	if ev.Terminal != "" {
		line = ev.Terminal + " " + line
	}
	if ev.Error != "" {
		line += ": " + ev.Error
	}
	return line
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(access.NewConfig()).Run(flag.Args()...)
}
