package sh

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gate.go/pkg/access"
	"github.com/robotalks/gate.go/pkg/bus"
	"github.com/robotalks/gate.go/pkg/events"
	"github.com/robotalks/gate.go/pkg/keypad"
)

func TestParseRequest(t *testing.T) {
	testCases := []struct {
		args   []string
		expect access.Request
		fail   bool
	}{
		{args: []string{"1", "123", "999"}, expect: access.Request{Gate: 1, User: 123, PIN: 999}},
		{args: []string{"1", "123"}, fail: true},
		{args: []string{"1", "abc", "999"}, fail: true},
		{args: []string{"1", "-5", "999"}, fail: true},
	}
	for _, tc := range testCases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			req, err := ParseRequest(tc.args)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, req)
		})
	}
}

func TestFormatEvent(t *testing.T) {
	ev := events.Event{
		Time:     time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
		Terminal: "term1",
		Gate:     1,
		User:     123,
		Outcome:  events.Failed,
		Error:    "timeout",
	}
	require.Equal(t, "term1 2024-05-01 08:30:00 gate 1 user 123 failed: timeout", FormatEvent(ev))
}

func TestSummaries(t *testing.T) {
	require.Contains(t, LayoutSummary(bus.Revisions["apo-pci"]), "address in control")
	require.Contains(t, LayoutSummary(bus.Revisions["gate"]), "address 0x8060")
	require.Equal(t, "gate:\n  7 8 9\n  4 5 6\n  1 2 3\n  E X C", KeymapSummary(keypad.Maps["gate"]))
}

func TestCheckResult(t *testing.T) {
	require.Equal(t, "gate 1 user 2: granted", checkResult{Request: "gate 1 user 2", Granted: true}.String())
	require.Equal(t, "gate 1 user 2: denied (boom)", checkResult{Request: "gate 1 user 2", Error: "boom"}.String())
}
