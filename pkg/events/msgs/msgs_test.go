package msgs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gate.go/pkg/events"
)

func TestEnvelope(t *testing.T) {
	ev := events.New(time.Unix(0, 1234567), 3, 99, events.Failed)
	ev.Error = "timeout"
	ev.Duration = 5 * time.Second

	data, err := Encode(FromEvent(ev))
	require.NoError(t, err)
	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, AccessEventTypeID, typed.TypeId)
	require.True(t, typed.IsEvent())

	msg, err := typed.Decode()
	require.NoError(t, err)
	back := msg.(*AccessEvent).Event()
	require.Equal(t, ev.ID, back.ID)
	require.True(t, ev.Time.Equal(back.Time))
	require.Equal(t, ev.Error, back.Error)
	require.Equal(t, ev.Duration, back.Duration)
}

func TestUnknownType(t *testing.T) {
	_, err := (&Typed{TypeId: 0x1234}).Decode()
	require.Error(t, err)
	_, ok := err.(*ErrUnknownType)
	require.True(t, ok)

	_, err = Wrap(&Typed{})
	require.Error(t, err)
}

func TestWideIDs(t *testing.T) {
	ev := events.New(time.Unix(10, 0), 1<<40, 1<<33, events.Granted)
	data, err := Encode(FromEvent(ev))
	require.NoError(t, err)
	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	back := msg.(*AccessEvent).Event()
	require.Equal(t, 1<<40, back.Gate)
	require.Equal(t, 1<<33, back.User)
}
