package events

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a, b := New(at, 1, 2, Granted), New(at, 1, 2, Granted)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, Granted, a.Outcome)
}

func TestMulti(t *testing.T) {
	var got []Outcome
	rec := RecorderFunc(func(ev Event) { got = append(got, ev.Outcome) })
	Multi{rec, Log{}, rec}.Record(Event{Outcome: Failed, Error: "timeout"})
	require.Equal(t, []Outcome{Failed, Failed}, got)
}

func TestFileLog(t *testing.T) {
	dir, err := os.MkdirTemp("", "gate-events")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "audit.cbor")

	at := time.Date(2024, 5, 1, 8, 0, 0, 123, time.UTC)
	evs := []Event{
		New(at, 1, 123, Granted),
		New(at.Add(time.Minute), 1, 42, Denied),
		{ID: "x", Time: at, Gate: 1, User: 7, Outcome: Failed, Error: "connection refused", Duration: time.Second},
	}

	l, err := OpenFileLog(path)
	require.NoError(t, err)
	l.Record(evs[0])
	l.Record(evs[1])
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	l.Record(evs[2])

	// appends on reopen
	l, err = OpenFileLog(path)
	require.NoError(t, err)
	l.Record(evs[2])
	require.NoError(t, l.Close())

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(evs))
	for i, ev := range evs {
		require.Equal(t, ev.ID, got[i].ID)
		require.True(t, ev.Time.Equal(got[i].Time), "%v != %v", ev.Time, got[i].Time)
		require.Equal(t, ev.User, got[i].User)
		require.Equal(t, ev.Outcome, got[i].Outcome)
		require.Equal(t, ev.Error, got[i].Error)
		require.Equal(t, ev.Duration, got[i].Duration)
	}

	_, err = ReadAll(bytes.NewReader([]byte{0xa1}))
	require.Error(t, err)
}

func TestFileLogWriteFailure(t *testing.T) {
	dir, err := os.MkdirTemp("", "gate-events")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	l, err := OpenFileLog(filepath.Join(dir, "audit.cbor"))
	require.NoError(t, err)
	l.Record(New(time.Now(), 1, 2, Granted))
	require.Equal(t, 0, l.Failed())

	// the file goes away underneath the log
	require.NoError(t, l.file.Close())
	l.Record(New(time.Now(), 1, 3, Denied))
	require.Equal(t, 1, l.Failed())
}
