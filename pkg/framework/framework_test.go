package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	var seen []time.Duration
	c.OnSleep = func(d time.Duration) { seen = append(seen, d) }

	c.Sleep(time.Millisecond)
	c.Sleep(10 * time.Microsecond)
	c.Sleep(0)

	require.Equal(t, start.Add(time.Millisecond+10*time.Microsecond), c.Now())
	require.Equal(t, time.Millisecond+10*time.Microsecond, c.Slept())
	require.Equal(t, 3, c.Sleeps())
	require.Equal(t, []time.Duration{time.Millisecond, 10 * time.Microsecond, 0}, seen)
}

func TestAggregatedError(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")

	var empty AggregatedError
	require.NoError(t, empty.Add(nil).Aggregate())

	var one AggregatedError
	require.Equal(t, "a", one.Add(errA, nil).Aggregate().Error())

	var two AggregatedError
	err := two.Add(errA, errB).Aggregate()
	require.Equal(t, "Multiple errors:\na\nb", err.Error())
	require.True(t, errors.Is(err, errB))
}

func TestRunner(t *testing.T) {
	r := NewRunner()
	boom := errors.New("boom")
	r.Go(
		NamedRun("waits", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error { return boom }),
	)
	r.Stop()
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, boom))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	t.Run("fn finishes", func(t *testing.T) {
		var closed int
		err := RunWithContextCloser(context.Background(), closerFunc(func() error {
			closed++
			return nil
		}), func() error { return nil })
		require.NoError(t, err)
		require.Equal(t, 1, closed)
	})

	t.Run("context done", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		unblock := make(chan struct{})
		var closed int
		err := RunWithContextCloser(ctx, closerFunc(func() error {
			closed++
			close(unblock)
			return nil
		}), func() error {
			<-unblock
			return errors.New("closed underneath")
		})
		require.True(t, errors.Is(err, context.DeadlineExceeded))
		require.Equal(t, 1, closed)
	})
}
