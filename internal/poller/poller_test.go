package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipmgr/internal/clip"
	"go.klb.dev/clipmgr/internal/history"
)

func TestPoll(t *testing.T) {
	cb := clip.NewMemory("")
	store := history.New(3)
	p := New(cb, store, 0)
	assert.Equal(t, DefaultInterval, p.Interval())

	assert.False(t, p.Poll(), "empty clipboard")

	for _, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, cb.WriteText(v))
		assert.True(t, p.Poll())
	}
	assert.Equal(t, []string{"d", "c", "b"}, store.All())

	assert.False(t, p.Poll(), "unchanged clipboard")

	require.NoError(t, cb.WriteText("c"))
	assert.False(t, p.Poll(), "existing entry is not promoted")
	assert.Equal(t, []string{"d", "c", "b"}, store.All())
}

func TestPollSkipsReadErrors(t *testing.T) {
	cb := clip.NewMemory("a")
	store := history.New(3)
	p := New(cb, store, time.Second)

	cb.FailReads(errors.New("pasteboard unavailable"))
	assert.False(t, p.Poll())
	assert.Zero(t, store.Len())

	cb.FailReads(nil)
	assert.True(t, p.Poll())
	assert.Equal(t, []string{"a"}, store.All())
}

func TestStartAndStop(t *testing.T) {
	cb := clip.NewMemory("first")
	store := history.New(10)
	p := New(cb, store, 5*time.Millisecond)

	task := p.Start(context.Background())

	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, cb.WriteText("second"))
	require.Eventually(t, func() bool { return store.Len() == 2 }, time.Second, time.Millisecond)

	task.Stop()
	select {
	case <-task.Done():
	default:
		t.Fatal("task not done after Stop")
	}

	require.NoError(t, cb.WriteText("third"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"second", "first"}, store.All())
}

func TestStartStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := New(clip.NewMemory(""), history.New(1), time.Millisecond).Start(ctx)
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not stop on context cancel")
	}
}
