package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/ipc"
)

func TestParseIndex(t *testing.T) {
	n, err := parseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"-1", "x", ""} {
		_, err := parseIndex(bad)
		assert.Error(t, err, bad)
	}
}

func TestRPCError(t *testing.T) {
	assert.NoError(t, rpcError(nil))

	err := rpcError(status.Error(codes.OutOfRange, "no history entry at index 7"))
	assert.EqualError(t, err, "no history entry at index 7")

	err = rpcError(status.Error(codes.FailedPrecondition, "history entry 1 changed, list again and retry"))
	assert.EqualError(t, err, "history entry 1 changed, list again and retry")

	unavailable := status.Error(codes.Unavailable, "connection refused")
	assert.Equal(t, unavailable, rpcError(unavailable))
}

func TestNewBackend(t *testing.T) {
	b, err := newBackend("memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())

	_, err = newBackend("carrier-pigeon")
	assert.ErrorContains(t, err, "unknown clipboard backend")
}

func TestPrintList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printList(&buf, &api.ListResponse{
		Entries: []api.Entry{{0, "newest\nsnippet"}, {1, strings.Repeat("x", 40)}},
	}))
	out := buf.String()
	assert.Contains(t, out, "INDEX  TEXT")
	assert.Contains(t, out, "0      newest snippet")
	assert.Contains(t, out, "1      "+strings.Repeat("x", 27)+"...")

	buf.Reset()
	require.NoError(t, printList(&buf, &api.ListResponse{}))
	assert.Equal(t, "No clipboard history.\n", buf.String())
}

func TestPrintStatus(t *testing.T) {
	started := time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, &api.StatusResponse{
		Version:   "1.0.0",
		Backend:   "memory",
		Entries:   3,
		Capacity:  50,
		MenuSize:  5,
		Interval:  time.Second,
		StartedAt: started,
	}, started.Add(90*time.Second)))

	out := buf.String()
	assert.Contains(t, out, "Entries:    3/50")
	assert.Contains(t, out, "Interval:   1s")
	assert.Contains(t, out, "Up:         1m30s")
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestDaemonLifecycle(t *testing.T) {
	dir, err := os.MkdirTemp("", "cm")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "d.sock")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := execute(t, ctx, "daemon",
			"--clipboard", "memory",
			"--socket", socket,
			"--log-level", "error",
		)
		done <- err
	}()
	require.Eventually(t, func() bool { return ipc.IsRunning(socket) }, 5*time.Second, 10*time.Millisecond)

	out, err := execute(t, ctx, "list", "--socket", socket)
	require.NoError(t, err)
	assert.Equal(t, "No clipboard history.\n", out)

	out, err = execute(t, ctx, "status", "--socket", socket)
	require.NoError(t, err)
	assert.Contains(t, out, "Clipboard:  memory")

	out, err = execute(t, ctx, "menu", "--socket", socket)
	require.NoError(t, err)
	assert.Contains(t, out, "Quit")

	_, err = execute(t, ctx, "copy", "0", "--socket", socket)
	assert.EqualError(t, err, "no history entry at index 0")

	_, err = execute(t, ctx, "remove", "0", "--expect", "hello", "--socket", socket)
	assert.EqualError(t, err, "no history entry at index 0")

	_, err = execute(t, ctx, "daemon", "--clipboard", "memory", "--socket", socket)
	assert.ErrorContains(t, err, "already listening")

	_, err = execute(t, ctx, "quit", "--socket", socket)
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not stop after quit")
	}
	assert.False(t, ipc.IsRunning(socket))
}

func TestClientWithoutDaemon(t *testing.T) {
	_, err := execute(t, context.Background(), "list", "--socket", filepath.Join(t.TempDir(), "none.sock"))
	assert.ErrorContains(t, err, "no clipmgr daemon listening")
}
