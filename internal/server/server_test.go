package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/clip"
	"go.klb.dev/clipmgr/internal/history"
	"go.klb.dev/clipmgr/internal/rpcservice"
)

func TestServeGRPCAndHTTPOnOneListener(t *testing.T) {
	store := history.New(10)
	store.Observe("older")
	store.Observe("newer")
	svc := rpcservice.New(store, clip.NewMemory(""), rpcservice.Config{Version: "test"})

	srv, err := New(svc)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, ln) }()

	// gRPC
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()
	list, err := rpcservice.NewClient(conn).List(callCtx, &api.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []api.Entry{{0, "newer"}, {1, "older"}}, list.Entries)

	// HTTP gateway
	resp, err := http.Get("http://" + addr + "/v1/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var httpList api.ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&httpList))
	assert.Equal(t, []api.Entry{{0, "newer"}}, httpList.Entries)

	// An open Watch stream must not hold up shutdown.
	stream, err := rpcservice.NewClient(conn).Watch(ctx, &api.WatchRequest{})
	require.NoError(t, err)
	_, err = stream.Recv()
	require.NoError(t, err)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
