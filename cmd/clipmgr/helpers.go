package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipmgr/internal/ipc"
	"go.klb.dev/clipmgr/internal/rpcservice"
)

const requestTimeout = 5 * time.Second

// newClientCmd returns a command that talks to a running daemon, with the
// shared connection flags already added.
func newClientCmd(v *viper.Viper, cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) }
	cmd.Flags().String("addr", "", "daemon TCP address (default: use the control socket)")
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

// dialDaemon connects to the daemon over --addr if set, otherwise over the
// control socket. The caller must call the returned close func.
func dialDaemon(v *viper.Viper) (*rpcservice.Client, func(), error) {
	target := v.GetString("addr")
	if target == "" {
		path := v.GetString("socket")
		if !ipc.IsRunning(path) {
			return nil, nil, fmt.Errorf("no clipmgr daemon listening on %s (start one with \"clipmgr daemon\")", path)
		}
		target = ipc.Target(path)
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return rpcservice.NewClient(conn), func() { _ = conn.Close() }, nil
}

// withDaemon dials the daemon and runs fn with a request-scoped context.
func withDaemon(v *viper.Viper, fn func(ctx context.Context, c *rpcservice.Client) error) error {
	client, closeConn, err := dialDaemon(v)
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return rpcError(fn(ctx, client))
}

// rpcError strips the gRPC envelope from errors the user caused.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.OutOfRange, codes.InvalidArgument, codes.FailedPrecondition:
			return fmt.Errorf("%s", st.Message())
		}
	}
	return err
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q: want a number >= 0", s)
	}
	return n, nil
}
