package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipmgr/internal/clip"
	"go.klb.dev/clipmgr/internal/history"
	"go.klb.dev/clipmgr/internal/ipc"
	"go.klb.dev/clipmgr/internal/menu"
	"go.klb.dev/clipmgr/internal/poller"
	"go.klb.dev/clipmgr/internal/rpcservice"
	"go.klb.dev/clipmgr/internal/server"
)

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Watch the clipboard and serve the history",
		Long: `Polls the system clipboard and records every new text snippet.
History lives in memory only and is gone when the daemon exits.

The history is served over the control socket to the other clipmgr
commands. With --addr the same gRPC and HTTP/JSON API is also served on a TCP
address, e.g.

  curl localhost:8753/v1/history?limit=5

Config file search order:
  /etc/clipmgr/clipmgr.toml
  $HOME/.config/clipmgr/clipmgr.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPMGR_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runDaemon(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.Int("capacity", history.DefaultCapacity, "number of entries to keep")
	f.Duration("interval", poller.DefaultInterval, "clipboard polling interval")
	f.Int("menu-size", menu.DefaultSize, "entries shown by the menu")
	f.String("clipboard", "system", "clipboard backend: system|memory")
	f.String("addr", "", "also serve the API on this TCP address (e.g. 127.0.0.1:8753)")
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(parent context.Context, v *viper.Viper) error {
	setupLogging(v)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	backend, err := newBackend(v.GetString("clipboard"))
	if err != nil {
		return err
	}
	defer backend.Close()

	store := history.New(v.GetInt("capacity"))
	p := poller.New(backend, store, v.GetDuration("interval"))

	slog.Info("clipmgr daemon starting",
		"version", Version,
		"backend", backend.Name(),
		"capacity", store.Cap(),
		"interval", p.Interval(),
	)

	svc := rpcservice.New(store, backend, rpcservice.Config{
		Version:  Version,
		MenuSize: v.GetInt("menu-size"),
		Interval: p.Interval(),
		Quit:     quit,
	})
	srv, err := server.New(svc)
	if err != nil {
		return err
	}

	listeners, err := daemonListeners(v.GetString("socket"), v.GetString("addr"))
	if err != nil {
		return err
	}

	task := p.Start(ctx)
	defer task.Stop()

	if err := srv.Serve(ctx, listeners...); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	slog.Info("clipmgr daemon stopped")
	return nil
}

func newBackend(name string) (clip.Backend, error) {
	switch name {
	case "system", "":
		return clip.New(), nil
	case "memory":
		return clip.NewMemory(""), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (want system or memory)", name)
	}
}

func daemonListeners(socket, addr string) ([]net.Listener, error) {
	if ipc.IsRunning(socket) {
		return nil, fmt.Errorf("a clipmgr daemon is already listening on %s", socket)
	}
	sockLn, err := ipc.Listen(socket)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", socket, err)
	}
	if addr == "" {
		return []net.Listener{sockLn}, nil
	}
	tcpLn, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("listen %s: %w", addr, err), sockLn.Close())
	}
	return []net.Listener{sockLn, tcpLn}, nil
}
