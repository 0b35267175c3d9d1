// Package server serves the HistoryService on one listener: gRPC clients and
// HTTP/JSON gateway clients are told apart by cmux and handed to the matching
// server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"

	"go.klb.dev/clipmgr/internal/gateway"
	"go.klb.dev/clipmgr/internal/rpcservice"
)

const shutdownTimeout = 5 * time.Second

// Server owns the gRPC and HTTP servers for one Service.
type Server struct {
	svc  *rpcservice.Service
	grpc *grpc.Server
	http *http.Server
}

// New builds the gRPC server and gateway for svc.
func New(svc *rpcservice.Service) (*Server, error) {
	g := grpc.NewServer(grpc.ChainUnaryInterceptor(rpcservice.UnaryLogger))
	svc.Register(g)

	mux, err := gateway.New(svc)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	return &Server{
		svc:  svc,
		grpc: g,
		http: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}, nil
}

// Serve accepts connections on every listener until ctx is cancelled, then
// shuts both servers down. Listeners are closed on return.
func (s *Server) Serve(ctx context.Context, listeners ...net.Listener) error {
	errCh := make(chan error, 3*len(listeners))
	var wg sync.WaitGroup

	for _, ln := range listeners {
		m := cmux.New(ln)
		grpcL := m.MatchWithWriters(
			cmux.HTTP2MatchHeaderFieldPrefixSendSettings("content-type", "application/grpc"),
		)
		httpL := m.Match(cmux.Any())

		slog.Info("control API listening", "addr", ln.Addr().String())

		wg.Add(3)
		go func() {
			defer wg.Done()
			if err := s.grpc.Serve(grpcL); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := s.http.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http: %w", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := m.Serve(); err != nil && !isClosed(err) {
				errCh <- fmt.Errorf("cmux %s: %w", ln.Addr(), err)
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	s.shutdown()
	for _, ln := range listeners {
		_ = ln.Close()
	}
	wg.Wait()
	return err
}

func (s *Server) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Ends open Watch streams so GracefulStop does not wait on them.
	s.svc.Close()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	if err := s.http.Shutdown(ctx); err != nil {
		slog.Warn("http shutdown", "err", err)
	}
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpc.Stop()
	}
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed)
}
