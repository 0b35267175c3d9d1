// Package rpcservice implements the HistoryService gRPC server over the
// clipboard history store.
package rpcservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/clip"
	"go.klb.dev/clipmgr/internal/history"
	"go.klb.dev/clipmgr/internal/logging"
	"go.klb.dev/clipmgr/internal/menu"
)

// Config carries the daemon facts reported by Status.
type Config struct {
	Version  string
	MenuSize int
	Interval time.Duration
	// Quit is called by the Quit RPC. It must not block.
	Quit func()
}

// Service implements HistoryServer.
type Service struct {
	store     *history.Store
	backend   clip.Backend
	cfg       Config
	startedAt time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// New returns a Service over store that writes re-copied entries to backend.
func New(store *history.Store, backend clip.Backend, cfg Config) *Service {
	if cfg.MenuSize <= 0 {
		cfg.MenuSize = menu.DefaultSize
	}
	if cfg.Quit == nil {
		cfg.Quit = func() {}
	}
	return &Service{
		store:     store,
		backend:   backend,
		cfg:       cfg,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// Close ends all open Watch streams. Unary calls keep working.
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Register adds the service to s.
func (s *Service) Register(srv *grpc.Server) {
	srv.RegisterService(&ServiceDesc, s)
}

// List implements HistoryService.List.
func (s *Service) List(_ context.Context, req *api.ListRequest) (*api.ListResponse, error) {
	entries := s.entries(req.Limit)
	return &api.ListResponse{
		Entries:  api.Entries(entries),
		Total:    s.store.Len(),
		Capacity: s.store.Cap(),
	}, nil
}

// Menu implements HistoryService.Menu.
func (s *Service) Menu(_ context.Context, _ *api.MenuRequest) (*api.MenuResponse, error) {
	return &api.MenuResponse{
		Menu: menu.Build(s.store.TopN(s.cfg.MenuSize), s.cfg.MenuSize),
	}, nil
}

// Copy implements HistoryService.Copy. The history itself is left alone: the
// next poll sees a value that is already present and does not promote it.
func (s *Service) Copy(_ context.Context, req *api.CopyRequest) (*api.CopyResponse, error) {
	text, err := s.store.AtExpect(req.Index, req.Text)
	if err != nil {
		return nil, storeError(err, req.Index)
	}
	if err := s.backend.WriteText(text); err != nil {
		return nil, status.Errorf(codes.Unavailable, "clipboard write: %v", err)
	}
	slog.Debug("entry copied to clipboard", "index", req.Index, "preview", logging.Preview(text))
	return &api.CopyResponse{Entry: api.Entry{Index: req.Index, Text: text}}, nil
}

// Remove implements HistoryService.Remove.
func (s *Service) Remove(_ context.Context, req *api.RemoveRequest) (*api.RemoveResponse, error) {
	text, err := s.store.RemoveAt(req.Index, req.Text)
	if err != nil {
		return nil, storeError(err, req.Index)
	}
	slog.Debug("entry removed", "index", req.Index, "entries", s.store.Len())
	return &api.RemoveResponse{Entry: api.Entry{Index: req.Index, Text: text}}, nil
}

// Status implements HistoryService.Status.
func (s *Service) Status(_ context.Context, _ *api.StatusRequest) (*api.StatusResponse, error) {
	return &api.StatusResponse{
		Version:   s.cfg.Version,
		Backend:   s.backend.Name(),
		Entries:   s.store.Len(),
		Capacity:  s.store.Cap(),
		MenuSize:  s.cfg.MenuSize,
		Interval:  s.cfg.Interval,
		StartedAt: s.startedAt,
	}, nil
}

// Quit implements HistoryService.Quit.
func (s *Service) Quit(_ context.Context, _ *api.QuitRequest) (*api.QuitResponse, error) {
	slog.Info("quit requested")
	s.cfg.Quit()
	return &api.QuitResponse{}, nil
}

// Watch implements HistoryService.Watch. Slow receivers skip intermediate
// snapshots and only see the latest one.
func (s *Service) Watch(req *api.WatchRequest, stream grpc.ServerStream) error {
	ch := make(chan struct{}, 1)
	unsubscribe := s.store.Subscribe(func([]string) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	send := func() error {
		return stream.SendMsg(&api.WatchResponse{
			Entries: api.Entries(s.entries(req.Limit)),
			Total:   s.store.Len(),
		})
	}
	if err := send(); err != nil {
		return err
	}
	for {
		select {
		case <-stream.Context().Done():
			return nil
		case <-s.done:
			return nil
		case <-ch:
			if err := send(); err != nil {
				return err
			}
		}
	}
}

func (s *Service) entries(limit int) []string {
	if limit <= 0 {
		return s.store.All()
	}
	return s.store.TopN(limit)
}

func storeError(err error, index int) error {
	switch {
	case errors.Is(err, history.ErrIndexOutOfRange):
		return status.Errorf(codes.OutOfRange, "no history entry at index %d", index)
	case errors.Is(err, history.ErrStale):
		return status.Errorf(codes.FailedPrecondition, "history entry %d changed, list again and retry", index)
	}
	return status.Error(codes.Internal, err.Error())
}

// UnaryLogger logs every unary call at debug level.
func UnaryLogger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"took", time.Since(start),
	)
	return resp, err
}
