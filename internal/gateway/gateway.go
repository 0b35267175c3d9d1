// Package gateway exposes the HistoryService as HTTP/JSON on a grpc-gateway
// ServeMux:
//
//	GET    /v1/history?limit=N              list entries (newest first)
//	GET    /v1/menu                         compact status menu
//	POST   /v1/history/{index}/copy?text=T  put an entry back on the clipboard
//	DELETE /v1/history/{index}?text=T       delete an entry
//	GET    /v1/status                       daemon status
//
// The optional text parameter must match the entry at index; a mismatch fails
// with 400 and leaves the history alone.
//
// Handlers call the service in-process. Responses go through the mux's
// marshaler and errors through its error handler, as in generated gateway code.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipmgr/internal/api"
	"go.klb.dev/clipmgr/internal/rpcservice"
)

type handler struct {
	svc rpcservice.HistoryServer
	mux *gwruntime.ServeMux
}

// New returns a ServeMux serving svc.
func New(svc rpcservice.HistoryServer) (*gwruntime.ServeMux, error) {
	// Messages are plain structs, so they marshal with encoding/json rules
	// and the same field names as the gRPC JSON codec.
	mux := gwruntime.NewServeMux(
		gwruntime.WithMarshalerOption(gwruntime.MIMEWildcard, &gwruntime.JSONBuiltin{}),
	)
	h := &handler{svc: svc, mux: mux}

	routes := []struct {
		method, pattern string
		fn              gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/history", h.list},
		{http.MethodGet, "/v1/menu", h.menu},
		{http.MethodPost, "/v1/history/{index}/copy", h.copy},
		{http.MethodDelete, "/v1/history/{index}", h.remove},
		{http.MethodGet, "/v1/status", h.status},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.fn); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

func (h *handler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx := requestContext(r)
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			h.fail(ctx, w, r, status.Errorf(codes.InvalidArgument, "invalid limit %q", s))
			return
		}
		limit = n
	}
	resp, err := h.svc.List(ctx, &api.ListRequest{Limit: limit})
	h.reply(ctx, w, r, resp, err)
}

func (h *handler) menu(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx := requestContext(r)
	resp, err := h.svc.Menu(ctx, &api.MenuRequest{})
	h.reply(ctx, w, r, resp, err)
}

func (h *handler) copy(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := requestContext(r)
	index, err := indexParam(params)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	resp, err := h.svc.Copy(ctx, &api.CopyRequest{Index: index, Text: r.URL.Query().Get("text")})
	h.reply(ctx, w, r, resp, err)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request, params map[string]string) {
	ctx := requestContext(r)
	index, err := indexParam(params)
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	resp, err := h.svc.Remove(ctx, &api.RemoveRequest{Index: index, Text: r.URL.Query().Get("text")})
	h.reply(ctx, w, r, resp, err)
}

func (h *handler) status(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	ctx := requestContext(r)
	resp, err := h.svc.Status(ctx, &api.StatusRequest{})
	h.reply(ctx, w, r, resp, err)
}

func indexParam(params map[string]string) (int, error) {
	s := params["index"]
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "invalid index %q", s)
	}
	return n, nil
}

// requestContext attaches empty server metadata, which the mux's error
// handler expects to find.
func requestContext(r *http.Request) context.Context {
	return gwruntime.NewServerMetadataContext(r.Context(), gwruntime.ServerMetadata{})
}

func (h *handler) reply(ctx context.Context, w http.ResponseWriter, r *http.Request, resp any, err error) {
	if err != nil {
		h.fail(ctx, w, r, err)
		return
	}
	_, outbound := gwruntime.MarshalerForRequest(h.mux, r)
	buf, err := outbound.Marshal(resp)
	if err != nil {
		h.fail(ctx, w, r, status.Errorf(codes.Internal, "marshal response: %v", err))
		return
	}
	w.Header().Set("Content-Type", outbound.ContentType(resp))
	if _, err := w.Write(buf); err != nil {
		slog.Debug("gateway: write response failed", "err", err)
	}
}

func (h *handler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	_, outbound := gwruntime.MarshalerForRequest(h.mux, r)
	gwruntime.HTTPError(ctx, h.mux, outbound, w, r, err)
}
