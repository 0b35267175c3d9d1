package rpcservice

import (
	"context"

	"google.golang.org/grpc"

	"go.klb.dev/clipmgr/internal/api"
)

// Client is a HistoryService client. All calls use the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any) (*Resp, error) {
	out := new(Resp)
	if err := c.cc.Invoke(ctx, method, req, out, grpc.CallContentSubtype(api.CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) List(ctx context.Context, req *api.ListRequest) (*api.ListResponse, error) {
	return invoke[api.ListResponse](ctx, c, MethodList, req)
}

func (c *Client) Menu(ctx context.Context, req *api.MenuRequest) (*api.MenuResponse, error) {
	return invoke[api.MenuResponse](ctx, c, MethodMenu, req)
}

func (c *Client) Copy(ctx context.Context, req *api.CopyRequest) (*api.CopyResponse, error) {
	return invoke[api.CopyResponse](ctx, c, MethodCopy, req)
}

func (c *Client) Remove(ctx context.Context, req *api.RemoveRequest) (*api.RemoveResponse, error) {
	return invoke[api.RemoveResponse](ctx, c, MethodRemove, req)
}

func (c *Client) Status(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {
	return invoke[api.StatusResponse](ctx, c, MethodStatus, req)
}

func (c *Client) Quit(ctx context.Context, req *api.QuitRequest) (*api.QuitResponse, error) {
	return invoke[api.QuitResponse](ctx, c, MethodQuit, req)
}

// WatchStream receives history snapshots.
type WatchStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next snapshot.
func (w *WatchStream) Recv() (*api.WatchResponse, error) {
	out := new(api.WatchResponse)
	if err := w.stream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Watch opens a snapshot stream. Cancel ctx to end it.
func (c *Client) Watch(ctx context.Context, req *api.WatchRequest) (*WatchStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodWatch, grpc.CallContentSubtype(api.CodecName))
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchStream{stream: stream}, nil
}
