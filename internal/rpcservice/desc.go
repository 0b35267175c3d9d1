package rpcservice

import (
	"context"

	"google.golang.org/grpc"

	"go.klb.dev/clipmgr/internal/api"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "clipmgr.v1.HistoryService"

// Full method names.
const (
	MethodList   = "/" + ServiceName + "/List"
	MethodMenu   = "/" + ServiceName + "/Menu"
	MethodCopy   = "/" + ServiceName + "/Copy"
	MethodRemove = "/" + ServiceName + "/Remove"
	MethodStatus = "/" + ServiceName + "/Status"
	MethodQuit   = "/" + ServiceName + "/Quit"
	MethodWatch  = "/" + ServiceName + "/Watch"
)

// HistoryServer is the server API for the HistoryService.
type HistoryServer interface {
	List(context.Context, *api.ListRequest) (*api.ListResponse, error)
	Menu(context.Context, *api.MenuRequest) (*api.MenuResponse, error)
	Copy(context.Context, *api.CopyRequest) (*api.CopyResponse, error)
	Remove(context.Context, *api.RemoveRequest) (*api.RemoveResponse, error)
	Status(context.Context, *api.StatusRequest) (*api.StatusResponse, error)
	Quit(context.Context, *api.QuitRequest) (*api.QuitResponse, error)
	Watch(*api.WatchRequest, grpc.ServerStream) error
}

// unary adapts a typed HistoryServer method into a grpc.MethodDesc handler.
func unary[Req, Resp any](method string, call func(HistoryServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HistoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HistoryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(api.WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(HistoryServer).Watch(in, stream)
}

// ServiceDesc describes the HistoryService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: unary(MethodList, HistoryServer.List)},
		{MethodName: "Menu", Handler: unary(MethodMenu, HistoryServer.Menu)},
		{MethodName: "Copy", Handler: unary(MethodCopy, HistoryServer.Copy)},
		{MethodName: "Remove", Handler: unary(MethodRemove, HistoryServer.Remove)},
		{MethodName: "Status", Handler: unary(MethodStatus, HistoryServer.Status)},
		{MethodName: "Quit", Handler: unary(MethodQuit, HistoryServer.Quit)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
}
