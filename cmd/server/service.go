package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "idle.v1.EconomyService"

// economyService is the server API of idle.v1.EconomyService. Messages are
// google.protobuf.Struct so clients need no generated code.
type economyService interface {
	CatchUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Advance(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var economyServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*economyService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CatchUp", Handler: catchUpHandler},
		{MethodName: "Advance", Handler: advanceHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "idle/v1/economy.proto",
}

func registerEconomyService(s grpc.ServiceRegistrar, srv economyService) {
	s.RegisterService(&economyServiceDesc, srv)
}

func catchUpHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(economyService).CatchUp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/CatchUp"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(economyService).CatchUp(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func advanceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(economyService).Advance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Advance"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(economyService).Advance(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
