package api

import (
	"context"

	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	Session_NewMatch_FullMethodName    = "/arena.Session/NewMatch"
	Session_SessionInfo_FullMethodName = "/arena.Session/SessionInfo"
)

// SessionServer is the server API for the arena.Session service. Requests and
// responses are free-form structs:
//
//	NewMatch    {player_ids: [string]} -> {match_id: string}
//	SessionInfo {player_id: string}    -> {server_pub_key: base64, server_addr: string}
type SessionServer interface {
	NewMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SessionInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedSessionServer can be embedded to have forward compatible implementations.
type UnimplementedSessionServer struct{}

// NewMatch returns codes.Unimplemented.
func (UnimplementedSessionServer) NewMatch(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method NewMatch not implemented")
}

// SessionInfo returns codes.Unimplemented.
func (UnimplementedSessionServer) SessionInfo(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SessionInfo not implemented")
}

// RegisterSessionServer registers srv as the arena.Session implementation.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&Session_ServiceDesc, srv)
}

func _Session_NewMatch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).NewMatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Session_NewMatch_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).NewMatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Session_SessionInfo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).SessionInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Session_SessionInfo_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).SessionInfo(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Session_ServiceDesc is the grpc.ServiceDesc for the arena.Session service.
var Session_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "arena.Session",
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "NewMatch",
			Handler:    _Session_NewMatch_Handler,
		},
		{
			MethodName: "SessionInfo",
			Handler:    _Session_SessionInfo_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "arena/session.proto",
}
