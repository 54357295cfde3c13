package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "messagely.v1.Messagely"

// MessagelyServer is implemented by GRPCServer.
type MessagelyServer interface {
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	MessagesFrom(context.Context, *UserMessagesRequest) (*SentMessagesResponse, error)
	MessagesTo(context.Context, *UserMessagesRequest) (*ReceivedMessagesResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	GetMessage(context.Context, *GetMessageRequest) (*GetMessageResponse, error)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary adapts a typed MessagelyServer method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(MessagelyServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MessagelyServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MessagelyServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Messagely service. Messages are carried by the
// JSON codec, so there is no generated protobuf code behind it.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MessagelyServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", MessagelyServer.Login),
		unary("Register", MessagelyServer.Register),
		unary("ListUsers", MessagelyServer.ListUsers),
		unary("GetUser", MessagelyServer.GetUser),
		unary("MessagesFrom", MessagelyServer.MessagesFrom),
		unary("MessagesTo", MessagelyServer.MessagesTo),
		unary("SendMessage", MessagelyServer.SendMessage),
		unary("GetMessage", MessagelyServer.GetMessage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "messagely/v1/messagely.json",
}

// RegisterMessagelyServer registers srv on s.
func RegisterMessagelyServer(s grpc.ServiceRegistrar, srv MessagelyServer) {
	s.RegisterService(&ServiceDesc, srv)
}
