// Package comms provides the gRPC services used by the master and its workers.
package comms

import (
	"google.golang.org/protobuf/types/known/wrapperspb"
	"google.golang.org/grpc"
	"context"
)

const registerMethod = "/comms.Registration/Register"

// RegistrationServer is implemented by the master to accept new workers.
type RegistrationServer interface {
	// Register records a worker listening for work orders on port, and returns the scene to trace.
	Register(ctx context.Context, port uint32) (*MasterState, error)
}

// RegistrationClient is used by workers to register with the master.
type RegistrationClient interface {
	Register(ctx context.Context, port uint32, opts ...grpc.CallOption) (*MasterState, error)
}

type registrationClient struct {
	cc grpc.ClientConnInterface
}

// NewRegistrationClient returns a registration client which calls the master over cc.
func NewRegistrationClient(cc grpc.ClientConnInterface) RegistrationClient {
	return &registrationClient{cc: cc}
}

func (c *registrationClient) Register(ctx context.Context, port uint32, opts ...grpc.CallOption) (*MasterState, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, registerMethod, wrapperspb.UInt32(port), out, opts...); err != nil {
		return nil, err
	}

	var st MasterState
	if err := decode(out, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// RegisterRegistrationServer attaches a registration server to a gRPC server.
func RegisterRegistrationServer(s *grpc.Server, srv RegistrationServer) {
	s.RegisterService(&registrationServiceDesc, srv)
}

func registerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.UInt32Value)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		st, err := srv.(RegistrationServer).Register(ctx, req.(*wrapperspb.UInt32Value).GetValue())
		if err != nil {
			return nil, err
		}
		return encode(st)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: registerMethod}, handler)
}

var registrationServiceDesc = grpc.ServiceDesc{
	ServiceName: "comms.Registration",
	HandlerType: (*RegistrationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: registerHandler},
	},
	Streams: []grpc.StreamDesc{},
	Metadata: "comms",
}
