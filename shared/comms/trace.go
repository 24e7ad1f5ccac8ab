// Package comms provides the gRPC services used by the master and its workers.
package comms

import (
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"google.golang.org/grpc"
	"context"
)

const (
	bulkTraceMethod = "/comms.Trace/BulkTrace"
	heartbeatMethod = "/comms.Trace/Heartbeat"
)

// TraceServer is implemented by workers to trace regions of an image.
type TraceServer interface {
	// BulkTrace traces the rectangle described by order, returning a frame of the rectangle's size.
	BulkTrace(ctx context.Context, order *WorkOrder) (*tracer.Frame, error)
	// Heartbeat lets the master check that the worker is still alive.
	Heartbeat(ctx context.Context, req *empty.Empty) (*empty.Empty, error)
}

// TraceClient is used by the master to send work to a worker.
type TraceClient interface {
	BulkTrace(ctx context.Context, order *WorkOrder, opts ...grpc.CallOption) (*tracer.Frame, error)
	Heartbeat(ctx context.Context, req *empty.Empty, opts ...grpc.CallOption) (*empty.Empty, error)
}

type traceClient struct {
	cc grpc.ClientConnInterface
}

// NewTraceClient returns a trace client which calls a worker over cc.
func NewTraceClient(cc grpc.ClientConnInterface) TraceClient {
	return &traceClient{cc: cc}
}

func (c *traceClient) BulkTrace(ctx context.Context, order *WorkOrder, opts ...grpc.CallOption) (*tracer.Frame, error) {
	in, err := encode(order)
	if err != nil {
		return nil, err
	}

	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, bulkTraceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return UnpackFrame(out.GetValue(), int(order.Width), int(order.Height))
}

func (c *traceClient) Heartbeat(ctx context.Context, req *empty.Empty, opts ...grpc.CallOption) (*empty.Empty, error) {
	out := new(empty.Empty)
	if err := c.cc.Invoke(ctx, heartbeatMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterTraceServer attaches a trace server to a gRPC server.
func RegisterTraceServer(s *grpc.Server, srv TraceServer) {
	s.RegisterService(&traceServiceDesc, srv)
}

func bulkTraceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		var order WorkOrder
		if err := decode(req.(*wrapperspb.BytesValue), &order); err != nil {
			return nil, err
		}

		frame, err := srv.(TraceServer).BulkTrace(ctx, &order)
		if err != nil {
			return nil, err
		}
		return wrapperspb.Bytes(PackFrame(frame)), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: bulkTraceMethod}, handler)
}

func heartbeatHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(empty.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TraceServer).Heartbeat(ctx, req.(*empty.Empty))
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: heartbeatMethod}, handler)
}

var traceServiceDesc = grpc.ServiceDesc{
	ServiceName: "comms.Trace",
	HandlerType: (*TraceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BulkTrace", Handler: bulkTraceHandler},
		{MethodName: "Heartbeat", Handler: heartbeatHandler},
	},
	Streams: []grpc.StreamDesc{},
	Metadata: "comms",
}
