package comms

import (
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc"
	"context"
	"testing"
	"time"
	"net"
)

// fakeMaster hands out the default scene.
type fakeMaster struct {
	ports chan uint32
}

func (m *fakeMaster) Register(ctx context.Context, port uint32) (*MasterState, error) {
	m.ports <- port
	return &MasterState{Config: state.DefaultConfig()}, nil
}

// fakeWorker traces regions of the default scene.
type fakeWorker struct {
	env state.Environment
}

func (w *fakeWorker) BulkTrace(ctx context.Context, order *WorkOrder) (*tracer.Frame, error) {
	return tracer.RenderRegion(ctx, &w.env, int(order.X), int(order.Y), int(order.Width), int(order.Height))
}

func (w *fakeWorker) Heartbeat(ctx context.Context, req *empty.Empty) (*empty.Empty, error) {
	return &empty.Empty{}, nil
}

// serve starts a gRPC server on a loopback port and returns a connection to it.
func serve(t *testing.T, register func(*grpc.Server)) *grpc.ClientConn {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	server := grpc.NewServer()
	register(server)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.Dial(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRegister(t *testing.T) {
	master := &fakeMaster{ports: make(chan uint32, 1)}
	conn := serve(t, func(s *grpc.Server) { RegisterRegistrationServer(s, master) })

	ctx, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
	defer cancel()

	st, err := NewRegistrationClient(conn).Register(ctx, 4321)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if st.Config != state.DefaultConfig() {
		t.Errorf("received config %+v", st.Config)
	}
	if port := <-master.ports; port != 4321 {
		t.Errorf("master saw port %d, want 4321", port)
	}
}

func TestBulkTraceMatchesLocalRender(t *testing.T) {
	env, err := state.NewEnvironment(state.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	conn := serve(t, func(s *grpc.Server) { RegisterTraceServer(s, &fakeWorker{env: env}) })
	client := NewTraceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
	defer cancel()

	if _, err := client.Heartbeat(ctx, &empty.Empty{}); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	order := &WorkOrder{X: 0, Y: 100, Width: uint32(env.Cam.Width), Height: 25}
	remote, err := client.BulkTrace(ctx, order)
	if err != nil {
		t.Fatalf("BulkTrace: %v", err)
	}

	local, err := tracer.RenderRegion(ctx, &env, 0, 100, env.Cam.Width, 25)
	if err != nil {
		t.Fatal(err)
	}
	if remote.Width != local.Width || remote.Height != local.Height {
		t.Fatalf("remote frame is %dx%d, want %dx%d", remote.Width, remote.Height, local.Width, local.Height)
	}
	for k := range local.Pix {
		if remote.Pix[k] != local.Pix[k] {
			t.Fatalf("pixel %d: remote %v, local %v", k, remote.Pix[k], local.Pix[k])
		}
	}
}

func TestBulkTraceRejectsBadRegion(t *testing.T) {
	env, err := state.NewEnvironment(state.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	conn := serve(t, func(s *grpc.Server) { RegisterTraceServer(s, &fakeWorker{env: env}) })

	ctx, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
	defer cancel()

	if _, err := NewTraceClient(conn).BulkTrace(ctx, &WorkOrder{X: 0, Y: 220, Width: 10, Height: 10}); err == nil {
		t.Error("expected an error for a region below the image")
	}
}

func TestUnpackFrameLength(t *testing.T) {
	if _, err := UnpackFrame(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected an error for a short buffer")
	}
}
