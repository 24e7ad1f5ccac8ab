package pool

import (
	"github.com/mwindels/sphere-tracer/shared/comms"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"context"
	"testing"
	"time"
	"net"
)

// blockingWorker reports each order it receives, then waits to be released before answering.
type blockingWorker struct {
	name string
	received chan<- string
	release <-chan struct{}
}

func (w *blockingWorker) BulkTrace(ctx context.Context, order *comms.WorkOrder) (*tracer.Frame, error) {
	w.received <- w.name
	select {
	case <-w.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return tracer.NewFrame(int(order.Width), int(order.Height)), nil
}

func (w *blockingWorker) Heartbeat(ctx context.Context, req *empty.Empty) (*empty.Empty, error) {
	return &empty.Empty{}, nil
}

// startWorker serves a trace server on a loopback port and returns its address.
func startWorker(t *testing.T, srv comms.TraceServer) (string, *grpc.Server) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	server := grpc.NewServer()
	comms.RegisterTraceServer(server, srv)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	return listener.Addr().String(), server
}

func TestAssignWithoutWorkers(t *testing.T) {
	p := NewPool(1)
	defer p.Destroy()

	if _, err := p.Assign(&comms.WorkOrder{Width: 1, Height: 1}, time.Second); err == nil {
		t.Error("expected an error assigning to an empty pool")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	addr, _ := startWorker(t, &blockingWorker{name: "a", received: make(chan string, 1), release: release})

	p := NewPool(2)
	defer p.Destroy()

	for k := 0; k < 2; k++ {
		if err := p.Add(addr); err != nil {
			t.Fatal(err)
		}
	}
	if size := p.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1", size)
	}

	p.Remove(addr)
	if size := p.Size(); size != 0 {
		t.Errorf("Size() after Remove = %d, want 0", size)
	}
}

func TestAssignPrefersLeastBusy(t *testing.T) {
	received := make(chan string, 4)
	release := make(chan struct{})

	p := NewPool(2)
	defer p.Destroy()

	for _, name := range []string{"a", "b"} {
		addr, _ := startWorker(t, &blockingWorker{name: name, received: received, release: release})
		if err := p.Add(addr); err != nil {
			t.Fatal(err)
		}
	}

	// With the first order still outstanding, the second must go to the other worker.
	var results []<-chan *tracer.Frame
	for k := 0; k < 2; k++ {
		ch, err := p.Assign(&comms.WorkOrder{Width: 2, Height: 1}, 5 * time.Second)
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, ch)
	}

	seen := map[string]bool{}
	for k := 0; k < 2; k++ {
		select {
		case name := <-received:
			seen[name] = true
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for orders to arrive")
		}
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("orders were not spread across both workers: %v", seen)
	}

	close(release)
	for _, ch := range results {
		frame := <-ch
		if frame == nil || frame.Width != 2 || frame.Height != 1 {
			t.Errorf("unexpected result %+v", frame)
		}
	}
}

func TestAssignTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	addr, _ := startWorker(t, &blockingWorker{name: "slow", received: make(chan string, 1), release: release})

	p := NewPool(1)
	defer p.Destroy()
	if err := p.Add(addr); err != nil {
		t.Fatal(err)
	}

	ch, err := p.Assign(&comms.WorkOrder{Width: 1, Height: 1}, 50 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case frame, ok := <-ch:
		if ok || frame != nil {
			t.Errorf("expected the channel to close without a frame, got %+v", frame)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the order to fail")
	}
}

func TestDeadWorkerIsRemoved(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	addr, server := startWorker(t, &blockingWorker{name: "dead", received: make(chan string, 1), release: release})

	p := NewPool(1)
	defer p.Destroy()
	if err := p.Add(addr); err != nil {
		t.Fatal(err)
	}

	server.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for p.Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("worker was never removed after its heartbeats failed")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
