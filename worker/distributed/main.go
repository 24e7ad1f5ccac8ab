package main

import (
	"github.com/mwindels/sphere-tracer/shared/comms"
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc"
	"github.com/urfave/cli"
	"context"
	"time"
	"net"
	"fmt"
	"log"
	"os"
)

// registerFrequency controls the minimum amount of time this worker will wait before trying to re-register itself after a failure.
const registerFrequency = 500 * time.Millisecond

// registerTimeout controls how long this worker will wait for the master to answer a registration.
const registerTimeout = 5 * time.Second

// traceTimeout controls how long this worker will wait for trace requests and heartbeats before closing its trace server.
const traceTimeout = 2000 * time.Millisecond

// Tracer implements the comms.TraceServer interface.
type Tracer struct {
	// No lock here because we never mutate this data.
	env state.Environment
	resetTraceTimeout chan struct{}
}

// timeoutReset resets a tracer's trace timeout.
func (t *Tracer) timeoutReset() {
	select {
	case t.resetTraceTimeout <- struct{}{}:
	default:	// A reset is already pending.
	}
}

// BulkTrace traces a rectangle of the image.
func (t *Tracer) BulkTrace(ctx context.Context, order *comms.WorkOrder) (*tracer.Frame, error) {
	t.timeoutReset()

	frame, err := tracer.RenderRegion(ctx, &t.env, int(order.X), int(order.Y), int(order.Width), int(order.Height))
	if err != nil {
		log.Printf("Failed to trace order %+v: %v.\n", *order, err)
		return nil, err
	}
	return frame, nil
}

// Heartbeat keeps the worker from disconnecting from the master.
func (t *Tracer) Heartbeat(ctx context.Context, req *empty.Empty) (*empty.Empty, error) {
	t.timeoutReset()

	return &empty.Empty{}, nil
}

// register registers this worker with the master at registerAddr for later communication on listenPort using the tracer it returns.
func register(registerAddr string, listenPort uint32) (*Tracer, error) {
	// Connect to the master.
	conn, err := grpc.Dial(registerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), registerTimeout)
	defer cancel()

	// Attempt to register.
	masterState, err := comms.NewRegistrationClient(conn).Register(ctx, listenPort)
	if err != nil {
		return nil, err
	}

	// Build the scene from the master's configuration.
	env, err := state.NewEnvironment(masterState.Config)
	if err != nil {
		return nil, fmt.Errorf("master sent an unusable scene: %w", err)
	}

	return &Tracer{env: env, resetTraceTimeout: make(chan struct{}, 1)}, nil
}

// serve serves work orders on listener until no orders or heartbeats arrive within the trace timeout.
func serve(t *Tracer, listener net.Listener) error {
	server := grpc.NewServer()
	comms.RegisterTraceServer(server, t)

	// Spin off a goroutine which closes the trace server if no requests come in within a timeout.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-t.resetTraceTimeout:
			case <-done:
				return
			case <-time.After(traceTimeout):
				server.GracefulStop()
				return
			}
		}
	}()

	return server.Serve(listener)
}

// run registers with the master and serves its orders, re-registering whenever the trace server times out.
func run(masterAddr string, orderPort uint32) {
	for {
		// Try to register.
		t, err := register(masterAddr, orderPort)
		if err == nil {
			log.Printf("Registered with master %s.\n", masterAddr)

			// Create a listener for the master.
			listener, err := net.Listen("tcp", fmt.Sprintf(":%d", orderPort))
			if err != nil {
				log.Fatalf("Failed to listen on port \"%d\": %v.\n", orderPort, err)
			}

			// Serve incoming work orders.
			if err = serve(t, listener); err != nil {
				log.Printf("Tracer interrupted: %v.\n", err)
			}else{
				log.Printf("Tracer timed out after receiving no orders or heartbeats.\n")
			}
		}else{
			log.Printf("Failed to register: %v.\n", err)
		}

		// Wait before trying to register again.
		time.Sleep(registerFrequency)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "distributed"
	app.Usage = "trace work orders for a master"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "master",
			Usage: "master registration address (including port)",
		},
		cli.UintFlag{
			Name:  "port",
			Usage: "port on which to listen for work orders",
		},
	}
	app.Action = func(c *cli.Context) error {
		if c.String("master") == "" || c.Uint("port") == 0 {
			return fmt.Errorf("both --master and --port are required")
		}
		run(c.String("master"), uint32(c.Uint("port")))
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Worker stopped: %v.\n", err)
	}
}
