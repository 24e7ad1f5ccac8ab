package main

import (
	"github.com/mwindels/sphere-tracer/shared/comms"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc"
	"context"
	"strconv"
	"strings"
	"unicode"
	"errors"
	"net"
	"log"
	"fmt"
)

// Registrar implements the comms.RegistrationServer interface.
type Registrar struct {
	sys *system
}

// Register registers a worker with the master.
func (r *Registrar) Register(ctx context.Context, port uint32) (*comms.MasterState, error) {
	// Get the worker's sending address.
	worker, exists := peer.FromContext(ctx)
	if !exists {
		return nil, fmt.Errorf("could not derive worker's address")
	}

	// Compute the worker's receiving address.
	addr := strings.TrimRightFunc(worker.Addr.String(), unicode.IsNumber) + strconv.FormatUint(uint64(port), 10)

	// A worker which registers again has restarted, so replace its old connection.
	r.sys.workers.Remove(addr)

	// Add the worker to the workers pool.
	if err := r.sys.workers.Add(addr); err != nil {
		return nil, err
	}

	// Let the coordinator know, unless nobody is waiting.
	select {
	case r.sys.joined <- addr:
	default:
	}

	return &comms.MasterState{Config: r.sys.cfg}, nil
}

// newRegistrar serves worker registrations on listener until server is stopped.
func newRegistrar(sys *system, server *grpc.Server, listener net.Listener) {
	// Set up the registration server.
	comms.RegisterRegistrationServer(server, &Registrar{sys: sys})

	// Serve incoming registration orders.
	if err := server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		log.Fatalf("Registrar interrupted: %v.\n", err)
	}
}
