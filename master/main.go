package main

import (
	"github.com/mwindels/sphere-tracer/shared/comms"
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/mwindels/sphere-tracer/shared/raster"
	"github.com/mwindels/sphere-tracer/shared/options"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/mwindels/sphere-tracer/master/pool"
	"google.golang.org/grpc"
	"github.com/urfave/cli"
	"time"
	"net"
	"fmt"
	"log"
	"os"
)

// orderAttempts controls how many times a band is assigned before the render is abandoned.
const orderAttempts = 3

// system represents the whole distributed system as the master sees it.
type system struct {
	cfg state.Config	// Never mutated once workers can register.
	workers *pool.Pool
	joined chan string
}

// newSystem sets up a system which will render cfg.
func newSystem(cfg state.Config) *system {
	return &system{cfg: cfg, workers: pool.NewPool(8), joined: make(chan string, 8)}
}

// waitForWorkers blocks until at least n workers are in the pool.
func waitForWorkers(sys *system, n uint) {
	for sys.workers.Size() < n {
		addr := <-sys.joined
		log.Printf("Worker %s registered, %d of %d.\n", addr, sys.workers.Size(), n)
	}
}

// traceBand assigns a band of rows to the least busy worker, retrying on failure.
func traceBand(sys *system, order *comms.WorkOrder, timeout time.Duration) (*tracer.Frame, error) {
	var err error
	for attempt := 1; attempt <= orderAttempts; attempt++ {
		var resultCh <-chan *tracer.Frame
		if resultCh, err = sys.workers.Assign(order, timeout); err != nil {
			log.Printf("Could not assign order %+v (attempt %d): %v.\n", *order, attempt, err)
			time.Sleep(pool.HeartbeatFrequency)
			continue
		}

		if band := <-resultCh; band != nil {
			return band, nil
		}
		err = fmt.Errorf("order %+v failed", *order)
	}
	return nil, err
}

// coordinate renders the system's image one band of rows at a time.
// Each band is waited on before the next is assigned, so the image is produced from the top down.
func coordinate(sys *system, bandRows int, timeout time.Duration) (*tracer.Frame, error) {
	cam, err := state.NewCamera(sys.cfg)
	if err != nil {
		return nil, err
	}
	if bandRows < 1 {
		return nil, fmt.Errorf("bands must contain at least one row, got %d", bandRows)
	}

	frame := tracer.NewFrame(cam.Width, cam.Height)
	for y := 0; y < cam.Height; y += bandRows {
		order := &comms.WorkOrder{X: 0, Y: uint32(y), Width: uint32(cam.Width), Height: uint32(min(bandRows, cam.Height - y))}

		band, err := traceBand(sys, order, timeout)
		if err != nil {
			return nil, err
		}
		if err = frame.Paste(band, 0, y); err != nil {
			return nil, err
		}
	}

	return frame, nil
}

func main() {
	app := cli.NewApp()
	app.Name = "master"
	app.Usage = "render an image with a pool of distributed workers"
	app.Flags = append(options.ConfigFlags(),
		cli.UintFlag{
			Name:  "port",
			Usage: "port on which workers register",
			Value: 4000,
		},
		cli.UintFlag{
			Name:  "workers",
			Usage: "number of workers to wait for before rendering",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "band-rows",
			Usage: "number of image rows in each work order",
			Value: 16,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait for a single work order",
			Value: 10 * time.Second,
		},
	)
	app.Action = func(c *cli.Context) error {
		cfg, err := options.Config(c)
		if err != nil {
			return err
		}

		// Set up the system's state.
		sys := newSystem(cfg)
		defer sys.workers.Destroy()

		// Spin off the registration server.
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", c.Uint("port")))
		if err != nil {
			return err
		}
		registrar := grpc.NewServer()
		defer registrar.GracefulStop()
		go newRegistrar(sys, registrar, listener)

		log.Printf("Waiting for %d worker(s) on port %d.\n", c.Uint("workers"), c.Uint("port"))
		waitForWorkers(sys, c.Uint("workers"))

		start := time.Now()
		frame, err := coordinate(sys, c.Int("band-rows"), c.Duration("timeout"))
		if err != nil {
			return err
		}
		log.Printf("Traced %dx%d pixels in %v.\n", frame.Width, frame.Height, time.Since(start))

		if err = raster.WritePNG(cfg.Output, frame); err != nil {
			return err
		}
		log.Printf("Wrote \"%s\".\n", cfg.Output)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Could not render: %v.\n", err)
	}
}
