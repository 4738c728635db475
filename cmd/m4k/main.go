package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"m4k/internal/config"
	"m4k/internal/game"
	"m4k/internal/graphics"
	"m4k/internal/input"
	"m4k/internal/profiling"
)

func init() {
	// GLFW and GL calls must come from the main thread.
	runtime.LockOSThread()
}

var logger = log.New(os.Stderr, "[m4k] ", log.LstdFlags)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.EnvPath+")")
	var seed uint32
	flag.Func("seed", "world and texture seed, 0 to 4294967295", func(s string) error {
		v, err := config.ParseSeed(s)
		seed = v
		return err
	})
	workers := flag.Int("workers", 0, "generation and render workers, 0 for one per CPU")
	metrics := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :2112")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = seed
		case "workers":
			cfg.Workers = *workers
		case "metrics":
			cfg.MetricsAddr = *metrics
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
		logger.Println("bye")
	})

	err = run(ctx, cfg)
	close(done)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Close()
}

func run(ctx context.Context, cfg config.Config) error {
	if model := profiling.CPUModel(); model != "" {
		logger.Printf("cpu: %s, %d threads", model, runtime.NumCPU())
	}
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	session, err := game.NewSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := graphics.OpenWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := game.NewApp(window, input.NewCollector(), session)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", profiling.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("metrics: %v", err)
		}
	}()
	logger.Printf("metrics on %s/metrics", addr)
	return srv
}
