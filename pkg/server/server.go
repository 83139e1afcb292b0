// Package server provides the process-lifetime bootstrap shared by every
// service binary: start the dual-protocol listener, expose health/metrics,
// and shut down gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"ecomfleet/pkg/config"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
)

// Runner owns one HTTP/2 listener (serving the dual-protocol demux handler)
// for the lifetime of a process.
type Runner struct {
	httpServer  *http.Server
	health      *health.Server
	serviceName string
	cfg         *config.Config
}

// New wires a Runner around an already-constructed demultiplexing handler.
func New(cfg *config.Config, handler http.Handler, h *health.Server) *Runner {
	return &Runner{
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		health:      h,
		serviceName: cfg.App.Name,
		cfg:         cfg,
	}
}

// Run starts the listener and blocks until shutdown.
func (r *Runner) Run() error {
	ctx := context.Background()

	if r.cfg.Metrics.Enabled {
		go func() {
			logger.Log.Info("starting metrics server", "port", r.cfg.Metrics.Port)
			if err := metrics.StartMetricsServer(r.cfg.Metrics.Port); err != nil {
				logger.Log.Error("metrics server failed", "error", err)
			}
		}()
	}

	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", r.cfg.HTTP.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	if r.health != nil {
		r.health.SetServingStatus(r.serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	}

	if m := metrics.Get(); m != nil {
		m.SetServiceInfo(r.cfg.App.Version, r.cfg.App.Environment)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("starting server",
			"service", r.serviceName,
			"port", r.cfg.HTTP.Port,
			"environment", r.cfg.App.Environment,
		)
		if err := r.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return r.waitForShutdown(errCh)
}

func (r *Runner) waitForShutdown(errCh chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Info("received shutdown signal", "signal", sig)
	}

	if r.health != nil {
		r.health.SetServingStatus(r.serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}

	shutdownTimeout := r.cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := r.httpServer.Shutdown(ctx); err != nil {
		logger.Log.Warn("forcing server close", "error", err)
		return r.httpServer.Close()
	}

	logger.Log.Info("server stopped gracefully")
	return nil
}
