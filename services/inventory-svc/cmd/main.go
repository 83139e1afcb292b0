package main

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"ecomfleet/api/inventoryv1"
	"ecomfleet/pkg/config"
	"ecomfleet/pkg/database"
	"ecomfleet/pkg/demux"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
	"ecomfleet/pkg/middleware"
	"ecomfleet/pkg/registry"
	_ "ecomfleet/pkg/rpc"
	"ecomfleet/pkg/server"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/inventory-svc/internal/handler"
	"ecomfleet/services/inventory-svc/internal/repository"
	"ecomfleet/services/inventory-svc/internal/service"
	"ecomfleet/services/inventory-svc/migrations"
)

func main() {
	cfg := config.MustLoad("inventory-svc", 3001)

	logger.InitWithConfig(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		if _, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		}); err != nil {
			logger.Log.Warn("failed to init telemetry", "error", err)
		}
	}

	metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database, migrations.FS, "."); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	store := repository.NewStore(db)
	inventory := service.New(store)

	mux := http.NewServeMux()
	handler.NewREST(inventory).Mount(mux)

	var httpHandler http.Handler = middleware.Metrics(metrics.Get())(mux)
	if cfg.HTTP.CORS.Enabled {
		httpHandler = middleware.CORS(cfg.HTTP.CORS)(httpHandler)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(telemetry.UnaryServerInterceptor()),
		grpc.StreamInterceptor(telemetry.StreamServerInterceptor()),
	)
	inventoryv1.RegisterInventoryServiceServer(grpcServer, handler.NewGRPC(inventory))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	regClient := registry.New(cfg.Registry.AgentAddress, cfg.Registry.CallTimeout)
	if err := regClient.Register(ctx, registry.Registration{
		ID:      cfg.Registry.ServiceID,
		Name:    cfg.Registry.ServiceName,
		Address: cfg.Registry.Address,
		Port:    cfg.HTTP.Port,
		Check: registry.HealthCheck{
			HTTP:                           cfg.Registry.HealthPath,
			Interval:                       "20s",
			DeregisterCriticalServiceAfter: "30m",
		},
	}); err != nil {
		logger.Log.Warn("failed to register with discovery agent", "error", err)
	}
	defer regClient.Deregister(context.Background(), cfg.Registry.ServiceID)

	runner := server.New(cfg, demux.New(grpcServer, httpHandler), healthServer)
	if err := runner.Run(); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
