package main

import (
	"context"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"ecomfleet/pkg/config"
	"ecomfleet/pkg/database"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
	"ecomfleet/pkg/middleware"
	"ecomfleet/pkg/registry"
	"ecomfleet/pkg/server"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/catalog-svc/internal/handler"
	"ecomfleet/services/catalog-svc/internal/repository"
	"ecomfleet/services/catalog-svc/internal/service"
	"ecomfleet/services/catalog-svc/migrations"
)

func main() {
	cfg := config.MustLoad("catalog-svc", 3004)

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

	goods := repository.NewGoods(db)
	catalog := service.New(goods)
	rest := handler.New(catalog)

	mux := http.NewServeMux()
	rest.Mount(mux)

	// Catalog reads are permissive-CORS per spec.md §6: any browser origin
	// may fetch the goods list/detail without authentication.
	var httpHandler http.Handler = middleware.Metrics(metrics.Get())(mux)
	if cfg.HTTP.CORS.Enabled {
		httpHandler = middleware.CORS(cfg.HTTP.CORS)(httpHandler)
	}

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

	runner := server.New(cfg, h2c.NewHandler(httpHandler, &http2.Server{}), nil)
	if err := runner.Run(); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
