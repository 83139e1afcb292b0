package main

import (
	"context"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"ecomfleet/pkg/authtoken"
	"ecomfleet/pkg/config"
	"ecomfleet/pkg/database"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
	"ecomfleet/pkg/middleware"
	"ecomfleet/pkg/passhash"
	"ecomfleet/pkg/registry"
	"ecomfleet/pkg/server"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/identity-svc/internal/handler"
	"ecomfleet/services/identity-svc/internal/repository"
	"ecomfleet/services/identity-svc/internal/service"
	"ecomfleet/services/identity-svc/migrations"
)

func main() {
	cfg := config.MustLoad("identity-svc", 3003)

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

	hasher, err := passhash.NewHasher(cfg.PassHash.Cost, cfg.PassHash.Workers)
	if err != nil {
		logger.Fatal("failed to build password hasher", "error", err)
	}
	defer hasher.Close()

	tokens := authtoken.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	users := repository.NewUsers(db)
	identity := service.New(users, hasher, tokens)
	rest := handler.New(identity)

	mux := http.NewServeMux()
	rest.Mount(mux, middleware.RequireAuth(tokens))

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
