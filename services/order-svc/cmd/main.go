package main

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"ecomfleet/api/orderv1"
	"ecomfleet/pkg/authtoken"
	"ecomfleet/pkg/config"
	"ecomfleet/pkg/database"
	"ecomfleet/pkg/demux"
	"ecomfleet/pkg/idgen"
	"ecomfleet/pkg/logger"
	"ecomfleet/pkg/metrics"
	"ecomfleet/pkg/middleware"
	"ecomfleet/pkg/registry"
	_ "ecomfleet/pkg/rpc"
	"ecomfleet/pkg/server"
	"ecomfleet/pkg/telemetry"
	"ecomfleet/services/order-svc/internal/client"
	"ecomfleet/services/order-svc/internal/handler"
	"ecomfleet/services/order-svc/internal/reconciler"
	"ecomfleet/services/order-svc/internal/repository"
	"ecomfleet/services/order-svc/internal/service"
	"ecomfleet/services/order-svc/migrations"
)

func main() {
	cfg := config.MustLoad("order-svc", 3002)

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

	localDSN := cfg.Database.LocalDSN
	if localDSN == "" {
		localDSN = cfg.Database.DSN
	}
	localDB, err := database.NewPostgresDBWithDSN(ctx, &cfg.Database, localDSN)
	if err != nil {
		logger.Fatal("failed to connect to local database", "error", err)
	}
	defer localDB.Close()

	tokens := authtoken.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	idGenerator, err := idgen.New(cfg.IDGen.NodeID)
	if err != nil {
		logger.Fatal("failed to build id generator", "error", err)
	}

	discovery := registry.New(cfg.Registry.AgentAddress, cfg.Registry.CallTimeout)
	inventoryClient := client.New(discovery, cfg.Peers.InventoryServiceID, cfg.Peers.CallTimeout)

	store := repository.NewStore(db, localDB)
	order := service.New(store, inventoryClient, idGenerator)

	rec := reconciler.New(store, inventoryClient, 10*time.Second) // spec.md §4.5
	recCtx, cancelRec := context.WithCancel(context.Background())
	defer cancelRec()
	go rec.Run(recCtx)

	rest := handler.New(order)
	mux := http.NewServeMux()
	rest.Mount(mux, middleware.RequireAuth(tokens))

	var httpHandler http.Handler = middleware.Metrics(metrics.Get())(mux)
	if cfg.HTTP.CORS.Enabled {
		httpHandler = middleware.CORS(cfg.HTTP.CORS)(httpHandler)
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(telemetry.UnaryServerInterceptor()),
		grpc.StreamInterceptor(telemetry.StreamServerInterceptor()),
	)
	orderv1.RegisterOrderServiceServer(grpcServer, handler.NewGRPC(order))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	if err := discovery.Register(ctx, registry.Registration{
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
	defer discovery.Deregister(context.Background(), cfg.Registry.ServiceID)

	runner := server.New(cfg, demux.New(grpcServer, httpHandler), healthServer)
	if err := runner.Run(); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
