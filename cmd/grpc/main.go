package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	backofficev1 "github.com/fekuna/omnipos-backoffice/api/backoffice/v1"
	"github.com/fekuna/omnipos-backoffice/config"
	"github.com/fekuna/omnipos-backoffice/internal/apperr"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/events"
	"github.com/fekuna/omnipos-backoffice/migrations"
	"github.com/fekuna/omnipos-backoffice/pkg/broker"
	"github.com/fekuna/omnipos-backoffice/pkg/cache"
	"github.com/fekuna/omnipos-backoffice/pkg/database/postgres"
	"github.com/fekuna/omnipos-backoffice/pkg/discovery"
	"github.com/fekuna/omnipos-backoffice/pkg/httpx"
	"github.com/fekuna/omnipos-backoffice/pkg/i18n"
	"github.com/fekuna/omnipos-backoffice/pkg/logger"
	"github.com/fekuna/omnipos-backoffice/pkg/middleware"
	"github.com/fekuna/omnipos-backoffice/pkg/search"

	catH "github.com/fekuna/omnipos-backoffice/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-backoffice/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-backoffice/internal/category/usecase"

	invH "github.com/fekuna/omnipos-backoffice/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-backoffice/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-backoffice/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-backoffice/internal/inventory/usecase"

	"github.com/fekuna/omnipos-backoffice/internal/product"
	prodH "github.com/fekuna/omnipos-backoffice/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-backoffice/internal/product/repository"
	prodSearchPkg "github.com/fekuna/omnipos-backoffice/internal/product/search"
	prodUCPkg "github.com/fekuna/omnipos-backoffice/internal/product/usecase"

	saleH "github.com/fekuna/omnipos-backoffice/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-backoffice/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-backoffice/internal/sale/usecase"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	tr, err := i18n.New()
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.AutoMigrate {
		if err := migrations.Run(ctx, db); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	// 4. Initialize Redis
	var appCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// Reports and list pages are rebuilt from postgres without a cache.
			appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			appCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Initialize Kafka Producer
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer)
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	// 6. Initialize Elasticsearch
	var indexer product.Indexer
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to postgres", zap.Error(err))
		} else {
			indexer = prodSearchPkg.NewESIndexer(esClient)
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appCache, publisher, invUCPkg.Options{
		ReportTTL:    cfg.Inventory.ReportCacheTTL,
		DefaultLimit: cfg.Inventory.DefaultListLimit,
		MaxLimit:     cfg.Inventory.MaxListLimit,
	}, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(saleRepo, invUC, publisher, saleUCPkg.Options{
		DefaultLimit: cfg.Sales.DefaultListLimit,
		MaxLimit:     cfg.Sales.MaxListLimit,
	}, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, invUC, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, appCache, indexer, invUC, publisher, prodUCPkg.Options{
		ListTTL: cfg.Inventory.ProductCacheTTL,
	}, appLogger)

	// 9. Initialize Listeners
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.PurchasesTopic,
			GroupID: cfg.Kafka.PurchasesGroup,
		})
		defer consumer.Close()
		go invListenerPkg.NewPurchaseListener(consumer, invUC, appLogger).Start(ctx)
	}

	verifier := auth.NewJWTVerifier(cfg.JWT.SecretKey)

	// 10. Start gRPC Server
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(appLogger),
			middleware.LoggingInterceptor(appLogger),
			verifier.UnaryServerInterceptor(),
		),
	)

	backofficev1.RegisterCategoryServiceServer(grpcServer, catH.NewCategoryHandler(catUC, appLogger))
	backofficev1.RegisterProductServiceServer(grpcServer, prodH.NewProductHandler(prodUC, appLogger))
	backofficev1.RegisterInventoryServiceServer(grpcServer, invH.NewInventoryHandler(invUC, appLogger))
	backofficev1.RegisterSaleServiceServer(grpcServer, saleH.NewSaleHandler(saleUC, appLogger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 11. Start HTTP Server
	router := mux.NewRouter()
	router.Use(middleware.Recovery(appLogger), middleware.Logging(appLogger), middleware.SecurityHeaders)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(verifier.Middleware(func(w http.ResponseWriter, r *http.Request) {
		apperr.WriteHTTP(w, r, tr, apperr.ErrUnauthenticated)
	}))
	catH.NewHTTPHandler(catUC, tr, appLogger).Register(api)
	prodH.NewHTTPHandler(prodUC, tr, appLogger).Register(api)
	invH.NewHTTPHandler(invUC, tr, appLogger).Register(api)
	saleH.NewHTTPHandler(saleUC, tr, appLogger).Register(api)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
	})

	httpPort := normalizePort(cfg.Server.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpPort,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// 12. Register with Consul
	var consul *discovery.ConsulClient
	if cfg.Consul.Enabled {
		consul, err = discovery.NewConsulClient(cfg.Consul.Address)
		if err != nil {
			appLogger.Warn("Could not create Consul client", zap.Error(err))
		} else {
			_, portStr, _ := net.SplitHostPort(grpcPort)
			port, _ := strconv.Atoi(portStr)
			if err := consul.RegisterGRPCService(cfg.Consul.ServiceID, cfg.Consul.ServiceName, port); err != nil {
				appLogger.Warn("Could not register with Consul", zap.Error(err))
				consul = nil
			} else {
				appLogger.Info("Registered with Consul", zap.String("service_id", cfg.Consul.ServiceID))
			}
		}
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if consul != nil {
		if err := consul.DeregisterService(cfg.Consul.ServiceID); err != nil {
			appLogger.Warn("Could not deregister from Consul", zap.Error(err))
		}
	}
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
