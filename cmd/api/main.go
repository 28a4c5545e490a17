package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/orderflow-service/config"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/server"
	"github.com/fekuna/orderflow-service/pkg/broker"
	"github.com/fekuna/orderflow-service/pkg/cache"
	"github.com/fekuna/orderflow-service/pkg/database/postgres"
	"github.com/fekuna/orderflow-service/pkg/i18n"
	"github.com/fekuna/orderflow-service/pkg/logger"
	"github.com/fekuna/orderflow-service/pkg/search"

	compH "github.com/fekuna/orderflow-service/internal/company/handler"
	compRepoPkg "github.com/fekuna/orderflow-service/internal/company/repository"
	compUCPkg "github.com/fekuna/orderflow-service/internal/company/usecase"

	identH "github.com/fekuna/orderflow-service/internal/identity/handler"
	identProvider "github.com/fekuna/orderflow-service/internal/identity/provider"
	identRepoPkg "github.com/fekuna/orderflow-service/internal/identity/repository"
	identUCPkg "github.com/fekuna/orderflow-service/internal/identity/usecase"

	prodH "github.com/fekuna/orderflow-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/orderflow-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/orderflow-service/internal/product/usecase"

	custH "github.com/fekuna/orderflow-service/internal/customer/handler"
	custRepoPkg "github.com/fekuna/orderflow-service/internal/customer/repository"
	custUCPkg "github.com/fekuna/orderflow-service/internal/customer/usecase"

	ordH "github.com/fekuna/orderflow-service/internal/order/handler"
	ordRepoPkg "github.com/fekuna/orderflow-service/internal/order/repository"
	ordUCPkg "github.com/fekuna/orderflow-service/internal/order/usecase"

	invH "github.com/fekuna/orderflow-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/orderflow-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/orderflow-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/orderflow-service/internal/inventory/usecase"

	repH "github.com/fekuna/orderflow-service/internal/report/handler"
	repRepoPkg "github.com/fekuna/orderflow-service/internal/report/repository"
	repUCPkg "github.com/fekuna/orderflow-service/internal/report/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	if err := i18n.Init(cfg.I18n.DefaultLanguage); err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		DSN:             cfg.Postgres.DSN(),
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

	// 4. Initialize Repositories
	compRepo := compRepoPkg.NewPGRepository(db)
	userRepo := identRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	custRepo := custRepoPkg.NewPGRepository(db)
	ordRepo := ordRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	repRepo := repRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis (product list cache + stock lock)
	var (
		listCache prodUCPkg.ListCache
		locker    invUCPkg.Locker
	)
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis (cache and stock lock disabled)", zap.Error(err))
		} else {
			defer redisClient.Close()
			listCache, locker = redisClient, redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5.5 Initialize Kafka
	var (
		publisher     events.Publisher
		kafkaConsumer *broker.KafkaConsumer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		ordersProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.OrdersTopic})
		stockProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.StockTopic})
		defer ordersProducer.Close()
		defer stockProducer.Close()
		publisher = events.NewKafkaPublisher(ordersProducer, stockProducer)

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrdersTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("orders_topic", cfg.Kafka.OrdersTopic))
	}

	// 5.8 Initialize Elasticsearch
	var searcher prodUCPkg.Searcher
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (product search falls back to PostgreSQL)", zap.Error(err))
		} else {
			searcher = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize UseCases
	tokens := identProvider.NewLocalProvider(userRepo, identProvider.Config{
		Secret:     cfg.JWT.SecretKey,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	compUC := compUCPkg.NewCompanyUseCase(compRepo, appLogger)
	identUC := identUCPkg.NewIdentityUseCase(tokens, compUC, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, listCache, searcher, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(custRepo, appLogger)
	ordUC := ordUCPkg.NewOrderUseCase(ordRepo, custRepo, prodRepo, publisher, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, locker, publisher, appLogger)
	repUC := repUCPkg.NewReportUseCase(repRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6.5 Start Listeners
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
		go invListener.Start(ctx)
	}

	// 7. Initialize Handlers and Router
	gate := auth.NewGate(tokens, compRepo, appLogger)
	router := server.NewRouter(server.Config{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		RequestBodyLimit: cfg.Server.RequestBodyLimit,
	}, server.Handlers{
		Auth:      identH.NewAuthHandler(identUC, appLogger),
		Company:   compH.NewCompanyHandler(compUC, appLogger),
		Product:   prodH.NewProductHandler(prodUC, appLogger),
		Customer:  custH.NewCustomerHandler(custUC, appLogger),
		Order:     ordH.NewOrderHandler(ordUC, appLogger),
		Inventory: invH.NewInventoryHandler(invUC, appLogger),
		Report:    repH.NewReportHandler(repUC, appLogger),
	}, gate.RequireAuth, db, appLogger)

	// 8. Start HTTP Server
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 9. Start gRPC ops server (health + reflection)
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	go watchDatabase(ctx, db, healthServer, appLogger)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// watchDatabase mirrors Postgres reachability into the gRPC health service.
func watchDatabase(ctx context.Context, db server.Pinger, hs *health.Server, log logger.ZapLogger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if ctx.Err() == nil {
				log.Warn("database ping failed", zap.Error(err))
			}
		}
		cancel()
		if status != last {
			hs.SetServingStatus("", status)
			last = status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
