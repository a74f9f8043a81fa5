package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/order-desk/internal/adapter/catalog"
	"github.com/rl1809/order-desk/internal/adapter/handler"
	"github.com/rl1809/order-desk/internal/adapter/storage"
	"github.com/rl1809/order-desk/internal/config"
	"github.com/rl1809/order-desk/internal/core/report"
	"github.com/rl1809/order-desk/internal/core/service"
)

func main() {
	configPath := pflag.String("config", "", "path to the YAML configuration file")
	catalogPath := pflag.String("catalog", "", "path to the YAML catalog (overrides the configuration)")
	pflag.Parse()

	boot, _ := zap.NewProduction()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		boot.Fatal("failed to create logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load catalog
	c, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("articles", c.Articles.Count()),
		zap.Int("customers", c.Customers.Count()))

	queueSize := 0
	if cfg.LedgerEnabled() {
		queueSize = cfg.Queue.Size
	}
	opts := []service.Option{service.WithPrinter(report.NewPrinter(report.NewFormatter(cfg.Catalog.Currency)))}

	// Initialize Redis
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		opts = append(opts, service.WithStockCache(storage.NewRedisAdapter(rdb,
			storage.WithNamespace(cfg.Redis.Namespace),
			storage.WithIdempotencyTTL(cfg.Redis.IdempotencyTTL))))
	}

	// Initialize service
	orderService, err := service.NewOrderService(c.Inventory, service.Repositories{
		Accepted:  storage.NewOrderRepository(),
		Articles:  c.Articles,
		Customers: c.Customers,
	}, queueSize, logger, opts...)
	if err != nil {
		logger.Fatal("failed to create order service", zap.Error(err))
	}

	// Sync stock to Redis
	if err := orderService.SyncStock(ctx); err != nil {
		logger.Fatal("failed to sync stock", zap.Error(err))
	}

	// Initialize MySQL ledger and start export workers
	var db *sql.DB
	var exporter *service.Exporter
	if cfg.LedgerEnabled() {
		db, err = sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		ledger := storage.NewMySQLAdapter(db)
		if err := ledger.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare ledger", zap.Error(err))
		}
		logger.Info("connected to mysql")

		exporter = service.NewExporter(ledger, logger)
		exporter.Start(orderService.ExportQueue(), cfg.Queue.Workers)
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	healthService := handler.NewHealthService()
	healthService.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Initialize HTTP server
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handler.NewHTTPHandler(orderService, logger).Routes(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	healthService.Serving()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	healthService.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	// Close export queue and wait for workers
	orderService.Close()
	if exporter != nil {
		exporter.Wait()
		logger.Info("export workers stopped")
	}

	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	var (
		f   *catalog.File
		err error
	)
	if path == "" {
		f, err = catalog.Sample()
	} else {
		f, err = catalog.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return f.Build()
}
