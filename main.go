// Package main provides the main entry point for the EcoLCA calculation service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/ecolca/app/handlers"
	"github.com/amirphl/ecolca/app/router"
	"github.com/amirphl/ecolca/app/services"
	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/config"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/logging"
	"github.com/amirphl/ecolca/migrations"
	"github.com/amirphl/ecolca/repository"
	"github.com/amirphl/ecolca/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	logger    *zap.Logger
	db        *gorm.DB
	cache     *redis.Client
	stopFuncs []func()
}

func main() {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting EcoLCA application...",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version),
		zap.String("commit", cfg.Deployment.CommitHash),
	)

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		serverErr <- app.router.Start(address)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	app.close()

	logger.Info("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	if cfg.AutoMigrate {
		applied, err := migrations.Up(context.Background(), sqlDB)
		if err != nil {
			return nil, err
		}
		logger.Info("Database migrations applied", zap.Int64s("versions", applied))
	}

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity.
// A nil client means caching is off.
func initializeCache(cfg config.CacheConfig, logger *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("url", cfg.RedisURL), zap.Int("db", cfg.RedisDB))
	return rc, nil
}

// startCacheHealthMonitor periodically pings Redis to surface connectivity issues.
// The returned function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *zap.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(monitorCtx, 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Warn("Redis healthcheck failed", zap.Error(err))
				}
				c()
			}
		}
	}()
	return cancel
}

func initializeApplication(cfg *config.ProductionConfig, logger *zap.Logger) (*Application, error) {
	db, err := initializeDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{config: cfg, logger: logger, db: db}

	rc, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		// the AI health cache is optional
		logger.Warn("Cache disabled", zap.Error(err))
	}
	if rc != nil {
		app.cache = rc
		app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval, logger))
	}

	assessmentRepo := repository.NewAssessmentRepository(db)
	materialRepo := repository.NewAssessmentMaterialRepository(db)
	factorRepo := repository.NewEmissionFactorRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	table, err := businessflow.LoadFactorTable(ctx, factorRepo, cfg.LCA.SeedFactors, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Emission factor table loaded", zap.Int("materials", table.Len()))

	var aiClient services.AIProcessorClient
	if cfg.AI.Enabled {
		aiClient = services.NewAIProcessorClient(
			cfg.AI.BaseURL,
			cfg.AI.ProcessTimeout,
			cfg.AI.HealthTimeout,
			cfg.AI.RequestsPerSecond,
			cfg.AI.Burst,
		)
	}

	lcaFlow := businessflow.NewLCAFlow(
		lca.NewCalculator(table, cfg.LCA.Parallelism),
		assessmentRepo,
		materialRepo,
		factorRepo,
		db,
		logger,
	)
	aiFlow := businessflow.NewAIFlow(aiClient, table, cfg.AI, rc, cfg.Cache.RedisPrefix, logger)
	dataFlow := businessflow.NewDataFlow(aiFlow, utils.MaxUploadSize, logger)

	app.router = router.NewFiberRouter(cfg, router.Handlers{
		LCA:  handlers.NewLCAHandler(lcaFlow, logger),
		Data: handlers.NewDataHandler(dataFlow, logger),
		AI:   handlers.NewAIHandler(aiFlow, logger),
	}, logger)

	return app, nil
}

func (a *Application) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
