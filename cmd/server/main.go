// Package main is the entry point for the storefront server. It builds the
// device stores and the product catalog, wires them into the HTTP routes
// and shuts everything down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labanita/internal/config"
	applogger "labanita/internal/logger"
	"labanita/internal/repositories"
	rediscache "labanita/internal/repositories/cache"
	"labanita/internal/routes"
	"labanita/internal/services/address"
	"labanita/internal/services/cart"
	"labanita/internal/services/catalog"
	"labanita/internal/services/checkout"
	"labanita/internal/services/creditcard"
	"labanita/internal/services/user"
	"labanita/internal/services/voucher"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	hydrationTimeout = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
	catalogCacheTTL  = 10 * time.Minute
)

// deviceStore is what main needs from each hydrating store.
type deviceStore interface {
	Start(ctx context.Context)
	WaitReady(ctx context.Context) error
	Close(ctx context.Context) error
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applogger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Key-value storage for the device stores
	var (
		kv       repositories.KeyValueStore
		storage  *rediscache.RedisStore
		cacheSvc *rediscache.CacheService
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		kv = repositories.NewMemoryStore()
	default:
		redisClient := rediscache.NewRedisClient(&rediscache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		storage = rediscache.NewRedisStore(redisClient, 0)
		if err := storage.HealthCheck(ctx); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		log.Info("connected to redis", zap.String("addr", cfg.RedisHost+":"+cfg.RedisPort))
		kv = storage
		cacheSvc = rediscache.NewCacheService(redisClient, catalogCacheTTL)
	}

	now := time.Now
	vouchers := voucher.NewEvaluator(voucher.DefaultCatalog(), now)

	cartCfg := cart.Config{
		Namespace:      cfg.StorageNamespace,
		DeliveryFee:    cfg.DeliveryFee,
		MinOrderAmount: cfg.MinOrderAmount,
		MaxQuantity:    cfg.MaxQuantityPerItem,
	}
	cartStore := cart.NewStore(kv, vouchers, cartCfg, applogger.Named(log, "cart"))
	cardStore := creditcard.NewStore(kv, cfg.StorageNamespace, now, applogger.Named(log, "cards"))
	addressStore := address.NewStore(kv, cfg.StorageNamespace, applogger.Named(log, "address"))
	userStore := user.NewStore(kv, cfg.StorageNamespace, applogger.Named(log, "user"))
	stores := []deviceStore{cartStore, cardStore, addressStore, userStore}

	hydrate(ctx, log, stores)

	checkoutSvc := checkout.NewService(cartStore, addressStore, cardStore, now, applogger.Named(log, "checkout"))

	// Product catalog
	var (
		db         *gorm.DB
		catalogSvc *catalog.Service
	)
	if cfg.CatalogEnabled {
		db, catalogSvc = openCatalog(ctx, cfg, cacheSvc, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      "labanita",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/checkout", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	deps := routes.Deps{
		Cart:      cartStore,
		Vouchers:  vouchers,
		Cards:     cardStore,
		Addresses: addressStore,
		Users:     userStore,
		Checkout:  checkoutSvc,
		Catalog:   catalogSvc,
		Now:       now,
		Logger:    log,
	}
	if storage != nil {
		deps.Storage = storage
	}
	if cacheSvc != nil {
		deps.Pool = cacheSvc
	}
	routes.SetupRoutes(app, deps)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	<-ctx.Done()
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range stores {
		if err := s.Close(closeCtx); err != nil {
			log.Error("failed to flush store", zap.Error(err))
		}
	}
	if db != nil {
		if err := repositories.CloseDB(db); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}
	if cacheSvc != nil {
		if err := cacheSvc.Close(); err != nil {
			log.Error("failed to close redis connection", zap.Error(err))
		}
	}
}

// hydrate starts every store and logs once all have loaded. Requests that
// arrive earlier are turned away by the hydration gate.
func hydrate(ctx context.Context, log *zap.Logger, stores []deviceStore) {
	for _, s := range stores {
		s.Start(ctx)
	}

	go func() {
		waitCtx, cancel := context.WithTimeout(ctx, hydrationTimeout)
		defer cancel()

		started := time.Now()
		g, gctx := errgroup.WithContext(waitCtx)
		for _, s := range stores {
			g.Go(func() error { return s.WaitReady(gctx) })
		}
		if err := g.Wait(); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error("stores did not finish hydrating", zap.Error(err))
			}
			return
		}
		log.Info("stores hydrated", zap.Duration("took", time.Since(started)))
	}()
}

// openCatalog connects to postgres and builds the catalog service. The
// server keeps running without a catalog when the database is unreachable.
func openCatalog(ctx context.Context, cfg config.Config, cacheSvc *rediscache.CacheService, log *zap.Logger) (*gorm.DB, *catalog.Service) {
	db, err := repositories.OpenPostgres(repositories.DBConfig{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Error("catalog disabled: database unavailable", zap.Error(err))
		return nil, nil
	}
	if err := repositories.Migrate(db); err != nil {
		log.Error("catalog disabled: migration failed", zap.Error(err))
		_ = repositories.CloseDB(db)
		return nil, nil
	}
	go logPoolStats(ctx, db, log)

	var productCache catalog.Cache
	if cacheSvc != nil {
		productCache = cacheSvc
	}

	repo := repositories.NewProductRepository(db)
	log.Info("catalog enabled", zap.String("database", cfg.DBName), zap.Bool("cache", productCache != nil))
	return db, catalog.NewService(repo, productCache, catalogCacheTTL, applogger.Named(log, "catalog"))
}

func logPoolStats(ctx context.Context, db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			log.Debug("db pool",
				zap.Int("open", stats.OpenConnections),
				zap.Int("idle", stats.Idle),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait", stats.WaitDuration),
			)
		}
	}
}
