// Command catalog_seed loads products into the catalog database. It reads
// SEED_FILE when set and the built-in product list otherwise.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"labanita/internal/config"
	applogger "labanita/internal/logger"
	"labanita/internal/repositories"
	rediscache "labanita/internal/repositories/cache"
	"labanita/internal/services/catalog"

	"go.uber.org/zap"
)

//go:embed products.json
var defaultProducts []byte

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applogger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	items, err := loadItems(config.GetEnv("SEED_FILE", ""))
	if err != nil {
		log.Fatal("failed to read seed data", zap.Error(err))
	}

	db, err := repositories.OpenPostgres(repositories.DBConfig{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	if err := repositories.Migrate(db); err != nil {
		log.Fatal("failed to migrate catalog", zap.Error(err))
	}

	// Seeding clears cached listings so the server sees the new products.
	var productCache catalog.Cache
	if cfg.StorageDriver == config.StorageRedis {
		client := rediscache.NewRedisClient(&rediscache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cacheSvc := rediscache.NewCacheService(client, 10*time.Minute)
		defer cacheSvc.Close()
		productCache = cacheSvc
	}

	svc := catalog.NewService(repositories.NewProductRepository(db), productCache, 0, log.Named("catalog"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.Seed(ctx, items)
	if err != nil {
		log.Fatal("seeding stopped", zap.Int("inserted", n), zap.Error(err))
	}
	log.Info("catalog seeded", zap.Int("products", n))
}

func loadItems(path string) ([]catalog.SeedProduct, error) {
	raw := defaultProducts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	var items []catalog.SeedProduct
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return items, nil
}
