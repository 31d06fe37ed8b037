package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config aggregates everything the server needs at startup.
type Config struct {
	Port        string
	Env         string
	CORSOrigins string

	StorageDriver    string
	StorageNamespace string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	CatalogEnabled bool
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string

	DeliveryFee        float64
	MinOrderAmount     float64
	MaxQuantityPerItem int
}

// Storage drivers
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found", zap.Error(err))
	}
}

// Load reads the process environment into a Config.
func Load() Config {
	return Config{
		Port:        GetEnv("PORT", "3000"),
		Env:         GetEnv("ENV", "development"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:8081"),

		StorageDriver:    strings.ToLower(GetEnv("STORAGE_DRIVER", StorageRedis)),
		StorageNamespace: GetEnv("STORAGE_NAMESPACE", "@LabanetaSweets"),

		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),

		CatalogEnabled: GetBoolEnv("CATALOG_ENABLED", true),
		DBHost:         GetEnv("DB_HOST", "localhost"),
		DBUser:         GetEnv("DB_USER", "postgres"),
		DBPassword:     GetEnv("DB_PASSWORD", "postgres"),
		DBName:         GetEnv("DB_NAME", "labanita_db"),
		DBPort:         GetEnv("DB_PORT", "5432"),

		DeliveryFee:        GetFloatEnv("DELIVERY_FEE", 8),
		MinOrderAmount:     GetFloatEnv("MIN_ORDER_AMOUNT", 50),
		MaxQuantityPerItem: GetIntEnv("MAX_QUANTITY_PER_ITEM", 99),
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetFloatEnv returns a float environment variable or a default value.
func GetFloatEnv(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
