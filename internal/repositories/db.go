// Package repositories provides data access layer implementations: the
// key-value stores behind the device-local records and the postgres-backed
// product catalog.
package repositories

import (
	"fmt"
	"log"
	"os"
	"time"

	"labanita/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig holds the connection settings and pool sizes of the catalog
// database.
type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// WithPoolDefaults fills unset pool settings.
func (c DBConfig) WithPoolDefaults() DBConfig {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 30 * time.Minute
	}
	return c
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// OpenPostgres connects to the catalog database and configures the pool.
func OpenPostgres(cfg DBConfig) (*gorm.DB, error) {
	cfg = cfg.WithPoolDefaults()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: gormLogger()})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

// gormLogger only reports slow queries and errors; missing rows are normal.
func gormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

// CloseDB releases the connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
