package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store and sizes its connection pool.
func Open(cfg *config.Config, log logging.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite, "":
		dialector = sqlite.Open(sqliteDSN(cfg.DatabasePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}

	maxOpen, maxIdle := cfg.DBMaxOpenConns, cfg.DBMaxIdleConns
	if isMemory(cfg) {
		// Every new connection would see its own empty in-memory database.
		maxOpen, maxIdle = 1, 1
		sqlDB.SetConnMaxLifetime(0)
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// Ping checks the store is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

func isMemory(cfg *config.Config) bool {
	return cfg.DatabaseDriver != config.DriverPostgres && strings.Contains(cfg.DatabasePath, ":memory:")
}

// gormWriter forwards gorm's own log lines (slow queries, driver errors) to
// the service logger.
type gormWriter struct {
	log logging.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn(context.Background(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(log logging.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(gormWriter{log: log.With("component", "gorm")}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
