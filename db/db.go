// Package db opens the document store database and applies its embedded
// goose migrations.
package db

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var migrations embed.FS

const migrationTable = "schema_migrations"

// sqlDriverName maps a configured driver to its database/sql name. The
// sqlite3 driver is registered by gorm.io/driver/sqlite.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case internal.DriverPostgres:
		return "pgx", nil
	case internal.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

func gooseDialect(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Open connects with sqlx, applies pool settings and pings.
func Open(cfg internal.DocStoreConfig) (*sqlx.DB, error) {
	name, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dbConn, err := sqlx.Connect(name, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == internal.DriverSQLite && cfg.Source == ":memory:" {
		maxOpen = 1
	}
	dbConn.SetMaxOpenConns(maxOpen)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

// Gorm wraps an open connection; gorm never owns or closes it.
func Gorm(dbConn *sqlx.DB, driver string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case internal.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: dbConn.DB})
	case internal.DriverSQLite:
		dialector = &sqlite.Dialector{Conn: dbConn.DB}
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	level := gormlogger.Silent
	if debug {
		level = gormlogger.Info
	}
	return gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
}

// Migrate runs the goose command ("up", "down", "status", ...) for driver.
func Migrate(ctx context.Context, dbConn *sqlx.DB, driver, command string, logger *slog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetTableName(migrationTable)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	dir := "migrations/" + driver
	if err := goose.RunContext(ctx, command, dbConn.DB, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}
