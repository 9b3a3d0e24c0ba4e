package cmd

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/expenses-tracker/db/migrations"
	"github.com/frahmantamala/expenses-tracker/internal"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const migrationsTable = "schema_migrations"

// initDB opens the session store with the configured driver and, when
// auto_migrate is set, brings the schema up to date.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	default:
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrate(sqlDB, cfg.Driver, false); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// migrate applies the embedded migrations, or rolls back the latest one.
func migrate(db *sql.DB, driver string, rollback bool) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationsTable)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	if rollback {
		if err := goose.Down(db, "."); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func gooseDialect(driver string) string {
	if driver == internal.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}
