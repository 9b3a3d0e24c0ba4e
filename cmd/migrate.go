package cmd

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/expenses-tracker/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded session store migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	initLogger(cfg)

	db, closeFn, err := openMigrationDB(cfg.Database)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := migrate(db, cfg.Database.Driver, migrateRollback); err != nil {
		return err
	}

	action := "applied"
	if migrateRollback {
		action = "rolled back"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s (%s)\n", action, cfg.Database.Driver)
	return nil
}

// openMigrationDB connects without auto-migrating. Postgres goes through the
// pgx stdlib driver; sqlite reuses the gorm connection.
func openMigrationDB(cfg internal.DatabaseConfig) (*sql.DB, func(), error) {
	if cfg.Driver == internal.DriverPostgres {
		db, err := goose.OpenDBWithDriver("pgx", cfg.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("goose: failed to open DB: %w", err)
		}
		return db, func() { _ = db.Close() }, nil
	}

	cfg.AutoMigrate = false
	gdb, err := initDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		closeDB(gdb)
		return nil, nil, err
	}
	return sqlDB, func() { closeDB(gdb) }, nil
}
