package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/finance-tracker/db"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the document store migrations under db/migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "to print the applied and pending migrations")
}

func migrationCommand() string {
	switch {
	case migrateRollback:
		return "down"
	case migrateStatus:
		return "status"
	default:
		return "up"
	}
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, lg, err := bootstrap()
	if err != nil {
		log.Fatal(err)
	}

	dbConn, err := db.Open(cfg.DocStore)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer dbConn.Close()

	command := migrationCommand()
	if err := db.Migrate(ctx, dbConn, cfg.DocStore.Driver, command, lg); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
