package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/finance-tracker/db"
	"github.com/frahmantamala/finance-tracker/internal/docstore"
	docstorerepo "github.com/frahmantamala/finance-tracker/internal/docstore/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var docstoreMigrate bool

var docstoreCmd = &cobra.Command{
	Use:   "docstore",
	Short: "Start the local document store",
	Long:  `Serve the JSON document store the tracker reads and writes, backed by sqlite or postgres`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startDocStore(); err != nil {
			fmt.Fprintf(os.Stderr, "docstore: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	docstoreCmd.Flags().BoolVar(&docstoreMigrate, "migrate", true, "apply pending migrations before serving")
}

func startDocStore() error {
	cfg, lg, err := bootstrap()
	if err != nil {
		return err
	}
	lg = lg.With("component", "docstore")

	dbConn, err := db.Open(cfg.DocStore)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if docstoreMigrate {
		if err := db.Migrate(context.Background(), dbConn, cfg.DocStore.Driver, "up", lg); err != nil {
			return err
		}
	}

	gormDB, err := db.Gorm(dbConn, cfg.DocStore.Driver, lg.Enabled(context.Background(), slog.LevelDebug))
	if err != nil {
		return fmt.Errorf("failed to initialize gorm: %w", err)
	}

	service := docstore.NewService(docstorerepo.NewDocumentRepository(gormDB), lg)
	handler := docstore.NewHandler(transport.NewBaseHandler(lg), service)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg))
	router.Use(middleware.RecoveryMiddleware(lg))
	handler.Routes(router)

	server := newHTTPServer(cfg.Server, cfg.DocStore.Port, router)
	lg.Info("Starting document store", "address", server.Addr, "driver", cfg.DocStore.Driver)

	runServer(server, lg, nil)
	return nil
}
