package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/api"
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/state"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/view"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server exposing the tracker pages and form actions`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	State  *state.State
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	server := newHTTPServer(deps.Config.Server, deps.Config.Server.Port, deps.Router)
	deps.Logger.Info("Starting HTTP server", "address", server.Addr, "remote_store", deps.Config.Store.BaseURL)

	runServer(server, deps.Logger, nil)
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		View:        view.NewHandler(base, deps.State, time.Local),
		Category:    category.NewHandler(base, deps.State.Categories),
		Transaction: transaction.NewHandler(base, deps.State.Transactions),
		Health:      rest.NewHealthHandler(deps.State),
		OpenAPI:     api.OpenAPI,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, lg, err := bootstrap()
	if err != nil {
		return nil, err
	}

	if _, err := api.Load(context.Background()); err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	subscribeChangeLog(bus, lg)

	st := newState(config, lg, bus.Detached())

	return &Dependencies{
		Config: config,
		State:  st,
		Bus:    bus,
		Router: chi.NewRouter(),
		Logger: lg,
	}, nil
}

func newHTTPServer(cfg internal.ServerConfig, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// runServer blocks until SIGINT/SIGTERM or a listen error, then shuts down.
// onShutdown runs after the server stopped accepting requests.
func runServer(server *http.Server, lg *slog.Logger, onShutdown func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		if onShutdown != nil {
			onShutdown()
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Server stopped")
}
