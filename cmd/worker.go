package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/view"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

// watchCmd keeps a local mirror of the remote store and prints the ledger
// after every successful refresh.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the remote store and print the ledger",
	Long:  `Refresh both collections on an interval and print the transaction list and totals after each refresh`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateWatchInterval(watchInterval)
	},
	Run: func(cmd *cobra.Command, args []string) {
		startWatcher()
	},
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 30*time.Second, "refresh interval")
}

func validateWatchInterval(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}
	return nil
}

func startWatcher() {
	cfg, lg, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(lg)
	st := newState(cfg, lg, bus)

	// a full refresh publishes two events; print once both collections settled
	bus.Subscribe(events.EventTypeTransactionsChanged, func(ctx context.Context, event events.Event) error {
		fmt.Println()
		fmt.Println(headerStyle.Render(time.Now().Format(view.DisplayLayout)))
		printTransactionRows(view.BuildRows(st.Categories.Items(), st.Transactions.Items(), time.Local))
		fmt.Println()
		printTotals(st.Transactions.Totals())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("starting watcher", "remote_store", cfg.Store.BaseURL, "interval", watchInterval)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	refresh := func() {
		if err := st.RefreshAll(ctx); err != nil {
			lg.Warn("refresh failed, keeping last known data", "error", err)
		}
	}
	refresh()

	for {
		select {
		case <-ticker.C:
			refresh()
		case sig := <-sigChan:
			lg.Info("Received signal, shutting down watcher...", "signal", sig)
			return
		}
	}
}
