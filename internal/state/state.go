// Package state holds the process-wide container of both stores. It is built
// once at the composition root and handed to every view.
package state

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
)

// RemoteAPI is the union of what both stores need from the remote client.
type RemoteAPI interface {
	category.RemoteAPI
	Ping(ctx context.Context) error
}

type State struct {
	Categories   *category.Store
	Transactions *transaction.Store
	remote       RemoteAPI
}

func New(remote RemoteAPI, publisher events.Publisher, logger *slog.Logger, opts ...transaction.StoreOption) *State {
	return &State{
		Categories:   category.NewStore(remote, publisher, logger.With("store", "categories")),
		Transactions: transaction.NewStore(remote, publisher, logger.With("store", "transactions"), opts...),
		remote:       remote,
	}
}

// Ping checks that the remote store answers.
func (s *State) Ping(ctx context.Context) error {
	return s.remote.Ping(ctx)
}

// RefreshAll refreshes categories then transactions. Both calls are made
// even when the first fails; the first error is returned.
func (s *State) RefreshAll(ctx context.Context) error {
	_, catErr := s.Categories.Refresh(ctx)
	_, txErr := s.Transactions.Refresh(ctx)
	if catErr != nil {
		return catErr
	}
	return txErr
}

// Loading reports whether either store has a call in flight.
func (s *State) Loading() bool {
	return s.Categories.Loading() || s.Transactions.Loading()
}
