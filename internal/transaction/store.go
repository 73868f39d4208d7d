package transaction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/remote"
)

type RemoteAPI interface {
	List(ctx context.Context, collection string) ([]remote.Document, error)
	Create(ctx context.Context, collection string, record interface{}) (string, error)
	Update(ctx context.Context, collection, id string, record interface{}) error
	Remove(ctx context.Context, collection, id string) (string, error)
}

type Snapshot struct {
	Items   []Transaction
	Totals  Totals
	Loading bool
	Err     error
}

type StoreOption func(*Store)

// WithClock replaces the wall clock used to stamp createdAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// Store mirrors the remote transactions collection with the same
// call-then-patch shape as the category store. createdAt is stamped here at
// add time and never touched afterwards.
type Store struct {
	remote    RemoteAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	items   []Transaction
	loading bool
	lastErr error
}

func NewStore(remote RemoteAPI, publisher events.Publisher, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		remote:    remote,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		items:     make([]Transaction, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Refresh(ctx context.Context) ([]Transaction, error) {
	s.begin()

	docs, err := s.remote.List(ctx, remote.CollectionTransactions)
	if err != nil {
		return nil, s.fail("refresh", "", err)
	}

	items := make([]Transaction, 0, len(docs))
	for _, doc := range docs {
		t, err := FromDocument(doc)
		if err != nil {
			return nil, s.fail("refresh", doc.ID,
				internal.NewRemoteError("failed to decode transaction record", internal.ErrCodeRemoteDecode, 0, err))
		}
		items = append(items, t)
	}

	s.commit(ctx, events.OperationRefresh, "", func() {
		s.items = items
	})

	s.logger.Info("transactions refreshed", "count", len(items))
	return cloneItems(items), nil
}

// Add stamps createdAt, posts the record and appends the result locally.
func (s *Store) Add(ctx context.Context, txType Type, amount float64, categoryID string) (Transaction, error) {
	dto := CreateTransactionDTO{Type: txType, Amount: amount, CategoryID: categoryID}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("transaction validation failed", "error", err)
		return Transaction{}, err
	}

	s.begin()

	rec := Record{
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		CreatedAt:  FormatCreatedAt(s.now()),
	}
	id, err := s.remote.Create(ctx, remote.CollectionTransactions, rec)
	if err != nil {
		return Transaction{}, s.fail("add", "", err)
	}

	created := FromRecord(id, rec)
	s.commit(ctx, events.OperationAdd, id, func() {
		s.items = append(s.items, created)
	})

	s.logger.Info("transaction created",
		"id", id,
		"type", txType,
		"amount", amount,
		"category_id", categoryID)
	return created, nil
}

// Update writes the full record. createdAt is whatever the caller passes;
// the store does not look up the original.
func (s *Store) Update(ctx context.Context, id string, txType Type, amount float64, categoryID, createdAt string) (Transaction, error) {
	dto := UpdateTransactionDTO{Type: txType, Amount: amount, CategoryID: categoryID, CreatedAt: createdAt}
	if err := dto.Validate(id); err != nil {
		s.logger.Warn("transaction validation failed", "id", id, "error", err)
		return Transaction{}, err
	}

	s.begin()

	updated := Transaction{
		ID:         id,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		CreatedAt:  createdAt,
	}
	if err := s.remote.Update(ctx, remote.CollectionTransactions, id, updated.ToRecord()); err != nil {
		return Transaction{}, s.fail("update", id, err)
	}

	found := true
	s.commit(ctx, events.OperationUpdate, id, func() {
		idx := indexOf(s.items, id)
		if idx == -1 {
			found = false
			return
		}
		s.items[idx] = updated
	})

	if !found {
		s.logger.Warn("updated transaction is not in the local collection", "id", id)
	} else {
		s.logger.Info("transaction updated", "id", id, "amount", amount)
	}
	return updated, nil
}

func (s *Store) Remove(ctx context.Context, id string) (string, error) {
	if err := ValidateRemoveID(id); err != nil {
		s.logger.Warn("transaction validation failed", "id", id, "error", err)
		return "", err
	}

	s.begin()

	removedID, err := s.remote.Remove(ctx, remote.CollectionTransactions, id)
	if err != nil {
		return "", s.fail("remove", id, err)
	}

	s.commit(ctx, events.OperationRemove, removedID, func() {
		kept := make([]Transaction, 0, len(s.items))
		for _, t := range s.items {
			if t.ID != removedID {
				kept = append(kept, t)
			}
		}
		s.items = kept
	})

	s.logger.Info("transaction removed", "id", removedID)
	return removedID, nil
}

func (s *Store) Items() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Find(id string) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := indexOf(s.items, id); idx != -1 {
		return s.items[idx], true
	}
	return Transaction{}, false
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Totals recomputes the aggregate from the current local collection.
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeTotals(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:   cloneItems(s.items),
		Totals:  ComputeTotals(s.items),
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *Store) fail(op, id string, err error) error {
	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	s.mu.Unlock()

	s.logger.Error("transaction operation failed", "operation", op, "id", id, "error", err)
	return err
}

func (s *Store) commit(ctx context.Context, op events.Operation, id string, patch func()) {
	s.mu.Lock()
	patch()
	s.loading = false
	s.lastErr = nil
	count := len(s.items)
	s.mu.Unlock()

	if s.publisher == nil {
		return
	}
	ev := events.NewCollectionChangedEvent(events.EventTypeTransactionsChanged, remote.CollectionTransactions, op, id, count)
	if err := s.publisher.PublishSync(ctx, ev); err != nil {
		s.logger.Warn("transactions change listener failed", "operation", op, "error", err)
	}
}

func cloneItems(items []Transaction) []Transaction {
	out := make([]Transaction, len(items))
	copy(out, items)
	return out
}
