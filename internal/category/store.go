package category

import (
	"context"
	"log/slog"
	"sync"

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

// Snapshot is a consistent copy of the store state for rendering.
type Snapshot struct {
	Items   []Category
	Loading bool
	Err     error
}

// Store mirrors the remote categories collection. Every operation is one
// remote call followed by a local patch; overlapping operations are not
// coordinated and the last one to settle decides the loading flag.
type Store struct {
	remote    RemoteAPI
	publisher events.Publisher
	logger    *slog.Logger

	mu      sync.RWMutex
	items   []Category
	loading bool
	lastErr error
}

// NewStore returns an empty store. publisher may be nil.
func NewStore(remote RemoteAPI, publisher events.Publisher, logger *slog.Logger) *Store {
	return &Store{
		remote:    remote,
		publisher: publisher,
		logger:    logger,
		items:     make([]Category, 0),
	}
}

// Refresh replaces the local collection with the remote one.
func (s *Store) Refresh(ctx context.Context) ([]Category, error) {
	s.begin()

	docs, err := s.remote.List(ctx, remote.CollectionCategories)
	if err != nil {
		return nil, s.fail("refresh", "", err)
	}

	items := make([]Category, 0, len(docs))
	for _, doc := range docs {
		c, err := FromDocument(doc)
		if err != nil {
			return nil, s.fail("refresh", doc.ID,
				internal.NewRemoteError("failed to decode category record", internal.ErrCodeRemoteDecode, 0, err))
		}
		items = append(items, c)
	}

	s.commit(ctx, events.OperationRefresh, "", func() {
		s.items = items
	})

	s.logger.Info("categories refreshed", "count", len(items))
	return cloneItems(items), nil
}

// Add creates the category remotely and appends it locally. Validation
// failures return before any remote call.
func (s *Store) Add(ctx context.Context, name string, categoryType CategoryType) (Category, error) {
	dto := CreateCategoryDTO{Name: name, Type: categoryType}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("category validation failed", "error", err)
		return Category{}, err
	}

	s.begin()

	rec := Record{Name: name, Type: categoryType}
	id, err := s.remote.Create(ctx, remote.CollectionCategories, rec)
	if err != nil {
		return Category{}, s.fail("add", "", err)
	}

	created := FromRecord(id, rec)
	s.commit(ctx, events.OperationAdd, id, func() {
		s.items = append(s.items, created)
	})

	s.logger.Info("category created", "id", id, "name", name, "type", categoryType)
	return created, nil
}

// Update writes name and type remotely and replaces the matching local entry
// in place. A remote success with no local match leaves the local collection
// as it is.
func (s *Store) Update(ctx context.Context, id, name string, categoryType CategoryType) (Category, error) {
	dto := UpdateCategoryDTO{Name: name, Type: categoryType}
	if err := dto.Validate(id); err != nil {
		s.logger.Warn("category validation failed", "id", id, "error", err)
		return Category{}, err
	}

	s.begin()

	updated := Category{ID: id, Name: name, Type: categoryType}
	if err := s.remote.Update(ctx, remote.CollectionCategories, id, updated.ToRecord()); err != nil {
		return Category{}, s.fail("update", id, err)
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
		s.logger.Warn("updated category is not in the local collection", "id", id)
	} else {
		s.logger.Info("category updated", "id", id)
	}
	return updated, nil
}

// Remove deletes the category remotely and drops it locally. Transactions
// referencing it are left alone.
func (s *Store) Remove(ctx context.Context, id string) (string, error) {
	if err := ValidateRemoveID(id); err != nil {
		s.logger.Warn("category validation failed", "id", id, "error", err)
		return "", err
	}

	s.begin()

	removedID, err := s.remote.Remove(ctx, remote.CollectionCategories, id)
	if err != nil {
		return "", s.fail("remove", id, err)
	}

	s.commit(ctx, events.OperationRemove, removedID, func() {
		kept := make([]Category, 0, len(s.items))
		for _, c := range s.items {
			if c.ID != removedID {
				kept = append(kept, c)
			}
		}
		s.items = kept
	})

	s.logger.Info("category removed", "id", removedID)
	return removedID, nil
}

func (s *Store) Items() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:   cloneItems(s.items),
		Loading: s.loading,
		Err:     s.lastErr,
	}
}

func (s *Store) Find(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := indexOf(s.items, id); idx != -1 {
		return s.items[idx], true
	}
	return Category{}, false
}

// NameOf returns the category name or UnknownName.
func (s *Store) NameOf(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NameOf(s.items, id)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

// fail settles a call that never reached the local patch; the collection
// keeps its last known good contents.
func (s *Store) fail(op, id string, err error) error {
	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	s.mu.Unlock()

	s.logger.Error("category operation failed", "operation", op, "id", id, "error", err)
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
	ev := events.NewCollectionChangedEvent(events.EventTypeCategoriesChanged, remote.CollectionCategories, op, id, count)
	if err := s.publisher.PublishSync(ctx, ev); err != nil {
		s.logger.Warn("categories change listener failed", "operation", op, "error", err)
	}
}

func cloneItems(items []Category) []Category {
	out := make([]Category, len(items))
	copy(out, items)
	return out
}
