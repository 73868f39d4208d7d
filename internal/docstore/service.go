package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/document"
	"github.com/google/uuid"
)

// Entry is a stored record keyed by its id.
type Entry struct {
	Key  string
	Body json.RawMessage
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	newKey func() (string, error)
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		newKey: newTimeOrderedKey,
	}
}

// newTimeOrderedKey returns a UUIDv7 so keys sort by creation time.
func newTimeOrderedKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns the collection in insertion order. An unknown collection is
// empty.
func (s *Service) List(ctx context.Context, collection string) ([]Entry, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, internal.NewInternalError("failed to list documents", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, Entry{Key: d.Key, Body: json.RawMessage(d.Body)})
	}
	return entries, nil
}

// Get returns one record, or ErrDocumentNotFound.
func (s *Service) Get(ctx context.Context, collection, key string) (json.RawMessage, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	doc, err := s.repo.Get(ctx, collection, key)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to read document", err)
	}
	return json.RawMessage(doc.Body), nil
}

// Create stores body under a generated key and returns the key.
func (s *Service) Create(ctx context.Context, collection string, body json.RawMessage) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	compacted, err := compactRecord(body)
	if err != nil {
		return "", err
	}

	key, err := s.newKey()
	if err != nil {
		return "", internal.NewInternalError("failed to generate document key", err)
	}

	doc := &document.Document{Collection: collection, Key: key, Body: compacted}
	if err := s.repo.Create(ctx, doc); err != nil {
		return "", internal.NewInternalError("failed to create document", err)
	}

	s.logger.Info("document created", "collection", collection, "key", key)
	return key, nil
}

// Put replaces or creates the record at key. A null body deletes it.
func (s *Service) Put(ctx context.Context, collection, key string, body json.RawMessage) (json.RawMessage, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if isNull(body) {
		if err := s.Delete(ctx, collection, key); err != nil {
			return nil, err
		}
		return json.RawMessage("null"), nil
	}

	compacted, err := compactRecord(body)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{Collection: collection, Key: key, Body: compacted}
	if err := s.repo.Upsert(ctx, doc); err != nil {
		return nil, internal.NewInternalError("failed to write document", err)
	}

	s.logger.Info("document written", "collection", collection, "key", key)
	return json.RawMessage(compacted), nil
}

// Delete removes the record. Deleting a missing record succeeds.
func (s *Service) Delete(ctx context.Context, collection, key string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, collection, key)
	if err != nil {
		return internal.NewInternalError("failed to delete document", err)
	}

	s.logger.Info("document deleted", "collection", collection, "key", key, "existed", removed)
	return nil
}

// Collections lists the names of collections holding at least one record.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	names, err := s.repo.Collections(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list collections", err)
	}
	return names, nil
}

func isNull(body json.RawMessage) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// compactRecord accepts only JSON objects; records are field sets.
func compactRecord(body json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return "", internal.NewValidationError("record must be a JSON object", internal.ErrCodeValidationFailed)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", internal.NewValidationError("record must be a JSON object", internal.ErrCodeValidationFailed)
	}
	return buf.String(), nil
}
