// Package docstore is a local implementation of the JSON document store wire
// protocol the tracker talks to. It keeps every collection in one SQL table.
package docstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/document"
)

var ErrDocumentNotFound = errors.New("document not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type RepositoryAPI interface {
	List(ctx context.Context, collection string) ([]*document.Document, error)
	Get(ctx context.Context, collection, key string) (*document.Document, error)
	Create(ctx context.Context, doc *document.Document) error
	Upsert(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, collection, key string) (bool, error)
	Collections(ctx context.Context) ([]string, error)
}

// ValidateCollection rejects names that cannot appear as a single path
// segment of the wire protocol.
func ValidateCollection(name string) error {
	if !namePattern.MatchString(name) {
		return internal.NewValidationError("invalid collection name", internal.ErrCodeInvalidCollection)
	}
	return nil
}

func ValidateKey(key string) error {
	if !namePattern.MatchString(key) {
		return internal.NewValidationError("invalid document key", internal.ErrCodeInvalidDocumentKey)
	}
	return nil
}
