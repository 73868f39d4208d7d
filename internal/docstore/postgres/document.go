package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/document"
	"github.com/frahmantamala/finance-tracker/internal/docstore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRepository implements docstore.RepositoryAPI using GORM. The same
// statements run on postgres and sqlite.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) docstore.RepositoryAPI {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Get(ctx context.Context, collection, key string) (*document.Document, error) {
	var doc document.Document
	err := r.db.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, docstore.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Upsert keeps the original seq of an existing key so an overwrite does not
// move the record in listings.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *document.Document) error {
	doc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(doc).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, key string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("collection = ? AND doc_key = ?", collection, key).
		Delete(&document.Document{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *DocumentRepository) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&document.Document{}).
		Distinct("collection").
		Order("collection ASC").
		Pluck("collection", &names).Error
	return names, err
}
