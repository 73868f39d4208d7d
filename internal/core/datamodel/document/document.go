package document

import "time"

// Document is one stored record of a collection. Seq follows insertion order
// and drives listing order.
type Document struct {
	Seq        int64     `gorm:"column:seq;primaryKey;autoIncrement"`
	Collection string    `gorm:"column:collection;not null;uniqueIndex:idx_documents_collection_key"`
	Key        string    `gorm:"column:doc_key;not null;uniqueIndex:idx_documents_collection_key"`
	Body       string    `gorm:"column:body;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
