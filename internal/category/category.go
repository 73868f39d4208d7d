package category

import (
	"fmt"

	"github.com/frahmantamala/finance-tracker/internal/remote"
)

type CategoryType string

const (
	TypeIncome  CategoryType = "income"
	TypeExpense CategoryType = "expense"
)

// UnknownName is shown for transactions whose category no longer exists.
const UnknownName = "Unknown"

func (t CategoryType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// Record is the stored field set; the id is the document key, never a field.
type Record struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

func (c Category) ToRecord() Record {
	return Record{
		Name: c.Name,
		Type: c.Type,
	}
}

func FromRecord(id string, r Record) Category {
	return Category{
		ID:   id,
		Name: r.Name,
		Type: r.Type,
	}
}

func FromDocument(doc remote.Document) (Category, error) {
	var r Record
	if err := doc.Decode(&r); err != nil {
		return Category{}, fmt.Errorf("category %s: %w", doc.ID, err)
	}
	return FromRecord(doc.ID, r), nil
}

// NameOf resolves a category id against items, falling back to UnknownName
// for dangling references.
func NameOf(items []Category, id string) string {
	for _, c := range items {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownName
}

func indexOf(items []Category, id string) int {
	for i, c := range items {
		if c.ID == id {
			return i
		}
	}
	return -1
}
