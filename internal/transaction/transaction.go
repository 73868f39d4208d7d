package transaction

import (
	"fmt"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/remote"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// CreatedAtLayout is the stored timestamp format, always UTC.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Transaction struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"categoryId"`
	Type       Type    `json:"type"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"createdAt"`
}

// Record is the stored field set; the id is the document key, never a field.
type Record struct {
	CategoryID string  `json:"categoryId"`
	Type       Type    `json:"type"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"createdAt"`
}

func (t Transaction) ToRecord() Record {
	return Record{
		CategoryID: t.CategoryID,
		Type:       t.Type,
		Amount:     t.Amount,
		CreatedAt:  t.CreatedAt,
	}
}

func FromRecord(id string, r Record) Transaction {
	return Transaction{
		ID:         id,
		CategoryID: r.CategoryID,
		Type:       r.Type,
		Amount:     r.Amount,
		CreatedAt:  r.CreatedAt,
	}
}

func FromDocument(doc remote.Document) (Transaction, error) {
	var r Record
	if err := doc.Decode(&r); err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: %w", doc.ID, err)
	}
	return FromRecord(doc.ID, r), nil
}

// FormatCreatedAt renders t in the stored timestamp format.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// ParseCreatedAt accepts the stored format and any RFC 3339 timestamp.
func ParseCreatedAt(value string) (time.Time, error) {
	if t, err := time.Parse(CreatedAtLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func indexOf(items []Transaction, id string) int {
	for i, t := range items {
		if t.ID == id {
			return i
		}
	}
	return -1
}
