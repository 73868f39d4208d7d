// Package view renders the tracker pages as JSON documents built from the
// stores' local collections.
package view

import (
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
)

// DisplayLayout is DD/MM/YYYY HH:mm.
const DisplayLayout = "02/01/2006 15:04"

type TransactionRow struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"`
	Category         string  `json:"category"`
	CategoryID       string  `json:"categoryId"`
	Amount           float64 `json:"amount"`
	CreatedAt        string  `json:"createdAt"`
	CreatedAtDisplay string  `json:"createdAtDisplay"`
}

type HomeView struct {
	Loading      bool               `json:"loading"`
	Empty        bool               `json:"empty"`
	Transactions []TransactionRow   `json:"transactions"`
	Totals       transaction.Totals `json:"totals"`
	Errors       []ViewError        `json:"errors,omitempty"`
}

type CategoriesView struct {
	Loading    bool                `json:"loading"`
	Empty      bool                `json:"empty"`
	Categories []category.Category `json:"categories"`
	Errors     []ViewError         `json:"errors,omitempty"`
}

type SummaryView struct {
	Count  int                `json:"count"`
	Totals transaction.Totals `json:"totals"`
}

type NotFoundView struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// ViewError reports a refresh that failed; the page still renders the last
// known good collection.
type ViewError struct {
	Collection string             `json:"collection"`
	Type       internal.ErrorType `json:"type"`
	Message    string             `json:"message"`
}

func newViewError(collection string, err error) ViewError {
	if appErr, ok := internal.IsAppError(err); ok {
		return ViewError{Collection: collection, Type: appErr.Type, Message: appErr.Message}
	}
	return ViewError{Collection: collection, Type: internal.ErrorTypeInternal, Message: err.Error()}
}

// BuildRows joins transactions to category names. Dangling category ids get
// category.UnknownName and the row is kept.
func BuildRows(categories []category.Category, items []transaction.Transaction, loc *time.Location) []TransactionRow {
	rows := make([]TransactionRow, 0, len(items))
	for _, t := range items {
		rows = append(rows, TransactionRow{
			ID:               t.ID,
			Type:             strings.ToUpper(string(t.Type)),
			Category:         category.NameOf(categories, t.CategoryID),
			CategoryID:       t.CategoryID,
			Amount:           t.Amount,
			CreatedAt:        t.CreatedAt,
			CreatedAtDisplay: FormatDisplay(t.CreatedAt, loc),
		})
	}
	return rows
}

// FormatDisplay renders a stored createdAt in loc. Values that do not parse
// are shown as stored.
func FormatDisplay(createdAt string, loc *time.Location) string {
	ts, err := transaction.ParseCreatedAt(createdAt)
	if err != nil {
		return createdAt
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(DisplayLayout)
}
