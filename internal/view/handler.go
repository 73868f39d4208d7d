package view

import (
	"net/http"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/remote"
	"github.com/frahmantamala/finance-tracker/internal/state"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	State    *state.State
	Location *time.Location
}

// NewHandler returns the page handlers. A nil loc renders times in UTC.
func NewHandler(baseHandler *transport.BaseHandler, st *state.State, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		BaseHandler: baseHandler,
		State:       st,
		Location:    loc,
	}
}

// Home refreshes both stores and renders the transaction list with totals.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var viewErrors []ViewError
	if _, err := h.State.Categories.Refresh(ctx); err != nil {
		h.Logger.Warn("Home: categories refresh failed", "error", err)
		viewErrors = append(viewErrors, newViewError(remote.CollectionCategories, err))
	}
	if _, err := h.State.Transactions.Refresh(ctx); err != nil {
		h.Logger.Warn("Home: transactions refresh failed", "error", err)
		viewErrors = append(viewErrors, newViewError(remote.CollectionTransactions, err))
	}

	categories := h.State.Categories.Snapshot()
	transactions := h.State.Transactions.Snapshot()

	h.WriteJSON(w, http.StatusOK, HomeView{
		Loading:      categories.Loading || transactions.Loading,
		Empty:        len(transactions.Items) == 0,
		Transactions: BuildRows(categories.Items, transactions.Items, h.Location),
		Totals:       transactions.Totals,
		Errors:       viewErrors,
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	var viewErrors []ViewError
	if _, err := h.State.Categories.Refresh(r.Context()); err != nil {
		h.Logger.Warn("Categories: refresh failed", "error", err)
		viewErrors = append(viewErrors, newViewError(remote.CollectionCategories, err))
	}

	snap := h.State.Categories.Snapshot()
	h.WriteJSON(w, http.StatusOK, CategoriesView{
		Loading:    snap.Loading,
		Empty:      len(snap.Items) == 0,
		Categories: snap.Items,
		Errors:     viewErrors,
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusNotFound, NotFoundView{
		Message: "page not found",
		Path:    r.URL.Path,
	})
}

// Summary refreshes transactions and returns the totals only.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	items, err := h.State.Transactions.Refresh(r.Context())
	if err != nil {
		h.Logger.Error("Summary: transactions refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SummaryView{
		Count:  len(items),
		Totals: transaction.ComputeTotals(items),
	})
}
