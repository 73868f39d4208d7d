package transaction

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type StoreAPI interface {
	Refresh(ctx context.Context) ([]Transaction, error)
	Add(ctx context.Context, txType Type, amount float64, categoryID string) (Transaction, error)
	Update(ctx context.Context, id string, txType Type, amount float64, categoryID, createdAt string) (Transaction, error)
	Remove(ctx context.Context, id string) (string, error)
	Loading() bool
}

type Handler struct {
	*transport.BaseHandler
	Store StoreAPI
}

func NewHandler(baseHandler *transport.BaseHandler, store StoreAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Store:       store,
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.Refresh(r.Context())
	if err != nil {
		h.Logger.Error("ListTransactions: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TransactionsResponse{
		Transactions: items,
		Totals:       ComputeTotals(items),
		Loading:      h.Store.Loading(),
	})
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto CreateTransactionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	created, err := h.Store.Add(r.Context(), dto.Type, dto.Amount, dto.CategoryID)
	if err != nil {
		h.Logger.Error("CreateTransaction: store error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateTransactionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Store.Update(r.Context(), id, dto.Type, dto.Amount, dto.CategoryID, dto.CreatedAt)
	if err != nil {
		h.Logger.Error("UpdateTransaction: store error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.Store.Remove(r.Context(), id)
	if err != nil {
		h.Logger.Error("DeleteTransaction: store error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeletedResponse{ID: removed})
}
