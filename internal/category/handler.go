package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type StoreAPI interface {
	Refresh(ctx context.Context) ([]Category, error)
	Add(ctx context.Context, name string, categoryType CategoryType) (Category, error)
	Update(ctx context.Context, id, name string, categoryType CategoryType) (Category, error)
	Remove(ctx context.Context, id string) (string, error)
	Loading() bool
}

// Handler exposes the category form actions over JSON.
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

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.Refresh(r.Context())
	if err != nil {
		h.Logger.Error("ListCategories: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
		Loading:    h.Store.Loading(),
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	created, err := h.Store.Add(r.Context(), dto.Name, dto.Type)
	if err != nil {
		h.Logger.Error("CreateCategory: store error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Store.Update(r.Context(), id, dto.Name, dto.Type)
	if err != nil {
		h.Logger.Error("UpdateCategory: store error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.Store.Remove(r.Context(), id)
	if err != nil {
		h.Logger.Error("DeleteCategory: store error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeletedResponse{ID: removed})
}
