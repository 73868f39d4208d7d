package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Routes mounts the wire protocol: /.json, /{collection}.json and
// /{collection}/{key}.json.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/*", h.Read)
	r.Post("/*", h.Create)
	r.Put("/*", h.Put)
	r.Delete("/*", h.Delete)
}

type target struct {
	root       bool
	collection string
	key        string
}

func parseTarget(r *http.Request) (target, error) {
	path := chi.URLParam(r, "*")
	if path == "" {
		path = strings.TrimPrefix(r.URL.Path, "/")
	}
	if !strings.HasSuffix(path, ".json") {
		return target{}, internal.NewNotFoundError("path must end in .json", internal.ErrCodeDocumentNotFound)
	}
	path = strings.TrimSuffix(path, ".json")

	if path == "" {
		return target{root: true}, nil
	}

	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		return target{collection: parts[0]}, nil
	case 2:
		return target{collection: parts[0], key: parts[1]}, nil
	default:
		return target{}, internal.NewNotFoundError("nested paths are not supported", internal.ErrCodeDocumentNotFound)
	}
}

func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	switch {
	case t.root:
		h.readRoot(w, r)
	case t.key == "":
		entries, err := h.Service.List(r.Context(), t.collection)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeRaw(w, http.StatusOK, encodeListing(entries))
	default:
		body, err := h.Service.Get(r.Context(), t.collection, t.key)
		if errors.Is(err, ErrDocumentNotFound) {
			h.writeRaw(w, http.StatusOK, []byte("null"))
			return
		}
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		h.writeRaw(w, http.StatusOK, body)
	}
}

// readRoot answers /.json. With shallow=true each collection maps to true,
// otherwise to its full listing.
func (h *Handler) readRoot(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.Collections(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if len(names) == 0 {
		h.writeRaw(w, http.StatusOK, []byte("null"))
		return
	}

	shallow := r.URL.Query().Get("shallow") == "true"
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if shallow {
			entries = append(entries, Entry{Key: name, Body: json.RawMessage("true")})
			continue
		}
		listing, err := h.Service.List(r.Context(), name)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		entries = append(entries, Entry{Key: name, Body: encodeListing(listing)})
	}
	h.writeRaw(w, http.StatusOK, encodeListing(entries))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if t.root || t.key != "" {
		h.writeStoreError(w, internal.NewValidationError("POST is only allowed on a collection", internal.ErrCodeInvalidCollection))
		return
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	key, err := h.Service.Create(r.Context(), t.collection, body)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"name": key})
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if t.key == "" {
		h.writeStoreError(w, internal.NewValidationError("PUT is only allowed on a document", internal.ErrCodeInvalidDocumentKey))
		return
	}

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	stored, err := h.Service.Put(r.Context(), t.collection, t.key, body)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeRaw(w, http.StatusOK, stored)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := parseTarget(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if t.key == "" {
		h.writeStoreError(w, internal.NewValidationError("DELETE is only allowed on a document", internal.ErrCodeInvalidDocumentKey))
		return
	}

	if err := h.Service.Delete(r.Context(), t.collection, t.key); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeRaw(w, http.StatusOK, []byte("null"))
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.Logger.Warn("failed to read request body", "path", r.URL.Path, "error", err)
		h.writeStoreError(w, internal.NewValidationError("request body too large or unreadable", internal.ErrCodeValidationFailed))
		return nil, false
	}
	return body, true
}

func (h *Handler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.Logger.Error("failed to write response", "error", err)
	}
}

// writeStoreError answers in the store's own {"error": "..."} shape.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	if appErr, ok := internal.IsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("document store request failed", "error", err)
	}
	h.WriteJSON(w, status, map[string]string{"error": message})
}

// encodeListing writes entries as one JSON object keeping their order, or
// null when there are none.
func encodeListing(entries []Entry) []byte {
	if len(entries) == 0 {
		return []byte("null")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(e.Key)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(e.Body)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
