package http_handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/infrastructure/memory"
	"github.com/baechuer/company-registry/internal/transport/http/response"
)

// MediaHandler serves objects held by the in-memory media store (dev only).
type MediaHandler struct {
	store *memory.MediaStore
}

func NewMediaHandler(store *memory.MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// Get handles GET /media/*.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	obj, ok := h.store.Get(key)
	if !ok {
		response.WriteError(w, r, domain.ErrMediaNotFound())
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}
