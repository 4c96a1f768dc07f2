package tournament

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-arena/internal/common"
)

// Handler exposes public tournament endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/v1/tournaments with game/tier/status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "tournament service not configured", nil)
		return
	}
	q := r.URL.Query()
	filter := Filter{
		Game:   strings.TrimSpace(q.Get("game")),
		Tier:   strings.TrimSpace(q.Get("tier")),
		Status: strings.TrimSpace(q.Get("status")),
	}
	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list tournaments", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// Detail handles GET /api/v1/tournaments/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "tournament service not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "TOURNAMENT_NOT_FOUND", "tournament not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load tournament", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": t})
}
