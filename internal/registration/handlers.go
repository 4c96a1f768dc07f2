package registration

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-arena/internal/common"
)

// Handler exposes registration endpoints. All routes require a session.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/tournaments/{id}/registrations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "registration service not configured", nil)
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeInvalidInput, "invalid registration payload", nil)
		return
	}
	reg, err := h.Svc.Create(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": reg})
}

// ListMine handles GET /api/v1/registrations.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "registration service not configured", nil)
		return
	}
	rows, err := h.Svc.ListMine(r.Context())
	if err != nil {
		common.JSONAppError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}
