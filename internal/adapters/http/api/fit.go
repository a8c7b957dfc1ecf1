// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matchweek/refassign/internal/adapters/repository"
)

// FitHandler handles interactive per-pair scoring requests.
type FitHandler struct {
	deps Dependencies
}

// NewFitHandler creates a new fit handler.
func NewFitHandler(deps Dependencies) *FitHandler {
	return &FitHandler{deps: deps}
}

// HandleGetFit handles GET /fit?fixture_id=&official_id=[&debug=1] requests.
func (h *FitHandler) HandleGetFit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	fixtureID := r.URL.Query().Get("fixture_id")
	officialID := r.URL.Query().Get("official_id")
	if fixtureID == "" || officialID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: fixture_id and official_id are required", ErrBadRequest))
		return
	}
	debug := r.URL.Query().Get("debug") == "1"

	result, err := h.deps.ScoreFit(r.Context(), fixtureID, officialID, debug)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
