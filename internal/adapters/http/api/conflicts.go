// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matchweek/refassign/internal/adapters/repository"
	"github.com/matchweek/refassign/internal/domain/fit"
)

// ConflictsHandler surfaces the stable flag vocabulary for one pair so
// other layers can render colored indicators.
type ConflictsHandler struct {
	deps Dependencies
}

// NewConflictsHandler creates a new conflicts handler.
func NewConflictsHandler(deps Dependencies) *ConflictsHandler {
	return &ConflictsHandler{deps: deps}
}

type conflictsResponse struct {
	FixtureID  string     `json:"fixture_id"`
	OfficialID string     `json:"official_id"`
	Flags      []fit.Flag `json:"flags"`
}

// HandleGetConflicts handles GET /conflicts?fixture_id=&official_id= requests.
func (h *ConflictsHandler) HandleGetConflicts(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.deps.ScoreFit(r.Context(), fixtureID, officialID, false)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	flags := result.Flags
	if flags == nil {
		flags = []fit.Flag{}
	}
	writeJSON(w, http.StatusOK, conflictsResponse{
		FixtureID:  fixtureID,
		OfficialID: officialID,
		Flags:      flags,
	})
}
