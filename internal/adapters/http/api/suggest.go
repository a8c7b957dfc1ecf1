// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matchweek/refassign/internal/domain/suggest"
)

const dateLayout = "2006-01-02"

// SuggestHandler streams weekend assignment proposals as NDJSON: one line
// per weekend window, then a terminal summary line. Each line is flushed
// so a bulk-assignment UI can show progress while later windows compute.
type SuggestHandler struct {
	deps Dependencies
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(deps Dependencies) *SuggestHandler {
	return &SuggestHandler{deps: deps}
}

// Stream line shapes. Exactly one payload field is set, discriminated by Type.
type suggestLine struct {
	Type    string                `json:"type"` // window, summary or error
	Window  *suggest.WindowResult `json:"window,omitempty"`
	Summary *suggest.Summary      `json:"summary,omitempty"`
	Message string                `json:"message,omitempty"`
}

// HandleGetSuggest handles GET /suggest?from=&to= requests. Both dates are
// optional; omitting them selects the default upcoming weekends.
func (h *SuggestHandler) HandleGetSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	// The request context cancels the run when the client disconnects, so
	// a closed connection stops further window processing.
	for event := range h.deps.Suggest(r.Context(), from, to) {
		var line suggestLine
		switch {
		case event.Err != nil:
			// Windows already streamed stand; the error terminates the run.
			line = suggestLine{Type: "error", Message: event.Err.Error()}
		case event.Window != nil:
			line = suggestLine{Type: "window", Window: event.Window}
		case event.Summary != nil:
			line = suggestLine{Type: "summary", Summary: event.Summary}
		default:
			continue
		}
		if err := enc.Encode(line); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		if event.Err != nil {
			return
		}
	}
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return time.Time{}, time.Time{}, nil
	}
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to must be given together", ErrBadRequest)
	}
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid from; must be YYYY-MM-DD", ErrBadRequest)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid to; must be YYYY-MM-DD", ErrBadRequest)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must not precede from", ErrBadRequest)
	}
	return from, to, nil
}
