package http

import (
	"net/http"

	"debiti/internal/core"
)

// handleSummary returns global totals over the filtered transaction
// set. The same filters as the transaction list apply, so the numbers
// always agree with what a filtered list view shows.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	overview, ok := s.buildOverview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		AsOf    string      `json:"as_of"`
		Summary summaryJSON `json:"summary"`
	}{
		AsOf:    overview.AsOf,
		Summary: overview.Summary,
	})
}

func (s *Server) handleSummaryByPerson(w http.ResponseWriter, r *http.Request) {
	overview, ok := s.buildOverview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) buildOverview(w http.ResponseWriter, r *http.Request) (overviewJSON, bool) {
	q, err := parseTransactionQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return overviewJSON{}, false
	}

	var asOf core.Date
	if v := r.URL.Query().Get("as_of"); v != "" {
		if asOf, err = parseDate(v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid as_of date, expected YYYY-MM-DD"})
			return overviewJSON{}, false
		}
	}

	overview, err := s.ledger.BuildOverview(r.Context(), q, asOf)
	if err != nil {
		writeError(w, r, err)
		return overviewJSON{}, false
	}
	return toOverviewJSON(overview), true
}
