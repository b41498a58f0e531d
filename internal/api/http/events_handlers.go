package http

import (
	"net/http"

	"github.com/emene-hs/smartgrade/internal/eventlog"
)

// GET /events?limit=
// Admin view of the append-only activity log, newest first.
func RecentEventsHandler(events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		list, err := events.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
