package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emene-hs/smartgrade/internal/assignment"
	authmw "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/cache"
	"github.com/emene-hs/smartgrade/internal/rbac"
)

// POST /assignments/{assignmentID}/submissions
// Body: {"answers": {"0": "...", "1": "..."}} keyed by question position.
// Grading happens synchronously; the graded submission comes back in the
// response so the student sees their score immediately.
func SubmitAnswersHandler(store assignment.Store, reports *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID := chi.URLParam(r, "assignmentID")
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req struct {
			Answers map[int]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}

		sub, err := store.SaveSubmission(r.Context(), assignmentID, studentID, req.Answers)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reports.Invalidate(r.Context(), "report:*")
		writeJSON(w, http.StatusCreated, sub)
	}
}

// GET /submissions/{submissionID}
// Students may only read their own; teachers and admins read any.
func GetSubmissionHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		sub, err := store.GetSubmission(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if role != "teacher" && role != "admin" && sub.StudentID != authmw.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// GET /submissions?assignment_id=&student_id=&limit=&offset=
// Students are pinned to their own submissions no matter what they ask for.
func ListSubmissionsHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := assignment.SubmissionListOpts{
			AssignmentID: strings.TrimSpace(q.Get("assignment_id")),
			StudentID:    strings.TrimSpace(q.Get("student_id")),
			Limit:        parseIntDefault(q.Get("limit"), 50),
			Offset:       parseIntDefault(q.Get("offset"), 0),
		}
		role := rbac.RoleFromContext(r.Context())
		if role != "teacher" && role != "admin" {
			opts.StudentID = authmw.SubjectFromContext(r.Context())
		}
		list, err := store.ListSubmissions(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
