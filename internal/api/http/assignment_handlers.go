package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emene-hs/smartgrade/internal/assignment"
	authmw "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/rbac"
)

// POST /assignments
func CreateAssignmentHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a assignment.Assignment
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(a.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if len(a.Questions) == 0 {
			http.Error(w, "at least one question required", http.StatusBadRequest)
			return
		}
		for _, q := range a.Questions {
			if q.Type != assignment.TypeObjective && q.Type != assignment.TypeSubjective {
				http.Error(w, "unknown question type: "+q.Type, http.StatusBadRequest)
				return
			}
			if q.Points < 0 {
				http.Error(w, "question points must not be negative", http.StatusBadRequest)
				return
			}
		}
		// The creator owns the assignment regardless of what the body claims.
		a.TeacherID = authmw.SubjectFromContext(r.Context())

		saved, err := store.PutAssignment(r.Context(), a)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

// GET /assignments/{assignmentID}
// Students get the answer-key-stripped view; teachers get the full one.
func GetAssignmentHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		role := rbac.RoleFromContext(r.Context())

		var (
			a   assignment.Assignment
			err error
		)
		if role == "teacher" || role == "admin" {
			a, err = store.GetAssignmentFull(r.Context(), id)
		} else {
			a, err = store.GetAssignment(r.Context(), id)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /assignments?teacher_id=&include_inactive=&limit=&offset=
func ListAssignmentsHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := assignment.ListOpts{
			TeacherID: strings.TrimSpace(q.Get("teacher_id")),
			Limit:     parseIntDefault(q.Get("limit"), 50),
			Offset:    parseIntDefault(q.Get("offset"), 0),
		}
		// Inactive assignments are a teacher-only view.
		role := rbac.RoleFromContext(r.Context())
		if q.Get("include_inactive") == "true" && (role == "teacher" || role == "admin") {
			opts.IncludeInactive = true
		}
		list, err := store.ListAssignments(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// DELETE /assignments/{assignmentID}
// Soft delete. Admins may deactivate anyone's assignment; teachers only
// their own.
func DeactivateAssignmentHandler(store assignment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		teacherID := authmw.SubjectFromContext(r.Context())
		if rbac.RoleFromContext(r.Context()) == "admin" {
			teacherID = ""
		}
		if err := store.DeactivateAssignment(r.Context(), id, teacherID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
