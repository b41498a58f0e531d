package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/eventlog"
	"github.com/emene-hs/smartgrade/internal/rbac"
	"github.com/emene-hs/smartgrade/internal/roster"
)

// POST /students  { "name": "..." }
// Creates the student and returns the generated login code exactly once.
// The teacher reads the code out in class; it is also visible in the list.
func AddStudentHandler(users *roster.Repo, events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		teacherID := authmw.SubjectFromContext(r.Context())
		u, err := users.AddStudent(r.Context(), req.Name, teacherID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if events != nil {
			data, _ := json.Marshal(map[string]string{"name": u.Name, "teacher_id": teacherID})
			_ = events.Append(r.Context(), eventlog.Event{
				Type: eventlog.TypeStudentAdded, Key: u.ID, DataJSON: string(data),
			})
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

// GET /students?mine=true
// Teachers list active students with login codes; mine=true restricts to
// students the caller created.
func ListStudentsHandler(users *roster.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		createdBy := ""
		if r.URL.Query().Get("mine") == "true" {
			createdBy = authmw.SubjectFromContext(r.Context())
		}
		list, err := users.ListStudents(r.Context(), createdBy)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// DELETE /students/{studentID}
// Soft delete. Teachers may remove only students they created; admins any.
func DeactivateStudentHandler(users *roster.Repo, events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "studentID")
		teacherID := authmw.SubjectFromContext(r.Context())
		if rbac.RoleFromContext(r.Context()) == "admin" {
			teacherID = ""
		}
		err := users.DeactivateStudent(r.Context(), id, teacherID)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "student not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), eventlog.Event{
				Type: eventlog.TypeStudentDeactivated, Key: id,
			})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
