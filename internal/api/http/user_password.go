package http

import (
	"encoding/json"
	"errors"
	"net/http"

	authmw "github.com/emene-hs/smartgrade/internal/auth/middleware"
	"github.com/emene-hs/smartgrade/internal/roster"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /users/me/password
func ChangePasswordHandler(users *roster.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		err := users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
		switch {
		case errors.Is(err, roster.ErrNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, roster.ErrInvalidCredentials):
			http.Error(w, "incorrect old password", http.StatusForbidden)
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// GET /users/me
func MeHandler(users *roster.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		u, err := users.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		u.LoginCode = "" // never echo the code back to the session holder
		writeJSON(w, http.StatusOK, u)
	}
}
