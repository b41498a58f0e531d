package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emene-hs/smartgrade/internal/rbac"
)

func TestIssueAndParseJWT(t *testing.T) {
	svc := NewAuthService("test-secret")

	tok, err := svc.IssueJWT("u1", "Ada Obi", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "u1" || claims.Name != "Ada Obi" || claims.Role != "student" {
		t.Fatalf("claims = %+v", claims)
	}

	// A token signed with a different key must not validate.
	other := NewAuthService("other-secret")
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("expected parse failure with wrong key")
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")
	tok, err := svc.IssueJWT("u1", "Ada Obi", "student")
	if err != nil {
		t.Fatal(err)
	}

	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	})
	h := JWTMiddleware(svc)(next)

	req := httptest.NewRequest("GET", "/assignments", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotSub != "u1" || gotRole != "student" {
		t.Fatalf("context sub=%q role=%q", gotSub, gotRole)
	}

	// Missing and malformed bearer tokens are rejected.
	for _, header := range []string{"", "Bearer not-a-token"} {
		req := httptest.NewRequest("GET", "/assignments", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}
