package roster_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emene-hs/smartgrade/internal/db"
	"github.com/emene-hs/smartgrade/internal/roster"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func TestSeedAndVerifyTeacher(t *testing.T) {
	repo := roster.NewRepo(openTestDB(t))
	ctx := context.Background()

	teachers := []roster.DefaultTeacher{
		{Name: "Mr. Kevin", Username: "Kevin", Password: "password123"},
		{Name: "Mrs. Peace", Username: "Peace", Password: "password123"},
	}
	if err := repo.Seed(ctx, teachers); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must not duplicate or error.
	if err := repo.Seed(ctx, teachers); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	u, err := repo.VerifyTeacher(ctx, "Kevin", "password123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.Name != "Mr. Kevin" || u.Role != "teacher" {
		t.Fatalf("got %+v", u)
	}

	if _, err := repo.VerifyTeacher(ctx, "Kevin", "wrong"); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatalf("bad password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := repo.VerifyTeacher(ctx, "Nobody", "password123"); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestStudentLifecycle(t *testing.T) {
	repo := roster.NewRepo(openTestDB(t))
	ctx := context.Background()

	if err := repo.Seed(ctx, []roster.DefaultTeacher{{Name: "Mr. Kevin", Username: "Kevin", Password: "pw"}}); err != nil {
		t.Fatal(err)
	}
	teacher, err := repo.VerifyTeacher(ctx, "Kevin", "pw")
	if err != nil {
		t.Fatal(err)
	}

	s, err := repo.AddStudent(ctx, "Ada Obi", teacher.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(s.LoginCode) != 6 {
		t.Fatalf("login code %q, want 6 chars", s.LoginCode)
	}
	for _, c := range s.LoginCode {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", c) {
			t.Fatalf("login code %q contains %q outside the alphabet", s.LoginCode, c)
		}
	}

	// Login is case-insensitive on both name and code.
	u, err := repo.VerifyStudent(ctx, "ada obi", s.LoginCode)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.ID != s.ID {
		t.Fatalf("verified ID = %s, want %s", u.ID, s.ID)
	}
	if _, err := repo.VerifyStudent(ctx, "Ada Obi", "XXXXXX"); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatalf("wrong code: err = %v", err)
	}

	list, err := repo.ListStudents(ctx, teacher.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Ada Obi" {
		t.Fatalf("list = %+v", list)
	}

	// Another teacher cannot deactivate this student.
	if err := repo.DeactivateStudent(ctx, s.ID, "someone-else"); !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("foreign deactivate: err = %v", err)
	}
	if err := repo.DeactivateStudent(ctx, s.ID, teacher.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.VerifyStudent(ctx, "Ada Obi", s.LoginCode); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatalf("deactivated login: err = %v", err)
	}
	list, err = repo.ListStudents(ctx, teacher.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("active students = %d, want 0", len(list))
	}
}

func TestChangePassword(t *testing.T) {
	repo := roster.NewRepo(openTestDB(t))
	ctx := context.Background()

	if err := repo.Seed(ctx, []roster.DefaultTeacher{{Name: "Mr. Kevin", Username: "Kevin", Password: "old"}}); err != nil {
		t.Fatal(err)
	}
	u, err := repo.VerifyTeacher(ctx, "Kevin", "old")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.ChangePassword(ctx, u.ID, "wrong", "new"); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: err = %v", err)
	}
	if err := repo.ChangePassword(ctx, u.ID, "old", "new"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := repo.VerifyTeacher(ctx, "Kevin", "old"); !errors.Is(err, roster.ErrInvalidCredentials) {
		t.Fatal("old password still valid")
	}
	if _, err := repo.VerifyTeacher(ctx, "Kevin", "new"); err != nil {
		t.Fatalf("new password: %v", err)
	}
}
