// Package roster manages user accounts: teacher credentials, student login
// codes, and the soft-activation lifecycle. Teachers authenticate with a
// username and bcrypt-hashed password; students authenticate with their
// exact name plus a generated login code, so no student ever needs a
// password.
package roster

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"` // teacher|student|admin
	Username  string `json:"username,omitempty"`
	LoginCode string `json:"login_code,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	Active    bool   `json:"active"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// DefaultTeacher is one of the accounts seeded on first run so a fresh
// install is usable immediately.
type DefaultTeacher struct {
	Name     string
	Username string
	Password string
}

// Seed inserts the default teacher accounts unless their usernames exist.
func (r *Repo) Seed(ctx context.Context, teachers []DefaultTeacher) error {
	for _, t := range teachers {
		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM users WHERE username=$1`, t.Username).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(t.Password), 12)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO users (id, name, role, username, password_hash, created_at, is_active)
			 VALUES ($1,$2,'teacher',$3,$4,$5,1)`,
			uuid.NewString(), t.Name, t.Username, string(hash), time.Now().Unix())
		if err != nil {
			return err
		}
	}
	return nil
}

// AddStudent creates a student account owned by teacherID and returns it
// with a freshly generated login code.
func (r *Repo) AddStudent(ctx context.Context, name, teacherID string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, errors.New("name required")
	}
	code, err := r.generateLoginCode(ctx)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      "student",
		LoginCode: code,
		CreatedBy: teacherID,
		CreatedAt: time.Now().Unix(),
		Active:    true,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, role, login_code, created_by, created_at, is_active)
		 VALUES ($1,$2,'student',$3,$4,$5,1)`,
		u.ID, u.Name, u.LoginCode, u.CreatedBy, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// ListStudents returns active students, optionally only those created by a
// given teacher. Teachers see login codes; they hand them out in class.
func (r *Repo) ListStudents(ctx context.Context, createdBy string) ([]User, error) {
	q := `SELECT id, name, login_code, created_by, created_at, is_active
	      FROM users WHERE role='student' AND is_active=1`
	args := []any{}
	if createdBy != "" {
		q += ` AND created_by=$1`
		args = append(args, createdBy)
	}
	q += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		var code, by sql.NullString
		var active int
		if err := rows.Scan(&u.ID, &u.Name, &code, &by, &u.CreatedAt, &active); err != nil {
			return nil, err
		}
		u.Role = "student"
		u.LoginCode = code.String
		u.CreatedBy = by.String
		u.Active = active != 0
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeactivateStudent soft-deletes a student. A non-empty teacherID restricts
// the operation to students that teacher created.
func (r *Repo) DeactivateStudent(ctx context.Context, studentID, teacherID string) error {
	q := `UPDATE users SET is_active=0 WHERE id=$1 AND role='student'`
	args := []any{studentID}
	if teacherID != "" {
		q += ` AND created_by=$2`
		args = append(args, teacherID)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyTeacher checks a username/password pair against the stored bcrypt
// hash. Admins log in the same way.
func (r *Repo) VerifyTeacher(ctx context.Context, username, password string) (User, error) {
	var u User
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, username, password_hash
		 FROM users
		 WHERE username=$1 AND role IN ('teacher','admin') AND is_active=1`,
		strings.TrimSpace(username)).Scan(&u.ID, &u.Name, &u.Role, &u.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	u.Active = true
	return u, nil
}

// VerifyStudent checks a student's name (case-insensitive) and login code
// (case-insensitive, stored upper).
func (r *Repo) VerifyStudent(ctx context.Context, name, loginCode string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, login_code
		 FROM users
		 WHERE LOWER(name)=LOWER($1) AND login_code=$2 AND role='student' AND is_active=1`,
		strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(loginCode))).
		Scan(&u.ID, &u.Name, &u.Role, &u.LoginCode)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	u.Active = true
	return u, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (r *Repo) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password required")
	}
	var stored string
	err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE id=$1`, userID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1 WHERE id=$2`, string(hash), userID)
	return err
}

func (r *Repo) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	var username, code, by sql.NullString
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, username, login_code, created_by, created_at, is_active
		 FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Role, &username, &code, &by, &u.CreatedAt, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Username = username.String
	u.LoginCode = code.String
	u.CreatedBy = by.String
	u.Active = active != 0
	return u, nil
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// generateLoginCode draws random codes until one is unused. Each character is
// drawn uniformly over the alphabet. The space is 36^6, so a retry is rare
// even on large rosters.
func (r *Repo) generateLoginCode(ctx context.Context) (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", err
			}
			buf[i] = codeAlphabet[n.Int64()]
		}
		code := string(buf)

		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM users WHERE login_code=$1`, code).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}
