// Package console is the menu-driven terminal client. It talks to the
// assignment store and roster directly, so it runs fully offline against
// the local database.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/roster"
)

type App struct {
	store assignment.Store
	users *roster.Repo

	in  *bufio.Scanner
	out io.Writer

	user roster.User
}

func New(store assignment.Store, users *roster.Repo, in io.Reader, out io.Writer) *App {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 64*1024)
	return &App{store: store, users: users, in: sc, out: out}
}

// Run is the top-level loop: welcome, role select, login, dashboard.
func (a *App) Run(ctx context.Context) error {
	a.welcome()
	for {
		a.printf("\nPlease select your role:\n")
		a.printf("1. Teacher\n2. Student\n3. Exit\n")
		switch a.prompt("\nEnter your choice (1-3): ") {
		case "1":
			if a.loginTeacher(ctx) {
				a.teacherMenu(ctx)
			}
		case "2":
			if a.loginStudent(ctx) {
				a.studentMenu(ctx)
			}
		case "3":
			a.printf("\nThank you for using Smart Grading System!\nGoodbye!\n")
			return nil
		default:
			a.printf("Invalid choice! Please enter 1, 2, or 3.\n")
		}
	}
}

func (a *App) welcome() {
	a.printf("%s\n", strings.Repeat("=", 60))
	a.printf("    SMART GRADING AND FEEDBACK SYSTEM\n")
	a.printf("    Emene High School - Enugu State\n")
	a.printf("%s\n", strings.Repeat("=", 60))
	a.printf("\nWelcome! This application helps teachers manage assignments\n")
	a.printf("and provides students with automated grading and feedback.\n")
}

func (a *App) loginTeacher(ctx context.Context) bool {
	username := a.prompt("Username: ")
	password := a.prompt("Password: ")
	u, err := a.users.VerifyTeacher(ctx, username, password)
	if err != nil {
		a.printf("Invalid username or password.\n")
		return false
	}
	a.user = u
	a.printf("\nWelcome, %s!\n", u.Name)
	return true
}

func (a *App) loginStudent(ctx context.Context) bool {
	name := a.prompt("Full name: ")
	code := a.prompt("Login code: ")
	u, err := a.users.VerifyStudent(ctx, name, code)
	if err != nil {
		a.printf("Invalid name or login code. Ask your teacher for your code.\n")
		return false
	}
	a.user = u
	a.printf("\nWelcome, %s!\n", u.Name)
	return true
}

// --- small input helpers ---

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// promptLines reads until a blank line, for essay answers.
func (a *App) promptLines(label string) string {
	a.printf("%s (finish with an empty line):\n", label)
	var lines []string
	for a.in.Scan() {
		line := a.in.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) promptInt(label string) (int, bool) {
	s := a.prompt(label)
	v, err := strconv.Atoi(s)
	if err != nil {
		a.printf("Please enter a number.\n")
		return 0, false
	}
	return v, true
}

func (a *App) confirm(label string) bool {
	ans := strings.ToLower(a.prompt(label + " (y/n): "))
	return ans == "y" || ans == "yes"
}

func (a *App) header(title string) {
	a.printf("\n%s\n    %s\n%s\n", strings.Repeat("=", 60), title, strings.Repeat("=", 60))
}

func formatDate(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("2006-01-02")
}

func formatScore(score float64, max int) string {
	return fmt.Sprintf("%.1f/%d", score, max)
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
