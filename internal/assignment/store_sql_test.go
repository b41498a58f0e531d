package assignment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/db"
	"github.com/emene-hs/smartgrade/internal/eventlog"
	"github.com/emene-hs/smartgrade/internal/grading"
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

func seedUsers(t *testing.T, dbh *sql.DB) {
	t.Helper()
	now := time.Now().Unix()
	stmts := []struct {
		id, name, role string
	}{
		{"t1", "Mr. Kevin", "teacher"},
		{"t2", "Mrs. Peace", "teacher"},
		{"s1", "Ada Obi", "student"},
		{"s2", "Chinedu Eze", "student"},
	}
	for _, u := range stmts {
		_, err := dbh.Exec(
			`INSERT INTO users (id, name, role, created_at, is_active) VALUES ($1,$2,$3,$4,1)`,
			u.id, u.name, u.role, now)
		if err != nil {
			t.Fatalf("seed user %s: %v", u.id, err)
		}
	}
}

func sampleAssignment(teacherID string) assignment.Assignment {
	return assignment.Assignment{
		Title:       "Algebra Basics",
		Description: "Quiz on linear equations",
		TeacherID:   teacherID,
		Questions: []assignment.Question{
			{Text: "2 + 2 = ?", Type: assignment.TypeObjective, CorrectAnswer: "A",
				Options: []string{"A. 4", "B. 5", "C. 6", "D. 7"}, Points: 5},
			{Text: "True or false: 3 > 1", Type: assignment.TypeObjective, CorrectAnswer: "A",
				Options: []string{"A. True", "B. False"}, Points: 5},
			{Text: "Explain how to solve 2x + 4 = 10.", Type: assignment.TypeSubjective, Points: 10},
		},
	}
}

func TestSQLStore_PutAndGetAssignment(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	saved, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated ID")
	}
	if saved.TotalPoints != 20 {
		t.Fatalf("total points = %d, want 20", saved.TotalPoints)
	}

	full, err := store.GetAssignmentFull(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get full: %v", err)
	}
	if full.Questions[0].CorrectAnswer != "A" {
		t.Fatal("full view must keep the answer key")
	}
	if full.TeacherName != "Mr. Kevin" {
		t.Fatalf("teacher name = %q, want Mr. Kevin", full.TeacherName)
	}

	studentView, err := store.GetAssignment(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for i, q := range studentView.Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("question %d: answer key leaked to student view", i)
		}
	}
}

func TestSQLStore_SaveSubmissionGrades(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	sub, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{
		0: "a", // case-insensitive match, 5 pts
		1: "B", // wrong, 0 pts
		2: "first isolate the variable by subtracting four then divide both sides by two", // 13 words, 8 pts
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sub.TotalScore != 13 {
		t.Fatalf("total score = %v, want 13", sub.TotalScore)
	}
	if sub.MaxScore != 20 {
		t.Fatalf("max score = %d, want 20", sub.MaxScore)
	}
	if sub.SubmissionCount != 1 {
		t.Fatalf("count = %d, want 1", sub.SubmissionCount)
	}
	if len(sub.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(sub.Answers))
	}
	if sub.Answers[1].Feedback != "Incorrect. The correct answer is A." {
		t.Fatalf("feedback = %q", sub.Answers[1].Feedback)
	}
}

func TestSQLStore_ResubmitKeepsIDAndBumpsCount(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	first, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "B"})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "A", 1: "A"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("resubmission must keep the submission ID")
	}
	if second.SubmissionCount != 2 {
		t.Fatalf("count = %d, want 2", second.SubmissionCount)
	}
	if second.TotalScore != 10 {
		t.Fatalf("total score = %v, want 10", second.TotalScore)
	}

	// Exactly one row per student/assignment pair.
	list, err := store.ListSubmissions(ctx, assignment.SubmissionListOpts{AssignmentID: a.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("submissions = %d, want 1", len(list))
	}
}

func TestSQLStore_GradesQuestionsInDisplayedOrder(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	// Questions arrive with Order fields disagreeing with slice position.
	a, err := store.PutAssignment(ctx, assignment.Assignment{
		Title:     "Shuffled",
		TeacherID: "t1",
		Questions: []assignment.Question{
			{Text: "second shown", Type: assignment.TypeObjective, CorrectAnswer: "A",
				Options: []string{"A. yes", "B. no"}, Points: 5, Order: 2},
			{Text: "first shown", Type: assignment.TypeObjective, CorrectAnswer: "B",
				Options: []string{"A. yes", "B. no"}, Points: 5, Order: 1},
		},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	view, err := store.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Questions[0].Text != "first shown" || view.Questions[1].Text != "second shown" {
		t.Fatalf("display order = [%q, %q], want Order-sorted",
			view.Questions[0].Text, view.Questions[1].Text)
	}

	// Answers keyed by the displayed position must grade against the
	// questions in that same position.
	sub, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "B", 1: "A"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sub.TotalScore != 10 {
		t.Fatalf("total score = %v, want 10", sub.TotalScore)
	}
	if sub.Answers[0].StudentAnswer != "B" || sub.Answers[0].Score != 5 {
		t.Fatalf("first answer = %+v, want B scored 5", sub.Answers[0])
	}
}

func TestSQLStore_ListSubmissionsFilters(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	a1, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatal(err)
	}
	byPeace := sampleAssignment("t2")
	byPeace.Title = "Essay Writing"
	a2, err := store.PutAssignment(ctx, byPeace)
	if err != nil {
		t.Fatal(err)
	}

	for _, pair := range []struct{ aid, sid string }{
		{a1.ID, "s1"}, {a1.ID, "s2"}, {a2.ID, "s1"},
	} {
		if _, err := store.SaveSubmission(ctx, pair.aid, pair.sid, map[int]string{0: "A"}); err != nil {
			t.Fatalf("save %s/%s: %v", pair.aid, pair.sid, err)
		}
	}

	byAssignment, err := store.ListSubmissions(ctx, assignment.SubmissionListOpts{AssignmentID: a1.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byAssignment) != 2 {
		t.Fatalf("by assignment = %d, want 2", len(byAssignment))
	}

	byStudent, err := store.ListSubmissions(ctx, assignment.SubmissionListOpts{StudentID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStudent) != 2 {
		t.Fatalf("by student = %d, want 2", len(byStudent))
	}
	for _, s := range byStudent {
		if s.StudentName != "Ada Obi" {
			t.Fatalf("student name = %q, want Ada Obi", s.StudentName)
		}
	}

	byTeacher, err := store.ListSubmissions(ctx, assignment.SubmissionListOpts{TeacherID: "t2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTeacher) != 1 || byTeacher[0].Title != "Essay Writing" {
		t.Fatalf("teacher filter returned %+v", byTeacher)
	}
	if byTeacher[0].TeacherName != "Mrs. Peace" {
		t.Fatalf("teacher name = %q, want Mrs. Peace", byTeacher[0].TeacherName)
	}
}

func TestSQLStore_DeactivateAssignment(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), nil)
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatal(err)
	}

	// A different teacher must not be able to deactivate it.
	if err := store.DeactivateAssignment(ctx, a.ID, "t2"); err == nil {
		t.Fatal("expected error deactivating another teacher's assignment")
	}
	if err := store.DeactivateAssignment(ctx, a.ID, "t1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := store.ListAssignments(ctx, assignment.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("active assignments = %d, want 0", len(active))
	}
	all, err := store.ListAssignments(ctx, assignment.ListOpts{IncludeInactive: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("all assignments = %d, want 1", len(all))
	}

	// Submissions against an inactive assignment are rejected.
	if _, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "A"}); err == nil {
		t.Fatal("expected error submitting to inactive assignment")
	}
}

func TestSQLStore_EventLog(t *testing.T) {
	dbh := openTestDB(t)
	seedUsers(t, dbh)
	events := eventlog.NewRepo(dbh)
	store := assignment.NewSQLStore(dbh, "sqlite", grading.NewDefaultGrader(), events)
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "A"}); err != nil {
		t.Fatal(err)
	}

	recent, err := events.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("events = %d, want 2", len(recent))
	}
	// Newest first.
	if recent[0].Type != eventlog.TypeSubmissionGraded {
		t.Fatalf("newest event = %s, want %s", recent[0].Type, eventlog.TypeSubmissionGraded)
	}
	if recent[1].Type != eventlog.TypeAssignmentCreated || recent[1].Key != a.ID {
		t.Fatalf("oldest event = %+v", recent[1])
	}
}
