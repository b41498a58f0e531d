package assignment_test

import (
	"context"
	"testing"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/grading"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := assignment.NewInMemoryStore(grading.NewDefaultGrader())
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, sampleAssignment("t1"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if a.TotalPoints != 20 {
		t.Fatalf("total points = %d, want 20", a.TotalPoints)
	}

	view, err := store.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range view.Questions {
		if q.CorrectAnswer != "" {
			t.Fatal("answer key leaked to student view")
		}
	}

	sub, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: " A ", 1: "b"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sub.TotalScore != 5 {
		t.Fatalf("total score = %v, want 5", sub.TotalScore)
	}

	again, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "A", 1: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != sub.ID || again.SubmissionCount != 2 {
		t.Fatalf("resubmit: id=%s count=%d, want same id and count 2", again.ID, again.SubmissionCount)
	}

	got, err := store.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Answers[0].QuestionText == "" {
		t.Fatal("expected question text attached to answers")
	}
}

func TestMemoryStore_GradesQuestionsInDisplayedOrder(t *testing.T) {
	store := assignment.NewInMemoryStore(grading.NewDefaultGrader())
	ctx := context.Background()

	a, err := store.PutAssignment(ctx, assignment.Assignment{
		Title:     "Shuffled",
		TeacherID: "t1",
		Questions: []assignment.Question{
			{Text: "second shown", Type: assignment.TypeObjective, CorrectAnswer: "A", Points: 5, Order: 2},
			{Text: "first shown", Type: assignment.TypeObjective, CorrectAnswer: "B", Points: 5, Order: 1},
		},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	view, err := store.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Questions[0].Text != "first shown" || view.Questions[1].Text != "second shown" {
		t.Fatalf("display order = [%q, %q], want Order-sorted",
			view.Questions[0].Text, view.Questions[1].Text)
	}

	sub, err := store.SaveSubmission(ctx, a.ID, "s1", map[int]string{0: "B", 1: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if sub.TotalScore != 10 {
		t.Fatalf("total score = %v, want 10", sub.TotalScore)
	}
}

func TestMemoryStore_ListAndPagination(t *testing.T) {
	store := assignment.NewInMemoryStore(grading.NewDefaultGrader())
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		a := sampleAssignment("t1")
		a.Title = title
		if _, err := store.PutAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.ListAssignments(ctx, assignment.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("assignments = %d, want 3", len(all))
	}

	page, err := store.ListAssignments(ctx, assignment.ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 {
		t.Fatalf("page = %d, want 1", len(page))
	}

	none, err := store.ListAssignments(ctx, assignment.ListOpts{TeacherID: "t9"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("filtered = %d, want 0", len(none))
	}
}
