package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectiveExactMatch(t *testing.T) {
	g := NewDefaultGrader()
	q := Question{Type: "objective", CorrectAnswer: "A", Points: 5}

	res := g.Grade(q, "A")
	assert.Equal(t, 5.0, res.Score)
	assert.Equal(t, "Correct! Well done.", res.Feedback)

	res = g.Grade(q, "B")
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Incorrect. The correct answer is A.", res.Feedback)
}

func TestObjectiveCaseAndWhitespaceInsensitive(t *testing.T) {
	g := NewDefaultGrader()
	q := Question{Type: "objective", CorrectAnswer: "A", Points: 5}

	// " a " and "A" must grade identically.
	loose := g.Grade(q, " a ")
	exact := g.Grade(q, "A")
	assert.Equal(t, exact, loose)

	q.CorrectAnswer = "  photosynthesis  "
	res := g.Grade(q, "PHOTOSYNTHESIS")
	assert.Equal(t, 5.0, res.Score)
}

func TestObjectiveMissingCorrectAnswer(t *testing.T) {
	g := NewDefaultGrader()
	q := Question{Type: "objective", Points: 5}

	// No key on file: permanent mismatch, even for an empty answer.
	res := g.Grade(q, "")
	assert.Equal(t, 0.0, res.Score)
	res = g.Grade(q, "anything")
	assert.Equal(t, 0.0, res.Score)

	// The feedback must not render a dangling "is ." with an empty key.
	assert.Equal(t, "Incorrect. No correct answer is on file for this question.", res.Feedback)
}

func TestSubjectiveWordCountBands(t *testing.T) {
	g := NewDefaultGrader()
	q := Question{Type: "subjective", Points: 10}

	cases := []struct {
		name   string
		answer string
		score  float64
	}{
		{"empty", "", 0},
		{"whitespace only", "   \t  ", 0},
		{"one word", "yes", 3.0},
		{"four words", "this is too brief", 3.0},
		{"five words", "this answer has five words", 6.0},
		{"nine words", "this is a nine word essay about the topic", 6.0},
		{"ten words", "this is a ten word essay about the topic today", 8.0},
		{"long", "a much longer essay with plenty of words showing real effort and detail throughout", 8.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Grade(q, tc.answer)
			assert.Equal(t, tc.score, res.Score)
		})
	}
}

func TestSubjectiveScoreMonotonicInWordCount(t *testing.T) {
	g := NewDefaultGrader()
	q := Question{Type: "subjective", Points: 10}

	prev := -1.0
	answer := ""
	for words := 0; words <= 15; words++ {
		res := g.Grade(q, answer)
		if res.Score < prev {
			t.Fatalf("score decreased at %d words: %v -> %v", words, prev, res.Score)
		}
		prev = res.Score
		answer += "word "
	}
}

func TestUnknownQuestionType(t *testing.T) {
	g := NewDefaultGrader()
	res := g.Grade(Question{Type: "essay", Points: 4}, "whatever")
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 4.0, res.MaxPoints)
	assert.NotEmpty(t, res.Feedback)
}

func TestGradeSubmissionScenario(t *testing.T) {
	// Two objective questions (5 pts, answers "A" and "B") plus one
	// subjective (10 pts) answered with nine words.
	g := NewDefaultGrader()
	questions := []Question{
		{Type: "objective", CorrectAnswer: "A", Points: 5},
		{Type: "objective", CorrectAnswer: "B", Points: 5},
		{Type: "subjective", Points: 10},
	}
	answers := map[int]string{
		0: "a",
		1: "C",
		2: "this is a nine word essay about the topic",
	}

	results, total := GradeSubmission(g, questions, answers)
	assert.Len(t, results, 3)
	assert.Equal(t, 5.0, results[0].Score)
	assert.Equal(t, "Correct! Well done.", results[0].Feedback)
	assert.Equal(t, 0.0, results[1].Score)
	assert.Equal(t, "Incorrect. The correct answer is B.", results[1].Feedback)
	assert.Equal(t, 6.0, results[2].Score)
	assert.Equal(t, 11.0, total)
}

func TestGradeSubmissionMissingAnswers(t *testing.T) {
	g := NewDefaultGrader()
	questions := []Question{
		{Type: "objective", CorrectAnswer: "A", Points: 5},
		{Type: "subjective", Points: 10},
	}

	// No answers at all: every question graded as unanswered.
	results, total := GradeSubmission(g, questions, nil)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, "No answer provided.", results[1].Feedback)
}

func TestGradeSubmissionTotalEqualsSumOfScores(t *testing.T) {
	g := NewDefaultGrader()
	questions := []Question{
		{Type: "objective", CorrectAnswer: "true", Points: 3},
		{Type: "subjective", Points: 7},
		{Type: "objective", CorrectAnswer: "42", Points: 2},
		{Type: "subjective", Points: 9},
	}
	answers := map[int]string{
		0: "TRUE",
		1: "short answer here now",
		2: "41",
		3: "a carefully considered response with at least ten words in it",
	}

	results, total := GradeSubmission(g, questions, answers)
	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	assert.Equal(t, sum, total)
}

func TestCustomCreditOptions(t *testing.T) {
	g := NewDefaultGrader(
		WithSubjectiveCredit(1.0, 0.5, 0.25),
		WithEffortThresholds(20, 10),
	)
	q := Question{Type: "subjective", Points: 8}

	res := g.Grade(q, "only three words")
	assert.Equal(t, 2.0, res.Score)
}
