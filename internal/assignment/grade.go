package assignment

import (
	"sort"

	"github.com/emene-hs/smartgrade/internal/grading"
)

// sortQuestions orders questions by their Order field. PutAssignment runs it
// once at creation so the stored sequence, the displayed sequence, and the
// positional grading sequence are all the same; questions never move after
// that.
func sortQuestions(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
}

// gradeAnswers runs the grading engine over an assignment's questions and
// the raw answers keyed by question position. Questions arrive in their
// stored order; the engine treats a missing entry as no answer.
func gradeAnswers(g grading.Grader, questions []Question, answers map[int]string) ([]Answer, float64) {
	gqs := make([]grading.Question, len(questions))
	for i, q := range questions {
		gqs[i] = grading.Question{Type: q.Type, CorrectAnswer: q.CorrectAnswer, Points: q.Points}
	}
	results, total := grading.GradeSubmission(g, gqs, answers)

	out := make([]Answer, len(questions))
	for i, q := range questions {
		out[i] = Answer{
			QuestionID:    q.ID,
			StudentAnswer: answers[i],
			Score:         results[i].Score,
			Feedback:      results[i].Feedback,
		}
	}
	return out, total
}

// attachQuestions fills the joined question fields on graded answers for
// feedback views.
func attachQuestions(answers []Answer, questions []Question) {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for i := range answers {
		q, ok := byID[answers[i].QuestionID]
		if !ok {
			continue
		}
		answers[i].QuestionText = q.Text
		answers[i].QuestionType = q.Type
		answers[i].CorrectAnswer = q.CorrectAnswer
		answers[i].Points = q.Points
	}
}

// stripAnswerKeys hides correct answers when serving assignments to students.
func stripAnswerKeys(a *Assignment) {
	for i := range a.Questions {
		a.Questions[i].CorrectAnswer = ""
	}
}
