package grading

// GradeSubmission grades a full set of answers against an assignment's
// questions, which must be supplied in their stored order. Answers are keyed
// by question position, not question ID; a question with no entry is graded
// as unanswered. The returned total is the exact sum of per-question scores.
// Rounding, if any, is a display concern.
func GradeSubmission(g Grader, questions []Question, answers map[int]string) ([]Result, float64) {
	results := make([]Result, len(questions))
	total := 0.0
	for i, q := range questions {
		res := g.Grade(q, answers[i])
		results[i] = res
		total += res.Score
	}
	return results, total
}
