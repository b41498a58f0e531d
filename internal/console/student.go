package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emene-hs/smartgrade/internal/assignment"
	"github.com/emene-hs/smartgrade/internal/stats"
)

func (a *App) studentMenu(ctx context.Context) {
	for {
		a.header("Student Dashboard")
		a.printf("1. View Available Assignments\n")
		a.printf("2. Submit Assignment\n")
		a.printf("3. View My Grades & Feedback\n")
		a.printf("4. View Performance Summary\n")
		a.printf("5. Logout\n")

		switch a.prompt("\nSelect option (1-5): ") {
		case "1":
			a.viewAvailable(ctx)
		case "2":
			a.takeAssignment(ctx)
		case "3":
			a.viewGrades(ctx)
		case "4":
			a.performanceSummary(ctx)
		case "5":
			a.printf("Logging out...\n")
			return
		default:
			a.printf("Invalid choice.\n")
		}
	}
}

// submittedSet maps assignment ID to the student's submission.
func (a *App) submittedSet(ctx context.Context) (map[string]assignment.Submission, error) {
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{StudentID: a.user.ID})
	if err != nil {
		return nil, err
	}
	out := make(map[string]assignment.Submission, len(subs))
	for _, s := range subs {
		out[s.AssignmentID] = s
	}
	return out, nil
}

func (a *App) viewAvailable(ctx context.Context) {
	a.header("Available Assignments")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(list) == 0 {
		a.printf("No assignments available at the moment.\n")
		return
	}
	done, err := a.submittedSet(ctx)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}

	rows := make([][]string, len(list))
	submitted := 0
	for i, as := range list {
		status := "Not Started"
		if _, ok := done[as.ID]; ok {
			status = "Submitted"
			submitted++
		}
		rows[i] = []string{as.ID[:8], as.Title, as.TeacherName, strconv.Itoa(as.TotalPoints), formatDate(as.CreatedAt), status}
	}
	a.table([]string{"ID", "Title", "Teacher", "Points", "Created", "Status"}, rows)
	a.printf("\nTotal Assignments: %d\n", len(list))
	a.printf("Assignments Submitted: %d\n", submitted)
	a.printf("Completion Rate: %.1f%%\n", float64(submitted)/float64(len(list))*100)
}

func (a *App) takeAssignment(ctx context.Context) {
	a.header("Submit Assignment")
	list, err := a.store.ListAssignments(ctx, assignment.ListOpts{})
	if err != nil || len(list) == 0 {
		a.printf("No assignments available to submit.\n")
		return
	}
	done, err := a.submittedSet(ctx)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}

	rows := make([][]string, len(list))
	for i, as := range list {
		status := "Available"
		if _, ok := done[as.ID]; ok {
			status = "Submitted"
		}
		rows[i] = []string{as.ID[:8], as.Title, as.TeacherName, strconv.Itoa(as.TotalPoints), status}
	}
	a.table([]string{"ID", "Title", "Teacher", "Points", "Status"}, rows)

	prefix := a.prompt("\nEnter assignment ID to submit: ")
	var selected *assignment.Assignment
	for i := range list {
		if strings.HasPrefix(list[i].ID, prefix) {
			selected = &list[i]
			break
		}
	}
	if selected == nil {
		a.printf("Invalid assignment ID!\n")
		return
	}
	if _, ok := done[selected.ID]; ok {
		a.printf("\nYou have already submitted '%s'.\n", selected.Title)
		if !a.confirm("Do you want to resubmit? This will replace your previous submission.") {
			return
		}
	}

	// Student view: answer keys stripped.
	full, err := a.store.GetAssignment(ctx, selected.ID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(full.Questions) == 0 {
		a.printf("This assignment has no questions!\n")
		return
	}
	a.runAssignment(ctx, full)
}

func (a *App) runAssignment(ctx context.Context, as assignment.Assignment) {
	a.printf("\n%s\n    %s\n    Teacher: %s\n%s\n",
		strings.Repeat("=", 60), strings.ToUpper(as.Title), as.TeacherName, strings.Repeat("=", 60))
	a.printf("Total Points: %d\nNumber of Questions: %d\n", as.TotalPoints, len(as.Questions))
	a.printf("\nInstructions:\n")
	a.printf("- For multiple choice, enter A, B, C, or D\n")
	a.printf("- For essays, provide detailed answers\n")
	a.printf("- Type 'skip' to leave a question blank\n")

	if !a.confirm("\nReady to start the assignment?") {
		return
	}

	answers := map[int]string{}
	for i, q := range as.Questions {
		a.printf("\nQuestion %d/%d (%d points)\n", i+1, len(as.Questions), q.Points)
		a.printf("%s\n%s\n", strings.Repeat("-", 40), q.Text)

		if q.Type == assignment.TypeObjective {
			for _, opt := range q.Options {
				a.printf("  %s\n", opt)
			}
			ans := strings.ToUpper(a.prompt("\nYour answer (or 'skip'): "))
			if ans == "SKIP" {
				ans = ""
			}
			answers[i] = ans
		} else {
			ans := a.promptLines("\nYour answer")
			if strings.EqualFold(strings.TrimSpace(ans), "skip") {
				ans = ""
			}
			answers[i] = ans
		}
	}

	answered := 0
	for _, v := range answers {
		if strings.TrimSpace(v) != "" {
			answered++
		}
	}
	a.printf("\nQuestions answered: %d/%d\n", answered, len(as.Questions))
	if answered < len(as.Questions) {
		a.printf("Warning: %d questions left blank\n", len(as.Questions)-answered)
	}
	if !a.confirm("\nSubmit this assignment?") {
		return
	}

	sub, err := a.store.SaveSubmission(ctx, as.ID, a.user.ID, answers)
	if err != nil {
		a.printf("Error submitting assignment: %v\n", err)
		return
	}
	pct := stats.Percentage(sub.TotalScore, float64(sub.MaxScore))
	a.printf("\n%s\n    ASSIGNMENT SUBMITTED SUCCESSFULLY!\n%s\n",
		strings.Repeat("=", 50), strings.Repeat("=", 50))
	a.printf("Your assignment has been graded automatically.\n")
	a.printf("Score: %s (%.1f%%, Grade %s)\n",
		formatScore(sub.TotalScore, sub.MaxScore), pct, stats.GradeLetter(pct))
	a.printf("See 'View My Grades & Feedback' for question-by-question feedback.\n")
}

func (a *App) viewGrades(ctx context.Context) {
	a.header("My Grades & Feedback")
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{StudentID: a.user.ID})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(subs) == 0 {
		a.printf("You haven't submitted any assignments yet.\n")
		a.printf("\nTip: Go to 'View Available Assignments' to see what you can work on!\n")
		return
	}

	rows := make([][]string, len(subs))
	for i, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		rows[i] = []string{
			s.Title, formatScore(s.TotalScore, s.MaxScore), fmt.Sprintf("%.1f%%", pct),
			stats.GradeLetter(pct), s.TeacherName, formatDate(s.SubmittedAt),
		}
	}
	a.table([]string{"Assignment", "Score", "Percentage", "Grade", "Teacher", "Date"}, rows)
	a.printf("\nTotal Submissions: %d\n", len(subs))

	if !a.confirm("\nView detailed feedback for an assignment?") {
		return
	}
	for i, s := range subs {
		pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
		a.printf("%d. %s - %.1f%%\n", i+1, s.Title, pct)
	}
	choice, ok := a.promptInt(fmt.Sprintf("\nSelect assignment (1-%d): ", len(subs)))
	if !ok || choice < 1 || choice > len(subs) {
		return
	}
	a.showFeedback(ctx, subs[choice-1].ID)
}

func (a *App) showFeedback(ctx context.Context, submissionID string) {
	s, err := a.store.GetSubmission(ctx, submissionID)
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	pct := stats.Percentage(s.TotalScore, float64(s.MaxScore))
	a.header("Detailed Feedback")
	a.printf("Assignment: %s\n", s.Title)
	a.printf("Total Score: %s\nPercentage: %.1f%%\nGrade: %s (%s)\nSubmitted: %s\n",
		formatScore(s.TotalScore, s.MaxScore), pct,
		stats.GradeLetter(pct), stats.GradeDescription(pct), formatDate(s.SubmittedAt))

	a.printf("\n%s\n    QUESTION-BY-QUESTION FEEDBACK\n%s\n",
		strings.Repeat("=", 60), strings.Repeat("=", 60))
	for i, ans := range s.Answers {
		a.printf("\n--- Question %d (%d points) ---\n", i+1, ans.Points)
		a.printf("Question: %s\n", ans.QuestionText)
		if ans.StudentAnswer != "" {
			a.printf("Your Answer: %s\n", ans.StudentAnswer)
		} else {
			a.printf("Your Answer: No answer provided\n")
		}
		if ans.QuestionType == assignment.TypeObjective && ans.CorrectAnswer != "" {
			a.printf("Correct Answer: %s\n", ans.CorrectAnswer)
		}
		a.printf("Points Earned: %s\nFeedback: %s\n", formatScore(ans.Score, ans.Points), ans.Feedback)
	}

	a.printSuggestions(pct)
	a.printTypeBreakdown(s.Answers)
}

func (a *App) performanceSummary(ctx context.Context) {
	a.header("Performance Summary")
	subs, err := a.store.ListSubmissions(ctx, assignment.SubmissionListOpts{StudentID: a.user.ID})
	if err != nil {
		a.printf("Error: %v\n", err)
		return
	}
	if len(subs) == 0 {
		a.printf("No submissions to analyze yet.\n")
		a.printf("\nStart by completing some assignments to see your progress!\n")
		return
	}

	recs := toRecords(subs)
	pct := stats.OverallPercentage(recs)
	var totalScore, totalPossible float64
	for _, r := range recs {
		totalScore += r.TotalScore
		totalPossible += r.MaxScore
	}

	a.printf("Total Assignments Completed: %d\n", len(subs))
	a.printf("Overall Score: %.1f/%.0f\n", totalScore, totalPossible)
	a.printf("Overall Percentage: %.1f%%\n", pct)
	a.printf("Current Grade: %s (%s)\n", stats.GradeLetter(pct), stats.GradeDescription(pct))

	a.printf("\n--- Performance Highlights ---\n")
	if best, ok := stats.Best(recs); ok {
		a.printf("Best Performance: %s (%.1f%%)\n",
			best.Title, stats.Percentage(best.TotalScore, best.MaxScore))
	}
	if worst, ok := stats.Worst(recs); ok {
		a.printf("Needs Attention: %s (%.1f%%)\n",
			worst.Title, stats.Percentage(worst.TotalScore, worst.MaxScore))
	}
	if len(recs) >= 3 {
		a.printf("Recent Trend: %s\n", stats.Trend(recs))
	}

	a.printDistribution(recs)

	a.printf("\n--- Performance by Teacher ---\n")
	for _, tb := range stats.ByTeacher(recs) {
		a.printf("%s: %.1f%% (Grade %s) - %d assignments\n",
			tb.Teacher, tb.AveragePct, tb.Grade, tb.Submissions)
	}

	a.printGoals(pct)
}

// printGoals names the next grade band to aim for.
func (a *App) printGoals(pct float64) {
	a.printf("\n%s\n    GOALS & RECOMMENDATIONS\n%s\n",
		strings.Repeat("=", 50), strings.Repeat("=", 50))
	switch {
	case pct >= 90:
		a.printf("Goal: Maintain Excellence\n")
		a.printf("- Continue your excellent study habits\n")
		a.printf("- Consider becoming a peer tutor\n")
	case pct >= 80:
		a.printf("Goal: Achieve Excellence (90%%+)\n")
		a.printf("- Review missed questions more thoroughly\n")
		a.printf("- You need %.1f%% improvement\n", 90-pct)
	case pct >= 70:
		a.printf("Goal: Reach Very Good Performance (80%%+)\n")
		a.printf("- Create a regular study schedule\n")
		a.printf("- You need %.1f%% improvement\n", 80-pct)
	case pct >= 60:
		a.printf("Goal: Achieve Good Performance (70%%+)\n")
		a.printf("- Meet with teachers for extra help\n")
		a.printf("- You need %.1f%% improvement\n", 70-pct)
	default:
		a.printf("Priority Goal: Reach Passing Grade (60%%+)\n")
		a.printf("- Schedule immediate meetings with teachers\n")
		a.printf("- You need %.1f%% improvement\n", 60-pct)
	}
	a.printf("\nRemember: Every assignment is an opportunity to improve!\n")
}
